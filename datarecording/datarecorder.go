// Package datarecording stores simulation results as database tables. Each
// table is described by a sample struct whose exported fields become columns.
package datarecording

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fatih/structs"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table with the fields of the sample entry as
	// columns.
	CreateTable(tableName string, sampleEntry any)

	// InsertData writes an entry into a table that already exists. The entry
	// must have the same type as the sample entry of the table.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all tables
	ListTables() []string

	// Flush writes all the buffered entries into the database
	Flush()

	// Close flushes and releases the database.
	Close() error
}

// RecorderConfig selects and configures a recording backend.
type RecorderConfig struct {
	// Type is "sqlite" or "clickhouse". Empty means "sqlite".
	Type string

	// Path is the SQLite file name without the .sqlite3 extension.
	Path string

	// ConnStr is a ClickHouse DSN. When set, it takes precedence over the
	// individual connection fields.
	ConnStr  string
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// BatchSize is the number of buffered entries that triggers a flush.
	BatchSize int
}

// ConfigFromTarget interprets a command-line database target. A
// clickhouse:// URL selects ClickHouse, anything else is a SQLite path.
func ConfigFromTarget(target string) RecorderConfig {
	if strings.HasPrefix(target, "clickhouse://") {
		return RecorderConfig{Type: "clickhouse", ConnStr: target}
	}

	return RecorderConfig{Type: "sqlite", Path: target}
}

// NewDataRecorderWithConfig creates the backend described by the config.
func NewDataRecorderWithConfig(cfg RecorderConfig) DataRecorder {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100000
	}

	switch cfg.Type {
	case "", "sqlite":
		return newSQLiteWriter(cfg.Path, cfg.BatchSize)
	case "clickhouse":
		return newClickHouseRecorder(cfg)
	default:
		panic(fmt.Sprintf("unknown data recorder type %q", cfg.Type))
	}
}

type table struct {
	structType reflect.Type
	entries    []any
}

func isAllowedType(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)
	if types == nil || types.Kind() != reflect.Struct {
		return fmt.Errorf("entry %T is not a struct", entry)
	}

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)

		fieldKind := field.Type.Kind()
		if !isAllowedType(fieldKind) {
			return errors.New("entry is invalid")
		}
	}

	return nil
}

func mustBeSameType(t *table, tableName string, entry any) {
	if reflect.TypeOf(entry) != t.structType {
		panic(fmt.Sprintf("table %s stores %s, got %T",
			tableName, t.structType, entry))
	}
}

func fieldValues(entry any) []any {
	v := []any{}

	values := reflect.ValueOf(entry)
	for i := 0; i < values.NumField(); i++ {
		v = append(v, values.Field(i).Interface())
	}

	return v
}

func columnNames(sampleEntry any) []string {
	return structs.Names(sampleEntry)
}
