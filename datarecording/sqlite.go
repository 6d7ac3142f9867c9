package datarecording

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"reflect"
	"sort"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// New creates a new DataRecorder that writes into a SQLite file. An empty path
// picks a unique name.
func New(path string) DataRecorder {
	return newSQLiteWriter(path, 100000)
}

// NewWithDB creates a DataRecorder on a database that is already open. No
// execution information is recorded.
func NewWithDB(db *sql.DB) DataRecorder {
	w := &sqliteWriter{
		DB:        db,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

func newSQLiteWriter(path string, batchSize int) *sqliteWriter {
	w := &sqliteWriter{
		DB:        openSQLite(path),
		batchSize: batchSize,
		tables:    make(map[string]*table),
	}

	w.exec = newExecRecorder(w)
	w.exec.Start()

	atexit.Register(func() { w.Flush() })

	return w
}

// openSQLite creates a new database file. It refuses to reuse a file so that
// results from different runs never mix.
func openSQLite(path string) *sql.DB {
	if path == "" {
		path = "nocsim_" + xid.New().String()
	}

	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		log.Panicf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		log.Panicf("opening %s: %v", filename, err)
	}

	fmt.Fprintf(os.Stderr, "Recording results to %s\n", filename)

	return db
}

// sqliteWriter buffers entries and writes them into SQLite in one transaction
// per flush.
type sqliteWriter struct {
	*sql.DB

	tables     map[string]*table
	batchSize  int
	entryCount int
	exec       *execRecorder
}

func sqliteType(kind reflect.Kind) string {
	switch kind {
	case reflect.Float32, reflect.Float64:
		return "REAL"
	case reflect.String:
		return "TEXT"
	default:
		return "INTEGER"
	}
}

func sqliteCreateTableSQL(tableName string, sampleEntry any) string {
	t := reflect.TypeOf(sampleEntry)
	names := columnNames(sampleEntry)

	columns := make([]string, len(names))
	for i, name := range names {
		f, _ := t.FieldByName(name)
		columns[i] = name + " " + sqliteType(f.Type.Kind())
	}

	return "CREATE TABLE " + tableName + " (\n\t" +
		strings.Join(columns, ",\n\t") + "\n);"
}

func sqliteInsertSQL(tableName string, numColumns int) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", numColumns), ", ")
	return "INSERT INTO " + tableName + " VALUES (" + marks + ")"
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	if err := checkStructFields(sampleEntry); err != nil {
		log.Panicf("table %s: %v", tableName, err)
	}

	if _, exists := w.tables[tableName]; exists {
		log.Panicf("table %s already exists", tableName)
	}

	w.mustExecute(sqliteCreateTableSQL(tableName, sampleEntry))

	w.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
	}
}

func (w *sqliteWriter) InsertData(tableName string, entry any) {
	t, exists := w.tables[tableName]
	if !exists {
		log.Panicf("table %s does not exist", tableName)
	}

	mustBeSameType(t, tableName, entry)

	t.entries = append(t.entries, entry)

	w.entryCount++
	if w.entryCount >= w.batchSize {
		w.Flush()
	}
}

func (w *sqliteWriter) ListTables() []string {
	names := make([]string, 0, len(w.tables))
	for name := range w.tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (w *sqliteWriter) Flush() {
	if w.entryCount == 0 {
		return
	}

	tx, err := w.Begin()
	if err != nil {
		log.Panicf("starting transaction: %v", err)
	}

	for _, name := range w.ListTables() {
		t := w.tables[name]
		if len(t.entries) == 0 {
			continue
		}

		w.insertEntries(tx, name, t)
		t.entries = nil
	}

	if err := tx.Commit(); err != nil {
		log.Panicf("committing transaction: %v", err)
	}

	w.entryCount = 0
}

func (w *sqliteWriter) insertEntries(tx *sql.Tx, name string, t *table) {
	stmt, err := tx.Prepare(sqliteInsertSQL(name, t.structType.NumField()))
	if err != nil {
		log.Panicf("preparing insert into %s: %v", name, err)
	}
	defer stmt.Close()

	for _, entry := range t.entries {
		if _, err := stmt.Exec(fieldValues(entry)...); err != nil {
			log.Panicf("inserting into %s: %v", name, err)
		}
	}
}

func (w *sqliteWriter) Close() error {
	if w.exec != nil {
		w.exec.End()
		w.exec = nil
	}

	w.Flush()

	return w.DB.Close()
}

func (w *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := w.Exec(query)
	if err != nil {
		log.Panicf("executing %q: %v", query, err)
	}

	return res
}
