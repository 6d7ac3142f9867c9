// Package config provides the typed configuration lookups used to set up a
// simulation.
package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment variables that override
// configuration keys, e.g. NOCSIM_NUM_VCS overrides num_vcs.
const EnvPrefix = "NOCSIM_"

// ErrUnknownKey is returned when assigning a key the simulator does not know.
var ErrUnknownKey = errors.New("unknown configuration key")

// A Configuration holds the value of every configuration key. Values are
// integers, floats, strings, or lists of them.
type Configuration struct {
	values map[string]interface{}
}

// New creates a configuration that holds the default values.
func New() *Configuration {
	return &Configuration{values: Defaults()}
}

// Keys returns all the known keys in sorted order.
func (c *Configuration) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Has tells if the key is known.
func (c *Configuration) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Set assigns a value to a known key.
func (c *Configuration) Set(key string, value interface{}) error {
	if !c.Has(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	c.values[key] = normalize(value)

	return nil
}

// Assign parses a "key=value" pair and sets the key.
func (c *Configuration) Assign(pair string) error {
	key, value, found := strings.Cut(pair, "=")
	if !found {
		return fmt.Errorf("assignment %q must be in the form key=value", pair)
	}

	return c.Set(strings.TrimSpace(key), parseScalar(value))
}

// LoadFile reads a YAML file whose top level is a mapping from keys to values.
func (c *Configuration) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	return c.LoadYAML(data)
}

// LoadYAML reads YAML content whose top level is a mapping from keys to
// values.
func (c *Configuration) LoadYAML(data []byte) error {
	values := map[string]interface{}{}

	err := yaml.Unmarshal(data, &values)
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	for k, v := range values {
		err = c.Set(k, v)
		if err != nil {
			return err
		}
	}

	return nil
}

// LoadEnv applies overrides from .env files and from NOCSIM_* environment
// variables. The process environment wins over the files. Missing files are
// skipped.
func (c *Configuration) LoadEnv(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}

	fromFiles := map[string]string{}
	if len(existing) > 0 {
		var err error

		fromFiles, err = godotenv.Read(existing...)
		if err != nil {
			return fmt.Errorf("reading env files: %w", err)
		}
	}

	for _, key := range c.Keys() {
		envName := EnvPrefix + strings.ToUpper(key)

		value, ok := os.LookupEnv(envName)
		if !ok {
			value, ok = fromFiles[envName]
		}

		if ok {
			c.values[key] = parseScalar(value)
		}
	}

	return nil
}

// Dump writes the configuration as YAML.
func (c *Configuration) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()

	return enc.Encode(c.values)
}

func (c *Configuration) mustGet(key string) interface{} {
	v, ok := c.values[key]
	if !ok {
		log.Panicf("configuration key %s is not defined", key)
	}

	return v
}

// GetInt returns the value of the key as an integer.
func (c *Configuration) GetInt(key string) int {
	switch v := c.mustGet(key).(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			log.Panicf("configuration key %s (%q) is not an integer", key, v)
		}

		return i
	default:
		log.Panicf("configuration key %s is a list, not an integer", key)
	}

	return 0
}

// GetFloat returns the value of the key as a float.
func (c *Configuration) GetFloat(key string) float64 {
	switch v := c.mustGet(key).(type) {
	case int:
		return float64(v)
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			log.Panicf("configuration key %s (%q) is not a number", key, v)
		}

		return f
	default:
		log.Panicf("configuration key %s is a list, not a number", key)
	}

	return 0
}

// GetStr returns the value of the key if it is a string or a list, and an
// empty string if the key holds a number. Lists are rendered in the brace
// notation, so that a YAML list and the equivalent "{...}" string read the
// same.
func (c *Configuration) GetStr(key string) string {
	switch v := c.mustGet(key).(type) {
	case string:
		return v
	case []interface{}:
		return render(v)
	default:
		return ""
	}
}

// GetStrArray returns the top-level elements of the key.
func (c *Configuration) GetStrArray(key string) []string {
	switch v := c.mustGet(key).(type) {
	case string:
		return TokenizeStr(v)
	case []interface{}:
		out := make([]string, len(v))
		for i, e := range v {
			out[i] = render(e)
		}

		return out
	default:
		return []string{render(v)}
	}
}

// GetIntArray returns the top-level elements of the key as integers. A single
// integer becomes a one-element list.
func (c *Configuration) GetIntArray(key string) []int {
	tokens := c.GetStrArray(key)
	out := make([]int, len(tokens))

	for i, t := range tokens {
		v, err := strconv.Atoi(t)
		if err != nil {
			log.Panicf("configuration key %s has non-integer element %q", key, t)
		}

		out[i] = v
	}

	return out
}

// GetFloatArray returns the top-level elements of the key as floats. A single
// number becomes a one-element list.
func (c *Configuration) GetFloatArray(key string) []float64 {
	tokens := c.GetStrArray(key)
	out := make([]float64, len(tokens))

	for i, t := range tokens {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			log.Panicf("configuration key %s has non-numeric element %q", key, t)
		}

		out[i] = v
	}

	return out
}

func render(v interface{}) string {
	switch v := v.(type) {
	case []interface{}:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = render(e)
		}

		return "{" + strings.Join(parts, ",") + "}"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case int, float64, string:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float32:
		return float64(v)
	case bool:
		if v {
			return 1
		}

		return 0
	case []int:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = e
		}

		return out
	case []string:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = e
		}

		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}

		return out
	default:
		return fmt.Sprint(v)
	}
}

func parseScalar(s string) interface{} {
	s = strings.TrimSpace(s)

	if i, err := strconv.Atoi(s); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	return s
}
