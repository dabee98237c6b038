package compiler

import (
	"math"

	"github.com/kai-65537/AOLOT-scoreboard/internal/errors"
)

// fields is one decoded TOML table plus the subject used in error messages
type fields struct {
	subject string
	prefix  string
	values  map[string]any
}

func newFields(subject string, values map[string]any) fields {
	return fields{subject: subject, values: values}
}

// sub returns the nested table at key, or ok=false when absent
func (f fields) sub(key string) (fields, bool, error) {
	raw, present := f.values[key]
	if !present {
		return fields{}, false, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return fields{}, false, errors.Schemaf(f.subject, f.name(key), "must be a table")
	}
	return fields{subject: f.subject, prefix: f.name(key) + ".", values: m}, true, nil
}

func (f fields) name(key string) string {
	return f.prefix + key
}

func (f fields) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f fields) keys() []string {
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	return keys
}

func (f fields) optString(key string) (string, bool, error) {
	raw, present := f.values[key]
	if !present {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, errors.Schemaf(f.subject, f.name(key), "must be a string")
	}
	return s, true, nil
}

func (f fields) optInt(key string) (int, bool, error) {
	raw, present := f.values[key]
	if !present {
		return 0, false, nil
	}
	n, ok := raw.(int64)
	if !ok {
		return 0, false, errors.Schemaf(f.subject, f.name(key), "must be an integer")
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false, errors.Schemaf(f.subject, f.name(key), "%d is out of range", n)
	}
	return int(n), true, nil
}

func (f fields) optBool(key string) (bool, bool, error) {
	raw, present := f.values[key]
	if !present {
		return false, false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, false, errors.Schemaf(f.subject, f.name(key), "must be a boolean")
	}
	return b, true, nil
}

// optFloat accepts both TOML floats and integers
func (f fields) optFloat(key string) (float64, bool, error) {
	raw, present := f.values[key]
	if !present {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case int64:
		return float64(v), true, nil
	}
	return 0, false, errors.Schemaf(f.subject, f.name(key), "must be a number")
}

func (f fields) reqInt(key string) (int, error) {
	n, ok, err := f.optInt(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.Schemaf(f.subject, f.name(key), "is required")
	}
	return n, nil
}
