// Package record holds the loosely-typed JSON records returned by the
// Intervals.icu API and the helpers used to read them safely.
package record

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Record is one domain object (activity, event, wellness entry, interval).
// No schema is fixed; every read goes through an optional accessor.
type Record map[string]any

// Get returns the value stored under key when it is present and not null.
func (r Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether key is present, even when its value is null.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// First returns the first present, non-null value among keys.
func (r Record) First(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r.Get(k); ok {
			return v, true
		}
	}
	return nil, false
}

// String returns the value under key when it is a string.
func (r Record) String(key string) (string, bool) {
	v, ok := r.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Number returns the value under key when it is numeric.
func (r Record) Number(key string) (float64, bool) {
	v, ok := r.Get(key)
	if !ok {
		return 0, false
	}
	return Number(v)
}

// Truthy reports whether the value under key is present and truthy.
func (r Record) Truthy(key string) bool {
	v, _ := r.Get(key)
	return Truthy(v)
}

// Map returns the nested object under key, or nil.
func (r Record) Map(key string) Record {
	v, ok := r.Get(key)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return Record(m)
}

// Slice returns the list under key, or nil.
func (r Record) Slice(key string) []any {
	v, ok := r.Get(key)
	if !ok {
		return nil
	}
	list, _ := v.([]any)
	return list
}

// Records returns the object elements of the list under key.
func (r Record) Records(key string) []Record {
	return records(r.Slice(key))
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Field is the alias list for one logical field. Lookups resolve to the
// first alias that is present and non-null.
type Field []string

// In resolves f against r.
func (f Field) In(r Record) (any, bool) {
	return r.First(f...)
}

// Number converts a decoded JSON value to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Truthy follows JSON-ish truthiness: null, false, 0, "" and empty
// collections are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case Record:
		return len(t) > 0
	}
	if n, ok := Number(v); ok {
		return n != 0
	}
	return true
}

// Text renders a decoded JSON value for human-readable output.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, Text(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any, Record:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
	if n, ok := Number(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func records(list []any) []Record {
	var out []Record
	for _, item := range list {
		switch m := item.(type) {
		case map[string]any:
			out = append(out, Record(m))
		case Record:
			out = append(out, m)
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
