package sheetdash

import (
	"bytes"
	"encoding/json"
)

// Record is one data row keyed by normalized header names.
// Keys keep the column order of the header row.
type Record struct {
	Row    int               // 行番号 (1-based spreadsheet row, header is row 1)
	keys   []string          // カラム順
	values map[string]string // カラム名と値のマップ
}

// NewRecord creates an empty record for the given spreadsheet row
func NewRecord(row int) *Record {
	return &Record{
		Row:    row,
		values: make(map[string]string),
	}
}

// Set stores a value. A key that already exists keeps its position and takes the new value.
func (r *Record) Set(key string, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether it exists
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// GetAsString returns the value or defaultValue if not found
func (r *Record) GetAsString(key string, defaultValue string) string {
	if v, ok := r.values[key]; ok {
		return v
	}
	return defaultValue
}

// Keys returns the keys in header column order
func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of keys
func (r *Record) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the record as a JSON object with keys in column order
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}
