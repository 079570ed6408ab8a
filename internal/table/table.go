package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Table is an ordered sequence of records forming one dataset in transit.
// Each instance belongs to a single request/response cycle.
type Table []*Record

// UnmarshalJSON reads a JSON array of objects.
func (t *Table) UnmarshalJSON(data []byte) error {
	v, err := ParseValue(data)
	if err != nil {
		return err
	}
	tbl, ok := FromValue(v)
	if !ok {
		return fmt.Errorf("expected JSON array of objects")
	}
	*t = tbl
	return nil
}

// FromValue converts a parsed JSON value into a Table. The value must be an
// array whose elements are all objects.
func FromValue(v any) (Table, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	tbl := make(Table, 0, len(arr))
	for _, el := range arr {
		rec, ok := el.(*Record)
		if !ok {
			return nil, false
		}
		tbl = append(tbl, rec)
	}
	return tbl, true
}

// Equal reports whether two tables have the same records with the same
// fields in the same order. Comparison is by canonical JSON encoding.
func Equal(a, b Table) bool {
	if len(a) != len(b) {
		return false
	}
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// MarshalIndent renders the table as indented JSON for embedding in prompts.
func (t Table) MarshalIndent() (string, error) {
	if t == nil {
		t = Table{}
	}
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize table: %w", err)
	}
	return string(b), nil
}
