// Package normalize coerces known synthetic fields in extracted records to
// canonical types. Models are loose with scalar types: a confidence of 80
// may come back as "80" or 80.0, and boolean flags arrive as strings or
// 0/1. Only the fields named here are touched; a value that cannot be
// coerced passes through unchanged rather than failing the pipeline.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tabled-dev/tabled/internal/table"
)

// Normalize returns a new table with known fields coerced. It is pure,
// order-preserving, field-count-preserving, and idempotent. It must not be
// applied to a fallback table, only to genuinely extracted records.
func Normalize(t table.Table) table.Table {
	if t == nil {
		return nil
	}
	out := make(table.Table, 0, len(t))
	for _, rec := range t {
		nr := table.NewRecord()
		for _, key := range rec.Keys() {
			v, _ := rec.Get(key)
			nr.Set(key, coerceField(key, v))
		}
		out = append(out, nr)
	}
	return out
}

func coerceField(key string, v any) any {
	switch key {
	case "confidence":
		return toInt(v)
	case "actionTaken", "isNew":
		return toBool(v)
	case "timestamp":
		return toString(v)
	default:
		return v
	}
}

// toInt coerces string and floating-point inputs to an integer, truncating
// fractional parts. Unconvertible values pass through.
func toInt(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
		return v
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}
		return v
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return v
	}
}

// toBool coerces string and integer inputs to a boolean. Unconvertible
// values pass through.
func toBool(v any) any {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
		return v
	case json.Number:
		if i, err := b.Int64(); err == nil {
			return i != 0
		}
		return v
	case int64:
		return b != 0
	default:
		return v
	}
}

// toString coerces scalar values to their string representation. Strings
// pass through; nested values are left alone.
func toString(v any) any {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return v
	case *table.Record, []any:
		return v
	default:
		return fmt.Sprintf("%v", s)
	}
}
