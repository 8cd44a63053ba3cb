// Package rowset normalizes the two record shapes returned by the CRM APIs
// into a single canonical form. The query API returns flat records keyed by
// apiName; the tabular reporting API returns parallel fieldName/value entries.
// Normalization happens once at fetch time so the rest of the pipeline only
// ever sees the flat shape.
package rowset

import (
	"fmt"
	"strconv"
	"strings"
)

// Flat is the canonical row shape: apiName -> display value.
type Flat map[string]string

// FieldValue is one entry of the tabular-API row shape.
type FieldValue struct {
	FieldName string `json:"fieldName"`
	Value     any    `json:"value"`
}

// Shape tags the origin of a Row.
type Shape int

const (
	ShapeFlat Shape = iota
	ShapeColumnar
)

// Row is a tagged variant over the two source shapes. Construct with FromFlat
// or FromColumnar and call Normalize exactly once per fetch.
type Row struct {
	shape    Shape
	flat     map[string]any
	columnar []FieldValue
}

// FromFlat wraps a flat record as returned by the query API.
func FromFlat(record map[string]any) Row {
	return Row{shape: ShapeFlat, flat: record}
}

// FromColumnar wraps a tabular-API row.
func FromColumnar(entries []FieldValue) Row {
	return Row{shape: ShapeColumnar, columnar: entries}
}

// Shape reports which source shape the row carries.
func (r Row) Shape() Shape { return r.shape }

// Normalize converts the row to the canonical flat shape. Values are
// stringified the way the portal displays them; nil values become empty
// strings rather than the literal "null". The source row is not retained.
func (r Row) Normalize() Flat {
	switch r.shape {
	case ShapeColumnar:
		out := make(Flat, len(r.columnar))
		for _, entry := range r.columnar {
			name := strings.TrimSpace(entry.FieldName)
			if name == "" {
				continue
			}
			out[name] = FormatValue(entry.Value)
		}
		return out
	default:
		out := make(Flat, len(r.flat))
		for name, value := range r.flat {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			out[name] = FormatValue(value)
		}
		return out
	}
}

// NormalizeAll normalizes a fetched batch in one pass.
func NormalizeAll(rows []Row) []Flat {
	if rows == nil {
		return nil
	}
	out := make([]Flat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Normalize())
	}
	return out
}

// Clone returns an independent copy. Form sessions edit copies so the fetched
// baseline is never mutated in place.
func (f Flat) Clone() Flat {
	if f == nil {
		return nil
	}
	out := make(Flat, len(f))
	for name, value := range f {
		out[name] = value
	}
	return out
}

// FormatValue stringifies a JSON-decoded cell value. Numbers keep their free
// decimal precision; booleans and nested values fall back to fmt semantics.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
