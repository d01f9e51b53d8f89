// Package dataset defines the tabular data model the insight engine operates
// on — loosely typed rows sharing a mostly common column set — together with
// the wrangling operators (join, union, filter, sample, column edits) and
// on-demand statistical profiling. Every operator returns a new Dataset and
// never mutates its input.
package dataset

import (
	"github.com/google/uuid"
)

// Record is one row: a mapping from column name to cell value. An absent key
// is equivalent to a null cell.
type Record map[string]Value

// Value returns the cell at column, or null when the column is absent.
func (r Record) Value(column string) Value {
	return r[column]
}

// Float returns the numeric content of the cell at column.
func (r Record) Float(column string) (float64, bool) {
	return r[column].Float()
}

// IsNull reports whether the cell at column is absent or null.
func (r Record) IsNull(column string) bool {
	return r[column].IsNull()
}

// Clone returns a shallow-independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is a named, ordered sequence of records. Columns carries the
// display order; rows may omit columns (treated as null) and may carry
// stragglers not listed here.
type Dataset struct {
	ID      string
	Name    string
	Columns []string
	Rows    []Record
}

// New creates a dataset with a fresh identifier. The column list fixes
// presentation and join order; it is not a schema.
func New(name string, columns []string, rows []Record) *Dataset {
	return &Dataset{
		ID:      uuid.NewString(),
		Name:    name,
		Columns: append([]string(nil), columns...),
		Rows:    rows,
	}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether name is part of the declared column order.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// derive constructs a new dataset from an operator's output, keeping the
// source name for traceability but assigning a fresh identifier.
func derive(name string, columns []string, rows []Record) *Dataset {
	return New(name, columns, rows)
}
