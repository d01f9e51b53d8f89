package dataset

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/visionsmart/insight/pkg/errors"
)

// ColumnKind classifies a column's inferred content.
type ColumnKind string

const (
	// Numeric columns hold mostly parseable numbers.
	Numeric ColumnKind = "numeric"
	// Categorical columns hold discrete labels.
	Categorical ColumnKind = "categorical"
	// Date columns hold calendar dates.
	Date ColumnKind = "date"
)

// ColumnProfile summarizes one column: inferred kind, population counts and,
// for numeric columns, the basic distribution statistics. Profiles are
// derived views, recomputed on demand and never stored on the Dataset.
type ColumnProfile struct {
	Name   string
	Kind   ColumnKind
	Count  int // non-null cells
	Nulls  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// profileSampleSize caps how many non-null cells kind inference inspects.
const profileSampleSize = 50

// Profile computes one profile per column: the declared columns first, then
// any stragglers encountered in rows (sorted, so output is deterministic).
func Profile(ds *Dataset) ([]ColumnProfile, error) {
	if ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyDataset, "dataset.Profile")
	}

	columns := append([]string(nil), ds.Columns...)
	declared := make(map[string]bool, len(columns))
	for _, col := range columns {
		declared[col] = true
	}
	var extras []string
	for _, row := range ds.Rows {
		for col := range row {
			if !declared[col] {
				declared[col] = true
				extras = append(extras, col)
			}
		}
	}
	sort.Strings(extras)
	columns = append(columns, extras...)

	profiles := make([]ColumnProfile, 0, len(columns))
	for _, col := range columns {
		profiles = append(profiles, profileColumn(ds, col))
	}
	return profiles, nil
}

func profileColumn(ds *Dataset, column string) ColumnProfile {
	p := ColumnProfile{Name: column}

	var sample []Value
	var numbers []float64
	for _, row := range ds.Rows {
		v := row.Value(column)
		if v.IsNull() {
			p.Nulls++
			continue
		}
		p.Count++
		if len(sample) < profileSampleSize {
			sample = append(sample, v)
		}
		if f, ok := v.Float(); ok {
			numbers = append(numbers, f)
		}
	}

	p.Kind = inferKind(column, sample)
	if p.Kind == Numeric && len(numbers) > 0 {
		p.Mean = stat.Mean(numbers, nil)
		if len(numbers) > 1 {
			p.StdDev = stat.StdDev(numbers, nil)
		}
		p.Min = floats.Min(numbers)
		p.Max = floats.Max(numbers)
	}
	return p
}

// inferKind applies the classification rules: a majority of sampled values
// parsing as numbers makes the column numeric; a date-like name token or
// date-parseable values make it a date; anything else is categorical.
func inferKind(name string, sample []Value) ColumnKind {
	if len(sample) == 0 {
		return Categorical
	}

	numeric := 0
	dates := 0
	for _, v := range sample {
		if _, ok := v.Float(); ok {
			numeric++
		} else if _, ok := ParseDate(v); ok {
			dates++
		}
	}

	if numeric*2 > len(sample) {
		return Numeric
	}
	if hasDateToken(name) || dates*2 > len(sample) {
		return Date
	}
	return Categorical
}

var dateTokens = []string{"date", "time", "day", "month", "year", "created", "updated", "timestamp"}

func hasDateToken(name string) bool {
	lower := strings.ToLower(name)
	for _, token := range dateTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
