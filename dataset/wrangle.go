package dataset

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/visionsmart/insight/pkg/errors"
	"github.com/visionsmart/insight/pkg/log"
)

// Join inner-joins two datasets on key: each left row is attached to the
// first right row holding an equal key value, and unmatched left rows are
// dropped. Right-side columns that collide with left-side names (other than
// the key) are renamed with the right dataset's name as a prefix.
func Join(left, right *Dataset, key string) (*Dataset, error) {
	if left.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyDataset, "join: left dataset")
	}
	if right.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyDataset, "join: right dataset")
	}
	if _, ok := left.Rows[0][key]; !ok {
		return nil, errors.NewJoinError(key, "left")
	}
	if _, ok := right.Rows[0][key]; !ok {
		return nil, errors.NewJoinError(key, "right")
	}

	// First match wins; Value canonicalizes numeric text so "7" joins 7.
	index := make(map[Value]Record, right.Len())
	for _, row := range right.Rows {
		v := row.Value(key)
		if v.IsNull() {
			continue
		}
		ck := v.canonical()
		if _, seen := index[ck]; !seen {
			index[ck] = row
		}
	}

	rename := make(map[string]string, len(right.Columns))
	columns := append([]string(nil), left.Columns...)
	for _, col := range right.Columns {
		if col == key {
			continue
		}
		name := col
		if left.HasColumn(col) {
			name = fmt.Sprintf("%s_%s", right.Name, col)
		}
		rename[col] = name
		columns = append(columns, name)
	}

	rows := make([]Record, 0, left.Len())
	for _, lrow := range left.Rows {
		v := lrow.Value(key)
		if v.IsNull() {
			continue
		}
		rrow, ok := index[v.canonical()]
		if !ok {
			continue
		}
		merged := lrow.Clone()
		for col, name := range rename {
			merged[name] = rrow.Value(col)
		}
		rows = append(rows, merged)
	}

	log.GetLoggerWithName("dataset.join").Debug("joined datasets",
		"left", left.Name, "right", right.Name, "key", key,
		"left_rows", left.Len(), "right_rows", right.Len(), "matched", len(rows))

	return derive(fmt.Sprintf("%s_%s", left.Name, right.Name), columns, rows), nil
}

// Union concatenates the rows of the given datasets. Columns missing from a
// source are null for its rows. Column order follows the first dataset, then
// any new columns in encounter order.
func Union(datasets ...*Dataset) (*Dataset, error) {
	if len(datasets) == 0 {
		return nil, errors.NewValueError("dataset.Union", "no datasets given")
	}

	var columns []string
	seen := make(map[string]bool)
	total := 0
	for _, ds := range datasets {
		for _, col := range ds.Columns {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
		total += ds.Len()
	}

	rows := make([]Record, 0, total)
	for _, ds := range datasets {
		for _, row := range ds.Rows {
			rows = append(rows, row.Clone())
		}
	}

	return derive(datasets[0].Name, columns, rows), nil
}

// Filter keeps the rows for which pred returns true.
func Filter(ds *Dataset, pred func(Record) bool) *Dataset {
	rows := make([]Record, 0, ds.Len())
	for _, row := range ds.Rows {
		if pred(row) {
			rows = append(rows, row.Clone())
		}
	}
	return derive(ds.Name, ds.Columns, rows)
}

// SampleOption configures Sample.
type SampleOption func(*sampleConfig)

type sampleConfig struct {
	seed   int64
	seeded bool
}

// WithSeed makes Sample deterministic. Without it, sampling uses a
// time-derived seed and two calls on the same dataset may differ.
func WithSeed(seed int64) SampleOption {
	return func(c *sampleConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// Sample draws a uniform random subset of min(n, len) rows without
// replacement, preserving the original row order.
func Sample(ds *Dataset, n int, opts ...SampleOption) *Dataset {
	var cfg sampleConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.seeded {
		cfg.seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(cfg.seed))

	if n >= ds.Len() {
		return Filter(ds, func(Record) bool { return true })
	}
	if n < 0 {
		n = 0
	}

	picked := rng.Perm(ds.Len())[:n]
	sort.Ints(picked)

	rows := make([]Record, 0, n)
	for _, i := range picked {
		rows = append(rows, ds.Rows[i].Clone())
	}
	return derive(ds.Name, ds.Columns, rows)
}

// DropColumn removes a column from every row.
func DropColumn(ds *Dataset, name string) (*Dataset, error) {
	if !ds.HasColumn(name) {
		return nil, errors.NewInvalidColumnError("dataset.DropColumn", name, ds.Name)
	}

	columns := make([]string, 0, len(ds.Columns)-1)
	for _, col := range ds.Columns {
		if col != name {
			columns = append(columns, col)
		}
	}

	rows := make([]Record, 0, ds.Len())
	for _, row := range ds.Rows {
		out := row.Clone()
		delete(out, name)
		rows = append(rows, out)
	}
	return derive(ds.Name, columns, rows), nil
}

// RemoveRowsWithMissing drops rows holding a null in any of the given
// columns. With no columns given, every declared column must be populated.
func RemoveRowsWithMissing(ds *Dataset, columns ...string) (*Dataset, error) {
	if len(columns) == 0 {
		columns = ds.Columns
	} else {
		for _, col := range columns {
			if !ds.HasColumn(col) {
				return nil, errors.NewInvalidColumnError("dataset.RemoveRowsWithMissing", col, ds.Name)
			}
		}
	}

	rows := make([]Record, 0, ds.Len())
	for _, row := range ds.Rows {
		complete := true
		for _, col := range columns {
			if row.IsNull(col) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, row.Clone())
		}
	}
	return derive(ds.Name, ds.Columns, rows), nil
}

// ApplyTransformation replaces each row's cell at column with fn(cell). A
// failing or panicking fn degrades that single cell to null; the rest of the
// operation proceeds, keeping pipelines resilient to dirty data.
func ApplyTransformation(ds *Dataset, column string, fn func(Value) (Value, error)) (*Dataset, error) {
	if !ds.HasColumn(column) {
		return nil, errors.NewInvalidColumnError("dataset.ApplyTransformation", column, ds.Name)
	}

	logger := log.GetLoggerWithName("dataset.transform")
	failed := 0

	rows := make([]Record, 0, ds.Len())
	for _, row := range ds.Rows {
		out := row.Clone()
		var transformed Value
		err := errors.SafeExecute("dataset.ApplyTransformation", func() error {
			var txErr error
			transformed, txErr = fn(out.Value(column))
			return txErr
		})
		if err != nil {
			transformed = Null()
			failed++
		}
		out[column] = transformed
		rows = append(rows, out)
	}

	if failed > 0 {
		logger.Warn("transformation failed on some cells; set to null",
			"dataset", ds.Name, "column", column, "failed_cells", failed)
	}
	return derive(ds.Name, ds.Columns, rows), nil
}
