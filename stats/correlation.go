// Package stats provides the correlation analyses of the insight engine.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/pkg/errors"
)

// CorrelationMatrix holds pairwise Pearson coefficients for an ordered set of
// numeric columns. It is symmetric with a unit diagonal and every entry in
// [-1, 1].
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the coefficient for a column pair.
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// PearsonCorrelation computes the Pearson coefficient over paired
// observations, ignoring pairs where either side is NaN. It returns 0 when
// fewer than two valid pairs remain or either series has zero variance.
func PearsonCorrelation(xs, ys []float64) float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}

	px := make([]float64, 0, n)
	py := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		px = append(px, xs[i])
		py = append(py, ys[i])
	}
	if len(px) < 2 {
		return 0
	}

	r := stat.Correlation(px, py, nil)
	if math.IsNaN(r) {
		// Zero variance in either series.
		return 0
	}
	return r
}

// Correlations computes the pairwise Pearson matrix over the given numeric
// columns using pairwise-complete observations: a null in one pair does not
// exclude that row from other pairs.
func Correlations(ds *dataset.Dataset, numericColumns []string) (*CorrelationMatrix, error) {
	const op = "stats.Correlations"

	if ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyDataset, op)
	}
	if len(numericColumns) == 0 {
		return nil, errors.NewValueError(op, "no numeric columns given")
	}
	for _, col := range numericColumns {
		if !ds.HasColumn(col) {
			return nil, errors.NewInvalidColumnError(op, col, ds.Name)
		}
	}

	// One pass per column: NaN marks a null or non-numeric cell, filtered
	// pairwise by PearsonCorrelation.
	series := make([][]float64, len(numericColumns))
	for i, col := range numericColumns {
		vals := make([]float64, ds.Len())
		for r, row := range ds.Rows {
			if f, ok := row.Float(col); ok {
				vals[r] = f
			} else {
				vals[r] = math.NaN()
			}
		}
		series[i] = vals
	}

	values := make([][]float64, len(numericColumns))
	for i := range values {
		values[i] = make([]float64, len(numericColumns))
		values[i][i] = 1
	}
	for i := 0; i < len(numericColumns); i++ {
		for j := i + 1; j < len(numericColumns); j++ {
			r := PearsonCorrelation(series[i], series[j])
			values[i][j] = r
			values[j][i] = r
		}
	}

	return &CorrelationMatrix{
		Columns: append([]string(nil), numericColumns...),
		Values:  values,
	}, nil
}
