// Package preprocessing rescales numeric dataset columns ahead of modeling.
// Scalers follow the fit/transform split: Fit learns column statistics from
// one dataset, Transform applies them to any dataset with the same columns,
// so held-back rows can be scaled with training statistics.
package preprocessing

import (
	"fmt"
	"math"

	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/pkg/errors"
)

// zeroSpread guards constant columns: when a column's spread falls below it,
// the scale factor becomes 1 instead of dividing by ~0.
const zeroSpread = 1e-8

// StandardScaler shifts columns to mean 0 and scales them to unit standard
// deviation. Null and non-numeric cells pass through unchanged.
type StandardScaler struct {
	Columns []string
	Mean    map[string]float64
	Scale   map[string]float64

	fitted bool
}

// NewStandardScaler creates a scaler for the given columns.
func NewStandardScaler(columns ...string) *StandardScaler {
	return &StandardScaler{Columns: columns}
}

// Fit computes per-column mean and standard deviation from ds.
func (s *StandardScaler) Fit(ds *dataset.Dataset) error {
	const op = "preprocessing.StandardScaler.Fit"

	stats, err := columnStats(op, ds, s.Columns)
	if err != nil {
		return err
	}

	s.Mean = make(map[string]float64, len(s.Columns))
	s.Scale = make(map[string]float64, len(s.Columns))
	for col, cs := range stats {
		s.Mean[col] = cs.mean
		scale := cs.stddev
		if scale < zeroSpread {
			scale = 1.0
		}
		s.Scale[col] = scale
	}
	s.fitted = true
	return nil
}

// Transform returns a derived dataset with the fitted columns standardized.
func (s *StandardScaler) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if !s.fitted {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	return applyScaling("preprocessing.StandardScaler.Transform", ds, s.Columns, func(col string, v float64) float64 {
		return (v - s.Mean[col]) / s.Scale[col]
	})
}

// FitTransform fits on ds and transforms the same dataset.
func (s *StandardScaler) FitTransform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := s.Fit(ds); err != nil {
		return nil, err
	}
	return s.Transform(ds)
}

// InverseTransform maps standardized values back to the original scale.
func (s *StandardScaler) InverseTransform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if !s.fitted {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}
	return applyScaling("preprocessing.StandardScaler.InverseTransform", ds, s.Columns, func(col string, v float64) float64 {
		return v*s.Scale[col] + s.Mean[col]
	})
}

func (s *StandardScaler) String() string {
	return fmt.Sprintf("StandardScaler(columns=%v, fitted=%t)", s.Columns, s.fitted)
}

// MinMaxScaler maps columns linearly onto a target range, [0, 1] by default.
type MinMaxScaler struct {
	Columns []string
	Range   [2]float64
	DataMin map[string]float64
	DataMax map[string]float64

	fitted bool
}

// NewMinMaxScaler creates a [0, 1] scaler for the given columns.
func NewMinMaxScaler(columns ...string) *MinMaxScaler {
	return &MinMaxScaler{Columns: columns, Range: [2]float64{0, 1}}
}

// Fit records per-column extremes from ds.
func (m *MinMaxScaler) Fit(ds *dataset.Dataset) error {
	const op = "preprocessing.MinMaxScaler.Fit"

	stats, err := columnStats(op, ds, m.Columns)
	if err != nil {
		return err
	}

	m.DataMin = make(map[string]float64, len(m.Columns))
	m.DataMax = make(map[string]float64, len(m.Columns))
	for col, cs := range stats {
		m.DataMin[col] = cs.min
		m.DataMax[col] = cs.max
	}
	m.fitted = true
	return nil
}

// Transform returns a derived dataset with the fitted columns rescaled onto
// Range. Constant columns map to the lower bound.
func (m *MinMaxScaler) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if !m.fitted {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}
	width := m.Range[1] - m.Range[0]
	return applyScaling("preprocessing.MinMaxScaler.Transform", ds, m.Columns, func(col string, v float64) float64 {
		spread := m.DataMax[col] - m.DataMin[col]
		if spread < zeroSpread {
			return m.Range[0]
		}
		return (v-m.DataMin[col])/spread*width + m.Range[0]
	})
}

// FitTransform fits on ds and transforms the same dataset.
func (m *MinMaxScaler) FitTransform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := m.Fit(ds); err != nil {
		return nil, err
	}
	return m.Transform(ds)
}

// InverseTransform maps scaled values back to the original data range.
func (m *MinMaxScaler) InverseTransform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if !m.fitted {
		return nil, errors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}
	width := m.Range[1] - m.Range[0]
	if math.Abs(width) < zeroSpread {
		return nil, errors.NewConfigurationError("range", "target range has zero width", m.Range)
	}
	return applyScaling("preprocessing.MinMaxScaler.InverseTransform", ds, m.Columns, func(col string, v float64) float64 {
		return (v-m.Range[0])/width*(m.DataMax[col]-m.DataMin[col]) + m.DataMin[col]
	})
}

func (m *MinMaxScaler) String() string {
	return fmt.Sprintf("MinMaxScaler(columns=%v, range=[%g, %g], fitted=%t)",
		m.Columns, m.Range[0], m.Range[1], m.fitted)
}

type colStats struct {
	mean, stddev, min, max float64
}

// columnStats gathers numeric statistics for each requested column, skipping
// null and non-numeric cells.
func columnStats(op string, ds *dataset.Dataset, columns []string) (map[string]colStats, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyDataset, op)
	}
	if len(columns) == 0 {
		return nil, errors.NewConfigurationError("columns", "at least one column is required", columns)
	}

	out := make(map[string]colStats, len(columns))
	for _, col := range columns {
		if !ds.HasColumn(col) {
			return nil, errors.NewInvalidColumnError(op, col, ds.Name)
		}

		var (
			sum   float64
			count int
			min   = math.Inf(1)
			max   = math.Inf(-1)
		)
		for _, row := range ds.Rows {
			v, ok := row.Float(col)
			if !ok {
				continue
			}
			sum += v
			count++
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if count == 0 {
			return nil, errors.NewValueError(op, "column "+col+" has no numeric cells")
		}

		mean := sum / float64(count)
		var sq float64
		for _, row := range ds.Rows {
			if v, ok := row.Float(col); ok {
				d := v - mean
				sq += d * d
			}
		}
		out[col] = colStats{
			mean:   mean,
			stddev: math.Sqrt(sq / float64(count)),
			min:    min,
			max:    max,
		}
	}
	return out, nil
}

// applyScaling builds the derived dataset, replacing numeric cells in the
// scaled columns and leaving everything else untouched.
func applyScaling(op string, ds *dataset.Dataset, columns []string, scale func(col string, v float64) float64) (*dataset.Dataset, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyDataset, op)
	}

	scaled := make(map[string]bool, len(columns))
	for _, col := range columns {
		if !ds.HasColumn(col) {
			return nil, errors.NewInvalidColumnError(op, col, ds.Name)
		}
		scaled[col] = true
	}

	rows := make([]dataset.Record, 0, ds.Len())
	for _, row := range ds.Rows {
		out := row.Clone()
		for col := range scaled {
			if v, ok := row.Float(col); ok {
				out[col] = dataset.Number(scale(col, v))
			}
		}
		rows = append(rows, out)
	}
	return dataset.New(ds.Name, ds.Columns, rows), nil
}
