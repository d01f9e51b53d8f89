// Package forecast implements linear-trend time-series forecasting: a least
// squares fit of value against chronological position, extrapolated over a
// requested horizon.
package forecast

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/pkg/errors"
	"github.com/visionsmart/insight/pkg/log"
)

// Trend labels the fitted slope direction.
type Trend string

const (
	// Up means the fitted slope is positive.
	Up Trend = "up"
	// Down means the fitted slope is negative.
	Down Trend = "down"
	// Flat means the slope is indistinguishable from zero.
	Flat Trend = "flat"
)

// Point is one dated observation or projection.
type Point struct {
	Date  time.Time
	Value float64
}

// Result holds the historical series, the projected series, and the overall
// growth diagnostics. The forecast starts one period after the last
// historical date.
type Result struct {
	Historical []Point
	Forecast   []Point
	Slope      float64
	Intercept  float64
	GrowthRate float64
	Trend      Trend
}

// slopeEpsilon separates a flat trend from a directional one.
const slopeEpsilon = 1e-6

// Forecast fits a linear trend to valueCol ordered by dateCol and projects
// it periods steps past the last observation. The step length is the spacing
// between consecutive historical dates, or one day when spacing is irregular.
func Forecast(ds *dataset.Dataset, dateCol, valueCol string, periods int) (*Result, error) {
	const op = "forecast.Forecast"

	if periods < 1 {
		return nil, errors.NewConfigurationError("periods", "must be at least 1", periods)
	}
	if ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyDataset, op)
	}
	if !ds.HasColumn(dateCol) {
		return nil, errors.NewInvalidColumnError(op, dateCol, ds.Name)
	}
	if !ds.HasColumn(valueCol) {
		return nil, errors.NewInvalidColumnError(op, valueCol, ds.Name)
	}

	historical := make([]Point, 0, ds.Len())
	for _, row := range ds.Rows {
		t, okDate := dataset.ParseDate(row.Value(dateCol))
		v, okVal := row.Float(valueCol)
		if !okDate || !okVal {
			continue
		}
		historical = append(historical, Point{Date: t, Value: v})
	}
	if len(historical) < 2 {
		return nil, errors.NewInsufficientDataError(op, 2, len(historical))
	}
	sort.Slice(historical, func(i, j int) bool {
		return historical[i].Date.Before(historical[j].Date)
	})

	// Trend over ordinal position, the single-feature least squares fit.
	xs := make([]float64, len(historical))
	ys := make([]float64, len(historical))
	for i, p := range historical {
		xs[i] = float64(i)
		ys[i] = p.Value
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	step := periodStep(historical)
	forecast := make([]Point, periods)
	last := historical[len(historical)-1].Date
	n := len(historical)
	for i := 0; i < periods; i++ {
		forecast[i] = Point{
			Date:  last.Add(time.Duration(i+1) * step),
			Value: intercept + slope*float64(n+i),
		}
	}

	result := &Result{
		Historical: historical,
		Forecast:   forecast,
		Slope:      slope,
		Intercept:  intercept,
		GrowthRate: errors.SafeDivide(forecast[periods-1].Value-historical[0].Value, historical[0].Value),
		Trend:      classifyTrend(slope),
	}

	log.GetLoggerWithName("forecast.trend").Debug("fitted trend",
		"observations", n, "periods", periods,
		"slope", slope, "trend", string(result.Trend))
	return result, nil
}

// periodStep infers the forecast spacing: the common difference between
// consecutive historical dates, or one day when the series is irregular.
func periodStep(historical []Point) time.Duration {
	const day = 24 * time.Hour

	step := historical[1].Date.Sub(historical[0].Date)
	if step <= 0 {
		return day
	}
	for i := 2; i < len(historical); i++ {
		if historical[i].Date.Sub(historical[i-1].Date) != step {
			return day
		}
	}
	return step
}

func classifyTrend(slope float64) Trend {
	switch {
	case slope > slopeEpsilon:
		return Up
	case slope < -slopeEpsilon:
		return Down
	default:
		return Flat
	}
}
