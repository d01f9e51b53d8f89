// Package linear implements the ordinary-least-squares regression trainer.
// Features are assembled from one or more datasets ahead of time (see
// dataset.PrepareMultiSourceData); the fit solves the normal equations
// (XᵀX)β = Xᵀy over the rows that are fully populated.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/visionsmart/insight/core/parallel"
	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/metrics"
	"github.com/visionsmart/insight/pkg/errors"
	"github.com/visionsmart/insight/pkg/log"
)

// PredictionPair couples an observed target with the model's prediction for
// the same training row.
type PredictionPair struct {
	Actual    float64
	Predicted float64
}

// Model is an immutable fitted regression: one coefficient per feature
// column plus an intercept, with in-sample diagnostics.
type Model struct {
	FeatureColumns []string
	Coefficients   []float64
	Intercept      float64
	R2             float64
	MAE            float64
	Fitted         []PredictionPair
}

// rows below this count are assembled sequentially
const parallelThreshold = 1000

// Train fits an OLS regression of target on the feature columns. Rows with a
// null or non-numeric value in the target or any feature are excluded before
// fitting; fewer than len(features)+2 surviving rows is an error.
func Train(rows []dataset.Record, target string, features []string) (*Model, error) {
	const op = "linear.Train"

	if len(features) == 0 {
		return nil, errors.NewConfigurationError("features", "at least one feature column is required", features)
	}
	for _, f := range features {
		if f == target {
			return nil, errors.NewConfigurationError("features", "target column cannot also be a feature", f)
		}
	}

	xs, ys := numericRows(rows, target, features)
	minRows := len(features) + 2
	if len(xs) < minRows {
		return nil, errors.NewInsufficientDataError(op, minRows, len(xs))
	}

	n := len(xs)
	p := len(features)

	// Design matrix with a leading column of ones for the intercept.
	X := mat.NewDense(n, p+1, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			X.Set(i, 0, 1)
			for j := 0; j < p; j++ {
				X.Set(i, j+1, xs[i][j])
			}
		}
	})
	y := mat.NewVecDense(n, ys)

	// Normal equations: β = (XᵀX)⁻¹ Xᵀy.
	var xt mat.Dense
	xt.CloneFrom(X.T())

	var xtx mat.Dense
	xtx.Mul(&xt, X)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, errors.Wrap(errors.ErrSingularMatrix, op)
	}

	var xty mat.VecDense
	xty.MulVec(&xt, y)

	beta := mat.NewVecDense(p+1, nil)
	beta.MulVec(&inv, &xty)

	model := &Model{
		FeatureColumns: append([]string(nil), features...),
		Coefficients:   make([]float64, p),
		Intercept:      beta.AtVec(0),
	}
	for j := 0; j < p; j++ {
		model.Coefficients[j] = beta.AtVec(j + 1)
	}

	predicted := make([]float64, n)
	model.Fitted = make([]PredictionPair, n)
	for i := 0; i < n; i++ {
		pred := model.Intercept
		for j := 0; j < p; j++ {
			pred += model.Coefficients[j] * xs[i][j]
		}
		predicted[i] = pred
		model.Fitted[i] = PredictionPair{Actual: ys[i], Predicted: pred}
	}

	var err error
	if model.R2, err = metrics.RSquared(ys, predicted); err != nil {
		return nil, errors.Wrap(err, op)
	}
	if model.MAE, err = metrics.MAE(ys, predicted); err != nil {
		return nil, errors.Wrap(err, op)
	}

	log.GetLoggerWithName("linear.trainer").Debug("fitted regression",
		"rows", n, "features", p, "r2", model.R2, "mae", model.MAE)
	return model, nil
}

// Predict evaluates the fitted model on a new input,
// intercept + Σ coefficient·input.
func (m *Model) Predict(input map[string]float64) (float64, error) {
	if len(m.Coefficients) == 0 {
		return 0, errors.NewNotFittedError("linear.Model", "Predict")
	}

	pred := m.Intercept
	for j, feature := range m.FeatureColumns {
		v, ok := input[feature]
		if !ok {
			return 0, errors.NewInvalidColumnError("linear.Predict", feature, "")
		}
		pred += m.Coefficients[j] * v
	}
	return pred, nil
}

// numericRows projects the records onto fully numeric (features, target)
// pairs, dropping any row with a missing or non-numeric cell.
func numericRows(rows []dataset.Record, target string, features []string) ([][]float64, []float64) {
	xs := make([][]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, row := range rows {
		yv, ok := row.Float(target)
		if !ok {
			continue
		}
		x := make([]float64, len(features))
		complete := true
		for j, feature := range features {
			f, ok := row.Float(feature)
			if !ok {
				complete = false
				break
			}
			x[j] = f
		}
		if !complete {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, yv)
	}
	return xs, ys
}
