package ensemble

import (
	"gonum.org/v1/gonum/stat"

	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/metrics"
	"github.com/visionsmart/insight/pkg/errors"
	"github.com/visionsmart/insight/pkg/log"
	"github.com/visionsmart/insight/tree"
)

// BoostingParams configures gradient boosting.
type BoostingParams struct {
	// NumStages is the number of boosting rounds. Zero is legal and leaves
	// the model at the target-mean baseline.
	NumStages int
	// LearningRate shrinks each stage's contribution; 0 means 0.1.
	LearningRate float64
	// MaxDepth limits each stage tree; 0 means DefaultStageDepth.
	MaxDepth int
}

// DefaultStageDepth keeps the stage trees shallow, the usual boosting regime.
const DefaultStageDepth = 3

// residualColumn carries the per-stage fitting target alongside the features.
const residualColumn = "__residual"

// BoostingResult aggregates the staged model: no individual trees are exposed.
type BoostingResult struct {
	NumStages         int
	LearningRate      float64
	Accuracy          float64 // R² of the final predictions
	Predictions       []float64
	FeatureImportance map[string]float64
}

// TrainBoosting fits a staged additive regression model: predictions start
// at the target mean and each stage adds LearningRate times a shallow CART
// tree trained on the current residuals. The target must be numeric;
// boosting has no classification mode here.
func TrainBoosting(rows []dataset.Record, target string, features []string, params BoostingParams) (*BoostingResult, error) {
	const op = "ensemble.TrainBoosting"

	if params.NumStages < 0 {
		return nil, errors.NewConfigurationError("numStages", "must not be negative", params.NumStages)
	}
	if params.LearningRate < 0 {
		return nil, errors.NewConfigurationError("learningRate", "must be positive", params.LearningRate)
	}
	if params.LearningRate == 0 {
		params.LearningRate = 0.1
	}
	if params.MaxDepth < 0 {
		return nil, errors.NewConfigurationError("maxDepth", "must be at least 1", params.MaxDepth)
	}
	if params.MaxDepth == 0 {
		params.MaxDepth = DefaultStageDepth
	}
	if len(features) == 0 {
		return nil, errors.NewConfigurationError("features", "at least one feature column is required", features)
	}
	for _, row := range rows {
		if v := row.Value(target); !v.IsNull() {
			if _, ok := v.Float(); !ok {
				return nil, errors.NewConfigurationError("target", "gradient boosting requires a numeric target", v.String())
			}
		}
	}

	usable, truth := usableRows(rows, target, features, false, nil)
	if len(usable) < dataset.MinTrainingRows {
		return nil, errors.NewInsufficientDataError(op, dataset.MinTrainingRows, len(usable))
	}
	n := len(usable)

	// Baseline: every prediction starts at the target mean.
	base := stat.Mean(truth, nil)
	predictions := make([]float64, n)
	for i := range predictions {
		predictions[i] = base
	}

	stageParams := tree.Params{MaxDepth: params.MaxDepth, Task: tree.TaskRegression}
	importance := make(map[string]float64, len(features))
	for _, f := range features {
		importance[f] = 0
	}

	residuals := make([]float64, n)
	stageRows := make([]dataset.Record, n)
	for stage := 0; stage < params.NumStages; stage++ {
		for i := range usable {
			residuals[i] = truth[i] - predictions[i]
		}
		varBefore := populationVariance(residuals)
		if varBefore == 0 {
			break
		}

		for i, row := range usable {
			r := row.Clone()
			r[residualColumn] = dataset.Number(residuals[i])
			stageRows[i] = r
		}
		stageTree, err := tree.Train(stageRows, residualColumn, features, stageParams)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}

		for i, row := range usable {
			p, ok := stageTree.Predict(row)
			if !ok {
				continue
			}
			predictions[i] += params.LearningRate * p
		}

		for i := range usable {
			residuals[i] = truth[i] - predictions[i]
		}
		// Stage importance is weighted by how much residual variance the
		// stage removed.
		weight := varBefore - populationVariance(residuals)
		if weight > 0 {
			for f, v := range stageTree.FeatureImportance {
				importance[f] += weight * v
			}
		}
	}

	accuracy, err := metrics.RSquared(truth, predictions)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	var total float64
	for _, v := range importance {
		total += v
	}
	normalized := make(map[string]float64, len(importance))
	for f, v := range importance {
		normalized[f] = errors.SafeDivide(v, total)
	}

	result := &BoostingResult{
		NumStages:         params.NumStages,
		LearningRate:      params.LearningRate,
		Accuracy:          accuracy,
		Predictions:       predictions,
		FeatureImportance: normalized,
	}

	log.GetLoggerWithName("ensemble.boosting").Debug("trained boosting model",
		"stages", params.NumStages, "learning_rate", params.LearningRate,
		"rows", n, "features", len(features), "r2", accuracy)
	return result, nil
}

func populationVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := stat.Mean(xs, nil)
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return ss / float64(len(xs))
}
