// Package ensemble implements the two tree ensembles built on the CART
// trainer: bagged random forests with out-of-bag evaluation, and staged
// gradient-boosted regression. Tree rounds run in parallel; every aggregate
// (vote, mean, importance, OOB score) is computed in a sequential reduction
// afterwards, so results do not depend on scheduling.
package ensemble

import (
	"math/rand"
	"time"

	"github.com/visionsmart/insight/core/parallel"
	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/metrics"
	"github.com/visionsmart/insight/pkg/errors"
	"github.com/visionsmart/insight/pkg/log"
	"github.com/visionsmart/insight/tree"
)

// ForestParams configures random forest training.
type ForestParams struct {
	// NumTrees is the number of bagging rounds.
	NumTrees int
	// MaxDepth limits each tree; 0 means the CART default.
	MaxDepth int
	// Seed fixes the bootstrap sampling; 0 draws a time-based seed, making
	// training non-deterministic.
	Seed int64
}

// ForestResult aggregates the ensemble: no individual trees are exposed.
type ForestResult struct {
	NumTrees          int
	Classification    bool
	Classes           []string
	OOBScore          float64
	Accuracy          float64
	Predictions       []float64
	FeatureImportance map[string]float64
}

// Label translates a classification prediction back to its label text.
func (r *ForestResult) Label(prediction float64) string {
	i := int(prediction)
	if !r.Classification || i < 0 || i >= len(r.Classes) {
		return ""
	}
	return r.Classes[i]
}

// round is one independent bagging iteration's output, reduced sequentially
// after all rounds finish.
type round struct {
	result *tree.Result
	inBag  []int // bootstrap draw count per usable row
	err    error
}

// TrainForest fits NumTrees CART trees on bootstrap samples of the usable
// rows. Per-row training predictions aggregate the trees whose sample
// contained the row (all trees when none did); the OOB score aggregates only
// the trees that never saw the row, estimating generalization without a
// held-out split.
func TrainForest(rows []dataset.Record, target string, features []string, params ForestParams) (*ForestResult, error) {
	const op = "ensemble.TrainForest"

	if params.NumTrees < 1 {
		return nil, errors.NewConfigurationError("numTrees", "must be at least 1", params.NumTrees)
	}
	if params.MaxDepth < 0 {
		return nil, errors.NewConfigurationError("maxDepth", "must be at least 1", params.MaxDepth)
	}
	if len(features) == 0 {
		return nil, errors.NewConfigurationError("features", "at least one feature column is required", features)
	}
	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	task, classes := tree.Detect(rows, target)
	classification := task == tree.TaskClassification

	usable, truth := usableRows(rows, target, features, classification, classes)
	if len(usable) < dataset.MinTrainingRows {
		return nil, errors.NewInsufficientDataError(op, dataset.MinTrainingRows, len(usable))
	}
	n := len(usable)

	treeParams := tree.Params{
		MaxDepth: params.MaxDepth,
		Task:     task,
		Classes:  classes,
	}

	rounds := make([]round, params.NumTrees)
	parallel.Rounds(params.NumTrees, func(r int) {
		rng := rand.New(rand.NewSource(seed + int64(r)))
		inBag := make([]int, n)
		sample := make([]dataset.Record, n)
		for i := 0; i < n; i++ {
			pick := rng.Intn(n)
			inBag[pick]++
			sample[i] = usable[pick]
		}
		result, err := tree.Train(sample, target, features, treeParams)
		rounds[r] = round{result: result, inBag: inBag, err: err}
	})
	for _, rd := range rounds {
		if rd.err != nil {
			return nil, errors.Wrap(rd.err, op)
		}
	}

	// Sequential reduction over the independent round results.
	predictions := make([]float64, n)
	oobPred := make([]float64, 0, n)
	oobTruth := make([]float64, 0, n)
	for i, row := range usable {
		var inBagVotes, oobVotes []float64
		for _, rd := range rounds {
			p, ok := rd.result.Predict(row)
			if !ok {
				continue
			}
			if rd.inBag[i] > 0 {
				inBagVotes = append(inBagVotes, p)
			} else {
				oobVotes = append(oobVotes, p)
			}
		}
		if len(inBagVotes) == 0 {
			// Never drawn by any round: fall back to the whole ensemble.
			for _, rd := range rounds {
				if p, ok := rd.result.Predict(row); ok {
					inBagVotes = append(inBagVotes, p)
				}
			}
		}
		predictions[i] = aggregate(inBagVotes, classification)
		if len(oobVotes) > 0 {
			oobPred = append(oobPred, aggregate(oobVotes, classification))
			oobTruth = append(oobTruth, truth[i])
		}
	}

	result := &ForestResult{
		NumTrees:          params.NumTrees,
		Classification:    classification,
		Classes:           classes,
		Predictions:       predictions,
		FeatureImportance: meanImportance(rounds, features),
	}

	var err error
	if classification {
		result.Accuracy, err = metrics.AccuracyScore(truth, predictions)
	} else {
		result.Accuracy, err = metrics.RSquared(truth, predictions)
	}
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	if len(oobPred) > 0 {
		if classification {
			result.OOBScore, err = metrics.AccuracyScore(oobTruth, oobPred)
		} else {
			result.OOBScore, err = metrics.RSquared(oobTruth, oobPred)
		}
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
	}

	log.GetLoggerWithName("ensemble.forest").Debug("trained forest",
		"trees", params.NumTrees, "rows", n, "features", len(features),
		"classification", classification,
		"accuracy", result.Accuracy, "oob_score", result.OOBScore)
	return result, nil
}

// aggregate reduces votes: majority (ties to the lowest label position) for
// classification, mean for regression.
func aggregate(votes []float64, classification bool) float64 {
	if len(votes) == 0 {
		return 0
	}

	if classification {
		counts := make(map[float64]int, len(votes))
		for _, v := range votes {
			counts[v]++
		}
		best := votes[0]
		for v, c := range counts {
			if c > counts[best] || (c == counts[best] && v < best) {
				best = v
			}
		}
		return best
	}

	var sum float64
	for _, v := range votes {
		sum += v
	}
	return sum / float64(len(votes))
}

// meanImportance averages each tree's normalized importance and re-normalizes.
func meanImportance(rounds []round, features []string) map[string]float64 {
	acc := make(map[string]float64, len(features))
	for _, f := range features {
		acc[f] = 0
	}
	for _, rd := range rounds {
		for f, v := range rd.result.FeatureImportance {
			acc[f] += v
		}
	}
	var total float64
	for _, v := range acc {
		total += v
	}
	out := make(map[string]float64, len(acc))
	for f, v := range acc {
		out[f] = errors.SafeDivide(v, total)
	}
	return out
}

// usableRows keeps rows fully populated on the target and every feature,
// returning them with the encoded truth vector (label positions or values).
func usableRows(rows []dataset.Record, target string, features []string, classification bool, classes []string) ([]dataset.Record, []float64) {
	labelIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		labelIndex[c] = i
	}

	usable := make([]dataset.Record, 0, len(rows))
	truth := make([]float64, 0, len(rows))
	for _, row := range rows {
		tv := row.Value(target)
		if tv.IsNull() {
			continue
		}
		var y float64
		if classification {
			pos, ok := labelIndex[tv.String()]
			if !ok {
				continue
			}
			y = float64(pos)
		} else {
			f, ok := tv.Float()
			if !ok {
				continue
			}
			y = f
		}

		complete := true
		for _, feature := range features {
			if _, ok := row.Float(feature); !ok {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		usable = append(usable, row)
		truth = append(truth, y)
	}
	return usable, truth
}
