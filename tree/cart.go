// Package tree implements the CART trainer: recursive binary splitting for
// classification (Gini impurity) or regression (variance), with per-feature
// importance accounting. It is also the base learner for the ensemble
// trainers.
package tree

import (
	"sort"

	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/metrics"
	"github.com/visionsmart/insight/pkg/errors"
	"github.com/visionsmart/insight/pkg/log"
)

// Task selects between the two CART modes.
type Task int

const (
	// TaskAuto detects the task from the target column: a numeric target
	// with more than maxClassDistinct distinct values means regression,
	// anything else classification.
	TaskAuto Task = iota
	// TaskClassification forces classification.
	TaskClassification
	// TaskRegression forces regression.
	TaskRegression
)

// Params are the tree hyperparameters. The zero value trains with defaults.
type Params struct {
	// MaxDepth limits recursion; 0 means DefaultMaxDepth, negative is invalid.
	MaxDepth int
	// MinSamples is the smallest node that may still be split; 0 means 2.
	MinSamples int
	// Task overrides auto-detection; the ensembles set it so every tree in a
	// forest agrees on the mode regardless of its bootstrap sample.
	Task Task
	// Classes preassigns the label table for classification. The forest sets
	// it so label encodings agree across trees. Normally left empty.
	Classes []string
}

const (
	// DefaultMaxDepth bounds a tree when the caller does not.
	DefaultMaxDepth = 10
	// maxClassDistinct is the auto-detection cutoff: numeric targets with at
	// most this many distinct values are treated as class labels.
	maxClassDistinct = 10
)

// Result is an immutable fitted tree with its in-sample diagnostics. For
// classification, Predictions hold positions into Classes; for regression
// they are target-space values.
type Result struct {
	Root              *Node
	Classification    bool
	Classes           []string
	Depth             int
	LeafCount         int
	Accuracy          float64
	Predictions       []float64
	FeatureImportance map[string]float64
}

// Label translates a classification prediction back to its label text.
func (r *Result) Label(prediction float64) string {
	i := int(prediction)
	if !r.Classification || i < 0 || i >= len(r.Classes) {
		return ""
	}
	return r.Classes[i]
}

// Predict runs a record through the fitted tree.
func (r *Result) Predict(row dataset.Record) (float64, bool) {
	return r.Root.Predict(row)
}

// Detect inspects the target column and returns the task CART would choose
// for it, along with the label table for classification (first-encounter
// order). Rows with a null target are ignored.
func Detect(rows []dataset.Record, target string) (Task, []string) {
	distinct := make(map[float64]bool)
	var labels []string
	seen := make(map[string]bool)
	numeric := true

	for _, row := range rows {
		v := row.Value(target)
		if v.IsNull() {
			continue
		}
		if f, ok := v.Float(); ok {
			distinct[f] = true
		} else {
			numeric = false
		}
		s := v.String()
		if !seen[s] {
			seen[s] = true
			labels = append(labels, s)
		}
	}

	if numeric && len(distinct) > maxClassDistinct {
		return TaskRegression, nil
	}
	return TaskClassification, labels
}

// trainingSet is the dense projection CART splits on.
type trainingSet struct {
	features []string
	x        [][]float64 // row-major feature matrix
	y        []float64   // regression values or class label positions
}

// Train grows a CART tree predicting target from the numeric feature
// columns. Rows with a null target or a null/non-numeric feature are
// excluded before fitting.
func Train(rows []dataset.Record, target string, features []string, params Params) (*Result, error) {
	const op = "tree.Train"

	if len(features) == 0 {
		return nil, errors.NewConfigurationError("features", "at least one feature column is required", features)
	}
	if params.MaxDepth < 0 {
		return nil, errors.NewConfigurationError("maxDepth", "must be at least 1", params.MaxDepth)
	}
	if params.MaxDepth == 0 {
		params.MaxDepth = DefaultMaxDepth
	}
	if params.MinSamples <= 0 {
		params.MinSamples = 2
	}

	task := params.Task
	classes := params.Classes
	if task == TaskAuto {
		task, classes = Detect(rows, target)
	} else if task == TaskClassification && classes == nil {
		_, classes = Detect(rows, target)
	}
	classification := task == TaskClassification

	set, err := project(rows, target, features, classification, classes)
	if err != nil {
		return nil, err
	}
	if len(set.y) < dataset.MinTrainingRows {
		return nil, errors.NewInsufficientDataError(op, dataset.MinTrainingRows, len(set.y))
	}

	b := &builder{
		set:            set,
		classification: classification,
		numClasses:     len(classes),
		maxDepth:       params.MaxDepth,
		minSamples:     params.MinSamples,
		importance:     make(map[string]float64, len(features)),
	}
	for _, f := range features {
		b.importance[f] = 0
	}

	indices := make([]int, len(set.y))
	for i := range indices {
		indices[i] = i
	}
	root := b.build(indices, 0)

	result := &Result{
		Root:              root,
		Classification:    classification,
		Classes:           classes,
		Depth:             root.depth(),
		LeafCount:         root.leafCount(),
		FeatureImportance: normalizeImportance(b.importance),
	}

	featureIndex := make(map[string]int, len(features))
	for j, f := range features {
		featureIndex[f] = j
	}
	result.Predictions = make([]float64, len(set.y))
	for i := range set.x {
		result.Predictions[i] = root.predict(set.x[i], featureIndex)
	}
	if classification {
		result.Accuracy, err = metrics.AccuracyScore(set.y, result.Predictions)
	} else {
		result.Accuracy, err = metrics.RSquared(set.y, result.Predictions)
	}
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	log.GetLoggerWithName("tree.cart").Debug("grew tree",
		"rows", len(set.y), "features", len(features),
		"classification", classification, "depth", result.Depth,
		"leaves", result.LeafCount, "accuracy", result.Accuracy)
	return result, nil
}

// project drops incomplete rows and encodes the target.
func project(rows []dataset.Record, target string, features []string, classification bool, classes []string) (*trainingSet, error) {
	labelIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		labelIndex[c] = i
	}

	set := &trainingSet{features: features}
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
		set.x = append(set.x, x)
		set.y = append(set.y, y)
	}
	return set, nil
}

type builder struct {
	set            *trainingSet
	classification bool
	numClasses     int
	maxDepth       int
	minSamples     int
	importance     map[string]float64
}

func (b *builder) build(indices []int, depth int) *Node {
	imp := b.impurity(indices)
	node := &Node{
		Samples:  len(indices),
		Impurity: imp,
		Value:    b.leafValue(indices),
	}

	if depth >= b.maxDepth || len(indices) < b.minSamples || imp == 0 {
		return node
	}

	feature, threshold, decrease := b.bestSplit(indices, imp)
	if decrease <= 0 {
		return node
	}

	var left, right []int
	j := b.featurePos(feature)
	for _, i := range indices {
		if b.set.x[i][j] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	// Importance: impurity decrease weighted by the node's row count.
	b.importance[feature] += decrease * float64(len(indices))

	node.Feature = feature
	node.Threshold = threshold
	node.Left = b.build(left, depth+1)
	node.Right = b.build(right, depth+1)
	return node
}

// bestSplit scans every feature in declared order and every midpoint
// threshold in ascending order. Strict improvement comparisons keep the
// first feature and the lowest threshold on ties.
func (b *builder) bestSplit(indices []int, parentImpurity float64) (feature string, threshold, decrease float64) {
	n := float64(len(indices))

	for j, f := range b.set.features {
		values := make([]float64, 0, len(indices))
		for _, i := range indices {
			values = append(values, b.set.x[i][j])
		}
		sort.Float64s(values)

		for k := 1; k < len(values); k++ {
			if values[k] == values[k-1] {
				continue
			}
			t := (values[k] + values[k-1]) / 2

			var left, right []int
			for _, i := range indices {
				if b.set.x[i][j] <= t {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			if len(left) == 0 || len(right) == 0 {
				continue
			}

			weighted := (float64(len(left))*b.impurity(left) + float64(len(right))*b.impurity(right)) / n
			if d := parentImpurity - weighted; d > decrease {
				decrease = d
				feature = f
				threshold = t
			}
		}
	}
	return feature, threshold, decrease
}

func (b *builder) featurePos(feature string) int {
	for j, f := range b.set.features {
		if f == feature {
			return j
		}
	}
	return -1
}

// impurity is Gini for classification, variance for regression.
func (b *builder) impurity(indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}

	if b.classification {
		counts := make([]int, b.numClasses)
		for _, i := range indices {
			counts[int(b.set.y[i])]++
		}
		gini := 1.0
		n := float64(len(indices))
		for _, c := range counts {
			p := float64(c) / n
			gini -= p * p
		}
		return gini
	}

	var sum float64
	for _, i := range indices {
		sum += b.set.y[i]
	}
	mean := sum / float64(len(indices))
	var ss float64
	for _, i := range indices {
		d := b.set.y[i] - mean
		ss += d * d
	}
	return ss / float64(len(indices))
}

// leafValue is the majority class (ties to the lowest label position) or the
// mean target.
func (b *builder) leafValue(indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}

	if b.classification {
		counts := make([]int, b.numClasses)
		for _, i := range indices {
			counts[int(b.set.y[i])]++
		}
		best := 0
		for c, count := range counts {
			if count > counts[best] {
				best = c
			}
		}
		return float64(best)
	}

	var sum float64
	for _, i := range indices {
		sum += b.set.y[i]
	}
	return sum / float64(len(indices))
}

// normalizeImportance scales contributions to sum to 1, keeping
// zero-contribution features present at 0.
func normalizeImportance(raw map[string]float64) map[string]float64 {
	var total float64
	for _, v := range raw {
		total += v
	}
	out := make(map[string]float64, len(raw))
	for f, v := range raw {
		out[f] = errors.SafeDivide(v, total)
	}
	return out
}
