// Package assist defines the boundary to the external advisory service that
// turns natural-language instructions into engine configuration. The engine
// never calls the service itself: a caller sends a Request describing the
// loaded datasets and the last result, receives a structured Action, and
// applies it through the public operators. Actions are a closed tagged
// variant over the operator set, not a free-form payload, so dispatch is an
// exhaustive switch at the call site.
package assist

import (
	"context"
	"encoding/json"

	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/pkg/errors"
)

// Advisor is the external request/response contract. Implementations live
// outside the engine (an LLM-backed service, a rule engine, a test stub).
type Advisor interface {
	Advise(ctx context.Context, req Request) (*Action, error)
}

// DatasetSummary describes one loaded dataset to the advisor: names and
// inferred column kinds only, never raw rows.
type DatasetSummary struct {
	Name    string                `json:"name"`
	Rows    int                   `json:"rows"`
	Columns []dataset.ColumnProfile `json:"columns"`
}

// Request carries the instruction and the context the advisor may use.
type Request struct {
	Instruction string           `json:"instruction"`
	Datasets    []DatasetSummary `json:"datasets"`
	LastResult  string           `json:"lastResult,omitempty"`
}

// ActionKind discriminates the Action variant.
type ActionKind string

const (
	// KindSetClustering configures the k-means axes and cluster count.
	KindSetClustering ActionKind = "set_clustering"
	// KindSetRegression configures target and features for regression.
	KindSetRegression ActionKind = "set_regression"
	// KindSetForecast configures the date/value columns and horizon.
	KindSetForecast ActionKind = "set_forecast"
	// KindSetTreeModel configures a tree, forest, or boosting run.
	KindSetTreeModel ActionKind = "set_tree_model"
	// KindWrangle requests a single wrangling step.
	KindWrangle ActionKind = "wrangle"
	// KindRunTraining asks the caller to run the currently configured model.
	KindRunTraining ActionKind = "run_training"
)

// Action is the advisor's structured reply. Exactly the field set matching
// Kind is populated.
type Action struct {
	Kind ActionKind `json:"kind"`

	Clustering *ClusteringConfig `json:"clustering,omitempty"`
	Regression *RegressionConfig `json:"regression,omitempty"`
	Forecast   *ForecastConfig   `json:"forecast,omitempty"`
	TreeModel  *TreeModelConfig  `json:"treeModel,omitempty"`
	Wrangle    *WrangleStep      `json:"wrangle,omitempty"`
}

// ClusteringConfig mirrors cluster.KMeans parameters.
type ClusteringConfig struct {
	Dataset string `json:"dataset"`
	XColumn string `json:"xColumn"`
	YColumn string `json:"yColumn"`
	K       int    `json:"k"`
}

// RegressionConfig mirrors linear.Train parameters.
type RegressionConfig struct {
	Target   string   `json:"target"`
	Features []string `json:"features"`
	JoinKey  string   `json:"joinKey,omitempty"`
}

// ForecastConfig mirrors forecast.Forecast parameters.
type ForecastConfig struct {
	Dataset     string `json:"dataset"`
	DateColumn  string `json:"dateColumn"`
	ValueColumn string `json:"valueColumn"`
	Periods     int    `json:"periods"`
}

// TreeModelConfig mirrors the tree and ensemble trainer parameters.
// Model is "tree", "forest", or "boosting".
type TreeModelConfig struct {
	Model        string   `json:"model"`
	Target       string   `json:"target"`
	Features     []string `json:"features"`
	MaxDepth     int      `json:"maxDepth,omitempty"`
	NumTrees     int      `json:"numTrees,omitempty"`
	NumStages    int      `json:"numStages,omitempty"`
	LearningRate float64  `json:"learningRate,omitempty"`
}

// WrangleStep names one wrangling operator invocation.
// Op is "join", "union", "filter", "sample", "drop_column",
// "remove_missing", or "transform".
type WrangleStep struct {
	Op       string   `json:"op"`
	Datasets []string `json:"datasets,omitempty"`
	Column   string   `json:"column,omitempty"`
	Key      string   `json:"key,omitempty"`
	N        int      `json:"n,omitempty"`
}

// ParseAction decodes a service response into the variant and checks that the
// field matching Kind is present.
func ParseAction(data []byte) (*Action, error) {
	const op = "assist.ParseAction"

	var action Action
	if err := json.Unmarshal(data, &action); err != nil {
		return nil, errors.Wrap(err, op)
	}

	switch action.Kind {
	case KindSetClustering:
		if action.Clustering == nil {
			return nil, errors.NewValueError(op, "set_clustering action missing clustering config")
		}
	case KindSetRegression:
		if action.Regression == nil {
			return nil, errors.NewValueError(op, "set_regression action missing regression config")
		}
	case KindSetForecast:
		if action.Forecast == nil {
			return nil, errors.NewValueError(op, "set_forecast action missing forecast config")
		}
	case KindSetTreeModel:
		if action.TreeModel == nil {
			return nil, errors.NewValueError(op, "set_tree_model action missing tree model config")
		}
	case KindWrangle:
		if action.Wrangle == nil {
			return nil, errors.NewValueError(op, "wrangle action missing step")
		}
	case KindRunTraining:
		// No payload.
	default:
		return nil, errors.NewValueError(op, "unknown action kind: "+string(action.Kind))
	}
	return &action, nil
}

// Summarize builds the advisor-facing description of a dataset.
func Summarize(ds *dataset.Dataset) (DatasetSummary, error) {
	profiles, err := dataset.Profile(ds)
	if err != nil {
		return DatasetSummary{}, err
	}
	return DatasetSummary{
		Name:    ds.Name,
		Rows:    ds.Len(),
		Columns: profiles,
	}, nil
}
