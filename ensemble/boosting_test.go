package ensemble

import (
	"math"
	"testing"

	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/pkg/errors"
)

func lineRows(n int) []dataset.Record {
	rows := make([]dataset.Record, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, dataset.Record{
			"x": dataset.Number(float64(i)),
			"y": dataset.Number(2 * float64(i)),
		})
	}
	return rows
}

func TestTrainBoostingZeroStagesIsMeanBaseline(t *testing.T) {
	rows := lineRows(20)
	result, err := TrainBoosting(rows, "y", []string{"x"}, BoostingParams{NumStages: 0})
	if err != nil {
		t.Fatalf("TrainBoosting failed: %v", err)
	}

	mean := 19.0 // mean of 0,2,...,38
	for i, p := range result.Predictions {
		if math.Abs(p-mean) > 1e-12 {
			t.Fatalf("prediction %d = %v, want target mean %v", i, p, mean)
		}
	}
	if result.Accuracy != 0 {
		t.Errorf("R2 = %v, want 0 at the mean baseline", result.Accuracy)
	}
}

func TestTrainBoostingFitsLine(t *testing.T) {
	result, err := TrainBoosting(lineRows(20), "y", []string{"x"}, BoostingParams{
		NumStages:    20,
		LearningRate: 0.5,
	})
	if err != nil {
		t.Fatalf("TrainBoosting failed: %v", err)
	}

	if result.NumStages != 20 {
		t.Errorf("NumStages = %d, want 20", result.NumStages)
	}
	if result.LearningRate != 0.5 {
		t.Errorf("LearningRate = %v, want 0.5", result.LearningRate)
	}
	if result.Accuracy < 0.8 {
		t.Errorf("R2 = %v, want ≥ 0.8 after 20 stages on a clean line", result.Accuracy)
	}

	var sum float64
	for _, v := range result.FeatureImportance {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("importance sum = %v, want 1", sum)
	}
}

func TestTrainBoostingImprovesWithStages(t *testing.T) {
	few, err := TrainBoosting(lineRows(30), "y", []string{"x"}, BoostingParams{NumStages: 2})
	if err != nil {
		t.Fatalf("TrainBoosting failed: %v", err)
	}
	many, err := TrainBoosting(lineRows(30), "y", []string{"x"}, BoostingParams{NumStages: 30})
	if err != nil {
		t.Fatalf("TrainBoosting failed: %v", err)
	}
	if many.Accuracy < few.Accuracy {
		t.Errorf("R2 should not degrade with more stages: %v vs %v", many.Accuracy, few.Accuracy)
	}
}

func TestTrainBoostingErrors(t *testing.T) {
	rows := lineRows(20)

	if _, err := TrainBoosting(rows, "y", []string{"x"}, BoostingParams{NumStages: -1}); err == nil {
		t.Error("want ConfigurationError for negative stages")
	}
	if _, err := TrainBoosting(rows, "y", nil, BoostingParams{}); err == nil {
		t.Error("want error for empty feature list")
	}

	categorical := []dataset.Record{
		{"x": dataset.Number(1), "y": dataset.Text("a")},
		{"x": dataset.Number(2), "y": dataset.Text("b")},
		{"x": dataset.Number(3), "y": dataset.Text("a")},
		{"x": dataset.Number(4), "y": dataset.Text("b")},
		{"x": dataset.Number(5), "y": dataset.Text("a")},
	}
	_, err := TrainBoosting(categorical, "y", []string{"x"}, BoostingParams{NumStages: 3})
	var configErr *errors.ConfigurationError
	if !errors.As(err, &configErr) {
		t.Errorf("want ConfigurationError for categorical target, got %v", err)
	}

	_, err = TrainBoosting(rows[:3], "y", []string{"x"}, BoostingParams{NumStages: 3})
	var insufficient *errors.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Errorf("want InsufficientDataError, got %v", err)
	}
}
