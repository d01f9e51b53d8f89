package linear

import (
	"math"
	"testing"

	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/pkg/errors"
)

func perfectLineRows() []dataset.Record {
	// y = 2x exactly.
	rows := make([]dataset.Record, 0, 5)
	for x := 1; x <= 5; x++ {
		rows = append(rows, dataset.Record{
			"x": dataset.Number(float64(x)),
			"y": dataset.Number(float64(2 * x)),
		})
	}
	return rows
}

func TestTrainPerfectLine(t *testing.T) {
	model, err := Train(perfectLineRows(), "y", []string{"x"})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if math.Abs(model.Coefficients[0]-2) > 1e-6 {
		t.Errorf("coefficient = %v, want 2", model.Coefficients[0])
	}
	if math.Abs(model.Intercept) > 1e-6 {
		t.Errorf("intercept = %v, want 0", model.Intercept)
	}
	if math.Abs(model.R2-1) > 1e-6 {
		t.Errorf("R2 = %v, want 1", model.R2)
	}
	if model.MAE > 1e-6 {
		t.Errorf("MAE = %v, want ~0", model.MAE)
	}
	if len(model.Fitted) != 5 {
		t.Errorf("fitted pairs = %d, want 5", len(model.Fitted))
	}
	if len(model.Coefficients) != len(model.FeatureColumns) {
		t.Error("coefficient count must match feature count")
	}
}

func TestTrainTwoFeatures(t *testing.T) {
	// y = 3a - b + 1 exactly.
	var rows []dataset.Record
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			rows = append(rows, dataset.Record{
				"a": dataset.Number(float64(a)),
				"b": dataset.Number(float64(b)),
				"y": dataset.Number(3*float64(a) - float64(b) + 1),
			})
		}
	}

	model, err := Train(rows, "y", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if math.Abs(model.Coefficients[0]-3) > 1e-6 || math.Abs(model.Coefficients[1]+1) > 1e-6 {
		t.Errorf("coefficients = %v, want [3 -1]", model.Coefficients)
	}
	if math.Abs(model.Intercept-1) > 1e-6 {
		t.Errorf("intercept = %v, want 1", model.Intercept)
	}
}

func TestTrainExcludesIncompleteRows(t *testing.T) {
	rows := append(perfectLineRows(),
		dataset.Record{"x": dataset.Null(), "y": dataset.Number(12)},
		dataset.Record{"x": dataset.Number(6), "y": dataset.Text("n/a")},
	)

	model, err := Train(rows, "y", []string{"x"})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if len(model.Fitted) != 5 {
		t.Errorf("fitted pairs = %d, want 5 (incomplete rows excluded)", len(model.Fitted))
	}
}

func TestTrainInsufficientData(t *testing.T) {
	rows := perfectLineRows()[:2]
	_, err := Train(rows, "y", []string{"x"})
	var insufficient *errors.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("want InsufficientDataError, got %v", err)
	}
}

func TestTrainConfigErrors(t *testing.T) {
	rows := perfectLineRows()

	if _, err := Train(rows, "y", nil); err == nil {
		t.Error("want error for empty feature list")
	}
	if _, err := Train(rows, "y", []string{"y"}); err == nil {
		t.Error("want error for target used as feature")
	}
}

func TestModelPredict(t *testing.T) {
	model, err := Train(perfectLineRows(), "y", []string{"x"})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	got, err := model.Predict(map[string]float64{"x": 10})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if math.Abs(got-20) > 1e-6 {
		t.Errorf("Predict(10) = %v, want 20", got)
	}

	if _, err := model.Predict(map[string]float64{}); err == nil {
		t.Error("want error for missing feature input")
	}

	var unfitted Model
	if _, err := unfitted.Predict(map[string]float64{"x": 1}); err == nil {
		t.Error("want NotFittedError from zero-value model")
	}
}
