package stats

import (
	"math"
	"testing"

	"github.com/visionsmart/insight/dataset"
)

func TestPearsonCorrelation(t *testing.T) {
	tests := []struct {
		name      string
		xs, ys    []float64
		want      float64
		tolerance float64
	}{
		{
			name: "self correlation is 1",
			xs:   []float64{1, 2, 3, 4, 5},
			ys:   []float64{1, 2, 3, 4, 5},
			want: 1, tolerance: 1e-12,
		},
		{
			name: "perfect negative",
			xs:   []float64{1, 2, 3, 4},
			ys:   []float64{8, 6, 4, 2},
			want: -1, tolerance: 1e-12,
		},
		{
			name: "zero variance",
			xs:   []float64{1, 2, 3},
			ys:   []float64{5, 5, 5},
			want: 0, tolerance: 0,
		},
		{
			name: "too few pairs",
			xs:   []float64{1},
			ys:   []float64{2},
			want: 0, tolerance: 0,
		},
		{
			name: "nan pairs ignored",
			xs:   []float64{1, math.NaN(), 2, 3},
			ys:   []float64{2, 100, 4, 6},
			want: 1, tolerance: 1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PearsonCorrelation(tt.xs, tt.ys)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("PearsonCorrelation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPearsonCorrelationSymmetry(t *testing.T) {
	xs := []float64{1, 3, 2, 5, 4}
	ys := []float64{2, 1, 4, 3, 5}
	if PearsonCorrelation(xs, ys) != PearsonCorrelation(ys, xs) {
		t.Error("correlation should be symmetric in its arguments")
	}
}

func TestCorrelations(t *testing.T) {
	ds := dataset.New("d", []string{"x", "y", "z"}, []dataset.Record{
		{"x": dataset.Number(1), "y": dataset.Number(2), "z": dataset.Number(5)},
		{"x": dataset.Number(2), "y": dataset.Number(4), "z": dataset.Null()},
		{"x": dataset.Number(3), "y": dataset.Number(6), "z": dataset.Number(1)},
		{"x": dataset.Number(4), "y": dataset.Number(8), "z": dataset.Number(3)},
	})

	m, err := Correlations(ds, []string{"x", "y", "z"})
	if err != nil {
		t.Fatalf("Correlations failed: %v", err)
	}

	for i := range m.Columns {
		if m.At(i, i) != 1 {
			t.Errorf("diagonal[%d] = %v, want 1", i, m.At(i, i))
		}
		for j := range m.Columns {
			if m.At(i, j) != m.At(j, i) {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
			if math.Abs(m.At(i, j)) > 1+1e-12 {
				t.Errorf("entry (%d,%d) = %v outside [-1,1]", i, j, m.At(i, j))
			}
		}
	}

	// x and y are perfectly correlated on all pairwise-complete rows, and
	// the null in z must not affect them.
	if math.Abs(m.At(0, 1)-1) > 1e-12 {
		t.Errorf("corr(x,y) = %v, want 1", m.At(0, 1))
	}
}

func TestCorrelationsUnknownColumn(t *testing.T) {
	ds := dataset.New("d", []string{"x"}, []dataset.Record{{"x": dataset.Number(1)}})
	if _, err := Correlations(ds, []string{"x", "nope"}); err == nil {
		t.Error("want error for unknown column")
	}
}
