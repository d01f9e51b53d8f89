package cluster

import (
	"math"
	"testing"

	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/pkg/errors"
)

func pointsDataset(points [][2]float64) *dataset.Dataset {
	rows := make([]dataset.Record, len(points))
	for i, p := range points {
		rows[i] = dataset.Record{"x": dataset.Number(p[0]), "y": dataset.Number(p[1])}
	}
	return dataset.New("points", []string{"x", "y"}, rows)
}

func TestKMeansSingleCluster(t *testing.T) {
	ds := pointsDataset([][2]float64{{1, 1}, {2, 3}, {3, 5}, {6, 7}})

	result, err := KMeans(ds, "x", "y", 1)
	if err != nil {
		t.Fatalf("KMeans failed: %v", err)
	}
	if len(result.Clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(result.Clusters))
	}
	c := result.Clusters[0]
	if len(c.Points) != 4 {
		t.Fatalf("cluster size = %d, want all 4 points", len(c.Points))
	}
	if math.Abs(c.CentroidX-3) > 1e-12 || math.Abs(c.CentroidY-4) > 1e-12 {
		t.Errorf("centroid = (%v,%v), want (3,4)", c.CentroidX, c.CentroidY)
	}
}

func TestKMeansSeparatedGroups(t *testing.T) {
	ds := pointsDataset([][2]float64{
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
		{10, 10}, {11, 10}, {10, 11}, {11, 11},
	})

	result, err := KMeans(ds, "x", "y", 2)
	if err != nil {
		t.Fatalf("KMeans failed: %v", err)
	}

	total := 0
	for _, c := range result.Clusters {
		total += len(c.Points)
	}
	if total != 8 {
		t.Fatalf("cluster sizes sum to %d, want 8 (every point exactly once)", total)
	}

	// Two well-separated squares must split 4/4.
	sizes := []int{len(result.Clusters[0].Points), len(result.Clusters[1].Points)}
	if sizes[0] != 4 || sizes[1] != 4 {
		t.Errorf("cluster sizes = %v, want [4 4]", sizes)
	}
}

func TestKMeansSkipsRowsWithMissingAxes(t *testing.T) {
	ds := dataset.New("points", []string{"x", "y"}, []dataset.Record{
		{"x": dataset.Number(1), "y": dataset.Number(1)},
		{"x": dataset.Null(), "y": dataset.Number(2)},
		{"x": dataset.Number(3), "y": dataset.Text("bad")},
		{"x": dataset.Number(5), "y": dataset.Number(5)},
	})

	result, err := KMeans(ds, "x", "y", 1)
	if err != nil {
		t.Fatalf("KMeans failed: %v", err)
	}
	if len(result.Clusters[0].Points) != 2 {
		t.Errorf("qualifying points = %d, want 2", len(result.Clusters[0].Points))
	}
	// Row indices trace back to the original dataset.
	if result.Clusters[0].Points[0].RowIndex != 0 || result.Clusters[0].Points[1].RowIndex != 3 {
		t.Error("row indices should reference the originating dataset rows")
	}
}

func TestKMeansErrors(t *testing.T) {
	ds := pointsDataset([][2]float64{{1, 1}, {2, 2}})

	if _, err := KMeans(ds, "x", "y", 0); err == nil {
		t.Error("want ConfigurationError for k < 1")
	}

	_, err := KMeans(ds, "x", "y", 5)
	var insufficient *errors.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Errorf("want InsufficientDataError when points < k, got %v", err)
	}

	if _, err := KMeans(ds, "nope", "y", 1); err == nil {
		t.Error("want error for unknown column")
	}
}
