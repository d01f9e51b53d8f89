// Package cluster implements 2-D k-means clustering over dataset columns
// using Lloyd's algorithm.
package cluster

import (
	"math"

	"github.com/visionsmart/insight/dataset"
	"github.com/visionsmart/insight/pkg/errors"
	"github.com/visionsmart/insight/pkg/log"
)

// Point is one qualifying observation with its originating row index for
// traceability back to the dataset.
type Point struct {
	X, Y     float64
	RowIndex int
}

// Cluster is one group of points and its final centroid.
type Cluster struct {
	CentroidX float64
	CentroidY float64
	Points    []Point
}

// Result holds the converged clustering. Every qualifying row appears in
// exactly one cluster.
type Result struct {
	K          int
	Clusters   []Cluster
	Iterations int
}

// maxIterations caps Lloyd's loop when assignments keep oscillating.
const maxIterations = 100

// KMeans clusters the rows of ds on the two numeric columns xCol and yCol.
// Rows with a null or non-numeric value on either axis are skipped.
// Centroids are seeded from the first k distinct points in row order, which
// makes the procedure deterministic for a given dataset.
func KMeans(ds *dataset.Dataset, xCol, yCol string, k int) (*Result, error) {
	const op = "cluster.KMeans"

	if k < 1 {
		return nil, errors.NewConfigurationError("k", "must be at least 1", k)
	}
	if ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyDataset, op)
	}
	if !ds.HasColumn(xCol) {
		return nil, errors.NewInvalidColumnError(op, xCol, ds.Name)
	}
	if !ds.HasColumn(yCol) {
		return nil, errors.NewInvalidColumnError(op, yCol, ds.Name)
	}

	points := collectPoints(ds, xCol, yCol)
	if len(points) < k {
		return nil, errors.NewInsufficientDataError(op, k, len(points))
	}

	centroids := seedCentroids(points, k)
	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	iterations := 0
	for ; iterations < maxIterations; iterations++ {
		changed := false

		// Assignment step: nearest centroid, ties to the lowest index.
		for i, p := range points {
			best := 0
			bestDist := math.Inf(1)
			for c, ctr := range centroids {
				d := squaredDistance(p, ctr)
				if d < bestDist {
					bestDist = d
					best = c
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		// Update step: mean of assigned points; empty clusters keep their
		// previous centroid.
		sums := make([]Point, k)
		counts := make([]int, k)
		for i, p := range points {
			c := assignments[i]
			sums[c].X += p.X
			sums[c].Y += p.Y
			counts[c]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			centroids[c] = Point{
				X: sums[c].X / float64(counts[c]),
				Y: sums[c].Y / float64(counts[c]),
			}
		}
	}

	result := &Result{K: k, Clusters: make([]Cluster, k), Iterations: iterations}
	for c := range result.Clusters {
		result.Clusters[c].CentroidX = centroids[c].X
		result.Clusters[c].CentroidY = centroids[c].Y
	}
	for i, p := range points {
		c := assignments[i]
		result.Clusters[c].Points = append(result.Clusters[c].Points, p)
	}

	log.GetLoggerWithName("cluster.kmeans").Debug("clustering converged",
		"k", k, "points", len(points), "iterations", iterations)
	return result, nil
}

func collectPoints(ds *dataset.Dataset, xCol, yCol string) []Point {
	points := make([]Point, 0, ds.Len())
	for i, row := range ds.Rows {
		x, okX := row.Float(xCol)
		y, okY := row.Float(yCol)
		if !okX || !okY {
			continue
		}
		points = append(points, Point{X: x, Y: y, RowIndex: i})
	}
	return points
}

// seedCentroids picks the first k distinct points in encounter order.
func seedCentroids(points []Point, k int) []Point {
	centroids := make([]Point, 0, k)
	seen := make(map[[2]float64]bool, k)
	for _, p := range points {
		key := [2]float64{p.X, p.Y}
		if seen[key] {
			continue
		}
		seen[key] = true
		centroids = append(centroids, Point{X: p.X, Y: p.Y})
		if len(centroids) == k {
			return centroids
		}
	}
	// Fewer distinct points than k: reuse points from the start so every
	// centroid slot is filled; duplicates converge to empty clusters that
	// hold their seed position.
	for i := 0; len(centroids) < k; i++ {
		p := points[i%len(points)]
		centroids = append(centroids, Point{X: p.X, Y: p.Y})
	}
	return centroids
}

func squaredDistance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
