// Package metrics implements the in-sample diagnostics shared by every
// trainer: coefficient of determination, absolute and squared error means,
// and exact-match accuracy.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/visionsmart/insight/pkg/errors"
)

// RSquared computes the coefficient of determination,
// R² = 1 − SS_res/SS_tot. A constant target yields 0 when predictions match
// it and 0 otherwise too, since no variance can be explained.
func RSquared(actual, predicted []float64) (float64, error) {
	if err := checkPair("metrics.RSquared", actual, predicted); err != nil {
		return 0, err
	}

	mean := stat.Mean(actual, nil)
	var ssRes, ssTot float64
	for i, a := range actual {
		r := a - predicted[i]
		ssRes += r * r
		d := a - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0, nil
	}
	return 1 - ssRes/ssTot, nil
}

// MAE computes the mean absolute error.
func MAE(actual, predicted []float64) (float64, error) {
	if err := checkPair("metrics.MAE", actual, predicted); err != nil {
		return 0, err
	}

	var sum float64
	for i, a := range actual {
		sum += math.Abs(a - predicted[i])
	}
	return sum / float64(len(actual)), nil
}

// MSE computes the mean squared error.
func MSE(actual, predicted []float64) (float64, error) {
	if err := checkPair("metrics.MSE", actual, predicted); err != nil {
		return 0, err
	}

	var sum float64
	for i, a := range actual {
		d := a - predicted[i]
		sum += d * d
	}
	return sum / float64(len(actual)), nil
}

// AccuracyScore computes the exact-match rate between two label sequences,
// used for classification trees and forests.
func AccuracyScore(actual, predicted []float64) (float64, error) {
	if err := checkPair("metrics.AccuracyScore", actual, predicted); err != nil {
		return 0, err
	}

	hits := 0
	for i, a := range actual {
		if a == predicted[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(actual)), nil
}

func checkPair(op string, actual, predicted []float64) error {
	if len(actual) == 0 {
		return errors.NewValueError(op, "empty input")
	}
	if len(actual) != len(predicted) {
		return errors.Newf("insight: %s: length mismatch: %d actual vs %d predicted", op, len(actual), len(predicted))
	}
	return nil
}
