// Package insight is an in-memory analytics engine for heterogeneous tabular
// data: classical statistics and machine-learning models over loosely typed,
// possibly multi-source rows, with lightweight data wrangling in between.
//
// The engine is a library of pure, synchronous functions. A caller assembles
// one or more datasets, optionally applies wrangling operators, and invokes a
// single trainer, which returns an immutable result record carrying the model
// and its diagnostics.
//
// # Packages
//
//   - dataset: the tabular model (Dataset, Record, Value), wrangling operators
//     (join, union, filter, sample, column edits) and on-demand column
//     profiling
//   - stats: Pearson correlation and pairwise-complete correlation matrices
//   - linear: ordinary-least-squares regression with R²/MAE diagnostics
//   - cluster: 2-D k-means via Lloyd's algorithm
//   - forecast: linear-trend time-series forecasting
//   - tree: CART decision trees for classification and regression
//   - ensemble: random forests with out-of-bag scoring, and gradient-boosted
//     regression
//   - preprocessing: standard and min-max column scaling with a fit/transform
//     split
//   - assist: the typed boundary to an external natural-language advisory
//     service
//
// # Quick start
//
//	rows := []dataset.Record{
//	    {"x": dataset.Number(1), "y": dataset.Number(2)},
//	    {"x": dataset.Number(2), "y": dataset.Number(4)},
//	    {"x": dataset.Number(3), "y": dataset.Number(6)},
//	    {"x": dataset.Number(4), "y": dataset.Number(8)},
//	    {"x": dataset.Number(5), "y": dataset.Number(10)},
//	}
//	model, err := linear.Train(rows, "y", []string{"x"})
//	if err != nil {
//	    // typed: InsufficientDataError, ConfigurationError, ...
//	}
//	fmt.Println(model.Coefficients[0], model.R2) // ≈2, ≈1
//
// Errors are structured (see pkg/errors); logging is structured and off by
// default (see pkg/log).
package insight
