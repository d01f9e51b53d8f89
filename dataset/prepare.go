package dataset

import (
	"github.com/visionsmart/insight/pkg/errors"
	"github.com/visionsmart/insight/pkg/log"
)

// MinTrainingRows is the smallest fully populated training table any model
// accepts.
const MinTrainingRows = 5

// PrepareMultiSourceData assembles a training table holding the target column
// and every feature column, pulling each from whichever dataset carries it.
// When a feature lives outside the target's dataset, rows are matched through
// joinKey. Rows missing the target or any feature are dropped; fewer than
// MinTrainingRows surviving rows is an error.
func PrepareMultiSourceData(datasets []*Dataset, target string, features []string, joinKey string) ([]Record, error) {
	const op = "dataset.PrepareMultiSourceData"

	if len(datasets) == 0 {
		return nil, errors.NewValueError(op, "no datasets given")
	}

	base := findDatasetWithColumn(datasets, target)
	if base == nil {
		return nil, errors.NewInvalidColumnError(op, target, "")
	}

	// Resolve each feature to its source dataset up front so every missing
	// column is reported at once.
	sources := make(map[string]*Dataset, len(features))
	var missing []string
	external := false
	for _, feature := range features {
		src := base
		if !base.HasColumn(feature) {
			src = findDatasetWithColumn(datasets, feature)
		}
		if src == nil {
			missing = append(missing, feature)
			continue
		}
		sources[feature] = src
		if src != base {
			external = true
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingColumnsError(op, missing)
	}

	// Index external sources by join key value, first match wins.
	indexes := make(map[*Dataset]map[Value]Record)
	if external {
		if joinKey == "" {
			return nil, errors.NewValueError(op, "features span multiple datasets but no join key was given")
		}
		if base.Len() == 0 || !hasKey(base.Rows[0], joinKey) {
			return nil, errors.NewJoinError(joinKey, "left")
		}
		for _, src := range sources {
			if src == base || indexes[src] != nil {
				continue
			}
			if src.Len() == 0 || !hasKey(src.Rows[0], joinKey) {
				return nil, errors.NewJoinError(joinKey, "right")
			}
			index := make(map[Value]Record, src.Len())
			for _, row := range src.Rows {
				v := row.Value(joinKey)
				if v.IsNull() {
					continue
				}
				ck := v.canonical()
				if _, seen := index[ck]; !seen {
					index[ck] = row
				}
			}
			indexes[src] = index
		}
	}

	rows := make([]Record, 0, base.Len())
	for _, brow := range base.Rows {
		out := Record{target: brow.Value(target)}
		for _, feature := range features {
			src := sources[feature]
			if src == base {
				out[feature] = brow.Value(feature)
				continue
			}
			key := brow.Value(joinKey)
			if key.IsNull() {
				out[feature] = Null()
				continue
			}
			out[feature] = indexes[src][key.canonical()].Value(feature)
		}

		complete := !out.IsNull(target)
		for _, feature := range features {
			if out.IsNull(feature) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, out)
		}
	}

	if len(rows) < MinTrainingRows {
		return nil, errors.NewInsufficientDataError(op, MinTrainingRows, len(rows))
	}

	log.GetLoggerWithName("dataset.prepare").Debug("assembled training table",
		"target", target, "features", len(features),
		"sources", len(datasets), "rows", len(rows))
	return rows, nil
}

func findDatasetWithColumn(datasets []*Dataset, column string) *Dataset {
	for _, ds := range datasets {
		if ds.HasColumn(column) {
			return ds
		}
	}
	return nil
}

func hasKey(r Record, key string) bool {
	_, ok := r[key]
	return ok
}
