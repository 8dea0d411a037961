package experiments

import (
	"container-labs/internal/dataframe"
	"container-labs/internal/stats"
)

// GroupKey is the composite key of a group: (runtime, image),
// (runtime, workload) or (method, metric) depending on the experiment.
type GroupKey struct {
	Runtime string
	Label   string
}

func (k GroupKey) String() string {
	return k.Runtime + "/" + k.Label
}

type Groups map[GroupKey][]float64

// GroupBy buckets the measurement column by (runtimeField, labelField).
// Values keep row order inside each group.
func GroupBy(rows []dataframe.Record, runtimeField, labelField, valueField string) Groups {
	groups := make(Groups)
	for _, row := range rows {
		runtime, ok := row.Get(runtimeField)
		if !ok {
			continue
		}
		label, ok := row.Get(labelField)
		if !ok {
			continue
		}
		raw, ok := row.Get(valueField)
		if !ok {
			continue
		}
		value, ok := parseFloat(raw)
		if !ok {
			continue
		}
		key := GroupKey{Runtime: runtime, Label: label}
		groups[key] = append(groups[key], value)
	}
	return groups
}

func (g Groups) Has(key GroupKey) bool {
	return len(g[key]) > 0
}

func (g Groups) Median(key GroupKey) (float64, bool) {
	values := g[key]
	if len(values) == 0 {
		return 0, false
	}
	return stats.Median(values), true
}

func (g Groups) Summary(key GroupKey) (stats.Summary, bool) {
	values := g[key]
	if len(values) == 0 {
		return stats.Summary{}, false
	}
	return stats.Summarize(values), true
}

// Overhead compares the median of key against the median of the bare-metal
// group with the same label. ok is false without a baseline.
func (g Groups) Overhead(key GroupKey) (pct float64, ok bool) {
	value, ok := g.Median(key)
	if !ok {
		return 0, false
	}
	baseline, ok := g.Median(GroupKey{Runtime: RuntimeBare, Label: key.Label})
	if !ok {
		return 0, false
	}
	return stats.OverheadPercent(value, baseline)
}
