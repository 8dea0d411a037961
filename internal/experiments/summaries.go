package experiments

import (
	"sort"
	"strconv"

	"container-labs/internal/stats"
)

// GroupSummary is the exported form of one group.
type GroupSummary struct {
	Experiment ID     `json:"experiment"`
	Runtime    string `json:"runtime"`
	Label      string `json:"label"`
	Metric     string `json:"metric"`
	stats.Summary
}

// Summaries flattens every group of every experiment, sorted by experiment,
// runtime, label and metric so the output is stable.
func Summaries(ds *Datasets) []GroupSummary {
	var out []GroupSummary

	add := func(id ID, groups Groups, metric func(GroupKey) string) {
		for key, values := range groups {
			if len(values) == 0 {
				continue
			}
			out = append(out, GroupSummary{
				Experiment: id,
				Runtime:    key.Runtime,
				Label:      key.Label,
				Metric:     metric(key),
				Summary:    stats.Summarize(values),
			})
		}
	}

	add(Startup, StartupGroups(ds.Startup), func(GroupKey) string { return "startup_ms" })
	add(Runtime, RuntimeGroups(ds.Runtime), func(GroupKey) string { return "time_s" })
	add(Nested, NestedGroups(ds.Nested), func(k GroupKey) string { return k.Label })

	// Scale rows are observations per (runtime, count), one per column.
	type scaleKey struct {
		runtime, count, metric string
	}
	scale := make(map[scaleKey][]float64)
	for runtime, points := range ScaleGroups(ds.Scale) {
		for _, p := range points {
			count := strconv.Itoa(p.Count)
			scale[scaleKey{runtime, count, "launch_time_s"}] = append(scale[scaleKey{runtime, count, "launch_time_s"}], p.LaunchSeconds)
			scale[scaleKey{runtime, count, "per_container_kb"}] = append(scale[scaleKey{runtime, count, "per_container_kb"}], p.PerContainerKB)
			scale[scaleKey{runtime, count, "daemon_rss_kb"}] = append(scale[scaleKey{runtime, count, "daemon_rss_kb"}], p.DaemonRSSKB)
		}
	}
	for key, values := range scale {
		out = append(out, GroupSummary{
			Experiment: Scale,
			Runtime:    key.runtime,
			Label:      key.count,
			Metric:     key.metric,
			Summary:    stats.Summarize(values),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Experiment != b.Experiment {
			return a.Experiment < b.Experiment
		}
		if a.Runtime != b.Runtime {
			return a.Runtime < b.Runtime
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.Metric < b.Metric
	})
	return out
}
