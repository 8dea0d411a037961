package experiments

import (
	"sort"

	"container-labs/internal/dataframe"
)

// ScaleRuntimes are the runtimes plotted by the scale experiment.
var ScaleRuntimes = []string{RuntimeDocker, RuntimePodman}

type ScalePoint struct {
	Count          int     `json:"count"`
	LaunchSeconds  float64 `json:"launch_time_s"`
	PerContainerKB float64 `json:"per_container_kb"`
	DaemonRSSKB    float64 `json:"daemon_rss_kb"`
}

// ScaleSeries maps a runtime to its points in CSV row order.
type ScaleSeries map[string][]ScalePoint

// ParseScaleRow extracts one exp2 row. ok is false when the runtime is
// missing or any numeric column fails to parse.
func ParseScaleRow(row dataframe.Record) (runtime string, point ScalePoint, ok bool) {
	runtime, ok = row.Get("runtime")
	if !ok {
		return "", ScalePoint{}, false
	}

	fields := []string{"count", "launch_time_s", "per_container_kb", "daemon_rss_kb"}
	raw := make([]string, len(fields))
	for i, field := range fields {
		if raw[i], ok = row.Get(field); !ok {
			return "", ScalePoint{}, false
		}
	}

	if point.Count, ok = parseInt(raw[0]); !ok {
		return "", ScalePoint{}, false
	}
	if point.LaunchSeconds, ok = parseFloat(raw[1]); !ok {
		return "", ScalePoint{}, false
	}
	if point.PerContainerKB, ok = parseFloat(raw[2]); !ok {
		return "", ScalePoint{}, false
	}
	if point.DaemonRSSKB, ok = parseFloat(raw[3]); !ok {
		return "", ScalePoint{}, false
	}
	return runtime, point, true
}

func ScaleGroups(df *dataframe.DataFrame) ScaleSeries {
	series := make(ScaleSeries)
	if df.Empty() {
		return series
	}
	for _, row := range df.Rows {
		runtime, point, ok := ParseScaleRow(row)
		if !ok {
			continue
		}
		series[runtime] = append(series[runtime], point)
	}
	return series
}

// Counts returns the sorted union of container counts across all runtimes.
func (s ScaleSeries) Counts() []int {
	seen := make(map[int]bool)
	var counts []int
	for _, points := range s {
		for _, p := range points {
			if !seen[p.Count] {
				seen[p.Count] = true
				counts = append(counts, p.Count)
			}
		}
	}
	sort.Ints(counts)
	return counts
}

// ByCount indexes a runtime's points by container count. A later row for the
// same count wins.
func (s ScaleSeries) ByCount(runtime string) map[int]ScalePoint {
	out := make(map[int]ScalePoint)
	for _, p := range s[runtime] {
		out[p.Count] = p
	}
	return out
}
