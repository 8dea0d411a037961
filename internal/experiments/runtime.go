package experiments

import "container-labs/internal/dataframe"

const (
	WorkloadHash = "hash"
	WorkloadSort = "sort"
)

var (
	RuntimeWorkloads = []string{WorkloadHash, WorkloadSort}
	RuntimeRuntimes  = []string{RuntimeBare, RuntimeDocker, RuntimePodman}
	// OverheadRuntimes are compared against bare metal.
	OverheadRuntimes = []string{RuntimeDocker, RuntimePodman}
)

var workloadLabels = map[string]string{
	WorkloadHash: "Hash (SHA-256)",
	WorkloadSort: "Sort (1M ints)",
}

func WorkloadLabel(workload string) string {
	if label, ok := workloadLabels[workload]; ok {
		return label
	}
	return workload
}

// RuntimeGroups groups exp3 rows by (runtime, workload) over time_s.
func RuntimeGroups(df *dataframe.DataFrame) Groups {
	if df.Empty() {
		return Groups{}
	}
	return GroupBy(df.Rows, "runtime", "workload", "time_s")
}

// OverheadTable holds overhead percentages per runtime and workload. Only
// runtimes with at least one comparable workload appear.
type OverheadTable map[string]map[string]float64

func RuntimeOverheads(groups Groups) OverheadTable {
	table := make(OverheadTable)
	for _, workload := range RuntimeWorkloads {
		for _, runtime := range OverheadRuntimes {
			pct, ok := groups.Overhead(GroupKey{Runtime: runtime, Label: workload})
			if !ok {
				continue
			}
			if table[runtime] == nil {
				table[runtime] = make(map[string]float64)
			}
			table[runtime][workload] = pct
		}
	}
	return table
}
