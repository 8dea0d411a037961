package experiments

import "container-labs/internal/dataframe"

const (
	MetricStartupMS = "startup_ms"
	MetricCPUSecs   = "cpu_s"
)

var NestedMethods = []string{
	RuntimeBare,
	RuntimeDocker,
	RuntimeDind,
	RuntimePodman,
	RuntimePodmanNested,
}

// NestedGroups groups exp4 rows by (method, metric) over value.
func NestedGroups(df *dataframe.DataFrame) Groups {
	if df.Empty() {
		return Groups{}
	}
	return GroupBy(df.Rows, "method", "metric", "value")
}
