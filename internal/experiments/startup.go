package experiments

import "container-labs/internal/dataframe"

const (
	RuntimeBare         = "bare"
	RuntimeDocker       = "docker"
	RuntimePodman       = "podman"
	RuntimeDind         = "dind"
	RuntimePodmanNested = "podman-nested"
)

// StartupOrder is the bar order of the startup chart and summary.
var StartupOrder = []GroupKey{
	{RuntimeBare, "none"},
	{RuntimeDocker, "ubuntu"},
	{RuntimeDocker, "alpine"},
	{RuntimePodman, "ubuntu"},
	{RuntimePodman, "alpine"},
}

// StartupGroups groups exp1 rows by (runtime, image) over startup_ms.
func StartupGroups(df *dataframe.DataFrame) Groups {
	if df.Empty() {
		return Groups{}
	}
	return GroupBy(df.Rows, "runtime", "image", "startup_ms")
}

// PresentStartupKeys filters StartupOrder down to the groups that have data.
func PresentStartupKeys(groups Groups) []GroupKey {
	var keys []GroupKey
	for _, key := range StartupOrder {
		if groups.Has(key) {
			keys = append(keys, key)
		}
	}
	return keys
}
