// Package experiments turns the raw benchmark CSVs into per-group samples.
//
// Four experiments are known, each with a fixed file name and column set:
//
//	exp1_startup.csv  runtime,image,startup_ms
//	exp2_scale.csv    runtime,count,launch_time_s,per_container_kb,daemon_rss_kb
//	exp3_runtime.csv  runtime,workload,time_s
//	exp4_nested.csv   method,metric,value
//
// Rows with a missing key or an unparseable measurement are dropped silently.
package experiments

import (
	"math"
	"strconv"
	"strings"

	"container-labs/internal/dataframe"
	"container-labs/internal/logging"
)

type ID string

const (
	Startup ID = "exp1_startup"
	Scale   ID = "exp2_scale"
	Runtime ID = "exp3_runtime"
	Nested  ID = "exp4_nested"
)

// All lists the experiments in report order.
var All = []ID{Startup, Scale, Runtime, Nested}

func (id ID) FileName() string {
	return string(id) + ".csv"
}

func (id ID) ChartName() string {
	return string(id) + ".png"
}

// Datasets holds the frames of one report run. Absent files load as empty
// frames, never nil.
type Datasets struct {
	Startup *dataframe.DataFrame
	Scale   *dataframe.DataFrame
	Runtime *dataframe.DataFrame
	Nested  *dataframe.DataFrame
}

func (d *Datasets) Get(id ID) *dataframe.DataFrame {
	switch id {
	case Startup:
		return d.Startup
	case Scale:
		return d.Scale
	case Runtime:
		return d.Runtime
	case Nested:
		return d.Nested
	}
	return nil
}

func (d *Datasets) Frames() []*dataframe.DataFrame {
	return []*dataframe.DataFrame{d.Startup, d.Scale, d.Runtime, d.Nested}
}

// LoadAll reads the four experiment files from dir. Read failures other than
// a missing file are logged and leave that experiment empty.
func LoadAll(dir string) *Datasets {
	logger := logging.GetLogger()

	load := func(id ID) *dataframe.DataFrame {
		df, err := dataframe.Load(dir, id.FileName())
		if err != nil {
			logger.WithField("experiment", id).WithError(err).Warn("Skipping unreadable dataset")
			return &dataframe.DataFrame{Name: id.FileName()}
		}
		return df
	}

	return &Datasets{
		Startup: load(Startup),
		Scale:   load(Scale),
		Runtime: load(Runtime),
		Nested:  load(Nested),
	}
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseInt(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, true
}
