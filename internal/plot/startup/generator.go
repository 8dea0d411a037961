package startup

import (
	"fmt"

	"container-labs/internal/experiments"
	"container-labs/internal/plot/figure"
	"container-labs/internal/plot/mappings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.English)

// Build draws one bar per (runtime, image) group in the fixed startup order,
// median height with Q1..Q3 whiskers. It returns nil when no group has data.
func Build(groups experiments.Groups) *figure.Figure {
	keys := experiments.PresentStartupKeys(groups)
	if len(keys) == 0 {
		return nil
	}

	summaries := make([]struct{ med, lo, hi float64 }, len(keys))
	maxMedian := 0.0
	for i, key := range keys {
		s, _ := groups.Summary(key)
		low, high := s.ErrorBounds()
		summaries[i].med, summaries[i].lo, summaries[i].hi = s.Median, low, high
		if s.Median > maxMedian {
			maxMedian = s.Median
		}
	}

	panel := figure.Panel{
		Title:  "Exp 1: Startup Latency (median + IQR)",
		YLabel: "Time (ms)",
	}

	for i, key := range keys {
		sm := summaries[i]
		panel.Bars = append(panel.Bars, figure.BarSeries{
			Color:    mappings.Color(key.Runtime),
			Width:    0.8,
			Whiskers: true,
			Bars: []figure.Bar{{
				X:       float64(i),
				Value:   sm.med,
				ErrLow:  sm.lo,
				ErrHigh: sm.hi,
				Text:    fmt.Sprintf("%.1f ms", sm.med),
				TextY:   sm.med + maxMedian*0.04,
			}},
		})
		panel.Ticks = append(panel.Ticks, figure.Tick{X: float64(i), Label: tickLabel(key)})
	}

	return &figure.Figure{
		Name:   string(experiments.Startup),
		Width:  10,
		Height: 5,
		Panels: []figure.Panel{panel},
	}
}

func tickLabel(key experiments.GroupKey) string {
	if key.Runtime == experiments.RuntimeBare {
		return mappings.Label(experiments.RuntimeBare)
	}
	return titleCase.String(key.Runtime) + "\n" + titleCase.String(key.Label)
}
