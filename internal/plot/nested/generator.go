package nested

import (
	"fmt"

	"container-labs/internal/experiments"
	"container-labs/internal/plot/figure"
	"container-labs/internal/plot/mappings"
	"container-labs/internal/stats"
)

// Build returns the nesting figure: startup latency and CPU time for every
// nesting method. Methods without data keep their slot as an empty bar.
func Build(groups experiments.Groups) *figure.Figure {
	if len(groups) == 0 {
		return nil
	}

	startup := methodPanel(groups, experiments.MetricStartupMS, func(s stats.Summary, _ string) string {
		return fmt.Sprintf("%.0f ms", s.Median)
	})
	startup.Title = "Startup Latency by Nesting Level"
	startup.YLabel = "Time (ms)"

	baseline, hasBaseline := groups.Median(experiments.GroupKey{
		Runtime: experiments.RuntimeBare,
		Label:   experiments.MetricCPUSecs,
	})
	cpu := methodPanel(groups, experiments.MetricCPUSecs, func(s stats.Summary, method string) string {
		if method == experiments.RuntimeBare || !hasBaseline {
			return fmt.Sprintf("%.3fs", s.Median)
		}
		pct, ok := stats.OverheadPercent(s.Median, baseline)
		if !ok {
			return fmt.Sprintf("%.3fs", s.Median)
		}
		return fmt.Sprintf("%.3fs\n(%+.0f%%)", s.Median, pct)
	})
	cpu.Title = "CPU Overhead (sha256sum 50MB, exec)"
	cpu.YLabel = "Time (s)"

	return &figure.Figure{
		Name:   string(experiments.Nested),
		Title:  "Exp 4: Nested Container Performance",
		Width:  14,
		Height: 5,
		Panels: []figure.Panel{startup, cpu},
	}
}

func methodPanel(groups experiments.Groups, metric string, text func(stats.Summary, string) string) figure.Panel {
	var panel figure.Panel

	summaries := make([]stats.Summary, len(experiments.NestedMethods))
	present := make([]bool, len(experiments.NestedMethods))
	peak := 0.0
	for i, method := range experiments.NestedMethods {
		summaries[i], present[i] = groups.Summary(experiments.GroupKey{Runtime: method, Label: metric})
		if summaries[i].Median > peak {
			peak = summaries[i].Median
		}
	}

	for i, method := range experiments.NestedMethods {
		s := summaries[i]
		low, high := s.ErrorBounds()
		bar := figure.Bar{X: float64(i), Value: s.Median, ErrLow: low, ErrHigh: high}
		if present[i] {
			bar.Text = text(s, method)
			bar.TextY = s.Median + peak*0.03
		}
		panel.Bars = append(panel.Bars, figure.BarSeries{
			Color:    mappings.Color(method),
			Width:    0.8,
			Whiskers: true,
			Bars:     []figure.Bar{bar},
		})
		panel.Ticks = append(panel.Ticks, figure.Tick{X: float64(i), Label: mappings.WrapLabel(method)})
	}
	return panel
}
