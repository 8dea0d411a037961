package overhead

import (
	"fmt"

	"container-labs/internal/experiments"
	"container-labs/internal/plot/figure"
	"container-labs/internal/plot/mappings"
)

// Build returns the runtime overhead figure: median execution time grouped by
// workload, and overhead relative to bare metal. Returns nil without data.
func Build(groups experiments.Groups) *figure.Figure {
	if len(groups) == 0 {
		return nil
	}
	return &figure.Figure{
		Name:   string(experiments.Runtime),
		Width:  14,
		Height: 5,
		Panels: []figure.Panel{
			timePanel(groups),
			overheadPanel(experiments.RuntimeOverheads(groups)),
		},
	}
}

func timePanel(groups experiments.Groups) figure.Panel {
	panel := figure.Panel{
		Title:  "Execution Time (median)",
		YLabel: "Time (s)",
		Legend: figure.LegendTopRight,
	}

	stride := len(experiments.RuntimeRuntimes) + 1
	bars := make(map[string]*figure.BarSeries)
	for wi, workload := range experiments.RuntimeWorkloads {
		base := wi * stride
		for ri, runtime := range experiments.RuntimeRuntimes {
			median, ok := groups.Median(experiments.GroupKey{Runtime: runtime, Label: workload})
			if !ok {
				continue
			}
			series, ok := bars[runtime]
			if !ok {
				series = &figure.BarSeries{Color: mappings.Color(runtime), Width: 0.7}
				bars[runtime] = series
			}
			series.Bars = append(series.Bars, figure.Bar{
				X:     float64(base + ri),
				Value: median,
				Text:  fmt.Sprintf("%.3fs", median),
				TextY: median + 0.03,
			})
		}
		panel.Ticks = append(panel.Ticks, figure.Tick{
			X:     float64(base + 1),
			Label: experiments.WorkloadLabel(workload),
		})
	}

	for _, runtime := range experiments.RuntimeRuntimes {
		if series, ok := bars[runtime]; ok {
			panel.Bars = append(panel.Bars, *series)
		}
		panel.LegendOnly = append(panel.LegendOnly, figure.LegendEntry{
			Label: mappings.Label(runtime),
			Color: mappings.Color(runtime),
		})
	}
	return panel
}

func overheadPanel(table experiments.OverheadTable) figure.Panel {
	const width = 0.5

	panel := figure.Panel{
		Title:    "Overhead vs Bare Metal (%)",
		YLabel:   "Overhead (%)",
		ZeroLine: true,
		Legend:   figure.LegendTopRight,
	}
	for wi, workload := range experiments.RuntimeWorkloads {
		panel.Ticks = append(panel.Ticks, figure.Tick{X: float64(wi), Label: experiments.WorkloadLabel(workload)})
	}

	for ri, runtime := range experiments.OverheadRuntimes {
		row, ok := table[runtime]
		if !ok {
			continue
		}
		series := figure.BarSeries{
			Label: mappings.Label(runtime),
			Color: mappings.Color(runtime),
			Width: width,
		}
		offset := (float64(ri) - 0.5) * width
		for wi, workload := range experiments.RuntimeWorkloads {
			pct := row[workload]
			textY := pct + 0.5
			if pct < 0 {
				textY = pct - 1.5 + 0.5
			}
			series.Bars = append(series.Bars, figure.Bar{
				X:     float64(wi) + offset,
				Value: pct,
				Text:  fmt.Sprintf("%+.1f%%", pct),
				TextY: textY,
			})
		}
		panel.Bars = append(panel.Bars, series)
	}
	return panel
}
