package scale

import (
	"fmt"
	"strconv"

	"container-labs/internal/experiments"
	"container-labs/internal/plot/figure"
	"container-labs/internal/plot/mappings"
)

const barWidth = 0.35

// Build returns the two-panel scale figure: launch time against container
// count, and per-container memory with daemon RSS on a secondary axis.
// Only docker and podman series are drawn. Returns nil for an empty series.
func Build(series experiments.ScaleSeries) *figure.Figure {
	if len(series) == 0 {
		return nil
	}

	return &figure.Figure{
		Name:   string(experiments.Scale),
		Width:  14,
		Height: 5,
		Panels: []figure.Panel{launchPanel(series), memoryPanel(series)},
	}
}

func launchPanel(series experiments.ScaleSeries) figure.Panel {
	panel := figure.Panel{
		Title:  "Launch Time vs Containers",
		XLabel: "Containers",
		YLabel: "Time (s)",
		Legend: figure.LegendTopLeft,
	}

	for _, runtime := range experiments.ScaleRuntimes {
		points := series[runtime]
		if len(points) == 0 {
			continue
		}
		peak := 0.0
		for _, p := range points {
			if p.LaunchSeconds > peak {
				peak = p.LaunchSeconds
			}
		}

		line := figure.LineSeries{
			Label:  mappings.Label(runtime),
			Color:  mappings.Color(runtime),
			Marker: figure.MarkerCircle,
			Width:  2,
		}
		for _, p := range points {
			line.Points = append(line.Points, figure.Point{
				X:     float64(p.Count),
				Y:     p.LaunchSeconds,
				Text:  fmt.Sprintf("%.2fs", p.LaunchSeconds),
				TextY: p.LaunchSeconds + peak*0.04,
			})
		}
		panel.Lines = append(panel.Lines, line)
	}
	return panel
}

func memoryPanel(series experiments.ScaleSeries) figure.Panel {
	counts := series.Counts()

	panel := figure.Panel{
		Title:     "Memory: cgroup + daemon RSS",
		XLabel:    "Containers",
		YLabel:    "KB per container",
		Legend:    figure.LegendTopLeft,
		Secondary: &figure.SecondaryAxis{Label: "Daemon/Conmon RSS (MB)"},
	}
	for i, count := range counts {
		panel.Ticks = append(panel.Ticks, figure.Tick{X: float64(i), Label: strconv.Itoa(count)})
	}

	// Offsets are tied to the runtime's slot, not to which runtimes are present.
	for slot, runtime := range experiments.ScaleRuntimes {
		if len(series[runtime]) == 0 {
			continue
		}
		byCount := series.ByCount(runtime)
		offset := (float64(slot) - 0.5) * barWidth

		bars := figure.BarSeries{
			Label: mappings.Label(runtime) + " /cont",
			Color: mappings.Color(runtime),
			Width: barWidth,
			Alpha: 0.8,
		}
		daemon := figure.LineSeries{
			Label:  mappings.Label(runtime) + " daemon RSS",
			Color:  mappings.Color(runtime),
			Marker: figure.MarkerSquare,
			Dashed: true,
			Width:  1.5,
			Alpha:  0.7,
		}
		for i, count := range counts {
			p := byCount[count]
			bar := figure.Bar{X: float64(i) + offset, Value: p.PerContainerKB}
			if p.PerContainerKB > 0 {
				bar.Text = fmt.Sprintf("%.0f", p.PerContainerKB)
				bar.TextY = p.PerContainerKB + 10
			}
			bars.Bars = append(bars.Bars, bar)
			daemon.Points = append(daemon.Points, figure.Point{X: float64(i), Y: p.DaemonRSSKB / 1024})
		}
		panel.Bars = append(panel.Bars, bars)
		panel.Secondary.Lines = append(panel.Secondary.Lines, daemon)
	}
	return panel
}
