package tikz

import (
	"strings"
	"testing"
	"time"

	"container-labs/internal/logging"
	"container-labs/internal/plot/figure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerator() *Generator {
	g := NewGenerator(logging.GetLogger())
	g.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return g
}

func TestGenerate_OneAxisPerPanel(t *testing.T) {
	fig := &figure.Figure{
		Name:  "exp4_nested",
		Title: "Exp 4: Nested Container Performance",
		Panels: []figure.Panel{
			{
				Title:  "Startup",
				YLabel: "Time (ms)",
				Ticks:  []figure.Tick{{X: 0, Label: "Bare\nMetal"}},
				Bars: []figure.BarSeries{{
					Color:    "#6c757d",
					Width:    0.8,
					Whiskers: true,
					Bars:     []figure.Bar{{X: 0, Value: 15, ErrLow: 5, ErrHigh: 5, Text: "15 ms", TextY: 16}},
				}},
			},
			{
				Title:    "CPU",
				ZeroLine: true,
				Bars: []figure.BarSeries{{
					Color: "#0db7ed",
					Width: 0.5,
					Bars:  []figure.Bar{{X: 1, Value: 1.25, Text: "1.250s\n(+25%)", TextY: 1.3}},
				}},
			},
		},
	}

	plot, wrapper, err := testGenerator().Generate(fig, "abc123")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(plot, `\begin{axis}`))
	assert.Contains(t, plot, "% Generated on 2026-01-02 03:04:05")
	assert.Contains(t, plot, "% Input checksum: abc123")
	assert.Contains(t, plot, `\definecolor{c0db7ed}{HTML}{0DB7ED}`)
	assert.Contains(t, plot, `\definecolor{c6c757d}{HTML}{6C757D}`)
	assert.Contains(t, plot, "at={(8cm,0)}")
	assert.Contains(t, plot, "(0,15) += (0,5) -= (0,5)")
	assert.Contains(t, plot, `xticklabels={{Bare\\Metal}}`)
	assert.Contains(t, plot, `{1.250s\\(+25\%)}`)
	assert.Contains(t, plot, `\draw[c666666, dashed]`)

	assert.Contains(t, wrapper, `\input{./exp4_nested.tikz }`)
	assert.Contains(t, wrapper, `\label{fig:exp4_nested}`)
	assert.Contains(t, wrapper, "Exp 4: Nested Container Performance")
}

func TestGenerate_SecondaryAxisOverlay(t *testing.T) {
	fig := &figure.Figure{
		Name: "exp2_scale",
		Panels: []figure.Panel{{
			Title:  "Memory",
			Legend: figure.LegendTopLeft,
			Bars: []figure.BarSeries{{
				Label: "Docker /cont", Color: "#0db7ed", Width: 0.35, Alpha: 0.8,
				Bars: []figure.Bar{{X: -0.175, Value: 400}},
			}},
			Secondary: &figure.SecondaryAxis{
				Label: "Daemon RSS (MB)",
				Lines: []figure.LineSeries{{
					Label: "Docker daemon RSS", Color: "#0db7ed", Marker: figure.MarkerSquare, Dashed: true,
					Points: []figure.Point{{X: 0, Y: 2}},
				}},
			},
		}},
	}

	plot, _, err := testGenerator().Generate(fig, "")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(plot, `\begin{axis}`))
	assert.Contains(t, plot, "axis y line*=right")
	assert.Contains(t, plot, "legend pos=north west")
	assert.Contains(t, plot, "mark=square*, dashed")
	assert.Contains(t, plot, `\addlegendentry{Docker daemon RSS}`)
	assert.Contains(t, plot, "fill opacity=0.8")
}

func TestGenerate_BadColor(t *testing.T) {
	fig := &figure.Figure{Name: "x", Panels: []figure.Panel{{
		Bars: []figure.BarSeries{{Color: "blue", Bars: []figure.Bar{{Value: 1}}}},
	}}}
	_, _, err := testGenerator().Generate(fig, "")
	assert.Error(t, err)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `50\% of a\_b`, escape("50% of a_b"))
	assert.Equal(t, `a\\b`, escape("a\nb"))
}
