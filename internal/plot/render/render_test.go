package render

import (
	"bytes"
	"image/png"
	"testing"

	"container-labs/internal/plot/figure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	require.NoError(t, Check())
}

func TestRender_TwoPanelsWithSecondaryAxis(t *testing.T) {
	fig := &figure.Figure{
		Name:   "exp_test",
		Title:  "Suptitle",
		Width:  4,
		Height: 2,
		Panels: []figure.Panel{
			{
				Title:  "Bars",
				YLabel: "ms",
				Ticks:  []figure.Tick{{X: 0, Label: "Bare\nMetal"}, {X: 1, Label: "Docker"}},
				Bars: []figure.BarSeries{{
					Label:    "runtime",
					Color:    "#0db7ed",
					Width:    0.8,
					Whiskers: true,
					Bars: []figure.Bar{
						{X: 0, Value: 10, ErrLow: 1, ErrHigh: 2, Text: "10 ms", TextY: 11},
						{X: 1, Value: -3, Text: "-3", TextY: -4},
					},
				}},
				ZeroLine: true,
				Legend:   figure.LegendTopRight,
			},
			{
				Title:  "Lines",
				XLabel: "Containers",
				Lines: []figure.LineSeries{{
					Label:  "Docker",
					Color:  "#892ca0",
					Marker: figure.MarkerCircle,
					Width:  2,
					Points: []figure.Point{{X: 1, Y: 0.5, Text: "0.50s", TextY: 0.6}, {X: 10, Y: 2}},
				}},
				Secondary: &figure.SecondaryAxis{
					Label: "MB",
					Lines: []figure.LineSeries{{
						Label:  "daemon",
						Color:  "#aaa",
						Marker: figure.MarkerSquare,
						Dashed: true,
						Alpha:  0.7,
						Points: []figure.Point{{X: 1, Y: 30}, {X: 10, Y: 45}},
					}},
				},
				Legend:     figure.LegendTopLeft,
				LegendOnly: []figure.LegendEntry{{Label: "extra", Color: "#6c757d"}},
			},
		},
	}

	out, err := New(50).Render(fig)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	again, err := New(50).Render(fig)
	require.NoError(t, err)
	assert.Equal(t, out, again, "rendering is deterministic")
}

func TestRender_EmptyPanel(t *testing.T) {
	fig := &figure.Figure{Name: "empty", Width: 2, Height: 1, Panels: []figure.Panel{{Title: "nothing"}}}
	_, err := New(40).Render(fig)
	assert.NoError(t, err)
}

func TestRender_Errors(t *testing.T) {
	_, err := New(0).Render(&figure.Figure{Name: "none"})
	assert.Error(t, err)

	bad := &figure.Figure{Name: "bad", Width: 1, Height: 1, Panels: []figure.Panel{{
		Bars: []figure.BarSeries{{Color: "not-a-color", Width: 1, Bars: []figure.Bar{{Value: 1}}}},
	}}}
	_, err = New(40).Render(bad)
	assert.Error(t, err)
}

func TestSecondaryScale(t *testing.T) {
	lo, hi, toPrimary := secondaryScale(0, 100, 0, 10)
	assert.InDelta(t, -5, lo, 1e-9)
	assert.InDelta(t, 105, hi, 1e-9)
	assert.InDelta(t, 0, toPrimary(lo), 1e-9)
	assert.InDelta(t, 10, toPrimary(hi), 1e-9)

	lo, hi, _ = secondaryScale(3, 3, 0, 1)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 4.0, hi)
}

func TestSeriesColorAlpha(t *testing.T) {
	c, err := seriesColor("#ffffff", 0.5)
	require.NoError(t, err)
	_, _, _, a := c.RGBA()
	assert.InDelta(t, 0x8080, a, 0x100)
}
