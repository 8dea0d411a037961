// Package render rasterizes figures to PNG with gonum/plot.
package render

import (
	"bytes"
	"fmt"
	"math"

	"container-labs/internal/plot/figure"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const DefaultDPI = 150

const (
	tilePad        = 8
	tileGap        = 24
	secondaryRoom  = 60
	markerRadius   = 4
	whiskerCap     = 5
	whiskerWidth   = 1.2
	suptitleMargin = 10
)

type Renderer struct {
	DPI int
}

func New(dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{DPI: dpi}
}

// Check renders a one-bar figure to verify that fonts load and the
// rasterizer works.
func Check() error {
	fig := &figure.Figure{
		Name:   "check",
		Width:  1,
		Height: 1,
		Panels: []figure.Panel{{
			Title: "check",
			Bars: []figure.BarSeries{{
				Color: "#aaa",
				Width: 0.8,
				Bars:  []figure.Bar{{X: 0, Value: 1, Text: "1"}},
			}},
		}},
	}
	if _, err := New(72).Render(fig); err != nil {
		return fmt.Errorf("chart renderer unavailable: %w", err)
	}
	return nil
}

// Render draws every panel side by side and returns the encoded PNG.
func (r *Renderer) Render(fig *figure.Figure) (out []byte, err error) {
	if fig == nil || len(fig.Panels) == 0 {
		return nil, fmt.Errorf("figure has no panels")
	}
	// gonum panics on some malformed input (fonts, NaN ranges).
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("render %s: %v", fig.Name, rec)
		}
	}()

	useSansFont()

	plots := make([]*plot.Plot, len(fig.Panels))
	axes := make([]*rightAxis, len(fig.Panels))
	for i := range fig.Panels {
		p, axis, err := buildPlot(&fig.Panels[i])
		if err != nil {
			return nil, fmt.Errorf("render %s panel %d: %w", fig.Name, i, err)
		}
		plots[i], axes[i] = p, axis
	}

	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(fig.Width)*vg.Inch, vg.Length(fig.Height)*vg.Inch),
		vgimg.UseDPI(r.DPI),
		vgimg.UseBackgroundColor(figureBackground),
	)
	dc := draw.New(canvas)

	if fig.Title != "" {
		style := textStyle(supTitleSize, true)
		style.YAlign = text.YTop
		top := vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - vg.Points(tilePad)}
		dc.FillText(style, top, fig.Title)
		dc = draw.Crop(dc, 0, 0, 0, -(style.Height(fig.Title) + vg.Points(suptitleMargin)))
	}

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(plots),
		PadX:      vg.Points(tileGap),
		PadTop:    vg.Points(tilePad),
		PadBottom: vg.Points(tilePad),
		PadLeft:   vg.Points(tilePad),
		PadRight:  vg.Points(tilePad),
	}
	for i, p := range plots {
		tile := tiles.At(dc, i, 0)
		if axes[i] != nil {
			tile = draw.Crop(tile, 0, -vg.Points(secondaryRoom), 0, 0)
		}
		p.Draw(tile)
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode %s: %w", fig.Name, err)
	}
	return buf.Bytes(), nil
}

func buildPlot(panel *figure.Panel) (*plot.Plot, *rightAxis, error) {
	p := plot.New()
	applyTheme(p)
	p.Title.Text = panel.Title
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel

	if len(panel.Ticks) > 0 {
		ticks := make([]plot.Tick, len(panel.Ticks))
		for i, t := range panel.Ticks {
			ticks[i] = plot.Tick{Value: t.X, Label: t.Label}
		}
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}

	p.Add(backdrop{fill: axesBackground})

	for _, series := range panel.Bars {
		if len(series.Bars) == 0 {
			continue
		}
		b, err := newBars(series)
		if err != nil {
			return nil, nil, err
		}
		p.Add(b)
		if series.Whiskers {
			whiskers, err := newWhiskers(series.Bars)
			if err != nil {
				return nil, nil, err
			}
			p.Add(whiskers)
		}
		if series.Label != "" && panel.Legend != figure.LegendNone {
			p.Legend.Add(series.Label, b)
		}
	}

	for _, series := range panel.Lines {
		if err := addLine(p, panel.Legend, series, nil); err != nil {
			return nil, nil, err
		}
	}

	labels, err := newValueLabels(panel)
	if err != nil {
		return nil, nil, err
	}
	if labels != nil {
		p.Add(labels)
	}

	fitRanges(p, panel)

	if panel.ZeroLine {
		p.Add(zeroLine{style: draw.LineStyle{
			Color:  zeroLineColor,
			Width:  vg.Points(0.8),
			Dashes: []vg.Length{vg.Points(4), vg.Points(2)},
		}})
	}

	var axis *rightAxis
	if panel.Secondary != nil && len(panel.Secondary.Lines) > 0 {
		smin, smax := panel.Secondary.Range()
		lo, hi, toPrimary := secondaryScale(smin, smax, p.Y.Min, p.Y.Max)
		for _, series := range panel.Secondary.Lines {
			if err := addLine(p, panel.Legend, series, toPrimary); err != nil {
				return nil, nil, err
			}
		}

		labelStyle := textStyle(axisLabelSize, false)
		labelStyle.Rotation = math.Pi / 2
		labelStyle.YAlign = text.YTop
		tickStyle := textStyle(tickLabelSize, false)
		tickStyle.XAlign = text.XLeft
		tickStyle.YAlign = text.YCenter

		axis = &rightAxis{
			label:      panel.Secondary.Label,
			min:        lo,
			max:        hi,
			toPrimary:  toPrimary,
			line:       draw.LineStyle{Color: textColor, Width: vg.Points(0.5)},
			tickLength: p.Y.Tick.Length,
			tickStyle:  tickStyle,
			labelStyle: labelStyle,
		}
		p.Add(axis)
	}

	if panel.Legend != figure.LegendNone {
		for _, entry := range panel.LegendOnly {
			fill, err := seriesColor(entry.Color, 0)
			if err != nil {
				return nil, nil, err
			}
			p.Legend.Add(entry.Label, swatch{fill: fill})
		}
		p.Legend.Top = true
		p.Legend.Left = panel.Legend == figure.LegendTopLeft
	}

	return p, axis, nil
}

// fitRanges pins the axes to the data with a 5% margin. Bars keep their
// zero baseline flush with the axis unless values go negative.
func fitRanges(p *plot.Plot, panel *figure.Panel) {
	if !panel.HasData() {
		return
	}
	ymin, ymax := panel.YRange()
	if len(panel.Bars) > 0 {
		ymin = math.Min(ymin, 0)
		ymax = math.Max(ymax, 0)
	}
	span := ymax - ymin
	if span == 0 {
		span = 1
	}
	p.Y.Max = ymax + span*0.05
	p.Y.Min = ymin
	if ymin < 0 || len(panel.Bars) == 0 {
		p.Y.Min = ymin - span*0.05
	}

	xspan := p.X.Max - p.X.Min
	if xspan == 0 {
		xspan = 1
	}
	pad := xspan * 0.05
	if len(panel.Ticks) > 0 {
		pad = math.Max(pad, 0.5)
	}
	p.X.Min -= pad
	p.X.Max += pad
}

func addLine(p *plot.Plot, legend figure.Legend, series figure.LineSeries, mapY func(float64) float64) error {
	if len(series.Points) == 0 {
		return nil
	}
	col, err := seriesColor(series.Color, series.Alpha)
	if err != nil {
		return err
	}
	line, points, err := plotter.NewLinePoints(toXYs(series.Points, mapY))
	if err != nil {
		return err
	}
	line.Color = col
	line.Width = vg.Points(series.Width)
	if series.Width == 0 {
		line.Width = vg.Points(1.5)
	}
	if series.Dashed {
		line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	}

	points.Color = col
	points.Radius = vg.Points(markerRadius)
	switch series.Marker {
	case figure.MarkerCircle:
		points.Shape = draw.CircleGlyph{}
	case figure.MarkerSquare:
		points.Shape = draw.BoxGlyph{}
		points.Radius = vg.Points(markerRadius - 1)
	default:
		points = nil
	}

	p.Add(line)
	if points != nil {
		p.Add(points)
	}
	if series.Label != "" && legend != figure.LegendNone {
		if points != nil {
			p.Legend.Add(series.Label, line, points)
		} else {
			p.Legend.Add(series.Label, line)
		}
	}
	return nil
}

func newWhiskers(bars []figure.Bar) (*plotter.YErrorBars, error) {
	data := struct {
		plotter.XYs
		plotter.YErrors
	}{
		XYs:     make(plotter.XYs, len(bars)),
		YErrors: make(plotter.YErrors, len(bars)),
	}
	for i, bar := range bars {
		data.XYs[i].X = bar.X
		data.XYs[i].Y = bar.Value
		data.YErrors[i].Low = bar.ErrLow
		data.YErrors[i].High = bar.ErrHigh
	}
	whiskers, err := plotter.NewYErrorBars(data)
	if err != nil {
		return nil, err
	}
	whiskers.Color = textColor
	whiskers.Width = vg.Points(whiskerWidth)
	whiskers.CapWidth = vg.Points(2 * whiskerCap)
	return whiskers, nil
}

// newValueLabels collects the value annotations of a panel's bars and
// primary lines into one labels plotter. Returns nil when there are none.
func newValueLabels(panel *figure.Panel) (*plotter.Labels, error) {
	var data plotter.XYLabels
	for _, series := range panel.Bars {
		for _, bar := range series.Bars {
			if bar.Text == "" {
				continue
			}
			data.XYs = append(data.XYs, plotter.XY{X: bar.X, Y: bar.TextY})
			data.Labels = append(data.Labels, bar.Text)
		}
	}
	for _, series := range panel.Lines {
		for _, pt := range series.Points {
			if pt.Text == "" {
				continue
			}
			data.XYs = append(data.XYs, plotter.XY{X: pt.X, Y: pt.TextY})
			data.Labels = append(data.Labels, pt.Text)
		}
	}
	if len(data.Labels) == 0 {
		return nil, nil
	}

	labels, err := plotter.NewLabels(data)
	if err != nil {
		return nil, err
	}
	style := textStyle(valueLabelSize, false)
	for i := range labels.TextStyle {
		labels.TextStyle[i] = style
	}
	return labels, nil
}
