package render

import (
	"image/color"
	"math"

	"container-labs/internal/plot/figure"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// bars draws rectangles from zero to each value. Unlike plotter.BarChart,
// widths and positions are in data units so grouped series can be offset
// along a shared categorical axis.
type bars struct {
	width float64
	bars  []figure.Bar
	fill  color.Color
	edge  draw.LineStyle
}

var (
	_ plot.Plotter     = (*bars)(nil)
	_ plot.DataRanger  = (*bars)(nil)
	_ plot.Thumbnailer = (*bars)(nil)
)

func newBars(series figure.BarSeries) (*bars, error) {
	fill, err := seriesColor(series.Color, series.Alpha)
	if err != nil {
		return nil, err
	}
	return &bars{
		width: series.Width,
		bars:  series.Bars,
		fill:  fill,
		edge:  draw.LineStyle{Color: edgeColor, Width: vg.Points(0.5)},
	}, nil
}

func (b *bars) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, bar := range b.bars {
		x0, x1 := trX(bar.X-b.width/2), trX(bar.X+b.width/2)
		y0, y1 := trY(0), trY(bar.Value)
		pts := []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}}
		c.FillPolygon(b.fill, c.ClipPolygonXY(pts))
		c.StrokeLines(b.edge, c.ClipLinesXY(append(pts, pts[0]))...)
	}
}

func (b *bars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	for _, bar := range b.bars {
		xmin = math.Min(xmin, bar.X-b.width/2)
		xmax = math.Max(xmax, bar.X+b.width/2)
		ymin = math.Min(ymin, bar.Value)
		ymax = math.Max(ymax, bar.Value)
	}
	return xmin, xmax, ymin, ymax
}

func (b *bars) Thumbnail(c *draw.Canvas) {
	swatch{fill: b.fill}.Thumbnail(c)
}

// swatch is a legend entry with no drawn series behind it.
type swatch struct {
	fill color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.fill, pts)
}

// backdrop fills the data area; it is added before every other plotter.
type backdrop struct {
	fill color.Color
}

func (b backdrop) Plot(c draw.Canvas, _ *plot.Plot) {
	swatch(b).Thumbnail(&c)
}

// zeroLine spans the data area at y=0 without widening the x range.
type zeroLine struct {
	style draw.LineStyle
}

func (z zeroLine) Plot(c draw.Canvas, p *plot.Plot) {
	_, trY := p.Transforms(&c)
	y := trY(0)
	if y < c.Min.Y || y > c.Max.Y {
		return
	}
	c.StrokeLine2(z.style, c.Min.X, y, c.Max.X, y)
}

// rightAxis draws a secondary y axis along the right edge of the data area.
// Secondary values are plotted on the primary scale through toPrimary; the
// axis labels them with their own values.
type rightAxis struct {
	label      string
	min, max   float64
	toPrimary  func(float64) float64
	line       draw.LineStyle
	tickLength vg.Length
	tickStyle  text.Style
	labelStyle text.Style
}

func (a *rightAxis) Plot(c draw.Canvas, p *plot.Plot) {
	_, trY := p.Transforms(&c)
	x := c.Max.X
	c.StrokeLine2(a.line, x, c.Min.Y, x, c.Max.Y)

	widest := vg.Length(0)
	for _, tick := range (plot.DefaultTicks{}).Ticks(a.min, a.max) {
		if tick.Value < a.min || tick.Value > a.max {
			continue
		}
		y := trY(a.toPrimary(tick.Value))
		if tick.IsMinor() {
			c.StrokeLine2(a.line, x, y, x+a.tickLength/2, y)
			continue
		}
		c.StrokeLine2(a.line, x, y, x+a.tickLength, y)
		c.FillText(a.tickStyle, vg.Point{X: x + a.tickLength + vg.Points(2), Y: y}, tick.Label)
		widest = vg.Length(math.Max(float64(widest), float64(a.tickStyle.Width(tick.Label))))
	}

	if a.label != "" {
		at := vg.Point{
			X: x + a.tickLength + vg.Points(6) + widest,
			Y: (c.Min.Y + c.Max.Y) / 2,
		}
		c.FillText(a.labelStyle, at, a.label)
	}
}

// secondaryScale maps secondary values linearly onto [ymin, ymax] with a 5%
// margin on either side of the data.
func secondaryScale(smin, smax, ymin, ymax float64) (lo, hi float64, toPrimary func(float64) float64) {
	span := smax - smin
	if span == 0 {
		lo, hi = smin-1, smax+1
	} else {
		lo, hi = smin-span*0.05, smax+span*0.05
	}
	return lo, hi, func(v float64) float64 {
		return ymin + (v-lo)/(hi-lo)*(ymax-ymin)
	}
}

func toXYs(points []figure.Point, mapY func(float64) float64) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
		if mapY != nil {
			xys[i].Y = mapY(pt.Y)
		}
	}
	return xys
}
