// Package figure describes charts independently of how they are drawn. The
// experiment generators build figures; the render and tikz packages draw them.
package figure

type Figure struct {
	Name string // file base name without extension, e.g. "exp1_startup"
	// Title is drawn above all panels; empty for single-panel figures.
	Title string
	// Size in inches.
	Width, Height float64
	Panels        []Panel
}

type Legend int

const (
	LegendNone Legend = iota
	LegendTopRight
	LegendTopLeft
)

type Panel struct {
	Title  string
	XLabel string
	YLabel string
	// Ticks replace the automatic x ticks when set.
	Ticks     []Tick
	Bars      []BarSeries
	Lines     []LineSeries
	Secondary *SecondaryAxis
	// ZeroLine draws a dashed horizontal line at y=0.
	ZeroLine bool
	Legend   Legend
	// LegendOnly lists legend entries that are not tied to a drawn series.
	LegendOnly []LegendEntry
}

type Tick struct {
	X     float64
	Label string
}

type LegendEntry struct {
	Label string
	Color string
}

// BarSeries bars share a color and a legend entry. Width is in data units.
type BarSeries struct {
	Label string // empty: no legend entry
	Color string
	Width float64
	// Alpha in [0,1]; zero means opaque.
	Alpha float64
	Bars  []Bar
	// Whiskers draws ErrLow/ErrHigh as error bars.
	Whiskers bool
}

type Bar struct {
	X       float64
	Value   float64
	ErrLow  float64
	ErrHigh float64
	// Text is drawn at TextY, centered above the point. Empty: no text.
	Text  string
	TextY float64
}

type Marker int

const (
	MarkerNone Marker = iota
	MarkerCircle
	MarkerSquare
)

type LineSeries struct {
	Label  string
	Color  string
	Points []Point
	Marker Marker
	Dashed bool
	// Width in points.
	Width float64
	Alpha float64
}

type Point struct {
	X, Y float64
	Text  string
	TextY float64
}

// SecondaryAxis carries line series measured on an independent right-hand
// y axis sharing the panel's x axis.
type SecondaryAxis struct {
	Label string
	Lines []LineSeries
}

func (p *Panel) HasData() bool {
	for _, s := range p.Bars {
		if len(s.Bars) > 0 {
			return true
		}
	}
	for _, l := range p.Lines {
		if len(l.Points) > 0 {
			return true
		}
	}
	return false
}

// YRange returns the extent of all primary-axis values including whiskers.
func (p *Panel) YRange() (min, max float64) {
	first := true
	update := func(v float64) {
		if first {
			min, max = v, v
			first = false
			return
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	for _, s := range p.Bars {
		for _, b := range s.Bars {
			update(b.Value)
			update(b.Value - b.ErrLow)
			update(b.Value + b.ErrHigh)
			if b.Text != "" {
				update(b.TextY)
			}
		}
	}
	for _, l := range p.Lines {
		for _, pt := range l.Points {
			update(pt.Y)
			if pt.Text != "" {
				update(pt.TextY)
			}
		}
	}
	return min, max
}

// Range returns the extent of the secondary series.
func (s *SecondaryAxis) Range() (min, max float64) {
	first := true
	for _, l := range s.Lines {
		for _, pt := range l.Points {
			if first {
				min, max = pt.Y, pt.Y
				first = false
				continue
			}
			if pt.Y < min {
				min = pt.Y
			}
			if pt.Y > max {
				max = pt.Y
			}
		}
	}
	return min, max
}
