package render

import (
	"image/color"
	"sync"

	"container-labs/internal/plot/mappings"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

var (
	figureBackground = mappings.MustParseHex(mappings.FigureBackground)
	axesBackground   = mappings.MustParseHex(mappings.AxesBackground)
	spineColor       = mappings.MustParseHex(mappings.SpineColor)
	textColor        = mappings.MustParseHex(mappings.TextColor)
	zeroLineColor    = mappings.MustParseHex(mappings.ZeroLineColor)
	edgeColor        = spineColor
)

const (
	titleSize      = 14
	supTitleSize   = 16
	axisLabelSize  = 11
	tickLabelSize  = 10
	valueLabelSize = 9
	legendSize     = 9
)

var fontOnce sync.Once

// useSansFont switches gonum's process-wide default face to Liberation Sans.
// It must run before the first plot.New.
func useSansFont() {
	fontOnce.Do(func() {
		plot.DefaultFont = font.Font{Typeface: "Liberation", Variant: "Sans"}
	})
}

func textStyle(size float64, bold bool) text.Style {
	fnt := font.From(plot.DefaultFont, vg.Points(size))
	if bold {
		fnt.Weight = xfont.WeightBold
	}
	return text.Style{
		Color:   textColor,
		Font:    fnt,
		XAlign:  text.XCenter,
		YAlign:  text.YBottom,
		Handler: plot.DefaultTextHandler,
	}
}

// applyTheme gives a fresh plot the dark scheme: figure-colored margins,
// white text and dim spines.
func applyTheme(p *plot.Plot) {
	p.BackgroundColor = figureBackground

	p.Title.TextStyle.Color = textColor
	p.Title.TextStyle.Font.Size = vg.Points(titleSize)
	p.Title.TextStyle.Font.Weight = xfont.WeightBold
	p.Title.Padding = vg.Points(12)

	for _, axis := range []*plot.Axis{&p.X, &p.Y} {
		axis.Color = spineColor
		axis.Label.TextStyle.Color = textColor
		axis.Label.TextStyle.Font.Size = vg.Points(axisLabelSize)
		axis.Tick.Color = textColor
		axis.Tick.Label.Color = textColor
		axis.Tick.Label.Font.Size = vg.Points(tickLabelSize)
	}

	p.Legend.TextStyle.Color = textColor
	p.Legend.TextStyle.Font.Size = vg.Points(legendSize)
	p.Legend.Padding = vg.Millimeter
}

// seriesColor parses a hex color and applies alpha; zero alpha is opaque.
func seriesColor(hex string, alpha float64) (color.Color, error) {
	c, err := mappings.ParseHex(hex)
	if err != nil {
		return nil, err
	}
	if alpha <= 0 || alpha >= 1 {
		return c, nil
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}, nil
}
