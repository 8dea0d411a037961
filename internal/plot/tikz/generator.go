package tikz

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"container-labs/internal/plot/figure"
	"container-labs/internal/plot/mappings"
	plotTemplate "container-labs/internal/plot/tikz/templates/plot"
	wrapperTemplate "container-labs/internal/plot/tikz/templates/wrapper"

	"github.com/sirupsen/logrus"
)

// Horizontal distance between panels in the generated picture.
const panelShiftCM = 8

type Generator struct {
	logger *logrus.Logger
	now    func() time.Time
}

func NewGenerator(logger *logrus.Logger) *Generator {
	return &Generator{logger: logger, now: time.Now}
}

// Generate returns the pgfplots picture and its LaTeX figure wrapper.
// checksum identifies the input data the figure was built from.
func (g *Generator) Generate(fig *figure.Figure, checksum string) (string, string, error) {
	g.logger.WithFields(logrus.Fields{
		"figure": fig.Name,
		"panels": len(fig.Panels),
	}).Debug("Generating TikZ figure")

	plotData, err := g.preparePlotData(fig, checksum)
	if err != nil {
		return "", "", fmt.Errorf("failed to prepare plot data: %w", err)
	}

	plotOutput, err := render("plot", plotTemplate.PlotTemplate, plotData)
	if err != nil {
		return "", "", fmt.Errorf("failed to render plot: %w", err)
	}

	wrapperOutput, err := render("wrapper", wrapperTemplate.WrapperTemplate, g.prepareWrapperData(fig))
	if err != nil {
		return "", "", fmt.Errorf("failed to render wrapper: %w", err)
	}
	return plotOutput, wrapperOutput, nil
}

func PlotFileName(fig *figure.Figure) string {
	return fig.Name + ".tikz"
}

func WrapperFileName(fig *figure.Figure) string {
	return fig.Name + "-wrapper.tex"
}

func (g *Generator) preparePlotData(fig *figure.Figure, checksum string) (*plotTemplate.PlotData, error) {
	colors := newPalette()
	data := &plotTemplate.PlotData{
		GeneratedDate: g.now().Format("2006-01-02 15:04:05"),
		Name:          fig.Name,
		Title:         fig.Title,
		Checksum:      checksum,
	}

	zero, err := colors.use(mappings.ZeroLineColor)
	if err != nil {
		return nil, err
	}
	data.ZeroColor = zero

	for i := range fig.Panels {
		panel := &fig.Panels[i]
		primary, err := preparePrimaryAxis(panel, i, colors)
		if err != nil {
			return nil, fmt.Errorf("panel %d: %w", i, err)
		}
		data.Axes = append(data.Axes, primary)

		if panel.Secondary != nil && len(panel.Secondary.Lines) > 0 {
			overlay, err := prepareSecondaryAxis(panel, primary, colors)
			if err != nil {
				return nil, fmt.Errorf("panel %d secondary axis: %w", i, err)
			}
			data.Axes = append(data.Axes, overlay)
		}
	}

	data.Colors = colors.definitions()
	return data, nil
}

func preparePrimaryAxis(panel *figure.Panel, index int, colors *palette) (plotTemplate.Axis, error) {
	axis := plotTemplate.Axis{
		Name:     fmt.Sprintf("panel%d", index),
		At:       fmt.Sprintf("(%dcm,0)", index*panelShiftCM),
		Title:    escape(panel.Title),
		XLabel:   escape(panel.XLabel),
		YLabel:   escape(panel.YLabel),
		ZeroLine: panel.ZeroLine,
	}

	xmin, xmax := xRange(panel)
	axis.XMin, axis.XMax = num(xmin), num(xmax)
	ymin, ymax := panel.YRange()
	if len(panel.Bars) > 0 {
		ymin = math.Min(ymin, 0)
	}
	axis.YMin, axis.YMax = num(ymin), num(ymax+math.Max(ymax-ymin, 1)*0.05)

	if len(panel.Ticks) > 0 {
		positions := make([]string, len(panel.Ticks))
		labels := make([]string, len(panel.Ticks))
		for i, t := range panel.Ticks {
			positions[i] = num(t.X)
			labels[i] = "{" + escape(t.Label) + "}"
		}
		axis.XTicks = strings.Join(positions, ",")
		axis.XTickLabels = strings.Join(labels, ",")
	}

	switch panel.Legend {
	case figure.LegendTopLeft:
		axis.Legend = "north west"
	case figure.LegendTopRight:
		axis.Legend = "north east"
	}

	for _, series := range panel.Bars {
		if len(series.Bars) == 0 {
			continue
		}
		name, err := colors.use(series.Color)
		if err != nil {
			return axis, err
		}
		opts := []string{"ybar", "bar width=" + num(series.Width), "bar shift=0pt", "fill=" + name, "draw=" + name}
		if series.Alpha > 0 && series.Alpha < 1 {
			opts = append(opts, "fill opacity="+num(series.Alpha))
		}
		if series.Whiskers {
			opts = append(opts, "error bars/.cd", "y dir=both", "y explicit")
		}

		out := plotTemplate.Series{Options: strings.Join(opts, ", ")}
		if panel.Legend != figure.LegendNone {
			out.LegendEntry = escape(series.Label)
		}
		for _, bar := range series.Bars {
			coord := fmt.Sprintf("(%s,%s)", num(bar.X), num(bar.Value))
			if series.Whiskers {
				coord += fmt.Sprintf(" += (0,%s) -= (0,%s)", num(bar.ErrHigh), num(bar.ErrLow))
			}
			out.Coordinates = append(out.Coordinates, coord)
			if bar.Text != "" {
				axis.Nodes = append(axis.Nodes, plotTemplate.Node{X: num(bar.X), Y: num(bar.TextY), Text: escape(bar.Text)})
			}
		}
		axis.Plots = append(axis.Plots, out)
	}

	for _, series := range panel.Lines {
		out, err := lineSeries(series, panel.Legend, colors)
		if err != nil {
			return axis, err
		}
		if out == nil {
			continue
		}
		axis.Plots = append(axis.Plots, *out)
		for _, pt := range series.Points {
			if pt.Text != "" {
				axis.Nodes = append(axis.Nodes, plotTemplate.Node{X: num(pt.X), Y: num(pt.TextY), Text: escape(pt.Text)})
			}
		}
	}

	if panel.Legend != figure.LegendNone {
		for _, entry := range panel.LegendOnly {
			name, err := colors.use(entry.Color)
			if err != nil {
				return axis, err
			}
			axis.LegendOnly = append(axis.LegendOnly, plotTemplate.LegendEntry{Label: escape(entry.Label), Color: name})
		}
	}
	return axis, nil
}

// prepareSecondaryAxis overlays a second axis on the primary one, sharing
// its position and x range with the y axis drawn on the right.
func prepareSecondaryAxis(panel *figure.Panel, primary plotTemplate.Axis, colors *palette) (plotTemplate.Axis, error) {
	smin, smax := panel.Secondary.Range()
	span := math.Max(smax-smin, 1)
	axis := plotTemplate.Axis{
		Name:    primary.Name + "secondary",
		At:      primary.At,
		Overlay: true,
		YLabel:  escape(panel.Secondary.Label),
		XMin:    primary.XMin,
		XMax:    primary.XMax,
		YMin:    num(smin - span*0.05),
		YMax:    num(smax + span*0.05),
	}
	// The overlay keeps its legend entries inside the primary legend box.
	if panel.Legend != figure.LegendNone {
		axis.Legend = "south east"
	}
	for _, series := range panel.Secondary.Lines {
		out, err := lineSeries(series, panel.Legend, colors)
		if err != nil {
			return axis, err
		}
		if out != nil {
			axis.Plots = append(axis.Plots, *out)
		}
	}
	return axis, nil
}

func lineSeries(series figure.LineSeries, legend figure.Legend, colors *palette) (*plotTemplate.Series, error) {
	if len(series.Points) == 0 {
		return nil, nil
	}
	name, err := colors.use(series.Color)
	if err != nil {
		return nil, err
	}

	opts := []string{"color=" + name}
	switch series.Marker {
	case figure.MarkerCircle:
		opts = append(opts, "mark=*")
	case figure.MarkerSquare:
		opts = append(opts, "mark=square*")
	default:
		opts = append(opts, "mark=none")
	}
	if series.Dashed {
		opts = append(opts, "dashed")
	}
	if series.Width > 0 {
		opts = append(opts, "line width="+num(series.Width)+"pt")
	}
	if series.Alpha > 0 && series.Alpha < 1 {
		opts = append(opts, "opacity="+num(series.Alpha))
	}

	out := &plotTemplate.Series{Options: strings.Join(opts, ", ")}
	if legend != figure.LegendNone {
		out.LegendEntry = escape(series.Label)
	}
	for _, pt := range series.Points {
		out.Coordinates = append(out.Coordinates, fmt.Sprintf("(%s,%s)", num(pt.X), num(pt.Y)))
	}
	return out, nil
}

func xRange(panel *figure.Panel) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range panel.Bars {
		for _, b := range s.Bars {
			lo = math.Min(lo, b.X-s.Width/2)
			hi = math.Max(hi, b.X+s.Width/2)
		}
	}
	for _, l := range panel.Lines {
		for _, p := range l.Points {
			lo = math.Min(lo, p.X)
			hi = math.Max(hi, p.X)
		}
	}
	for _, t := range panel.Ticks {
		lo = math.Min(lo, t.X)
		hi = math.Max(hi, t.X)
	}
	if math.IsInf(lo, 0) {
		return 0, 1
	}
	pad := math.Max((hi-lo)*0.05, 0.5)
	return lo - pad, hi + pad
}

func (g *Generator) prepareWrapperData(fig *figure.Figure) *wrapperTemplate.WrapperData {
	caption := fig.Title
	if caption == "" && len(fig.Panels) > 0 {
		caption = fig.Panels[0].Title
	}
	return &wrapperTemplate.WrapperData{
		GeneratedDate: g.now().Format("2006-01-02 15:04:05"),
		Name:          fig.Name,
		PlotFileName:  PlotFileName(fig),
		ShortCaption:  escape(fig.Name),
		Caption:       escape(caption),
	}
}

func render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", name, err)
	}
	return buf.String(), nil
}

type palette struct {
	hex map[string]string
}

func newPalette() *palette {
	return &palette{hex: make(map[string]string)}
}

// use registers a color and returns its pgf name.
func (p *palette) use(hex string) (string, error) {
	if _, err := mappings.ParseHex(hex); err != nil {
		return "", err
	}
	name := mappings.TikzColorName(hex)
	p.hex[name] = mappings.TikzHex(hex)
	return name, nil
}

func (p *palette) definitions() []plotTemplate.Color {
	defs := make([]plotTemplate.Color, 0, len(p.hex))
	for name, hex := range p.hex {
		defs = append(defs, plotTemplate.Color{Name: name, Hex: hex})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"%", `\%`,
	"#", `\#`,
	"&", `\&`,
	"_", `\_`,
	"$", `\$`,
	"\n", `\\`,
)

func escape(s string) string {
	return latexEscaper.Replace(s)
}
