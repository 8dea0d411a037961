package templates

const PlotTemplate = `% Generated on {{.GeneratedDate}}
%
% Figure: {{.Name}}
{{- if .Title}}
% Title: {{.Title}}
{{- end}}
% Input checksum: {{.Checksum}}
%
{{range .Colors}}\definecolor{ {{- .Name -}} }{HTML}{ {{- .Hex -}} }
{{end -}}
\begin{tikzpicture}
{{- range .Axes}}
	\begin{axis}[
		name={{.Name}},
		at={ {{- .At -}} },
		width=7.5cm,
		height=6cm,
		xmin={{.XMin}}, xmax={{.XMax}},
		ymin={{.YMin}}, ymax={{.YMax}},
{{- if .Overlay}}
		axis y line*=right,
		axis x line=none,
{{- else}}
		title={ {{- .Title -}} },
		xlabel={ {{- .XLabel -}} },
{{- if .XTicks}}
		xtick={ {{- .XTicks -}} },
		xticklabels={ {{- .XTickLabels -}} },
		xticklabel style={align=center},
{{- end}}
{{- end}}
		ylabel={ {{- .YLabel -}} },
{{- if .Legend}}
		legend pos={{.Legend}},
		legend style={font=\scriptsize},
{{- end}}
	]
{{range .Plots}}
\addplot[{{.Options}}]
  coordinates {
{{range .Coordinates}}    {{.}}
{{end}}  };
{{- if .LegendEntry}}
\addlegendentry{ {{- .LegendEntry -}} }
{{- end}}
{{end}}
{{- range .LegendOnly}}
\addlegendimage{area legend, fill={{.Color}}}
\addlegendentry{ {{- .Label -}} }
{{end}}
{{- if .ZeroLine}}
\draw[{{$.ZeroColor}}, dashed] (axis cs:{{.XMin}},0) -- (axis cs:{{.XMax}},0);
{{end}}
{{- range .Nodes}}
\node[above, font=\scriptsize, align=center] at (axis cs:{{.X}},{{.Y}}) { {{- .Text -}} };
{{- end}}
	\end{axis}
{{- end}}
\end{tikzpicture}
`

type PlotData struct {
	GeneratedDate string
	Name          string
	Title         string
	Checksum      string
	ZeroColor     string
	Colors        []Color
	Axes          []Axis
}

type Color struct {
	Name string
	Hex  string
}

type Axis struct {
	Name        string
	At          string
	Overlay     bool
	Title       string
	XLabel      string
	YLabel      string
	XMin        string
	XMax        string
	YMin        string
	YMax        string
	XTicks      string
	XTickLabels string
	Legend      string
	ZeroLine    bool
	Plots       []Series
	LegendOnly  []LegendEntry
	Nodes       []Node
}

type Series struct {
	Options     string
	LegendEntry string
	Coordinates []string
}

type LegendEntry struct {
	Label string
	Color string
}

type Node struct {
	X    string
	Y    string
	Text string
}
