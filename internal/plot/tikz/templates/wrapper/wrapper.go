package templates

const WrapperTemplate = `% Generated on {{.GeneratedDate}}
% Figure: {{.Name}}
\begin{center}
    \begin{figure}[H]
    \centering
    \resizebox{1\linewidth}{!}{\input{./{{.PlotFileName}} }}
    \caption[{{.ShortCaption}}]{ {{.Caption}} }
    \label{fig:{{.Name}}}
    \end{figure}
\end{center}
`

type WrapperData struct {
	GeneratedDate string
	Name          string
	PlotFileName  string
	ShortCaption  string
	Caption       string
}
