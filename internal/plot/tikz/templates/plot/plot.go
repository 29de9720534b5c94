package templates

const PlotTemplate = `% Generated on {{.GeneratedDate}}
%
% Experiment: {{.ExperimentName}}
% Description: {{.Description}}
% Dataset: {{.Dataset}}
% Access Pattern: {{.Pattern}}
% Metric: {{.Metric}}
%
\begin{tikzpicture}
	\begin{semilogxaxis}[
		% title={ {{.Title}} },
		xlabel={ {{.XLabel}} },
		ylabel={ {{.YLabel}} },
		width=\textwidth,
		height=0.7\textwidth,
		log basis x=10,
{{if .YMin}}		ymin={{.YMin}},
{{end}}{{if .YMax}}		ymax={{.YMax}},
{{end}}		ymajorgrids,
		grid style=dashed,
		legend columns=2,
		legend pos=north west,
	]

{{range .Boundaries}}	% {{.Label}} boundary
	\draw[gray, dashed] (axis cs:{{.SizeKiB}},\pgfkeysvalueof{/pgfplots/ymin}) -- (axis cs:{{.SizeKiB}},\pgfkeysvalueof{/pgfplots/ymax});
{{end}}
{{range .Plots}}
% Partition: {{.Partition}}
\addplot+[{{.Style}}]
  coordinates {
{{range .Coordinates}}    {{.}}
{{end}}  };
\addlegendentry{ {{.LegendEntry}} }

{{end}}
	\end{semilogxaxis}
\end{tikzpicture}
`

type PlotData struct {
	GeneratedDate  string
	ExperimentName string
	Description    string
	Dataset        string
	Pattern        string
	Metric         string
	Title          string
	XLabel         string
	YLabel         string
	YMin           string
	YMax           string
	Boundaries     []Boundary
	Plots          []PlotSeries
}

type Boundary struct {
	Label   string
	SizeKiB int
}

type PlotSeries struct {
	Partition   string
	Style       string
	LegendEntry string
	Coordinates []string
}
