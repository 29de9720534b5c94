package templates

const WrapperTemplate = `% Generated on {{.GeneratedDate}}
% Experiment: {{.ExperimentName}}
% Dataset: {{.Dataset}}  Pattern: {{.Pattern}}  Metric: {{.Metric}}
\begin{center}
    \begin{figure}[H]
    \centering
    \resizebox{1\linewidth}{!}{\input{./{{.PlotFileName}} }}
    \caption[{{.ShortCaption}}]{ {{.Caption}} }
    \label{fig:{{.LabelID}}}
    \end{figure}
\end{center}
`

type WrapperData struct {
	GeneratedDate  string
	ExperimentName string
	Dataset        string
	Pattern        string
	Metric         string
	PlotFileName   string
	ShortCaption   string
	Caption        string
	LabelID        string
}
