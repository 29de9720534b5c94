package tikz

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"interference-bench/internal/config"
	"interference-bench/internal/plot/tikz/mappings"
	plotTemplate "interference-bench/internal/plot/tikz/templates/plot"
	wrapperTemplate "interference-bench/internal/plot/tikz/templates/wrapper"

	"github.com/sirupsen/logrus"
)

// Generator renders interference plots as LaTeX/TikZ sources: one
// pgfplots semilogx axis per figure plus a wrapper document snippet.
type Generator struct {
	logger *logrus.Logger
}

func NewGenerator(logger *logrus.Logger) *Generator {
	return &Generator{logger: logger}
}

type SeriesInput struct {
	Partition  string
	StyleIndex int
	Sizes      []int
	Values     []float64
}

type PlotOptions struct {
	ExperimentName string
	Description    string
	Dataset        string
	Pattern        string
	Metric         string
	Title          string
	XLabel         string
	YLabel         string
	YMin           *float64
	YMax           *float64
	Normalized     bool
	Boundaries     []config.CacheBoundary
	Series         []SeriesInput
}

// FileBase is the base name shared by the generated plot and wrapper
// files.
func (opts PlotOptions) FileBase() string {
	base := fmt.Sprintf("%s-%s-%s-%s", opts.ExperimentName, opts.Dataset, opts.Pattern, opts.Metric)
	if opts.Normalized {
		base += "-percent"
	}
	return base
}

func (g *Generator) Generate(opts PlotOptions) (string, string, error) {
	g.logger.WithFields(logrus.Fields{
		"dataset": opts.Dataset,
		"pattern": opts.Pattern,
		"metric":  opts.Metric,
	}).Debug("Generating TikZ plot")

	if len(opts.Series) == 0 {
		return "", "", fmt.Errorf("no series for dataset %s, pattern %s, metric %s", opts.Dataset, opts.Pattern, opts.Metric)
	}

	plotData, err := g.preparePlotData(opts)
	if err != nil {
		return "", "", fmt.Errorf("failed to prepare plot data: %w", err)
	}

	plotOutput, err := renderTemplate("plot", plotTemplate.PlotTemplate, plotData)
	if err != nil {
		return "", "", fmt.Errorf("failed to render plot: %w", err)
	}

	wrapperOutput, err := renderTemplate("wrapper", wrapperTemplate.WrapperTemplate, g.prepareWrapperData(opts))
	if err != nil {
		return "", "", fmt.Errorf("failed to render wrapper: %w", err)
	}

	return plotOutput, wrapperOutput, nil
}

func (g *Generator) preparePlotData(opts PlotOptions) (*plotTemplate.PlotData, error) {
	var plots []plotTemplate.PlotSeries
	for _, series := range opts.Series {
		if len(series.Sizes) != len(series.Values) {
			return nil, fmt.Errorf("series %s: %d sizes but %d values", series.Partition, len(series.Sizes), len(series.Values))
		}

		coords := make([]string, 0, len(series.Values))
		for i := range series.Values {
			coords = append(coords, fmt.Sprintf("(%d,%.6f)", series.Sizes[i], series.Values[i]))
		}

		style := mappings.GetPartitionStyle(series.StyleIndex)
		plots = append(plots, plotTemplate.PlotSeries{
			Partition:   series.Partition,
			Style:       style.ToTikzOptions(),
			LegendEntry: series.Partition,
			Coordinates: coords,
		})
	}

	var boundaries []plotTemplate.Boundary
	for _, b := range opts.Boundaries {
		boundaries = append(boundaries, plotTemplate.Boundary{Label: b.Label, SizeKiB: b.SizeKiB})
	}

	plotData := &plotTemplate.PlotData{
		GeneratedDate:  time.Now().Format("2006-01-02 15:04:05"),
		ExperimentName: opts.ExperimentName,
		Description:    opts.Description,
		Dataset:        opts.Dataset,
		Pattern:        opts.Pattern,
		Metric:         opts.Metric,
		Title:          opts.Title,
		XLabel:         opts.XLabel,
		YLabel:         opts.YLabel,
		Boundaries:     boundaries,
		Plots:          plots,
	}
	if opts.YMin != nil {
		plotData.YMin = fmt.Sprintf("%.2f", *opts.YMin)
	}
	if opts.YMax != nil {
		plotData.YMax = fmt.Sprintf("%.2f", *opts.YMax)
	}

	return plotData, nil
}

func (g *Generator) prepareWrapperData(opts PlotOptions) *wrapperTemplate.WrapperData {
	labelID := opts.FileBase()
	caption := fmt.Sprintf("The %s execution time of the %s dataset under %s interference per partition configuration",
		opts.Metric, opts.Dataset, opts.Pattern)
	if opts.Normalized {
		caption = fmt.Sprintf("The %s execution time of the %s dataset under %s interference, normalized to the no-interference baseline",
			opts.Metric, opts.Dataset, opts.Pattern)
	}
	return &wrapperTemplate.WrapperData{
		GeneratedDate:  time.Now().Format("2006-01-02 15:04:05"),
		ExperimentName: opts.ExperimentName,
		Dataset:        opts.Dataset,
		Pattern:        opts.Pattern,
		Metric:         opts.Metric,
		PlotFileName:   fmt.Sprintf("%s.tikz", labelID),
		ShortCaption:   fmt.Sprintf("%s under %s interference", opts.Metric, opts.Pattern),
		Caption:        caption,
		LabelID:        labelID,
	}
}

func renderTemplate(name, text string, data interface{}) (string, error) {
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
