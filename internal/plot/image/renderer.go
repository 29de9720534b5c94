// Package image renders interference plots to image files using
// gonum/plot. One Figure corresponds to one output file: series are
// added per partition configuration, then Finish draws the cache
// boundaries and labels before Save writes the figure.
package image

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"interference-bench/internal/config"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type Figure struct {
	plot     *plot.Plot
	yMin     float64
	yMax     float64
	finished bool
}

type FinishOptions struct {
	Title      string
	XLabel     string
	YLabel     string
	Boundaries []config.CacheBoundary
	YMin       *float64
	YMax       *float64
}

func NewFigure() *Figure {
	p := plot.New()
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = vg.Millimeter

	return &Figure{
		plot: p,
		yMin: math.Inf(1),
		yMax: math.Inf(-1),
	}
}

// AddSeries draws one log-x line with markers. sizes and values must
// have equal length; the caller is expected to drop the duplicated
// baseline element before calling.
func (f *Figure) AddSeries(label string, sizes []int, values []float64, styleIndex int) error {
	if len(sizes) != len(values) {
		return fmt.Errorf("series %s: %d sizes but %d values", label, len(sizes), len(values))
	}

	xys := make(plotter.XYs, len(values))
	for i := range values {
		xys[i].X = float64(sizes[i])
		xys[i].Y = values[i]

		if values[i] < f.yMin {
			f.yMin = values[i]
		}
		if values[i] > f.yMax {
			f.yMax = values[i]
		}
	}

	line, scatter, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("series %s: %w", label, err)
	}

	style := GetPartitionStyle(styleIndex)
	line.LineStyle = draw.LineStyle{
		Color:  style.Color,
		Width:  vg.Points(1),
		Dashes: style.Dashes,
	}
	scatter.GlyphStyle = draw.GlyphStyle{
		Color:  style.Color,
		Radius: vg.Points(2.5),
		Shape:  style.Glyph,
	}

	f.plot.Add(line, scatter)
	f.plot.Legend.Add(label, line, scatter)
	return nil
}

// Finish adds the vertical cache-boundary reference lines, title and
// axis labels. Must be called after all series have been added so the
// boundary lines span the data range.
func (f *Figure) Finish(opts FinishOptions) error {
	yMin, yMax := f.yMin, f.yMax
	if opts.YMin != nil {
		yMin = *opts.YMin
		f.plot.Y.Min = yMin
	}
	if opts.YMax != nil {
		yMax = *opts.YMax
		f.plot.Y.Max = yMax
	}

	if math.IsInf(yMin, 1) || math.IsInf(yMax, -1) {
		return fmt.Errorf("no series added to figure")
	}

	for _, boundary := range opts.Boundaries {
		line, err := plotter.NewLine(plotter.XYs{
			{X: float64(boundary.SizeKiB), Y: yMin},
			{X: float64(boundary.SizeKiB), Y: yMax},
		})
		if err != nil {
			return fmt.Errorf("boundary %s: %w", boundary.Label, err)
		}
		line.LineStyle = draw.LineStyle{
			Color:  BoundaryLineColor,
			Width:  vg.Points(0.75),
			Dashes: dashed,
		}
		f.plot.Add(line)
		f.plot.Legend.Add(boundary.Label, line)
	}

	f.plot.Title.Text = opts.Title
	f.plot.X.Label.Text = opts.XLabel
	f.plot.Y.Label.Text = opts.YLabel
	f.finished = true
	return nil
}

// Save writes the figure; the output format follows the file
// extension. The target directory is created on demand.
func (f *Figure) Save(path string) error {
	if !f.finished {
		return fmt.Errorf("figure not finished")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.plot.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save figure: %w", err)
	}
	return nil
}
