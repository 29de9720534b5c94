package tikz

import (
	"strings"
	"testing"

	"interference-bench/internal/config"
	"interference-bench/internal/logging"
)

func testOptions() PlotOptions {
	return PlotOptions{
		ExperimentName: "orin-agx-coloring",
		Dataset:        "cif",
		Pattern:        "read",
		Metric:         "disparity",
		Title:          "disparity_read_cif",
		XLabel:         "Size of Interference (KiB)",
		YLabel:         "Execution time",
		Boundaries: []config.CacheBoundary{
			{Label: "L1 Cache", SizeKiB: 64},
			{Label: "L2 Cache", SizeKiB: 256},
		},
		Series: []SeriesInput{
			{Partition: "none", StyleIndex: 0, Sizes: []int{8, 16}, Values: []float64{1.5, 1.6}},
			{Partition: "1by3", StyleIndex: 1, Sizes: []int{8, 16}, Values: []float64{1.2, 1.3}},
		},
	}
}

func TestGenerate_ContainsSeriesAndBoundaries(t *testing.T) {
	g := NewGenerator(logging.GetLogger())

	plotTikz, wrapperTex, err := g.Generate(testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"\\begin{semilogxaxis}",
		"\\addplot+[",
		"(8,1.500000)",
		"(16,1.600000)",
		"\\addlegendentry{ none }",
		"\\addlegendentry{ 1by3 }",
		"(axis cs:64,",
		"(axis cs:256,",
	} {
		if !strings.Contains(plotTikz, want) {
			t.Fatalf("plot output missing %q:\n%s", want, plotTikz)
		}
	}

	if !strings.Contains(wrapperTex, "orin-agx-coloring-cif-read-disparity.tikz") {
		t.Fatalf("wrapper output missing plot file name:\n%s", wrapperTex)
	}
}

func TestGenerate_NormalizedLimits(t *testing.T) {
	g := NewGenerator(logging.GetLogger())

	opts := testOptions()
	yMin, yMax := 0.99, 2.5
	opts.YMin = &yMin
	opts.YMax = &yMax
	opts.Normalized = true

	plotTikz, _, err := g.Generate(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(plotTikz, "ymin=0.99") {
		t.Fatalf("expected ymin in output:\n%s", plotTikz)
	}
	if !strings.Contains(plotTikz, "ymax=2.50") {
		t.Fatalf("expected ymax in output:\n%s", plotTikz)
	}
}

func TestGenerate_SeriesLengthMismatch(t *testing.T) {
	g := NewGenerator(logging.GetLogger())

	opts := testOptions()
	opts.Series[0].Values = []float64{1.5}

	if _, _, err := g.Generate(opts); err == nil {
		t.Fatalf("expected error for mismatched series lengths")
	}
}

func TestFileBase_NormalizedSuffix(t *testing.T) {
	opts := testOptions()
	if got := opts.FileBase(); got != "orin-agx-coloring-cif-read-disparity" {
		t.Fatalf("unexpected file base: %s", got)
	}

	opts.Normalized = true
	if got := opts.FileBase(); got != "orin-agx-coloring-cif-read-disparity-percent" {
		t.Fatalf("unexpected normalized file base: %s", got)
	}
}

func TestGenerate_NoSeries(t *testing.T) {
	g := NewGenerator(logging.GetLogger())

	opts := testOptions()
	opts.Series = nil

	if _, _, err := g.Generate(opts); err == nil {
		t.Fatalf("expected error for empty series")
	}
}
