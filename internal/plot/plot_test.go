package plot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"interference-bench/internal/config"
)

const testMarker = "--------------------------1--------------------------------"

func writeResultFile(t *testing.T, folder, pattern string, size int, disparity, mser, tracking float64) {
	t.Helper()
	content := strings.Join([]string{
		testMarker,
		"pad",
		"disparity", fmt.Sprintf("%f", disparity),
		"mser", fmt.Sprintf("%f", mser),
		"tracking", fmt.Sprintf("%f", tracking),
		"",
	}, "\n")
	path := filepath.Join(folder, fmt.Sprintf("%s_%d.txt", pattern, size))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write result file: %v", err)
	}
}

func testExperiment(t *testing.T) *config.ExperimentConfig {
	t.Helper()

	noneDir := t.TempDir()
	onebyDir := t.TempDir()
	outDir := t.TempDir()

	for _, folder := range []string{noneDir, onebyDir} {
		writeResultFile(t, folder, "none", 8, 2.0, 3.0, 4.0)
		writeResultFile(t, folder, "read", 8, 2.2, 3.3, 4.4)
		writeResultFile(t, folder, "read", 16, 2.4, 3.6, 4.8)
	}

	return &config.ExperimentConfig{
		Experiment: config.ExperimentInfo{
			Name:            "coloring-test",
			Metrics:         []string{"disparity", "mser", "tracking"},
			Patterns:        []string{"none", "read"},
			BaselinePattern: "none",
			Sizes:           []config.SizeRange{{From: 8, To: 16, Step: 8}},
			CacheBoundaries: []config.CacheBoundary{{Label: "L1 Cache", SizeKiB: 64}},
			Output: config.OutputConfig{
				Directory:        outDir,
				AbsoluteFormat:   "png",
				NormalizedFormat: "eps",
			},
		},
		Datasets: map[string]config.DatasetConfig{
			"cif": {KeyName: "cif", Marker: testMarker},
		},
		Partitions: map[string]config.PartitionConfig{
			"none": {KeyName: "none", Index: 0, Folder: noneDir},
			"1by3": {KeyName: "1by3", Index: 1, Folder: onebyDir},
		},
	}
}

func TestExtractAll(t *testing.T) {
	cfg := testExperiment(t)

	results, err := ExtractAll(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	series := results["cif"]["1by3"]["disparity"]["read"]
	if len(series) != 3 {
		t.Fatalf("expected series of length 3, got %v", series)
	}
	if series[0] != 2.0 {
		t.Fatalf("expected prepended baseline 2.0, got %v", series[0])
	}
}

func TestExtractAll_PropagatesExtractionErrors(t *testing.T) {
	cfg := testExperiment(t)
	cfg.Partitions["1by3"] = config.PartitionConfig{
		KeyName: "1by3", Index: 1, Folder: filepath.Join(t.TempDir(), "missing"),
	}

	if _, err := ExtractAll(cfg); err == nil {
		t.Fatalf("expected error for missing result folder")
	}
}

func TestManager_GenerateAll_Tikz(t *testing.T) {
	cfg := testExperiment(t)

	results, err := ExtractAll(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	manager, err := NewManager(cfg, BackendTikz)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := manager.GenerateAll(results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outDir := filepath.Join(cfg.Experiment.Output.Directory, "cif")
	for _, metric := range cfg.Experiment.Metrics {
		absolute := filepath.Join(outDir, fmt.Sprintf("coloring-test-cif-read-%s.tikz", metric))
		normalized := filepath.Join(outDir, fmt.Sprintf("coloring-test-cif-read-%s-percent.tikz", metric))

		for _, path := range []string{absolute, normalized} {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("expected plot file %s: %v", path, err)
			}
			content := string(data)
			if !strings.Contains(content, "\\addlegendentry{ none }") || !strings.Contains(content, "\\addlegendentry{ 1by3 }") {
				t.Fatalf("plot %s missing partition series:\n%s", path, content)
			}
		}

		data, err := os.ReadFile(normalized)
		if err != nil {
			t.Fatalf("read normalized plot: %v", err)
		}
		if !strings.Contains(string(data), "ymin=0.99") {
			t.Fatalf("normalized plot missing y-axis floor:\n%s", string(data))
		}
	}
}

func TestNewManager_UnknownBackend(t *testing.T) {
	cfg := testExperiment(t)
	if _, err := NewManager(cfg, Backend("gnuplot")); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
