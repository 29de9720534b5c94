package database

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"interference-bench/internal/config"
	"interference-bench/internal/extractor"
)

func testArtifact() *ArchiveArtifact {
	cfg := &config.ExperimentConfig{
		Experiment: config.ExperimentInfo{
			Name:  "coloring test",
			Sizes: []config.SizeRange{{From: 8, To: 16, Step: 8}},
		},
	}
	results := map[string]map[string]extractor.Metrics{
		"cif": {
			"1by3": {
				"disparity": {"read": {2.0, 2.2, 2.4}},
			},
		},
	}
	return BuildArchiveArtifact(cfg, "experiment:\n  name: coloring test\n", results)
}

func TestWriteArchiveArtifact_Roundtrip(t *testing.T) {
	dir := t.TempDir()

	artifact := testArtifact()
	path, err := WriteArchiveArtifact(dir, artifact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(path, ".json.gz") {
		t.Fatalf("unexpected artifact path: %s", path)
	}
	if strings.Contains(path, " ") {
		t.Fatalf("artifact name should not contain spaces: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer gz.Close()

	var decoded ArchiveArtifact
	if err := json.NewDecoder(gz).Decode(&decoded); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}

	if decoded.Version != 1 {
		t.Fatalf("expected version 1, got %d", decoded.Version)
	}
	if decoded.ExperimentName != "coloring test" {
		t.Fatalf("unexpected experiment name: %s", decoded.ExperimentName)
	}
	if len(decoded.Sizes) != 2 || decoded.Sizes[0] != 8 || decoded.Sizes[1] != 16 {
		t.Fatalf("unexpected sizes: %v", decoded.Sizes)
	}

	series := decoded.Results["cif"]["1by3"]["disparity"]["read"]
	if len(series) != 3 || series[2] != 2.4 {
		t.Fatalf("unexpected series: %v", series)
	}
}

func TestWriteArchiveArtifact_NilArtifact(t *testing.T) {
	if _, err := WriteArchiveArtifact(t.TempDir(), nil); err == nil {
		t.Fatalf("expected error for nil artifact")
	}
}

func TestWriteArchiveArtifact_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()

	if _, err := WriteArchiveArtifact(dir, testArtifact()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one artifact file, got %d", len(entries))
	}
}

func TestCollectExperimentMetadata(t *testing.T) {
	cfg := &config.ExperimentConfig{
		Experiment: config.ExperimentInfo{
			Name:     "coloring-test",
			Metrics:  []string{"disparity", "mser", "tracking"},
			Patterns: []string{"none", "read"},
		},
		Datasets: map[string]config.DatasetConfig{
			"cif": {KeyName: "cif", Marker: "m"},
		},
		Partitions: map[string]config.PartitionConfig{
			"none": {KeyName: "none", Index: 0, Folder: "/a"},
		},
	}

	meta := CollectExperimentMetadata(cfg, "content", 42, "1.0.0")

	if meta.ExperimentName != "coloring-test" {
		t.Fatalf("unexpected experiment name: %s", meta.ExperimentName)
	}
	if meta.TotalPoints != 42 {
		t.Fatalf("expected 42 points, got %d", meta.TotalPoints)
	}
	if meta.TotalDatasets != 1 || meta.TotalPartitions != 1 {
		t.Fatalf("unexpected totals: %+v", meta)
	}
	if meta.Hostname == "" || meta.OSInfo == "" {
		t.Fatalf("expected host info to be populated: %+v", meta)
	}
	if _, err := time.Parse(time.RFC3339, meta.ExportedAt); err != nil {
		t.Fatalf("exported_at not RFC3339: %v", err)
	}
}
