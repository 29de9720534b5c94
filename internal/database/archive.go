package database

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"interference-bench/internal/config"
	"interference-bench/internal/extractor"
)

// ArchiveArtifact is the on-disk record of one extraction run: the raw
// series of every (dataset, partition, metric, pattern) combination
// plus the configuration that produced them. Written next to the plots
// so a run's numbers survive independent of the rendered images.
type ArchiveArtifact struct {
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`

	ExperimentName string `json:"experiment_name"`
	Description    string `json:"description"`

	Sizes []int `json:"sizes_kib"`

	ConfigContent string `json:"config_content"`

	Results map[string]map[string]extractor.Metrics `json:"results"`
}

func DefaultArchiveDir() string {
	if v := strings.TrimSpace(os.Getenv("INTERFERENCE_BENCH_ARCHIVE_DIR")); v != "" {
		return v
	}
	return "archive"
}

// BuildArchiveArtifact constructs an archive artifact from the
// in-memory extraction results.
func BuildArchiveArtifact(cfg *config.ExperimentConfig, configContent string, results map[string]map[string]extractor.Metrics) *ArchiveArtifact {
	return &ArchiveArtifact{
		Version:        1,
		CreatedAt:      time.Now(),
		ExperimentName: cfg.Experiment.Name,
		Description:    cfg.Experiment.Description,
		Sizes:          cfg.InterferenceSizes(),
		ConfigContent:  configContent,
		Results:        results,
	}
}

// WriteArchiveArtifact writes a gzip-compressed JSON artifact to disk
// atomically. It returns the final file path.
func WriteArchiveArtifact(dir string, artifact *ArchiveArtifact) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("archive artifact is nil")
	}
	if dir == "" {
		dir = DefaultArchiveDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf(
		"%s_%s.json.gz",
		sanitizeName(artifact.ExperimentName),
		artifact.CreatedAt.UTC().Format("20060102T150405Z"),
	)
	finalPath := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, name+".tmp.*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			_ = os.Remove(tmpPath)
		}
	}()

	gz := gzip.NewWriter(tmp)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		_ = gz.Close()
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", err
	}
	ok = true
	return finalPath, nil
}

func sanitizeName(name string) string {
	if name == "" {
		return "experiment"
	}
	replacer := strings.NewReplacer(" ", "-", "/", "-", "\\", "-")
	return replacer.Replace(name)
}
