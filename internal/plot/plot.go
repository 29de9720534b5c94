// Package plot turns extracted metric series into the comparison
// figures of the interference experiment: per dataset, access pattern
// and metric, one absolute and one normalized execution-time plot with
// a series per cache-partition configuration.
package plot

import (
	"fmt"
	"os"
	"path/filepath"

	"interference-bench/internal/analysis"
	"interference-bench/internal/config"
	"interference-bench/internal/extractor"
	"interference-bench/internal/logging"
	"interference-bench/internal/plot/image"
	"interference-bench/internal/plot/tikz"

	"github.com/sirupsen/logrus"
)

type Backend string

const (
	BackendImage Backend = "image"
	BackendTikz  Backend = "tikz"
)

// Results holds the extracted metric series keyed by dataset, then
// partition configuration.
type Results map[string]map[string]extractor.Metrics

// ExtractAll runs the extractor over every (dataset, partition) pair of
// the experiment.
func ExtractAll(cfg *config.ExperimentConfig) (Results, error) {
	logger := logging.GetLogger()
	ext := extractor.New(cfg)

	results := make(Results, len(cfg.Datasets))
	for _, dataset := range cfg.GetDatasetsSorted() {
		perPartition := make(map[string]extractor.Metrics, len(cfg.Partitions))
		for _, partition := range cfg.GetPartitionsSorted() {
			logger.WithFields(logrus.Fields{
				"dataset":   dataset.KeyName,
				"partition": partition.KeyName,
				"folder":    partition.Folder,
			}).Debug("Extracting result files")

			metrics, err := ext.ExtractFolder(partition.Folder, dataset.Marker)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"dataset":   dataset.KeyName,
					"partition": partition.KeyName,
				}).WithError(err).Error("Extraction failed")
				return nil, fmt.Errorf("dataset %s, partition %s: %w", dataset.KeyName, partition.KeyName, err)
			}
			perPartition[partition.KeyName] = metrics
		}
		results[dataset.KeyName] = perPartition
	}

	return results, nil
}

type Manager struct {
	cfg     *config.ExperimentConfig
	backend Backend
	tikzGen *tikz.Generator
	logger  *logrus.Logger
}

func NewManager(cfg *config.ExperimentConfig, backend Backend) (*Manager, error) {
	logger := logging.GetLogger()

	switch backend {
	case BackendImage, BackendTikz:
	default:
		return nil, fmt.Errorf("unknown plot backend: %s", backend)
	}

	return &Manager{
		cfg:     cfg,
		backend: backend,
		tikzGen: tikz.NewGenerator(logger),
		logger:  logger,
	}, nil
}

// GenerateAll renders the absolute and normalized figures for every
// dataset, non-baseline access pattern and metric.
func (m *Manager) GenerateAll(results Results) error {
	sizes := extractor.New(m.cfg).Sizes()

	for _, dataset := range m.cfg.GetDatasetsSorted() {
		outDir := filepath.Join(m.cfg.Experiment.Output.Directory, dataset.KeyName)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
		}

		for _, pattern := range m.cfg.NonBaselinePatterns() {
			for _, metric := range m.cfg.Experiment.Metrics {
				if err := m.generateAbsolute(results, dataset, pattern, metric, sizes, outDir); err != nil {
					return err
				}
				if err := m.generateNormalized(results, dataset, pattern, metric, sizes, outDir); err != nil {
					return err
				}
			}
		}

		m.logger.WithFields(logrus.Fields{
			"dataset":   dataset.KeyName,
			"directory": outDir,
		}).Info("Dataset plots generated")
	}

	return nil
}

// seriesFor returns the extracted series for one figure line, without
// the duplicated baseline element at index 0.
func (m *Manager) seriesFor(results Results, dataset config.DatasetConfig, partition config.PartitionConfig, metric, pattern string) ([]float64, error) {
	series := results[dataset.KeyName][partition.KeyName][metric][pattern]
	if len(series) == 0 {
		return nil, fmt.Errorf("no series for dataset %s, partition %s, metric %s, pattern %s",
			dataset.KeyName, partition.KeyName, metric, pattern)
	}
	return series, nil
}

func (m *Manager) generateAbsolute(results Results, dataset config.DatasetConfig, pattern, metric string, sizes []int, outDir string) error {
	name := fmt.Sprintf("%s_%s_%s", metric, pattern, dataset.KeyName)

	collect := func(add func(partition config.PartitionConfig, values []float64) error) error {
		for _, partition := range m.cfg.GetPartitionsSorted() {
			series, err := m.seriesFor(results, dataset, partition, metric, pattern)
			if err != nil {
				return err
			}
			if err := add(partition, series[1:]); err != nil {
				return err
			}
		}
		return nil
	}

	if m.backend == BackendTikz {
		opts := tikz.PlotOptions{
			ExperimentName: m.cfg.Experiment.Name,
			Description:    m.cfg.Experiment.Description,
			Dataset:        dataset.KeyName,
			Pattern:        pattern,
			Metric:         metric,
			Title:          name,
			XLabel:         "Size of Interference (KiB)",
			YLabel:         "Execution time",
			Boundaries:     m.cfg.Experiment.CacheBoundaries,
		}
		err := collect(func(partition config.PartitionConfig, values []float64) error {
			opts.Series = append(opts.Series, tikz.SeriesInput{
				Partition:  partition.KeyName,
				StyleIndex: partition.Index,
				Sizes:      sizes,
				Values:     values,
			})
			return nil
		})
		if err != nil {
			return err
		}
		return m.writeTikz(opts, outDir)
	}

	fig := image.NewFigure()
	err := collect(func(partition config.PartitionConfig, values []float64) error {
		return fig.AddSeries(partition.KeyName, sizes, values, partition.Index)
	})
	if err != nil {
		return err
	}

	if err := fig.Finish(image.FinishOptions{
		Title:      name,
		XLabel:     "Size of Interference (KiB)",
		YLabel:     "Execution time",
		Boundaries: m.cfg.Experiment.CacheBoundaries,
	}); err != nil {
		return fmt.Errorf("figure %s: %w", name, err)
	}

	path := filepath.Join(outDir, fmt.Sprintf("%s.%s", name, m.cfg.Experiment.Output.AbsoluteFormat))
	if err := fig.Save(path); err != nil {
		return fmt.Errorf("figure %s: %w", name, err)
	}
	m.logger.WithField("file", path).Debug("Figure written")
	return nil
}

func (m *Manager) generateNormalized(results Results, dataset config.DatasetConfig, pattern, metric string, sizes []int, outDir string) error {
	name := fmt.Sprintf("%s_percent_%s_%s_%s", m.cfg.Experiment.Name, metric, pattern, dataset.KeyName)

	maxRatio := 1.0
	type normSeries struct {
		partition config.PartitionConfig
		values    []float64
	}
	var normalized []normSeries

	for _, partition := range m.cfg.GetPartitionsSorted() {
		series, err := m.seriesFor(results, dataset, partition, metric, pattern)
		if err != nil {
			return err
		}
		norm := analysis.PercentChange(series)
		if max := analysis.Max(norm); max > maxRatio {
			maxRatio = max
		}
		normalized = append(normalized, normSeries{partition: partition, values: norm[1:]})
	}

	yMin := 0.99
	yMax := maxRatio

	if m.backend == BackendTikz {
		opts := tikz.PlotOptions{
			ExperimentName: m.cfg.Experiment.Name,
			Description:    m.cfg.Experiment.Description,
			Dataset:        dataset.KeyName,
			Pattern:        pattern,
			Metric:         metric,
			Title:          name,
			XLabel:         "Size of Interference (KiB)",
			YLabel:         "Execution time / Execution Time with no Interference",
			YMin:           &yMin,
			YMax:           &yMax,
			Normalized:     true,
			Boundaries:     m.cfg.Experiment.CacheBoundaries,
		}
		for _, ns := range normalized {
			opts.Series = append(opts.Series, tikz.SeriesInput{
				Partition:  ns.partition.KeyName,
				StyleIndex: ns.partition.Index,
				Sizes:      sizes,
				Values:     ns.values,
			})
		}
		return m.writeTikz(opts, outDir)
	}

	fig := image.NewFigure()
	for _, ns := range normalized {
		if err := fig.AddSeries(ns.partition.KeyName, sizes, ns.values, ns.partition.Index); err != nil {
			return fmt.Errorf("figure %s: %w", name, err)
		}
	}

	if err := fig.Finish(image.FinishOptions{
		Title:      name,
		XLabel:     "Size of Interference (KiB)",
		YLabel:     "Execution time / Execution Time with no Interference",
		Boundaries: m.cfg.Experiment.CacheBoundaries,
		YMin:       &yMin,
		YMax:       &yMax,
	}); err != nil {
		return fmt.Errorf("figure %s: %w", name, err)
	}

	path := filepath.Join(outDir, fmt.Sprintf("%s.%s", name, m.cfg.Experiment.Output.NormalizedFormat))
	if err := fig.Save(path); err != nil {
		return fmt.Errorf("figure %s: %w", name, err)
	}
	m.logger.WithField("file", path).Debug("Figure written")
	return nil
}

func (m *Manager) writeTikz(opts tikz.PlotOptions, outDir string) error {
	plotTikz, wrapperTex, err := m.tikzGen.Generate(opts)
	if err != nil {
		return err
	}

	base := opts.FileBase()
	plotPath := filepath.Join(outDir, base+".tikz")
	wrapperPath := filepath.Join(outDir, base+"-wrapper.tex")

	if err := os.WriteFile(plotPath, []byte(plotTikz), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", plotPath, err)
	}
	if err := os.WriteFile(wrapperPath, []byte(wrapperTex), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", wrapperPath, err)
	}

	m.logger.WithFields(logrus.Fields{
		"plot":    plotPath,
		"wrapper": wrapperPath,
	}).Debug("TikZ sources written")
	return nil
}
