package extractor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"interference-bench/internal/config"
	"interference-bench/internal/logging"

	"github.com/sirupsen/logrus"
)

// ErrMarkerNotFound is returned when a result file ends before the
// dataset marker appears.
var ErrMarkerNotFound = errors.New("dataset marker not found")

// PatternSeries maps an access-pattern name to the ordered execution
// times extracted for it, indexed by interference size. After
// PrependBaseline, index 0 of every non-baseline series holds the
// no-interference measurement.
type PatternSeries map[string][]float64

// Metrics maps a metric name (disparity, mser, tracking) to its
// per-pattern series.
type Metrics map[string]PatternSeries

// Extractor reads per-pattern, per-size result files from a partition
// configuration's folder and collects the metric values of the block
// introduced by a dataset marker.
type Extractor struct {
	metrics  []string
	patterns []string
	baseline string
	sizes    []int
	logger   *logrus.Logger
}

func New(cfg *config.ExperimentConfig) *Extractor {
	return &Extractor{
		metrics:  cfg.Experiment.Metrics,
		patterns: cfg.Experiment.Patterns,
		baseline: cfg.Experiment.BaselinePattern,
		sizes:    cfg.InterferenceSizes(),
		logger:   logging.GetExtractorLogger(),
	}
}

// ExtractFolder scans every result file {folder}/{pattern}_{size}.txt
// and returns one series per metric per pattern. The baseline pattern
// only exists for the smallest interference size; all other sizes are
// skipped for it. Baseline values are prepended to the non-baseline
// series before returning.
func (e *Extractor) ExtractFolder(folder, marker string) (Metrics, error) {
	result := make(Metrics, len(e.metrics))
	for _, metric := range e.metrics {
		result[metric] = make(PatternSeries, len(e.patterns))
	}

	for _, pattern := range e.patterns {
		for i, size := range e.sizes {
			if pattern == e.baseline && i > 0 {
				continue
			}

			filename := filepath.Join(folder, fmt.Sprintf("%s_%d.txt", pattern, size))
			if err := e.extractFile(filename, marker, pattern, result); err != nil {
				return nil, err
			}
		}
	}

	if err := e.prependBaseline(result); err != nil {
		return nil, err
	}

	e.checkSeriesLengths(folder, result)

	return result, nil
}

func (e *Extractor) extractFile(filename, marker, pattern string, result Metrics) error {
	file, err := os.Open(filename)
	if err != nil {
		e.logger.WithField("file", filename).WithError(err).Error("Failed to open result file")
		return fmt.Errorf("failed to open result file: %w", err)
	}
	defer file.Close()

	err = e.scanBlock(file, marker, func(metric string, value float64) {
		result[metric][pattern] = append(result[metric][pattern], value)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

type scanState int

const (
	stateSearching scanState = iota
	stateCollecting
	stateDone
)

// scanBlock reads the file two lines at a time and feeds the metric
// values of the first block matching the dataset marker to collect.
//
// The marker may sit on either line of a pair. When it is the second
// line, the pair is consumed together with one extra line so that the
// following pairs are realigned with (name, value) records. This
// asymmetry matches the result files produced on the target board and
// must not be "fixed".
func (e *Extractor) scanBlock(r io.Reader, marker string, collect func(metric string, value float64)) error {
	isMetric := make(map[string]bool, len(e.metrics))
	for _, m := range e.metrics {
		isMetric[m] = true
	}

	scanner := bufio.NewScanner(r)
	readLine := func() (string, bool) {
		if scanner.Scan() {
			return strings.TrimSpace(scanner.Text()), true
		}
		return "", false
	}

	state := stateSearching
	for state != stateDone {
		line1, ok1 := readLine()
		line2, _ := readLine()

		if state == stateSearching && !ok1 {
			return ErrMarkerNotFound
		}

		if state == stateCollecting {
			if isMetric[line1] {
				value, err := strconv.ParseFloat(line2, 64)
				if err != nil {
					return fmt.Errorf("metric %s: unparsable value %q: %w", line1, line2, err)
				}
				collect(line1, value)
			}

			if line1 == "" || line2 == "" {
				state = stateDone
				continue
			}
			if line1[0] == '-' || line2[0] == '-' {
				state = stateDone
				continue
			}
		}

		if line2 == marker {
			// Consume one more line to realign the pair parity.
			line1 = line2
			line2, _ = readLine()
			state = stateCollecting
		}
		if line1 == marker {
			state = stateCollecting
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read result file: %w", err)
	}
	return nil
}

// prependBaseline inserts the baseline (no-interference) measurement at
// index 0 of every non-baseline series, per metric.
func (e *Extractor) prependBaseline(result Metrics) error {
	for _, metric := range e.metrics {
		base := result[metric][e.baseline]
		if len(base) == 0 {
			return fmt.Errorf("metric %s: no baseline value extracted for pattern %s", metric, e.baseline)
		}

		for _, pattern := range e.patterns {
			if pattern == e.baseline {
				continue
			}
			result[metric][pattern] = append([]float64{base[0]}, result[metric][pattern]...)
		}
	}
	return nil
}

// Every non-baseline series should hold one value per interference size
// plus the prepended baseline. Shorter series point at malformed or
// truncated result files.
func (e *Extractor) checkSeriesLengths(folder string, result Metrics) {
	want := len(e.sizes) + 1
	for _, metric := range e.metrics {
		for _, pattern := range e.patterns {
			if pattern == e.baseline {
				continue
			}
			if got := len(result[metric][pattern]); got != want {
				e.logger.WithFields(logrus.Fields{
					"folder":  folder,
					"metric":  metric,
					"pattern": pattern,
					"got":     got,
					"want":    want,
				}).Warn("Truncated metric series")
			}
		}
	}
}

// Sizes returns the ordered interference sizes the extractor iterates,
// in KiB.
func (e *Extractor) Sizes() []int {
	return e.sizes
}
