package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"interference-bench/internal/logging"

	"gopkg.in/yaml.v3"
)

// Defaults reproduce the experiment this tool was written for: a vision
// pipeline on an Orin AGX with interference sizes spanning three ranges
// and cache boundaries at the L1/L2/L3/L4 capacities.
var (
	DefaultMetrics  = []string{"disparity", "mser", "tracking"}
	DefaultPatterns = []string{"none", "read", "write", "modify", "prefetch_l3"}

	DefaultSizes = []SizeRange{
		{From: 8, To: 56, Step: 8},
		{From: 64, To: 480, Step: 32},
		{From: 512, To: 8192, Step: 512},
	}

	DefaultCacheBoundaries = []CacheBoundary{
		{Label: "L1 Cache", SizeKiB: 64},
		{Label: "L2 Cache", SizeKiB: 256},
		{Label: "L3 Cache", SizeKiB: 2048},
		{Label: "L4 Cache", SizeKiB: 4096},
	}
)

func LoadConfig(filepath string) (*ExperimentConfig, error) {
	config, _, err := LoadConfigWithContent(filepath)
	return config, err
}

func LoadConfigWithContent(filepath string) (*ExperimentConfig, string, error) {
	logger := logging.GetLogger()

	data, err := os.ReadFile(filepath)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to read config file")
		return nil, "", err
	}

	originalContent := string(data)

	// Expand environment variables
	expanded := expandEnvVars(originalContent)

	var config ExperimentConfig
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to parse config file")
		return nil, "", err
	}

	// Set KeyName field for datasets and partitions based on the YAML key
	for keyName, dataset := range config.Datasets {
		dataset.KeyName = keyName
		config.Datasets[keyName] = dataset
	}
	for keyName, partition := range config.Partitions {
		partition.KeyName = keyName
		config.Partitions[keyName] = partition
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}

	return &config, originalContent, nil
}

func expandEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})
}

func applyDefaults(config *ExperimentConfig) {
	exp := &config.Experiment

	if len(exp.Metrics) == 0 {
		exp.Metrics = DefaultMetrics
	}
	if len(exp.Patterns) == 0 {
		exp.Patterns = DefaultPatterns
	}
	if exp.BaselinePattern == "" {
		exp.BaselinePattern = exp.Patterns[0]
	}
	if len(exp.Sizes) == 0 {
		exp.Sizes = DefaultSizes
	}
	if len(exp.CacheBoundaries) == 0 {
		exp.CacheBoundaries = DefaultCacheBoundaries
	}
	if exp.Output.Directory == "" {
		exp.Output.Directory = "."
	}
	if exp.Output.AbsoluteFormat == "" {
		exp.Output.AbsoluteFormat = "png"
	}
	if exp.Output.NormalizedFormat == "" {
		exp.Output.NormalizedFormat = "eps"
	}
}

var supportedFormats = map[string]bool{
	"png": true,
	"eps": true,
	"pdf": true,
	"svg": true,
}

func validateConfig(config *ExperimentConfig) error {
	if config.Experiment.Name == "" {
		return fmt.Errorf("experiment name is required")
	}

	if len(config.Datasets) == 0 {
		return fmt.Errorf("at least one dataset must be defined")
	}
	for name, dataset := range config.Datasets {
		if dataset.Marker == "" {
			return fmt.Errorf("dataset %s: marker is required", name)
		}
	}

	if len(config.Partitions) == 0 {
		return fmt.Errorf("at least one partition configuration must be defined")
	}
	indices := make(map[int]bool)
	for name, partition := range config.Partitions {
		if partition.Folder == "" {
			return fmt.Errorf("partition %s: folder is required", name)
		}
		if indices[partition.Index] {
			return fmt.Errorf("partition %s: index %d is already used", name, partition.Index)
		}
		indices[partition.Index] = true
	}

	for _, r := range config.Experiment.Sizes {
		if r.Step <= 0 {
			return fmt.Errorf("size range %d-%d: step must be greater than 0", r.From, r.To)
		}
		if r.From > r.To {
			return fmt.Errorf("size range %d-%d: from must not exceed to", r.From, r.To)
		}
	}

	baseline := config.Experiment.BaselinePattern
	found := false
	for _, p := range config.Experiment.Patterns {
		if p == baseline {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("baseline pattern %s is not in the pattern list", baseline)
	}

	if !supportedFormats[config.Experiment.Output.AbsoluteFormat] {
		return fmt.Errorf("unsupported output format: %s", config.Experiment.Output.AbsoluteFormat)
	}
	if !supportedFormats[config.Experiment.Output.NormalizedFormat] {
		return fmt.Errorf("unsupported output format: %s", config.Experiment.Output.NormalizedFormat)
	}

	return nil
}
