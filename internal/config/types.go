package config

import (
	"sort"
)

type ExperimentConfig struct {
	Experiment ExperimentInfo             `yaml:"experiment"`
	Datasets   map[string]DatasetConfig   `yaml:"datasets"`
	Partitions map[string]PartitionConfig `yaml:"partitions"`
}

type ExperimentInfo struct {
	Name            string          `yaml:"name"`
	Description     string          `yaml:"description"`
	LogLevel        string          `yaml:"log_level"`
	Metrics         []string        `yaml:"metrics"`
	Patterns        []string        `yaml:"patterns"`
	BaselinePattern string          `yaml:"baseline_pattern"`
	Sizes           []SizeRange     `yaml:"sizes"`
	CacheBoundaries []CacheBoundary `yaml:"cache_boundaries"`
	Output          OutputConfig    `yaml:"output"`
	Data            DataConfig      `yaml:"data"`
}

// SizeRange describes an inclusive range of interference working-set
// sizes in KiB.
type SizeRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
	Step int `yaml:"step"`
}

// CacheBoundary is a vertical reference line drawn at a cache-level
// capacity boundary.
type CacheBoundary struct {
	Label   string `yaml:"label"`
	SizeKiB int    `yaml:"size_kib"`
}

type OutputConfig struct {
	Directory        string `yaml:"directory"`
	AbsoluteFormat   string `yaml:"absolute_format"`
	NormalizedFormat string `yaml:"normalized_format"`
	Archive          bool   `yaml:"archive"`
}

type DataConfig struct {
	DB DatabaseConfig `yaml:"db"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Org      string `yaml:"org"`
}

// DatasetConfig identifies one workload resolution and the separator
// string that introduces its block in a result file.
type DatasetConfig struct {
	KeyName string `yaml:"-"`
	Marker  string `yaml:"marker"`
}

// PartitionConfig identifies one cache-partitioning configuration and
// the folder holding its result files.
type PartitionConfig struct {
	KeyName string `yaml:"-"`
	Index   int    `yaml:"index"`
	Folder  string `yaml:"folder"`
}

// InterferenceSizes expands the configured size ranges into the ordered
// sequence of interference sizes in KiB.
func (c *ExperimentConfig) InterferenceSizes() []int {
	var sizes []int
	for _, r := range c.Experiment.Sizes {
		for s := r.From; s <= r.To; s += r.Step {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

func (c *ExperimentConfig) GetPartitionsSorted() []PartitionConfig {
	var partitions []PartitionConfig
	for _, p := range c.Partitions {
		partitions = append(partitions, p)
	}
	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].Index < partitions[j].Index
	})
	return partitions
}

func (c *ExperimentConfig) GetDatasetsSorted() []DatasetConfig {
	var datasets []DatasetConfig
	for _, d := range c.Datasets {
		datasets = append(datasets, d)
	}
	sort.Slice(datasets, func(i, j int) bool {
		return datasets[i].KeyName < datasets[j].KeyName
	})
	return datasets
}

// NonBaselinePatterns returns the access patterns excluding the
// baseline, in configured order.
func (c *ExperimentConfig) NonBaselinePatterns() []string {
	var patterns []string
	for _, p := range c.Experiment.Patterns {
		if p != c.Experiment.BaselinePattern {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
