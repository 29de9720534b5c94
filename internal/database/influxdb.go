package database

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"interference-bench/internal/config"
	"interference-bench/internal/extractor"
	"interference-bench/internal/logging"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sirupsen/logrus"
)

// ExperimentMetadata describes one export of extracted series.
type ExperimentMetadata struct {
	ExperimentName string `json:"experiment_name"`
	Description    string `json:"description"`
	ExportedAt     string `json:"exported_at"` // RFC3339 timestamp
	TotalDatasets  int    `json:"total_datasets"`
	TotalPartitions int   `json:"total_partitions"`
	TotalPatterns  int    `json:"total_patterns"`
	TotalMetrics   int    `json:"total_metrics"`
	TotalPoints    int    `json:"total_points"`
	DriverVersion  string `json:"driver_version"`
	Hostname       string `json:"hostname"`
	OSInfo         string `json:"os_info"`
	KernelVersion  string `json:"kernel_version"`
	ConfigFile     string `json:"config_file"`
}

// SystemInfo contains host system information
type SystemInfo struct {
	Hostname      string
	OSInfo        string
	KernelVersion string
}

func collectSystemInfo() *SystemInfo {
	info := &SystemInfo{}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	info.Hostname = hostname

	info.OSInfo = runtime.GOOS + "/" + runtime.GOARCH

	if data, err := os.ReadFile("/proc/version"); err == nil {
		parts := strings.Fields(string(data))
		if len(parts) >= 3 {
			info.KernelVersion = parts[2]
		}
	}
	if info.KernelVersion == "" {
		info.KernelVersion = "unknown"
	}

	return info
}

// CollectExperimentMetadata gathers the metadata written alongside an
// export.
func CollectExperimentMetadata(cfg *config.ExperimentConfig, configContent string, totalPoints int, version string) *ExperimentMetadata {
	info := collectSystemInfo()

	return &ExperimentMetadata{
		ExperimentName:  cfg.Experiment.Name,
		Description:     cfg.Experiment.Description,
		ExportedAt:      time.Now().Format(time.RFC3339),
		TotalDatasets:   len(cfg.Datasets),
		TotalPartitions: len(cfg.Partitions),
		TotalPatterns:   len(cfg.Experiment.Patterns),
		TotalMetrics:    len(cfg.Experiment.Metrics),
		TotalPoints:     totalPoints,
		DriverVersion:   version,
		Hostname:        info.Hostname,
		OSInfo:          info.OSInfo,
		KernelVersion:   info.KernelVersion,
		ConfigFile:      configContent,
	}
}

type InfluxDBClient struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewInfluxDBClient(cfg config.DatabaseConfig) (*InfluxDBClient, error) {
	logger := logging.GetLogger()

	client := influxdb2.NewClient(cfg.Host, cfg.Password)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		logger.WithField("host", cfg.Host).WithError(err).Error("Failed to connect to InfluxDB")
		return nil, err
	}

	if health.Status != "pass" {
		logger.WithFields(logrus.Fields{
			"host":    cfg.Host,
			"status":  health.Status,
			"message": health.Message,
		}).Error("InfluxDB health check failed")
		return nil, fmt.Errorf("influxdb health check failed: %s", health.Status)
	}

	writeAPI := client.WriteAPIBlocking(cfg.Org, cfg.Name)

	logger.WithFields(logrus.Fields{
		"host":   cfg.Host,
		"bucket": cfg.Name,
		"org":    cfg.Org,
	}).Info("Connected to InfluxDB")

	return &InfluxDBClient{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.Name,
		org:      cfg.Org,
	}, nil
}

func (idb *InfluxDBClient) Close() {
	idb.client.Close()
}

// WriteExperimentResults writes one point per extracted measurement.
// Index 0 of a non-baseline series is the prepended no-interference
// value and is tagged with size 0; the measured sizes follow in order.
// Returns the number of points written.
func (idb *InfluxDBClient) WriteExperimentResults(cfg *config.ExperimentConfig, results map[string]map[string]extractor.Metrics) (int, error) {
	ctx := context.Background()
	now := time.Now()
	sizes := cfg.InterferenceSizes()
	baseline := cfg.Experiment.BaselinePattern

	var points []*write.Point

	for _, dataset := range cfg.GetDatasetsSorted() {
		perPartition, ok := results[dataset.KeyName]
		if !ok {
			continue
		}
		for _, partition := range cfg.GetPartitionsSorted() {
			metrics, ok := perPartition[partition.KeyName]
			if !ok {
				continue
			}
			for _, metric := range cfg.Experiment.Metrics {
				for _, pattern := range cfg.Experiment.Patterns {
					for i, value := range metrics[metric][pattern] {
						sizeKiB := 0
						if pattern != baseline && i > 0 && i-1 < len(sizes) {
							sizeKiB = sizes[i-1]
						}

						point := influxdb2.NewPoint("interference_metrics",
							map[string]string{
								"experiment": cfg.Experiment.Name,
								"dataset":    dataset.KeyName,
								"partition":  partition.KeyName,
								"pattern":    pattern,
								"metric":     metric,
							},
							map[string]interface{}{
								"size_kib":       sizeKiB,
								"execution_time": value,
							},
							now)
						points = append(points, point)
					}
				}
			}
		}
	}

	if len(points) > 0 {
		if err := idb.writeAPI.WritePoint(ctx, points...); err != nil {
			return 0, fmt.Errorf("failed to write data points: %w", err)
		}
	}

	return len(points), nil
}

func (idb *InfluxDBClient) WriteMetadata(metadata *ExperimentMetadata) error {
	ctx := context.Background()

	point := influxdb2.NewPoint("interference_meta",
		map[string]string{
			"experiment": metadata.ExperimentName,
		},
		map[string]interface{}{
			"description":      metadata.Description,
			"exported_at":      metadata.ExportedAt,
			"total_datasets":   metadata.TotalDatasets,
			"total_partitions": metadata.TotalPartitions,
			"total_patterns":   metadata.TotalPatterns,
			"total_metrics":    metadata.TotalMetrics,
			"total_points":     metadata.TotalPoints,
			"driver_version":   metadata.DriverVersion,
			"hostname":         metadata.Hostname,
			"os_info":          metadata.OSInfo,
			"kernel_version":   metadata.KernelVersion,
			"config_file":      metadata.ConfigFile,
		},
		time.Now())

	if err := idb.writeAPI.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}
