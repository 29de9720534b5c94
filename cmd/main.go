package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"interference-bench/internal/analysis"
	"interference-bench/internal/config"
	"interference-bench/internal/database"
	"interference-bench/internal/logging"
	"interference-bench/internal/plot"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const Version = "1.0.0"

func loadEnvironment() {
	logger := logging.GetLogger()

	// Try to load .env file from current directory
	envFile := ".env"
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
		} else {
			logger.WithField("file", envFile).Debug("Loaded environment variables")
		}
	} else {
		// Try to load from the application directory
		if execPath, err := os.Executable(); err == nil {
			appDir := filepath.Dir(execPath)
			envFile = filepath.Join(appDir, ".env")
			if _, err := os.Stat(envFile); err == nil {
				if err := godotenv.Load(envFile); err != nil {
					logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
				} else {
					logger.WithField("file", envFile).Debug("Loaded environment variables")
				}
			}
		}
	}
}

func validateEnvironment() error {
	logger := logging.GetLogger()

	requiredVars := []string{
		"INFLUXDB_HOST",
		"INFLUXDB_USER",
		"INFLUXDB_TOKEN",
		"INFLUXDB_ORG",
		"INFLUXDB_BUCKET",
	}

	var missing []string
	for _, varName := range requiredVars {
		if os.Getenv(varName) == "" {
			missing = append(missing, varName)
		}
	}

	if len(missing) > 0 {
		logger.WithField("missing_vars", missing).Error("Missing required environment variables")
		return fmt.Errorf("missing required environment variables: %v. Please ensure your .env file contains these variables", missing)
	}

	logger.Debug("All required environment variables are present")
	return nil
}

func main() {
	logger := logging.GetLogger()

	loadEnvironment()

	var configFile string
	var datasetFilter string
	var backend string
	var archiveDir string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "interference-bench",
		Short: "Cache-interference benchmark analysis tool",
		Long:  "Extracts execution times from cache-interference result files and renders comparison plots across cache-partitioning configurations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				if err := logging.SetLogLevel(logLevel); err != nil {
					return fmt.Errorf("invalid log level: %w", err)
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (trace, debug, info, warn, error)")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an experiment configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(configFile)
		},
	}

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract metric series from result files",
		Long:  "Extracts the metric series from the configured result folders and prints a per-series summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(configFile, datasetFilter)
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "Generate comparison plots",
		Long:  "Extracts the metric series and renders absolute and normalized execution-time plots per dataset, access pattern and metric",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(configFile, datasetFilter, backend, archiveDir)
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export extracted series to InfluxDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEnvironment(); err != nil {
				return err
			}
			return runExport(configFile)
		},
	}

	validateCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to experiment configuration file")
	validateCmd.MarkFlagRequired("config")

	extractCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to experiment configuration file")
	extractCmd.Flags().StringVar(&datasetFilter, "dataset", "", "Only extract the given dataset")
	extractCmd.MarkFlagRequired("config")

	plotCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to experiment configuration file")
	plotCmd.Flags().StringVar(&datasetFilter, "dataset", "", "Only plot the given dataset")
	plotCmd.Flags().StringVar(&backend, "backend", string(plot.BackendImage), "Plot backend (image, tikz)")
	plotCmd.Flags().StringVar(&archiveDir, "archive-dir", "", "Directory for extraction archive artifacts")
	plotCmd.MarkFlagRequired("config")

	exportCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to experiment configuration file")
	exportCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Fatal("Command execution failed")
	}
}

func validateConfig(configFile string) error {
	logger := logging.GetLogger()

	_, err := config.LoadConfig(configFile)
	if err != nil {
		logger.WithField("config_file", configFile).WithError(err).Error("Configuration validation failed")
		return err
	}
	logger.WithField("config_file", configFile).Info("Configuration is valid")
	return nil
}

func loadExperiment(configFile, datasetFilter string) (*config.ExperimentConfig, string, error) {
	logger := logging.GetLogger()

	cfg, content, err := config.LoadConfigWithContent(configFile)
	if err != nil {
		logger.WithField("config_file", configFile).WithError(err).Error("Failed to load configuration")
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Experiment.LogLevel != "" {
		if err := logging.SetLogLevel(cfg.Experiment.LogLevel); err != nil {
			logger.WithField("log_level", cfg.Experiment.LogLevel).WithError(err).Warn("Invalid log level in config, using INFO")
			logging.SetLogLevel("info")
		}
	}

	if datasetFilter != "" {
		dataset, ok := cfg.Datasets[datasetFilter]
		if !ok {
			return nil, "", fmt.Errorf("unknown dataset: %s", datasetFilter)
		}
		cfg.Datasets = map[string]config.DatasetConfig{datasetFilter: dataset}
	}

	return cfg, content, nil
}

func runExtract(configFile, datasetFilter string) error {
	cfg, _, err := loadExperiment(configFile, datasetFilter)
	if err != nil {
		return err
	}

	results, err := plot.ExtractAll(cfg)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATASET\tPARTITION\tMETRIC\tPATTERN\tVALUES\tBASELINE\tMAX")
	for _, dataset := range cfg.GetDatasetsSorted() {
		for _, partition := range cfg.GetPartitionsSorted() {
			metrics := results[dataset.KeyName][partition.KeyName]
			for _, metric := range cfg.Experiment.Metrics {
				for _, pattern := range cfg.Experiment.Patterns {
					series := metrics[metric][pattern]
					if len(series) == 0 {
						continue
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.6f\t%.6f\n",
						dataset.KeyName, partition.KeyName, metric, pattern,
						len(series), series[0], analysis.Max(series))
				}
			}
		}
	}
	return w.Flush()
}

func runPlot(configFile, datasetFilter, backend, archiveDir string) error {
	logger := logging.GetLogger()

	cfg, content, err := loadExperiment(configFile, datasetFilter)
	if err != nil {
		return err
	}

	results, err := plot.ExtractAll(cfg)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	manager, err := plot.NewManager(cfg, plot.Backend(backend))
	if err != nil {
		return err
	}

	if err := manager.GenerateAll(results); err != nil {
		logger.WithError(err).Error("Plot generation failed")
		return fmt.Errorf("plot generation failed: %w", err)
	}

	if cfg.Experiment.Output.Archive {
		artifact := database.BuildArchiveArtifact(cfg, content, results)
		path, err := database.WriteArchiveArtifact(archiveDir, artifact)
		if err != nil {
			logger.WithError(err).Warn("Failed to write archive artifact")
		} else {
			logger.WithField("file", path).Info("Archive artifact written")
		}
	}

	logger.Info("Plot generation completed")
	return nil
}

func runExport(configFile string) error {
	logger := logging.GetLogger()

	cfg, content, err := loadExperiment(configFile, "")
	if err != nil {
		return err
	}

	results, err := plot.ExtractAll(cfg)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	dbClient, err := database.NewInfluxDBClient(cfg.Experiment.Data.DB)
	if err != nil {
		logger.WithError(err).Error("Failed to create database client")
		return fmt.Errorf("failed to create database client: %w", err)
	}
	defer dbClient.Close()

	written, err := dbClient.WriteExperimentResults(cfg, results)
	if err != nil {
		logger.WithError(err).Error("Failed to export data")
		return fmt.Errorf("failed to export data: %w", err)
	}

	metadata := database.CollectExperimentMetadata(cfg, content, written, Version)
	if err := dbClient.WriteMetadata(metadata); err != nil {
		logger.WithError(err).Error("Failed to export metadata")
		return fmt.Errorf("failed to export metadata: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"experiment": cfg.Experiment.Name,
		"points":     written,
	}).Info("Export completed")
	return nil
}
