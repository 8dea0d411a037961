package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"container-labs/internal/logging"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func LoadConfig(filepath string) (*ReportConfig, error) {
	config, _, err := LoadConfigWithContent(filepath)
	return config, err
}

// LoadConfigWithContent reads a YAML config on top of Default(). An empty path
// yields the defaults, so the reporter runs without any config file.
func LoadConfigWithContent(filepath string) (*ReportConfig, string, error) {
	logger := logging.GetLogger()

	config := Default()
	if filepath == "" {
		ApplyEnvironment(config)
		return config, "", nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to read config file")
		return nil, "", err
	}

	originalContent := string(data)

	// Expand environment variables
	expanded := expandEnvVars(originalContent)

	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to parse config file")
		return nil, "", err
	}

	ApplyEnvironment(config)

	if err := validateConfig(config); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}

	return config, originalContent, nil
}

// ApplyEnvironment fills InfluxDB settings left empty in the file from the
// INFLUXDB_* variables, and the spool directory from REPORT_SPOOL_DIR.
func ApplyEnvironment(config *ReportConfig) {
	db := &config.Export.InfluxDB
	if db.Host == "" {
		db.Host = os.Getenv("INFLUXDB_HOST")
	}
	if db.Token == "" {
		db.Token = os.Getenv("INFLUXDB_TOKEN")
	}
	if db.Org == "" {
		db.Org = os.Getenv("INFLUXDB_ORG")
	}
	if db.Bucket == "" {
		db.Bucket = os.Getenv("INFLUXDB_BUCKET")
	}
	if config.Export.SpoolDir == "" {
		config.Export.SpoolDir = strings.TrimSpace(os.Getenv("REPORT_SPOOL_DIR"))
	}
}

func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})
}

func validateConfig(config *ReportConfig) error {
	if config.Report.ResultsDir == "" {
		return fmt.Errorf("results_dir is required")
	}

	if config.Report.ImagesDir == "" {
		return fmt.Errorf("images_dir is required")
	}

	if config.Report.DPI <= 0 {
		return fmt.Errorf("dpi must be greater than 0")
	}

	if config.Export.TimeoutS < 0 {
		return fmt.Errorf("timeout_s must not be negative")
	}

	db := config.Export.InfluxDB
	if db.Enabled && !db.IsComplete() {
		return fmt.Errorf("incomplete influxdb configuration")
	}

	return nil
}
