package config

import (
	"time"
)

type ReportConfig struct {
	Report ReportInfo   `yaml:"report"`
	Export ExportConfig `yaml:"export"`
}

type ReportInfo struct {
	ResultsDir string `yaml:"results_dir"`
	ImagesDir  string `yaml:"images_dir"`
	DPI        int    `yaml:"dpi"`
	TikZ       bool   `yaml:"tikz"`
	LogLevel   string `yaml:"log_level"`
}

type ExportConfig struct {
	SpoolDir string         `yaml:"spool_dir,omitempty"`
	InfluxDB DatabaseConfig `yaml:"influxdb"`
	// Timeout for the health check and the write, in seconds.
	TimeoutS int `yaml:"timeout_s,omitempty"`
}

type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
}

const (
	DefaultResultsDir = "results"
	DefaultImagesDir  = "../images"
	DefaultDPI        = 150
	DefaultTimeoutS   = 10
)

// Default mirrors the hard-coded layout of the course repository:
// CSVs and charts under results/, a second copy of every chart under ../images.
func Default() *ReportConfig {
	return &ReportConfig{
		Report: ReportInfo{
			ResultsDir: DefaultResultsDir,
			ImagesDir:  DefaultImagesDir,
			DPI:        DefaultDPI,
			LogLevel:   "info",
		},
		Export: ExportConfig{
			TimeoutS: DefaultTimeoutS,
		},
	}
}

func (c *ReportConfig) GetExportTimeout() time.Duration {
	if c.Export.TimeoutS <= 0 {
		return DefaultTimeoutS * time.Second
	}
	return time.Duration(c.Export.TimeoutS) * time.Second
}

func (d DatabaseConfig) IsComplete() bool {
	return d.Host != "" && d.Token != "" && d.Org != "" && d.Bucket != ""
}
