package database

import (
	"context"
	"fmt"
	"time"

	"container-labs/internal/config"
	"container-labs/internal/experiments"
	"container-labs/internal/logging"

	"github.com/sirupsen/logrus"
)

type ExportOptions struct {
	// SpoolDir requests a spool artifact. When empty an artifact is only
	// written, to DefaultSpoolDir, if the InfluxDB export fails.
	SpoolDir string
	Influx   bool
	InfluxDB config.DatabaseConfig
	Timeout  time.Duration
}

type summaryWriter interface {
	WriteSummaries(ctx context.Context, run string, summaries []experiments.GroupSummary, ts time.Time) error
	Close()
}

type Exporter struct {
	opts    ExportOptions
	connect func(ctx context.Context, cfg config.DatabaseConfig) (summaryWriter, error)
	logger  *logrus.Logger
}

func NewExporter(opts ExportOptions) *Exporter {
	return &Exporter{
		opts: opts,
		connect: func(ctx context.Context, cfg config.DatabaseConfig) (summaryWriter, error) {
			return NewInfluxDBClient(ctx, cfg)
		},
		logger: logging.GetLogger(),
	}
}

// Enabled reports whether any export was requested.
func (e *Exporter) Enabled() bool {
	return e.opts.Influx || e.opts.SpoolDir != ""
}

// Export sends the artifact's summaries to InfluxDB and/or writes the spool
// artifact. It returns the spool path when one was written.
func (e *Exporter) Export(ctx context.Context, artifact *ReportArtifact) (string, error) {
	if e.opts.Influx {
		if err := e.writeInflux(ctx, artifact); err != nil {
			e.logger.WithError(err).Warn("InfluxDB export failed")
			if e.opts.SpoolDir == "" {
				path, spoolErr := WriteSpoolArtifact(DefaultSpoolDir(), artifact)
				if spoolErr != nil {
					return "", fmt.Errorf("influxdb export failed (%v) and spooling failed: %w", err, spoolErr)
				}
				e.logger.WithField("path", path).Info("Spooled report artifact instead")
				return path, nil
			}
		}
	}

	if e.opts.SpoolDir == "" {
		return "", nil
	}
	path, err := WriteSpoolArtifact(e.opts.SpoolDir, artifact)
	if err != nil {
		return "", fmt.Errorf("failed to write spool artifact: %w", err)
	}
	e.logger.WithField("path", path).Info("Wrote spool artifact")
	return path, nil
}

func (e *Exporter) writeInflux(ctx context.Context, artifact *ReportArtifact) error {
	timeout := e.opts.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeoutS * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := e.connect(ctx, e.opts.InfluxDB)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.WriteSummaries(ctx, artifact.Checksum, artifact.Summaries, artifact.CreatedAt)
}
