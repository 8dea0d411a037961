package database

import (
	"context"
	"fmt"
	"time"

	"container-labs/internal/config"
	"container-labs/internal/experiments"
	"container-labs/internal/logging"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sirupsen/logrus"
)

const SummaryMeasurement = "benchmark_summary"

type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

type InfluxDBClient struct {
	client   influxdb2.Client
	writeAPI pointWriter
	bucket   string
	org      string
}

// NewInfluxDBClient connects and runs a health check before returning.
func NewInfluxDBClient(ctx context.Context, cfg config.DatabaseConfig) (*InfluxDBClient, error) {
	logger := logging.GetLogger()

	if !cfg.IsComplete() {
		return nil, fmt.Errorf("influxdb configuration incomplete: host, token, org and bucket are required")
	}

	client := influxdb2.NewClient(cfg.Host, cfg.Token)

	health, err := client.Health(ctx)
	if err != nil {
		client.Close()
		logger.WithField("host", cfg.Host).WithError(err).Error("Failed to connect to InfluxDB")
		return nil, fmt.Errorf("influxdb health check: %w", err)
	}
	if health.Status != "pass" {
		client.Close()
		message := ""
		if health.Message != nil {
			message = *health.Message
		}
		logger.WithFields(logrus.Fields{
			"host":    cfg.Host,
			"status":  health.Status,
			"message": message,
		}).Error("InfluxDB health check failed")
		return nil, fmt.Errorf("influxdb health check failed: status %s", health.Status)
	}

	logger.WithFields(logrus.Fields{
		"host":   cfg.Host,
		"bucket": cfg.Bucket,
		"org":    cfg.Org,
	}).Info("Connected to InfluxDB")

	return &InfluxDBClient{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		bucket:   cfg.Bucket,
		org:      cfg.Org,
	}, nil
}

// WriteSummaries writes one point per group summary, all stamped with ts.
// run tags the points with the input checksum so repeated reports of the
// same data can be told apart from new data.
func (idb *InfluxDBClient) WriteSummaries(ctx context.Context, run string, summaries []experiments.GroupSummary, ts time.Time) error {
	points := SummaryPoints(run, summaries, ts)
	if len(points) == 0 {
		return nil
	}
	if err := idb.writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("failed to write summary points: %w", err)
	}

	logging.GetLogger().WithFields(logrus.Fields{
		"points": len(points),
		"bucket": idb.bucket,
	}).Info("Wrote summaries to InfluxDB")
	return nil
}

func SummaryPoints(run string, summaries []experiments.GroupSummary, ts time.Time) []*write.Point {
	points := make([]*write.Point, 0, len(summaries))
	for _, s := range summaries {
		tags := map[string]string{
			"experiment": string(s.Experiment),
			"runtime":    s.Runtime,
			"label":      s.Label,
			"metric":     s.Metric,
		}
		if run != "" {
			tags["run"] = run
		}
		points = append(points, influxdb2.NewPoint(SummaryMeasurement,
			tags,
			map[string]interface{}{
				"n":      s.N,
				"median": s.Median,
				"q1":     s.Q1,
				"q3":     s.Q3,
				"mean":   s.Mean,
				"stddev": s.StdDev,
			},
			ts))
	}
	return points
}

func (idb *InfluxDBClient) Close() {
	if idb.client != nil {
		idb.client.Close()
	}
}
