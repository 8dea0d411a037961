package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"container-labs/internal/config"
	"container-labs/internal/database"
	"container-labs/internal/dataframe"
	"container-labs/internal/experiments"
	"container-labs/internal/logging"
	"container-labs/internal/plot"
	"container-labs/internal/summary"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	configFile string
	resultsDir string
	imagesDir  string
	dpi        int
	tikz       bool
	influx     bool
	spoolDir   string
}

func (o *reportOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.configFile, "config", "c", "", "Path to report configuration file")
	flags.StringVar(&o.resultsDir, "results-dir", config.DefaultResultsDir, "Directory holding the experiment CSV files")
	flags.StringVar(&o.imagesDir, "images-dir", config.DefaultImagesDir, "Directory receiving a second copy of every chart")
	flags.IntVar(&o.dpi, "dpi", config.DefaultDPI, "Chart resolution")
	flags.BoolVar(&o.tikz, "tikz", false, "Also write TikZ sources next to the charts")
	flags.BoolVar(&o.influx, "influx", false, "Write group summaries to InfluxDB")
	flags.StringVar(&o.spoolDir, "spool-dir", "", "Write a compressed report artifact to this directory")
}

// apply layers explicitly set flags over the loaded configuration.
func (o *reportOptions) apply(cmd *cobra.Command, cfg *config.ReportConfig) {
	flags := cmd.Flags()
	if flags.Changed("results-dir") {
		cfg.Report.ResultsDir = o.resultsDir
	}
	if flags.Changed("images-dir") {
		cfg.Report.ImagesDir = o.imagesDir
	}
	if flags.Changed("dpi") {
		cfg.Report.DPI = o.dpi
	}
	if flags.Changed("tikz") {
		cfg.Report.TikZ = o.tikz
	}
	if flags.Changed("influx") {
		cfg.Export.InfluxDB.Enabled = o.influx
	}
	if flags.Changed("spool-dir") {
		cfg.Export.SpoolDir = o.spoolDir
	}
}

func newReportCmd(logLevel *string) *cobra.Command {
	opts := &reportOptions{}
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Render charts and print the benchmark summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, *logLevel != "")
		},
	}
	opts.bind(reportCmd)
	return reportCmd
}

// runReport renders every chart, prints the summary and runs the requested
// exports. Chart and export failures do not stop the run; they are returned
// joined at the end.
func runReport(cmd *cobra.Command, opts *reportOptions, logLevelSet bool) error {
	logger := logging.GetLogger()

	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts.apply(cmd, cfg)
	if cfg.Export.InfluxDB.Enabled && !cfg.Export.InfluxDB.IsComplete() {
		return fmt.Errorf("influxdb export requested but INFLUXDB_HOST, INFLUXDB_TOKEN, INFLUXDB_ORG and INFLUXDB_BUCKET are not all set")
	}

	if !logLevelSet && cfg.Report.LogLevel != "" {
		if err := logging.SetLogLevel(cfg.Report.LogLevel); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}

	pm, err := plot.NewPlotManager(plot.Options{
		ResultsDir: cfg.Report.ResultsDir,
		ImagesDir:  cfg.Report.ImagesDir,
		DPI:        cfg.Report.DPI,
		TikZ:       cfg.Report.TikZ,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to create plot manager")
		return err
	}

	logger.WithFields(logrus.Fields{
		"results_dir": cfg.Report.ResultsDir,
		"images_dir":  cfg.Report.ImagesDir,
	}).Debug("Loading experiment results")

	ds := experiments.LoadAll(cfg.Report.ResultsDir)
	saved, genErr := pm.GenerateAll(ds)

	printer := summary.NewPrinter(cmd.OutOrStdout())
	printer.Print(ds)
	if err := printer.PrintCharts(cfg.Report.ResultsDir); err != nil {
		logger.WithError(err).Warn("Failed to list generated charts")
	}

	exportErr := export(cmd, cfg, ds, saved)
	return errors.Join(genErr, exportErr)
}

func export(cmd *cobra.Command, cfg *config.ReportConfig, ds *experiments.Datasets, saved []string) error {
	exporter := database.NewExporter(database.ExportOptions{
		SpoolDir: cfg.Export.SpoolDir,
		Influx:   cfg.Export.InfluxDB.Enabled,
		InfluxDB: cfg.Export.InfluxDB,
		Timeout:  cfg.GetExportTimeout(),
	})
	if !exporter.Enabled() {
		return nil
	}

	checksum, err := dataframe.Checksum(ds.Frames()...)
	if err != nil {
		logging.GetLogger().WithError(err).Warn("Failed to compute input checksum")
	}

	var charts []string
	for _, path := range saved {
		if filepath.Dir(path) == filepath.Clean(cfg.Report.ResultsDir) && filepath.Ext(path) == ".png" {
			charts = append(charts, path)
		}
	}

	artifact := database.BuildReportArtifact(ds, checksum, charts)
	if _, err := exporter.Export(cmd.Context(), artifact); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}
