package cmd

import (
	"fmt"

	"container-labs/internal/config"
	"container-labs/internal/logging"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var configFile string

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a report configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd, configFile)
		},
	}

	validateCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to report configuration file")
	_ = validateCmd.MarkFlagRequired("config")

	return validateCmd
}

func validateConfig(cmd *cobra.Command, configFile string) error {
	logger := logging.GetLogger()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logger.WithField("config_file", configFile).WithError(err).Error("Configuration validation failed")
		return err
	}

	logger.WithField("config_file", configFile).Info("Configuration is valid")
	fmt.Fprintf(cmd.OutOrStdout(), "results_dir=%s images_dir=%s dpi=%d tikz=%t influxdb=%t\n",
		cfg.Report.ResultsDir, cfg.Report.ImagesDir, cfg.Report.DPI, cfg.Report.TikZ, cfg.Export.InfluxDB.Enabled)
	return nil
}
