package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"container-labs/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const Version = "1.0.0"

func loadEnvironment() {
	logger := logging.GetLogger()

	// Try to load .env file from current directory
	envFile := ".env"
	if _, err := os.Stat(envFile); err != nil {
		// Fall back to the application directory
		execPath, err := os.Executable()
		if err != nil {
			return
		}
		envFile = filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(envFile); err != nil {
			return
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
		return
	}
	logger.WithField("file", envFile).Debug("Loaded environment variables")
}

// newRootCmd wires the command tree. Without a subcommand the root runs the
// benchmark report.
func newRootCmd() *cobra.Command {
	var logLevel string
	report := &reportOptions{}

	rootCmd := &cobra.Command{
		Use:           "container-labs",
		Short:         "Container course benchmark reporter and lab programs",
		Long:          "Renders charts and a console summary from container runtime benchmark results, and runs the course lab programs",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				if err := logging.SetLogLevel(logLevel); err != nil {
					return fmt.Errorf("invalid log level: %w", err)
				}
			}
			return nil
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, report, logLevel != "")
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (trace, debug, info, warn, error)")
	report.bind(rootCmd)

	rootCmd.AddCommand(newReportCmd(&logLevel))
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newLabCmd())

	return rootCmd
}

func Execute() error {
	loadEnvironment()
	return newRootCmd().Execute()
}
