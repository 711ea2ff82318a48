// Package cli implements the vibesense command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"vibesense/internal/logging"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "vibesense",
	Short: "On-device mood detection for browsing sessions",
	Long: "Vibesense infers a user's mood from session telemetry and watches\n" +
		"session health, entirely on device. It ships as a library; this tool\n" +
		"replays recorded traces, inspects profiles, and manages config.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setupLogging() error {
	cfg := logging.DefaultConfig()
	if flagLogLevel != "" {
		if _, err := logging.ParseLevel(flagLogLevel); err != nil {
			return err
		}
		cfg.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		format, err := logging.ParseFormat(flagLogFormat)
		if err != nil {
			return err
		}
		cfg.Format = format
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format (console, json)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
}
