package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/countdown/internal/config"
	"github.com/oshokin/countdown/internal/logger"
	"github.com/oshokin/countdown/internal/service/server"
	"github.com/oshokin/countdown/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// envFile is the dotenv file read before the configuration.
	envFile string
	// logLevel overrides the configured log level.
	logLevel string
	// allowMultiple skips the single-instance check.
	allowMultiple bool

	// rootCmd represents the base command for running the timer server.
	rootCmd = &cobra.Command{
		Use:   "countdown-server [listen-address]",
		Short: "Run the countdown timer engine and its gRPC server.",
		Long: `Starts the countdown engine: an ordered list of named timers that count down
against wall-clock deadlines, a shared one-second tick driver and an alert
dispatcher that announces every finished timer exactly once.

The server listens on server_addr from the configuration file, or on the
address given as argument (e.g. :9090, 0.0.0.0:50551). Preset timers from the
configuration are created at startup. The timer list lives in memory only;
delivered alerts can be appended to a journal file (alerts.journal_file) and
announced by an external command (alerts.command).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				LogLevel:      logLevel,
				AllowMultiple: allowMultiple,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the countdown-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&envFile, "env-file", config.DefaultEnvFilename, "path to an optional dotenv file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level override (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&allowMultiple, "allow-multiple", false, "skip the single-instance check")
}
