package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/countdown/internal/config"
	"github.com/oshokin/countdown/internal/logger"
	"github.com/oshokin/countdown/internal/service/ctl"
	"github.com/oshokin/countdown/internal/version"
)

// defaultLogLevel keeps log lines out of command output unless asked for.
const defaultLogLevel = "warn"

var (
	// configPath to the configuration YAML file.
	configPath string
	// envFile is the dotenv file read before the configuration.
	envFile string
	// serverAddress overrides server_addr from the configuration.
	serverAddress string
	// logLevel is the minimum level of diagnostic output.
	logLevel string
	// historyLimit is how many alerts the history command prints.
	historyLimit int
	// watchNoClear appends frames instead of clearing the terminal.
	watchNoClear bool

	// rootCmd represents the base command for controlling timers.
	rootCmd = &cobra.Command{
		Use:   "countdown-ctl",
		Short: "Control the timers of a countdown server.",
		Long: `Adds, starts, pauses, resets, renames and removes timers on a running
countdown-server, lists them or watches them count down live.

Timers are referred to by full id, by a unique id prefix or by exact name.
Durations accept Go notation (3m, 1h30m) or clock notation (03:00, 1:30:00).`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}

			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("%w: %q", config.ErrUnknownLogLevel, logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
	}

	addCmd = &cobra.Command{
		Use:   "add <name> <duration>",
		Short: "Add an idle timer.",
		Args:  cobra.ExactArgs(2),
		RunE: withController(func(ctx context.Context, c *ctl.Controller, args []string) error {
			duration, err := ctl.ParseDuration(args[1])
			if err != nil {
				return err
			}

			return c.Add(ctx, args[0], duration)
		}),
	}

	removeCmd = &cobra.Command{
		Use:     "remove <timer>",
		Aliases: []string{"rm"},
		Short:   "Remove a timer.",
		Args:    cobra.ExactArgs(1),
		RunE: withController(func(ctx context.Context, c *ctl.Controller, args []string) error {
			return c.Remove(ctx, args[0])
		}),
	}

	startCmd = &cobra.Command{
		Use:   "start <timer>",
		Short: "Start or resume a timer.",
		Args:  cobra.ExactArgs(1),
		RunE: withController(func(ctx context.Context, c *ctl.Controller, args []string) error {
			return c.Start(ctx, args[0])
		}),
	}

	pauseCmd = &cobra.Command{
		Use:   "pause <timer>",
		Short: "Pause a running timer.",
		Args:  cobra.ExactArgs(1),
		RunE: withController(func(ctx context.Context, c *ctl.Controller, args []string) error {
			return c.Pause(ctx, args[0])
		}),
	}

	resetCmd = &cobra.Command{
		Use:   "reset <timer>",
		Short: "Return a timer to idle with its full duration.",
		Args:  cobra.ExactArgs(1),
		RunE: withController(func(ctx context.Context, c *ctl.Controller, args []string) error {
			return c.Reset(ctx, args[0])
		}),
	}

	resetAllCmd = &cobra.Command{
		Use:   "reset-all",
		Short: "Reset every timer.",
		Args:  cobra.NoArgs,
		RunE: withController(func(ctx context.Context, c *ctl.Controller, _ []string) error {
			return c.ResetAll(ctx)
		}),
	}

	renameCmd = &cobra.Command{
		Use:   "rename <timer> <new-name>",
		Short: "Change a timer label.",
		Args:  cobra.ExactArgs(2),
		RunE: withController(func(ctx context.Context, c *ctl.Controller, args []string) error {
			return c.Rename(ctx, args[0], args[1])
		}),
	}

	listCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List timers.",
		Args:    cobra.NoArgs,
		RunE: withController(func(ctx context.Context, c *ctl.Controller, _ []string) error {
			return c.List(ctx)
		}),
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch timers count down until interrupted.",
		Args:  cobra.NoArgs,
		RunE: withController(func(ctx context.Context, c *ctl.Controller, _ []string) error {
			return c.Watch(ctx, &ctl.WatchOptions{
				Refresh: ctl.DefaultRefreshInterval,
				Clear:   !watchNoClear,
			})
		}),
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show recent alerts from the local alert journal.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctl.ShowHistory(cmd.Context(), &ctl.Options{
				ConfigPath: configPath,
				Out:        cmd.OutOrStdout(),
			}, historyLimit)
		},
	}
)

// withController connects to the server for the duration of one command.
func withController(
	run func(ctx context.Context, c *ctl.Controller, args []string) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		ctx = logger.WithName(ctx, "countdown-ctl")

		c, err := ctl.Connect(ctx, &ctl.Options{
			ConfigPath:    configPath,
			ServerAddress: serverAddress,
			Out:           cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}

		defer func() {
			_ = c.Close()
		}()

		return run(ctx, c, args)
	}
}

// Execute runs the countdown-ctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVar(&envFile, "env-file", config.DefaultEnvFilename, "path to an optional dotenv file")
	flags.StringVarP(&serverAddress, "server", "s", "", "server address override, e.g. 127.0.0.1:50551")
	flags.StringVarP(&logLevel, "log-level", "l", defaultLogLevel, "log level (debug, info, warn, error)")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of alerts to show, 0 for all")
	watchCmd.Flags().BoolVar(&watchNoClear, "no-clear", false, "append frames instead of clearing the screen")

	rootCmd.AddCommand(
		addCmd,
		removeCmd,
		startCmd,
		pauseCmd,
		resetCmd,
		resetAllCmd,
		renameCmd,
		listCmd,
		watchCmd,
		historyCmd,
	)
}
