// Package cli provides the command-line interface for timeline-flow.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tltv/timeline-flow/internal/cli/commands"
	"github.com/tltv/timeline-flow/internal/cli/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "timeline-flow",
		Short: "timeline-flow - Horizontally scrollable calendar timeline",
		Long: `timeline-flow tiles a date range into hour, day or week blocks with
year/month/day aggregation rows, corrects block boundaries across DST
transitions and virtualizes rendering through a bounded element pool.

Inspect a tiling on the command line, scroll it in the terminal, or serve
it on the web with a live control panel.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./timeline.yaml)")
	rootCmd.PersistentFlags().StringP("resolution", "r", "", "Tiling resolution (hour|day|week)")
	rootCmd.PersistentFlags().String("start", "", "Range start (e.g. 2020-04-01 or 2020-04-01T08:30)")
	rootCmd.PersistentFlags().String("end", "", "Range end, inclusive")
	rootCmd.PersistentFlags().StringP("locale", "l", "", "BCP 47 locale tag (e.g. en-US, de, fi)")
	rootCmd.PersistentFlags().StringP("timezone", "z", "", "IANA display zone (e.g. Europe/Helsinki)")
	rootCmd.PersistentFlags().Int("first-day-of-week", 0, "First day of week override, 1=Sunday..7=Saturday")
	rootCmd.PersistentFlags().String("sizing-mode", "", "Block sizing (percentage|fixed)")
	rootCmd.PersistentFlags().Int("min-unit-width", 0, "Narrowest rendered block in pixels")
	rootCmd.PersistentFlags().Int("viewport-width", 0, "Viewport width in pixels")
	rootCmd.PersistentFlags().Bool("year-row", true, "Show the year aggregation row")
	rootCmd.PersistentFlags().Bool("month-row", true, "Show the month aggregation row")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|table|json|yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("resolution", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"hour", "day", "week"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewViewCommand())
	rootCmd.AddCommand(commands.NewServeCommand(cfgFileUsed))

	return rootCmd
}

// cfgFileUsed lets the serve command learn which file to watch after the
// persistent pre-run has resolved it.
func cfgFileUsed() string {
	return config.GetConfigFileUsed()
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.GetCurrentConfig()
}
