// Command localsearch is a small CLI front end over the engine's reference
// N-queens fixture: run a single search with any of the three concrete
// runners, optionally exposing a /metrics + /status server while it runs.
//
// Grounded on _examples/CWBudde-MayFlyCircleFit/cmd's root.go +
// one-subcommand-per-file cobra layout, adapted from its slog-based
// PersistentPreRun logger setup to this module's zap.SugaredLogger ambient
// stack.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/r3b0rn/localsearch/internal/params"
)

var (
	logLevel string
	logger   *zap.SugaredLogger
	registry *params.Registry
)

var rootCmd = &cobra.Command{
	Use:   "localsearch",
	Short: "Run metaheuristic local search over the reference N-queens problem",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		level, err := zap.ParseAtomicLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		cfg.Level = level
		z, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = z.Sugar()
		return registry.ApplyPFlags(cmd.Flags())
	},
}

func init() {
	defaults, err := params.LoadEnvDefaults()
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading env defaults:", err)
		os.Exit(2)
	}
	registry = params.NewCoreRegistry(defaults)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	registry.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
