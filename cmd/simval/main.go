package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/askiada/go-simval/internal/config"
	"github.com/askiada/go-simval/internal/logging"
	"github.com/askiada/go-simval/pkg/sales"
	"github.com/askiada/go-simval/pkg/simval"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "simval",
		Short: "Simulate synthetic sales tables and validate models against them",
		Long: `simval builds synthetic tables from the sales recipe and compares the
reference revenue model with the simulated ground truth over many runs.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")

	rootCmd.AddCommand(
		newSimulateCmd(),
		newValidateCmd(),
		newPlanCmd(),
	)

	return rootCmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	return config.Load(path)
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.Logging.Format == "json" {
		return logging.NewJSONLogger(cfg.Logging.Level, w)
	}

	return logging.NewLogger(cfg.Logging.Level, w)
}

func newSimulator(cfg *config.Config, logger *slog.Logger, opts ...simval.Option) (*simval.Simulator, error) {
	opts = append(opts, simval.WithLogger(logger))

	return sales.NewSimulator(cfg.Sales.Minimum, cfg.Sales.Seed, opts...)
}
