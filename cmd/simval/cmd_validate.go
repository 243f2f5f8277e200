package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/askiada/go-simval/internal/config"
	"github.com/askiada/go-simval/pkg/sales"
	"github.com/askiada/go-simval/pkg/simval"
	"github.com/askiada/go-simval/pkg/simval/measure"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the reference revenue model against simulated tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			err = applyValidateFlags(cmd, cfg)
			if err != nil {
				return err
			}
			showMetrics, err := cmd.Flags().GetBool("metrics")
			if err != nil {
				return err
			}

			logger := newLogger(cfg, cmd.ErrOrStderr())
			reg := prometheus.NewRegistry()
			msr, err := measure.NewPrometheusMeasure(reg, cfg.Metrics.Namespace)
			if err != nil {
				return err
			}
			sim, err := newSimulator(cfg, logger, simval.WithHooks(measure.SimulatorMeasure(msr)))
			if err != nil {
				return err
			}

			opts := []simval.ValidatorOption{simval.WithValidatorLogger(logger)}
			if cfg.Validation.Workers > 0 {
				opts = append(opts, simval.Workers(cfg.Validation.Workers))
			}
			if cfg.Validation.ContinueOnError {
				opts = append(opts, simval.ContinueOnError())
			}
			validator, err := simval.NewValidator(sales.ReferenceModel(cfg.Validation.ModelBias), sim, opts...)
			if err != nil {
				return err
			}

			results, err := validator.Validate(cmd.Context(), cfg.Validation.Runs, cfg.Validation.Sizes, cfg.Validation.Parallel)
			if err != nil && results == nil {
				return err
			}
			if err != nil {
				logger.Warn("some runs failed", "error", err)
			}

			report, err := simval.Aggregate[simval.Report](results, simval.ErrorPolicy{})
			if err != nil {
				return err
			}
			err = printReport(cmd.OutOrStdout(), report)
			if err != nil {
				return err
			}
			if !showMetrics {
				return nil
			}

			return printMetrics(cmd.OutOrStdout(), reg)
		},
	}

	cmd.Flags().Int("runs", 0, "Number of runs (overrides the configuration)")
	cmd.Flags().IntSlice("sizes", nil, "Rows per run, the last size is repeated (overrides the configuration)")
	cmd.Flags().Bool("parallel", false, "Run simulations in parallel (overrides the configuration)")
	cmd.Flags().Bool("metrics", false, "Print step duration metrics in the Prometheus text format")

	return cmd
}

func applyValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("runs") {
		runs, err := cmd.Flags().GetInt("runs")
		if err != nil {
			return err
		}
		cfg.Validation.Runs = runs
	}
	if cmd.Flags().Changed("sizes") {
		sizes, err := cmd.Flags().GetIntSlice("sizes")
		if err != nil {
			return err
		}
		cfg.Validation.Sizes = sizes
	}
	if cmd.Flags().Changed("parallel") {
		parallel, err := cmd.Flags().GetBool("parallel")
		if err != nil {
			return err
		}
		cfg.Validation.Parallel = parallel
	}

	return cfg.Validate()
}

func printReport(w io.Writer, report simval.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "interaction\truns\trows\tmae\trmse\tmax\tbias\tslope")
	for _, ir := range report.Interactions {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			ir.Name, ir.Runs, ir.Rows, ir.MAE, ir.RMSE, ir.MaxAbsError, ir.Bias, ir.Slope)
	}
	if report.FailedRuns > 0 {
		fmt.Fprintf(tw, "failed runs: %d\n", report.FailedRuns)
	}

	return tw.Flush()
}

func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "unable to gather metrics")
	}
	for _, mf := range families {
		_, err := expfmt.MetricFamilyToText(w, mf)
		if err != nil {
			return errors.Wrap(err, "unable to write metrics")
		}
	}

	return nil
}
