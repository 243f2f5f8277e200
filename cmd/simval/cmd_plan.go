package main

import (
	"github.com/spf13/cobra"

	"github.com/askiada/go-simval/pkg/sales"
	"github.com/askiada/go-simval/pkg/simval"
	"github.com/askiada/go-simval/pkg/simval/drawer"
	"github.com/askiada/go-simval/pkg/simval/measure"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Write the execution plan of the sales simulator as a DOT graph",
		Long: `plan writes the columns, steps and interactions of the sales simulator as a
DOT graph. With --runs, the simulator is run first and the graph is annotated
with the measured durations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			runs, err := cmd.Flags().GetInt("runs")
			if err != nil {
				return err
			}

			msr := measure.NewDefaultMeasure()
			sim, err := newSimulator(cfg, newLogger(cfg, cmd.ErrOrStderr()), simval.WithHooks(
				measure.SimulatorMeasure(msr),
				drawer.SimulatorDrawer(drawer.NewDOTDrawer(out), msr),
			))
			if err != nil {
				return err
			}
			if runs <= 0 {
				return sim.Finish()
			}

			validator, err := simval.NewValidator(sales.ReferenceModel(0), sim)
			if err != nil {
				return err
			}
			// Validate finishes the simulator, which draws the plan.
			_, err = validator.Validate(cmd.Context(), runs, cfg.Validation.Sizes, false)

			return err
		},
	}

	cmd.Flags().String("out", "plan.dot", "DOT file to write")
	cmd.Flags().Int("runs", 0, "Number of runs used to annotate the plan with durations")

	return cmd
}
