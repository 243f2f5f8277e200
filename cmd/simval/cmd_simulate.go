package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/askiada/go-simval/pkg/simval/model"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Print one simulated sales table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			size, err := cmd.Flags().GetInt("size")
			if err != nil {
				return err
			}

			sim, err := newSimulator(cfg, newLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			table, err := sim.Simulate(size)
			if err != nil {
				return err
			}

			return printTable(cmd.OutOrStdout(), table)
		},
	}

	cmd.Flags().Int("size", 10, "Number of rows to simulate")

	return cmd
}

func printTable(w io.Writer, table *model.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Names(), "\t"))
	cells := make([]string, table.Width())
	for i := 0; i < table.Len(); i++ {
		for j, col := range table.Columns() {
			cells[j] = fmt.Sprintf("%.4f", col[i])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}
