package main

import (
	"fmt"

	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/output"
	"github.com/spf13/cobra"
)

func newSampleDataCmd(a *app) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "sample-data",
		Short: "Fill the database with a demonstration profile, income and projections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, svc, err := a.openStore(calculation.NewMemo(a.engine(), 0))
			if err != nil {
				return err
			}
			defer db.Close()

			data, err := svc.GenerateSampleData(cmd.Context(), owner)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Sample data for %s in %s\n", owner, a.cfg.Storage.SQLitePath)
			fmt.Fprintf(w, "  income entries: %d\n", len(data.Incomes))
			fmt.Fprintf(w, "  new scenarios:  %d\n", len(data.Scenarios))
			for _, p := range data.Projections {
				fmt.Fprintf(w, "  %-22s %d years -> %s (%s real)\n", p.Scenario.Name, p.Request.Years,
					output.FormatCurrency(p.Summary.FinalBalance), output.FormatCurrency(p.Summary.FinalInflationAdjustedBalance))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "demo", "owner id the data belongs to")
	return cmd
}
