package main

import (
	"fmt"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/output"
	"github.com/spf13/cobra"
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-22s %-14s %8s %10s  %s\n", "Name", "Category", "Return", "Inflation", "Risk")
			for _, s := range domain.PresetScenarios() {
				fmt.Fprintf(w, "%-22s %-14s %8s %10s  %s\n", s.Name, s.Category,
					output.FormatRate(s.AnnualReturnRate), output.FormatRate(s.InflationRate), s.RiskTolerance)
			}
			return nil
		},
	}
}
