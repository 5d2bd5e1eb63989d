package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/output"
	"github.com/spf13/cobra"
)

func newTaxCmd(a *app) *cobra.Command {
	var (
		income float64
		state  string
		format string
	)
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Estimate 2024 federal and state income tax for a single filer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gross, err := domain.AmountFromFloat("income", income)
			if err != nil {
				return err
			}
			b, err := calculation.NewTaxCalculator().Estimate(gross, state)
			if err != nil {
				return err
			}
			a.logger.Debug("tax estimated", "state", b.State, "total", b.TotalTax)

			w := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(b, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal tax breakdown: %w", err)
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			case "text", "":
				where := b.State
				if where == "" {
					where = "federal only"
				}
				fmt.Fprintf(w, "Gross income:   %s (%s)\n", output.FormatCurrency(b.Income), where)
				fmt.Fprintf(w, "Federal tax:    %s\n", output.FormatCurrency(b.FederalTax))
				fmt.Fprintf(w, "State tax:      %s\n", output.FormatCurrency(b.StateTax))
				fmt.Fprintf(w, "Total tax:      %s\n", output.FormatCurrency(b.TotalTax))
				fmt.Fprintf(w, "Effective rate: %s\n", output.FormatRate(b.EffectiveRate()))
				fmt.Fprintf(w, "After tax:      %s\n", output.FormatCurrency(b.AfterTaxIncome))
				return nil
			default:
				return fmt.Errorf("%w: %q (want text or json)", output.ErrUnsupportedFormat, format)
			}
		},
	}
	cmd.Flags().Float64Var(&income, "income", 0, "gross yearly income")
	cmd.Flags().StringVar(&state, "state", "", "state of residence; empty for federal tax only")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	_ = cmd.MarkFlagRequired("income")
	return cmd
}
