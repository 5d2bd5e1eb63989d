package main

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/output"
	"github.com/spf13/cobra"
)

func newProjectCmd(a *app) *cobra.Command {
	var (
		req    requestFlags
		sc     scenarioFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project net worth year by year for one scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := sc.scenario(cmd, a.cfg)
			if err != nil {
				return err
			}
			request, err := req.request(cmd, a.cfg)
			if err != nil {
				return err
			}
			records, summary, err := a.engine().Project(scenario, request)
			if err != nil {
				return err
			}
			result := domain.ScenarioResult{Scenario: scenario, Records: records, Summary: summary}.Round(2)

			switch format {
			case "json":
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal projection: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			case "text", "":
				writeProjectionTable(cmd.OutOrStdout(), result)
				return nil
			default:
				return fmt.Errorf("%w: %q (want text or json)", output.ErrUnsupportedFormat, format)
			}
		},
	}
	req.register(cmd)
	sc.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	return cmd
}

func writeProjectionTable(w io.Writer, r domain.ScenarioResult) {
	s := r.Scenario
	fmt.Fprintf(w, "%s: return %s, inflation %s\n\n", s.Label(),
		output.FormatRate(s.AnnualReturnRate), output.FormatRate(s.InflationRate))
	fmt.Fprintf(w, "%-5s %16s %16s %16s %16s %16s\n", "Year", "Beginning", "Contributions", "Gains", "Ending", "Real Value")
	for _, y := range r.Records {
		fmt.Fprintf(w, "%-5d %16s %16s %16s %16s %16s\n", y.Year,
			output.FormatCurrency(y.BeginningBalance),
			output.FormatCurrency(y.Contributions),
			output.FormatCurrency(y.Gains),
			output.FormatCurrency(y.EndingBalance),
			output.FormatCurrency(y.InflationAdjustedBalance))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total contributions: %s\n", output.FormatCurrency(r.Summary.TotalContributions))
	fmt.Fprintf(w, "Total gains:         %s\n", output.FormatCurrency(r.Summary.TotalGains))
	fmt.Fprintf(w, "Final balance:       %s\n", output.FormatCurrency(r.Summary.FinalBalance))
	fmt.Fprintf(w, "Final real balance:  %s\n", output.FormatCurrency(r.Summary.FinalInflationAdjustedBalance))
	fmt.Fprintf(w, "ROI:                 %s\n", output.FormatRate(r.Summary.ROI))
}
