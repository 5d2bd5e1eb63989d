package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rpgo/networth-planner/internal/output"
	"github.com/spf13/cobra"
)

func newMonteCarloCmd(a *app) *cobra.Command {
	var (
		req         requestFlags
		sc          scenarioFlags
		simulations int
		seed        int64
		recentYears int
		statistical bool
		format      string
		outPath     string
	)
	cmd := &cobra.Command{
		Use:     "montecarlo",
		Aliases: []string{"monte-carlo", "simulate"},
		Short:   "Run a Monte Carlo simulation for one scenario",
		Long: `Montecarlo reruns the projection with yearly rates drawn from historical
S&P 500 returns and CPI inflation, recentred on the scenario's assumptions,
and reports the spread of final balances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := sc.scenario(cmd, a.cfg)
			if err != nil {
				return err
			}
			request, err := req.request(cmd, a.cfg)
			if err != nil {
				return err
			}
			mc := a.monteCarloConfig()
			if cmd.Flags().Changed("simulations") {
				mc.NumSimulations = simulations
			}
			if cmd.Flags().Changed("seed") {
				mc.Seed = seed
			}
			if cmd.Flags().Changed("recent-years") {
				mc.RecentYears = recentYears
			}
			if cmd.Flags().Changed("statistical") {
				mc.Statistical = statistical
			}

			sim, err := a.simulator(a.engine())
			if err != nil {
				return err
			}
			a.logger.Info("running monte carlo", "scenario", scenario.Name, "simulations", mc.NumSimulations, "years", request.Years)
			result, err := sim.Run(cmd.Context(), scenario, request, mc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "text", "":
				_, err = out.Write(output.FormatMonteCarloText(result))
			case "json":
				var data []byte
				if data, err = json.MarshalIndent(result, "", "  "); err == nil {
					_, err = fmt.Fprintln(out, string(data))
				}
			case "csv":
				report := &output.MonteCarloCSVReport{Result: result}
				if outPath != "" {
					err = report.GenerateSummaryCSV(outPath)
				} else {
					err = report.WriteSummary(out)
				}
			case "outcomes-csv":
				report := &output.MonteCarloCSVReport{Result: result}
				if outPath != "" {
					err = report.GenerateOutcomesCSV(outPath)
				} else {
					err = report.WriteOutcomes(out)
				}
			case "html":
				if outPath == "" {
					return fmt.Errorf("html output needs --output")
				}
				err = (&output.MonteCarloHTMLReport{Result: result}).GenerateHTMLReport(outPath)
			default:
				return fmt.Errorf("%w: %q (want text, json, csv, outcomes-csv or html)", output.ErrUnsupportedFormat, format)
			}
			if err == nil && outPath != "" && format != "text" && format != "json" {
				fmt.Fprintf(out, "Report written to %s\n", outPath)
			}
			return err
		},
	}
	req.register(cmd)
	sc.register(cmd)
	cmd.Flags().IntVarP(&simulations, "simulations", "n", 0, "number of simulated paths (default from configuration)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed; zero picks one")
	cmd.Flags().IntVar(&recentYears, "recent-years", 0, "sample only the most recent years of history")
	cmd.Flags().BoolVar(&statistical, "statistical", false, "draw normally distributed rates instead of resampling history")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, csv, outcomes-csv, html)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write csv or html output to this file")
	return cmd
}
