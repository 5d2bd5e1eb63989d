package main

import (
	"fmt"
	"os"

	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/config"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/output"
	"github.com/spf13/cobra"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		req        requestFlags
		presets    []string
		format     string
		outputDir  string
		simulate   bool
		iterations int
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare scenarios on the same savings plan",
		Long: `Compare projects every configured scenario (or the presets given with
--preset) against one savings plan and recommends the scenario with the
highest inflation-adjusted final balance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := compareScenarios(a.cfg, presets)
			if err != nil {
				return err
			}
			template, err := req.request(cmd, a.cfg)
			if err != nil {
				return err
			}

			engine := a.engine()
			results, err := calculation.Compare(cmd.Context(), engine, scenarios, template)
			if err != nil {
				return err
			}
			cmp := calculation.AlignComparison(template, scenarios, results)

			if simulate {
				sim, err := a.simulator(engine)
				if err != nil {
					return err
				}
				mc := a.monteCarloConfig()
				if cmd.Flags().Changed("simulations") {
					mc.NumSimulations = iterations
				}
				for _, s := range scenarios {
					res, err := sim.Run(cmd.Context(), s, template.ForScenario(s.ID), mc)
					if err != nil {
						return fmt.Errorf("simulating %q: %w", s.Name, err)
					}
					cmp.MonteCarlo = append(cmp.MonteCarlo, res.Overview())
				}
			}

			if outputDir != "" {
				if err := os.MkdirAll(outputDir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
				files, err := output.GenerateReport(cmp, format, outputDir)
				for _, f := range files {
					fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", f)
				}
				return err
			}
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
			}
			data, err := f.Format(cmp)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	req.register(cmd)
	cmd.Flags().StringSliceVarP(&presets, "preset", "p", nil, "compare these preset categories instead of the configured scenarios")
	cmd.Flags().StringVarP(&format, "format", "f", "console-lite", "report format (console-lite, console, csv, detailed-csv, html, json, all)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "write the report to a timestamped file in this directory")
	cmd.Flags().BoolVar(&simulate, "monte-carlo", false, "attach a Monte Carlo overview for every scenario")
	cmd.Flags().IntVar(&iterations, "simulations", 0, "Monte Carlo paths per scenario (default from configuration)")
	return cmd
}

func compareScenarios(cfg *config.Configuration, presets []string) ([]domain.Scenario, error) {
	if len(presets) == 0 {
		return cfg.ResolveScenarios()
	}
	out := make([]domain.Scenario, 0, len(presets))
	for _, p := range presets {
		s, err := config.ScenarioConfig{Preset: p}.Resolve()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
