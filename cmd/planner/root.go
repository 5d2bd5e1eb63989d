package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/config"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/planner"
	"github.com/rpgo/networth-planner/internal/sqlite"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Configuration
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "planner",
		Short:        "Net worth projections and scenario comparisons",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "planner.yaml", "configuration file; a missing file means defaults")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newProjectCmd(a),
		newCompareCmd(a),
		newMonteCarloCmd(a),
		newPresetsCmd(a),
		newTaxCmd(a),
		newExampleConfigCmd(a),
		newSampleDataCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.NewInputParser().LoadOptional(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	// stdout stays clean for reports and the MCP stdio transport.
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	return nil
}

func (a *app) engine() *calculation.Engine {
	return calculation.NewEngine(
		calculation.WithContributionGrowth(a.cfg.Projection.ContributionGrowthRate),
		calculation.WithMaxYears(a.cfg.Projection.MaxYears),
		calculation.WithLogger(calculation.NewSlogLogger(a.logger)),
	)
}

func (a *app) simulator(engine *calculation.Engine) (*calculation.MonteCarloSimulator, error) {
	data, err := calculation.LoadHistoricalData()
	if err != nil {
		return nil, err
	}
	sim := calculation.NewMonteCarloSimulator(engine, data)
	sim.Logger = calculation.NewSlogLogger(a.logger)
	return sim, nil
}

func (a *app) monteCarloConfig() calculation.MonteCarloConfig {
	return calculation.MonteCarloConfig{
		NumSimulations: a.cfg.MonteCarlo.Simulations,
		Seed:           a.cfg.MonteCarlo.Seed,
		RecentYears:    a.cfg.MonteCarlo.RecentYears,
		Statistical:    a.cfg.MonteCarlo.Statistical,
	}
}

// openStore opens the configured database and builds a planner service on
// top of it. The caller closes the database.
func (a *app) openStore(projector calculation.Projector) (*sqlite.DB, *planner.Service, error) {
	path := a.cfg.Storage.SQLitePath
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to prepare database path: %w", err)
		}
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, err
	}
	svc := planner.NewService(planner.Repositories{
		Profiles:    sqlite.NewProfileRepository(db),
		Scenarios:   sqlite.NewScenarioRepository(db),
		Projections: sqlite.NewProjectionRepository(db),
		Incomes:     sqlite.NewIncomeRepository(db),
		LivingPlans: sqlite.NewLivingPlanRepository(db),
	}, projector, a.logger)
	return db, svc, nil
}

// requestFlags are the savings-plan overrides shared by project, compare and montecarlo.
type requestFlags struct {
	principal float64
	monthly   float64
	years     int
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.principal, "principal", 0, "starting principal (default from configuration)")
	cmd.Flags().Float64Var(&f.monthly, "monthly", 0, "monthly contribution (default from configuration)")
	cmd.Flags().IntVarP(&f.years, "years", "y", 0, "projection horizon in years (default from configuration)")
}

// request applies the flags the user actually set on top of the configured request.
func (f *requestFlags) request(cmd *cobra.Command, cfg *config.Configuration) (domain.ProjectionRequest, error) {
	req := cfg.Request()
	if cmd.Flags().Changed("principal") {
		v, err := domain.AmountFromFloat("starting_principal", f.principal)
		if err != nil {
			return req, err
		}
		req.StartingPrincipal = v
	}
	if cmd.Flags().Changed("monthly") {
		v, err := domain.AmountFromFloat("monthly_contribution", f.monthly)
		if err != nil {
			return req, err
		}
		req.MonthlyContribution = v
	}
	if cmd.Flags().Changed("years") {
		req.Years = f.years
	}
	return req, nil
}

// scenarioFlags pick one scenario: explicit rates, a configured scenario by
// name, or a preset category.
type scenarioFlags struct {
	preset     string
	name       string
	returnRate float64
	inflation  float64
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "moderate", "preset category (conservative, moderate, aggressive)")
	cmd.Flags().StringVarP(&f.name, "scenario", "s", "", "name of a scenario from the configuration file")
	cmd.Flags().Float64Var(&f.returnRate, "return", 0, "custom annual return rate as a fraction (0.07 = 7%)")
	cmd.Flags().Float64Var(&f.inflation, "inflation", 0, "custom annual inflation rate as a fraction")
}

func (f *scenarioFlags) scenario(cmd *cobra.Command, cfg *config.Configuration) (domain.Scenario, error) {
	if cmd.Flags().Changed("return") || cmd.Flags().Changed("inflation") {
		r, err := domain.RateFromFloat("annual_return_rate", f.returnRate)
		if err != nil {
			return domain.Scenario{}, err
		}
		i, err := domain.RateFromFloat("inflation_rate", f.inflation)
		if err != nil {
			return domain.Scenario{}, err
		}
		return domain.NewCustomScenario("Custom", r, i, domain.RiskMedium), nil
	}
	if f.name != "" {
		scenarios, err := cfg.ResolveScenarios()
		if err != nil {
			return domain.Scenario{}, err
		}
		for _, s := range scenarios {
			if s.Name == f.name {
				return s, nil
			}
		}
		return domain.Scenario{}, domain.NewInvalidInputError("scenario", "no scenario named %q in the configuration", f.name)
	}
	return config.ScenarioConfig{Preset: f.preset}.Resolve()
}
