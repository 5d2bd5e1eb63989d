package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpgo/networth-planner/internal/calculation"
)

const serverInstructions = `Net worth planner. Rates are fractions (0.07 means 7% a year).
Use list_presets to see the built-in scenarios, project_networth for a single
year-by-year projection, compare_scenarios to rank several scenarios on the same
savings plan and simulate_networth for a historical bootstrap Monte Carlo run.`

// Config contains server configuration.
type Config struct {
	Projector calculation.Projector
	Simulator *calculation.MonteCarloSimulator
	// MaxSimulations caps simulate_networth requests. Zero means DefaultMaxSimulations.
	MaxSimulations int
	// RecentYears is the history window for sampling; zero uses all of it.
	RecentYears int
	Logger      *slog.Logger
	Version     string
}

// DefaultMaxSimulations is the cap used when Config leaves it unset.
const DefaultMaxSimulations = 10000

// NewServer creates an MCP server with every planner tool registered.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.MaxSimulations <= 0 {
		cfg.MaxSimulations = DefaultMaxSimulations
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "networth-planner",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	t := &tools{
		projector:      cfg.Projector,
		simulator:      cfg.Simulator,
		maxSimulations: cfg.MaxSimulations,
		recentYears:    cfg.RecentYears,
		taxes:          calculation.NewTaxCalculator(),
		logger:         cfg.Logger,
	}
	t.register(server)

	return server
}
