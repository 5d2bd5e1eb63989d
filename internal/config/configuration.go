package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Defaults applied after parsing and environment overrides.
const (
	DefaultAddr          = ":8080"
	DefaultSQLitePath    = "data/planner.db"
	DefaultLogLevel      = "info"
	DefaultRefreshCron   = "0 0 2 * * *"
	DefaultMemoPurgeCron = "0 0 * * * *"
	DefaultYears         = 10
	DefaultSimulations   = 1000
	DefaultRecentYears   = 50
	DefaultMaxSims       = 10000
	DefaultTimeout       = 30 * time.Second
	DefaultMaxYears      = 500
)

// Configuration is the planner's YAML input file.
type Configuration struct {
	Profile    domain.FinancialProfile `yaml:"profile"`
	Projection ProjectionSettings      `yaml:"projection"`
	Scenarios  []ScenarioConfig        `yaml:"scenarios,omitempty"`
	MonteCarlo MonteCarloSettings      `yaml:"montecarlo"`
	Server     ServerSettings          `yaml:"server"`
	Storage    StorageSettings         `yaml:"storage"`
	Schedule   ScheduleSettings        `yaml:"schedule"`
	Log        LogSettings             `yaml:"log"`
}

// ProjectionSettings overrides the request derived from the profile.
type ProjectionSettings struct {
	Years                  int              `yaml:"years"`
	StartingPrincipal      *decimal.Decimal `yaml:"starting_principal,omitempty"`
	MonthlyContribution    *decimal.Decimal `yaml:"monthly_contribution,omitempty"`
	ContributionGrowthRate decimal.Decimal  `yaml:"contribution_growth_rate,omitempty"`
	MaxYears               int              `yaml:"max_years,omitempty"`
}

// ScenarioConfig is either a preset reference or a fully specified scenario.
type ScenarioConfig struct {
	domain.Scenario `yaml:",inline"`

	Preset string `yaml:"preset,omitempty"`
}

type MonteCarloSettings struct {
	Simulations int   `yaml:"simulations"`
	Seed        int64 `yaml:"seed,omitempty"`
	RecentYears int   `yaml:"recent_years,omitempty"`
	Statistical bool  `yaml:"statistical,omitempty"`

	// MaxSimulations caps what API and MCP callers may ask for.
	MaxSimulations int `yaml:"max_simulations,omitempty"`
}

type ServerSettings struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
}

type StorageSettings struct {
	SQLitePath string `yaml:"sqlite_path"`
}

type ScheduleSettings struct {
	RefreshCron   string `yaml:"refresh_cron"`
	MemoPurgeCron string `yaml:"memo_purge_cron"`
}

type LogSettings struct {
	Level string `yaml:"level"`
}

// SlogLevel maps the configured level name to a slog.Level, defaulting to info.
func (l LogSettings) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Request builds the projection request: profile savings unless the
// projection section overrides principal or contribution.
func (c *Configuration) Request() domain.ProjectionRequest {
	req := c.Profile.Request(c.Projection.Years)
	if c.Projection.StartingPrincipal != nil {
		req.StartingPrincipal = *c.Projection.StartingPrincipal
	}
	if c.Projection.MonthlyContribution != nil {
		req.MonthlyContribution = *c.Projection.MonthlyContribution
	}
	return req
}

// ResolveScenarios expands preset references. With no scenarios configured
// the three presets are returned.
func (c *Configuration) ResolveScenarios() ([]domain.Scenario, error) {
	if len(c.Scenarios) == 0 {
		return domain.PresetScenarios(), nil
	}
	out := make([]domain.Scenario, 0, len(c.Scenarios))
	for _, sc := range c.Scenarios {
		s, err := sc.Resolve()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Resolve returns the scenario described by the entry.
func (sc ScenarioConfig) Resolve() (domain.Scenario, error) {
	if sc.Preset == "" {
		s := sc.Scenario
		if s.Category == "" {
			s.Category = domain.CategoryCustom
		}
		if s.RiskTolerance == "" {
			s.RiskTolerance = domain.RiskMedium
		}
		return s, nil
	}
	cat, err := domain.ParseCategory(sc.Preset)
	if err != nil {
		return domain.Scenario{}, err
	}
	s, ok := cat.Preset()
	if !ok {
		return domain.Scenario{}, domain.NewInvalidInputError("preset", "%q has no preset rates", sc.Preset)
	}
	// A renamed preset is its own scenario and is keyed by the new name.
	if sc.Name != "" && sc.Name != s.Name {
		s.ID = ""
		s.Name = sc.Name
	}
	return s, nil
}
