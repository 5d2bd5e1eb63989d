package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvAddr        = "PLANNER_ADDR"
	EnvSQLitePath  = "PLANNER_SQLITE_PATH"
	EnvLogLevel    = "PLANNER_LOG_LEVEL"
	EnvRefreshCron = "PLANNER_REFRESH_CRON"
)

// cronParser accepts the six-field specs used by the scheduler.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// InputParser handles parsing of input configuration files
type InputParser struct {
	getenv func(string) string
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{getenv: os.Getenv}
}

// LoadFromFile loads configuration from a YAML file, applies environment
// overrides and defaults, and validates the result.
func (ip *InputParser) LoadFromFile(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// LoadOptional is LoadFromFile that treats a missing file as an empty one.
func (ip *InputParser) LoadOptional(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes YAML bytes and finishes the configuration.
func (ip *InputParser) Parse(data []byte) (*Configuration, error) {
	var config Configuration
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	ip.applyEnvironment(&config)
	applyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

func (ip *InputParser) applyEnvironment(config *Configuration) {
	getenv := ip.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvAddr); v != "" {
		config.Server.Addr = v
	}
	if v := getenv(EnvSQLitePath); v != "" {
		config.Storage.SQLitePath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		config.Log.Level = v
	}
	if v := getenv(EnvRefreshCron); v != "" {
		config.Schedule.RefreshCron = v
	}
}

func applyDefaults(config *Configuration) {
	if config.Projection.Years == 0 {
		config.Projection.Years = DefaultYears
	}
	if config.Projection.MaxYears == 0 {
		config.Projection.MaxYears = DefaultMaxYears
	}
	if config.MonteCarlo.Simulations == 0 {
		config.MonteCarlo.Simulations = DefaultSimulations
	}
	if config.MonteCarlo.RecentYears == 0 {
		config.MonteCarlo.RecentYears = DefaultRecentYears
	}
	if config.MonteCarlo.MaxSimulations == 0 {
		config.MonteCarlo.MaxSimulations = DefaultMaxSims
	}
	if config.Server.Addr == "" {
		config.Server.Addr = DefaultAddr
	}
	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = DefaultTimeout
	}
	if config.Storage.SQLitePath == "" {
		config.Storage.SQLitePath = DefaultSQLitePath
	}
	if config.Schedule.RefreshCron == "" {
		config.Schedule.RefreshCron = DefaultRefreshCron
	}
	if config.Schedule.MemoPurgeCron == "" {
		config.Schedule.MemoPurgeCron = DefaultMemoPurgeCron
	}
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *Configuration) error {
	if err := ip.validateProfile(&config.Profile); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}
	if err := ip.validateProjection(&config.Projection); err != nil {
		return fmt.Errorf("projection validation failed: %w", err)
	}

	names := make(map[string]struct{}, len(config.Scenarios))
	keys := make(map[string]struct{}, len(config.Scenarios))
	for i, sc := range config.Scenarios {
		if err := ip.validateScenario(&sc); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		s, _ := sc.Resolve()
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("scenario %d validation failed: duplicate name %q", i, s.Name)
		}
		names[s.Name] = struct{}{}
		if _, dup := keys[s.Key()]; dup {
			return fmt.Errorf("scenario %d validation failed: duplicate id %q", i, s.Key())
		}
		keys[s.Key()] = struct{}{}
	}

	if config.MonteCarlo.Simulations < 0 {
		return fmt.Errorf("montecarlo.simulations cannot be negative")
	}
	if config.MonteCarlo.RecentYears < 0 {
		return fmt.Errorf("montecarlo.recent_years cannot be negative")
	}
	if config.MonteCarlo.MaxSimulations < 0 || config.MonteCarlo.MaxSimulations > calculation.MaxSimulations {
		return fmt.Errorf("montecarlo.max_simulations must be between 1 and %d", calculation.MaxSimulations)
	}
	if config.Server.RequestTimeout < 0 {
		return fmt.Errorf("server.request_timeout cannot be negative")
	}

	for name, spec := range map[string]string{
		"schedule.refresh_cron":    config.Schedule.RefreshCron,
		"schedule.memo_purge_cron": config.Schedule.MemoPurgeCron,
	} {
		if spec == "" {
			continue
		}
		if _, err := cronParser.Parse(spec); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	switch strings.ToLower(config.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

func (ip *InputParser) validateProfile(p *domain.FinancialProfile) error {
	if p.MonthlyIncome.IsNegative() {
		return fmt.Errorf("monthly income cannot be negative")
	}
	if p.MonthlyExpenses.IsNegative() {
		return fmt.Errorf("monthly expenses cannot be negative")
	}
	if p.CurrentSavings.IsNegative() {
		return fmt.Errorf("current savings cannot be negative")
	}
	if p.CurrentSavingsRate.IsNegative() || p.CurrentSavingsRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("current savings rate must be between 0 and 100 percent")
	}
	return nil
}

func (ip *InputParser) validateProjection(p *ProjectionSettings) error {
	if p.MaxYears < 0 {
		return fmt.Errorf("max years cannot be negative")
	}
	if p.Years < 0 || (p.MaxYears > 0 && p.Years > p.MaxYears) {
		return fmt.Errorf("projection years must be between 1 and %d", p.MaxYears)
	}
	if p.StartingPrincipal != nil && p.StartingPrincipal.IsNegative() {
		return fmt.Errorf("starting principal cannot be negative")
	}
	if p.MonthlyContribution != nil && p.MonthlyContribution.IsNegative() {
		return fmt.Errorf("monthly contribution cannot be negative")
	}
	if p.ContributionGrowthRate.LessThan(decimal.NewFromInt(-1)) {
		return fmt.Errorf("contribution growth rate cannot be less than -100%%")
	}
	return nil
}

func (ip *InputParser) validateScenario(sc *ScenarioConfig) error {
	if sc.Preset != "" {
		_, err := sc.Resolve()
		return err
	}
	if sc.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if sc.Category != "" && !sc.Category.Valid() {
		return fmt.Errorf("unknown category %q", sc.Category)
	}
	if sc.RiskTolerance != "" && !sc.RiskTolerance.Valid() {
		return fmt.Errorf("unknown risk tolerance %q", sc.RiskTolerance)
	}
	if sc.AnnualReturnRate.LessThan(decimal.NewFromInt(-1)) {
		return fmt.Errorf("annual return rate cannot be less than -100%%")
	}
	if sc.InflationRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("inflation rate must be greater than -100%%")
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *Configuration {
	contribution := decimal.NewFromInt(1500)
	return &Configuration{
		Profile: domain.FinancialProfile{
			MonthlyIncome:      decimal.NewFromInt(5000),
			MonthlyExpenses:    decimal.NewFromInt(3500),
			CurrentSavings:     decimal.NewFromInt(25000),
			CurrentSavingsRate: decimal.NewFromInt(30),
			InvestmentGoals:    "Build a diversified portfolio",
			RetirementGoals:    "Retire by 60",
		},
		Projection: ProjectionSettings{
			Years:               20,
			MonthlyContribution: &contribution,
		},
		Scenarios: []ScenarioConfig{
			{Preset: "conservative"},
			{Preset: "moderate"},
			{Preset: "aggressive"},
			{Scenario: domain.NewCustomScenario("Index Fund Mix", decimal.RequireFromString("0.065"), decimal.RequireFromString("0.028"), domain.RiskMedium)},
		},
		MonteCarlo: MonteCarloSettings{Simulations: DefaultSimulations, RecentYears: DefaultRecentYears, MaxSimulations: DefaultMaxSims},
		Server:     ServerSettings{Addr: DefaultAddr, RequestTimeout: DefaultTimeout},
		Storage:    StorageSettings{SQLitePath: DefaultSQLitePath},
		Schedule:   ScheduleSettings{RefreshCron: DefaultRefreshCron, MemoPurgeCron: DefaultMemoPurgeCron},
		Log:        LogSettings{Level: DefaultLogLevel},
	}
}

// SaveConfiguration writes config to filename as YAML.
func SaveConfiguration(config *Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
