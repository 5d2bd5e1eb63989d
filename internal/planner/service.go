package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/repository"
	"github.com/shopspring/decimal"
)

// SampleProjectionYears is the horizon used for generated sample projections.
const SampleProjectionYears = 10

// Repositories groups the stores the service reads and writes.
type Repositories struct {
	Profiles    repository.ProfileRepository
	Scenarios   repository.ScenarioRepository
	Projections repository.ProjectionRepository
	Incomes     repository.IncomeRepository
	LivingPlans repository.LivingPlanRepository
}

// Service supplies engine inputs from stored profiles and scenarios and
// persists what the engine produces.
type Service struct {
	repos      Repositories
	projector  calculation.Projector
	comparator *calculation.Comparator
	simulator  *calculation.MonteCarloSimulator
	taxes      *calculation.TaxCalculator
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a planner service. projector is usually a calculation.Memo
// around the engine.
func NewService(repos Repositories, projector calculation.Projector, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repos:      repos,
		projector:  projector,
		comparator: calculation.NewComparator(projector),
		taxes:      calculation.NewTaxCalculator(),
		logger:     logger,
		now:        time.Now,
	}
}

// SetSimulator enables Monte Carlo attachments on comparisons.
func (s *Service) SetSimulator(sim *calculation.MonteCarloSimulator) {
	s.simulator = sim
}

// CreateDefaultScenarios stores any preset the owner does not have yet
// (matched by name) and returns the ones it created.
func (s *Service) CreateDefaultScenarios(ctx context.Context, owner string) ([]domain.Scenario, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	existing, err := s.repos.Scenarios.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, sc := range existing {
		have[sc.Name] = true
	}

	var created []domain.Scenario
	for _, preset := range domain.PresetScenarios() {
		if have[preset.Name] {
			continue
		}
		sc := preset
		sc.ID = uuid.NewString()
		sc.Owner = owner
		sc.CreatedAt = s.now().UTC()
		if err := s.repos.Scenarios.Save(ctx, &sc); err != nil {
			return nil, fmt.Errorf("creating scenario %q: %w", sc.Name, err)
		}
		created = append(created, sc)
	}

	if len(created) > 0 {
		s.logger.Info("created default scenarios", "owner", owner, "count", len(created))
	}
	return created, nil
}

// SaveScenario validates and stores a scenario, assigning an ID to new ones.
// A missing category means custom and a missing risk level means medium.
func (s *Service) SaveScenario(ctx context.Context, owner string, sc domain.Scenario) (*domain.Scenario, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if strings.TrimSpace(sc.Name) == "" {
		return nil, domain.NewInvalidInputError("name", "scenario name is required")
	}
	if sc.Category == "" {
		sc.Category = domain.CategoryCustom
	}
	if sc.RiskTolerance == "" {
		sc.RiskTolerance = domain.RiskMedium
	}
	if !sc.RiskTolerance.Valid() {
		return nil, domain.NewInvalidInputError("risk_tolerance", "unknown risk level %q", sc.RiskTolerance)
	}
	if err := s.projector.ValidateScenario(sc); err != nil {
		return nil, err
	}

	if sc.ID == "" {
		sc.ID = uuid.NewString()
		sc.CreatedAt = s.now().UTC()
	}
	sc.Owner = owner
	if err := s.repos.Scenarios.Save(ctx, &sc); err != nil {
		return nil, fmt.Errorf("saving scenario: %w", err)
	}
	return &sc, nil
}

// ListScenarios returns the owner's stored scenarios.
func (s *Service) ListScenarios(ctx context.Context, owner string) ([]domain.Scenario, error) {
	return s.repos.Scenarios.ListByOwner(ctx, owner)
}

// DeleteScenario removes a stored scenario.
func (s *Service) DeleteScenario(ctx context.Context, owner, id string) error {
	return s.repos.Scenarios.Delete(ctx, owner, id)
}

// SaveProfile validates and stores the owner's financial profile.
func (s *Service) SaveProfile(ctx context.Context, profile domain.FinancialProfile) (*domain.FinancialProfile, error) {
	if err := requireOwner(profile.Owner); err != nil {
		return nil, err
	}
	for field, v := range map[string]decimal.Decimal{
		"monthly_income":   profile.MonthlyIncome,
		"monthly_expenses": profile.MonthlyExpenses,
		"current_savings":  profile.CurrentSavings,
	} {
		if v.IsNegative() {
			return nil, domain.NewInvalidInputError(field, "must not be negative, got %s", v)
		}
	}
	profile.UpdatedAt = s.now().UTC()
	if err := s.repos.Profiles.Save(ctx, &profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	return &profile, nil
}

// GetProfile returns the owner's profile.
func (s *Service) GetProfile(ctx context.Context, owner string) (*domain.FinancialProfile, error) {
	p, err := s.repos.Profiles.Get(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("profile for %q: %w", owner, err)
	}
	return p, nil
}

// AddIncomeEntry records one year of income with its taxes derived from the
// gross amount. The state comes from the entry's location, or from the
// owner's living plan when the entry has none.
func (s *Service) AddIncomeEntry(ctx context.Context, entry domain.IncomeEntry) (*domain.IncomeEntry, error) {
	if err := requireOwner(entry.Owner); err != nil {
		return nil, err
	}
	if entry.Year <= 0 {
		return nil, domain.NewInvalidInputError("year", "must be positive, got %d", entry.Year)
	}
	if entry.Amount.IsNegative() {
		return nil, domain.NewInvalidInputError("amount", "must not be negative, got %s", entry.Amount)
	}
	if entry.Costs.IsNegative() {
		return nil, domain.NewInvalidInputError("costs", "must not be negative, got %s", entry.Costs)
	}

	if entry.Location == "" && s.repos.LivingPlans != nil {
		plan, err := s.repos.LivingPlans.Get(ctx, entry.Owner)
		switch {
		case err == nil:
			if loc, ok := plan.LocationFor(entry.Year); ok {
				entry.Location = loc.Label()
			}
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("living plan for %q: %w", entry.Owner, err)
		}
	}
	state, level := domain.ParseLocationLabel(entry.Location)
	if state != "" {
		name, ok := calculation.CanonicalState(state)
		if !ok || !level.Valid() {
			return nil, domain.NewInvalidInputError("location", "unknown location %q", entry.Location)
		}
		state = name
		entry.Location = domain.LocationPeriod{State: name, AreaLevel: level}.Label()
	}
	entry.ApplyTaxes(s.taxes.Calculate(entry.Amount, state))

	if err := s.repos.Incomes.Save(ctx, &entry); err != nil {
		return nil, fmt.Errorf("saving income entry: %w", err)
	}
	return &entry, nil
}

// IncomeTimeline returns the owner's income entries ordered by year.
func (s *Service) IncomeTimeline(ctx context.Context, owner string) ([]domain.IncomeEntry, error) {
	return s.repos.Incomes.ListByOwner(ctx, owner)
}

// GenerateIncomeTimeline stores plan as the owner's living plan and replaces
// the owner's income timeline with incomes, each year carrying its living
// costs and taxes.
func (s *Service) GenerateIncomeTimeline(ctx context.Context, owner string, incomes []domain.IncomeEntry, plan domain.LivingPlan) ([]domain.IncomeEntry, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if s.repos.LivingPlans == nil {
		return nil, errors.New("living plans are not configured")
	}
	if len(incomes) == 0 {
		return nil, domain.NewInvalidInputError("incomes", "at least one year of income is required")
	}
	years := make(map[int]struct{}, len(incomes))
	for _, e := range incomes {
		if e.Year <= 0 {
			return nil, domain.NewInvalidInputError("incomes", "year must be positive, got %d", e.Year)
		}
		if e.Amount.IsNegative() {
			return nil, domain.NewInvalidInputError("incomes", "amount for %d must not be negative, got %s", e.Year, e.Amount)
		}
		if _, dup := years[e.Year]; dup {
			return nil, domain.NewInvalidInputError("incomes", "duplicate year %d", e.Year)
		}
		years[e.Year] = struct{}{}
	}
	if err := plan.Spending.Validate(); err != nil {
		return nil, err
	}
	for i := range plan.Locations {
		loc := &plan.Locations[i]
		name, ok := calculation.CanonicalState(loc.State)
		if !ok {
			return nil, domain.NewInvalidInputError("locations", "unknown state %q", loc.State)
		}
		loc.State = name
		if !loc.AreaLevel.Valid() {
			return nil, domain.NewInvalidInputError("locations", "unknown area level %q", loc.AreaLevel)
		}
		loc.AreaLevel = loc.AreaLevel.OrAverage()
		if loc.StartYear > loc.EndYear {
			return nil, domain.NewInvalidInputError("locations", "%s starts in %d after it ends in %d", loc.State, loc.StartYear, loc.EndYear)
		}
	}

	plan.Owner = owner
	plan.UpdatedAt = s.now().UTC()
	if err := s.repos.LivingPlans.Save(ctx, &plan); err != nil {
		return nil, fmt.Errorf("saving living plan: %w", err)
	}

	entries := calculation.BuildIncomeTimeline(incomes, plan, s.taxes)
	if err := s.repos.Incomes.ReplaceByOwner(ctx, owner, entries); err != nil {
		return nil, fmt.Errorf("saving income timeline: %w", err)
	}
	s.logger.Debug("income timeline generated", "owner", owner, "years", len(entries), "locations", len(plan.Locations))
	return entries, nil
}

// LivingPlan returns the owner's stored living plan.
func (s *Service) LivingPlan(ctx context.Context, owner string) (*domain.LivingPlan, error) {
	if s.repos.LivingPlans == nil {
		return nil, errors.New("living plans are not configured")
	}
	p, err := s.repos.LivingPlans.Get(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("living plan for %q: %w", owner, err)
	}
	return p, nil
}

// EstimateTax splits the tax owed on one year of gross income.
func (s *Service) EstimateTax(income decimal.Decimal, state string) (domain.TaxBreakdown, error) {
	return s.taxes.Estimate(income, state)
}

// CalculateProjection projects a stored scenario funded by the owner's
// profile and stores the result under a new ID.
func (s *Service) CalculateProjection(ctx context.Context, owner, scenarioID string, years int) (*domain.ProjectionResult, error) {
	profile, err := s.GetProfile(ctx, owner)
	if err != nil {
		return nil, err
	}
	sc, err := s.repos.Scenarios.Get(ctx, owner, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenarioID, err)
	}

	p := &domain.ProjectionResult{ID: uuid.NewString(), Owner: owner}
	if err := s.project(p, *sc, profile.Request(years)); err != nil {
		return nil, err
	}
	if err := s.repos.Projections.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("saving projection: %w", err)
	}

	s.logger.Debug("projection stored", "owner", owner, "projection", p.ID, "scenario", sc.Name, "years", years)
	return p, nil
}

func (s *Service) project(p *domain.ProjectionResult, sc domain.Scenario, req domain.ProjectionRequest) error {
	req = req.ForScenario(sc.ID)
	records, summary, err := s.projector.Project(sc, req)
	if err != nil {
		return fmt.Errorf("projecting %q: %w", sc.Name, err)
	}
	p.Scenario = sc
	p.Request = req
	p.Records = records
	p.Summary = summary
	p.Allocation = sc.Category.Allocation()
	return nil
}

// GetProjection returns a stored projection.
func (s *Service) GetProjection(ctx context.Context, owner, id string) (*domain.ProjectionResult, error) {
	p, err := s.repos.Projections.Get(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("projection %q: %w", id, err)
	}
	return p, nil
}

// ListProjections returns the owner's stored projections.
func (s *Service) ListProjections(ctx context.Context, owner string) ([]domain.ProjectionResult, error) {
	return s.repos.Projections.ListByOwner(ctx, owner)
}

// CompareOptions tunes CompareScenarios.
type CompareOptions struct {
	// MonteCarlo, when set, attaches a bootstrap simulation per scenario.
	MonteCarlo *calculation.MonteCarloConfig
}

// CompareScenarios compares two or more stored scenarios funded by the
// owner's profile. Years <= 0 falls back to the length of the income timeline.
func (s *Service) CompareScenarios(ctx context.Context, owner string, scenarioIDs []string, years int, opts CompareOptions) (*domain.ScenarioComparison, error) {
	if len(scenarioIDs) < 2 {
		return nil, domain.NewInvalidInputError("scenario_ids", "at least two scenarios are required, got %d", len(scenarioIDs))
	}
	profile, err := s.GetProfile(ctx, owner)
	if err != nil {
		return nil, err
	}
	if years <= 0 {
		incomes, err := s.repos.Incomes.ListByOwner(ctx, owner)
		if err != nil {
			return nil, fmt.Errorf("loading income timeline: %w", err)
		}
		years = len(incomes)
	}

	scenarios := make([]domain.Scenario, 0, len(scenarioIDs))
	for _, id := range scenarioIDs {
		sc, err := s.repos.Scenarios.Get(ctx, owner, id)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", id, err)
		}
		scenarios = append(scenarios, *sc)
	}

	template := profile.Request(years)
	results, err := s.comparator.Compare(ctx, scenarios, template)
	if err != nil {
		return nil, err
	}
	cmp := calculation.AlignComparison(template, scenarios, results)

	if opts.MonteCarlo != nil {
		if err := s.attachMonteCarlo(ctx, cmp, scenarios, *opts.MonteCarlo); err != nil {
			return nil, err
		}
	}
	return cmp, nil
}

// AttachMonteCarlo runs a simulation for every scenario of cmp and appends
// the overviews.
func (s *Service) AttachMonteCarlo(ctx context.Context, cmp *domain.ScenarioComparison, cfg calculation.MonteCarloConfig) error {
	scenarios := make([]domain.Scenario, len(cmp.Results))
	for i, e := range cmp.Results {
		scenarios[i] = e.Scenario
	}
	return s.attachMonteCarlo(ctx, cmp, scenarios, cfg)
}

func (s *Service) attachMonteCarlo(ctx context.Context, cmp *domain.ScenarioComparison, scenarios []domain.Scenario, cfg calculation.MonteCarloConfig) error {
	if s.simulator == nil {
		return errors.New("monte carlo simulation is not configured")
	}
	for _, sc := range scenarios {
		res, err := s.simulator.Run(ctx, sc, cmp.Request.ForScenario(sc.ID), cfg)
		if err != nil {
			return fmt.Errorf("simulating %q: %w", sc.Name, err)
		}
		cmp.MonteCarlo = append(cmp.MonteCarlo, res.Overview())
	}
	return nil
}

// RefreshProjections recomputes every stored projection against the current
// profile and scenario of its owner. Projections whose scenario was deleted
// are left alone. It returns the number of projections rewritten.
func (s *Service) RefreshProjections(ctx context.Context) (int, error) {
	owners, err := s.repos.Profiles.ListOwners(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing owners: %w", err)
	}

	refreshed := 0
	var errs []error
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		n, err := s.refreshOwner(ctx, owner)
		refreshed += n
		if err != nil {
			errs = append(errs, fmt.Errorf("owner %q: %w", owner, err))
		}
	}

	s.logger.Info("projections refreshed", "owners", len(owners), "projections", refreshed, "errors", len(errs))
	return refreshed, errors.Join(errs...)
}

func (s *Service) refreshOwner(ctx context.Context, owner string) (int, error) {
	profile, err := s.repos.Profiles.Get(ctx, owner)
	if err != nil {
		return 0, err
	}
	projections, err := s.repos.Projections.ListByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for i := range projections {
		p := &projections[i]
		sc, err := s.repos.Scenarios.Get(ctx, owner, p.Scenario.ID)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("skipping projection of deleted scenario", "owner", owner, "projection", p.ID, "scenario", p.Scenario.ID)
			continue
		}
		if err != nil {
			return refreshed, err
		}
		if err := s.project(p, *sc, profile.Request(p.Request.Years)); err != nil {
			s.logger.Warn("projection no longer valid", "owner", owner, "projection", p.ID, "error", err)
			continue
		}
		if err := s.repos.Projections.Save(ctx, p); err != nil {
			return refreshed, err
		}
		refreshed++
	}
	return refreshed, nil
}

// SampleData is what GenerateSampleData wrote.
type SampleData struct {
	Profile     domain.FinancialProfile
	Incomes     []domain.IncomeEntry
	Scenarios   []domain.Scenario
	Projections []domain.ProjectionResult
}

// GenerateSampleData fills an owner's account with a demonstration profile,
// five years of income, the default scenarios and a ten-year projection for
// each scenario it created.
func (s *Service) GenerateSampleData(ctx context.Context, owner string) (*SampleData, error) {
	profile, err := s.SaveProfile(ctx, SampleProfile(owner))
	if err != nil {
		return nil, err
	}
	out := &SampleData{Profile: *profile}

	for _, e := range SampleIncomeTimeline(owner, s.now().Year(), 5) {
		saved, err := s.AddIncomeEntry(ctx, e)
		if err != nil {
			return nil, err
		}
		out.Incomes = append(out.Incomes, *saved)
	}

	if out.Scenarios, err = s.CreateDefaultScenarios(ctx, owner); err != nil {
		return nil, err
	}
	for _, sc := range out.Scenarios {
		p, err := s.CalculateProjection(ctx, owner, sc.ID, SampleProjectionYears)
		if err != nil {
			s.logger.Warn("sample projection failed", "scenario", sc.Name, "error", err)
			continue
		}
		out.Projections = append(out.Projections, *p)
	}
	return out, nil
}

// SampleProfile is the demonstration profile: 5000 income, 3500 expenses and
// 25000 saved.
func SampleProfile(owner string) domain.FinancialProfile {
	return domain.FinancialProfile{
		Owner:              owner,
		MonthlyIncome:      decimal.NewFromInt(5000),
		MonthlyExpenses:    decimal.NewFromInt(3500),
		CurrentSavings:     decimal.NewFromInt(25000),
		CurrentSavingsRate: decimal.NewFromInt(15),
		InvestmentGoals:    "Build emergency fund and invest for retirement",
		RetirementGoals:    "Retire at 65 with $1M+ in savings",
	}
}

// SampleIncomeTimeline returns n yearly salary entries ending at currentYear,
// starting at 45000 and rising 5000 a year.
func SampleIncomeTimeline(owner string, currentYear, n int) []domain.IncomeEntry {
	entries := make([]domain.IncomeEntry, n)
	for i := range entries {
		entries[i] = domain.IncomeEntry{
			Owner:  owner,
			Year:   currentYear - n + i + 1,
			Amount: decimal.NewFromInt(45000 + 5000*int64(i)),
			Source: "Salary",
		}
	}
	return entries
}

func requireOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return domain.NewInvalidInputError("owner", "owner is required")
	}
	return nil
}
