package calculation

import (
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultMaxYears bounds the projection horizon unless WithMaxYears says otherwise.
const DefaultMaxYears = 500

var (
	one      = decimal.NewFromInt(1)
	minusOne = decimal.NewFromInt(-1)
)

// Projector runs a single scenario against a request. *Engine and *Memo implement it.
type Projector interface {
	Project(scenario domain.Scenario, req domain.ProjectionRequest) ([]domain.YearlyRecord, domain.ProjectionSummary, error)
	ValidateScenario(scenario domain.Scenario) error
	ValidateRequest(req domain.ProjectionRequest) error
}

// Engine computes year-by-year net-worth projections. It holds no mutable
// state after construction and is safe for concurrent use.
type Engine struct {
	contributionGrowth decimal.Decimal
	maxYears           int
	Logger             Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithContributionGrowth grows the annual contribution by rate every year
// after the first. The default is a flat schedule.
func WithContributionGrowth(rate decimal.Decimal) Option {
	return func(e *Engine) { e.contributionGrowth = rate }
}

// WithMaxYears sets the longest horizon a request may ask for.
func WithMaxYears(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxYears = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.SetLogger(l) }
}

// NewEngine creates a projection engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxYears: DefaultMaxYears,
		Logger:   NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// MaxYears reports the configured horizon limit.
func (e *Engine) MaxYears() int { return e.maxYears }

// ValidateScenario checks the rate assumptions of a scenario.
func (e *Engine) ValidateScenario(s domain.Scenario) error {
	if s.AnnualReturnRate.LessThan(minusOne) {
		return domain.NewInvalidInputError("annual_return_rate", "%s is below -1 (a loss of more than 100%%)", s.AnnualReturnRate)
	}
	if s.InflationRate.LessThanOrEqual(minusOne) {
		return domain.NewInvalidInputError("inflation_rate", "%s must be greater than -1", s.InflationRate)
	}
	if s.Category != "" && !s.Category.Valid() {
		return domain.NewInvalidInputError("category", "unknown category %q", s.Category)
	}
	return nil
}

// ValidateRequest checks the per-call inputs of a projection.
func (e *Engine) ValidateRequest(req domain.ProjectionRequest) error {
	switch {
	case req.Years <= 0:
		return domain.NewInvalidInputError("years", "must be positive, got %d", req.Years)
	case req.Years > e.maxYears:
		return domain.NewInvalidInputError("years", "%d exceeds the maximum of %d", req.Years, e.maxYears)
	case req.StartingPrincipal.IsNegative():
		return domain.NewInvalidInputError("starting_principal", "must not be negative, got %s", req.StartingPrincipal)
	case req.MonthlyContribution.IsNegative():
		return domain.NewInvalidInputError("monthly_contribution", "must not be negative, got %s", req.MonthlyContribution)
	case e.contributionGrowth.LessThan(minusOne):
		return domain.NewInvalidInputError("contribution_growth_rate", "%s is below -1", e.contributionGrowth)
	}
	return nil
}

// Project runs the year loop for one scenario. Inputs are validated before
// any computation; on error no records are returned.
func (e *Engine) Project(scenario domain.Scenario, req domain.ProjectionRequest) ([]domain.YearlyRecord, domain.ProjectionSummary, error) {
	if err := e.ValidateScenario(scenario); err != nil {
		return nil, domain.ProjectionSummary{}, err
	}
	if err := e.ValidateRequest(req); err != nil {
		return nil, domain.ProjectionSummary{}, err
	}

	records := e.run(req, func(int) (decimal.Decimal, decimal.Decimal) {
		return scenario.AnnualReturnRate, scenario.InflationRate
	}, exact)
	summary := Summarize(records)

	e.Logger.Debugf("projected %q over %d years: final=%s real=%s",
		scenario.Name, req.Years, summary.FinalBalance.StringFixed(2), summary.FinalInflationAdjustedBalance.StringFixed(2))
	return records, summary, nil
}

// rateFunc yields the return and inflation rates applied in a 1-based year.
type rateFunc func(year int) (returnRate, inflationRate decimal.Decimal)

// exact disables per-year rounding in run.
const exact int32 = -1

// run is the shared year loop. Callers validate first. With places >= 0 the
// carried balance, contribution and price level are rounded to that many
// decimal places every year, which keeps long random paths bounded in size.
func (e *Engine) run(req domain.ProjectionRequest, rates rateFunc, places int32) []domain.YearlyRecord {
	records := make([]domain.YearlyRecord, 0, req.Years)

	balance := money.FromDecimal(req.StartingPrincipal)
	contribution := money.FromDecimal(req.MonthlyContribution).Annual()
	priceLevel := one

	for year := 1; year <= req.Years; year++ {
		if year > 1 && !e.contributionGrowth.IsZero() {
			contribution = contribution.Grow(e.contributionGrowth)
			if places >= 0 {
				contribution = money.FromDecimal(contribution.Decimal.Round(places))
			}
		}
		returnRate, inflationRate := rates(year)

		gains := balance.Mul(returnRate)
		if places >= 0 {
			gains = money.FromDecimal(gains.Decimal.Round(places))
		}
		ending := balance.Add(contribution).Add(gains)

		priceLevel = priceLevel.Mul(one.Add(inflationRate))
		if places >= 0 {
			priceLevel = priceLevel.Round(places)
		}
		adjusted := ending
		if !priceLevel.Equal(one) {
			adjusted = ending.Deflate(priceLevel)
		}

		records = append(records, domain.YearlyRecord{
			Year:                     year,
			BeginningBalance:         balance.Decimal,
			Contributions:            contribution.Decimal,
			Gains:                    gains.Decimal,
			EndingBalance:            ending.Decimal,
			InflationAdjustedBalance: adjusted.Decimal,
		})
		balance = ending
	}
	return records
}

// Summarize aggregates a record sequence. ROI is zero when nothing was contributed.
func Summarize(records []domain.YearlyRecord) domain.ProjectionSummary {
	var s domain.ProjectionSummary
	for _, r := range records {
		s.TotalContributions = s.TotalContributions.Add(r.Contributions)
		s.TotalGains = s.TotalGains.Add(r.Gains)
	}
	if n := len(records); n > 0 {
		s.FinalBalance = records[n-1].EndingBalance
		s.FinalInflationAdjustedBalance = records[n-1].InflationAdjustedBalance
	}
	if s.TotalContributions.IsPositive() {
		s.ROI = s.TotalGains.Div(s.TotalContributions)
	}
	return s
}
