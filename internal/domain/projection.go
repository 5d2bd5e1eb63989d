package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionRequest holds the per-call inputs of a projection.
type ProjectionRequest struct {
	ScenarioID          string          `yaml:"scenario_id,omitempty" json:"scenario_id,omitempty"`
	StartingPrincipal   decimal.Decimal `yaml:"starting_principal" json:"starting_principal"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution" json:"monthly_contribution"`
	Years               int             `yaml:"years" json:"years"`
}

// ForScenario returns a copy of the request pointing at scenarioID.
func (r ProjectionRequest) ForScenario(scenarioID string) ProjectionRequest {
	r.ScenarioID = scenarioID
	return r
}

// YearlyRecord is one simulated year. Year is 1-based.
type YearlyRecord struct {
	Year                     int             `json:"year"`
	BeginningBalance         decimal.Decimal `json:"beginning_balance"`
	Contributions            decimal.Decimal `json:"contributions"`
	Gains                    decimal.Decimal `json:"gains"`
	EndingBalance            decimal.Decimal `json:"ending_balance"`
	InflationAdjustedBalance decimal.Decimal `json:"inflation_adjusted_balance"`
}

// ProjectionSummary aggregates a full YearlyRecord sequence.
type ProjectionSummary struct {
	TotalContributions            decimal.Decimal `json:"total_contributions"`
	TotalGains                    decimal.Decimal `json:"total_gains"`
	FinalBalance                  decimal.Decimal `json:"final_balance"`
	FinalInflationAdjustedBalance decimal.Decimal `json:"final_inflation_adjusted_balance"`
	ROI                           decimal.Decimal `json:"roi"`
}

// ScenarioResult is the engine output for one scenario.
type ScenarioResult struct {
	Scenario Scenario          `json:"scenario"`
	Records  []YearlyRecord    `json:"records"`
	Summary  ProjectionSummary `json:"summary"`
}

// ProjectionResult is a persisted projection owned by a user.
type ProjectionResult struct {
	ID         string            `json:"id"`
	Owner      string            `json:"owner"`
	Scenario   Scenario          `json:"scenario"`
	Request    ProjectionRequest `json:"request"`
	Records    []YearlyRecord    `json:"records"`
	Summary    ProjectionSummary `json:"summary"`
	Allocation AllocationRatios  `json:"allocation"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ScenarioComparison lines up several scenario results computed from one
// request template, in display order.
type ScenarioComparison struct {
	Request        ProjectionRequest    `json:"request"`
	Results        []ComparisonEntry    `json:"results"`
	Recommendation string               `json:"recommendation"`
	Assumptions    []string             `json:"assumptions"`
	MonteCarlo     []MonteCarloOverview `json:"monte_carlo,omitempty"`
}

// ComparisonEntry is one column of a side-by-side comparison.
type ComparisonEntry struct {
	ScenarioResult
	Allocation AllocationRatios `json:"allocation"`
}

// MonteCarloOverview is the condensed form of a bootstrap simulation attached to a comparison.
type MonteCarloOverview struct {
	ScenarioID         string           `json:"scenario_id"`
	ScenarioName       string           `json:"scenario_name"`
	NumSimulations     int              `json:"num_simulations"`
	SuccessRate        decimal.Decimal  `json:"success_rate"`
	MedianFinalBalance decimal.Decimal  `json:"median_final_balance"`
	MedianFinalReal    decimal.Decimal  `json:"median_final_inflation_adjusted_balance"`
	PercentileRanges   PercentileRanges `json:"percentile_ranges"`
}

// PercentileRanges represents percentile ranges of simulated final balances.
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// Last returns the final record of a result, or a zero record when empty.
func (r ScenarioResult) Last() YearlyRecord {
	if len(r.Records) == 0 {
		return YearlyRecord{}
	}
	return r.Records[len(r.Records)-1]
}

// Round returns a copy with every monetary figure rounded to places. ROI keeps
// two extra places.
func (r ScenarioResult) Round(places int32) ScenarioResult {
	out := r
	out.Records = make([]YearlyRecord, len(r.Records))
	for i, y := range r.Records {
		out.Records[i] = YearlyRecord{
			Year:                     y.Year,
			BeginningBalance:         y.BeginningBalance.Round(places),
			Contributions:            y.Contributions.Round(places),
			Gains:                    y.Gains.Round(places),
			EndingBalance:            y.EndingBalance.Round(places),
			InflationAdjustedBalance: y.InflationAdjustedBalance.Round(places),
		}
	}
	out.Summary = r.Summary.Round(places)
	return out
}

// Round returns the summary with monetary figures rounded to places.
func (s ProjectionSummary) Round(places int32) ProjectionSummary {
	return ProjectionSummary{
		TotalContributions:            s.TotalContributions.Round(places),
		TotalGains:                    s.TotalGains.Round(places),
		FinalBalance:                  s.FinalBalance.Round(places),
		FinalInflationAdjustedBalance: s.FinalInflationAdjustedBalance.Round(places),
		ROI:                           s.ROI.Round(places + 2),
	}
}

// Round returns a copy of the comparison with every result rounded to places.
func (c *ScenarioComparison) Round(places int32) *ScenarioComparison {
	out := *c
	out.Results = make([]ComparisonEntry, len(c.Results))
	for i, e := range c.Results {
		out.Results[i] = ComparisonEntry{ScenarioResult: e.ScenarioResult.Round(places), Allocation: e.Allocation}
	}
	out.MonteCarlo = make([]MonteCarloOverview, len(c.MonteCarlo))
	for i, m := range c.MonteCarlo {
		m.MedianFinalBalance = m.MedianFinalBalance.Round(places)
		m.MedianFinalReal = m.MedianFinalReal.Round(places)
		m.SuccessRate = m.SuccessRate.Round(4)
		m.PercentileRanges = PercentileRanges{
			P10: m.PercentileRanges.P10.Round(places),
			P25: m.PercentileRanges.P25.Round(places),
			P50: m.PercentileRanges.P50.Round(places),
			P75: m.PercentileRanges.P75.Round(places),
			P90: m.PercentileRanges.P90.Round(places),
		}
		out.MonteCarlo[i] = m
	}
	return &out
}

// Round returns a copy of the stored projection with figures rounded to places.
func (p ProjectionResult) Round(places int32) ProjectionResult {
	r := ScenarioResult{Records: p.Records, Summary: p.Summary}.Round(places)
	p.Records, p.Summary = r.Records, r.Summary
	return p
}
