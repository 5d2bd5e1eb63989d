package output

import (
	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioID   string
	ScenarioName string
	FinalReal    decimal.Decimal
	Invested     decimal.Decimal
	RealGain     decimal.Decimal
	RealGainPct  decimal.Decimal
}

// AnalyzeScenarios picks the scenario with the highest final inflation-adjusted
// balance and measures it against the money put in.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	if len(results.Results) == 0 {
		return Recommendation{}
	}
	key := results.Recommendation
	if key == "" {
		key = calculation.Recommend(results.Results)
	}
	var best domain.ComparisonEntry
	found := false
	for _, e := range results.Results {
		if e.Scenario.Key() == key {
			best, found = e, true
			break
		}
	}
	if !found {
		return Recommendation{}
	}

	invested := results.Request.StartingPrincipal.Add(best.Summary.TotalContributions)
	rec := Recommendation{
		ScenarioID:   key,
		ScenarioName: best.Scenario.Name,
		FinalReal:    best.Summary.FinalInflationAdjustedBalance,
		Invested:     invested,
		RealGain:     best.Summary.FinalInflationAdjustedBalance.Sub(invested),
	}
	if !invested.IsZero() {
		rec.RealGainPct = rec.RealGain.Div(invested).Mul(decimalHundred)
	}
	return rec
}
