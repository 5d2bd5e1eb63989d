package calculation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultCompareWorkers bounds how many scenarios run at once.
const DefaultCompareWorkers = 8

// Comparator runs one request template against several scenarios.
type Comparator struct {
	Projector Projector
	Workers   int
}

// NewComparator creates a comparator over p with the default fan-out.
func NewComparator(p Projector) *Comparator {
	return &Comparator{Projector: p, Workers: DefaultCompareWorkers}
}

// Compare projects every scenario with the same template and returns the
// results keyed by Scenario.Key. The template is checked before any scenario
// runs, then every scenario is checked, so a failure leaves no partial results.
func (c *Comparator) Compare(ctx context.Context, scenarios []domain.Scenario, template domain.ProjectionRequest) (map[string]domain.ScenarioResult, error) {
	if err := c.Projector.ValidateRequest(template); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(scenarios))
	for _, s := range scenarios {
		key := s.Key()
		if key == "" {
			return nil, domain.NewInvalidInputError("scenarios", "scenario has neither an id nor a name")
		}
		if _, dup := seen[key]; dup {
			return nil, domain.NewInvalidInputError("scenarios", "duplicate scenario %q", key)
		}
		seen[key] = struct{}{}
		if err := c.Projector.ValidateScenario(s); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", key, err)
		}
	}

	workers := c.Workers
	if workers <= 0 {
		workers = DefaultCompareWorkers
	}

	results := make([]domain.ScenarioResult, len(scenarios))
	errs := make([]error, len(scenarios))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, s := range scenarios {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, s domain.Scenario) {
			defer wg.Done()
			defer func() { <-sem }()

			records, summary, err := c.Projector.Project(s, template.ForScenario(s.ID))
			if err != nil {
				errs[i] = fmt.Errorf("scenario %q: %w", s.Key(), err)
				return
			}
			results[i] = domain.ScenarioResult{Scenario: s, Records: records, Summary: summary}
		}(i, s)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]domain.ScenarioResult, len(results))
	for _, r := range results {
		out[r.Scenario.Key()] = r
	}
	return out, nil
}

// Compare is a convenience wrapper that uses a default Comparator over p.
func Compare(ctx context.Context, p Projector, scenarios []domain.Scenario, template domain.ProjectionRequest) (map[string]domain.ScenarioResult, error) {
	return NewComparator(p).Compare(ctx, scenarios, template)
}

// AlignComparison lays out compare results in the order of scenarios for
// display, adding allocation ratios, assumptions and a recommendation.
// Scenarios missing from results are skipped.
func AlignComparison(template domain.ProjectionRequest, scenarios []domain.Scenario, results map[string]domain.ScenarioResult) *domain.ScenarioComparison {
	cmp := &domain.ScenarioComparison{Request: template}
	for _, s := range scenarios {
		r, ok := results[s.Key()]
		if !ok {
			continue
		}
		cmp.Results = append(cmp.Results, domain.ComparisonEntry{
			ScenarioResult: r,
			Allocation:     s.Category.Allocation(),
		})
	}
	cmp.Recommendation = Recommend(cmp.Results)
	cmp.Assumptions = Assumptions(template, scenarios)
	return cmp
}

// Recommend returns the key of the entry with the highest final
// inflation-adjusted balance. Ties go to the earlier entry.
func Recommend(entries []domain.ComparisonEntry) string {
	best := ""
	var bestValue decimal.Decimal
	for i, e := range entries {
		v := e.Summary.FinalInflationAdjustedBalance
		if i == 0 || v.GreaterThan(bestValue) {
			best, bestValue = e.Scenario.Key(), v
		}
	}
	return best
}

// Assumptions describes the inputs behind a comparison in plain sentences.
func Assumptions(template domain.ProjectionRequest, scenarios []domain.Scenario) []string {
	out := []string{
		fmt.Sprintf("Starting principal of %s", template.StartingPrincipal.StringFixed(2)),
		fmt.Sprintf("Monthly contribution of %s (%s per year)", template.MonthlyContribution.StringFixed(2),
			template.MonthlyContribution.Mul(decimal.NewFromInt(12)).StringFixed(2)),
		fmt.Sprintf("Projection horizon of %d years with annual compounding", template.Years),
		"Gains are earned on the balance at the start of each year",
		"Inflation-adjusted balances are expressed in year-0 purchasing power",
	}
	sorted := make([]domain.Scenario, len(scenarios))
	copy(sorted, scenarios)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, s := range sorted {
		out = append(out, fmt.Sprintf("%s: %s%% return, %s%% inflation, %s risk",
			s.Label(), pct(s.AnnualReturnRate), pct(s.InflationRate), s.RiskTolerance))
	}
	return out
}

func pct(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2)
}
