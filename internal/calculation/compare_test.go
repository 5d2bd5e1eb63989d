package calculation

import (
	"context"
	"errors"
	"testing"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareMatchesDirectProjection(t *testing.T) {
	engine := NewEngine()
	scenarios := domain.PresetScenarios()
	template := request("25000", "1500", 10)

	results, err := Compare(context.Background(), engine, scenarios, template)
	require.NoError(t, err)
	require.Len(t, results, len(scenarios))

	for _, s := range scenarios {
		records, summary, err := engine.Project(s, template)
		require.NoError(t, err)

		got, ok := results[s.ID]
		require.True(t, ok, "missing %s", s.ID)
		assert.Equal(t, s, got.Scenario)
		assert.Equal(t, records, got.Records)
		assert.Equal(t, summary, got.Summary)
	}
}

func TestCompareOrderIndependent(t *testing.T) {
	scenarios := domain.PresetScenarios()
	reversed := []domain.Scenario{scenarios[2], scenarios[1], scenarios[0]}
	template := request("1000", "100", 15)

	c := &Comparator{Projector: NewEngine(), Workers: 1}
	a, err := c.Compare(context.Background(), scenarios, template)
	require.NoError(t, err)
	b, err := NewComparator(NewEngine()).Compare(context.Background(), reversed, template)
	require.NoError(t, err)

	for key, ra := range a {
		assert.True(t, ra.Summary.FinalBalance.Equal(b[key].Summary.FinalBalance), key)
	}
}

func TestCompareInvalidTemplate(t *testing.T) {
	results, err := Compare(context.Background(), NewEngine(), domain.PresetScenarios(), request("1000", "100", 0))
	require.Error(t, err)
	assert.Nil(t, results)

	var iie *domain.InvalidInputError
	require.True(t, errors.As(err, &iie))
	assert.Equal(t, "years", iie.Field)
}

func TestCompareRejectsBadScenarios(t *testing.T) {
	template := request("1000", "100", 5)
	good := scenario("0.05", "0.02")

	t.Run("invalid rates", func(t *testing.T) {
		results, err := Compare(context.Background(), NewEngine(), []domain.Scenario{good, scenario("-3", "0.02")}, template)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, results)
	})
	t.Run("duplicate", func(t *testing.T) {
		_, err := Compare(context.Background(), NewEngine(), []domain.Scenario{good, good}, template)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("anonymous", func(t *testing.T) {
		_, err := Compare(context.Background(), NewEngine(), []domain.Scenario{{AnnualReturnRate: d("0.05")}}, template)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCompareEmptyAndCancelled(t *testing.T) {
	results, err := Compare(context.Background(), NewEngine(), nil, request("1000", "100", 5))
	require.NoError(t, err)
	assert.Empty(t, results)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Compare(ctx, NewEngine(), domain.PresetScenarios(), request("1000", "100", 5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareKeysUnsavedScenariosByName(t *testing.T) {
	s := domain.NewCustomScenario("My Plan", d("0.06"), d("0.02"), domain.RiskMedium)
	results, err := Compare(context.Background(), NewEngine(), []domain.Scenario{s}, request("0", "100", 3))
	require.NoError(t, err)
	_, ok := results["My Plan"]
	assert.True(t, ok)
}

func TestAlignComparison(t *testing.T) {
	scenarios := domain.PresetScenarios()
	template := request("25000", "1500", 10)
	results, err := Compare(context.Background(), NewEngine(), scenarios, template)
	require.NoError(t, err)

	cmp := AlignComparison(template, scenarios, results)
	require.Len(t, cmp.Results, 3)
	for i, s := range scenarios {
		assert.Equal(t, s.ID, cmp.Results[i].Scenario.ID)
		assert.Equal(t, s.Category.Allocation(), cmp.Results[i].Allocation)
	}
	// Highest real return wins: 10% nominal against 3.5% inflation.
	assert.Equal(t, "preset-aggressive", cmp.Recommendation)
	assert.Contains(t, cmp.Assumptions, "Projection horizon of 10 years with annual compounding")
	assert.Contains(t, cmp.Assumptions, "Aggressive Growth (aggressive): 10.00% return, 3.50% inflation, high risk")
}

func TestRecommend(t *testing.T) {
	assert.Equal(t, "", Recommend(nil))

	entries := []domain.ComparisonEntry{
		{ScenarioResult: domain.ScenarioResult{Scenario: domain.Scenario{ID: "a"}, Summary: domain.ProjectionSummary{FinalInflationAdjustedBalance: d("100")}}},
		{ScenarioResult: domain.ScenarioResult{Scenario: domain.Scenario{ID: "b"}, Summary: domain.ProjectionSummary{FinalInflationAdjustedBalance: d("300")}}},
		{ScenarioResult: domain.ScenarioResult{Scenario: domain.Scenario{ID: "c"}, Summary: domain.ProjectionSummary{FinalInflationAdjustedBalance: d("300")}}},
	}
	assert.Equal(t, "b", Recommend(entries))
}
