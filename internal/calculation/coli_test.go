package calculation

import (
	"testing"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualLivingCost(t *testing.T) {
	average := domain.SpendingPreference{}

	ca := &domain.LocationPeriod{State: "California", AreaLevel: domain.LevelAboveAverage}
	assert.True(t, AnnualLivingCost(ca, average).Equal(d("90500")))

	mixed := domain.SpendingPreference{
		Housing: domain.LevelVeryHigh,
		Food:    domain.LevelVeryLittle,
		Leisure: domain.LevelAverage,
		Travel:  domain.LevelAboveAverage,
	}
	assert.True(t, SpendingMultiplier(mixed).Equal(d("1.075")))

	tx := &domain.LocationPeriod{State: "Texas", AreaLevel: domain.LevelVeryLow}
	assert.True(t, AnnualLivingCost(tx, mixed).Equal(d("24913.125")))

	// without a location spending habits are ignored
	national := AnnualLivingCost(nil, mixed)
	assert.Equal(t, "51795.10", national.StringFixed(2))

	unknown := &domain.LocationPeriod{State: "Atlantis"}
	assert.True(t, AnnualLivingCost(unknown, average).Equal(national))
}

func TestBuildIncomeTimeline(t *testing.T) {
	plan := domain.LivingPlan{
		Owner: "alice",
		Locations: []domain.LocationPeriod{
			{State: "California", AreaLevel: domain.LevelAboveAverage, StartYear: 2024, EndYear: 2025},
			{State: "Texas", StartYear: 2026, EndYear: 2030},
		},
	}
	incomes := []domain.IncomeEntry{
		{Year: 2026, Amount: d("60000")},
		{Year: 2024, Amount: d("85000"), Source: "Bonus"},
		{Year: 2025, Amount: d("85000")},
		{Year: 2031, Amount: d("85000")},
	}

	entries := BuildIncomeTimeline(incomes, plan, NewTaxCalculator())
	require.Len(t, entries, 4)
	for i, year := range []int{2024, 2025, 2026, 2031} {
		assert.Equal(t, year, entries[i].Year)
		assert.Equal(t, "alice", entries[i].Owner)
	}
	assert.Equal(t, 2026, incomes[0].Year, "input is not reordered")

	first := entries[0]
	assert.Equal(t, "Bonus", first.Source)
	assert.Equal(t, "California (above average)", first.Location)
	assert.True(t, first.Costs.Equal(d("90500")))
	assert.True(t, first.TotalTax.Equal(d("15199.48")))
	assert.True(t, first.NetSavings().Equal(d("-20699.48")))

	second := entries[1]
	assert.Equal(t, "Salary", second.Source)
	assert.True(t, second.Costs.Equal(d("93215")), "3%% growth, got %s", second.Costs)

	third := entries[2]
	assert.Equal(t, "Texas (average)", third.Location)
	assert.True(t, third.Costs.Equal(d("49172.72")), "got %s", third.Costs)
	assert.True(t, third.FederalTax.Equal(d("5216")))
	assert.True(t, third.StateTax.IsZero())
	assert.True(t, third.AfterTaxIncome.Equal(d("54784")))
	assert.True(t, third.NetSavings().Equal(d("5611.28")))

	last := entries[3]
	assert.Equal(t, "Unknown", last.Location)
	assert.True(t, last.StateTax.IsZero())
	assert.True(t, last.FederalTax.Equal(d("10541")))

	assert.Nil(t, BuildIncomeTimeline(nil, plan, NewTaxCalculator()))
}

func TestLocationLabelRoundTrip(t *testing.T) {
	loc := domain.LocationPeriod{State: "New York", AreaLevel: domain.LevelLessThanAverage}
	state, level := domain.ParseLocationLabel(loc.Label())
	assert.Equal(t, "New York", state)
	assert.Equal(t, domain.LevelLessThanAverage, level)

	state, level = domain.ParseLocationLabel("Ohio")
	assert.Equal(t, "Ohio", state)
	assert.Equal(t, domain.LevelAverage, level)
}
