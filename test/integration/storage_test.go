package integration

import (
	"context"
	"testing"

	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/planner"
	"github.com/rpgo/networth-planner/internal/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredService(t *testing.T) *planner.Service {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	engine := calculation.NewEngine()
	svc := planner.NewService(planner.Repositories{
		Profiles:    sqlite.NewProfileRepository(db),
		Scenarios:   sqlite.NewScenarioRepository(db),
		Projections: sqlite.NewProjectionRepository(db),
		Incomes:     sqlite.NewIncomeRepository(db),
		LivingPlans: sqlite.NewLivingPlanRepository(db),
	}, calculation.NewMemo(engine, 0), nil)

	data, err := calculation.LoadHistoricalData()
	require.NoError(t, err)
	svc.SetSimulator(calculation.NewMonteCarloSimulator(engine, data))
	return svc
}

func TestStoredPlanLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newStoredService(t)

	sample, err := svc.GenerateSampleData(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sample.Scenarios, 3)
	require.Len(t, sample.Projections, 3)

	ids := []string{sample.Scenarios[0].ID, sample.Scenarios[2].ID}
	cmp, err := svc.CompareScenarios(ctx, "alice", ids, 0, planner.CompareOptions{
		MonteCarlo: &calculation.MonteCarloConfig{NumSimulations: 30, Seed: 9},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, cmp.Request.Years, "years default to the income timeline length")
	require.Len(t, cmp.Results, 2)
	require.Len(t, cmp.MonteCarlo, 2)
	assert.Equal(t, sample.Scenarios[2].ID, cmp.Recommendation)

	before, err := svc.GetProjection(ctx, "alice", sample.Projections[1].ID)
	require.NoError(t, err)

	profile := sample.Profile
	profile.MonthlyExpenses = decimal.NewFromInt(3000)
	_, err = svc.SaveProfile(ctx, profile)
	require.NoError(t, err)

	n, err := svc.RefreshProjections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	after, err := svc.GetProjection(ctx, "alice", sample.Projections[1].ID)
	require.NoError(t, err)
	assert.True(t, after.Summary.FinalBalance.GreaterThan(before.Summary.FinalBalance),
		"a larger monthly surplus must raise the refreshed balance")

	// other owners see nothing
	list, err := svc.ListProjections(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)
}
