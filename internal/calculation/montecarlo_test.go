package calculation

import (
	"context"
	"testing"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulator(t *testing.T) *MonteCarloSimulator {
	t.Helper()
	data, err := LoadHistoricalData()
	require.NoError(t, err)
	return NewMonteCarloSimulator(NewEngine(), data)
}

func TestMonteCarloSimulator(t *testing.T) {
	sim := newTestSimulator(t)
	s := scenario("0.07", "0.03")
	req := request("25000", "1500", 20)

	result, err := sim.Run(context.Background(), s, req, MonteCarloConfig{NumSimulations: 200, Seed: 12345})
	require.NoError(t, err)

	assert.Equal(t, 200, result.NumSimulations)
	assert.Equal(t, int64(12345), result.Seed)
	assert.Equal(t, "historical", result.Method)
	require.Len(t, result.Outcomes, 200)

	assert.True(t, result.SuccessRate.GreaterThanOrEqual(d("0")))
	assert.True(t, result.SuccessRate.LessThanOrEqual(d("1")))

	p := result.PercentileRanges
	assert.True(t, p.P10.LessThanOrEqual(p.P25))
	assert.True(t, p.P25.LessThanOrEqual(p.P50))
	assert.True(t, p.P50.LessThanOrEqual(p.P75))
	assert.True(t, p.P75.LessThanOrEqual(p.P90))
	assert.True(t, p.P50.Equal(result.MedianFinalBalance))

	for _, o := range result.Outcomes {
		assert.True(t, o.TotalContributions.Equal(d("360000")))
		assert.True(t, o.MaxDrawdown.GreaterThanOrEqual(d("0")))
	}
}

func TestMonteCarloDeterministicForSeed(t *testing.T) {
	sim := newTestSimulator(t)
	s := scenario("0.07", "0.03")
	req := request("10000", "500", 15)
	cfg := MonteCarloConfig{NumSimulations: 50, Seed: 42}

	a, err := sim.Run(context.Background(), s, req, cfg)
	require.NoError(t, err)
	sim.Workers = 1
	b, err := sim.Run(context.Background(), s, req, cfg)
	require.NoError(t, err)

	assert.True(t, a.MedianFinalBalance.Equal(b.MedianFinalBalance))
	assert.True(t, a.SuccessRate.Equal(b.SuccessRate))
	for i := range a.Outcomes {
		assert.True(t, a.Outcomes[i].FinalBalance.Equal(b.Outcomes[i].FinalBalance), "run %d", i)
	}
}

func TestMonteCarloUsesSeedFunc(t *testing.T) {
	orig := seedFunc
	SetSeedFunc(func() int64 { return 7 })
	defer SetSeedFunc(orig)

	sim := newTestSimulator(t)
	result, err := sim.Run(context.Background(), scenario("0.05", "0.02"), request("1000", "100", 5), MonteCarloConfig{NumSimulations: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Seed)
}

func TestMonteCarloStatistical(t *testing.T) {
	sim := newTestSimulator(t)
	cfg := MonteCarloConfig{NumSimulations: 100, Seed: 9, Statistical: true, RecentYears: 30}
	result, err := sim.Run(context.Background(), scenario("0.07", "0.03"), request("25000", "1500", 10), cfg)
	require.NoError(t, err)
	assert.Equal(t, "statistical", result.Method)

	overview := result.Overview()
	assert.Equal(t, "s-0.07-0.03", overview.ScenarioID)
	assert.Equal(t, 100, overview.NumSimulations)
	assert.True(t, overview.MedianFinalBalance.Equal(result.MedianFinalBalance))
}

func TestMonteCarloValidation(t *testing.T) {
	sim := newTestSimulator(t)
	ctx := context.Background()

	_, err := sim.Run(ctx, scenario("0.07", "0.03"), request("1000", "100", 5), MonteCarloConfig{NumSimulations: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = sim.Run(ctx, scenario("0.07", "0.03"), request("1000", "100", 0), MonteCarloConfig{NumSimulations: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = sim.Run(ctx, scenario("-2", "0.03"), request("1000", "100", 5), MonteCarloConfig{NumSimulations: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sim.HistoricalData = nil
	_, err = sim.Run(ctx, scenario("0.07", "0.03"), request("1000", "100", 5), MonteCarloConfig{NumSimulations: 10})
	assert.Error(t, err)
}

func TestMonteCarloLongHorizonStaysBounded(t *testing.T) {
	sim := newTestSimulator(t)
	s := scenario("0.07", "0.03")
	req := request("10000.123", "250.5", 500)

	result, err := sim.Run(context.Background(), s, req, MonteCarloConfig{NumSimulations: 5, Seed: 3})
	require.NoError(t, err)
	for i, o := range result.Outcomes {
		assert.GreaterOrEqual(t, o.FinalBalance.Exponent(), -int32(simulationPlaces), "run %d has %s", i, o.FinalBalance)
	}

	records := sim.Engine.run(req, func(int) (decimal.Decimal, decimal.Decimal) {
		return d("0.0731"), d("0.0297")
	}, simulationPlaces)
	last := records[len(records)-1]
	assert.GreaterOrEqual(t, last.EndingBalance.Exponent(), -int32(simulationPlaces))
	assert.Less(t, last.EndingBalance.NumDigits(), 60)

	exactRecords := sim.Engine.run(req, func(int) (decimal.Decimal, decimal.Decimal) {
		return d("0.0731"), d("0.0297")
	}, exact)
	assert.Greater(t, exactRecords[len(exactRecords)-1].EndingBalance.NumDigits(), 60)
}

func TestMonteCarloCancelled(t *testing.T) {
	sim := newTestSimulator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Run(ctx, scenario("0.07", "0.03"), request("1000", "100", 5), MonteCarloConfig{NumSimulations: 10, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
