package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultSimulations is used when a caller leaves NumSimulations unset in configuration.
	DefaultSimulations = 1000
	// MaxSimulations caps a single run.
	MaxSimulations = 100000

	// simulationPlaces is the per-year rounding applied to simulated paths.
	simulationPlaces int32 = 10
)

// inflationFloor keeps a sampled price level strictly positive.
var inflationFloor = decimal.RequireFromString("-0.99")

// MonteCarloSimulator reruns the projection year loop with randomly drawn
// yearly rates to show the spread of outcomes around a scenario.
type MonteCarloSimulator struct {
	Engine         *Engine
	HistoricalData *HistoricalData
	Workers        int
	Logger         Logger
}

// MonteCarloConfig holds configuration for one simulation run.
type MonteCarloConfig struct {
	NumSimulations int
	Seed           int64 // zero picks a seed from seedFunc

	// RecentYears limits sampling to the most recent years of history; zero uses all of it.
	RecentYears int

	// Statistical draws normally distributed rates instead of resampling history.
	Statistical bool

	// KeepHistoricalMean samples history as-is instead of centring it on the scenario rates.
	KeepHistoricalMean bool
}

// MonteCarloResult represents the results of a Monte Carlo simulation.
type MonteCarloResult struct {
	Scenario           domain.Scenario          `json:"scenario"`
	Request            domain.ProjectionRequest `json:"request"`
	NumSimulations     int                      `json:"num_simulations"`
	Seed               int64                    `json:"seed"`
	Method             string                   `json:"method"`
	SuccessRate        decimal.Decimal          `json:"success_rate"`
	MedianFinalBalance decimal.Decimal          `json:"median_final_balance"`
	MedianFinalReal    decimal.Decimal          `json:"median_final_inflation_adjusted_balance"`
	PercentileRanges   domain.PercentileRanges  `json:"percentile_ranges"`
	Outcomes           []SimulationOutcome      `json:"-"`
}

// SimulationOutcome represents a single simulated path.
type SimulationOutcome struct {
	FinalBalance                  decimal.Decimal `json:"final_balance"`
	FinalInflationAdjustedBalance decimal.Decimal `json:"final_inflation_adjusted_balance"`
	TotalContributions            decimal.Decimal `json:"total_contributions"`
	MaxDrawdown                   decimal.Decimal `json:"max_drawdown"`
	Success                       bool            `json:"success"`
}

// NewMonteCarloSimulator creates a simulator over engine and data.
func NewMonteCarloSimulator(engine *Engine, data *HistoricalData) *MonteCarloSimulator {
	return &MonteCarloSimulator{
		Engine:         engine,
		HistoricalData: data,
		Workers:        10,
		Logger:         NopLogger{},
	}
}

// rateSampler draws one year of rates from rng.
type rateSampler func(rng *rand.Rand) (returnRate, inflationRate decimal.Decimal)

// Run executes cfg.NumSimulations independent paths for scenario and req.
// The result depends only on the inputs and the seed.
func (mcs *MonteCarloSimulator) Run(ctx context.Context, scenario domain.Scenario, req domain.ProjectionRequest, cfg MonteCarloConfig) (*MonteCarloResult, error) {
	if err := mcs.Engine.ValidateScenario(scenario); err != nil {
		return nil, err
	}
	if err := mcs.Engine.ValidateRequest(req); err != nil {
		return nil, err
	}
	if cfg.NumSimulations <= 0 || cfg.NumSimulations > MaxSimulations {
		return nil, domain.NewInvalidInputError("simulations", "must be between 1 and %d, got %d", MaxSimulations, cfg.NumSimulations)
	}
	if mcs.HistoricalData == nil {
		return nil, fmt.Errorf("historical data not loaded")
	}

	sampler, method := mcs.sampler(scenario, cfg)
	seed := cfg.Seed
	if seed == 0 {
		seed = seedFunc()
	}
	workers := mcs.Workers
	if workers <= 0 {
		workers = 10
	}

	outcomes := make([]SimulationOutcome, cfg.NumSimulations)
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := 0; i < cfg.NumSimulations; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("monte carlo cancelled: %w", err)
		}
		wg.Add(1)
		semaphore <- struct{}{}
		go func(simIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			rng := rand.New(rand.NewSource(seed + int64(simIndex)))
			outcomes[simIndex] = mcs.runSingleSimulation(req, sampler, rng)
		}(i)
	}
	wg.Wait()

	result := &MonteCarloResult{
		Scenario:       scenario,
		Request:        req,
		NumSimulations: cfg.NumSimulations,
		Seed:           seed,
		Method:         method,
		Outcomes:       outcomes,
	}
	result.SuccessRate = successRate(outcomes)
	finals := sortedBy(outcomes, func(o SimulationOutcome) decimal.Decimal { return o.FinalBalance })
	reals := sortedBy(outcomes, func(o SimulationOutcome) decimal.Decimal { return o.FinalInflationAdjustedBalance })
	result.MedianFinalBalance = finals[len(finals)/2]
	result.MedianFinalReal = reals[len(reals)/2]
	result.PercentileRanges = percentileRanges(finals)

	mcs.logger().Debugf("monte carlo %q: %d runs (%s), success=%s median=%s",
		scenario.Name, cfg.NumSimulations, method, result.SuccessRate.StringFixed(4), result.MedianFinalBalance.StringFixed(2))
	return result, nil
}

func (mcs *MonteCarloSimulator) logger() Logger {
	if mcs.Logger == nil {
		return NopLogger{}
	}
	return mcs.Logger
}

func (mcs *MonteCarloSimulator) sampler(s domain.Scenario, cfg MonteCarloConfig) (rateSampler, string) {
	returns := mcs.HistoricalData.Returns.Rates(cfg.RecentYears)
	inflation := mcs.HistoricalData.Inflation.Rates(cfg.RecentYears)

	if cfg.Statistical {
		returnSD := stdDev(returns)
		inflationSD := stdDev(inflation)
		return func(rng *rand.Rand) (decimal.Decimal, decimal.Decimal) {
			r := normal(rng, s.AnnualReturnRate, returnSD)
			if r.LessThan(minusOne) {
				r = minusOne
			}
			i := normal(rng, s.InflationRate, inflationSD)
			if i.LessThan(inflationFloor) {
				i = inflationFloor
			}
			return r, i
		}, "statistical"
	}

	if !cfg.KeepHistoricalMean {
		returns = ShiftToMean(returns, s.AnnualReturnRate)
		inflation = ShiftToMean(inflation, s.InflationRate)
		for k, v := range inflation {
			if v.LessThan(inflationFloor) {
				inflation[k] = inflationFloor
			}
		}
	}
	return func(rng *rand.Rand) (decimal.Decimal, decimal.Decimal) {
		return returns[rng.Intn(len(returns))], inflation[rng.Intn(len(inflation))]
	}, "historical"
}

// runSingleSimulation draws every year's rates up front, then runs the engine loop.
func (mcs *MonteCarloSimulator) runSingleSimulation(req domain.ProjectionRequest, sample rateSampler, rng *rand.Rand) SimulationOutcome {
	returns := make([]decimal.Decimal, req.Years)
	inflation := make([]decimal.Decimal, req.Years)
	for y := 0; y < req.Years; y++ {
		returns[y], inflation[y] = sample(rng)
	}

	records := mcs.Engine.run(req, func(year int) (decimal.Decimal, decimal.Decimal) {
		return returns[year-1], inflation[year-1]
	}, simulationPlaces)
	summary := Summarize(records)

	maxDrawdown := decimal.Zero
	peak := req.StartingPrincipal
	for _, r := range records {
		if r.EndingBalance.GreaterThan(peak) {
			peak = r.EndingBalance
		}
		if peak.IsPositive() {
			if dd := peak.Sub(r.EndingBalance).Div(peak); dd.GreaterThan(maxDrawdown) {
				maxDrawdown = dd
			}
		}
	}

	invested := req.StartingPrincipal.Add(summary.TotalContributions)
	return SimulationOutcome{
		FinalBalance:                  summary.FinalBalance,
		FinalInflationAdjustedBalance: summary.FinalInflationAdjustedBalance,
		TotalContributions:            summary.TotalContributions,
		MaxDrawdown:                   maxDrawdown,
		Success:                       summary.FinalBalance.GreaterThanOrEqual(invested),
	}
}

// Overview condenses a result for attachment to a comparison.
func (r *MonteCarloResult) Overview() domain.MonteCarloOverview {
	return domain.MonteCarloOverview{
		ScenarioID:         r.Scenario.Key(),
		ScenarioName:       r.Scenario.Name,
		NumSimulations:     r.NumSimulations,
		SuccessRate:        r.SuccessRate,
		MedianFinalBalance: r.MedianFinalBalance,
		MedianFinalReal:    r.MedianFinalReal,
		PercentileRanges:   r.PercentileRanges,
	}
}

func successRate(outcomes []SimulationOutcome) decimal.Decimal {
	if len(outcomes) == 0 {
		return decimal.Zero
	}
	n := 0
	for _, o := range outcomes {
		if o.Success {
			n++
		}
	}
	return decimal.NewFromInt(int64(n)).Div(decimal.NewFromInt(int64(len(outcomes))))
}

func sortedBy(outcomes []SimulationOutcome, field func(SimulationOutcome) decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(outcomes))
	for i, o := range outcomes {
		out[i] = field(o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessThan(out[j]) })
	return out
}

// percentileRanges reads percentiles off ascending balances.
func percentileRanges(balances []decimal.Decimal) domain.PercentileRanges {
	n := len(balances)
	return domain.PercentileRanges{
		P10: balances[n/10],
		P25: balances[n/4],
		P50: balances[n/2],
		P75: balances[3*n/4],
		P90: balances[9*n/10],
	}
}

func stdDev(rates []decimal.Decimal) float64 {
	if len(rates) < 2 {
		return 0
	}
	mean := Mean(rates).InexactFloat64()
	var sum float64
	for _, r := range rates {
		d := r.InexactFloat64() - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(rates)-1))
}

func normal(rng *rand.Rand, mean decimal.Decimal, sd float64) decimal.Decimal {
	return mean.Add(decimal.NewFromFloat(rng.NormFloat64() * sd)).Round(6)
}
