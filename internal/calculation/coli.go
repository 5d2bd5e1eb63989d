package calculation

import (
	"sort"
	"strings"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	// baseLivingCost is a year of costs at the national average (index 100).
	baseLivingCost = decimal.NewFromInt(50000)
	// costInflation grows living costs every year after the first.
	costInflation = decimal.RequireFromString("0.03")
	// nationalCostIndex applies when no location covers a year.
	nationalCostIndex = decimal.RequireFromString("103.59019607843136")
	hundred           = decimal.NewFromInt(100)
)

var areaMultiplier = map[domain.Level]decimal.Decimal{
	domain.LevelVeryLittle:      decimal.RequireFromString("0.5"),
	domain.LevelVeryLow:         decimal.RequireFromString("0.5"),
	domain.LevelLessThanAverage: decimal.RequireFromString("0.75"),
	domain.LevelAverage:         decimal.NewFromInt(1),
	domain.LevelAboveAverage:    decimal.RequireFromString("1.25"),
	domain.LevelVeryHigh:        decimal.NewFromInt(2),
}

var spendingMultiplier = map[domain.Level]decimal.Decimal{
	domain.LevelVeryLittle:      decimal.RequireFromString("0.5"),
	domain.LevelVeryLow:         decimal.RequireFromString("0.5"),
	domain.LevelLessThanAverage: decimal.RequireFromString("0.75"),
	domain.LevelAverage:         decimal.NewFromInt(1),
	domain.LevelAboveAverage:    decimal.RequireFromString("1.25"),
	domain.LevelVeryHigh:        decimal.RequireFromString("1.5"),
}

var (
	housingWeight = decimal.RequireFromString("0.4")
	foodWeight    = decimal.RequireFromString("0.3")
	leisureWeight = decimal.RequireFromString("0.2")
	travelWeight  = decimal.RequireFromString("0.1")
)

// costIndex2024 is the cost-of-living index by lower-cased state, 100 being
// the national baseline.
var costIndex2024 = map[string]decimal.Decimal{}

// stateNames maps lower-cased names to their canonical spelling.
var stateNames = map[string]string{}

func init() {
	for name, index := range map[string]string{
		"West Virginia": "84.1", "Oklahoma": "85.7", "Kansas": "87.0", "Mississippi": "87.9",
		"Alabama": "88.0", "Arkansas": "88.7", "Missouri": "88.7", "Iowa": "89.7",
		"Michigan": "90.4", "Indiana": "90.5", "Tennessee": "90.5", "Georgia": "91.3",
		"North Dakota": "91.9", "Louisiana": "92.2", "South Dakota": "92.2", "Texas": "92.7",
		"Kentucky": "93.0", "Nebraska": "93.1", "New Mexico": "93.3", "Ohio": "94.2",
		"Illinois": "94.4", "Montana": "94.9", "Minnesota": "95.1", "Pennsylvania": "95.1",
		"Wyoming": "95.5", "South Carolina": "95.9", "Wisconsin": "97.0", "North Carolina": "97.8",
		"Virginia": "100.7", "Delaware": "100.8", "Nevada": "101.3", "Colorado": "102.0",
		"Idaho": "102.0", "Florida": "102.8", "Utah": "104.9", "Arizona": "111.5",
		"Oregon": "112.0", "Maine": "112.1", "Rhode Island": "112.2", "Connecticut": "112.3",
		"New Hampshire": "112.6", "Washington": "114.2", "Vermont": "114.4", "New Jersey": "114.6",
		"Maryland": "115.3", "New York": "123.3", "Alaska": "123.8", "District of Columbia": "141.9",
		"California": "144.8", "Massachusetts": "145.9", "Hawaii": "186.9",
	} {
		key := strings.ToLower(name)
		costIndex2024[key] = decimal.RequireFromString(index)
		stateNames[key] = name
	}
}

// StateCostIndex returns the cost-of-living index of state, or the national
// index when the state is unknown.
func StateCostIndex(state string) decimal.Decimal {
	if idx, ok := costIndex2024[strings.ToLower(strings.TrimSpace(state))]; ok {
		return idx
	}
	return nationalCostIndex
}

// SpendingMultiplier weights the category levels: housing 40%, food 30%,
// leisure 20% and travel 10%.
func SpendingMultiplier(p domain.SpendingPreference) decimal.Decimal {
	level := func(l domain.Level) decimal.Decimal {
		if m, ok := spendingMultiplier[l.OrAverage()]; ok {
			return m
		}
		return one
	}
	return level(p.Housing).Mul(housingWeight).
		Add(level(p.Food).Mul(foodWeight)).
		Add(level(p.Leisure).Mul(leisureWeight)).
		Add(level(p.Travel).Mul(travelWeight))
}

// AnnualLivingCost is one base-year of costs. Without a location the national
// average applies and spending habits are ignored.
func AnnualLivingCost(loc *domain.LocationPeriod, spending domain.SpendingPreference) decimal.Decimal {
	if loc == nil {
		return baseLivingCost.Mul(nationalCostIndex).Div(hundred)
	}
	area, ok := areaMultiplier[loc.AreaLevel.OrAverage()]
	if !ok {
		area = one
	}
	return baseLivingCost.Mul(StateCostIndex(loc.State)).Div(hundred).Mul(area).Mul(SpendingMultiplier(spending))
}

// unknownLocation labels years no location period covers.
const unknownLocation = "Unknown"

// BuildIncomeTimeline derives costs and taxes for each year of gross income.
// Costs grow 3% a year from the earliest year; taxes use the state of the
// period covering the year and federal tax alone when none does. The result
// is ordered by year.
func BuildIncomeTimeline(incomes []domain.IncomeEntry, plan domain.LivingPlan, taxes *TaxCalculator) []domain.IncomeEntry {
	if len(incomes) == 0 {
		return nil
	}
	out := make([]domain.IncomeEntry, len(incomes))
	copy(out, incomes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	baseYear := out[0].Year

	for i := range out {
		e := &out[i]
		e.Owner = plan.Owner
		if e.Source == "" {
			e.Source = "Salary"
		}

		state := ""
		var cost decimal.Decimal
		if loc, ok := plan.LocationFor(e.Year); ok {
			state = loc.State
			e.Location = loc.Label()
			cost = AnnualLivingCost(&loc, plan.Spending)
		} else {
			e.Location = unknownLocation
			cost = AnnualLivingCost(nil, plan.Spending)
		}
		factor := money.CompoundFactor(costInflation, e.Year-baseYear)
		e.Costs = money.FromDecimal(cost).Mul(factor).Round().Decimal
		e.ApplyTaxes(taxes.Calculate(e.Amount, state))
	}
	return out
}
