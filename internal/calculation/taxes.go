package calculation

import (
	"sort"
	"strings"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal: 2024 single-filer brackets and the $14,600 standard deduction
//    for every year of a timeline, with no inflation indexing.
// 2. State: 2024 single-filer brackets applied to gross income, with no
//    state deductions or credits. States without a wage tax owe nothing.
// 3. Only gross income is taxed. Living costs are never deducted.

// TaxBracket is one marginal band. A zero Max marks the open-ended top band.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

func bracket(min, max int64, rate string) TaxBracket {
	return TaxBracket{Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max), Rate: decimal.RequireFromString(rate)}
}

func topBracket(min int64, rate string) TaxBracket {
	return TaxBracket{Min: decimal.NewFromInt(min), Rate: decimal.RequireFromString(rate)}
}

func flat(rate string) []TaxBracket { return []TaxBracket{topBracket(0, rate)} }

// FederalTaxCalculator handles federal income tax calculations
type FederalTaxCalculator struct {
	Year              int
	StandardDeduction decimal.Decimal
	Brackets          []TaxBracket
}

// NewFederalTaxCalculator2024 creates a single-filer calculator for 2024
func NewFederalTaxCalculator2024() *FederalTaxCalculator {
	return &FederalTaxCalculator{
		Year:              2024,
		StandardDeduction: decimal.NewFromInt(14600),
		Brackets: []TaxBracket{
			bracket(0, 11600, "0.10"),
			bracket(11600, 47150, "0.12"),
			bracket(47150, 100525, "0.22"),
			bracket(100525, 191950, "0.24"),
			bracket(191950, 243725, "0.32"),
			bracket(243725, 609350, "0.35"),
			topBracket(609350, "0.37"),
		},
	}
}

// CalculateFederalTax calculates federal income tax on gross income after
// the standard deduction
func (ftc *FederalTaxCalculator) CalculateFederalTax(grossIncome decimal.Decimal) decimal.Decimal {
	taxable := money.Max(money.Zero(), money.FromDecimal(grossIncome).Sub(money.FromDecimal(ftc.StandardDeduction)))
	return progressiveTax(taxable, ftc.Brackets).Decimal
}

// progressiveTax applies each band's rate to the part of income inside it.
func progressiveTax(income money.Money, brackets []TaxBracket) money.Money {
	total := money.Zero()
	for _, b := range brackets {
		lower := money.FromDecimal(b.Min)
		if !income.GreaterThan(lower) {
			break
		}
		upper := income
		if !b.Max.IsZero() {
			upper = money.Min(income, money.FromDecimal(b.Max))
		}
		total = total.Add(upper.Sub(lower).Mul(b.Rate))
	}
	return total
}

// StateTaxCalculator holds per-state brackets keyed by lower-cased state name.
type StateTaxCalculator struct {
	Year     int
	Brackets map[string][]TaxBracket
}

// CalculateStateTax returns the state tax on gross income. Unknown states
// and states without a wage tax owe nothing.
func (stc *StateTaxCalculator) CalculateStateTax(grossIncome decimal.Decimal, state string) decimal.Decimal {
	brackets := stc.Brackets[strings.ToLower(strings.TrimSpace(state))]
	if len(brackets) == 0 || !grossIncome.IsPositive() {
		return decimal.Zero
	}
	return progressiveTax(money.FromDecimal(grossIncome), brackets).Decimal
}

// TaxCalculator combines federal and state income tax.
type TaxCalculator struct {
	Federal *FederalTaxCalculator
	State   *StateTaxCalculator
}

// NewTaxCalculator creates a calculator with the 2024 tables.
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{
		Federal: NewFederalTaxCalculator2024(),
		State:   &StateTaxCalculator{Year: 2024, Brackets: stateBrackets2024},
	}
}

// Calculate splits the tax owed on one year of gross income in state,
// rounded to cents.
func (tc *TaxCalculator) Calculate(grossIncome decimal.Decimal, state string) domain.TaxBreakdown {
	income := money.FromDecimal(grossIncome)
	federal := money.FromDecimal(tc.Federal.CalculateFederalTax(grossIncome)).Round()
	stateTax := money.FromDecimal(tc.State.CalculateStateTax(grossIncome, state)).Round()
	total := federal.Add(stateTax)
	return domain.TaxBreakdown{
		Income:         grossIncome,
		State:          strings.TrimSpace(state),
		FederalTax:     federal.Decimal,
		StateTax:       stateTax.Decimal,
		TotalTax:       total.Decimal,
		AfterTaxIncome: income.Sub(total).Decimal,
	}
}

// Estimate validates its inputs and calculates the breakdown. An empty state
// means federal tax only.
func (tc *TaxCalculator) Estimate(grossIncome decimal.Decimal, state string) (domain.TaxBreakdown, error) {
	if grossIncome.IsNegative() {
		return domain.TaxBreakdown{}, domain.NewInvalidInputError("income", "must not be negative, got %s", grossIncome)
	}
	if strings.TrimSpace(state) != "" {
		name, ok := CanonicalState(state)
		if !ok {
			return domain.TaxBreakdown{}, domain.NewInvalidInputError("state", "unknown state %q", state)
		}
		state = name
	}
	return tc.Calculate(grossIncome, state), nil
}

// States lists every state with tax and cost data, sorted.
func States() []string {
	out := make([]string, 0, len(stateNames))
	for _, name := range stateNames {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// CanonicalState returns the canonical spelling of a state name.
func CanonicalState(state string) (string, bool) {
	name, ok := stateNames[strings.ToLower(strings.TrimSpace(state))]
	return name, ok
}

// stateBrackets2024 is keyed by lower-cased state name. Absent or empty
// entries have no wage income tax.
var stateBrackets2024 = map[string][]TaxBracket{
	"alabama":  {bracket(0, 500, "0.02"), bracket(500, 3000, "0.04"), topBracket(3000, "0.05")},
	"alaska":   nil,
	"arizona":  flat("0.025"),
	"arkansas": {bracket(0, 4800, "0.02"), bracket(4800, 9600, "0.04"), topBracket(9600, "0.055")},
	"california": {
		bracket(0, 10099, "0.01"), bracket(10099, 23942, "0.02"), bracket(23942, 37788, "0.04"),
		bracket(37788, 52455, "0.06"), bracket(52455, 66295, "0.08"), bracket(66295, 338639, "0.093"),
		bracket(338639, 406364, "0.103"), bracket(406364, 677275, "0.113"), topBracket(677275, "0.123"),
	},
	"colorado": flat("0.044"),
	"connecticut": {
		bracket(0, 10000, "0.03"), bracket(10000, 50000, "0.05"), bracket(50000, 100000, "0.055"),
		bracket(100000, 200000, "0.06"), bracket(200000, 250000, "0.065"), bracket(250000, 500000, "0.069"),
		topBracket(500000, "0.0699"),
	},
	"delaware": {
		bracket(0, 2000, "0.022"), bracket(2000, 5000, "0.039"), bracket(5000, 10000, "0.048"),
		bracket(10000, 20000, "0.052"), bracket(20000, 25000, "0.0555"), topBracket(25000, "0.066"),
	},
	"district of columbia": {
		bracket(0, 10000, "0.04"), bracket(10000, 40000, "0.06"), bracket(40000, 60000, "0.065"),
		bracket(60000, 250000, "0.085"), bracket(250000, 500000, "0.0925"), bracket(500000, 1000000, "0.0975"),
		topBracket(1000000, "0.1075"),
	},
	"florida": nil,
	"georgia": {
		bracket(0, 750, "0.01"), bracket(750, 2250, "0.02"), bracket(2250, 3750, "0.03"),
		bracket(3750, 5250, "0.04"), bracket(5250, 7000, "0.05"), topBracket(7000, "0.0575"),
	},
	"hawaii": {
		bracket(0, 2400, "0.014"), bracket(2400, 4800, "0.032"), bracket(4800, 9600, "0.055"),
		bracket(9600, 14400, "0.064"), bracket(14400, 19200, "0.068"), bracket(19200, 24000, "0.072"),
		bracket(24000, 36000, "0.076"), bracket(36000, 48000, "0.079"), bracket(48000, 150000, "0.0825"),
		bracket(150000, 175000, "0.09"), bracket(175000, 200000, "0.10"), topBracket(200000, "0.11"),
	},
	"idaho":     flat("0.058"),
	"illinois":  flat("0.0495"),
	"indiana":   flat("0.0315"),
	"iowa":      flat("0.04"),
	"kansas":    {bracket(0, 15000, "0.031"), bracket(15000, 30000, "0.0525"), topBracket(30000, "0.057")},
	"kentucky":  flat("0.045"),
	"louisiana": {bracket(0, 12500, "0.0185"), bracket(12500, 50000, "0.035"), topBracket(50000, "0.0425")},
	"maine":     {bracket(0, 24500, "0.058"), bracket(24500, 58550, "0.0675"), topBracket(58550, "0.0715")},
	"maryland": {
		bracket(0, 1000, "0.02"), bracket(1000, 2000, "0.03"), bracket(2000, 3000, "0.04"),
		bracket(3000, 100000, "0.0475"), bracket(100000, 125000, "0.05"), bracket(125000, 150000, "0.0525"),
		bracket(150000, 250000, "0.055"), topBracket(250000, "0.0575"),
	},
	"massachusetts": flat("0.05"),
	"michigan":      flat("0.0425"),
	"minnesota": {
		bracket(0, 30390, "0.0535"), bracket(30390, 98360, "0.0678"), bracket(98360, 183340, "0.0785"),
		topBracket(183340, "0.0985"),
	},
	"mississippi": {bracket(0, 10000, "0.04"), topBracket(10000, "0.05")},
	"missouri": {
		bracket(0, 1200, "0.015"), bracket(1200, 2400, "0.02"), bracket(2400, 3600, "0.025"),
		bracket(3600, 4800, "0.03"), bracket(4800, 6000, "0.035"), bracket(6000, 7000, "0.04"),
		bracket(7000, 8000, "0.045"), bracket(8000, 9000, "0.05"), topBracket(9000, "0.054"),
	},
	"montana": flat("0.0485"),
	"nebraska": {
		bracket(0, 3700, "0.0246"), bracket(3700, 22170, "0.0351"), bracket(22170, 35730, "0.0501"),
		topBracket(35730, "0.0651"),
	},
	"nevada":        nil,
	"new hampshire": nil,
	"new jersey": {
		bracket(0, 20000, "0.014"), bracket(20000, 35000, "0.0175"), bracket(35000, 40000, "0.035"),
		bracket(40000, 75000, "0.05525"), bracket(75000, 500000, "0.0637"), bracket(500000, 1000000, "0.0897"),
		topBracket(1000000, "0.1075"),
	},
	"new mexico": {
		bracket(0, 5500, "0.017"), bracket(5500, 11000, "0.032"), bracket(11000, 16000, "0.047"),
		bracket(16000, 210000, "0.049"), bracket(210000, 315000, "0.052"), topBracket(315000, "0.059"),
	},
	"new york": {
		bracket(0, 8500, "0.04"), bracket(8500, 11700, "0.045"), bracket(11700, 13900, "0.0525"),
		bracket(13900, 80650, "0.059"), bracket(80650, 215400, "0.0609"), bracket(215400, 1077550, "0.0685"),
		bracket(1077550, 5000000, "0.0968"), bracket(5000000, 25000000, "0.103"), topBracket(25000000, "0.109"),
	},
	"north carolina": flat("0.0475"),
	"north dakota":   {bracket(0, 44525, "0.011"), bracket(44525, 225975, "0.0204"), topBracket(225975, "0.0275")},
	"ohio": {
		bracket(0, 26050, "0"), bracket(26050, 46350, "0.025"), bracket(46350, 92650, "0.035"),
		bracket(92650, 115650, "0.0375"), topBracket(115650, "0.0399"),
	},
	"oklahoma": {
		bracket(0, 1000, "0.0025"), bracket(1000, 2500, "0.0075"), bracket(2500, 3750, "0.0175"),
		bracket(3750, 4900, "0.0275"), bracket(4900, 7200, "0.0375"), bracket(7200, 8700, "0.0475"),
		topBracket(8700, "0.05"),
	},
	"oregon": {
		bracket(0, 3950, "0.0475"), bracket(3950, 9900, "0.0675"), bracket(9900, 125000, "0.0875"),
		topBracket(125000, "0.0999"),
	},
	"pennsylvania":   flat("0.0307"),
	"rhode island":   {bracket(0, 68200, "0.0375"), bracket(68200, 155050, "0.0475"), topBracket(155050, "0.0599")},
	"south carolina": {bracket(0, 3200, "0"), bracket(3200, 16040, "0.03"), topBracket(16040, "0.06")},
	"south dakota":   nil,
	"tennessee":      nil,
	"texas":          nil,
	"utah":           flat("0.0485"),
	"vermont": {
		bracket(0, 45200, "0.0335"), bracket(45200, 109450, "0.066"), bracket(109450, 229350, "0.076"),
		topBracket(229350, "0.0875"),
	},
	"virginia":   {bracket(0, 3000, "0.02"), bracket(3000, 5000, "0.03"), bracket(5000, 17000, "0.05"), topBracket(17000, "0.0575")},
	"washington": nil,
	"west virginia": {
		bracket(0, 10000, "0.03"), bracket(10000, 25000, "0.04"), bracket(25000, 40000, "0.045"),
		bracket(40000, 60000, "0.06"), topBracket(60000, "0.065"),
	},
	"wisconsin": {
		bracket(0, 13810, "0.035"), bracket(13810, 27630, "0.044"), bracket(27630, 304170, "0.053"),
		bracket(304170, 405550, "0.0725"), topBracket(405550, "0.0765"),
	},
	"wyoming": nil,
}
