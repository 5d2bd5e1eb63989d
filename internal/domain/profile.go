package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialProfile holds the income and expense facts a user has entered.
type FinancialProfile struct {
	Owner              string          `yaml:"-" json:"owner"`
	MonthlyIncome      decimal.Decimal `yaml:"monthly_income" json:"monthly_income"`
	MonthlyExpenses    decimal.Decimal `yaml:"monthly_expenses" json:"monthly_expenses"`
	CurrentSavings     decimal.Decimal `yaml:"current_savings" json:"current_savings"`
	CurrentSavingsRate decimal.Decimal `yaml:"current_savings_rate,omitempty" json:"current_savings_rate"` // percent
	InvestmentGoals    string          `yaml:"investment_goals,omitempty" json:"investment_goals,omitempty"`
	RetirementGoals    string          `yaml:"retirement_goals,omitempty" json:"retirement_goals,omitempty"`
	UpdatedAt          time.Time       `yaml:"-" json:"updated_at,omitempty"`
}

// MonthlySavings is income minus expenses. It may be negative.
func (p FinancialProfile) MonthlySavings() decimal.Decimal {
	return p.MonthlyIncome.Sub(p.MonthlyExpenses)
}

// AnnualSavings is twelve months of savings.
func (p FinancialProfile) AnnualSavings() decimal.Decimal {
	return p.MonthlySavings().Mul(decimal.NewFromInt(12))
}

// Request builds a projection request funded by the profile: current savings
// as principal and monthly savings as the contribution.
func (p FinancialProfile) Request(years int) ProjectionRequest {
	return ProjectionRequest{
		StartingPrincipal:   p.CurrentSavings,
		MonthlyContribution: p.MonthlySavings(),
		Years:               years,
	}
}

// IncomeEntry is one year of the user's income timeline. Amount is gross
// income; the tax fields are derived from it and never from Costs.
type IncomeEntry struct {
	Owner          string          `yaml:"-" json:"owner"`
	Year           int             `yaml:"year" json:"year"`
	Amount         decimal.Decimal `yaml:"amount" json:"amount"`
	Source         string          `yaml:"source" json:"source"`
	Location       string          `yaml:"location,omitempty" json:"location,omitempty"`
	Costs          decimal.Decimal `yaml:"costs,omitempty" json:"costs"`
	FederalTax     decimal.Decimal `yaml:"-" json:"federal_tax"`
	StateTax       decimal.Decimal `yaml:"-" json:"state_tax"`
	TotalTax       decimal.Decimal `yaml:"-" json:"total_tax"`
	AfterTaxIncome decimal.Decimal `yaml:"-" json:"after_tax_income"`
}

// ApplyTaxes copies a tax breakdown of the entry's gross income.
func (e *IncomeEntry) ApplyTaxes(t TaxBreakdown) {
	e.FederalTax = t.FederalTax
	e.StateTax = t.StateTax
	e.TotalTax = t.TotalTax
	e.AfterTaxIncome = t.AfterTaxIncome
}

// NetSavings is after-tax income minus living costs. It may be negative.
func (e IncomeEntry) NetSavings() decimal.Decimal {
	return e.AfterTaxIncome.Sub(e.Costs)
}

// TaxBreakdown splits the income tax owed on one year of gross income.
type TaxBreakdown struct {
	Income         decimal.Decimal `json:"income"`
	State          string          `json:"state,omitempty"`
	FederalTax     decimal.Decimal `json:"federal_tax"`
	StateTax       decimal.Decimal `json:"state_tax"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	AfterTaxIncome decimal.Decimal `json:"after_tax_income"`
}

// EffectiveRate is total tax over income, zero without income.
func (t TaxBreakdown) EffectiveRate() decimal.Decimal {
	if !t.Income.IsPositive() {
		return decimal.Zero
	}
	return t.TotalTax.Div(t.Income)
}
