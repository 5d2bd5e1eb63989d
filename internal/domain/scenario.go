package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the closed set of scenario kinds. Non-custom categories carry
// preset rate assumptions.
type Category string

const (
	CategoryConservative Category = "conservative"
	CategoryModerate     Category = "moderate"
	CategoryAggressive   Category = "aggressive"
	CategoryCustom       Category = "custom"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryConservative, CategoryModerate, CategoryAggressive, CategoryCustom}

// ParseCategory resolves a category name (case-insensitive).
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	return "", NewInvalidInputError("category", "unknown category %q (want conservative, moderate, aggressive or custom)", s)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryConservative, CategoryModerate, CategoryAggressive, CategoryCustom:
		return true
	}
	return false
}

// RiskLevel is the user-facing risk label of a scenario.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether r is a known risk label.
func (r RiskLevel) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// Scenario is a named set of rate assumptions. Rates are fractions
// (0.07 == 7% per year). Treat values as read-only once built.
type Scenario struct {
	ID               string          `yaml:"id,omitempty" json:"id"`
	Owner            string          `yaml:"-" json:"owner,omitempty"`
	Name             string          `yaml:"name" json:"name"`
	Category         Category        `yaml:"category" json:"category"`
	AnnualReturnRate decimal.Decimal `yaml:"annual_return_rate" json:"annual_return_rate"`
	InflationRate    decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	RiskTolerance    RiskLevel       `yaml:"risk_tolerance" json:"risk_tolerance"`
	CreatedAt        time.Time       `yaml:"-" json:"created_at,omitempty"`
}

// Label returns "Name (category)" for tables and logs.
func (s Scenario) Label() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Category)
}

// Key identifies the scenario within a comparison: its ID, or its name when
// the scenario has not been stored yet.
func (s Scenario) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}

// presets mirrors the default scenarios offered to every new user.
var presets = map[Category]Scenario{
	CategoryConservative: {
		ID:               "preset-conservative",
		Name:             "Conservative Growth",
		Category:         CategoryConservative,
		AnnualReturnRate: decimal.RequireFromString("0.04"),
		InflationRate:    decimal.RequireFromString("0.025"),
		RiskTolerance:    RiskLow,
	},
	CategoryModerate: {
		ID:               "preset-moderate",
		Name:             "Moderate Growth",
		Category:         CategoryModerate,
		AnnualReturnRate: decimal.RequireFromString("0.07"),
		InflationRate:    decimal.RequireFromString("0.03"),
		RiskTolerance:    RiskMedium,
	},
	CategoryAggressive: {
		ID:               "preset-aggressive",
		Name:             "Aggressive Growth",
		Category:         CategoryAggressive,
		AnnualReturnRate: decimal.RequireFromString("0.10"),
		InflationRate:    decimal.RequireFromString("0.035"),
		RiskTolerance:    RiskHigh,
	},
}

// Preset returns the preset scenario for c. Custom has no preset.
func (c Category) Preset() (Scenario, bool) {
	s, ok := presets[c]
	return s, ok
}

// PresetScenarios returns the conservative, moderate and aggressive presets in that order.
func PresetScenarios() []Scenario {
	out := make([]Scenario, 0, len(presets))
	for _, c := range Categories {
		if s, ok := presets[c]; ok {
			out = append(out, s)
		}
	}
	return out
}

// NewCustomScenario builds a user-defined scenario.
func NewCustomScenario(name string, returnRate, inflationRate decimal.Decimal, risk RiskLevel) Scenario {
	return Scenario{
		Name:             name,
		Category:         CategoryCustom,
		AnnualReturnRate: returnRate,
		InflationRate:    inflationRate,
		RiskTolerance:    risk,
	}
}

// AllocationRatios is the indicative asset mix shown next to a projection, in percent.
type AllocationRatios struct {
	Income      decimal.Decimal `json:"income_ratio"`
	Investment  decimal.Decimal `json:"investment_ratio"`
	Property    decimal.Decimal `json:"property_ratio"`
	RealEstate  decimal.Decimal `json:"real_estate_ratio"`
	Liabilities decimal.Decimal `json:"liabilities_ratio"`
}

func ratios(income, investment, property, realEstate, liabilities int64) AllocationRatios {
	return AllocationRatios{
		Income:      decimal.NewFromInt(income),
		Investment:  decimal.NewFromInt(investment),
		Property:    decimal.NewFromInt(property),
		RealEstate:  decimal.NewFromInt(realEstate),
		Liabilities: decimal.NewFromInt(liabilities),
	}
}

// Allocation returns the asset mix for the category. Moderate and custom share a mix.
func (c Category) Allocation() AllocationRatios {
	switch c {
	case CategoryConservative:
		return ratios(100, 40, 30, 20, 10)
	case CategoryAggressive:
		return ratios(100, 80, 10, 5, 5)
	default:
		return ratios(100, 60, 20, 15, 5)
	}
}
