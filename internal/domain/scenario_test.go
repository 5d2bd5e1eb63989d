package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	testCases := []struct {
		in       string
		expected Category
		wantErr  bool
	}{
		{"conservative", CategoryConservative, false},
		{" Moderate ", CategoryModerate, false},
		{"AGGRESSIVE", CategoryAggressive, false},
		{"custom", CategoryCustom, false},
		{"yolo", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			c, err := ParseCategory(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, c)
		})
	}
}

func TestPresetScenarios(t *testing.T) {
	presets := PresetScenarios()
	require.Len(t, presets, 3)

	assert.Equal(t, "Conservative Growth", presets[0].Name)
	assert.True(t, presets[0].AnnualReturnRate.Equal(decimal.NewFromFloat(0.04)))
	assert.True(t, presets[0].InflationRate.Equal(decimal.NewFromFloat(0.025)))
	assert.Equal(t, RiskLow, presets[0].RiskTolerance)

	assert.Equal(t, CategoryModerate, presets[1].Category)
	assert.True(t, presets[1].AnnualReturnRate.Equal(decimal.NewFromFloat(0.07)))

	assert.Equal(t, CategoryAggressive, presets[2].Category)
	assert.True(t, presets[2].InflationRate.Equal(decimal.NewFromFloat(0.035)))
	assert.Equal(t, RiskHigh, presets[2].RiskTolerance)

	_, ok := CategoryCustom.Preset()
	assert.False(t, ok, "custom category has no preset")
}

func TestCategoryAllocation(t *testing.T) {
	conservative := CategoryConservative.Allocation()
	assert.True(t, conservative.Investment.Equal(decimal.NewFromInt(40)))
	assert.True(t, conservative.Liabilities.Equal(decimal.NewFromInt(10)))

	aggressive := CategoryAggressive.Allocation()
	assert.True(t, aggressive.Investment.Equal(decimal.NewFromInt(80)))

	// moderate and custom share the same mix
	assert.Equal(t, CategoryModerate.Allocation(), CategoryCustom.Allocation())
}

func TestRateFromFloat(t *testing.T) {
	r, err := RateFromFloat("annual_return_rate", 0.05)
	require.NoError(t, err)
	assert.True(t, r.Equal(decimal.NewFromFloat(0.05)))

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := RateFromFloat("inflation_rate", v)
		require.Error(t, err)
		var iie *InvalidInputError
		require.True(t, errors.As(err, &iie))
		assert.Equal(t, "inflation_rate", iie.Field)
	}

	_, err = AmountFromFloat("starting_principal", math.NaN())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFinancialProfileRequest(t *testing.T) {
	p := FinancialProfile{
		MonthlyIncome:   decimal.NewFromInt(5000),
		MonthlyExpenses: decimal.NewFromInt(3500),
		CurrentSavings:  decimal.NewFromInt(25000),
	}

	assert.True(t, p.MonthlySavings().Equal(decimal.NewFromInt(1500)))
	assert.True(t, p.AnnualSavings().Equal(decimal.NewFromInt(18000)))

	req := p.Request(10)
	assert.Equal(t, 10, req.Years)
	assert.True(t, req.StartingPrincipal.Equal(decimal.NewFromInt(25000)))
	assert.True(t, req.MonthlyContribution.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "abc", req.ForScenario("abc").ScenarioID)
	assert.Empty(t, req.ScenarioID, "ForScenario must not mutate the receiver")
}
