package output

import (
	"strconv"

	"github.com/rpgo/networth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	decimalHundred = decimal.NewFromInt(100)
	twelve         = decimal.NewFromInt(12)
)

// FormatCurrency formats a decimal as USD with thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return money.FromDecimal(amount).Format() }

// FormatPercentage formats a decimal that is already a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.07) as a percentage ("7.00%").
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Mul(decimalHundred)) }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
