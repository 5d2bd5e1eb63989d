package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func m(s string) Money { return FromDecimal(decimal.RequireFromString(s)) }

func TestFromDecimal(t *testing.T) {
	d := decimal.NewFromFloat(10.125)
	if got := FromDecimal(d); !got.Decimal.Equal(d) {
		t.Fatalf("FromDecimal mismatch: got %s want %s", got.Decimal, d)
	}
	if got := m("12.345").String(); got != "12.35" { // rounded for display
		t.Fatalf("display mismatch: got %s", got)
	}
}

func TestRounding(t *testing.T) {
	cases := []struct{ in, out string }{
		{"2.344", "2.34"},
		{"2.345", "2.35"},
		{"2.355", "2.36"},
		{"2.365", "2.37"},
	}
	for _, c := range cases {
		if got := m(c.in).Round().String(); got != c.out {
			t.Fatalf("round(%s) got %s want %s", c.in, got, c.out)
		}
	}
}

func TestAnnual(t *testing.T) {
	if got := m("100").Annual().String(); got != "1200.00" {
		t.Fatalf("Annual got %s", got)
	}
}

func TestGrowthAndDeflation(t *testing.T) {
	if got := m("1000").Grow(decimal.NewFromFloat(0.05)).String(); got != "1050.00" {
		t.Fatalf("Grow got %s", got)
	}
	if got := m("2250").Deflate(decimal.NewFromFloat(1.02)).String(); got != "2205.88" {
		t.Fatalf("Deflate got %s", got)
	}

	f := CompoundFactor(decimal.NewFromFloat(0.02), 2)
	if !f.Equal(decimal.RequireFromString("1.0404")) {
		t.Fatalf("CompoundFactor got %s want 1.0404", f)
	}
	if !CompoundFactor(decimal.NewFromFloat(0.5), 0).Equal(decimal.NewFromInt(1)) {
		t.Fatalf("CompoundFactor with zero periods must be 1")
	}
}

func TestArithmeticAndComparisons(t *testing.T) {
	a := m("10.10")
	b := m("5.05")
	if got := a.Add(b).String(); got != "15.15" {
		t.Fatalf("Add got %s", got)
	}
	if got := a.Sub(b).String(); got != "5.05" {
		t.Fatalf("Sub got %s", got)
	}
	if got := a.Mul(decimal.NewFromFloat(2.5)).String(); got != "25.25" {
		t.Fatalf("Mul got %s", got)
	}
	if got := a.Div(decimal.NewFromInt(2)).String(); got != "5.05" {
		t.Fatalf("Div got %s", got)
	}
	if !Min(a, b).Equal(b) || !Max(a, b).Equal(a) {
		t.Fatalf("Min/Max failed")
	}
	if !Max(Zero(), m("-3")).IsZero() {
		t.Fatalf("Max should floor a negative at zero")
	}
	if !Zero().IsZero() {
		t.Fatalf("Zero should be zero")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"999.999", "$1,000.00"},
		{"1234.5", "$1,234.50"},
		{"1234567.891", "$1,234,567.89"},
		{"-2500", "-$2,500.00"},
		{"-0.001", "$0.00"},
	}
	for _, c := range cases {
		if got := m(c.in).Format(); got != c.want {
			t.Fatalf("Format(%s) got %s want %s", c.in, got, c.want)
		}
	}
}
