package output

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rpgo/networth-planner/internal/calculation"
)

// MonteCarloHTMLReport generates a standalone HTML report for Monte Carlo results
type MonteCarloHTMLReport struct {
	Result *calculation.MonteCarloResult
}

// GenerateHTMLReport writes the report to outputPath, creating its directory.
func (m *MonteCarloHTMLReport) GenerateHTMLReport(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	content, err := m.generateHTMLContent()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write HTML report: %w", err)
	}
	return nil
}

func (m *MonteCarloHTMLReport) generateHTMLContent() (string, error) {
	r := m.Result
	finals := make([]string, len(r.Outcomes))
	for i, o := range r.Outcomes {
		finals[i] = o.FinalBalance.StringFixed(0)
	}
	finalsJSON, err := json.Marshal(finals)
	if err != nil {
		return "", fmt.Errorf("failed to encode outcomes: %w", err)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Monte Carlo Net Worth Report</title>
<style>
body { font-family: 'Segoe UI', Tahoma, sans-serif; margin: 2rem; color: #1f2933; }
.card { display: inline-block; padding: 1rem 1.4rem; margin: 0 1rem 1rem 0; border-radius: 8px; background: #f0f4f8; }
.success { background: #e3f9e5; } .warning { background: #fffbea; } .danger { background: #ffeeee; }
table { border-collapse: collapse; } td, th { padding: 0.3rem 0.8rem; text-align: right; }
</style>
</head>
<body>
<h1>Monte Carlo Analysis: %s</h1>
<p>%d simulations (%s), seed %d, %d years, starting at %s with %s per month.</p>
<div class="card %s"><strong>Success rate</strong><br>%s</div>
<div class="card"><strong>Risk level</strong><br>%s</div>
<div class="card"><strong>Median final balance</strong><br>%s</div>
<div class="card"><strong>Median in today's money</strong><br>%s</div>
<h2>Distribution of Final Balance</h2>
<table>
<tr><th>P10</th><th>P25</th><th>P50</th><th>P75</th><th>P90</th></tr>
<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>
</table>
<p>Spread: %s</p>
<h2>Recommendations</h2>
<ul>%s</ul>
<script>window.finalBalances = %s;</script>
</body>
</html>
`,
		html.EscapeString(r.Scenario.Name),
		r.NumSimulations, r.Method, r.Seed, r.Request.Years,
		FormatCurrency(r.Request.StartingPrincipal), FormatCurrency(r.Request.MonthlyContribution),
		m.getSuccessRateClass(), FormatRate(r.SuccessRate),
		m.getRiskLevel(),
		FormatCurrency(r.MedianFinalBalance),
		FormatCurrency(r.MedianFinalReal),
		FormatCurrency(r.PercentileRanges.P10), FormatCurrency(r.PercentileRanges.P25), FormatCurrency(r.PercentileRanges.P50),
		FormatCurrency(r.PercentileRanges.P75), FormatCurrency(r.PercentileRanges.P90),
		m.getMarketSensitivity(),
		m.generateRecommendationsHTML(),
		finalsJSON,
	), nil
}

func (m *MonteCarloHTMLReport) successPct() float64 {
	return m.Result.SuccessRate.Mul(decimalHundred).InexactFloat64()
}

func (m *MonteCarloHTMLReport) getSuccessRateClass() string {
	switch rate := m.successPct(); {
	case rate >= 90:
		return "success"
	case rate >= 70:
		return "warning"
	}
	return "danger"
}

func (m *MonteCarloHTMLReport) getRiskLevel() string {
	switch rate := m.successPct(); {
	case rate >= 90:
		return "Low"
	case rate >= 70:
		return "Moderate"
	}
	return "High"
}

func (m *MonteCarloHTMLReport) getMarketSensitivity() string {
	median := m.Result.MedianFinalBalance
	if !median.IsPositive() {
		return "Unable to determine"
	}
	// P10..P90 range relative to the median as a proxy for variability
	cv := m.Result.PercentileRanges.P90.Sub(m.Result.PercentileRanges.P10).Div(median).InexactFloat64()
	switch {
	case cv < 0.5:
		return "Low - outcomes are tightly grouped"
	case cv < 1.0:
		return "Moderate - outcomes vary with market performance"
	}
	return "High - outcomes depend heavily on the sequence of returns"
}

func (m *MonteCarloHTMLReport) generateRecommendationsHTML() string {
	rate := m.successPct()
	var recommendations []string
	if rate < 90 {
		recommendations = append(recommendations, "Consider raising the monthly contribution")
		recommendations = append(recommendations, "Compare against a lower-volatility scenario")
	}
	if rate < 70 {
		recommendations = append(recommendations, "Extend the horizon to give returns time to recover")
		recommendations = append(recommendations, "Review whether the assumed return is realistic")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Maintain the current plan")
		recommendations = append(recommendations, "Re-run the projection as circumstances change")
	}

	var b strings.Builder
	for _, rec := range recommendations {
		fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(rec))
	}
	return b.String()
}

// FormatMonteCarloText renders a Monte Carlo result for the terminal.
func FormatMonteCarloText(r *calculation.MonteCarloResult) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "MONTE CARLO: %s\n", r.Scenario.Name)
	fmt.Fprintln(&b, strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Simulations:          %d (%s, seed %d)\n", r.NumSimulations, r.Method, r.Seed)
	fmt.Fprintf(&b, "Years:                %d\n", r.Request.Years)
	fmt.Fprintf(&b, "Success Rate:         %s\n", FormatRate(r.SuccessRate))
	fmt.Fprintf(&b, "Median Final Balance: %s\n", FormatCurrency(r.MedianFinalBalance))
	fmt.Fprintf(&b, "Median Real Balance:  %s\n", FormatCurrency(r.MedianFinalReal))
	fmt.Fprintf(&b, "P10 / P25 / P50 / P75 / P90:\n  %s / %s / %s / %s / %s\n",
		FormatCurrency(r.PercentileRanges.P10), FormatCurrency(r.PercentileRanges.P25), FormatCurrency(r.PercentileRanges.P50),
		FormatCurrency(r.PercentileRanges.P75), FormatCurrency(r.PercentileRanges.P90))
	return []byte(b.String())
}
