package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/networth-planner/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "DETAILED NET WORTH PROJECTION ANALYSIS")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	assumptions := results.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "PROJECTION INPUTS")
	fmt.Fprintln(&buf, "=================")
	fmt.Fprintf(&buf, "Starting Principal:    %s\n", FormatCurrency(results.Request.StartingPrincipal))
	fmt.Fprintf(&buf, "Monthly Contribution:  %s\n", FormatCurrency(results.Request.MonthlyContribution))
	fmt.Fprintf(&buf, "Annual Contribution:   %s\n", FormatCurrency(results.Request.MonthlyContribution.Mul(twelve)))
	fmt.Fprintf(&buf, "Projection Years:      %d\n", results.Request.Years)
	fmt.Fprintln(&buf)

	writeDetailedComparison(&buf, results)

	for i, e := range results.Results {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, e.Scenario.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		fmt.Fprintf(&buf, "Category: %s   Risk: %s\n", e.Scenario.Category, e.Scenario.RiskTolerance)
		fmt.Fprintf(&buf, "Return: %s   Inflation: %s\n", FormatRate(e.Scenario.AnnualReturnRate), FormatRate(e.Scenario.InflationRate))
		fmt.Fprintf(&buf, "Allocation: income %s%% / investment %s%% / property %s%% / real estate %s%% / liabilities %s%%\n",
			e.Allocation.Income, e.Allocation.Investment, e.Allocation.Property, e.Allocation.RealEstate, e.Allocation.Liabilities)
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "%-6s %18s %16s %16s %18s %18s\n", "Year", "Beginning", "Contributions", "Gains", "Ending", "Real (Year 0 $)")
		fmt.Fprintln(&buf, strings.Repeat("-", 97))
		for _, y := range e.Records {
			fmt.Fprintf(&buf, "%-6d %18s %16s %16s %18s %18s\n", y.Year,
				FormatCurrency(y.BeginningBalance),
				FormatCurrency(y.Contributions),
				FormatCurrency(y.Gains),
				FormatCurrency(y.EndingBalance),
				FormatCurrency(y.InflationAdjustedBalance))
		}
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "  Total Contributions:  %s\n", FormatCurrency(e.Summary.TotalContributions))
		fmt.Fprintf(&buf, "  Total Gains:          %s\n", FormatCurrency(e.Summary.TotalGains))
		fmt.Fprintf(&buf, "  Final Balance:        %s\n", FormatCurrency(e.Summary.FinalBalance))
		fmt.Fprintf(&buf, "  Final Real Balance:   %s\n", FormatCurrency(e.Summary.FinalInflationAdjustedBalance))
		fmt.Fprintf(&buf, "  ROI:                  %s\n", FormatRate(e.Summary.ROI))
		fmt.Fprintln(&buf)
	}

	if len(results.MonteCarlo) > 0 {
		writeMonteCarloOverview(&buf, results.MonteCarlo)
	}

	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf, "RECOMMENDATION")
		fmt.Fprintln(&buf, "==============")
		fmt.Fprintf(&buf, "%s ends with the highest balance in today's money: %s\n", rec.ScenarioName, FormatCurrency(rec.FinalReal))
		fmt.Fprintf(&buf, "That is %s (%s) above the %s invested.\n", FormatCurrency(rec.RealGain), FormatPercentage(rec.RealGainPct), FormatCurrency(rec.Invested))
	}
	return buf.Bytes(), nil
}

// writeDetailedComparison prints the side-by-side summary table.
func writeDetailedComparison(w io.Writer, results *domain.ScenarioComparison) {
	if len(results.Results) == 0 {
		return
	}
	fmt.Fprintln(w, "SCENARIO COMPARISON")
	fmt.Fprintln(w, "===================")
	fmt.Fprintf(w, "%-28s %18s %18s %18s %10s\n", "Scenario", "Final Balance", "Final Real", "Total Gains", "ROI")
	fmt.Fprintln(w, strings.Repeat("-", 96))
	for _, e := range results.Results {
		fmt.Fprintf(w, "%-28s %18s %18s %18s %10s\n",
			truncateName(e.Scenario.Name, 28),
			FormatCurrency(e.Summary.FinalBalance),
			FormatCurrency(e.Summary.FinalInflationAdjustedBalance),
			FormatCurrency(e.Summary.TotalGains),
			FormatRate(e.Summary.ROI))
	}
	fmt.Fprintln(w)
}

func writeMonteCarloOverview(w io.Writer, overviews []domain.MonteCarloOverview) {
	fmt.Fprintln(w, "MONTE CARLO (HISTORICAL BOOTSTRAP)")
	fmt.Fprintln(w, "==================================")
	fmt.Fprintf(w, "%-28s %8s %18s %18s %18s\n", "Scenario", "Success", "P10", "Median", "P90")
	fmt.Fprintln(w, strings.Repeat("-", 94))
	for _, m := range overviews {
		fmt.Fprintf(w, "%-28s %8s %18s %18s %18s\n",
			truncateName(m.ScenarioName, 28),
			FormatRate(m.SuccessRate),
			FormatCurrency(m.PercentileRanges.P10),
			FormatCurrency(m.MedianFinalBalance),
			FormatCurrency(m.PercentileRanges.P90))
	}
	fmt.Fprintln(w)
}

func truncateName(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
