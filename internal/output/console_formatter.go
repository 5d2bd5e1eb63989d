package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/networth-planner/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "NET WORTH SCENARIO SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Principal: %s  Monthly: %s  Years: %d\n",
		FormatCurrency(results.Request.StartingPrincipal),
		FormatCurrency(results.Request.MonthlyContribution),
		results.Request.Years)
	fmt.Fprintln(&buf)
	for _, e := range sortedByName(results) {
		fmt.Fprintf(&buf, "%s: Final=%s Real=%s ROI=%s\n",
			e.Scenario.Name,
			FormatCurrency(e.Summary.FinalBalance),
			FormatCurrency(e.Summary.FinalInflationAdjustedBalance),
			FormatRate(e.Summary.ROI),
		)
		fmt.Fprintf(&buf, "  Contributions=%s Gains=%s\n", FormatCurrency(e.Summary.TotalContributions), FormatCurrency(e.Summary.TotalGains))
	}
	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (real %s, Δ %s / %s)\n", rec.ScenarioName, FormatCurrency(rec.FinalReal), FormatCurrency(rec.RealGain), FormatPercentage(rec.RealGainPct))
	}
	return buf.Bytes(), nil
}
