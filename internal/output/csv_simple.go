package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/networth-planner/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Category", "AnnualReturnRate", "InflationRate", "Years", "TotalContributions", "TotalGains", "FinalBalance", "FinalInflationAdjustedBalance", "ROI"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, e := range sortedByName(results) {
		row := []string{
			e.Scenario.Name,
			string(e.Scenario.Category),
			e.Scenario.AnnualReturnRate.String(),
			e.Scenario.InflationRate.String(),
			intToString(len(e.Records)),
			e.Summary.TotalContributions.StringFixed(2),
			e.Summary.TotalGains.StringFixed(2),
			e.Summary.FinalBalance.StringFixed(2),
			e.Summary.FinalInflationAdjustedBalance.StringFixed(2),
			e.Summary.ROI.StringFixed(6),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
