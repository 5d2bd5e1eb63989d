package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/networth-planner/internal/domain"
)

// CSVDetailedExporter provides the annual projection detail per scenario/year.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Year", "BeginningBalance", "Contributions", "Gains", "EndingBalance", "InflationAdjustedBalance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, e := range sortedByName(results) {
		for _, yr := range e.Records {
			row := []string{
				e.Scenario.Name,
				intToString(yr.Year),
				yr.BeginningBalance.StringFixed(2),
				yr.Contributions.StringFixed(2),
				yr.Gains.StringFixed(2),
				yr.EndingBalance.StringFixed(2),
				yr.InflationAdjustedBalance.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
