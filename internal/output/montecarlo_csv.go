package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rpgo/networth-planner/internal/calculation"
)

// MonteCarloCSVReport generates CSV exports for Monte Carlo results
type MonteCarloCSVReport struct {
	Result *calculation.MonteCarloResult
}

// GenerateSummaryCSV creates a summary CSV with aggregate statistics
func (m *MonteCarloCSVReport) GenerateSummaryCSV(outputPath string) error {
	return m.writeFile(outputPath, m.WriteSummary)
}

// GenerateOutcomesCSV creates a CSV with one row per simulated path
func (m *MonteCarloCSVReport) GenerateOutcomesCSV(outputPath string) error {
	return m.writeFile(outputPath, m.WriteOutcomes)
}

func (m *MonteCarloCSVReport) writeFile(outputPath string, write func(io.Writer) error) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()
	return write(file)
}

// WriteSummary writes the aggregate statistics as Metric,Value,Description rows.
func (m *MonteCarloCSVReport) WriteSummary(out io.Writer) error {
	writer := csv.NewWriter(out)

	if err := writer.Write([]string{"Metric", "Value", "Description"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	r := m.Result
	summaryData := [][]string{
		{"Scenario", r.Scenario.Name, "Scenario the simulation is centred on"},
		{"Success Rate", FormatRate(r.SuccessRate), "Share of runs ending at or above principal plus contributions"},
		{"Median Final Balance", "$" + r.MedianFinalBalance.StringFixed(0), "Median nominal balance after the final year"},
		{"Median Final Real Balance", "$" + r.MedianFinalReal.StringFixed(0), "Median balance in year-0 dollars"},
		{"10th Percentile", "$" + r.PercentileRanges.P10.StringFixed(0), "10th percentile of final balance"},
		{"25th Percentile", "$" + r.PercentileRanges.P25.StringFixed(0), "25th percentile of final balance"},
		{"75th Percentile", "$" + r.PercentileRanges.P75.StringFixed(0), "75th percentile of final balance"},
		{"90th Percentile", "$" + r.PercentileRanges.P90.StringFixed(0), "90th percentile of final balance"},
		{"Number of Simulations", strconv.Itoa(r.NumSimulations), "Total number of simulations run"},
		{"Seed", strconv.FormatInt(r.Seed, 10), "Seed for reproducing the run"},
		{"Data Source", r.Method, "Source of yearly rates"},
	}
	for _, row := range summaryData {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteOutcomes writes one row per simulation.
func (m *MonteCarloCSVReport) WriteOutcomes(out io.Writer) error {
	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"Simulation", "FinalBalance", "FinalInflationAdjustedBalance", "TotalContributions", "MaxDrawdown", "Success"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, o := range m.Result.Outcomes {
		row := []string{
			intToString(i + 1),
			o.FinalBalance.StringFixed(2),
			o.FinalInflationAdjustedBalance.StringFixed(2),
			o.TotalContributions.StringFixed(2),
			o.MaxDrawdown.StringFixed(4),
			boolToString(o.Success),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
