package output_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	stddec "github.com/shopspring/decimal"

	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/output"
)

func TestFormatters(t *testing.T) {
	if got := output.FormatCurrency(stddec.NewFromFloat(123.45)); got != "$123.45" {
		t.Fatalf("FormatCurrency = %q", got)
	}
	if got := output.FormatPercentage(stddec.NewFromFloat(12.34)); got != "12.34%" {
		t.Fatalf("FormatPercentage = %q", got)
	}
}

func TestGenerateReport_JSON_CSV(t *testing.T) {
	sc := &domain.ScenarioComparison{
		Results: []domain.ComparisonEntry{{ScenarioResult: domain.ScenarioResult{Scenario: domain.Scenario{ID: "x", Name: "Baseline"}}}},
	}
	dir := t.TempDir()

	files, err := output.GenerateReport(sc, "json", dir)
	if err != nil {
		t.Fatalf("GenerateReport json error: %v", err)
	}
	if len(files) != 1 || !strings.HasSuffix(files[0], ".json") {
		t.Fatalf("unexpected files: %v", files)
	}
	files, err = output.GenerateReport(sc, "csv-summary", dir)
	if err != nil {
		t.Fatalf("GenerateReport csv error: %v", err)
	}
	if !strings.HasSuffix(files[0], ".csv") {
		t.Fatalf("unexpected files: %v", files)
	}
	if _, err := os.Stat(files[0]); err != nil {
		t.Fatalf("report not written: %v", err)
	}
}

func TestGenerateReport_All(t *testing.T) {
	files, err := output.GenerateReport(&domain.ScenarioComparison{}, "all", t.TempDir())
	if err != nil {
		t.Fatalf("GenerateReport all error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %v", files)
	}
}

func TestMonteCarloReports(t *testing.T) {
	data, err := calculation.LoadHistoricalData()
	if err != nil {
		t.Fatalf("load data: %v", err)
	}
	sim := calculation.NewMonteCarloSimulator(calculation.NewEngine(), data)
	s, _ := domain.CategoryModerate.Preset()
	req := domain.ProjectionRequest{StartingPrincipal: stddec.NewFromInt(10000), MonthlyContribution: stddec.NewFromInt(200), Years: 10}
	result, err := sim.Run(context.Background(), s, req, calculation.MonteCarloConfig{NumSimulations: 25, Seed: 3})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	dir := t.TempDir()
	report := &output.MonteCarloCSVReport{Result: result}
	summaryPath := filepath.Join(dir, "summary.csv")
	if err := report.GenerateSummaryCSV(summaryPath); err != nil {
		t.Fatalf("summary csv: %v", err)
	}
	b, _ := os.ReadFile(summaryPath)
	if !strings.Contains(string(b), "Number of Simulations,25") {
		t.Fatalf("summary csv missing simulation count: %s", b)
	}

	outcomesPath := filepath.Join(dir, "outcomes.csv")
	if err := report.GenerateOutcomesCSV(outcomesPath); err != nil {
		t.Fatalf("outcomes csv: %v", err)
	}
	b, _ = os.ReadFile(outcomesPath)
	if got := len(strings.Split(strings.TrimSpace(string(b)), "\n")); got != 26 {
		t.Fatalf("expected header + 25 rows, got %d", got)
	}

	htmlPath := filepath.Join(dir, "mc", "report.html")
	if err := (&output.MonteCarloHTMLReport{Result: result}).GenerateHTMLReport(htmlPath); err != nil {
		t.Fatalf("html: %v", err)
	}
	b, _ = os.ReadFile(htmlPath)
	if !strings.Contains(string(b), "Monte Carlo Analysis: Moderate Growth") {
		t.Fatalf("html report missing heading")
	}

	if text := string(output.FormatMonteCarloText(result)); !strings.Contains(text, "Simulations:          25") {
		t.Fatalf("text report missing simulation count: %s", text)
	}
}
