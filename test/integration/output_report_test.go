package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/networth-planner/internal/config"
	"github.com/rpgo/networth-planner/internal/output"
	"github.com/shopspring/decimal"
)

func TestFormatters(t *testing.T) {
	if got := output.FormatCurrency(decimal.NewFromFloat(123.45)); got != "$123.45" {
		t.Fatalf("FormatCurrency got %s", got)
	}
	// FormatPercentage expects percentage units, FormatRate a fraction
	if got := output.FormatPercentage(decimal.NewFromFloat(12.34)); got != "12.34%" {
		t.Fatalf("FormatPercentage got %s", got)
	}
	if got := output.FormatRate(decimal.NewFromFloat(0.035)); got != "3.50%" {
		t.Fatalf("FormatRate got %s", got)
	}
}

func TestSaveConfiguration_WritesFile(t *testing.T) {
	parser := config.NewInputParser()
	out := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.SaveConfiguration(parser.CreateExampleConfiguration(), out); err != nil {
		t.Fatalf("SaveConfiguration error: %v", err)
	}
	cfg, err := parser.LoadFromFile(out)
	if err != nil {
		t.Fatalf("reloading saved configuration: %v", err)
	}
	if len(cfg.Scenarios) != 4 {
		t.Fatalf("expected 4 scenarios after reload, got %d", len(cfg.Scenarios))
	}
}

func TestReportGenerator_AllFormats(t *testing.T) {
	_, cmp := loadComparison(t)

	for _, format := range []string{"console", "console-lite", "csv", "detailed-csv", "html", "json"} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			files, err := output.GenerateReport(cmp, format, dir)
			if err != nil {
				t.Fatalf("GenerateReport %s error: %v", format, err)
			}
			if len(files) != 1 {
				t.Fatalf("expected one file, got %v", files)
			}
			data, err := os.ReadFile(files[0])
			if err != nil {
				t.Fatalf("reading report: %v", err)
			}
			if !strings.Contains(string(data), "Balanced Index") {
				t.Fatalf("%s report does not mention every scenario", format)
			}
		})
	}

	if _, err := output.GenerateReport(cmp, "pdf", t.TempDir()); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}
