package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// buildTestComparison compares two small scenarios, deliberately listed out of name order.
func buildTestComparison() *domain.ScenarioComparison {
	template := domain.ProjectionRequest{
		StartingPrincipal:   decimal.NewFromInt(1000),
		MonthlyContribution: decimal.NewFromInt(100),
		Years:               2,
	}
	scenarios := []domain.Scenario{
		{ID: "b", Name: "B Plan", Category: domain.CategoryAggressive, AnnualReturnRate: decimal.RequireFromString("0.05"), InflationRate: decimal.RequireFromString("0.02"), RiskTolerance: domain.RiskHigh},
		{ID: "a", Name: "A Plan", Category: domain.CategoryConservative, AnnualReturnRate: decimal.RequireFromString("0.03"), InflationRate: decimal.RequireFromString("0.02"), RiskTolerance: domain.RiskLow},
	}
	results, err := calculation.Compare(context.Background(), calculation.NewEngine(), scenarios, template)
	if err != nil {
		panic(err)
	}
	return calculation.AlignComparison(template, scenarios, results)
}

func TestConsoleLiteFormatter(t *testing.T) {
	f := ConsoleFormatter{}
	out, err := f.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "Recommended: B Plan") {
		t.Fatalf("expected recommendation for B Plan, got: %s", content)
	}
	if strings.Index(content, "A Plan:") > strings.Index(content, "B Plan:") {
		t.Fatalf("expected scenarios sorted by name, got: %s", content)
	}
}

func TestConsoleVerboseFormatter(t *testing.T) {
	f := ConsoleVerboseFormatter{}
	out, err := f.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "DETAILED NET WORTH PROJECTION ANALYSIS") {
		t.Fatalf("expected verbose heading, got: %s", truncate(content, 120))
	}
	for _, want := range []string{"SCENARIO 1: B Plan", "$3,562.50", "$2,205.88", "RECOMMENDATION"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in verbose output", want)
		}
	}
	if strings.Contains(content, "MONTE CARLO") {
		t.Fatalf("monte carlo section should only render when present")
	}
}

func TestConsoleVerboseRendersMonteCarlo(t *testing.T) {
	cmp := buildTestComparison()
	cmp.MonteCarlo = []domain.MonteCarloOverview{{
		ScenarioName:       "B Plan",
		NumSimulations:     100,
		SuccessRate:        decimal.RequireFromString("0.875"),
		MedianFinalBalance: decimal.NewFromInt(3500),
	}}
	out, err := ConsoleVerboseFormatter{}.Format(cmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "87.50%") {
		t.Fatalf("expected success rate in monte carlo section")
	}
}

func TestCSVSummarizerDeterministicOrder(t *testing.T) {
	f := CSVSummarizer{}
	out, err := f.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header+2 rows), got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "A Plan,") || !strings.HasPrefix(lines[2], "B Plan,") {
		t.Fatalf("rows not sorted deterministically: %v", lines)
	}
	if !strings.Contains(lines[2], ",2400.00,162.50,3562.50,") {
		t.Fatalf("unexpected summary row: %s", lines[2])
	}
}

func TestCSVDetailedExporter(t *testing.T) {
	out, err := CSVDetailedExporter{}.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 rows, got %d", len(lines))
	}
	if lines[3] != "B Plan,1,1000.00,1200.00,50.00,2250.00,2205.88" {
		t.Fatalf("unexpected row: %s", lines[3])
	}
}

func TestJSONFormatterRoundsToCents(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded struct {
		Recommendation string `json:"recommendation"`
		Results        []struct {
			Records []struct {
				InflationAdjustedBalance decimal.Decimal `json:"inflation_adjusted_balance"`
			} `json:"records"`
		} `json:"results"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Recommendation != "b" {
		t.Fatalf("recommendation = %q, want b", decoded.Recommendation)
	}
	got := decoded.Results[0].Records[0].InflationAdjustedBalance
	if !got.Equal(decimal.RequireFromString("2205.88")) {
		t.Fatalf("expected value rounded to cents, got %s", got)
	}
}

// Golden snapshot tests (prefix-based) ensure key headers remain stable.
func TestGoldenSnapshots(t *testing.T) {
	cases := []struct {
		name      string
		golden    string
		formatter Formatter
	}{
		{"console_verbose", "console_verbose.golden", ConsoleVerboseFormatter{}},
		{"console_lite", "console_lite.golden", ConsoleFormatter{}},
		{"csv_summary", "csv_summary.golden", CSVSummarizer{}},
		{"csv_detailed", "csv_detailed.golden", CSVDetailedExporter{}},
		{"html", "html_prefix.golden", HTMLFormatter{}},
	}

	cmp := buildTestComparison()
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	for _, tc := range cases {
		out, err := tc.formatter.Format(cmp)
		if err != nil {
			t.Fatalf("%s: format error: %v", tc.name, err)
		}
		goldenPath := filepath.Join("testdata", tc.golden)
		if update {
			// only first line to keep golden small & stable
			line := firstLine(string(out)) + "\n"
			if err := os.WriteFile(goldenPath, []byte(line), 0644); err != nil {
				t.Fatalf("%s: update golden failed: %v", tc.name, err)
			}
		}
		data, err := os.ReadFile(goldenPath)
		if err != nil {
			t.Fatalf("%s: read golden: %v", tc.name, err)
		}
		if !strings.HasPrefix(string(out), strings.TrimSpace(string(data))) {
			t.Fatalf("%s: output does not match golden prefix %q", tc.name, strings.TrimSpace(string(data)))
		}
	}
}

func TestHTMLFormatterBasic(t *testing.T) {
	f := HTMLFormatter{}
	out, err := f.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("html format error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"Scenario Summary", "$3,562.50", `class="recommended"`, "Year by Year"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in HTML output", want)
		}
	}
}

func TestHTMLAssumptionsSectionPresent(t *testing.T) {
	cmp := buildTestComparison()
	cmp.Assumptions = nil
	out, err := HTMLFormatter{}.Format(cmp)
	if err != nil {
		t.Fatalf("html format error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "Key Assumptions") {
		t.Fatalf("expected Key Assumptions section in HTML output")
	}
	found := false
	for _, a := range DefaultAssumptions {
		if strings.Contains(content, a) {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected at least one default assumption to be rendered in HTML")
	}
}

func TestHTMLShowsMonteCarloSuccessRate(t *testing.T) {
	cmp := buildTestComparison()
	cmp.MonteCarlo = []domain.MonteCarloOverview{{ScenarioName: "B Plan", NumSimulations: 10, SuccessRate: decimal.RequireFromString("0.875")}}
	out, err := HTMLFormatter{}.Format(cmp)
	if err != nil {
		t.Fatalf("html format error: %v", err)
	}
	if !strings.Contains(string(out), "87.50%") {
		t.Fatalf("expected formatted Success Rate percentage in HTML")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func TestFormatterAliasResolution(t *testing.T) {
	f := GetFormatterByName("console-verbose")
	if f == nil {
		t.Fatalf("alias console-verbose did not resolve to a formatter")
	}
	if f.Name() != "console" {
		t.Fatalf("alias resolved to %q, want 'console'", f.Name())
	}
	if GetFormatterByName(" JSON ") == nil {
		t.Fatalf("format names should be case-insensitive")
	}
}

func TestUnknownFormatErrorIncludesSuggestions(t *testing.T) {
	_, err := GenerateReport(&domain.ScenarioComparison{}, "definitely-not-a-format", t.TempDir())
	if err == nil {
		t.Fatalf("expected error for unknown format")
	}
	msg := err.Error()
	if !strings.Contains(msg, "unsupported report format") || !strings.Contains(msg, "Try one of:") {
		t.Fatalf("error message missing suggestions: %s", msg)
	}
}
