package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rpgo/networth-planner/internal/config"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/output"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with a config path that does not exist, so
// every command starts from defaults unless args say otherwise.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if !containsFlag(args, "--config") {
		args = append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func containsFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag || strings.HasPrefix(a, flag+"=") {
			return true
		}
	}
	return false
}

var worked = []string{"--principal", "1000", "--monthly", "100", "--years", "2"}

func TestPresetsCommand(t *testing.T) {
	out, err := run(t, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "Conservative Growth")
	assert.Contains(t, out, "Moderate Growth")
	assert.Contains(t, out, "10.00%")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}

func TestProjectCommandText(t *testing.T) {
	args := append([]string{"project", "--return", "0.05", "--inflation", "0.02"}, worked...)
	out, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Custom (custom)")
	assert.Contains(t, out, "$2,250.00")
	assert.Contains(t, out, "$2,205.88")
	assert.Contains(t, out, "Final balance:       $3,562.50")
	assert.Contains(t, out, "Total gains:         $162.50")
}

func TestProjectCommandJSON(t *testing.T) {
	args := append([]string{"project", "--return", "0.05", "--inflation", "0.02", "--format", "json"}, worked...)
	out, err := run(t, args...)
	require.NoError(t, err)

	var result domain.ScenarioResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Records, 2)
	assert.True(t, result.Summary.FinalBalance.Equal(decimal.RequireFromString("3562.5")))
	assert.True(t, result.Summary.FinalInflationAdjustedBalance.Equal(decimal.RequireFromString("3424.16")))
	assert.True(t, result.Summary.TotalContributions.Equal(decimal.NewFromInt(2400)))
}

func TestProjectCommandErrors(t *testing.T) {
	_, err := run(t, "project", "--preset", "custom")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = run(t, "project", "--years", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = run(t, "project", "--scenario", "Nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = run(t, "project", "--format", "yaml")
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}

func TestCompareCommand(t *testing.T) {
	args := append([]string{"compare", "--preset", "conservative,aggressive"}, worked...)
	out, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Recommended: Aggressive Growth")

	_, err = run(t, "compare", "--preset", "moderate,moderate")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompareCommandWritesReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	args := append([]string{"compare", "--format", "csv", "--output-dir", dir}, worked...)
	out, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".csv"))
}

func TestCompareCommandMonteCarlo(t *testing.T) {
	args := append([]string{"compare", "--preset", "conservative,moderate", "--format", "json", "--monte-carlo", "--simulations", "20"}, worked...)
	out, err := run(t, args...)
	require.NoError(t, err)

	var cmp domain.ScenarioComparison
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	require.Len(t, cmp.MonteCarlo, 2)
	assert.Equal(t, 20, cmp.MonteCarlo[0].NumSimulations)
	assert.Equal(t, "preset-moderate", cmp.Recommendation)
}

func TestMonteCarloCommand(t *testing.T) {
	args := append([]string{"montecarlo", "--preset", "moderate", "-n", "25", "--seed", "7"}, worked...)
	out, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "MONTE CARLO: Moderate Growth")
	assert.Contains(t, out, "Simulations:          25")

	again, err := run(t, args...)
	require.NoError(t, err)
	assert.Equal(t, out, again, "same seed must give the same report")

	_, err = run(t, "montecarlo", "-n", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = run(t, "montecarlo", "-n", "5", "--format", "html")
	assert.Error(t, err)
}

func TestMonteCarloCommandCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mc.csv")
	args := append([]string{"montecarlo", "-n", "10", "--seed", "1", "--format", "outcomes-csv", "--output", path}, worked...)
	_, err := run(t, args...)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 11, strings.Count(string(data), "\n"))
}

func TestExampleConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	out, err := run(t, "example-config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Scenarios, 4)

	out, err = run(t, "project", "--config", path, "--scenario", "Index Fund Mix", "--years", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Index Fund Mix (custom)")
}

func TestSampleDataCommand(t *testing.T) {
	t.Setenv(config.EnvSQLitePath, filepath.Join(t.TempDir(), "data", "planner.db"))

	out, err := run(t, "sample-data", "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "income entries: 5")
	assert.Contains(t, out, "new scenarios:  3")
	assert.Contains(t, out, "Aggressive Growth")

	// presets already exist the second time round
	out, err = run(t, "sample-data", "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "new scenarios:  0")
}

func TestTaxCommand(t *testing.T) {
	out, err := run(t, "tax", "--income", "85000", "--state", "california")
	require.NoError(t, err)
	assert.Contains(t, out, "(California)")
	assert.Contains(t, out, "Federal tax:    $10,541.00")
	assert.Contains(t, out, "State tax:      $4,658.48")
	assert.Contains(t, out, "After tax:      $69,800.52")

	out, err = run(t, "tax", "--income", "85000", "--format", "json")
	require.NoError(t, err)
	var b domain.TaxBreakdown
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.True(t, b.StateTax.IsZero())
	assert.True(t, b.FederalTax.Equal(decimal.NewFromInt(10541)))

	_, err = run(t, "tax", "--income", "85000", "--state", "Atlantis")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
