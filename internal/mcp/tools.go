package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/output"
)

type tools struct {
	projector      calculation.Projector
	simulator      *calculation.MonteCarloSimulator
	maxSimulations int
	recentYears    int
	taxes          *calculation.TaxCalculator
	logger         *slog.Logger
}

// ScenarioInput names a preset or spells out custom rates.
type ScenarioInput struct {
	Preset           string  `json:"preset,omitempty" jsonschema:"conservative, moderate or aggressive; overrides the rates below"`
	Name             string  `json:"name,omitempty" jsonschema:"display name of a custom scenario"`
	AnnualReturnRate float64 `json:"annual_return_rate,omitempty" jsonschema:"expected yearly return as a fraction"`
	InflationRate    float64 `json:"inflation_rate,omitempty" jsonschema:"expected yearly inflation as a fraction"`
	RiskTolerance    string  `json:"risk_tolerance,omitempty" jsonschema:"low, medium or high"`
}

// PlanInput is the savings plan shared by every scenario.
type PlanInput struct {
	StartingPrincipal   float64 `json:"starting_principal" jsonschema:"balance at the start of year 1"`
	MonthlyContribution float64 `json:"monthly_contribution" jsonschema:"amount saved each month"`
	Years               int     `json:"years" jsonschema:"number of years to project"`
}

type ListPresetsInput struct{}

type ProjectInput struct {
	Preset              string  `json:"preset,omitempty" jsonschema:"conservative, moderate or aggressive; overrides the rates below"`
	Name                string  `json:"name,omitempty" jsonschema:"display name of a custom scenario"`
	AnnualReturnRate    float64 `json:"annual_return_rate,omitempty" jsonschema:"expected yearly return as a fraction"`
	InflationRate       float64 `json:"inflation_rate,omitempty" jsonschema:"expected yearly inflation as a fraction"`
	RiskTolerance       string  `json:"risk_tolerance,omitempty" jsonschema:"low, medium or high"`
	StartingPrincipal   float64 `json:"starting_principal" jsonschema:"balance at the start of year 1"`
	MonthlyContribution float64 `json:"monthly_contribution" jsonschema:"amount saved each month"`
	Years               int     `json:"years" jsonschema:"number of years to project"`
}

func (in ProjectInput) parts() (ScenarioInput, PlanInput) {
	return ScenarioInput{Preset: in.Preset, Name: in.Name, AnnualReturnRate: in.AnnualReturnRate, InflationRate: in.InflationRate, RiskTolerance: in.RiskTolerance},
		PlanInput{StartingPrincipal: in.StartingPrincipal, MonthlyContribution: in.MonthlyContribution, Years: in.Years}
}

type CompareInput struct {
	Scenarios           []ScenarioInput `json:"scenarios" jsonschema:"two or more scenarios to compare"`
	StartingPrincipal   float64         `json:"starting_principal" jsonschema:"balance at the start of year 1"`
	MonthlyContribution float64         `json:"monthly_contribution" jsonschema:"amount saved each month"`
	Years               int             `json:"years" jsonschema:"number of years to project"`
	Format              string          `json:"format,omitempty" jsonschema:"report format: console-lite (default), console, csv or json"`
}

type SimulateInput struct {
	Preset              string  `json:"preset,omitempty" jsonschema:"conservative, moderate or aggressive; overrides the rates below"`
	AnnualReturnRate    float64 `json:"annual_return_rate,omitempty" jsonschema:"expected yearly return as a fraction"`
	InflationRate       float64 `json:"inflation_rate,omitempty" jsonschema:"expected yearly inflation as a fraction"`
	StartingPrincipal   float64 `json:"starting_principal" jsonschema:"balance at the start of year 1"`
	MonthlyContribution float64 `json:"monthly_contribution" jsonschema:"amount saved each month"`
	Years               int     `json:"years" jsonschema:"number of years to project"`
	Simulations         int     `json:"simulations,omitempty" jsonschema:"number of simulated paths (default 1000)"`
	Seed                int64   `json:"seed,omitempty" jsonschema:"random seed for reproducible runs"`
	Statistical         bool    `json:"statistical,omitempty" jsonschema:"draw normally distributed rates instead of resampling history"`
}

type EstimateTaxInput struct {
	Income float64 `json:"income" jsonschema:"gross yearly income"`
	State  string  `json:"state,omitempty" jsonschema:"US state of residence; empty for federal tax only"`
}

func (in SimulateInput) parts() (ScenarioInput, PlanInput) {
	return ScenarioInput{Preset: in.Preset, Name: "Simulated plan", AnnualReturnRate: in.AnnualReturnRate, InflationRate: in.InflationRate},
		PlanInput{StartingPrincipal: in.StartingPrincipal, MonthlyContribution: in.MonthlyContribution, Years: in.Years}
}

func (t *tools) register(server *sdkmcp.Server) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_presets",
		Description: "List the built-in scenarios with their return, inflation and risk assumptions",
	}, t.listPresets)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_networth",
		Description: "Project a savings plan year by year under one scenario",
	}, t.project)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "compare_scenarios",
		Description: "Run one savings plan under several scenarios and recommend the best in today's money",
	}, t.compare)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "simulate_networth",
		Description: "Monte Carlo simulation of a savings plan using historical S&P 500 returns and CPI inflation",
	}, t.simulate)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "estimate_tax",
		Description: "Estimate 2024 federal and state income tax for a single filer",
	}, t.estimateTax)
}

func (t *tools) listPresets(ctx context.Context, req *sdkmcp.CallToolRequest, in ListPresetsInput) (*sdkmcp.CallToolResult, any, error) {
	var b strings.Builder
	for _, s := range domain.PresetScenarios() {
		fmt.Fprintf(&b, "%s (%s): return %s, inflation %s, risk %s\n", s.Name, s.Category,
			output.FormatRate(s.AnnualReturnRate), output.FormatRate(s.InflationRate), s.RiskTolerance)
	}
	return text(b.String()), nil, nil
}

func (t *tools) project(ctx context.Context, req *sdkmcp.CallToolRequest, in ProjectInput) (*sdkmcp.CallToolResult, any, error) {
	si, pi := in.parts()
	scenario, err := si.scenario()
	if err != nil {
		return t.toolError(err), nil, nil
	}
	plan, err := pi.request()
	if err != nil {
		return t.toolError(err), nil, nil
	}

	records, summary, err := t.projector.Project(scenario, plan)
	if err != nil {
		return t.toolError(err), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s return, %s inflation\n", scenario.Label(), output.FormatRate(scenario.AnnualReturnRate), output.FormatRate(scenario.InflationRate))
	fmt.Fprintf(&b, "%-5s %16s %14s %14s %16s %16s\n", "Year", "Beginning", "Contributions", "Gains", "Ending", "Real")
	for _, y := range records {
		fmt.Fprintf(&b, "%-5d %16s %14s %14s %16s %16s\n", y.Year,
			output.FormatCurrency(y.BeginningBalance), output.FormatCurrency(y.Contributions), output.FormatCurrency(y.Gains),
			output.FormatCurrency(y.EndingBalance), output.FormatCurrency(y.InflationAdjustedBalance))
	}
	fmt.Fprintf(&b, "Final %s (%s in today's money), contributions %s, gains %s, ROI %s\n",
		output.FormatCurrency(summary.FinalBalance), output.FormatCurrency(summary.FinalInflationAdjustedBalance),
		output.FormatCurrency(summary.TotalContributions), output.FormatCurrency(summary.TotalGains), output.FormatRate(summary.ROI))
	return text(b.String()), nil, nil
}

func (t *tools) compare(ctx context.Context, req *sdkmcp.CallToolRequest, in CompareInput) (*sdkmcp.CallToolResult, any, error) {
	if len(in.Scenarios) < 2 {
		return t.toolError(domain.NewInvalidInputError("scenarios", "at least two scenarios are required")), nil, nil
	}
	scenarios := make([]domain.Scenario, 0, len(in.Scenarios))
	for _, si := range in.Scenarios {
		s, err := si.scenario()
		if err != nil {
			return t.toolError(err), nil, nil
		}
		scenarios = append(scenarios, s)
	}
	plan, err := PlanInput{StartingPrincipal: in.StartingPrincipal, MonthlyContribution: in.MonthlyContribution, Years: in.Years}.request()
	if err != nil {
		return t.toolError(err), nil, nil
	}

	results, err := calculation.Compare(ctx, t.projector, scenarios, plan)
	if err != nil {
		return t.toolError(err), nil, nil
	}
	cmp := calculation.AlignComparison(plan, scenarios, results)

	format := in.Format
	if format == "" {
		format = "console-lite"
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		return t.toolError(fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)), nil, nil
	}
	out, err := f.Format(cmp)
	if err != nil {
		return nil, nil, err
	}
	return text(string(out)), nil, nil
}

func (t *tools) simulate(ctx context.Context, req *sdkmcp.CallToolRequest, in SimulateInput) (*sdkmcp.CallToolResult, any, error) {
	if t.simulator == nil {
		return t.toolError(errors.New("monte carlo simulation is not configured")), nil, nil
	}
	si, pi := in.parts()
	scenario, err := si.scenario()
	if err != nil {
		return t.toolError(err), nil, nil
	}
	plan, err := pi.request()
	if err != nil {
		return t.toolError(err), nil, nil
	}
	sims := in.Simulations
	if sims == 0 {
		sims = calculation.DefaultSimulations
	}
	if sims > t.maxSimulations {
		return t.toolError(domain.NewInvalidInputError("simulations", "%d exceeds the maximum of %d", sims, t.maxSimulations)), nil, nil
	}

	res, err := t.simulator.Run(ctx, scenario, plan, calculation.MonteCarloConfig{
		NumSimulations: sims,
		Seed:           in.Seed,
		RecentYears:    t.recentYears,
		Statistical:    in.Statistical,
	})
	if err != nil {
		return t.toolError(err), nil, nil
	}
	return text(string(output.FormatMonteCarloText(res))), nil, nil
}

func (t *tools) estimateTax(ctx context.Context, req *sdkmcp.CallToolRequest, in EstimateTaxInput) (*sdkmcp.CallToolResult, any, error) {
	income, err := domain.AmountFromFloat("income", in.Income)
	if err != nil {
		return t.toolError(err), nil, nil
	}
	b, err := t.taxes.Estimate(income, in.State)
	if err != nil {
		return t.toolError(err), nil, nil
	}
	state := b.State
	if state == "" {
		state = "no state"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Income %s (%s)\n", output.FormatCurrency(b.Income), state)
	fmt.Fprintf(&sb, "Federal tax %s\n", output.FormatCurrency(b.FederalTax))
	fmt.Fprintf(&sb, "State tax %s\n", output.FormatCurrency(b.StateTax))
	fmt.Fprintf(&sb, "Total tax %s, effective rate %s\n", output.FormatCurrency(b.TotalTax), output.FormatRate(b.EffectiveRate()))
	fmt.Fprintf(&sb, "After tax %s\n", output.FormatCurrency(b.AfterTaxIncome))
	return text(sb.String()), nil, nil
}

func (si ScenarioInput) scenario() (domain.Scenario, error) {
	if si.Preset != "" {
		c, err := domain.ParseCategory(si.Preset)
		if err != nil {
			return domain.Scenario{}, err
		}
		s, ok := c.Preset()
		if !ok {
			return domain.Scenario{}, domain.NewInvalidInputError("preset", "category %q has no preset", c)
		}
		return s, nil
	}

	ret, err := domain.RateFromFloat("annual_return_rate", si.AnnualReturnRate)
	if err != nil {
		return domain.Scenario{}, err
	}
	infl, err := domain.RateFromFloat("inflation_rate", si.InflationRate)
	if err != nil {
		return domain.Scenario{}, err
	}
	name := si.Name
	if name == "" {
		name = fmt.Sprintf("Custom %s/%s", output.FormatRate(ret), output.FormatRate(infl))
	}
	risk := domain.RiskLevel(strings.ToLower(si.RiskTolerance))
	if risk == "" {
		risk = domain.RiskMedium
	}
	if !risk.Valid() {
		return domain.Scenario{}, domain.NewInvalidInputError("risk_tolerance", "unknown risk level %q", si.RiskTolerance)
	}
	return domain.NewCustomScenario(name, ret, infl, risk), nil
}

func (p PlanInput) request() (domain.ProjectionRequest, error) {
	principal, err := domain.AmountFromFloat("starting_principal", p.StartingPrincipal)
	if err != nil {
		return domain.ProjectionRequest{}, err
	}
	monthly, err := domain.AmountFromFloat("monthly_contribution", p.MonthlyContribution)
	if err != nil {
		return domain.ProjectionRequest{}, err
	}
	return domain.ProjectionRequest{StartingPrincipal: principal, MonthlyContribution: monthly, Years: p.Years}, nil
}

func text(s string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: s}}}
}

// toolError reports a failure as an error tool result.
func (t *tools) toolError(err error) *sdkmcp.CallToolResult {
	t.logger.Debug("tool call rejected", "error", err)
	res := text(err.Error())
	res.IsError = true
	return res
}
