package api

import (
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/planner"
)

// cents is the precision of every monetary figure in responses.
const cents = 2

type projectionBody struct {
	Scenario            *domain.Scenario `json:"scenario,omitempty"`
	Preset              string           `json:"preset,omitempty"`
	StartingPrincipal   decimal.Decimal  `json:"starting_principal"`
	MonthlyContribution decimal.Decimal  `json:"monthly_contribution"`
	Years               int              `json:"years"`
}

func (b projectionBody) request() domain.ProjectionRequest {
	return domain.ProjectionRequest{
		StartingPrincipal:   b.StartingPrincipal,
		MonthlyContribution: b.MonthlyContribution,
		Years:               b.Years,
	}
}

type comparisonBody struct {
	Scenarios           []domain.Scenario `json:"scenarios"`
	Presets             []string          `json:"presets"`
	StartingPrincipal   decimal.Decimal   `json:"starting_principal"`
	MonthlyContribution decimal.Decimal   `json:"monthly_contribution"`
	Years               int               `json:"years"`
	Simulations         int               `json:"simulations,omitempty"`
	Seed                int64             `json:"seed,omitempty"`
}

type storedComparisonBody struct {
	ScenarioIDs []string `json:"scenario_ids"`
	Years       int      `json:"years"`
	Simulations int      `json:"simulations,omitempty"`
	Seed        int64    `json:"seed,omitempty"`
}

type taxBody struct {
	Income decimal.Decimal `json:"income"`
	State  string          `json:"state"`
}

type timelineBody struct {
	Incomes   []domain.IncomeEntry      `json:"incomes"`
	Locations []domain.LocationPeriod   `json:"locations"`
	Spending  domain.SpendingPreference `json:"spending"`
}

type createProjectionBody struct {
	ScenarioID string `json:"scenario_id"`
	Years      int    `json:"years"`
}

// monteCarlo returns the attachment config for a request, nil when none
// was asked for.
func (s *Server) monteCarlo(simulations int, seed int64) (*calculation.MonteCarloConfig, error) {
	if simulations <= 0 {
		return nil, nil
	}
	if simulations > s.limits.MaxSimulations {
		return nil, domain.NewInvalidInputError("simulations", "%d exceeds the maximum of %d", simulations, s.limits.MaxSimulations)
	}
	return &calculation.MonteCarloConfig{NumSimulations: simulations, Seed: seed, RecentYears: s.limits.RecentYears}, nil
}

func presetScenario(name string) (domain.Scenario, error) {
	c, err := domain.ParseCategory(name)
	if err != nil {
		return domain.Scenario{}, err
	}
	s, ok := c.Preset()
	if !ok {
		return domain.Scenario{}, domain.NewInvalidInputError("preset", "category %q has no preset", c)
	}
	return s, nil
}

func (s *Server) handlePresets(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, domain.PresetScenarios())
}

func (s *Server) handleCalculateProjection(ctx *fasthttp.RequestCtx) {
	var body projectionBody
	if !decode(ctx, &body) {
		return
	}

	var scenario domain.Scenario
	switch {
	case body.Scenario != nil:
		scenario = *body.Scenario
	case body.Preset != "":
		p, err := presetScenario(body.Preset)
		if err != nil {
			s.fail(ctx, err)
			return
		}
		scenario = p
	default:
		writeError(ctx, fasthttp.StatusBadRequest, "either scenario or preset is required", "scenario")
		return
	}

	records, summary, err := s.projector.Project(scenario, body.request().ForScenario(scenario.ID))
	if err != nil {
		s.fail(ctx, err)
		return
	}
	result := domain.ScenarioResult{Scenario: scenario, Records: records, Summary: summary}
	writeJSON(ctx, fasthttp.StatusOK, result.Round(cents))
}

func (s *Server) handleCalculateComparison(ctx *fasthttp.RequestCtx) {
	var body comparisonBody
	if !decode(ctx, &body) {
		return
	}

	scenarios := append([]domain.Scenario(nil), body.Scenarios...)
	for _, name := range body.Presets {
		p, err := presetScenario(name)
		if err != nil {
			s.fail(ctx, err)
			return
		}
		scenarios = append(scenarios, p)
	}
	if len(scenarios) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "at least one scenario or preset is required", "scenarios")
		return
	}

	mc, err := s.monteCarlo(body.Simulations, body.Seed)
	if err != nil {
		s.fail(ctx, err)
		return
	}

	template := domain.ProjectionRequest{
		StartingPrincipal:   body.StartingPrincipal,
		MonthlyContribution: body.MonthlyContribution,
		Years:               body.Years,
	}
	results, err := calculation.Compare(s.requestContext(ctx), s.projector, scenarios, template)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	cmp := calculation.AlignComparison(template, scenarios, results)
	if mc != nil {
		if err := s.svc.AttachMonteCarlo(s.requestContext(ctx), cmp, *mc); err != nil {
			s.fail(ctx, err)
			return
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, cmp.Round(cents))
}

func (s *Server) handleGetProfile(ctx *fasthttp.RequestCtx, owner string) {
	p, err := s.svc.GetProfile(s.requestContext(ctx), owner)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, p)
}

func (s *Server) handlePutProfile(ctx *fasthttp.RequestCtx, owner string) {
	var body domain.FinancialProfile
	if !decode(ctx, &body) {
		return
	}
	body.Owner = owner
	p, err := s.svc.SaveProfile(s.requestContext(ctx), body)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, p)
}

func (s *Server) handleListIncome(ctx *fasthttp.RequestCtx, owner string) {
	entries, err := s.svc.IncomeTimeline(s.requestContext(ctx), owner)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, nonNil(entries))
}

func (s *Server) handleAddIncome(ctx *fasthttp.RequestCtx, owner string) {
	var body domain.IncomeEntry
	if !decode(ctx, &body) {
		return
	}
	body.Owner = owner
	entry, err := s.svc.AddIncomeEntry(s.requestContext(ctx), body)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, entry)
}

func (s *Server) handleIncomeTimeline(ctx *fasthttp.RequestCtx, owner string) {
	var body timelineBody
	if !decode(ctx, &body) {
		return
	}
	plan := domain.LivingPlan{Locations: body.Locations, Spending: body.Spending}
	entries, err := s.svc.GenerateIncomeTimeline(s.requestContext(ctx), owner, body.Incomes, plan)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, entries)
}

func (s *Server) handleGetLivingPlan(ctx *fasthttp.RequestCtx, owner string) {
	plan, err := s.svc.LivingPlan(s.requestContext(ctx), owner)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, plan)
}

func (s *Server) handleCalculateTax(ctx *fasthttp.RequestCtx) {
	var body taxBody
	if !decode(ctx, &body) {
		return
	}
	b, err := s.svc.EstimateTax(body.Income, body.State)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, b)
}

func (s *Server) handleListScenarios(ctx *fasthttp.RequestCtx, owner string) {
	list, err := s.svc.ListScenarios(s.requestContext(ctx), owner)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, nonNil(list))
}

func (s *Server) handleSaveScenario(ctx *fasthttp.RequestCtx, owner string) {
	var body domain.Scenario
	if !decode(ctx, &body) {
		return
	}
	sc, err := s.svc.SaveScenario(s.requestContext(ctx), owner, body)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, sc)
}

func (s *Server) handleDefaultScenarios(ctx *fasthttp.RequestCtx, owner string) {
	created, err := s.svc.CreateDefaultScenarios(s.requestContext(ctx), owner)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, nonNil(created))
}

func (s *Server) handleDeleteScenario(ctx *fasthttp.RequestCtx, owner, id string) {
	if err := s.svc.DeleteScenario(s.requestContext(ctx), owner, id); err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

func (s *Server) handleListProjections(ctx *fasthttp.RequestCtx, owner string) {
	list, err := s.svc.ListProjections(s.requestContext(ctx), owner)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	out := make([]domain.ProjectionResult, len(list))
	for i, p := range list {
		out[i] = p.Round(cents)
	}
	writeJSON(ctx, fasthttp.StatusOK, out)
}

func (s *Server) handleCreateProjection(ctx *fasthttp.RequestCtx, owner string) {
	var body createProjectionBody
	if !decode(ctx, &body) {
		return
	}
	p, err := s.svc.CalculateProjection(s.requestContext(ctx), owner, body.ScenarioID, body.Years)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, p.Round(cents))
}

func (s *Server) handleGetProjection(ctx *fasthttp.RequestCtx, owner, id string) {
	p, err := s.svc.GetProjection(s.requestContext(ctx), owner, id)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, p.Round(cents))
}

func (s *Server) handleCompareStored(ctx *fasthttp.RequestCtx, owner string) {
	var body storedComparisonBody
	if !decode(ctx, &body) {
		return
	}
	mc, err := s.monteCarlo(body.Simulations, body.Seed)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	cmp, err := s.svc.CompareScenarios(s.requestContext(ctx), owner, body.ScenarioIDs, body.Years, planner.CompareOptions{
		MonteCarlo: mc,
	})
	if err != nil {
		s.fail(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, cmp.Round(cents))
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
