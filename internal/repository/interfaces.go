package repository

import (
	"context"

	"github.com/rpgo/networth-planner/internal/domain"
)

// ProfileRepository manages financial profile persistence. One profile per owner.
type ProfileRepository interface {
	Get(ctx context.Context, owner string) (*domain.FinancialProfile, error)
	Save(ctx context.Context, profile *domain.FinancialProfile) error
	ListOwners(ctx context.Context) ([]string, error)
}

// ScenarioRepository manages scenario persistence
type ScenarioRepository interface {
	Get(ctx context.Context, owner, id string) (*domain.Scenario, error)
	Save(ctx context.Context, scenario *domain.Scenario) error
	ListByOwner(ctx context.Context, owner string) ([]domain.Scenario, error)
	Delete(ctx context.Context, owner, id string) error
}

// ProjectionRepository manages stored projections and their yearly records
type ProjectionRepository interface {
	Get(ctx context.Context, owner, id string) (*domain.ProjectionResult, error)
	Save(ctx context.Context, projection *domain.ProjectionResult) error
	ListByOwner(ctx context.Context, owner string) ([]domain.ProjectionResult, error)
}

// IncomeRepository manages the per-year income timeline
type IncomeRepository interface {
	ListByOwner(ctx context.Context, owner string) ([]domain.IncomeEntry, error)
	Save(ctx context.Context, entry *domain.IncomeEntry) error
	ReplaceByOwner(ctx context.Context, owner string, entries []domain.IncomeEntry) error
}

// LivingPlanRepository manages location history and spending habits. One plan per owner.
type LivingPlanRepository interface {
	Get(ctx context.Context, owner string) (*domain.LivingPlan, error)
	Save(ctx context.Context, plan *domain.LivingPlan) error
}
