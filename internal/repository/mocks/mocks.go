package mocks

import (
	"context"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/stretchr/testify/mock"
)

// ProfileRepository is a mock for repository.ProfileRepository.
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Get(ctx context.Context, owner string) (*domain.FinancialProfile, error) {
	args := m.Called(ctx, owner)
	if p, ok := args.Get(0).(*domain.FinancialProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProfileRepository) Save(ctx context.Context, profile *domain.FinancialProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *ProfileRepository) ListOwners(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if owners, ok := args.Get(0).([]string); ok {
		return owners, args.Error(1)
	}
	return nil, args.Error(1)
}

// ScenarioRepository is a mock for repository.ScenarioRepository.
type ScenarioRepository struct {
	mock.Mock
}

func (m *ScenarioRepository) Get(ctx context.Context, owner, id string) (*domain.Scenario, error) {
	args := m.Called(ctx, owner, id)
	if s, ok := args.Get(0).(*domain.Scenario); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScenarioRepository) Save(ctx context.Context, scenario *domain.Scenario) error {
	args := m.Called(ctx, scenario)
	return args.Error(0)
}

func (m *ScenarioRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Scenario, error) {
	args := m.Called(ctx, owner)
	if list, ok := args.Get(0).([]domain.Scenario); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScenarioRepository) Delete(ctx context.Context, owner, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

// ProjectionRepository is a mock for repository.ProjectionRepository.
type ProjectionRepository struct {
	mock.Mock
}

func (m *ProjectionRepository) Get(ctx context.Context, owner, id string) (*domain.ProjectionResult, error) {
	args := m.Called(ctx, owner, id)
	if p, ok := args.Get(0).(*domain.ProjectionResult); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectionRepository) Save(ctx context.Context, projection *domain.ProjectionResult) error {
	args := m.Called(ctx, projection)
	return args.Error(0)
}

func (m *ProjectionRepository) ListByOwner(ctx context.Context, owner string) ([]domain.ProjectionResult, error) {
	args := m.Called(ctx, owner)
	if list, ok := args.Get(0).([]domain.ProjectionResult); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// IncomeRepository is a mock for repository.IncomeRepository.
type IncomeRepository struct {
	mock.Mock
}

func (m *IncomeRepository) ListByOwner(ctx context.Context, owner string) ([]domain.IncomeEntry, error) {
	args := m.Called(ctx, owner)
	if list, ok := args.Get(0).([]domain.IncomeEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IncomeRepository) Save(ctx context.Context, entry *domain.IncomeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *IncomeRepository) ReplaceByOwner(ctx context.Context, owner string, entries []domain.IncomeEntry) error {
	args := m.Called(ctx, owner, entries)
	return args.Error(0)
}

// LivingPlanRepository is a mock for repository.LivingPlanRepository.
type LivingPlanRepository struct {
	mock.Mock
}

func (m *LivingPlanRepository) Get(ctx context.Context, owner string) (*domain.LivingPlan, error) {
	args := m.Called(ctx, owner)
	if p, ok := args.Get(0).(*domain.LivingPlan); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LivingPlanRepository) Save(ctx context.Context, plan *domain.LivingPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}
