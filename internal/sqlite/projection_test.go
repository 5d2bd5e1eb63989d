package sqlite

import (
	"context"
	"testing"

	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newProjection(t *testing.T, id, owner string, years int) *domain.ProjectionResult {
	t.Helper()
	s, _ := domain.CategoryModerate.Preset()
	s.Owner = owner
	req := domain.ProjectionRequest{
		ScenarioID:          s.ID,
		StartingPrincipal:   decimal.NewFromInt(25000),
		MonthlyContribution: decimal.NewFromInt(1500),
		Years:               years,
	}
	records, summary, err := calculation.NewEngine().Project(s, req)
	require.NoError(t, err)
	return &domain.ProjectionResult{
		ID:         id,
		Owner:      owner,
		Scenario:   s,
		Request:    req,
		Records:    records,
		Summary:    summary,
		Allocation: s.Category.Allocation(),
	}
}

func TestProjectionRepository_SaveAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectionRepository(db)
	ctx := context.Background()

	p := newProjection(t, "p1", "alice", 10)
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Get(ctx, "alice", "p1")
	require.NoError(t, err)
	require.Equal(t, "Moderate Growth", got.Scenario.Name)
	require.Equal(t, 10, got.Request.Years)
	require.Len(t, got.Records, 10)
	require.Equal(t, 1, got.Records[0].Year)
	require.True(t, got.Records[9].EndingBalance.Equal(p.Records[9].EndingBalance))
	require.True(t, got.Summary.ROI.Equal(p.Summary.ROI))
	require.Equal(t, domain.CategoryModerate.Allocation(), got.Allocation)

	_, err = repo.Get(ctx, "bob", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectionRepository_SaveReplacesRecords(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newProjection(t, "p1", "alice", 10)))
	require.NoError(t, repo.Save(ctx, newProjection(t, "p1", "alice", 3)))

	got, err := repo.Get(ctx, "alice", "p1")
	require.NoError(t, err)
	require.Len(t, got.Records, 3)
	require.Equal(t, 3, got.Request.Years)
}

func TestProjectionRepository_ListByOwner(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newProjection(t, "p1", "alice", 2)))
	require.NoError(t, repo.Save(ctx, newProjection(t, "p2", "alice", 4)))
	require.NoError(t, repo.Save(ctx, newProjection(t, "p3", "bob", 1)))

	list, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	total := 0
	for _, p := range list {
		total += len(p.Records)
	}
	require.Equal(t, 6, total)
}
