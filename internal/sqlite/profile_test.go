package sqlite

import (
	"context"
	"testing"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_SaveAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	p := &domain.FinancialProfile{
		Owner:           "alice",
		MonthlyIncome:   decimal.RequireFromString("5000.10"),
		MonthlyExpenses: decimal.NewFromInt(3500),
		CurrentSavings:  decimal.RequireFromString("25000.123456789"),
		InvestmentGoals: "index funds",
	}
	require.NoError(t, repo.Save(ctx, p))
	require.False(t, p.UpdatedAt.IsZero())

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	require.True(t, got.MonthlyIncome.Equal(p.MonthlyIncome))
	require.True(t, got.CurrentSavings.Equal(p.CurrentSavings), "decimals must round-trip exactly")
	require.Equal(t, "index funds", got.InvestmentGoals)

	// Save again replaces the profile
	p.MonthlyExpenses = decimal.NewFromInt(3000)
	require.NoError(t, repo.Save(ctx, p))
	got, err = repo.Get(ctx, "alice")
	require.NoError(t, err)
	require.True(t, got.MonthlySavings().Equal(decimal.RequireFromString("2000.10")))
}

func TestProfileRepository_NotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProfileRepository(db)

	_, err := repo.Get(context.Background(), "nobody")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfileRepository_ListOwners(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	for _, owner := range []string{"bob", "alice"} {
		require.NoError(t, repo.Save(ctx, &domain.FinancialProfile{Owner: owner}))
	}

	owners, err := repo.ListOwners(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob"}, owners)
}

func TestIncomeRepository(t *testing.T) {
	db := NewTestDB(t)
	repo := NewIncomeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.IncomeEntry{Owner: "alice", Year: 2025, Amount: decimal.NewFromInt(50000), Source: "salary"}))
	require.NoError(t, repo.Save(ctx, &domain.IncomeEntry{Owner: "alice", Year: 2024, Amount: decimal.NewFromInt(45000), Source: "salary"}))
	require.NoError(t, repo.Save(ctx, &domain.IncomeEntry{Owner: "bob", Year: 2024, Amount: decimal.NewFromInt(1), Source: "gift"}))
	// same year replaces
	require.NoError(t, repo.Save(ctx, &domain.IncomeEntry{Owner: "alice", Year: 2025, Amount: decimal.NewFromInt(52000), Source: "salary+bonus"}))

	entries, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 2024, entries[0].Year)
	require.Equal(t, "salary+bonus", entries[1].Source)
	require.True(t, entries[1].Amount.Equal(decimal.NewFromInt(52000)))
}
