package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/repository"
)

// ProfileRepository implements repository.ProfileRepository for SQLite
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves the profile of owner
func (r *ProfileRepository) Get(ctx context.Context, owner string) (*domain.FinancialProfile, error) {
	query := `
		SELECT owner, monthly_income, monthly_expenses, current_savings, current_savings_rate,
		       investment_goals, retirement_goals, updated_at
		FROM profiles
		WHERE owner = ?
	`

	var p domain.FinancialProfile
	err := r.db.QueryRowContext(ctx, query, owner).Scan(
		&p.Owner,
		dec(&p.MonthlyIncome),
		dec(&p.MonthlyExpenses),
		dec(&p.CurrentSavings),
		dec(&p.CurrentSavingsRate),
		&p.InvestmentGoals,
		&p.RetirementGoals,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

// Save creates or replaces the owner's profile
func (r *ProfileRepository) Save(ctx context.Context, p *domain.FinancialProfile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO profiles (owner, monthly_income, monthly_expenses, current_savings, current_savings_rate,
		                      investment_goals, retirement_goals, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner) DO UPDATE SET
			monthly_income = excluded.monthly_income,
			monthly_expenses = excluded.monthly_expenses,
			current_savings = excluded.current_savings,
			current_savings_rate = excluded.current_savings_rate,
			investment_goals = excluded.investment_goals,
			retirement_goals = excluded.retirement_goals,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		p.Owner,
		text(p.MonthlyIncome),
		text(p.MonthlyExpenses),
		text(p.CurrentSavings),
		text(p.CurrentSavingsRate),
		p.InvestmentGoals,
		p.RetirementGoals,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// ListOwners returns every owner with a stored profile
func (r *ProfileRepository) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT owner FROM profiles ORDER BY owner`)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, owner)
	}

	return owners, rows.Err()
}
