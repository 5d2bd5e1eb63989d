package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/repository"
)

// LivingPlanRepository implements repository.LivingPlanRepository for SQLite
type LivingPlanRepository struct {
	db *DB
}

// NewLivingPlanRepository creates a new LivingPlanRepository
func NewLivingPlanRepository(db *DB) *LivingPlanRepository {
	return &LivingPlanRepository{db: db}
}

// Get retrieves the owner's plan with its location periods in order
func (r *LivingPlanRepository) Get(ctx context.Context, owner string) (*domain.LivingPlan, error) {
	p := domain.LivingPlan{Owner: owner}
	err := r.db.QueryRowContext(ctx, `
		SELECT housing, food, leisure, travel, updated_at
		FROM living_plans
		WHERE owner = ?
	`, owner).Scan(&p.Spending.Housing, &p.Spending.Food, &p.Spending.Leisure, &p.Spending.Travel, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get living plan: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT state, area_level, start_year, end_year
		FROM location_periods
		WHERE owner = ?
		ORDER BY position ASC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list location periods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.LocationPeriod
		if err := rows.Scan(&l.State, &l.AreaLevel, &l.StartYear, &l.EndYear); err != nil {
			return nil, fmt.Errorf("failed to scan location period: %w", err)
		}
		p.Locations = append(p.Locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Save replaces the owner's plan and all of its location periods
func (r *LivingPlanRepository) Save(ctx context.Context, p *domain.LivingPlan) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO living_plans (owner, housing, food, leisure, travel, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner) DO UPDATE SET
			housing = excluded.housing,
			food = excluded.food,
			leisure = excluded.leisure,
			travel = excluded.travel,
			updated_at = excluded.updated_at
	`, p.Owner,
		string(p.Spending.Housing.OrAverage()),
		string(p.Spending.Food.OrAverage()),
		string(p.Spending.Leisure.OrAverage()),
		string(p.Spending.Travel.OrAverage()),
		p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save living plan: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM location_periods WHERE owner = ?`, p.Owner); err != nil {
		return fmt.Errorf("failed to clear location periods: %w", err)
	}
	for i, l := range p.Locations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO location_periods (owner, position, state, area_level, start_year, end_year)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.Owner, i, l.State, string(l.AreaLevel.OrAverage()), l.StartYear, l.EndYear)
		if err != nil {
			return fmt.Errorf("failed to save location period: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
