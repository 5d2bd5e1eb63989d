package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/repository"
)

// ScenarioRepository implements repository.ScenarioRepository for SQLite
type ScenarioRepository struct {
	db *DB
}

// NewScenarioRepository creates a new ScenarioRepository
func NewScenarioRepository(db *DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

const scenarioColumns = `id, owner, name, category, annual_return_rate, inflation_rate, risk_tolerance, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (*domain.Scenario, error) {
	var s domain.Scenario
	err := row.Scan(
		&s.ID,
		&s.Owner,
		&s.Name,
		&s.Category,
		dec(&s.AnnualReturnRate),
		dec(&s.InflationRate),
		&s.RiskTolerance,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get retrieves a scenario by ID
func (r *ScenarioRepository) Get(ctx context.Context, owner, id string) (*domain.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE id = ? AND owner = ?`

	s, err := scanScenario(r.db.QueryRowContext(ctx, query, id, owner))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}

	return s, nil
}

// Save creates or updates a scenario. Names are unique per owner. Saving
// over an id owned by someone else returns repository.ErrNotFound.
func (r *ScenarioRepository) Save(ctx context.Context, s *domain.Scenario) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO scenarios (` + scenarioColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			annual_return_rate = excluded.annual_return_rate,
			inflation_rate = excluded.inflation_rate,
			risk_tolerance = excluded.risk_tolerance
		WHERE scenarios.owner = excluded.owner
	`

	res, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Owner,
		s.Name,
		string(s.Category),
		text(s.AnnualReturnRate),
		text(s.InflationRate),
		string(s.RiskTolerance),
		s.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("scenario %q: %w", s.Name, repository.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to save scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save scenario: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("scenario %q: %w", s.ID, repository.ErrNotFound)
	}

	return nil
}

// ListByOwner returns the owner's scenarios, oldest first
func (r *ScenarioRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE owner = ? ORDER BY created_at ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []domain.Scenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, *s)
	}

	return scenarios, rows.Err()
}

// Delete removes a scenario
func (r *ScenarioRepository) Delete(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
