package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/repository"
)

// ProjectionRepository implements repository.ProjectionRepository for SQLite
type ProjectionRepository struct {
	db *DB
}

// NewProjectionRepository creates a new ProjectionRepository
func NewProjectionRepository(db *DB) *ProjectionRepository {
	return &ProjectionRepository{db: db}
}

const projectionColumns = `id, owner, scenario_id, scenario_name, category, annual_return_rate, inflation_rate, risk_tolerance,
	starting_principal, monthly_contribution, years,
	total_contributions, total_gains, final_balance, final_inflation_adjusted_balance, roi,
	created_at, updated_at`

func scanProjection(row rowScanner) (*domain.ProjectionResult, error) {
	var p domain.ProjectionResult
	err := row.Scan(
		&p.ID,
		&p.Owner,
		&p.Scenario.ID,
		&p.Scenario.Name,
		&p.Scenario.Category,
		dec(&p.Scenario.AnnualReturnRate),
		dec(&p.Scenario.InflationRate),
		&p.Scenario.RiskTolerance,
		dec(&p.Request.StartingPrincipal),
		dec(&p.Request.MonthlyContribution),
		&p.Request.Years,
		dec(&p.Summary.TotalContributions),
		dec(&p.Summary.TotalGains),
		dec(&p.Summary.FinalBalance),
		dec(&p.Summary.FinalInflationAdjustedBalance),
		dec(&p.Summary.ROI),
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Scenario.Owner = p.Owner
	p.Request.ScenarioID = p.Scenario.ID
	p.Allocation = p.Scenario.Category.Allocation()
	return &p, nil
}

// Get retrieves a projection and its yearly records
func (r *ProjectionRepository) Get(ctx context.Context, owner, id string) (*domain.ProjectionResult, error) {
	query := `SELECT ` + projectionColumns + ` FROM projections WHERE id = ? AND owner = ?`

	p, err := scanProjection(r.db.QueryRowContext(ctx, query, id, owner))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get projection: %w", err)
	}

	if p.Records, err = r.records(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes the projection row and replaces its yearly records in one transaction
func (r *ProjectionRepository) Save(ctx context.Context, p *domain.ProjectionResult) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projections (` + projectionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scenario_name = excluded.scenario_name,
			category = excluded.category,
			annual_return_rate = excluded.annual_return_rate,
			inflation_rate = excluded.inflation_rate,
			risk_tolerance = excluded.risk_tolerance,
			starting_principal = excluded.starting_principal,
			monthly_contribution = excluded.monthly_contribution,
			years = excluded.years,
			total_contributions = excluded.total_contributions,
			total_gains = excluded.total_gains,
			final_balance = excluded.final_balance,
			final_inflation_adjusted_balance = excluded.final_inflation_adjusted_balance,
			roi = excluded.roi,
			updated_at = excluded.updated_at
	`
	_, err = tx.ExecContext(ctx, query,
		p.ID,
		p.Owner,
		p.Scenario.ID,
		p.Scenario.Name,
		string(p.Scenario.Category),
		text(p.Scenario.AnnualReturnRate),
		text(p.Scenario.InflationRate),
		string(p.Scenario.RiskTolerance),
		text(p.Request.StartingPrincipal),
		text(p.Request.MonthlyContribution),
		p.Request.Years,
		text(p.Summary.TotalContributions),
		text(p.Summary.TotalGains),
		text(p.Summary.FinalBalance),
		text(p.Summary.FinalInflationAdjustedBalance),
		text(p.Summary.ROI),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save projection: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM projection_records WHERE projection_id = ?`, p.ID); err != nil {
		return fmt.Errorf("failed to clear projection records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO projection_records (projection_id, year, beginning_balance, contributions, gains, ending_balance, inflation_adjusted_balance)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, y := range p.Records {
		_, err := stmt.ExecContext(ctx, p.ID, y.Year,
			text(y.BeginningBalance),
			text(y.Contributions),
			text(y.Gains),
			text(y.EndingBalance),
			text(y.InflationAdjustedBalance),
		)
		if err != nil {
			return fmt.Errorf("failed to save projection record %d: %w", y.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit projection: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's projections, newest first, with records
func (r *ProjectionRepository) ListByOwner(ctx context.Context, owner string) ([]domain.ProjectionResult, error) {
	query := `SELECT ` + projectionColumns + ` FROM projections WHERE owner = ? ORDER BY created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}

	var projections []domain.ProjectionResult
	for rows.Next() {
		p, err := scanProjection(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan projection: %w", err)
		}
		projections = append(projections, *p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}
	// The pool holds one connection, so the cursor must be released before
	// the records are queried.
	rows.Close()

	for i := range projections {
		if projections[i].Records, err = r.records(ctx, projections[i].ID); err != nil {
			return nil, err
		}
	}
	return projections, nil
}

func (r *ProjectionRepository) records(ctx context.Context, projectionID string) ([]domain.YearlyRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT year, beginning_balance, contributions, gains, ending_balance, inflation_adjusted_balance
		FROM projection_records
		WHERE projection_id = ?
		ORDER BY year ASC
	`, projectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load projection records: %w", err)
	}
	defer rows.Close()

	var records []domain.YearlyRecord
	for rows.Next() {
		var y domain.YearlyRecord
		err := rows.Scan(&y.Year,
			dec(&y.BeginningBalance),
			dec(&y.Contributions),
			dec(&y.Gains),
			dec(&y.EndingBalance),
			dec(&y.InflationAdjustedBalance),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan projection record: %w", err)
		}
		records = append(records, y)
	}
	return records, rows.Err()
}
