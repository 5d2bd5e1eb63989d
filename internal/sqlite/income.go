package sqlite

import (
	"context"
	"fmt"

	"github.com/rpgo/networth-planner/internal/domain"
)

// IncomeRepository implements repository.IncomeRepository for SQLite
type IncomeRepository struct {
	db *DB
}

// NewIncomeRepository creates a new IncomeRepository
func NewIncomeRepository(db *DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

const incomeColumns = `owner, year, amount, source, location, costs, federal_tax, state_tax, total_tax, after_tax_income`

const upsertIncome = `
	INSERT INTO income_entries (` + incomeColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(owner, year) DO UPDATE SET
		amount = excluded.amount,
		source = excluded.source,
		location = excluded.location,
		costs = excluded.costs,
		federal_tax = excluded.federal_tax,
		state_tax = excluded.state_tax,
		total_tax = excluded.total_tax,
		after_tax_income = excluded.after_tax_income
`

func incomeArgs(e *domain.IncomeEntry) []any {
	return []any{
		e.Owner, e.Year, text(e.Amount), e.Source, e.Location, text(e.Costs),
		text(e.FederalTax), text(e.StateTax), text(e.TotalTax), text(e.AfterTaxIncome),
	}
}

// ListByOwner returns the owner's income timeline ordered by year
func (r *IncomeRepository) ListByOwner(ctx context.Context, owner string) ([]domain.IncomeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+incomeColumns+`
		FROM income_entries
		WHERE owner = ?
		ORDER BY year ASC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list income entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.IncomeEntry
	for rows.Next() {
		var e domain.IncomeEntry
		err := rows.Scan(
			&e.Owner,
			&e.Year,
			dec(&e.Amount),
			&e.Source,
			&e.Location,
			dec(&e.Costs),
			dec(&e.FederalTax),
			dec(&e.StateTax),
			dec(&e.TotalTax),
			dec(&e.AfterTaxIncome),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Save records the income of one year, replacing any previous entry for it
func (r *IncomeRepository) Save(ctx context.Context, e *domain.IncomeEntry) error {
	if _, err := r.db.ExecContext(ctx, upsertIncome, incomeArgs(e)...); err != nil {
		return fmt.Errorf("failed to save income entry: %w", err)
	}
	return nil
}

// ReplaceByOwner swaps the owner's whole timeline for entries in one transaction
func (r *IncomeRepository) ReplaceByOwner(ctx context.Context, owner string, entries []domain.IncomeEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM income_entries WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("failed to clear income entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertIncome)
	if err != nil {
		return fmt.Errorf("failed to prepare income insert: %w", err)
	}
	defer stmt.Close()

	for i := range entries {
		e := entries[i]
		e.Owner = owner
		if _, err := stmt.ExecContext(ctx, incomeArgs(&e)...); err != nil {
			return fmt.Errorf("failed to save income entry for %d: %w", e.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
