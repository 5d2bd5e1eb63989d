package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serialises writers anyway; a single connection also keeps
	// ":memory:" databases from splitting across the pool.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// Open creates the connection and brings the schema up to date.
func Open(dataSourceName string) (*DB, error) {
	db, err := New(dataSourceName)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations creates any missing tables. It is safe to run repeatedly.
func (db *DB) RunMigrations() error {
	migration := `
-- Financial profiles, one per owner
CREATE TABLE IF NOT EXISTS profiles (
    owner TEXT PRIMARY KEY,
    monthly_income TEXT NOT NULL,
    monthly_expenses TEXT NOT NULL,
    current_savings TEXT NOT NULL,
    current_savings_rate TEXT NOT NULL DEFAULT '0',
    investment_goals TEXT NOT NULL DEFAULT '',
    retirement_goals TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Scenarios
CREATE TABLE IF NOT EXISTS scenarios (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    name TEXT NOT NULL,
    category TEXT NOT NULL CHECK(category IN ('conservative', 'moderate', 'aggressive', 'custom')),
    annual_return_rate TEXT NOT NULL,
    inflation_rate TEXT NOT NULL,
    risk_tolerance TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (owner, name)
);
CREATE INDEX IF NOT EXISTS idx_owner_scenarios ON scenarios(owner);

-- Projections keep a snapshot of the scenario they were computed from
CREATE TABLE IF NOT EXISTS projections (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    scenario_id TEXT NOT NULL,
    scenario_name TEXT NOT NULL,
    category TEXT NOT NULL,
    annual_return_rate TEXT NOT NULL,
    inflation_rate TEXT NOT NULL,
    risk_tolerance TEXT NOT NULL,
    starting_principal TEXT NOT NULL,
    monthly_contribution TEXT NOT NULL,
    years INTEGER NOT NULL,
    total_contributions TEXT NOT NULL,
    total_gains TEXT NOT NULL,
    final_balance TEXT NOT NULL,
    final_inflation_adjusted_balance TEXT NOT NULL,
    roi TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_owner_projections ON projections(owner);

-- Yearly records of a projection
CREATE TABLE IF NOT EXISTS projection_records (
    projection_id TEXT NOT NULL,
    year INTEGER NOT NULL,
    beginning_balance TEXT NOT NULL,
    contributions TEXT NOT NULL,
    gains TEXT NOT NULL,
    ending_balance TEXT NOT NULL,
    inflation_adjusted_balance TEXT NOT NULL,
    PRIMARY KEY (projection_id, year),
    FOREIGN KEY (projection_id) REFERENCES projections(id) ON DELETE CASCADE
);

-- Income timeline; tax columns are derived from amount
CREATE TABLE IF NOT EXISTS income_entries (
    owner TEXT NOT NULL,
    year INTEGER NOT NULL,
    amount TEXT NOT NULL,
    source TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    costs TEXT NOT NULL DEFAULT '0',
    federal_tax TEXT NOT NULL DEFAULT '0',
    state_tax TEXT NOT NULL DEFAULT '0',
    total_tax TEXT NOT NULL DEFAULT '0',
    after_tax_income TEXT NOT NULL DEFAULT '0',
    PRIMARY KEY (owner, year)
);

-- Living plans: spending habits plus the location periods below
CREATE TABLE IF NOT EXISTS living_plans (
    owner TEXT PRIMARY KEY,
    housing TEXT NOT NULL DEFAULT 'average',
    food TEXT NOT NULL DEFAULT 'average',
    leisure TEXT NOT NULL DEFAULT 'average',
    travel TEXT NOT NULL DEFAULT 'average',
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS location_periods (
    owner TEXT NOT NULL,
    position INTEGER NOT NULL,
    state TEXT NOT NULL,
    area_level TEXT NOT NULL DEFAULT 'average',
    start_year INTEGER NOT NULL,
    end_year INTEGER NOT NULL,
    PRIMARY KEY (owner, position),
    FOREIGN KEY (owner) REFERENCES living_plans(owner) ON DELETE CASCADE
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
