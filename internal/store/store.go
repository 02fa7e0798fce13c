// Package store reads building financials from Postgres and persists opt-in
// result snapshots.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // load database driver for postgres
	"go.uber.org/zap"
)

// ErrNotFound is returned when a building or snapshot does not exist.
var ErrNotFound = errors.New("not found")

// BuildingFinancials is the stored financial profile of one building.
// Growth and vacancy rates are fractions; LoanRate is an annual percentage.
type BuildingFinancials struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	AnnualIncome   float64   `json:"annualIncome"`
	AnnualExpenses float64   `json:"annualExpenses"`
	IncomeGrowth   float64   `json:"incomeGrowth"`
	ExpenseGrowth  float64   `json:"expenseGrowth"`
	VacancyRate    float64   `json:"vacancyRate"`
	PropertyValue  float64   `json:"propertyValue"`
	LoanPrincipal  float64   `json:"loanPrincipal"`
	LoanRate       float64   `json:"loanRate"`
	LoanTermMonths int       `json:"loanTermMonths"`
}

// Snapshot is a persisted calculation result.
type Snapshot struct {
	ID         uuid.UUID       `json:"id"`
	BuildingID uuid.UUID       `json:"buildingId"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"createdAt"`
}

const schema = `CREATE TABLE IF NOT EXISTS building_financials (
	id uuid PRIMARY KEY,
	name text NOT NULL,
	annual_income double precision NOT NULL DEFAULT 0,
	annual_expenses double precision NOT NULL DEFAULT 0,
	income_growth double precision NOT NULL DEFAULT 0,
	expense_growth double precision NOT NULL DEFAULT 0,
	vacancy_rate double precision NOT NULL DEFAULT 0,
	property_value double precision NOT NULL DEFAULT 0,
	loan_principal double precision NOT NULL DEFAULT 0,
	loan_rate double precision NOT NULL DEFAULT 0,
	loan_term_months integer NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS scenario_snapshots (
	id uuid PRIMARY KEY,
	building_id uuid NOT NULL REFERENCES building_financials(id),
	kind text NOT NULL,
	payload jsonb NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
);`

const selectBuilding = `SELECT id, name, annual_income, annual_expenses, income_growth, expense_growth,
	vacancy_rate, property_value, loan_principal, loan_rate, loan_term_months
FROM building_financials WHERE id = $1`

const insertSnapshot = `INSERT INTO scenario_snapshots (id, building_id, kind, payload, created_at)
VALUES ($1, $2, $3, $4, $5)`

const selectSnapshot = `SELECT id, building_id, kind, payload, created_at
FROM scenario_snapshots WHERE id = $1`

// Store wraps a database handle.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New wraps an already opened database.
func New(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Open connects to the postgres database at dsn and verifies the connection.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return New(db, logger), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the tables used by the store if they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("unable to migrate schema: %w", err)
	}
	s.logger.Info("database schema ready",
		zap.String("op", "store.Migrate"),
	)
	return nil
}

// GetBuildingFinancials loads one building by id.
func (s *Store) GetBuildingFinancials(ctx context.Context, id uuid.UUID) (BuildingFinancials, error) {
	var b BuildingFinancials
	err := s.db.QueryRowContext(ctx, selectBuilding, id.String()).Scan(
		&b.ID, &b.Name, &b.AnnualIncome, &b.AnnualExpenses, &b.IncomeGrowth, &b.ExpenseGrowth,
		&b.VacancyRate, &b.PropertyValue, &b.LoanPrincipal, &b.LoanRate, &b.LoanTermMonths,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildingFinancials{}, fmt.Errorf("building %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return BuildingFinancials{}, fmt.Errorf("unable to load building %s: %w", id, err)
	}
	return b, nil
}

// SaveSnapshot inserts a snapshot, assigning an id and timestamp when unset,
// and returns the stored value.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) (Snapshot, error) {
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, insertSnapshot,
		snap.ID.String(), snap.BuildingID.String(), snap.Kind, []byte(snap.Payload), snap.CreatedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("unable to save snapshot for building %s: %w", snap.BuildingID, err)
	}

	s.logger.Debug("saved snapshot",
		zap.String("op", "store.SaveSnapshot"),
		zap.String("snapshot", snap.ID.String()),
		zap.String("building", snap.BuildingID.String()),
		zap.String("kind", snap.Kind),
	)
	return snap, nil
}

// GetSnapshot loads one snapshot by id.
func (s *Store) GetSnapshot(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	var snap Snapshot
	var payload []byte
	err := s.db.QueryRowContext(ctx, selectSnapshot, id.String()).Scan(
		&snap.ID, &snap.BuildingID, &snap.Kind, &payload, &snap.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("unable to load snapshot %s: %w", id, err)
	}
	snap.Payload = json.RawMessage(payload)
	return snap, nil
}
