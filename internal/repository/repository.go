package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no row matches
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a contract month is already materialized
	ErrDuplicate = errors.New("duplicate entry")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

// Schema creates the tables the repository reads and writes
const Schema = `
CREATE SCHEMA IF NOT EXISTS finance;

CREATE TABLE IF NOT EXISTS finance.clients (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	name              TEXT NOT NULL,
	monthly_value     NUMERIC(14,2) NOT NULL DEFAULT 0,
	recurring_payment BOOLEAN NOT NULL DEFAULT FALSE,
	status            TEXT NOT NULL DEFAULT 'prospect',
	contract_start    DATE,
	contract_end      DATE
);

CREATE TABLE IF NOT EXISTS finance.ledger_entries (
	id          BIGSERIAL PRIMARY KEY,
	user_id     TEXT NOT NULL,
	date        DATE NOT NULL,
	period_key  TEXT NOT NULL,
	description TEXT NOT NULL,
	category    TEXT NOT NULL,
	type        TEXT NOT NULL,
	value       NUMERIC(14,2) NOT NULL CHECK (value >= 0),
	status      TEXT NOT NULL,
	recurrence  TEXT NOT NULL DEFAULT 'none',
	client_id   TEXT,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS ledger_entries_user_date_idx
	ON finance.ledger_entries (user_id, date);

CREATE UNIQUE INDEX IF NOT EXISTS ledger_entries_contract_month_uniq
	ON finance.ledger_entries (user_id, client_id, period_key)
	WHERE category = 'Contrato' AND client_id IS NOT NULL;
`

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate applies Schema
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

const entryColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'), description, category, type,
	value, status, recurrence, COALESCE(client_id, ''), created_at, updated_at`

// QueryEntries retrieves the entries of a user that match the filter
func (r *Repository) QueryEntries(ctx context.Context, filter models.EntryFilter) ([]models.LedgerEntry, error) {
	query, args := buildEntryQuery(filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}

func buildEntryQuery(filter models.EntryFilter) (string, []any) {
	var (
		conds = []string{"user_id = $1"}
		args  = []any{filter.UserID}
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.ClientID != "" {
		add("client_id = $%d", filter.ClientID)
	}
	if filter.Type != "" {
		add("type = $%d", string(filter.Type))
	}
	if filter.RecurringOnly {
		add("recurrence <> $%d", string(models.RecurrenceNone))
	}
	if filter.From != "" {
		add("date >= $%d", filter.From)
	}
	if filter.To != "" {
		add("date <= $%d", filter.To)
	}

	query := `SELECT ` + entryColumns + `
		FROM finance.ledger_entries
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY date, id`
	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.LedgerEntry, error) {
	var (
		e                    models.LedgerEntry
		id                   int64
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &e.UserID, &e.Date, &e.Description, &e.Category, &e.Type,
		&e.Value, &e.Status, &e.Recurrence, &e.ClientID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return models.LedgerEntry{}, ErrNotFound
	}
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("failed to scan entry: %w", err)
	}
	e.ID = fmt.Sprintf("%d", id)
	e.CreatedAt = createdAt.Format(time.RFC3339)
	e.UpdatedAt = updatedAt.Format(time.RFC3339)
	return e, nil
}

// QueryContracts retrieves the contract terms of every client of a user
func (r *Repository) QueryContracts(ctx context.Context, userID string) ([]models.Contract, error) {
	query := `
		SELECT id, name, monthly_value, recurring_payment, status,
			COALESCE(to_char(contract_start, 'YYYY-MM-DD'), ''),
			COALESCE(to_char(contract_end, 'YYYY-MM-DD'), '')
		FROM finance.clients
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	var contracts []models.Contract
	for rows.Next() {
		var c models.Contract
		if err := rows.Scan(&c.ClientID, &c.ClientName, &c.MonthlyValue, &c.RecurringPayment,
			&c.Status, &c.ContractStart, &c.ContractEnd); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contracts: %w", err)
	}
	return contracts, nil
}

// InsertEntry creates a new entry and returns it with its assigned id
func (r *Repository) InsertEntry(ctx context.Context, entry models.NewLedgerEntry) (models.LedgerEntry, error) {
	period, err := models.PeriodOfDate(entry.Date)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	query := `
		INSERT INTO finance.ledger_entries
			(user_id, date, period_key, description, category, type, value, status, recurrence, client_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING ` + entryColumns
	row := r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Date, string(period), entry.Description, entry.Category, string(entry.Type),
		entry.Value, string(entry.Status), string(entry.Recurrence), entry.ClientID)

	created, err := scanEntry(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.LedgerEntry{}, fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
		}
		return models.LedgerEntry{}, fmt.Errorf("failed to insert entry: %w", err)
	}
	return created, nil
}

// UpdateEntryStatus sets the status of an entry owned by userID
func (r *Repository) UpdateEntryStatus(ctx context.Context, userID, id string, status models.Status) error {
	// ids are BIGSERIAL; anything else cannot match a row
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return ErrNotFound
	}

	query := `
		UPDATE finance.ledger_entries
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3`
	res, err := r.db.ExecContext(ctx, query, string(status), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update entry status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update entry status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindContractEntry returns the entry that materialized a client's contract month
func (r *Repository) FindContractEntry(ctx context.Context, userID, clientID string, period models.PeriodKey) (models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + `
		FROM finance.ledger_entries
		WHERE user_id = $1 AND client_id = $2 AND period_key = $3 AND category = $4
		ORDER BY id
		LIMIT 1`
	return scanEntry(r.db.QueryRowContext(ctx, query, userID, clientID, string(period), models.ContractCategory))
}

// MarkOverdue flags every pending entry dated before the given day as overdue
func (r *Repository) MarkOverdue(ctx context.Context, before string) (int64, error) {
	query := `
		UPDATE finance.ledger_entries
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE status = $2 AND date < $3`
	res, err := r.db.ExecContext(ctx, query, string(models.StatusOverdue), string(models.StatusPending), before)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue entries: %w", err)
	}
	return res.RowsAffected()
}
