// Package storage implements the durable expense record store on SQLite.
//
// The store owns the persisted record set exclusively. It accepts whatever
// amounts it is given: amount validation belongs to the confirmation
// boundary, which keeps this layer trivially testable.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"notaspese/internal/core"

	_ "modernc.org/sqlite"
)

// Export statuses tracked per record for the asynchronous export worker.
const (
	ExportPending = "pending"
	ExportDone    = "exported"
	ExportError   = "error"
)

// Store is the SQLite-backed record store. Construct it with New and call
// Init once from the composition root before first use.
type Store struct {
	db     *sql.DB
	path   string
	now    func() time.Time
	inited bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects the reference-time source. Tests use this to pin
// timestamps instead of manipulating the system clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New opens the database file, creating parent directories as needed.
// The schema is not touched until Init runs.
func New(dbPath string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, path: dbPath, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Init runs schema migrations. Safe to call more than once; subsequent
// calls are no-ops.
func (s *Store) Init(ctx context.Context) error {
	if s.inited {
		return nil
	}
	if err := RunMigrations(s.path); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	s.inited = true
	slog.InfoContext(ctx, "Record store initialized", "path", s.path)
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// newID builds a record id from the insert moment plus a random suffix, so
// rapid successive inserts within the same millisecond still get distinct
// keys.
func (s *Store) newID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strconv.FormatInt(at.UnixMilli(), 10) + suffix
}

// Add assigns id and createdAt, persists the record, and returns it. The
// write is committed before Add returns. The effective expense date is the
// confirmation moment; back-dating is not supported.
func (s *Store) Add(ctx context.Context, c core.Candidate) (core.Expense, error) {
	now := s.now()
	e := core.Expense{
		ID:          s.newID(now),
		Amount:      c.Amount,
		Merchant:    c.Merchant,
		Category:    c.Category,
		Description: c.Description,
		Date:        now,
		CreatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, amount_cents, merchant, category, description, date, created_at, export_status, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		e.ID, e.Amount.Cents, e.Merchant, e.Category, e.Description,
		e.Date.Format(time.RFC3339Nano), e.CreatedAt.Format(time.RFC3339Nano),
		ExportPending,
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"merchant", e.Merchant,
		"category", e.Category)

	return e, nil
}

// GetAll returns every record with both timestamp fields materialized as
// time.Time values, never as their stored encodings.
func (s *Store) GetAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount_cents, merchant, category, description, date, created_at
		FROM expenses`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// GetByDateRange returns records whose date falls inside [start, end],
// bounds included. A scan-and-filter over GetAll is deliberate: expected
// volumes are a single user's expenses, and ordering is the caller's
// concern.
func (s *Store) GetByDateRange(ctx context.Context, start, end time.Time) ([]core.Expense, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Expense
	for _, e := range all {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Get returns a single record by id, or sql.ErrNoRows.
func (s *Store) Get(ctx context.Context, id string) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, amount_cents, merchant, category, description, date, created_at
		FROM expenses WHERE id = ?`, id)
	return scanExpense(row)
}

// Delete removes the record. Deleting an absent id is a no-op, not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.InfoContext(ctx, "Expense deleted", "id", id)
	}
	return nil
}

// GetPendingExport returns up to limit records still waiting for export.
// Records that previously failed are included so the periodic scan
// retries them.
func (s *Store) GetPendingExport(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount_cents, merchant, category, description, date, created_at
		FROM expenses WHERE export_status IN (?, ?) ORDER BY created_at LIMIT ?`,
		ExportPending, ExportError, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending export: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending export: %w", err)
	}
	return out, nil
}

// MarkExported records a successful export of the record.
func (s *Store) MarkExported(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET export_status = ? WHERE id = ?`, ExportDone, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return nil
}

// MarkExportError flags the record so the periodic catch-up retries it later.
func (s *Store) MarkExportError(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET export_status = ? WHERE id = ?`, ExportError, id); err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e             core.Expense
		date, created string
	)
	if err := row.Scan(&e.ID, &e.Amount.Cents, &e.Merchant, &e.Category,
		&e.Description, &date, &created); err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}

	var err error
	if e.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
		return core.Expense{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return core.Expense{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return e, nil
}
