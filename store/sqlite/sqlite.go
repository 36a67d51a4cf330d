/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements grid.CellStore, grid.AuditLog and roster.Store on a single
  SQLite database. The same patterns apply to PostgreSQL - only minor
  SQL dialect differences.

KEY TABLES:
  employees:        Roster (name unique, opaque password)
  activities:       The day grid, one row per (date, employee, slot)
  activity_archive: Shadow table; cells land here before any removal
  activity_log:     Append-only audit trail of cell edits

UPSERT CONTRACT:
  activities is keyed by the (date_key, employee_id, time_slot) triple.
  Set uses ON CONFLICT DO UPDATE, so a write replaces, never duplicates,
  and two concurrent writers silently last-write-win.

ARCHIVE-BEFORE-DELETE:
  Every cell removal (single delete or employee cascade) copies the row
  into activity_archive inside the same SQL transaction. The transaction
  is internal to this adapter; callers see one independent operation.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/timesheet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - grid/store.go: Interface definitions
  - grid/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lokeswaran22/time/grid"
	"github.com/lokeswaran22/time/roster"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Roster
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		password TEXT,
		created_at TEXT NOT NULL
	);

	-- Day grid: at most one row per (date, employee, slot)
	CREATE TABLE IF NOT EXISTS activities (
		date_key TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		time_slot TEXT NOT NULL,
		activity_type TEXT NOT NULL,
		description TEXT,
		start_page INTEGER,
		end_page INTEGER,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (date_key, employee_id, time_slot)
	);

	CREATE INDEX IF NOT EXISTS idx_activities_date
		ON activities(date_key);
	CREATE INDEX IF NOT EXISTS idx_activities_employee
		ON activities(employee_id);

	-- Shadow table: removed cells are preserved here
	CREATE TABLE IF NOT EXISTS activity_archive (
		date_key TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		time_slot TEXT NOT NULL,
		activity_type TEXT NOT NULL,
		description TEXT,
		start_page INTEGER,
		end_page INTEGER,
		updated_at TEXT NOT NULL,
		archived_at TEXT NOT NULL
	);

	-- Audit trail (append-only; admin clear-all truncates)
	CREATE TABLE IF NOT EXISTS activity_log (
		id TEXT PRIMARY KEY,
		employee_name TEXT NOT NULL,
		activity_type TEXT NOT NULL,
		description TEXT,
		time_slot TEXT NOT NULL,
		action TEXT NOT NULL,
		edited_by TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_activity_log_created
		ON activity_log(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CELL STORE (grid.CellStore interface)
// =============================================================================

// Get returns the cell at key, or nil when absent.
func (s *Store) Get(ctx context.Context, key grid.CellKey) (*grid.Cell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT activity_type, description, start_page, end_page, updated_at
		FROM activities
		WHERE date_key = ? AND employee_id = ? AND time_slot = ?
	`

	var (
		cell        grid.Cell
		description sql.NullString
		startPage   sql.NullInt64
		endPage     sql.NullInt64
		updatedAt   string
	)
	err := s.db.QueryRowContext(ctx, query, key.Date, key.Employee, key.Slot).
		Scan(&cell.Type, &description, &startPage, &endPage, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	cell.Description = description.String
	if startPage.Valid {
		n := int(startPage.Int64)
		cell.StartPage = &n
	}
	if endPage.Valid {
		n := int(endPage.Int64)
		cell.EndPage = &n
	}
	cell.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &cell, nil
}

// Set upserts the cell at key. Last write wins.
func (s *Store) Set(ctx context.Context, key grid.CellKey, cell grid.Cell) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO activities
		(date_key, employee_id, time_slot, activity_type, description, start_page, end_page, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date_key, employee_id, time_slot) DO UPDATE SET
			activity_type = excluded.activity_type,
			description = excluded.description,
			start_page = excluded.start_page,
			end_page = excluded.end_page,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		key.Date, key.Employee, key.Slot,
		cell.Type, cell.Description,
		nullInt(cell.StartPage), nullInt(cell.EndPage),
		cell.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to set activity: %w", err)
	}
	return nil
}

// Delete archives and removes the cell at key, in one local transaction.
// No-op when the cell is absent.
func (s *Store) Delete(ctx context.Context, key grid.CellKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := archiveCells(ctx, tx,
		"date_key = ? AND employee_id = ? AND time_slot = ?",
		key.Date, key.Employee, key.Slot); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM activities WHERE date_key = ? AND employee_id = ? AND time_slot = ?",
		key.Date, key.Employee, key.Slot)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	return tx.Commit()
}

// ListForDate returns every cell recorded for the given day.
func (s *Store) ListForDate(ctx context.Context, date grid.DateKey) ([]grid.CellRecord, error) {
	return s.listCells(ctx, "WHERE date_key = ?", date)
}

// ListAll returns the full grid across all dates (admin view).
func (s *Store) ListAll(ctx context.Context) ([]grid.CellRecord, error) {
	return s.listCells(ctx, "")
}

func (s *Store) listCells(ctx context.Context, where string, args ...any) ([]grid.CellRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT date_key, employee_id, time_slot, activity_type, description,
		       start_page, end_page, updated_at
		FROM activities ` + where + `
		ORDER BY date_key, employee_id, time_slot
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var records []grid.CellRecord
	for rows.Next() {
		var (
			rec         grid.CellRecord
			description sql.NullString
			startPage   sql.NullInt64
			endPage     sql.NullInt64
			updatedAt   string
		)
		if err := rows.Scan(
			&rec.Key.Date, &rec.Key.Employee, &rec.Key.Slot,
			&rec.Cell.Type, &description, &startPage, &endPage, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		rec.Cell.Description = description.String
		if startPage.Valid {
			n := int(startPage.Int64)
			rec.Cell.StartPage = &n
		}
		if endPage.Valid {
			n := int(endPage.Int64)
			rec.Cell.EndPage = &n
		}
		rec.Cell.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// archiveCells copies matching activity rows into the shadow table.
func archiveCells(ctx context.Context, tx *sql.Tx, where string, args ...any) error {
	query := `
		INSERT INTO activity_archive
		(date_key, employee_id, time_slot, activity_type, description, start_page, end_page, updated_at, archived_at)
		SELECT date_key, employee_id, time_slot, activity_type, description, start_page, end_page, updated_at, ?
		FROM activities WHERE ` + where

	now := time.Now().UTC().Format(time.RFC3339)
	argv := append([]any{now}, args...)
	if _, err := tx.ExecContext(ctx, query, argv...); err != nil {
		return fmt.Errorf("failed to archive activities: %w", err)
	}
	return nil
}

// ArchivedCount reports the shadow-table size (admin/testing).
func (s *Store) ArchivedCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activity_archive").Scan(&count)
	return count, err
}

// =============================================================================
// AUDIT LOG (grid.AuditLog interface)
// =============================================================================

// Append adds one audit entry. Entries are never mutated.
func (s *Store) Append(ctx context.Context, entry grid.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO activity_log
		(id, employee_name, activity_type, description, time_slot, action, edited_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.EmployeeName, entry.Type, entry.Description,
		entry.Slot, entry.Action, entry.EditedBy,
		entry.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]grid.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, employee_name, activity_type, description, time_slot, action, edited_by, created_at
		FROM activity_log
		ORDER BY created_at DESC, id
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query log: %w", err)
	}
	defer rows.Close()

	var entries []grid.AuditEntry
	for rows.Next() {
		var (
			e           grid.AuditEntry
			description sql.NullString
			editedBy    sql.NullString
			createdAt   string
		)
		if err := rows.Scan(&e.ID, &e.EmployeeName, &e.Type, &description,
			&e.Slot, &e.Action, &editedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		e.Description = description.String
		e.EditedBy = editedBy.String
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear truncates the audit trail.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM activity_log")
	return err
}

// =============================================================================
// EMPLOYEE STORE (roster.Store interface)
// =============================================================================

// List returns the roster ordered by name.
func (s *Store) List(ctx context.Context) ([]roster.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, COALESCE(password, '') FROM employees ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []roster.Employee
	for rows.Next() {
		var emp roster.Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Password); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// Save upserts an employee by id. A name held by a different id fails
// with roster.ErrDuplicateName.
func (s *Store) Save(ctx context.Context, emp roster.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, password, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			password = excluded.password
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Password,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return roster.ErrDuplicateName
		}
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID, or nil when absent.
func (s *Store) GetEmployee(ctx context.Context, id string) (*roster.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var emp roster.Employee
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, COALESCE(password, '') FROM employees WHERE id = ?", id,
	).Scan(&emp.ID, &emp.Name, &emp.Password)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// DeleteEmployee removes an employee and cascades over every activity
// cell recorded under the id, archiving them first. One transaction per
// employee; returns the number of cells removed.
func (s *Store) DeleteEmployee(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := archiveCells(ctx, tx, "employee_id = ?", id); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM activities WHERE employee_id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete activities: %w", err)
	}
	removed, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id); err != nil {
		return 0, fmt.Errorf("failed to delete employee: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(removed), nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"activities", "activity_archive", "activity_log", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
