/*
store.go - Persistence interfaces for activity cells and the audit trail

PURPOSE:
  Defines the boundary between the grid engine and the durable store.
  The engine only ever issues single-cell operations; multi-slot work
  (ranges, full-day leave) decomposes into sequences of these calls with
  no cross-call atomicity. Implementations may wrap an individual call in
  a local transaction for their own integrity needs; that is invisible
  here.

KEY INTERFACES:
  CellStore: Single-cell get/set/delete plus a per-day listing
  AuditLog:  Append-only trail of who changed what

UPSERT CONTRACT:
  Set is an idempotent upsert keyed by the (date, employee, slot) triple.
  Two writes to the same key leave exactly one cell: last write wins, with
  no conflict detection. Delete of an absent cell is a successful no-op.

AUDIT PAIRING:
  The store does not log. The editor pairs every successful set/delete
  with an AuditEntry append; an audit failure never fails the mutation.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - grid/store/memory.go:   In-memory for testing

SEE ALSO:
  - editor.go: The only caller that mutates through this interface
*/
package grid

import (
	"context"
	"time"
)

// =============================================================================
// CELL STORE - Durable source of truth for the day grid
// =============================================================================

type CellStore interface {
	// Get returns the cell at key, or nil when absent.
	Get(ctx context.Context, key CellKey) (*Cell, error)

	// Set upserts the cell at key, replacing any existing cell there.
	Set(ctx context.Context, key CellKey, cell Cell) error

	// Delete removes the cell at key. No-op when absent.
	Delete(ctx context.Context, key CellKey) error

	// ListForDate returns every cell recorded for the given day.
	ListForDate(ctx context.Context, date DateKey) ([]CellRecord, error)
}

// =============================================================================
// AUDIT LOG - Append-only change trail
// =============================================================================

type AuditAction string

const (
	AuditAdded   AuditAction = "added"
	AuditUpdated AuditAction = "updated"
	AuditCleared AuditAction = "cleared"
)

// AuditEntry records one successful cell write or clear. Never mutated.
type AuditEntry struct {
	ID           string
	EmployeeName string
	Type         ActivityType
	Description  string
	Slot         TimeSlot
	Action       AuditAction
	EditedBy     string
	CreatedAt    time.Time
}

type AuditLog interface {
	Append(ctx context.Context, entry AuditEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]AuditEntry, error)

	// Clear truncates the trail (administrative clear-all).
	Clear(ctx context.Context) error
}
