/*
editor.go - The leave/permission state machine

PURPOSE:
  The Editor is the single mutation path into the day grid. It validates
  every write before the first store call, enforces the full-day-leave
  invariant, decomposes range operations into per-slot sagas, and pairs
  each successful mutation with an audit entry.

STATES (per date+employee):
  Normal:       zero or more independent cells
  FullDayLeave: the marker cell sits at the first slot and every other
                slot is empty

TRANSITIONS:
  MarkFullDayLeave:  Normal -> FullDayLeave. Writes the marker, then
                     clears every other slot in catalog order. Leave
                     always wins: existing activity is overwritten.
  ClearFullDayLeave: FullDayLeave -> Normal. Deletes the marker only;
                     the other slots are already empty by the invariant.

SAGA SEMANTICS:
  Range and full-day operations are ordered sequences of independent
  single-cell calls. There is no rollback and no compensation: a store
  failure partway through surfaces as that slot's error, and the slots
  already processed stay committed. Callers needing stronger guarantees
  must wrap the store in a backend transaction themselves.

VALIDATION:
  All validation errors (grid.IsValidation) are raised before any write,
  so a rejected operation performs zero mutations.

SEE ALSO:
  - store.go: The interfaces the editor drives
  - errors.go: The validation taxonomy
*/
package grid

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Attribution identifies the actor and the row owner for audit entries.
type Attribution struct {
	EmployeeName string // whose row was edited
	EditedBy     string // who performed the edit
}

// Editor drives all grid mutations through a CellStore + AuditLog pair.
type Editor struct {
	cells CellStore
	audit AuditLog
	now   func() time.Time
}

func NewEditor(cells CellStore, audit AuditLog) *Editor {
	return &Editor{cells: cells, audit: audit, now: time.Now}
}

// =============================================================================
// SINGLE-CELL OPERATIONS
// =============================================================================

// SetActivity validates and upserts one cell, then logs the change.
func (e *Editor) SetActivity(ctx context.Context, key CellKey, cell Cell, by Attribution) error {
	if err := validateCell(cell); err != nil {
		return err
	}
	if _, ok := SlotIndex(key.Slot); !ok {
		return &SlotError{Slot: key.Slot}
	}

	// Pages only live on page-range types.
	if !cell.Type.Traits().PageRange {
		cell.StartPage, cell.EndPage = nil, nil
	}
	cell.UpdatedAt = e.now()

	action := AuditAdded
	if existing, err := e.cells.Get(ctx, key); err == nil && existing != nil {
		action = AuditUpdated
	}

	if err := e.cells.Set(ctx, key, cell); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	e.appendAudit(ctx, key.Slot, cell, action, by)
	return nil
}

// ClearActivity removes one cell. Clearing an absent cell succeeds and
// is not logged.
func (e *Editor) ClearActivity(ctx context.Context, key CellKey, by Attribution) error {
	existing, err := e.cells.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if existing == nil {
		return nil
	}

	if err := e.cells.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	e.appendAudit(ctx, key.Slot, *existing, AuditCleared, by)
	return nil
}

// IsOnFullDayLeave checks the durable store for the day marker.
func (e *Editor) IsOnFullDayLeave(ctx context.Context, date DateKey, emp EmployeeID) (bool, error) {
	cell, err := e.cells.Get(ctx, CellKey{Date: date, Employee: emp, Slot: FirstSlot()})
	if err != nil {
		return false, err
	}
	return cell != nil && cell.IsFullDayLeave(), nil
}

// =============================================================================
// FULL-DAY LEAVE TRANSITIONS
// =============================================================================

// MarkFullDayLeave writes the marker cell at the first slot and then
// clears every other slot in catalog order. Existing activity in those
// slots is unconditionally discarded. Each slot call is independent: on
// failure the error is returned and already-cleared slots stay cleared.
func (e *Editor) MarkFullDayLeave(ctx context.Context, date DateKey, emp EmployeeID, by Attribution) error {
	marker := Cell{
		Type:        ActivityLeave,
		Description: FullDayLeaveText,
		UpdatedAt:   e.now(),
	}
	first := CellKey{Date: date, Employee: emp, Slot: FirstSlot()}

	action := AuditAdded
	if existing, err := e.cells.Get(ctx, first); err == nil && existing != nil {
		action = AuditUpdated
	}
	if err := e.cells.Set(ctx, first, marker); err != nil {
		return fmt.Errorf("set %s: %w", first, err)
	}
	e.appendAudit(ctx, first.Slot, marker, action, by)

	for _, slot := range Slots() {
		if slot == FirstSlot() {
			continue
		}
		key := CellKey{Date: date, Employee: emp, Slot: slot}
		if err := e.ClearActivity(ctx, key, by); err != nil {
			return err
		}
	}
	return nil
}

// ClearFullDayLeave deletes the first-slot marker only. By the invariant
// every other slot is already empty, so no further action is needed.
func (e *Editor) ClearFullDayLeave(ctx context.Context, date DateKey, emp EmployeeID, by Attribution) error {
	return e.ClearActivity(ctx, CellKey{Date: date, Employee: emp, Slot: FirstSlot()}, by)
}

// =============================================================================
// RANGE OPERATIONS
// =============================================================================

// RangeRequest describes a contiguous leave/permission mark.
type RangeRequest struct {
	Date        DateKey
	Employee    EmployeeID
	Start       TimeSlot
	End         TimeSlot
	Type        ActivityType // ActivityLeave or ActivityPermission
	Description string
	FullDay     bool // bypasses the range and marks the whole day as leave
}

// MarkRange writes an identical cell to every slot in [Start, End] in
// ascending catalog order. Validation happens before the first write;
// a store failure partway leaves the prefix committed.
func (e *Editor) MarkRange(ctx context.Context, req RangeRequest, by Attribution) error {
	// The full-day checkbox wins over any start/end selection.
	if req.FullDay {
		return e.MarkFullDayLeave(ctx, req.Date, req.Employee, by)
	}

	if req.Type != ActivityLeave && req.Type != ActivityPermission {
		return ErrInvalidRangeType
	}
	if req.Type == ActivityPermission && req.Description == "" {
		return ErrMissingReason
	}

	si, ok := SlotIndex(req.Start)
	if !ok {
		return &SlotError{Slot: req.Start}
	}
	ei, ok := SlotIndex(req.End)
	if !ok {
		return &SlotError{Slot: req.End}
	}
	if si > ei {
		return &RangeError{Start: req.Start, End: req.End, StartIndex: si, EndIndex: ei}
	}

	slots := Slots()
	for i := si; i <= ei; i++ {
		key := CellKey{Date: req.Date, Employee: req.Employee, Slot: slots[i]}
		cell := Cell{Type: req.Type, Description: req.Description, UpdatedAt: e.now()}

		action := AuditAdded
		if existing, err := e.cells.Get(ctx, key); err == nil && existing != nil {
			action = AuditUpdated
		}
		if err := e.cells.Set(ctx, key, cell); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		e.appendAudit(ctx, key.Slot, cell, action, by)
	}
	return nil
}

// =============================================================================
// AUDIT PAIRING
// =============================================================================

// appendAudit logs a successful mutation. The cell write is the source
// of truth; a failed append is logged and swallowed.
func (e *Editor) appendAudit(ctx context.Context, slot TimeSlot, cell Cell, action AuditAction, by Attribution) {
	if e.audit == nil {
		return
	}
	entry := AuditEntry{
		ID:           uuid.NewString(),
		EmployeeName: by.EmployeeName,
		Type:         cell.Type,
		Description:  cell.Description,
		Slot:         slot,
		Action:       action,
		EditedBy:     by.EditedBy,
		CreatedAt:    e.now(),
	}
	if err := e.audit.Append(ctx, entry); err != nil {
		log.Printf("audit append failed for slot %s: %v", slot, err)
	}
}

// validateCell applies the trait table before any write.
func validateCell(cell Cell) error {
	if cell.Type == "" || !cell.Type.Valid() {
		return ErrMissingType
	}
	t := cell.Type.Traits()
	if t.RequiresDescription && cell.Description == "" {
		if cell.Type == ActivityPermission {
			return ErrMissingReason
		}
		return ErrMissingDescription
	}
	return nil
}
