/*
errors.go - Centralized error types for the grid engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The API layer maps these onto HTTP status codes.

ERROR CATEGORIES:
  1. Validation errors - rejected before any store write
  2. Store errors     - surfaced unwrapped from the cell store (connectivity)

USAGE:
  if grid.IsValidation(err) {
      // 400, nothing was written
  }

SEE ALSO:
  - editor.go: Validates before issuing writes
  - api/handlers.go: HTTP status mapping
*/
package grid

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDateKey is returned for date keys not shaped "YYYY-MM-DD".
	ErrInvalidDateKey = errors.New("invalid date key, want YYYY-MM-DD")

	// ErrSlotNotFound is returned when a slot label is not in the catalog.
	ErrSlotNotFound = errors.New("time slot not in catalog")

	// ErrInvalidRange is returned when a range start comes after its end.
	ErrInvalidRange = errors.New("invalid slot range: start after end")

	// ErrInvalidRangeType is returned when a range operation is attempted
	// with a type other than leave or permission.
	ErrInvalidRangeType = errors.New("range operations accept leave or permission only")

	// ErrMissingType is returned for writes with an empty or unknown type.
	ErrMissingType = errors.New("missing or unknown activity type")

	// ErrMissingDescription is returned when a type that requires a
	// description is written without one.
	ErrMissingDescription = errors.New("description required for this activity type")

	// ErrMissingReason is the permission-specific description error:
	// a permission mark without a stated reason is rejected.
	ErrMissingReason = errors.New("permission requires a reason")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RangeError reports an inverted slot range with the resolved indices.
type RangeError struct {
	Start      TimeSlot
	End        TimeSlot
	StartIndex int
	EndIndex   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid slot range %s..%s (index %d > %d)",
		e.Start, e.End, e.StartIndex, e.EndIndex)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// SlotError reports an unknown slot label.
type SlotError struct {
	Slot TimeSlot
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("unknown time slot %q", e.Slot)
}

func (e *SlotError) Unwrap() error { return ErrSlotNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error was raised before any store
// write: the caller can report it and assume no state changed.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidDateKey) ||
		errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidRangeType) ||
		errors.Is(err, ErrMissingType) ||
		errors.Is(err, ErrMissingDescription) ||
		errors.Is(err, ErrMissingReason)
}
