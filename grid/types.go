/*
Package grid provides the core daily timesheet engine.

PURPOSE:
  This package contains the domain types and algorithms for a single day's
  activity grid: employees down the side, thirteen fixed time slots across,
  and at most one activity cell per (date, employee, slot). The same engine
  handles per-slot edits, full-day-leave enforcement, multi-slot range
  marking, and page-total aggregation.

KEY CONCEPTS IN THIS FILE (types.go):
  - DateKey: Canonical "YYYY-MM-DD" identifier for a timesheet day
  - ActivityType: Closed set of activity kinds (work, proof, leave, ...)
  - Traits: Per-type validation/aggregation behavior, as data not code
  - Cell: What one employee did during one slot on one day
  - CellKey: The (date, employee, slot) triple addressing a single cell

DESIGN PRINCIPLES:
  1. One cell per key: writes replace, never duplicate
  2. Closed enumeration: activity behavior comes from a trait table,
     not from string comparisons scattered through the code
  3. Defensive derivation: PagesDone never panics, garbage counts as zero
  4. Type Safety: Strong typing for keys prevents mixing ids and slots

USAGE:
  cell := grid.Cell{Type: grid.ActivityProof, StartPage: grid.Page(10), EndPage: grid.Page(19)}
  cell.PagesDone() // 10

SEE ALSO:
  - slots.go: The fixed slot catalog
  - editor.go: The leave/permission state machine
  - totals.go: Page-total aggregation
*/
package grid

import (
	"fmt"
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// DateKey identifies a timesheet day as "YYYY-MM-DD".
type DateKey string

// ParseDateKey validates a raw string as a date key.
func ParseDateKey(s string) (DateKey, error) {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateKey, s)
	}
	return DateKey(s), nil
}

func (d DateKey) String() string { return string(d) }

// EmployeeID is an opaque employee identifier.
type EmployeeID string

// TimeSlot is one of the thirteen fixed slot labels (see slots.go).
type TimeSlot string

// =============================================================================
// ACTIVITY TYPES - Closed tagged enumeration with a trait table
// =============================================================================

type ActivityType string

const (
	ActivityWork       ActivityType = "work"
	ActivityBreak      ActivityType = "break"
	ActivityLunch      ActivityType = "lunch"
	ActivityMeeting    ActivityType = "meeting"
	ActivityProof      ActivityType = "proof"
	ActivityEPub       ActivityType = "epub"
	ActivityCalibr     ActivityType = "calibr"
	ActivityLeave      ActivityType = "leave"
	ActivityPermission ActivityType = "permission"
)

// FullDayLeaveText is the sentinel description that, combined with
// ActivityLeave at the first catalog slot, marks an entire day as leave.
const FullDayLeaveText = "FULL_DAY_LEAVE"

// Traits describes how an activity type behaves. All type-dependent
// validation and aggregation reads from this table.
type Traits struct {
	// RequiresDescription rejects writes with an empty description.
	RequiresDescription bool

	// PageRange marks types that carry a start/end page pair.
	// Other types never store pages (pages are stripped on write).
	PageRange bool

	// CountsPages marks types whose pages feed the day totals.
	CountsPages bool

	// Worked marks types that count toward slot utilization.
	Worked bool
}

var activityTraits = map[ActivityType]Traits{
	ActivityWork:       {RequiresDescription: true, Worked: true},
	ActivityBreak:      {},
	ActivityLunch:      {},
	ActivityMeeting:    {RequiresDescription: true, Worked: true},
	ActivityProof:      {PageRange: true, CountsPages: true, Worked: true},
	ActivityEPub:       {PageRange: true, CountsPages: true, Worked: true},
	ActivityCalibr:     {PageRange: true, CountsPages: true, Worked: true},
	ActivityLeave:      {},
	ActivityPermission: {RequiresDescription: true},
}

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	_, ok := activityTraits[t]
	return ok
}

// Traits returns the behavior table entry for t. Unknown types get the
// zero Traits, which is the most restrictive behavior.
func (t ActivityType) Traits() Traits {
	return activityTraits[t]
}

// ActivityTypes returns all known types in a stable order.
func ActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityWork, ActivityBreak, ActivityLunch, ActivityMeeting,
		ActivityProof, ActivityEPub, ActivityCalibr,
		ActivityLeave, ActivityPermission,
	}
}

// =============================================================================
// CELL - The unit of state
// =============================================================================

// Cell records what an employee did during one slot.
type Cell struct {
	Type        ActivityType
	Description string

	// Page bounds, present only for page-range types.
	StartPage *int
	EndPage   *int

	// Last-write instant.
	UpdatedAt time.Time
}

// Page is a convenience constructor for optional page bounds.
func Page(n int) *int { return &n }

// PagesDone derives the inclusive page count. It is zero unless the type
// counts pages, both bounds are present, and the range is not inverted.
func (c Cell) PagesDone() int {
	if !c.Type.Traits().CountsPages {
		return 0
	}
	if c.StartPage == nil || c.EndPage == nil {
		return 0
	}
	n := *c.EndPage - *c.StartPage + 1
	if n < 0 {
		return 0
	}
	return n
}

// IsFullDayLeave reports whether this cell is the full-day-leave marker.
// Only meaningful for the cell at the first catalog slot.
func (c Cell) IsFullDayLeave() bool {
	return c.Type == ActivityLeave && c.Description == FullDayLeaveText
}

// =============================================================================
// CELL KEY - Addressing
// =============================================================================

// CellKey addresses a single cell. At most one cell exists per key;
// a write replaces, never duplicates.
type CellKey struct {
	Date     DateKey
	Employee EmployeeID
	Slot     TimeSlot
}

func (k CellKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Date, k.Employee, k.Slot)
}

// CellRecord pairs a key with its cell, as returned by store listings.
type CellRecord struct {
	Key  CellKey
	Cell Cell
}
