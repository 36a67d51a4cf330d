package grid

// =============================================================================
// DAY SNAPSHOT - Explicit read context for one timesheet day
// =============================================================================
// A DaySnapshot is reconstructed from CellStore.ListForDate and passed to
// whoever needs it (aggregation, export, rendering). It is a transient
// read model: the store stays the durable source of truth, and there is
// deliberately no long-lived ambient cache behind it.

// DayMap is the two-level cell mapping for one day.
type DayMap map[EmployeeID]map[TimeSlot]Cell

// DaySnapshot holds every cell recorded for a single date.
type DaySnapshot struct {
	Date  DateKey
	Cells DayMap
}

// BuildSnapshot folds store records into a snapshot. Later records for
// the same key replace earlier ones, matching the store's upsert contract.
func BuildSnapshot(date DateKey, records []CellRecord) DaySnapshot {
	snap := DaySnapshot{Date: date, Cells: make(DayMap)}
	for _, r := range records {
		if r.Key.Date != date {
			continue
		}
		row := snap.Cells[r.Key.Employee]
		if row == nil {
			row = make(map[TimeSlot]Cell)
			snap.Cells[r.Key.Employee] = row
		}
		row[r.Key.Slot] = r.Cell
	}
	return snap
}

// Cell looks up a single cell in the snapshot.
func (s DaySnapshot) Cell(emp EmployeeID, slot TimeSlot) (Cell, bool) {
	c, ok := s.Cells[emp][slot]
	return c, ok
}

// EmployeeCells returns the slot row for one employee (may be nil).
func (s DaySnapshot) EmployeeCells(emp EmployeeID) map[TimeSlot]Cell {
	return s.Cells[emp]
}
