/*
totals.go - Page-total aggregation over a day snapshot

PURPOSE:
  Computes per-employee page totals by activity category, plus the
  derived utilization figures used by the export report. Aggregation is
  pure: it reads a DaySnapshot and never touches the store.

ALGORITHM:
  If the employee is on full-day leave the totals are all zero - the
  render layer shows a leave marker instead, and any residual cells in
  other slots are ignored rather than summed. Otherwise the thirteen
  catalog slots are walked in order and each present cell contributes
  its PagesDone to the bucket matching its type.

DEFENSIVENESS:
  Aggregation never fails. Missing cells, non-paginated types, absent
  page bounds and inverted ranges all contribute zero.

SEE ALSO:
  - daymap.go: The snapshot being aggregated
  - api/export.go: Consumes Totals and Utilization
*/
package grid

import "github.com/shopspring/decimal"

// Totals is the per-employee page summary for one day.
type Totals struct {
	Proof  int
	EPub   int
	Calibr int
}

// IsOnFullDayLeave reports whether the snapshot holds the full-day-leave
// marker for emp: a leave cell with the fixed sentinel description at the
// first catalog slot. Residual cells in other slots do not affect this.
func IsOnFullDayLeave(day DaySnapshot, emp EmployeeID) bool {
	c, ok := day.Cell(emp, FirstSlot())
	return ok && c.IsFullDayLeave()
}

// ComputeTotals sums pages done per category across the day's slots.
func ComputeTotals(day DaySnapshot, emp EmployeeID) Totals {
	var totals Totals
	if IsOnFullDayLeave(day, emp) {
		return totals
	}

	for _, slot := range Slots() {
		cell, ok := day.Cell(emp, slot)
		if !ok {
			continue
		}
		pages := cell.PagesDone()
		if pages == 0 {
			continue
		}
		switch cell.Type {
		case ActivityProof:
			totals.Proof += pages
		case ActivityEPub:
			totals.EPub += pages
		case ActivityCalibr:
			totals.Calibr += pages
		}
	}
	return totals
}

// Total is the sum over all categories.
func (t Totals) Total() int { return t.Proof + t.EPub + t.Calibr }

// =============================================================================
// UTILIZATION - Derived report figures
// =============================================================================

var hundred = decimal.NewFromInt(100)

// Utilization returns the percentage of catalog slots holding a worked
// activity, rounded to one decimal place. Full-day leave is 0%.
func Utilization(day DaySnapshot, emp EmployeeID) decimal.Decimal {
	if IsOnFullDayLeave(day, emp) {
		return decimal.Zero
	}

	worked := 0
	for _, slot := range Slots() {
		if cell, ok := day.Cell(emp, slot); ok && cell.Type.Traits().Worked {
			worked++
		}
	}

	return decimal.NewFromInt(int64(worked)).
		Div(decimal.NewFromInt(int64(SlotCount()))).
		Mul(hundred).
		Round(1)
}

// PagesPerWorkedSlot returns the average pages produced per worked slot,
// rounded to two decimal places. Zero when no slots are worked.
func PagesPerWorkedSlot(day DaySnapshot, emp EmployeeID) decimal.Decimal {
	worked := 0
	for _, slot := range Slots() {
		if cell, ok := day.Cell(emp, slot); ok && cell.Type.Traits().Worked {
			worked++
		}
	}
	if worked == 0 {
		return decimal.Zero
	}

	total := ComputeTotals(day, emp).Total()
	return decimal.NewFromInt(int64(total)).
		Div(decimal.NewFromInt(int64(worked))).
		Round(2)
}
