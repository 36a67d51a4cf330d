/*
export.go - CSV rendering of one day's grid

PURPOSE:
  GET /api/export?dateKey= renders the day grid as a spreadsheet: one
  row per roster employee, one column per catalog slot, then the page
  totals and utilization computed by the aggregation engine. Employees
  on full-day leave get a leave marker instead of totals.
*/
package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lokeswaran22/time/grid"
)

// Export writes the day grid as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	date, err := grid.ParseDateKey(r.URL.Query().Get("dateKey"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dateKey", err)
		return
	}

	employees, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	records, err := h.Store.ListForDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load day", err)
		return
	}
	snap := grid.BuildSnapshot(date, records)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "timesheet-"+string(date)+".csv"))

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"Employee"}
	for _, slot := range grid.Slots() {
		header = append(header, string(slot))
	}
	header = append(header, "Proof", "EPub", "Calibr", "Utilization %")
	cw.Write(header)

	for _, emp := range employees {
		id := grid.EmployeeID(emp.ID)
		row := []string{emp.Name}

		if grid.IsOnFullDayLeave(snap, id) {
			for range grid.Slots() {
				row = append(row, grid.FullDayLeaveText)
			}
			row = append(row, "0", "0", "0", "0")
			cw.Write(row)
			continue
		}

		for _, slot := range grid.Slots() {
			row = append(row, renderCell(snap, id, slot))
		}
		totals := grid.ComputeTotals(snap, id)
		row = append(row,
			strconv.Itoa(totals.Proof),
			strconv.Itoa(totals.EPub),
			strconv.Itoa(totals.Calibr),
			grid.Utilization(snap, id).String(),
		)
		cw.Write(row)
	}
}

func renderCell(snap grid.DaySnapshot, emp grid.EmployeeID, slot grid.TimeSlot) string {
	cell, ok := snap.Cell(emp, slot)
	if !ok {
		return ""
	}
	if pages := cell.PagesDone(); pages > 0 {
		return fmt.Sprintf("%s %d-%d", cell.Type, *cell.StartPage, *cell.EndPage)
	}
	if cell.Description != "" {
		return fmt.Sprintf("%s: %s", cell.Type, cell.Description)
	}
	return string(cell.Type)
}
