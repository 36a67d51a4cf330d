/*
handlers.go - HTTP API handlers for the timesheet grid

PURPOSE:
  Exposes the grid engine via REST. Handles HTTP request/response, JSON
  serialization, and delegates to the editor, aggregation, and roster
  reconciliation.

ENDPOINTS:
  Employees:
    GET    /api/employees               List roster (ordered by name)
    POST   /api/employees               Upsert employee (400 on duplicate name)
    DELETE /api/employees/{id}          Cascade-delete, returns removed cell count

  Activities:
    GET    /api/activities[?dateKey=]   Full or date-filtered grid
    POST   /api/activities              Upsert one cell (body-keyed)
    DELETE /api/activities              Remove one cell, archiving it first
    POST   /api/activities/range        Mark a leave/permission range
    POST   /api/activities/full-day-leave    Mark full-day leave
    DELETE /api/activities/full-day-leave    Clear full-day leave
    GET    /api/activities/totals       Per-employee page totals

  Audit:
    GET    /api/activity-log?limit=N
    POST   /api/activity-log
    DELETE /api/activity-log

  Admin:
    POST   /api/reconcile               Run roster sync
    GET    /api/export?dateKey=         CSV rendering of the day grid

ERROR HANDLING:
  - 400: Validation errors (rejected before any write), duplicate names
  - 404: Unknown employee
  - 500: Store failures; for multi-slot sagas the prefix already written
         stays committed (no rollback)

SECURITY NOTE:
  No authentication middleware. Credentials are opaque strings held for
  an external user store; visibility filtering is the caller's concern
  via roster.VisibleEmployees.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lokeswaran22/time/grid"
	"github.com/lokeswaran22/time/roster"
	"github.com/lokeswaran22/time/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Editor     *grid.Editor
	Reconciler *roster.Reconciler
}

// NewHandler creates a new handler around the given store.
func NewHandler(store *sqlite.Store, cfg roster.Config) *Handler {
	return &Handler{
		Store:      store,
		Editor:     grid.NewEditor(store, store),
		Reconciler: roster.NewReconciler(store, cfg),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns the roster ordered by name.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = EmployeeDTO{ID: e.ID, Name: e.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee upserts an employee. Duplicate names are rejected.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	emp := roster.Employee{ID: req.ID, Name: req.Name, Password: req.Password}
	if err := h.Store.Save(r.Context(), emp); err != nil {
		if errors.Is(err, roster.ErrDuplicateName) {
			writeError(w, http.StatusBadRequest, "Employee name already exists", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}

	writeJSON(w, http.StatusOK, EmployeeDTO{ID: emp.ID, Name: emp.Name})
}

// DeleteEmployee cascade-deletes an employee and reports how many
// activity cells went with it.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	removed, err := h.Store.DeleteEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"removed_activities": removed})
}

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// ListActivities returns the full or date-filtered grid.
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	var (
		records []grid.CellRecord
		err     error
	)

	if raw := r.URL.Query().Get("dateKey"); raw != "" {
		date, perr := grid.ParseDateKey(raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid dateKey", perr)
			return
		}
		records, err = h.Store.ListForDate(r.Context(), date)
	} else {
		records, err = h.Store.ListAll(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list activities", err)
		return
	}

	dtos := make([]CellDTO, len(records))
	for i, rec := range records {
		dtos[i] = toCellDTO(rec.Key, rec.Cell)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SetActivity upserts one cell through the editor.
func (h *Handler) SetActivity(w http.ResponseWriter, r *http.Request) {
	var req SetActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	key, by, ok := h.cellKey(w, req.DateKey, req.EmployeeID, req.TimeSlot, req.EmployeeName, req.EditedBy)
	if !ok {
		return
	}

	cell := grid.Cell{
		Type:        grid.ActivityType(req.Type),
		Description: req.Description,
		StartPage:   req.StartPage,
		EndPage:     req.EndPage,
	}
	if err := h.Editor.SetActivity(r.Context(), key, cell, by); err != nil {
		writeEditorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCellDTO(key, cell))
}

// DeleteActivity removes one cell; the store archives it first.
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	var req DeleteActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	key, by, ok := h.cellKey(w, req.DateKey, req.EmployeeID, req.TimeSlot, req.EmployeeName, req.EditedBy)
	if !ok {
		return
	}

	if err := h.Editor.ClearActivity(r.Context(), key, by); err != nil {
		writeEditorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// MarkRange marks a contiguous slot range as leave or permission.
func (h *Handler) MarkRange(w http.ResponseWriter, r *http.Request) {
	var req MarkRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := grid.ParseDateKey(req.DateKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dateKey", err)
		return
	}

	rangeReq := grid.RangeRequest{
		Date:        date,
		Employee:    grid.EmployeeID(req.EmployeeID),
		Start:       grid.TimeSlot(req.StartSlot),
		End:         grid.TimeSlot(req.EndSlot),
		Type:        grid.ActivityType(req.Type),
		Description: req.Description,
		FullDay:     req.FullDay,
	}
	by := grid.Attribution{EmployeeName: req.EmployeeName, EditedBy: req.EditedBy}

	if err := h.Editor.MarkRange(r.Context(), rangeReq, by); err != nil {
		writeEditorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"marked": true})
}

// MarkFullDayLeave establishes the full-day-leave marker and clears the
// rest of the day.
func (h *Handler) MarkFullDayLeave(w http.ResponseWriter, r *http.Request) {
	var req FullDayLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := grid.ParseDateKey(req.DateKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dateKey", err)
		return
	}

	by := grid.Attribution{EmployeeName: req.EmployeeName, EditedBy: req.EditedBy}
	if err := h.Editor.MarkFullDayLeave(r.Context(), date, grid.EmployeeID(req.EmployeeID), by); err != nil {
		writeEditorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"full_day_leave": true})
}

// ClearFullDayLeave deletes the first-slot marker only.
func (h *Handler) ClearFullDayLeave(w http.ResponseWriter, r *http.Request) {
	var req FullDayLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := grid.ParseDateKey(req.DateKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dateKey", err)
		return
	}

	by := grid.Attribution{EmployeeName: req.EmployeeName, EditedBy: req.EditedBy}
	if err := h.Editor.ClearFullDayLeave(r.Context(), date, grid.EmployeeID(req.EmployeeID), by); err != nil {
		writeEditorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"full_day_leave": false})
}

// GetTotals computes the per-employee page totals for one day.
func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	date, err := grid.ParseDateKey(r.URL.Query().Get("dateKey"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dateKey", err)
		return
	}
	empID := grid.EmployeeID(r.URL.Query().Get("employeeId"))
	if empID == "" {
		writeError(w, http.StatusBadRequest, "employeeId is required", nil)
		return
	}

	records, err := h.Store.ListForDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load day", err)
		return
	}

	snap := grid.BuildSnapshot(date, records)
	totals := grid.ComputeTotals(snap, empID)

	writeJSON(w, http.StatusOK, TotalsDTO{
		DateKey:      string(date),
		EmployeeID:   string(empID),
		Proof:        totals.Proof,
		EPub:         totals.EPub,
		Calibr:       totals.Calibr,
		FullDayLeave: grid.IsOnFullDayLeave(snap, empID),
		Utilization:  grid.Utilization(snap, empID).String(),
	})
}

// =============================================================================
// ACTIVITY LOG HANDLERS
// =============================================================================

// GetActivityLog returns recent audit entries, newest first.
func (h *Handler) GetActivityLog(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	entries, err := h.Store.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query log", err)
		return
	}

	dtos := make([]LogEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = LogEntryDTO{
			ID:           e.ID,
			EmployeeName: e.EmployeeName,
			Type:         string(e.Type),
			Description:  e.Description,
			TimeSlot:     string(e.Slot),
			Action:       string(e.Action),
			EditedBy:     e.EditedBy,
			CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AppendActivityLog appends one audit entry directly.
func (h *Handler) AppendActivityLog(w http.ResponseWriter, r *http.Request) {
	var req AppendLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeName == "" || req.Action == "" {
		writeError(w, http.StatusBadRequest, "employee_name and action are required", nil)
		return
	}

	entry := grid.AuditEntry{
		ID:           uuid.NewString(),
		EmployeeName: req.EmployeeName,
		Type:         grid.ActivityType(req.Type),
		Description:  req.Description,
		Slot:         grid.TimeSlot(req.TimeSlot),
		Action:       grid.AuditAction(req.Action),
		EditedBy:     req.EditedBy,
		CreatedAt:    time.Now(),
	}
	if err := h.Store.Append(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to append log entry", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": entry.ID})
}

// ClearActivityLog truncates the audit trail (admin).
func (h *Handler) ClearActivityLog(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear log", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// Reconcile runs the roster sync and returns its report.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reconciler.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Reconciliation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, ReconcileReportDTO{
		Removed:           report.Removed,
		DuplicatesRemoved: report.DuplicatesRemoved,
		Created:           report.Created,
		CellsRemoved:      report.CellsRemoved,
		Errors:            report.Errors,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) cellKey(w http.ResponseWriter, rawDate, empID, slot, empName, editedBy string) (grid.CellKey, grid.Attribution, bool) {
	date, err := grid.ParseDateKey(rawDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dateKey", err)
		return grid.CellKey{}, grid.Attribution{}, false
	}
	if empID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", nil)
		return grid.CellKey{}, grid.Attribution{}, false
	}

	key := grid.CellKey{
		Date:     date,
		Employee: grid.EmployeeID(empID),
		Slot:     grid.TimeSlot(slot),
	}
	by := grid.Attribution{EmployeeName: empName, EditedBy: editedBy}
	return key, by, true
}

// writeEditorError maps editor failures: validation errors were rejected
// before any write (400); everything else is a store failure (500) and,
// for sagas, may leave a committed prefix behind.
func writeEditorError(w http.ResponseWriter, err error) {
	if grid.IsValidation(err) {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	writeError(w, http.StatusInternalServerError, "Store operation failed", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
