/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the grid editor, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/lokeswaran22/time/grid"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses. The password is
// deliberately never serialized.
type EmployeeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateEmployeeRequest upserts an employee, optionally bundling an
// opaque credential blob for the external user store.
type CreateEmployeeRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

// =============================================================================
// ACTIVITIES
// =============================================================================

// CellDTO represents one activity cell with its derived page count.
type CellDTO struct {
	DateKey     string `json:"date_key"`
	EmployeeID  string `json:"employee_id"`
	TimeSlot    string `json:"time_slot"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	StartPage   *int   `json:"start_page,omitempty"`
	EndPage     *int   `json:"end_page,omitempty"`
	PagesDone   int    `json:"pages_done"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

func toCellDTO(key grid.CellKey, cell grid.Cell) CellDTO {
	dto := CellDTO{
		DateKey:     string(key.Date),
		EmployeeID:  string(key.Employee),
		TimeSlot:    string(key.Slot),
		Type:        string(cell.Type),
		Description: cell.Description,
		StartPage:   cell.StartPage,
		EndPage:     cell.EndPage,
		PagesDone:   cell.PagesDone(),
	}
	if !cell.UpdatedAt.IsZero() {
		dto.UpdatedAt = cell.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// SetActivityRequest upserts one cell, identified by the triple in the body.
type SetActivityRequest struct {
	DateKey      string `json:"date_key"`
	EmployeeID   string `json:"employee_id"`
	TimeSlot     string `json:"time_slot"`
	Type         string `json:"type"`
	Description  string `json:"description,omitempty"`
	StartPage    *int   `json:"start_page,omitempty"`
	EndPage      *int   `json:"end_page,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	EditedBy     string `json:"edited_by,omitempty"`
}

// DeleteActivityRequest removes one cell, identified by the triple in the body.
type DeleteActivityRequest struct {
	DateKey      string `json:"date_key"`
	EmployeeID   string `json:"employee_id"`
	TimeSlot     string `json:"time_slot"`
	EmployeeName string `json:"employee_name,omitempty"`
	EditedBy     string `json:"edited_by,omitempty"`
}

// MarkRangeRequest marks a contiguous slot range as leave or permission.
// full_day bypasses the range and marks the whole day as leave.
type MarkRangeRequest struct {
	DateKey      string `json:"date_key"`
	EmployeeID   string `json:"employee_id"`
	StartSlot    string `json:"start_slot"`
	EndSlot      string `json:"end_slot"`
	Type         string `json:"type"`
	Description  string `json:"description,omitempty"`
	FullDay      bool   `json:"full_day,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	EditedBy     string `json:"edited_by,omitempty"`
}

// FullDayLeaveRequest marks or clears full-day leave for one employee+day.
type FullDayLeaveRequest struct {
	DateKey      string `json:"date_key"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	EditedBy     string `json:"edited_by,omitempty"`
}

// TotalsDTO is the aggregation result for one employee+day.
type TotalsDTO struct {
	DateKey      string `json:"date_key"`
	EmployeeID   string `json:"employee_id"`
	Proof        int    `json:"proof_total"`
	EPub         int    `json:"epub_total"`
	Calibr       int    `json:"calibr_total"`
	FullDayLeave bool   `json:"full_day_leave"`
	Utilization  string `json:"utilization_percent"`
}

// =============================================================================
// ACTIVITY LOG
// =============================================================================

// LogEntryDTO represents one audit record.
type LogEntryDTO struct {
	ID           string `json:"id"`
	EmployeeName string `json:"employee_name"`
	Type         string `json:"activity_type"`
	Description  string `json:"description,omitempty"`
	TimeSlot     string `json:"time_slot"`
	Action       string `json:"action"`
	EditedBy     string `json:"edited_by,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// AppendLogRequest appends one audit record directly (import tooling).
type AppendLogRequest struct {
	EmployeeName string `json:"employee_name"`
	Type         string `json:"activity_type"`
	Description  string `json:"description,omitempty"`
	TimeSlot     string `json:"time_slot"`
	Action       string `json:"action"`
	EditedBy     string `json:"edited_by,omitempty"`
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// ReconcileReportDTO summarizes a roster sync run.
type ReconcileReportDTO struct {
	Removed           int      `json:"removed"`
	DuplicatesRemoved int      `json:"duplicates_removed"`
	Created           int      `json:"created"`
	CellsRemoved      int      `json:"cells_removed"`
	Errors            []string `json:"errors,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
