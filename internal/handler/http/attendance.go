package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/storeshift/hris-backend-go/internal/domain/roster"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/handler/http/response"
	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	// Rosters
	CreateRoster(w http.ResponseWriter, r *http.Request)
	GetRosterForDate(w http.ResponseWriter, r *http.Request)
	RemoveEmployee(w http.ResponseWriter, r *http.Request)
	ReplaceEntries(w http.ResponseWriter, r *http.Request)

	// Attendance
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)

	// Reports
	GetMonthly(w http.ResponseWriter, r *http.Request)
	GetMonthlySummary(w http.ResponseWriter, r *http.Request)
	GetSchedule(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	rosterService roster.RosterService
	aggregator    roster.Aggregator
}

func NewAttendanceHandler(rosterService roster.RosterService, aggregator roster.Aggregator) AttendanceHandler {
	return &attendanceHandlerImpl{
		rosterService: rosterService,
		aggregator:    aggregator,
	}
}

// CreateRoster implements AttendanceHandler.
func (h *attendanceHandlerImpl) CreateRoster(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req roster.CreateRosterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.rosterService.CreateRoster(r.Context(), p, req)
	response.CreatedOutcome(w, r, result, err)
}

// GetRosterForDate implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetRosterForDate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	branchID, ok := branchScope(w, r, p)
	if !ok {
		return
	}

	result, err := h.aggregator.GetRosterForDate(r.Context(), branchID, chi.URLParam(r, "date"))
	response.Outcome(w, r, result, err)
}

// RemoveEmployee implements AttendanceHandler.
func (h *attendanceHandlerImpl) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req roster.RemoveEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.rosterService.RemoveEmployeeFromRoster(r.Context(), p, chi.URLParam(r, "id"), req.EmployeeID)
	response.Outcome(w, r, result, err)
}

// ReplaceEntries implements AttendanceHandler.
func (h *attendanceHandlerImpl) ReplaceEntries(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req roster.ReplaceEntriesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.rosterService.ReplaceRosterEntries(r.Context(), p, chi.URLParam(r, "id"), req)
	response.Outcome(w, r, result, err)
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req roster.ClockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.rosterService.ClockIn(r.Context(), p, req)
	response.Outcome(w, r, result, err)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req roster.ClockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.rosterService.ClockOut(r.Context(), p, req)
	response.Outcome(w, r, result, err)
}

// GetMonthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMonthly(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	branchID, ok := branchScope(w, r, p)
	if !ok {
		return
	}

	year, month, err := validator.ParseYearMonth(chi.URLParam(r, "month"))
	if err != nil {
		response.ValidationError(w, map[string]string{"month": "month must be in YYYY-MM format"})
		return
	}

	result, err := h.aggregator.GetMonthlyRosters(r.Context(), branchID, month, year)
	response.Outcome(w, r, result, err)
}

// GetMonthlySummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	branchID, ok := branchScope(w, r, p)
	if !ok {
		return
	}

	year, month, err := validator.ParseYearMonth(chi.URLParam(r, "month"))
	if err != nil {
		response.ValidationError(w, map[string]string{"month": "month must be in YYYY-MM format"})
		return
	}

	result, err := h.aggregator.GetMonthlySummary(r.Context(), branchID, month, year)
	response.Outcome(w, r, result, err)
}

// GetSchedule implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetSchedule(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	employeeID := strings.TrimSpace(chi.URLParam(r, "employeeID"))
	if p.Role == user.RoleEmployee && employeeID != p.ID {
		response.Forbidden(w, roster.ErrScheduleAccessDenied.Error())
		return
	}

	branchID, ok := branchScope(w, r, p)
	if !ok {
		return
	}

	result, err := h.aggregator.GetEmployeeSchedule(r.Context(), branchID, employeeID)
	response.Outcome(w, r, result, err)
}
