package roster

import (
	"strings"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/employee"
	"github.com/storeshift/hris-backend-go/internal/pkg/geo"
	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
)

// ========================================
// ROSTER DTOs
// ========================================

type EntryRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Shift      string `json:"shift" validate:"required"`
}

type CreateRosterRequest struct {
	Date string `json:"date" validate:"required,isodate"`
	// Owners pick the branch, managers always use their own.
	BranchID string         `json:"branch_id"`
	Entries  []EntryRequest `json:"entries" validate:"required,min=1,dive"`
}

func (r *CreateRosterRequest) Validate() error {
	r.Date = strings.TrimSpace(r.Date)
	r.BranchID = strings.TrimSpace(r.BranchID)
	trimEntries(r.Entries)
	return validator.Struct(r)
}

type ReplaceEntriesRequest struct {
	Entries []EntryRequest `json:"entries" validate:"required,dive"`
}

func (r *ReplaceEntriesRequest) Validate() error {
	trimEntries(r.Entries)
	return validator.Struct(r)
}

type RemoveEmployeeRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

func (r *RemoveEmployeeRequest) Validate() error {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	return validator.Struct(r)
}

type ClockRequest struct {
	RosterID  string   `json:"roster_id" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

func (r *ClockRequest) Validate() error {
	r.RosterID = strings.TrimSpace(r.RosterID)
	return validator.Struct(r)
}

func (r ClockRequest) Coordinate() geo.Coordinate {
	var c geo.Coordinate
	if r.Latitude != nil {
		c.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		c.Longitude = *r.Longitude
	}
	return c
}

func trimEntries(entries []EntryRequest) {
	for i := range entries {
		entries[i].EmployeeID = strings.TrimSpace(entries[i].EmployeeID)
		entries[i].Shift = strings.TrimSpace(entries[i].Shift)
	}
}

// ========================================
// RESPONSES
// ========================================

type EntryResponse struct {
	EmployeeID   string                     `json:"employee_id"`
	Shift        string                     `json:"shift"`
	ClockInTime  *time.Time                 `json:"clock_in_time"`
	ClockOutTime *time.Time                 `json:"clock_out_time"`
	Status       AttendanceStatus           `json:"attendance_status"`
	Employee     *employee.EmployeeResponse `json:"employee,omitempty"`
}

type RosterResponse struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	BranchID  string          `json:"branch_id"`
	Entries   []EntryResponse `json:"entries"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewRosterResponse builds the response, attaching directory records found in employees.
func NewRosterResponse(r Roster, employees map[string]employee.Employee) RosterResponse {
	entries := make([]EntryResponse, 0, len(r.Entries))
	for _, e := range r.Entries {
		item := EntryResponse{
			EmployeeID:   e.EmployeeID,
			Shift:        e.ShiftName,
			ClockInTime:  e.ClockInTime,
			ClockOutTime: e.ClockOutTime,
			Status:       e.Status,
		}
		if emp, ok := employees[e.EmployeeID]; ok {
			item.Employee = employee.NewEmployeeResponse(emp)
		}
		entries = append(entries, item)
	}

	return RosterResponse{
		ID:        r.ID,
		Date:      r.Date.Format(validator.DateLayout),
		BranchID:  r.BranchID,
		Entries:   entries,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type ClockResponse struct {
	RosterID     string           `json:"roster_id"`
	EmployeeID   string           `json:"employee_id"`
	Shift        string           `json:"shift"`
	Status       AttendanceStatus `json:"attendance_status"`
	ClockInTime  *time.Time       `json:"clock_in_time,omitempty"`
	ClockOutTime *time.Time       `json:"clock_out_time,omitempty"`
}

type SummaryResponse struct {
	Month        string `json:"month"`
	PresentCount int    `json:"present_count"`
	LateCount    int    `json:"late_count"`
}

type ScheduleItem struct {
	RosterID     string           `json:"roster_id"`
	Date         string           `json:"date"`
	Shift        string           `json:"shift"`
	StartTime    string           `json:"start_time"`
	EndTime      string           `json:"end_time"`
	Status       AttendanceStatus `json:"attendance_status"`
	ClockInTime  *time.Time       `json:"clock_in_time"`
	ClockOutTime *time.Time       `json:"clock_out_time"`
}
