package roster

import (
	"fmt"
	"time"

	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
)

type AttendanceStatus string

const (
	StatusAbsent  AttendanceStatus = "absent"
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
)

const (
	// ClockInEarlyAllowance is how long before shift start clock-in opens.
	ClockInEarlyAllowance = 30 * time.Minute
	// ClockInLateAllowance is how long after shift start a clock-in still counts as present.
	ClockInLateAllowance = 10 * time.Minute
)

// Roster is the schedule of one branch for one calendar day.
type Roster struct {
	ID        string
	Date      time.Time // civil date, midnight UTC
	BranchID  string
	Entries   []AttendanceEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AttendanceEntry struct {
	EmployeeID   string
	ShiftName    string
	ClockInTime  *time.Time
	ClockOutTime *time.Time
	Status       AttendanceStatus
}

// NewEntry returns an entry that has not been clocked in yet.
func NewEntry(employeeID, shiftName string) AttendanceEntry {
	return AttendanceEntry{
		EmployeeID: employeeID,
		ShiftName:  shiftName,
		Status:     StatusAbsent,
	}
}

func (e AttendanceEntry) ClockedIn() bool {
	return e.ClockInTime != nil
}

func (e AttendanceEntry) ClockedOut() bool {
	return e.ClockOutTime != nil
}

// Entry returns the entry of employeeID, if scheduled.
func (r Roster) Entry(employeeID string) (AttendanceEntry, bool) {
	for _, e := range r.Entries {
		if e.EmployeeID == employeeID {
			return e, true
		}
	}
	return AttendanceEntry{}, false
}

// CarryAttendance copies the attendance record of employees already present
// in current onto the matching entries of next.
func CarryAttendance(current, next []AttendanceEntry) []AttendanceEntry {
	byEmployee := make(map[string]AttendanceEntry, len(current))
	for _, e := range current {
		byEmployee[e.EmployeeID] = e
	}

	out := make([]AttendanceEntry, len(next))
	for i, e := range next {
		if prev, ok := byEmployee[e.EmployeeID]; ok {
			e.ClockInTime = prev.ClockInTime
			e.ClockOutTime = prev.ClockOutTime
			e.Status = prev.Status
		}
		out[i] = e
	}
	return out
}

// RosterID derives the roster id of a branch day.
func RosterID(date time.Time, branchID string) string {
	return fmt.Sprintf("SHF_%s_%s", date.Format(validator.DateLayout), branchID)
}

// CivilDate truncates t to its calendar day in t's own location and returns
// it as midnight UTC.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthRange returns [first of month, first of next month).
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

type Summary struct {
	PresentCount int
	LateCount    int
}
