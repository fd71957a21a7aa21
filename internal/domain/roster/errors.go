package roster

import "errors"

var (
	ErrRosterExists         = errors.New("Shift already exists for this date")
	ErrRosterNotFound       = errors.New("Roster not found")
	ErrNoData               = errors.New("No data found")
	ErrDuplicateEmployee    = errors.New("Employee is assigned more than once")
	ErrEmptyEntries         = errors.New("At least one employee must be scheduled")
	ErrLocationOutOfRange   = errors.New("Location is outside the allowed radius")
	ErrNotScheduled         = errors.New("Employee not found in shift")
	ErrOutsideWindow        = errors.New("Employee clock in time is outside the shift time")
	ErrAlreadyClockedIn     = errors.New("Employee already clocked in")
	ErrNotClockedIn         = errors.New("Employee not clocked in")
	ErrNotYetShiftEnd       = errors.New("Clock out time is not yet")
	ErrAlreadyClockedOut    = errors.New("Employee already clocked out")
	ErrScheduleAccessDenied = errors.New("You can only view your own schedule")
)
