package roster

import (
	"context"
	"time"
)

// RosterRepository persists rosters. Entry mutations are atomic per
// (roster id, employee id) so writers on different employees of one roster
// never lose each other's updates.
type RosterRepository interface {
	// Create returns ErrRosterExists when the branch already has a roster for the date.
	Create(ctx context.Context, r Roster) (Roster, error)
	GetByID(ctx context.Context, id string) (Roster, error)
	GetByBranchAndDate(ctx context.Context, branchID string, date time.Time) (Roster, error)
	ExistsForDate(ctx context.Context, branchID string, date time.Time) (bool, error)

	// ListByBranchBetween returns rosters with from <= date < to, ascending by date.
	ListByBranchBetween(ctx context.Context, branchID string, from, to time.Time) ([]Roster, error)
	// ListByEmployee returns the branch rosters that schedule employeeID, ascending by date.
	ListByEmployee(ctx context.Context, branchID, employeeID string) ([]Roster, error)
	CountStatuses(ctx context.Context, branchID string, from, to time.Time) (Summary, error)

	// RemoveEntry reports whether an entry was removed.
	RemoveEntry(ctx context.Context, rosterID, employeeID string) (bool, error)
	// ReplaceEntries overwrites the shift assignments. Employees already on the
	// roster keep their attendance record (see CarryAttendance).
	ReplaceEntries(ctx context.Context, rosterID string, entries []AttendanceEntry) error

	// SetClockIn returns ErrNotScheduled or ErrAlreadyClockedIn when the
	// entry is missing or already clocked in.
	SetClockIn(ctx context.Context, rosterID, employeeID string, at time.Time, status AttendanceStatus) error
	// SetClockOut returns ErrNotScheduled, ErrNotClockedIn or ErrAlreadyClockedOut.
	SetClockOut(ctx context.Context, rosterID, employeeID string, at time.Time) error
}

// TxManager runs fn in one transaction carried by the context passed to fn.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
