package roster

import (
	"context"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
)

// RosterService owns roster writes and the clock-in/clock-out transitions.
type RosterService interface {
	// CreateRoster schedules employees of one branch for one day
	CreateRoster(ctx context.Context, p user.Principal, req CreateRosterRequest) (outcome.Result[RosterResponse], error)

	// RemoveEmployeeFromRoster drops one employee; a missing entry is not a failure
	RemoveEmployeeFromRoster(ctx context.Context, p user.Principal, rosterID, employeeID string) (outcome.Result[RosterResponse], error)

	// ReplaceRosterEntries overwrites the whole schedule of a roster
	ReplaceRosterEntries(ctx context.Context, p user.Principal, rosterID string, req ReplaceEntriesRequest) (outcome.Result[RosterResponse], error)

	// ClockIn records the caller's arrival on a roster
	ClockIn(ctx context.Context, p user.Principal, req ClockRequest) (outcome.Result[ClockResponse], error)

	// ClockOut records the caller's departure and credits a work day
	ClockOut(ctx context.Context, p user.Principal, req ClockRequest) (outcome.Result[ClockResponse], error)
}

// Aggregator answers read-only roster queries.
type Aggregator interface {
	GetRosterForDate(ctx context.Context, branchID, date string) (outcome.Result[RosterResponse], error)

	// Zero month or year means the current one.
	GetMonthlyRosters(ctx context.Context, branchID string, month time.Month, year int) (outcome.Result[[]RosterResponse], error)
	GetMonthlySummary(ctx context.Context, branchID string, month time.Month, year int) (outcome.Result[SummaryResponse], error)

	GetEmployeeSchedule(ctx context.Context, branchID, employeeID string) (outcome.Result[[]ScheduleItem], error)
}
