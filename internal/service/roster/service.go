package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/audit"
	"github.com/storeshift/hris-backend-go/internal/domain/employee"
	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/domain/roster"
	"github.com/storeshift/hris-backend-go/internal/domain/shift"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
	"github.com/storeshift/hris-backend-go/internal/service/geofence"
)

type RosterServiceImpl struct {
	rosters   roster.RosterRepository
	catalog   shift.Catalog
	directory employee.DirectoryStore
	tx        roster.TxManager
	fence     geofence.Validator
	history   audit.Logger
	location  *time.Location
	now       func() time.Time
}

// NewRosterService builds the roster engine. loc is the business timezone
// used for branches that do not set their own.
func NewRosterService(
	rosters roster.RosterRepository,
	catalog shift.Catalog,
	directory employee.DirectoryStore,
	tx roster.TxManager,
	fence geofence.Validator,
	history audit.Logger,
	loc *time.Location,
) *RosterServiceImpl {
	return &RosterServiceImpl{
		rosters:   rosters,
		catalog:   catalog,
		directory: directory,
		tx:        tx,
		fence:     fence,
		history:   history,
		location:  loc,
		now:       time.Now,
	}
}

// CreateRoster implements roster.RosterService.
func (s *RosterServiceImpl) CreateRoster(ctx context.Context, p user.Principal, req roster.CreateRosterRequest) (outcome.Result[roster.RosterResponse], error) {
	if err := req.Validate(); err != nil {
		return outcome.Invalid[roster.RosterResponse](err), nil
	}

	branchID, res := resolveBranch(p, req.BranchID)
	if !res.Status {
		return outcome.Cast[roster.RosterResponse](res), nil
	}

	parsed, err := validator.ParseDateIn(req.Date, time.UTC)
	if err != nil {
		return outcome.Invalid[roster.RosterResponse](err), nil
	}
	date := roster.CivilDate(parsed)

	exists, err := s.rosters.ExistsForDate(ctx, branchID, date)
	if err != nil {
		return outcome.Result[roster.RosterResponse]{}, fmt.Errorf("failed to check existing roster: %w", err)
	}
	if exists {
		return outcome.Conflict[roster.RosterResponse](roster.ErrRosterExists), nil
	}

	entries, res, err := s.buildEntries(ctx, branchID, req.Entries)
	if err != nil || !res.Status {
		return outcome.Cast[roster.RosterResponse](res), err
	}

	created, err := s.rosters.Create(ctx, roster.Roster{
		ID:       roster.RosterID(date, branchID),
		Date:     date,
		BranchID: branchID,
		Entries:  entries,
	})
	if err != nil {
		if errors.Is(err, roster.ErrRosterExists) {
			return outcome.Conflict[roster.RosterResponse](roster.ErrRosterExists), nil
		}
		return outcome.Result[roster.RosterResponse]{}, fmt.Errorf("failed to create roster: %w", err)
	}

	s.history.Log(ctx, p, audit.CategoryShift,
		fmt.Sprintf("Created shift %s with %d employees", created.ID, len(created.Entries)))

	return outcome.OK("Shift created successfully", roster.NewRosterResponse(created, nil)), nil
}

// resolveBranch picks the branch a manager action applies to. Owners must
// name one; managers are pinned to their own.
func resolveBranch(p user.Principal, requested string) (string, outcome.Result[struct{}]) {
	if p.IsOwner() {
		if requested == "" {
			return "", outcome.Invalid[struct{}](validator.ValidationErrors{{
				Field:   "branch_id",
				Message: "branch_id is required",
			}})
		}
		return requested, outcome.OK("", struct{}{})
	}

	if requested != "" && requested != p.BranchID {
		return "", outcome.Forbidden[struct{}](user.ErrBranchAccessDenied)
	}
	return p.BranchID, outcome.OK("", struct{}{})
}

// buildEntries checks every shift name against the catalog, naming the first
// unknown one, rejects employees scheduled twice and employees who do not
// belong to branchID.
func (s *RosterServiceImpl) buildEntries(ctx context.Context, branchID string, reqs []roster.EntryRequest) ([]roster.AttendanceEntry, outcome.Result[struct{}], error) {
	for _, e := range reqs {
		if _, err := s.catalog.FindByName(ctx, e.Shift); err != nil {
			if errors.Is(err, shift.ErrShiftNotFound) {
				return nil, outcome.Business[struct{}](fmt.Errorf("%w: %s", shift.ErrInvalidShiftName, e.Shift)), nil
			}
			return nil, outcome.Result[struct{}]{}, fmt.Errorf("failed to look up shift %q: %w", e.Shift, err)
		}
	}

	seen := make(map[string]bool, len(reqs))
	ids := make([]string, 0, len(reqs))
	entries := make([]roster.AttendanceEntry, 0, len(reqs))
	for _, e := range reqs {
		if seen[e.EmployeeID] {
			return nil, outcome.Business[struct{}](fmt.Errorf("%w: %s", roster.ErrDuplicateEmployee, e.EmployeeID)), nil
		}
		seen[e.EmployeeID] = true
		ids = append(ids, e.EmployeeID)
		entries = append(entries, roster.NewEntry(e.EmployeeID, e.Shift))
	}

	employees, err := s.directory.GetEmployees(ctx, ids)
	if err != nil {
		return nil, outcome.Result[struct{}]{}, fmt.Errorf("failed to get employees: %w", err)
	}

	var verrs validator.ValidationErrors
	for i, id := range ids {
		if emp, ok := employees[id]; !ok || emp.BranchID != branchID {
			verrs = append(verrs, validator.ValidationError{
				Field:   fmt.Sprintf("entries[%d].employee_id", i),
				Message: fmt.Sprintf("employee %s does not belong to branch %s", id, branchID),
			})
		}
	}
	if len(verrs) > 0 {
		return nil, outcome.Invalid[struct{}](verrs), nil
	}

	return entries, outcome.OK("", struct{}{}), nil
}

// loadForManager fetches a roster the principal may edit.
func (s *RosterServiceImpl) loadForManager(ctx context.Context, p user.Principal, rosterID string) (roster.Roster, outcome.Result[struct{}], error) {
	r, err := s.rosters.GetByID(ctx, rosterID)
	if err != nil {
		if errors.Is(err, roster.ErrRosterNotFound) {
			return roster.Roster{}, outcome.NotFound[struct{}](roster.ErrRosterNotFound), nil
		}
		return roster.Roster{}, outcome.Result[struct{}]{}, fmt.Errorf("failed to get roster %s: %w", rosterID, err)
	}
	if !p.CanAccessBranch(r.BranchID) {
		return roster.Roster{}, outcome.Forbidden[struct{}](user.ErrBranchAccessDenied), nil
	}
	return r, outcome.OK("", struct{}{}), nil
}

// RemoveEmployeeFromRoster implements roster.RosterService.
func (s *RosterServiceImpl) RemoveEmployeeFromRoster(ctx context.Context, p user.Principal, rosterID, employeeID string) (outcome.Result[roster.RosterResponse], error) {
	req := roster.RemoveEmployeeRequest{EmployeeID: employeeID}
	if err := req.Validate(); err != nil {
		return outcome.Invalid[roster.RosterResponse](err), nil
	}

	_, res, err := s.loadForManager(ctx, p, rosterID)
	if err != nil || !res.Status {
		return outcome.Cast[roster.RosterResponse](res), err
	}

	removed, err := s.rosters.RemoveEntry(ctx, rosterID, req.EmployeeID)
	if err != nil {
		return outcome.Result[roster.RosterResponse]{}, fmt.Errorf("failed to remove employee from roster: %w", err)
	}

	updated, err := s.rosters.GetByID(ctx, rosterID)
	if err != nil {
		return outcome.Result[roster.RosterResponse]{}, fmt.Errorf("failed to reload roster %s: %w", rosterID, err)
	}

	description := fmt.Sprintf("Removed employee %s from shift %s", req.EmployeeID, rosterID)
	if !removed {
		description = fmt.Sprintf("Employee %s was not scheduled in shift %s", req.EmployeeID, rosterID)
	}
	s.history.Log(ctx, p, audit.CategoryShift, description)

	return outcome.OK("Shift updated successfully", roster.NewRosterResponse(updated, nil)), nil
}

// ReplaceRosterEntries implements roster.RosterService.
func (s *RosterServiceImpl) ReplaceRosterEntries(ctx context.Context, p user.Principal, rosterID string, req roster.ReplaceEntriesRequest) (outcome.Result[roster.RosterResponse], error) {
	if err := req.Validate(); err != nil {
		return outcome.Invalid[roster.RosterResponse](err), nil
	}

	current, res, err := s.loadForManager(ctx, p, rosterID)
	if err != nil || !res.Status {
		return outcome.Cast[roster.RosterResponse](res), err
	}

	entries, res, err := s.buildEntries(ctx, current.BranchID, req.Entries)
	if err != nil || !res.Status {
		return outcome.Cast[roster.RosterResponse](res), err
	}

	if err := s.rosters.ReplaceEntries(ctx, rosterID, entries); err != nil {
		if errors.Is(err, roster.ErrRosterNotFound) {
			return outcome.NotFound[roster.RosterResponse](roster.ErrRosterNotFound), nil
		}
		return outcome.Result[roster.RosterResponse]{}, fmt.Errorf("failed to replace roster entries: %w", err)
	}

	updated, err := s.rosters.GetByID(ctx, rosterID)
	if err != nil {
		return outcome.Result[roster.RosterResponse]{}, fmt.Errorf("failed to reload roster %s: %w", rosterID, err)
	}

	s.history.Log(ctx, p, audit.CategoryShift,
		fmt.Sprintf("Updated shift %s with %d employees", rosterID, len(updated.Entries)))

	return outcome.OK("Shift updated successfully", roster.NewRosterResponse(updated, nil)), nil
}

// branchLocation returns the timezone of a branch, or the business default.
func (s *RosterServiceImpl) branchLocation(ctx context.Context, branchID string) (*time.Location, error) {
	b, err := s.directory.GetBranch(ctx, branchID)
	if err != nil {
		if errors.Is(err, employee.ErrBranchNotFound) {
			return s.location, nil
		}
		return nil, fmt.Errorf("failed to get branch %s: %w", branchID, err)
	}
	return b.Location(s.location), nil
}

// ClockIn implements roster.RosterService.
func (s *RosterServiceImpl) ClockIn(ctx context.Context, p user.Principal, req roster.ClockRequest) (outcome.Result[roster.ClockResponse], error) {
	if err := req.Validate(); err != nil {
		return outcome.Invalid[roster.ClockResponse](err), nil
	}

	within, err := s.fence.IsWithinFence(ctx, p.BranchID, req.Coordinate())
	if err != nil {
		return outcome.Result[roster.ClockResponse]{}, err
	}
	if !within {
		return outcome.Business[roster.ClockResponse](roster.ErrLocationOutOfRange), nil
	}

	r, err := s.rosters.GetByID(ctx, req.RosterID)
	if err != nil {
		if errors.Is(err, roster.ErrRosterNotFound) {
			return outcome.NotFound[roster.ClockResponse](roster.ErrRosterNotFound), nil
		}
		return outcome.Result[roster.ClockResponse]{}, fmt.Errorf("failed to get roster %s: %w", req.RosterID, err)
	}

	// rosters of other branches are never the caller's to clock on
	entry, ok := r.Entry(p.ID)
	if !ok || r.BranchID != p.BranchID {
		return outcome.Business[roster.ClockResponse](roster.ErrNotScheduled), nil
	}
	if entry.ClockedIn() {
		return outcome.Conflict[roster.ClockResponse](roster.ErrAlreadyClockedIn), nil
	}

	def, err := s.catalog.FindByName(ctx, entry.ShiftName)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return outcome.NotFound[roster.ClockResponse](shift.ErrShiftNotFound), nil
		}
		return outcome.Result[roster.ClockResponse]{}, fmt.Errorf("failed to look up shift %q: %w", entry.ShiftName, err)
	}

	loc, err := s.branchLocation(ctx, r.BranchID)
	if err != nil {
		return outcome.Result[roster.ClockResponse]{}, err
	}

	now := s.now().In(loc)
	start := def.StartOn(now)
	earlyLimit := start.Add(-roster.ClockInEarlyAllowance)
	lateLimit := start.Add(roster.ClockInLateAllowance)

	if now.Before(earlyLimit) {
		return outcome.Business[roster.ClockResponse](roster.ErrOutsideWindow), nil
	}

	status := roster.StatusPresent
	if now.After(lateLimit) {
		status = roster.StatusLate
	}

	if err := s.rosters.SetClockIn(ctx, r.ID, p.ID, now, status); err != nil {
		switch {
		case errors.Is(err, roster.ErrAlreadyClockedIn):
			return outcome.Conflict[roster.ClockResponse](roster.ErrAlreadyClockedIn), nil
		case errors.Is(err, roster.ErrNotScheduled):
			return outcome.Business[roster.ClockResponse](roster.ErrNotScheduled), nil
		}
		return outcome.Result[roster.ClockResponse]{}, fmt.Errorf("failed to clock in: %w", err)
	}

	message := fmt.Sprintf("Clocked in successfully as %s", status)
	s.history.Log(ctx, p, audit.CategoryAttendance, message)

	return outcome.OK(message, roster.ClockResponse{
		RosterID:    r.ID,
		EmployeeID:  p.ID,
		Shift:       entry.ShiftName,
		Status:      status,
		ClockInTime: &now,
	}), nil
}

// ClockOut implements roster.RosterService.
func (s *RosterServiceImpl) ClockOut(ctx context.Context, p user.Principal, req roster.ClockRequest) (outcome.Result[roster.ClockResponse], error) {
	if err := req.Validate(); err != nil {
		return outcome.Invalid[roster.ClockResponse](err), nil
	}

	r, err := s.rosters.GetByID(ctx, req.RosterID)
	if err != nil {
		if errors.Is(err, roster.ErrRosterNotFound) {
			return outcome.NotFound[roster.ClockResponse](roster.ErrRosterNotFound), nil
		}
		return outcome.Result[roster.ClockResponse]{}, fmt.Errorf("failed to get roster %s: %w", req.RosterID, err)
	}

	entry, ok := r.Entry(p.ID)
	if !ok || r.BranchID != p.BranchID {
		return outcome.Business[roster.ClockResponse](roster.ErrNotScheduled), nil
	}
	if !entry.ClockedIn() {
		return outcome.Business[roster.ClockResponse](roster.ErrNotClockedIn), nil
	}
	if entry.ClockedOut() {
		return outcome.Conflict[roster.ClockResponse](roster.ErrAlreadyClockedOut), nil
	}

	def, err := s.catalog.FindByName(ctx, entry.ShiftName)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return outcome.NotFound[roster.ClockResponse](shift.ErrShiftNotFound), nil
		}
		return outcome.Result[roster.ClockResponse]{}, fmt.Errorf("failed to look up shift %q: %w", entry.ShiftName, err)
	}

	loc, err := s.branchLocation(ctx, r.BranchID)
	if err != nil {
		return outcome.Result[roster.ClockResponse]{}, err
	}

	now := s.now().In(loc)
	if now.Before(def.EndAfter(entry.ClockInTime.In(loc))) {
		return outcome.Business[roster.ClockResponse](roster.ErrNotYetShiftEnd), nil
	}

	within, err := s.fence.IsWithinFence(ctx, p.BranchID, req.Coordinate())
	if err != nil {
		return outcome.Result[roster.ClockResponse]{}, err
	}
	if !within {
		return outcome.Business[roster.ClockResponse](roster.ErrLocationOutOfRange), nil
	}

	// the clock-out and the work-day credit commit together
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.rosters.SetClockOut(ctx, r.ID, p.ID, now); err != nil {
			return err
		}
		if err := s.directory.IncrementWorkDays(ctx, p.ID); err != nil {
			return fmt.Errorf("failed to increment work days of %s: %w", p.ID, err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrAlreadyClockedOut):
			return outcome.Conflict[roster.ClockResponse](roster.ErrAlreadyClockedOut), nil
		case errors.Is(err, roster.ErrNotClockedIn):
			return outcome.Business[roster.ClockResponse](roster.ErrNotClockedIn), nil
		case errors.Is(err, roster.ErrNotScheduled):
			return outcome.Business[roster.ClockResponse](roster.ErrNotScheduled), nil
		}
		return outcome.Result[roster.ClockResponse]{}, fmt.Errorf("failed to clock out: %w", err)
	}

	s.history.Log(ctx, p, audit.CategoryAttendance, "Clocked out successfully")

	return outcome.OK("Clocked out successfully", roster.ClockResponse{
		RosterID:     r.ID,
		EmployeeID:   p.ID,
		Shift:        entry.ShiftName,
		Status:       entry.Status,
		ClockInTime:  entry.ClockInTime,
		ClockOutTime: &now,
	}), nil
}
