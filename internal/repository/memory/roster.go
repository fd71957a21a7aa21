package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/roster"
)

type RosterRepository struct {
	mu      sync.RWMutex
	rosters map[string]*roster.Roster
	byDay   map[string]string // branch id + date -> roster id
	now     func() time.Time
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{
		rosters: make(map[string]*roster.Roster),
		byDay:   make(map[string]string),
		now:     time.Now,
	}
}

func dayKey(branchID string, date time.Time) string {
	return branchID + "|" + roster.CivilDate(date).Format("2006-01-02")
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneEntries(entries []roster.AttendanceEntry) []roster.AttendanceEntry {
	out := make([]roster.AttendanceEntry, len(entries))
	for i, e := range entries {
		e.ClockInTime = cloneTime(e.ClockInTime)
		e.ClockOutTime = cloneTime(e.ClockOutTime)
		out[i] = e
	}
	return out
}

func cloneRoster(r *roster.Roster) roster.Roster {
	c := *r
	c.Entries = cloneEntries(r.Entries)
	return c
}

func (s *RosterRepository) Create(ctx context.Context, r roster.Roster) (roster.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey(r.BranchID, r.Date)
	if _, exists := s.byDay[key]; exists {
		return roster.Roster{}, roster.ErrRosterExists
	}
	if _, exists := s.rosters[r.ID]; exists {
		return roster.Roster{}, roster.ErrRosterExists
	}

	seen := make(map[string]bool, len(r.Entries))
	for _, e := range r.Entries {
		if seen[e.EmployeeID] {
			return roster.Roster{}, roster.ErrDuplicateEmployee
		}
		seen[e.EmployeeID] = true
	}

	now := s.now()
	stored := r
	stored.Date = roster.CivilDate(r.Date)
	stored.Entries = cloneEntries(r.Entries)
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.rosters[stored.ID] = &stored
	s.byDay[key] = stored.ID
	return cloneRoster(&stored), nil
}

func (s *RosterRepository) GetByID(ctx context.Context, id string) (roster.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rosters[id]
	if !ok {
		return roster.Roster{}, roster.ErrRosterNotFound
	}
	return cloneRoster(r), nil
}

func (s *RosterRepository) GetByBranchAndDate(ctx context.Context, branchID string, date time.Time) (roster.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byDay[dayKey(branchID, date)]
	if !ok {
		return roster.Roster{}, roster.ErrRosterNotFound
	}
	return cloneRoster(s.rosters[id]), nil
}

func (s *RosterRepository) ExistsForDate(ctx context.Context, branchID string, date time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byDay[dayKey(branchID, date)]
	return ok, nil
}

func (s *RosterRepository) ListByBranchBetween(ctx context.Context, branchID string, from, to time.Time) ([]roster.Roster, error) {
	from, to = roster.CivilDate(from), roster.CivilDate(to)
	return s.collect(func(r *roster.Roster) bool {
		return r.BranchID == branchID && !r.Date.Before(from) && r.Date.Before(to)
	}), nil
}

func (s *RosterRepository) ListByEmployee(ctx context.Context, branchID, employeeID string) ([]roster.Roster, error) {
	return s.collect(func(r *roster.Roster) bool {
		if r.BranchID != branchID {
			return false
		}
		_, ok := r.Entry(employeeID)
		return ok
	}), nil
}

// collect returns copies of matching rosters, ascending by date.
func (s *RosterRepository) collect(match func(r *roster.Roster) bool) []roster.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []roster.Roster
	for _, r := range s.rosters {
		if match(r) {
			out = append(out, cloneRoster(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s *RosterRepository) CountStatuses(ctx context.Context, branchID string, from, to time.Time) (roster.Summary, error) {
	rosters, _ := s.ListByBranchBetween(ctx, branchID, from, to)

	var summary roster.Summary
	for _, r := range rosters {
		for _, e := range r.Entries {
			switch e.Status {
			case roster.StatusPresent:
				summary.PresentCount++
			case roster.StatusLate:
				summary.LateCount++
			}
		}
	}
	return summary, nil
}

func (s *RosterRepository) RemoveEntry(ctx context.Context, rosterID, employeeID string) (bool, error) {
	removed := false
	err := s.update(rosterID, func(r *roster.Roster) error {
		kept := r.Entries[:0]
		for _, e := range r.Entries {
			if e.EmployeeID == employeeID {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		r.Entries = kept
		return nil
	})
	return removed, err
}

func (s *RosterRepository) ReplaceEntries(ctx context.Context, rosterID string, entries []roster.AttendanceEntry) error {
	return s.update(rosterID, func(r *roster.Roster) error {
		seen := make(map[string]bool, len(entries))
		for _, e := range entries {
			if seen[e.EmployeeID] {
				return roster.ErrDuplicateEmployee
			}
			seen[e.EmployeeID] = true
		}
		r.Entries = roster.CarryAttendance(r.Entries, cloneEntries(entries))
		return nil
	})
}

func (s *RosterRepository) SetClockIn(ctx context.Context, rosterID, employeeID string, at time.Time, status roster.AttendanceStatus) error {
	return s.updateEntry(rosterID, employeeID, func(e *roster.AttendanceEntry) error {
		if e.ClockedIn() {
			return roster.ErrAlreadyClockedIn
		}
		e.ClockInTime = &at
		e.Status = status
		return nil
	})
}

func (s *RosterRepository) SetClockOut(ctx context.Context, rosterID, employeeID string, at time.Time) error {
	err := s.updateEntry(rosterID, employeeID, func(e *roster.AttendanceEntry) error {
		if !e.ClockedIn() {
			return roster.ErrNotClockedIn
		}
		if e.ClockedOut() {
			return roster.ErrAlreadyClockedOut
		}
		e.ClockOutTime = &at
		return nil
	})
	if err != nil {
		return err
	}

	onRollback(ctx, func() {
		_ = s.updateEntry(rosterID, employeeID, func(e *roster.AttendanceEntry) error {
			e.ClockOutTime = nil
			return nil
		})
	})
	return nil
}

func (s *RosterRepository) updateEntry(rosterID, employeeID string, fn func(e *roster.AttendanceEntry) error) error {
	return s.update(rosterID, func(r *roster.Roster) error {
		for i := range r.Entries {
			if r.Entries[i].EmployeeID == employeeID {
				return fn(&r.Entries[i])
			}
		}
		return roster.ErrNotScheduled
	})
}

// update applies fn to a copy of the roster under the write lock and stores
// the copy only if fn succeeds.
func (s *RosterRepository) update(rosterID string, fn func(r *roster.Roster) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rosters[rosterID]
	if !ok {
		return roster.ErrRosterNotFound
	}

	next := cloneRoster(current)
	if err := fn(&next); err != nil {
		return err
	}
	next.UpdatedAt = s.now()
	s.rosters[rosterID] = &next
	return nil
}
