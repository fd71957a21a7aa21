package roster

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/audit"
	"github.com/storeshift/hris-backend-go/internal/domain/employee"
	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/domain/roster"
	"github.com/storeshift/hris-backend-go/internal/domain/shift"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/pkg/sanitizer"
	"github.com/storeshift/hris-backend-go/internal/repository/memory"
	"github.com/storeshift/hris-backend-go/internal/service/geofence"
	"github.com/storeshift/hris-backend-go/internal/service/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

const (
	branchLat = -6.2607
	branchLon = 106.8137
	rosterID  = "SHF_2025-10-31_STR_1"
)

var (
	manager = user.Principal{ID: "MGR_1", Name: "Sari", Role: user.RoleManager, BranchID: "STR_1"}
	owner   = user.Principal{ID: "OWN_1", Name: "Budi", Role: user.RoleOwner}
	emp1    = user.Principal{ID: "EMP_1", Name: "Andi", Role: user.RoleEmployee, BranchID: "STR_1"}
	emp2    = user.Principal{ID: "EMP_2", Name: "Dewi", Role: user.RoleEmployee, BranchID: "STR_1"}
	emp3    = user.Principal{ID: "EMP_3", Name: "Rina", Role: user.RoleEmployee, BranchID: "STR_1"}
	emp4    = user.Principal{ID: "EMP_4", Name: "Tono", Role: user.RoleEmployee, BranchID: "STR_2"}
)

type fixture struct {
	svc       *RosterServiceImpl
	agg       *AggregatorImpl
	rosters   *memory.RosterRepository
	directory *memory.Directory
	sink      *memory.AuditSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := memory.NewDirectory()
	dir.PutBranch(employee.Branch{ID: "STR_1", Name: "Kemang", Latitude: branchLat, Longitude: branchLon})
	dir.PutBranch(employee.Branch{ID: "STR_2", Name: "Depok", Latitude: -6.4025, Longitude: 106.7942})
	for _, p := range []user.Principal{manager, emp1, emp2, emp3, emp4} {
		dir.PutEmployee(employee.Employee{
			ID:                 p.ID,
			Name:               p.Name,
			BranchID:           p.BranchID,
			Role:               p.Role,
			AnnualLeaveBalance: 12,
			Status:             employee.StatusActive,
		})
	}

	rosters := memory.NewRosterRepository()
	catalog := memory.NewShiftCatalog(memory.DefaultShifts()...)
	sink := memory.NewAuditSink()
	logger := history.NewHistoryService(sink, sanitizer.New())

	return &fixture{
		svc:       NewRosterService(rosters, catalog, dir, memory.NewTxManager(), geofence.NewValidator(dir), logger, wib),
		agg:       NewAggregator(rosters, catalog, dir, wib),
		rosters:   rosters,
		directory: dir,
		sink:      sink,
	}
}

func (f *fixture) at(t time.Time) {
	f.svc.now = func() time.Time { return t }
	f.agg.now = func() time.Time { return t }
}

func (f *fixture) seed(t *testing.T, date string, entries ...roster.EntryRequest) roster.RosterResponse {
	t.Helper()
	res, err := f.svc.CreateRoster(context.Background(), manager, roster.CreateRosterRequest{Date: date, Entries: entries})
	require.NoError(t, err)
	require.True(t, res.Status, res.Message)
	return res.Data
}

func entry(employeeID, shiftName string) roster.EntryRequest {
	return roster.EntryRequest{EmployeeID: employeeID, Shift: shiftName}
}

func onSite(id string) roster.ClockRequest {
	lat, lon := branchLat+0.0001, branchLon
	return roster.ClockRequest{RosterID: id, Latitude: &lat, Longitude: &lon}
}

func offSite(id string) roster.ClockRequest {
	lat, lon := branchLat+0.01, branchLon
	return roster.ClockRequest{RosterID: id, Latitude: &lat, Longitude: &lon}
}

func TestCreateRoster(t *testing.T) {
	f := newFixture(t)

	created := f.seed(t, "2025-10-31", entry("EMP_1", "Day"), entry("EMP_2", "Night"))

	assert.Equal(t, rosterID, created.ID)
	assert.Equal(t, "2025-10-31", created.Date)
	assert.Equal(t, "STR_1", created.BranchID)
	require.Len(t, created.Entries, 2)
	for _, e := range created.Entries {
		assert.Equal(t, roster.StatusAbsent, e.Status)
		assert.Nil(t, e.ClockInTime)
	}

	entries := f.sink.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.CategoryShift, entries[0].Category)
	assert.Equal(t, "MGR_1", entries[0].ActorID)
}

func TestCreateRoster_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "2025-10-31", entry("EMP_1", "Day"))

	res, err := f.svc.CreateRoster(context.Background(), manager, roster.CreateRosterRequest{
		Date:    "2025-10-31",
		Entries: []roster.EntryRequest{entry("EMP_2", "Day")},
	})
	require.NoError(t, err)
	assert.False(t, res.Status)
	assert.Equal(t, outcome.KindConflict, res.Kind)
	assert.Equal(t, "Shift already exists for this date", res.Message)
}

func TestCreateRoster_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		p       user.Principal
		req     roster.CreateRosterRequest
		kind    outcome.Kind
		message string
	}{
		{
			name:    "unknown shift name",
			p:       manager,
			req:     roster.CreateRosterRequest{Date: "2025-10-31", Entries: []roster.EntryRequest{entry("EMP_1", "Day"), entry("EMP_2", "Brunch")}},
			kind:    outcome.KindBusiness,
			message: "Invalid shift name: Brunch",
		},
		{
			name: "employee scheduled twice",
			p:    manager,
			req:  roster.CreateRosterRequest{Date: "2025-10-31", Entries: []roster.EntryRequest{entry("EMP_1", "Day"), entry("EMP_1", "Night")}},
			kind: outcome.KindBusiness,
		},
		{
			name:    "bad date",
			p:       manager,
			req:     roster.CreateRosterRequest{Date: "31-10-2025", Entries: []roster.EntryRequest{entry("EMP_1", "Day")}},
			kind:    outcome.KindValidation,
			message: "Validation failed",
		},
		{
			name: "no entries",
			p:    manager,
			req:  roster.CreateRosterRequest{Date: "2025-10-31"},
			kind: outcome.KindValidation,
		},
		{
			name: "unknown employee",
			p:    manager,
			req:  roster.CreateRosterRequest{Date: "2025-10-31", Entries: []roster.EntryRequest{entry("EMP_1", "Day"), entry("EMP_404", "Day")}},
			kind: outcome.KindValidation,
		},
		{
			name: "employee of another branch",
			p:    manager,
			req:  roster.CreateRosterRequest{Date: "2025-10-31", Entries: []roster.EntryRequest{entry("EMP_4", "Day")}},
			kind: outcome.KindValidation,
		},
		{
			name: "owner without branch",
			p:    owner,
			req:  roster.CreateRosterRequest{Date: "2025-10-31", Entries: []roster.EntryRequest{entry("EMP_1", "Day")}},
			kind: outcome.KindValidation,
		},
		{
			name:    "manager of another branch",
			p:       manager,
			req:     roster.CreateRosterRequest{Date: "2025-10-31", BranchID: "STR_2", Entries: []roster.EntryRequest{entry("EMP_1", "Day")}},
			kind:    outcome.KindForbidden,
			message: "You don't have access to this branch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			res, err := f.svc.CreateRoster(context.Background(), tt.p, tt.req)
			require.NoError(t, err)
			assert.False(t, res.Status)
			assert.Equal(t, tt.kind, res.Kind)
			if tt.message != "" {
				assert.Equal(t, tt.message, res.Message)
			}

			exists, err := f.rosters.ExistsForDate(context.Background(), "STR_1", time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC))
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestCreateRoster_OwnerPicksBranch(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateRoster(context.Background(), owner, roster.CreateRosterRequest{
		Date:     "2025-10-31",
		BranchID: "STR_2",
		Entries:  []roster.EntryRequest{entry("EMP_4", "Evening")},
	})
	require.NoError(t, err)
	require.True(t, res.Status, res.Message)
	assert.Equal(t, "SHF_2025-10-31_STR_2", res.Data.ID)
}

func TestRemoveEmployeeFromRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "2025-10-31", entry("EMP_1", "Day"), entry("EMP_2", "Day"))

	res, err := f.svc.RemoveEmployeeFromRoster(ctx, manager, rosterID, "EMP_1")
	require.NoError(t, err)
	require.True(t, res.Status)
	require.Len(t, res.Data.Entries, 1)
	assert.Equal(t, "EMP_2", res.Data.Entries[0].EmployeeID)

	// not scheduled is still a success
	res, err = f.svc.RemoveEmployeeFromRoster(ctx, manager, rosterID, "EMP_9")
	require.NoError(t, err)
	assert.True(t, res.Status)
	assert.Len(t, res.Data.Entries, 1)

	assert.Len(t, f.sink.Entries(), 3)
}

func TestRemoveEmployeeFromRoster_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "2025-10-31", entry("EMP_1", "Day"))

	res, err := f.svc.RemoveEmployeeFromRoster(ctx, manager, "SHF_2025-01-01_STR_1", "EMP_1")
	require.NoError(t, err)
	assert.Equal(t, outcome.KindNotFound, res.Kind)

	other := user.Principal{ID: "MGR_2", Role: user.RoleManager, BranchID: "STR_2"}
	res, err = f.svc.RemoveEmployeeFromRoster(ctx, other, rosterID, "EMP_1")
	require.NoError(t, err)
	assert.Equal(t, outcome.KindForbidden, res.Kind)

	res, err = f.svc.RemoveEmployeeFromRoster(ctx, manager, rosterID, "  ")
	require.NoError(t, err)
	assert.Equal(t, outcome.KindValidation, res.Kind)
}

func TestReplaceRosterEntries_KeepsAttendance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "2025-10-31", entry("EMP_1", "Day"), entry("EMP_2", "Day"))

	f.at(time.Date(2025, 10, 31, 7, 45, 0, 0, wib))
	clock, err := f.svc.ClockIn(ctx, emp1, onSite(rosterID))
	require.NoError(t, err)
	require.True(t, clock.Status, clock.Message)

	res, err := f.svc.ReplaceRosterEntries(ctx, manager, rosterID, roster.ReplaceEntriesRequest{
		Entries: []roster.EntryRequest{entry("EMP_1", "Evening"), entry("EMP_3", "Day")},
	})
	require.NoError(t, err)
	require.True(t, res.Status, res.Message)
	require.Len(t, res.Data.Entries, 2)

	kept := res.Data.Entries[0]
	assert.Equal(t, "EMP_1", kept.EmployeeID)
	assert.Equal(t, "Evening", kept.Shift)
	assert.Equal(t, roster.StatusPresent, kept.Status)
	assert.NotNil(t, kept.ClockInTime)

	added := res.Data.Entries[1]
	assert.Equal(t, "EMP_3", added.EmployeeID)
	assert.Equal(t, roster.StatusAbsent, added.Status)
}

func TestReplaceRosterEntries_InvalidShift(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "2025-10-31", entry("EMP_1", "Day"))

	res, err := f.svc.ReplaceRosterEntries(context.Background(), manager, rosterID, roster.ReplaceEntriesRequest{
		Entries: []roster.EntryRequest{entry("EMP_1", "Graveyard")},
	})
	require.NoError(t, err)
	assert.True(t, res.Is(shift.ErrInvalidShiftName))
	assert.Equal(t, "Invalid shift name: Graveyard", res.Message)
}

func TestReplaceRosterEntries_UnknownEmployee(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "2025-10-31", entry("EMP_1", "Day"))

	res, err := f.svc.ReplaceRosterEntries(context.Background(), manager, rosterID, roster.ReplaceEntriesRequest{
		Entries: []roster.EntryRequest{entry("EMP_1", "Day"), entry("EMP_404", "Night")},
	})
	require.NoError(t, err)
	assert.Equal(t, outcome.KindValidation, res.Kind)
	assert.Contains(t, res.Details, "entries[1].employee_id")

	r, err := f.rosters.GetByID(context.Background(), rosterID)
	require.NoError(t, err)
	assert.Len(t, r.Entries, 1)
}

func TestClockIn_Window(t *testing.T) {
	tests := []struct {
		name    string
		at      time.Time
		ok      bool
		status  roster.AttendanceStatus
		message string
	}{
		{name: "before early limit", at: time.Date(2025, 10, 31, 7, 29, 59, 0, wib), message: "Employee clock in time is outside the shift time"},
		{name: "at early limit", at: time.Date(2025, 10, 31, 7, 30, 0, 0, wib), ok: true, status: roster.StatusPresent},
		{name: "on time", at: time.Date(2025, 10, 31, 8, 0, 0, 0, wib), ok: true, status: roster.StatusPresent},
		{name: "at late limit", at: time.Date(2025, 10, 31, 8, 10, 0, 0, wib), ok: true, status: roster.StatusPresent},
		{name: "after late limit", at: time.Date(2025, 10, 31, 8, 10, 1, 0, wib), ok: true, status: roster.StatusLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, "2025-10-31", entry("EMP_1", "Day"))
			f.at(tt.at)

			res, err := f.svc.ClockIn(context.Background(), emp1, onSite(rosterID))
			require.NoError(t, err)
			assert.Equal(t, tt.ok, res.Status, res.Message)

			stored, err := f.rosters.GetByID(context.Background(), rosterID)
			require.NoError(t, err)
			e, _ := stored.Entry("EMP_1")

			if !tt.ok {
				assert.Equal(t, tt.message, res.Message)
				assert.Equal(t, roster.StatusAbsent, e.Status)
				assert.Nil(t, e.ClockInTime)
				return
			}
			assert.Equal(t, tt.status, res.Data.Status)
			assert.Equal(t, "Clocked in successfully as "+string(tt.status), res.Message)
			assert.Equal(t, tt.status, e.Status)
			require.NotNil(t, e.ClockInTime)
			assert.True(t, tt.at.Equal(*e.ClockInTime))
		})
	}
}

func TestClockIn_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "2025-10-31", entry("EMP_1", "Day"))
	f.at(time.Date(2025, 10, 31, 7, 50, 0, 0, wib))

	res, err := f.svc.ClockIn(ctx, emp1, offSite(rosterID))
	require.NoError(t, err)
	assert.Equal(t, outcome.KindBusiness, res.Kind)
	assert.True(t, res.Is(roster.ErrLocationOutOfRange))

	res, err = f.svc.ClockIn(ctx, emp2, onSite(rosterID))
	require.NoError(t, err)
	assert.Equal(t, "Employee not found in shift", res.Message)

	res, err = f.svc.ClockIn(ctx, emp1, onSite("SHF_2025-11-01_STR_1"))
	require.NoError(t, err)
	assert.Equal(t, outcome.KindNotFound, res.Kind)

	res, err = f.svc.ClockIn(ctx, emp1, roster.ClockRequest{RosterID: rosterID})
	require.NoError(t, err)
	assert.Equal(t, outcome.KindValidation, res.Kind)

	res, err = f.svc.ClockIn(ctx, emp1, onSite(rosterID))
	require.NoError(t, err)
	require.True(t, res.Status)

	res, err = f.svc.ClockIn(ctx, emp1, onSite(rosterID))
	require.NoError(t, err)
	assert.Equal(t, outcome.KindConflict, res.Kind)
	assert.True(t, res.Is(roster.ErrAlreadyClockedIn))
}

func TestClockIn_RosterOfAnotherBranch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// EMP_1 left on a STR_2 roster, e.g. after a transfer
	_, err := f.rosters.Create(ctx, roster.Roster{
		ID:       "SHF_2025-10-31_STR_2",
		Date:     time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
		BranchID: "STR_2",
		Entries:  []roster.AttendanceEntry{roster.NewEntry("EMP_1", "Day")},
	})
	require.NoError(t, err)
	f.at(time.Date(2025, 10, 31, 7, 50, 0, 0, wib))

	res, err := f.svc.ClockIn(ctx, emp1, onSite("SHF_2025-10-31_STR_2"))
	require.NoError(t, err)
	assert.True(t, res.Is(roster.ErrNotScheduled))
}

func TestClockIn_ConcurrentEmployees(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "2025-10-31", entry("EMP_1", "Day"), entry("EMP_2", "Day"), entry("EMP_3", "Day"))
	f.at(time.Date(2025, 10, 31, 7, 55, 0, 0, wib))

	var wg sync.WaitGroup
	results := make([]outcome.Result[roster.ClockResponse], 3)
	for i, p := range []user.Principal{emp1, emp2, emp3} {
		wg.Add(1)
		go func(i int, p user.Principal) {
			defer wg.Done()
			results[i], _ = f.svc.ClockIn(context.Background(), p, onSite(rosterID))
		}(i, p)
	}
	wg.Wait()

	for _, res := range results {
		assert.True(t, res.Status, res.Message)
	}

	stored, err := f.rosters.GetByID(context.Background(), rosterID)
	require.NoError(t, err)
	for _, e := range stored.Entries {
		assert.True(t, e.ClockedIn(), e.EmployeeID)
		assert.Equal(t, roster.StatusPresent, e.Status)
	}
}

func TestClockOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "2025-10-31", entry("EMP_1", "Day"))

	f.at(time.Date(2025, 10, 31, 7, 45, 0, 0, wib))
	res, err := f.svc.ClockOut(ctx, emp1, onSite(rosterID))
	require.NoError(t, err)
	assert.Equal(t, "Employee not clocked in", res.Message)

	_, err = f.svc.ClockIn(ctx, emp1, onSite(rosterID))
	require.NoError(t, err)

	f.at(time.Date(2025, 10, 31, 15, 59, 59, 0, wib))
	res, err = f.svc.ClockOut(ctx, emp1, onSite(rosterID))
	require.NoError(t, err)
	assert.Equal(t, "Clock out time is not yet", res.Message)

	f.at(time.Date(2025, 10, 31, 16, 0, 0, 0, wib))
	res, err = f.svc.ClockOut(ctx, emp1, offSite(rosterID))
	require.NoError(t, err)
	assert.True(t, res.Is(roster.ErrLocationOutOfRange))

	res, err = f.svc.ClockOut(ctx, emp1, onSite(rosterID))
	require.NoError(t, err)
	require.True(t, res.Status, res.Message)
	assert.Equal(t, roster.StatusPresent, res.Data.Status)
	require.NotNil(t, res.Data.ClockOutTime)

	e, err := f.directory.GetEmployee(ctx, "EMP_1")
	require.NoError(t, err)
	assert.Equal(t, 1, e.WorkDays)

	res, err = f.svc.ClockOut(ctx, emp1, onSite(rosterID))
	require.NoError(t, err)
	assert.Equal(t, outcome.KindConflict, res.Kind)

	e, err = f.directory.GetEmployee(ctx, "EMP_1")
	require.NoError(t, err)
	assert.Equal(t, 1, e.WorkDays, "a second clock-out must not credit another day")
}

func TestClockOut_OvernightShift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "2025-10-31", entry("EMP_2", "Night"))

	f.at(time.Date(2025, 10, 31, 21, 40, 0, 0, wib))
	res, err := f.svc.ClockIn(ctx, emp2, onSite(rosterID))
	require.NoError(t, err)
	require.True(t, res.Status, res.Message)

	f.at(time.Date(2025, 10, 31, 23, 0, 0, 0, wib))
	res, err = f.svc.ClockOut(ctx, emp2, onSite(rosterID))
	require.NoError(t, err)
	assert.True(t, res.Is(roster.ErrNotYetShiftEnd))

	f.at(time.Date(2025, 11, 1, 6, 0, 0, 0, wib))
	res, err = f.svc.ClockOut(ctx, emp2, onSite(rosterID))
	require.NoError(t, err)
	assert.True(t, res.Status, res.Message)
}

// flakyDirectory fails work-day credits while down is set.
type flakyDirectory struct {
	*memory.Directory
	down bool
}

func (d *flakyDirectory) IncrementWorkDays(ctx context.Context, id string) error {
	if d.down {
		return errors.New("store unreachable")
	}
	return d.Directory.IncrementWorkDays(ctx, id)
}

func TestClockOut_WorkDayFailureKeepsEntryOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "2025-10-31", entry("EMP_1", "Day"))

	f.at(time.Date(2025, 10, 31, 7, 45, 0, 0, wib))
	res, err := f.svc.ClockIn(ctx, emp1, onSite(rosterID))
	require.NoError(t, err)
	require.True(t, res.Status, res.Message)

	flaky := &flakyDirectory{Directory: f.directory, down: true}
	f.svc.directory = flaky

	f.at(time.Date(2025, 10, 31, 16, 0, 0, 0, wib))
	_, err = f.svc.ClockOut(ctx, emp1, onSite(rosterID))
	require.Error(t, err)

	r, err := f.rosters.GetByID(ctx, rosterID)
	require.NoError(t, err)
	e, ok := r.Entry("EMP_1")
	require.True(t, ok)
	assert.Nil(t, e.ClockOutTime, "clock-out must not stick without the work-day credit")

	flaky.down = false
	res, err = f.svc.ClockOut(ctx, emp1, onSite(rosterID))
	require.NoError(t, err)
	require.True(t, res.Status, res.Message)

	emp, err := f.directory.GetEmployee(ctx, "EMP_1")
	require.NoError(t, err)
	assert.Equal(t, 1, emp.WorkDays)
}
