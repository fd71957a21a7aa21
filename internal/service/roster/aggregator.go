package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/employee"
	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/domain/roster"
	"github.com/storeshift/hris-backend-go/internal/domain/shift"
	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
)

type AggregatorImpl struct {
	rosters   roster.RosterRepository
	catalog   shift.Catalog
	directory employee.DirectoryStore
	location  *time.Location
	now       func() time.Time
}

func NewAggregator(rosters roster.RosterRepository, catalog shift.Catalog, directory employee.DirectoryStore, loc *time.Location) *AggregatorImpl {
	return &AggregatorImpl{
		rosters:   rosters,
		catalog:   catalog,
		directory: directory,
		location:  loc,
		now:       time.Now,
	}
}

// GetRosterForDate implements roster.Aggregator.
func (a *AggregatorImpl) GetRosterForDate(ctx context.Context, branchID, date string) (outcome.Result[roster.RosterResponse], error) {
	parsed, err := validator.ParseDateIn(date, time.UTC)
	if err != nil {
		return outcome.Invalid[roster.RosterResponse](validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be a date in YYYY-MM-DD format",
		}}), nil
	}

	r, err := a.rosters.GetByBranchAndDate(ctx, branchID, parsed)
	if err != nil {
		if errors.Is(err, roster.ErrRosterNotFound) {
			return outcome.NotFound[roster.RosterResponse](roster.ErrNoData), nil
		}
		return outcome.Result[roster.RosterResponse]{}, fmt.Errorf("failed to get roster: %w", err)
	}

	employees, err := a.lookupEmployees(ctx, []roster.Roster{r})
	if err != nil {
		return outcome.Result[roster.RosterResponse]{}, err
	}

	return outcome.OK("Shift retrieved successfully", roster.NewRosterResponse(r, employees)), nil
}

// GetMonthlyRosters implements roster.Aggregator.
func (a *AggregatorImpl) GetMonthlyRosters(ctx context.Context, branchID string, month time.Month, year int) (outcome.Result[[]roster.RosterResponse], error) {
	month, year = a.resolveMonth(month, year)
	from, to := roster.MonthRange(year, month)

	rosters, err := a.rosters.ListByBranchBetween(ctx, branchID, from, to)
	if err != nil {
		return outcome.Result[[]roster.RosterResponse]{}, fmt.Errorf("failed to list rosters: %w", err)
	}

	employees, err := a.lookupEmployees(ctx, rosters)
	if err != nil {
		return outcome.Result[[]roster.RosterResponse]{}, err
	}

	out := make([]roster.RosterResponse, 0, len(rosters))
	for _, r := range rosters {
		out = append(out, roster.NewRosterResponse(r, employees))
	}
	return outcome.OK("Shifts retrieved successfully", out), nil
}

// GetMonthlySummary implements roster.Aggregator.
func (a *AggregatorImpl) GetMonthlySummary(ctx context.Context, branchID string, month time.Month, year int) (outcome.Result[roster.SummaryResponse], error) {
	month, year = a.resolveMonth(month, year)
	from, to := roster.MonthRange(year, month)

	summary, err := a.rosters.CountStatuses(ctx, branchID, from, to)
	if err != nil {
		return outcome.Result[roster.SummaryResponse]{}, fmt.Errorf("failed to count attendance: %w", err)
	}

	return outcome.OK("Summary retrieved successfully", roster.SummaryResponse{
		Month:        from.Format("2006-01"),
		PresentCount: summary.PresentCount,
		LateCount:    summary.LateCount,
	}), nil
}

// GetEmployeeSchedule implements roster.Aggregator.
func (a *AggregatorImpl) GetEmployeeSchedule(ctx context.Context, branchID, employeeID string) (outcome.Result[[]roster.ScheduleItem], error) {
	rosters, err := a.rosters.ListByEmployee(ctx, branchID, employeeID)
	if err != nil {
		return outcome.Result[[]roster.ScheduleItem]{}, fmt.Errorf("failed to list schedule of %s: %w", employeeID, err)
	}

	shifts, err := a.catalog.ListShifts(ctx)
	if err != nil {
		return outcome.Result[[]roster.ScheduleItem]{}, fmt.Errorf("failed to list shifts: %w", err)
	}
	byName := make(map[string]shift.ShiftDefinition, len(shifts))
	for _, s := range shifts {
		byName[s.Name] = s
	}

	items := make([]roster.ScheduleItem, 0, len(rosters))
	for _, r := range rosters {
		entry, ok := r.Entry(employeeID)
		if !ok {
			continue
		}
		item := roster.ScheduleItem{
			RosterID:     r.ID,
			Date:         r.Date.Format(validator.DateLayout),
			Shift:        entry.ShiftName,
			Status:       entry.Status,
			ClockInTime:  entry.ClockInTime,
			ClockOutTime: entry.ClockOutTime,
		}
		if def, ok := byName[entry.ShiftName]; ok {
			item.StartTime = def.StartTime.String()
			item.EndTime = def.EndTime.String()
		} else {
			slog.WarnContext(ctx, "scheduled shift missing from catalog", "roster_id", r.ID, "shift", entry.ShiftName)
		}
		items = append(items, item)
	}

	return outcome.OK("Schedule retrieved successfully", items), nil
}

func (a *AggregatorImpl) resolveMonth(month time.Month, year int) (time.Month, int) {
	now := a.now().In(a.location)
	if month == 0 {
		month = now.Month()
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}

func (a *AggregatorImpl) lookupEmployees(ctx context.Context, rosters []roster.Roster) (map[string]employee.Employee, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range rosters {
		for _, e := range r.Entries {
			if !seen[e.EmployeeID] {
				seen[e.EmployeeID] = true
				ids = append(ids, e.EmployeeID)
			}
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	employees, err := a.directory.GetEmployees(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up employees: %w", err)
	}
	return employees, nil
}
