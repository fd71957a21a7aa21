package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/storeshift/hris-backend-go/internal/domain/roster"
	"github.com/storeshift/hris-backend-go/internal/pkg/database"
)

type rosterRepositoryImpl struct {
	db *database.DB
}

func NewRosterRepository(db *database.DB) roster.RosterRepository {
	return &rosterRepositoryImpl{db: db}
}

// Create implements roster.RosterRepository.
func (r *rosterRepositoryImpl) Create(ctx context.Context, newRoster roster.Roster) (roster.Roster, error) {
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			INSERT INTO rosters (id, branch_id, date, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			RETURNING created_at, updated_at
		`
		err := q.QueryRow(ctx, query, newRoster.ID, newRoster.BranchID, newRoster.Date).Scan(
			&newRoster.CreatedAt,
			&newRoster.UpdatedAt,
		)
		if err != nil {
			if database.IsCode(err, database.CodeUniqueViolation) {
				return roster.ErrRosterExists
			}
			return fmt.Errorf("failed to create roster: %w", err)
		}

		return insertEntries(ctx, q, newRoster.ID, newRoster.Entries)
	})
	if err != nil {
		return roster.Roster{}, err
	}

	return newRoster, nil
}

// insertEntries writes entries in one statement, keeping their order in position.
func insertEntries(ctx context.Context, q database.Querier, rosterID string, entries []roster.AttendanceEntry) error {
	if len(entries) == 0 {
		return nil
	}

	employeeIDs := make([]string, len(entries))
	shiftNames := make([]string, len(entries))
	clockIns := make([]*time.Time, len(entries))
	clockOuts := make([]*time.Time, len(entries))
	statuses := make([]string, len(entries))
	for i, e := range entries {
		employeeIDs[i] = e.EmployeeID
		shiftNames[i] = e.ShiftName
		clockIns[i] = e.ClockInTime
		clockOuts[i] = e.ClockOutTime
		statuses[i] = string(e.Status)
	}

	query := `
		INSERT INTO roster_entries (roster_id, employee_id, shift_name, position, clock_in_time, clock_out_time, attendance_status)
		SELECT $1, e.employee_id, e.shift_name, e.position, e.clock_in_time, e.clock_out_time, e.attendance_status
		FROM unnest($2::text[], $3::text[], $4::timestamptz[], $5::timestamptz[], $6::text[])
			WITH ORDINALITY AS e(employee_id, shift_name, clock_in_time, clock_out_time, attendance_status, position)
	`
	if _, err := q.Exec(ctx, query, rosterID, employeeIDs, shiftNames, clockIns, clockOuts, statuses); err != nil {
		if database.IsCode(err, database.CodeUniqueViolation) {
			return roster.ErrDuplicateEmployee
		}
		return fmt.Errorf("failed to insert roster entries: %w", err)
	}
	return nil
}

// GetByID implements roster.RosterRepository.
func (r *rosterRepositoryImpl) GetByID(ctx context.Context, id string) (roster.Roster, error) {
	query := `
		SELECT id, branch_id, date, created_at, updated_at
		FROM rosters
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetByBranchAndDate implements roster.RosterRepository.
func (r *rosterRepositoryImpl) GetByBranchAndDate(ctx context.Context, branchID string, date time.Time) (roster.Roster, error) {
	query := `
		SELECT id, branch_id, date, created_at, updated_at
		FROM rosters
		WHERE branch_id = $1 AND date = $2
	`
	return r.getOne(ctx, query, branchID, date)
}

func (r *rosterRepositoryImpl) getOne(ctx context.Context, query string, args ...interface{}) (roster.Roster, error) {
	q := GetQuerier(ctx, r.db)

	var result roster.Roster
	err := q.QueryRow(ctx, query, args...).Scan(
		&result.ID,
		&result.BranchID,
		&result.Date,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return roster.Roster{}, roster.ErrRosterNotFound
		}
		return roster.Roster{}, fmt.Errorf("failed to get roster: %w", err)
	}

	entries, err := loadEntries(ctx, q, []string{result.ID})
	if err != nil {
		return roster.Roster{}, err
	}
	result.Entries = entries[result.ID]

	return result, nil
}

// ExistsForDate implements roster.RosterRepository.
func (r *rosterRepositoryImpl) ExistsForDate(ctx context.Context, branchID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rosters WHERE branch_id = $1 AND date = $2)`, branchID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check roster existence: %w", err)
	}
	return exists, nil
}

// ListByBranchBetween implements roster.RosterRepository.
func (r *rosterRepositoryImpl) ListByBranchBetween(ctx context.Context, branchID string, from, to time.Time) ([]roster.Roster, error) {
	query := `
		SELECT id, branch_id, date, created_at, updated_at
		FROM rosters
		WHERE branch_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC
	`
	return r.list(ctx, query, branchID, from, to)
}

// ListByEmployee implements roster.RosterRepository.
func (r *rosterRepositoryImpl) ListByEmployee(ctx context.Context, branchID, employeeID string) ([]roster.Roster, error) {
	query := `
		SELECT r.id, r.branch_id, r.date, r.created_at, r.updated_at
		FROM rosters r
		WHERE r.branch_id = $1
			AND EXISTS (SELECT 1 FROM roster_entries e WHERE e.roster_id = r.id AND e.employee_id = $2)
		ORDER BY r.date ASC
	`
	return r.list(ctx, query, branchID, employeeID)
}

func (r *rosterRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]roster.Roster, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rosters: %w", err)
	}
	defer rows.Close()

	var (
		rosters []roster.Roster
		ids     []string
	)
	for rows.Next() {
		var item roster.Roster
		if err := rows.Scan(&item.ID, &item.BranchID, &item.Date, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan roster: %w", err)
		}
		rosters = append(rosters, item)
		ids = append(ids, item.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rosters: %w", err)
	}

	entries, err := loadEntries(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range rosters {
		rosters[i].Entries = entries[rosters[i].ID]
	}

	return rosters, nil
}

func loadEntries(ctx context.Context, q database.Querier, rosterIDs []string) (map[string][]roster.AttendanceEntry, error) {
	result := make(map[string][]roster.AttendanceEntry, len(rosterIDs))
	if len(rosterIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT roster_id, employee_id, shift_name, clock_in_time, clock_out_time, attendance_status
		FROM roster_entries
		WHERE roster_id = ANY($1)
		ORDER BY roster_id, position
	`
	rows, err := q.Query(ctx, query, rosterIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rosterID string
			e        roster.AttendanceEntry
		)
		if err := rows.Scan(&rosterID, &e.EmployeeID, &e.ShiftName, &e.ClockInTime, &e.ClockOutTime, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		result[rosterID] = append(result[rosterID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roster entries: %w", err)
	}

	return result, nil
}

// CountStatuses implements roster.RosterRepository.
func (r *rosterRepositoryImpl) CountStatuses(ctx context.Context, branchID string, from, to time.Time) (roster.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE e.attendance_status = 'present'),
			COUNT(*) FILTER (WHERE e.attendance_status = 'late')
		FROM roster_entries e
		JOIN rosters r ON r.id = e.roster_id
		WHERE r.branch_id = $1 AND r.date >= $2 AND r.date < $3
	`

	var summary roster.Summary
	if err := q.QueryRow(ctx, query, branchID, from, to).Scan(&summary.PresentCount, &summary.LateCount); err != nil {
		return roster.Summary{}, fmt.Errorf("failed to count attendance statuses: %w", err)
	}
	return summary, nil
}

// RemoveEntry implements roster.RosterRepository.
func (r *rosterRepositoryImpl) RemoveEntry(ctx context.Context, rosterID, employeeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM roster_entries WHERE roster_id = $1 AND employee_id = $2`, rosterID, employeeID)
	if err != nil {
		return false, fmt.Errorf("failed to remove roster entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := touchRoster(ctx, q, rosterID); err != nil {
		return true, err
	}
	return true, nil
}

// ReplaceEntries implements roster.RosterRepository.
func (r *rosterRepositoryImpl) ReplaceEntries(ctx context.Context, rosterID string, entries []roster.AttendanceEntry) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var locked string
		if err := q.QueryRow(ctx, `SELECT id FROM rosters WHERE id = $1 FOR UPDATE`, rosterID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return roster.ErrRosterNotFound
			}
			return fmt.Errorf("failed to lock roster: %w", err)
		}

		current, err := lockEntries(ctx, q, rosterID)
		if err != nil {
			return err
		}

		if _, err := q.Exec(ctx, `DELETE FROM roster_entries WHERE roster_id = $1`, rosterID); err != nil {
			return fmt.Errorf("failed to clear roster entries: %w", err)
		}
		if err := insertEntries(ctx, q, rosterID, roster.CarryAttendance(current, entries)); err != nil {
			return err
		}
		return touchRoster(ctx, q, rosterID)
	})
}

// SetClockIn implements roster.RosterRepository.
func (r *rosterRepositoryImpl) SetClockIn(ctx context.Context, rosterID, employeeID string, at time.Time, status roster.AttendanceStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE roster_entries
		SET clock_in_time = $3, attendance_status = $4
		WHERE roster_id = $1 AND employee_id = $2 AND clock_in_time IS NULL
	`
	tag, err := q.Exec(ctx, query, rosterID, employeeID, at, string(status))
	if err != nil {
		return fmt.Errorf("failed to set clock in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		entry, err := getEntry(ctx, q, rosterID, employeeID)
		if err != nil {
			return err
		}
		if entry.ClockedIn() {
			return roster.ErrAlreadyClockedIn
		}
		return fmt.Errorf("clock in of %s on %s was not applied", employeeID, rosterID)
	}

	return touchRoster(ctx, q, rosterID)
}

// SetClockOut implements roster.RosterRepository.
func (r *rosterRepositoryImpl) SetClockOut(ctx context.Context, rosterID, employeeID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE roster_entries
		SET clock_out_time = $3
		WHERE roster_id = $1 AND employee_id = $2
			AND clock_in_time IS NOT NULL AND clock_out_time IS NULL
	`
	tag, err := q.Exec(ctx, query, rosterID, employeeID, at)
	if err != nil {
		return fmt.Errorf("failed to set clock out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		entry, err := getEntry(ctx, q, rosterID, employeeID)
		if err != nil {
			return err
		}
		if !entry.ClockedIn() {
			return roster.ErrNotClockedIn
		}
		if entry.ClockedOut() {
			return roster.ErrAlreadyClockedOut
		}
		return fmt.Errorf("clock out of %s on %s was not applied", employeeID, rosterID)
	}

	return touchRoster(ctx, q, rosterID)
}

// lockEntries reads the roster's entries and holds their row locks until the transaction ends.
func lockEntries(ctx context.Context, q database.Querier, rosterID string) ([]roster.AttendanceEntry, error) {
	query := `
		SELECT employee_id, shift_name, clock_in_time, clock_out_time, attendance_status
		FROM roster_entries
		WHERE roster_id = $1
		ORDER BY position
		FOR UPDATE
	`
	rows, err := q.Query(ctx, query, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock roster entries: %w", err)
	}
	defer rows.Close()

	var entries []roster.AttendanceEntry
	for rows.Next() {
		var e roster.AttendanceEntry
		if err := rows.Scan(&e.EmployeeID, &e.ShiftName, &e.ClockInTime, &e.ClockOutTime, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roster entries: %w", err)
	}
	return entries, nil
}

func getEntry(ctx context.Context, q database.Querier, rosterID, employeeID string) (roster.AttendanceEntry, error) {
	query := `
		SELECT employee_id, shift_name, clock_in_time, clock_out_time, attendance_status
		FROM roster_entries
		WHERE roster_id = $1 AND employee_id = $2
	`
	var e roster.AttendanceEntry
	err := q.QueryRow(ctx, query, rosterID, employeeID).Scan(&e.EmployeeID, &e.ShiftName, &e.ClockInTime, &e.ClockOutTime, &e.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return roster.AttendanceEntry{}, roster.ErrNotScheduled
		}
		return roster.AttendanceEntry{}, fmt.Errorf("failed to get roster entry: %w", err)
	}
	return e, nil
}

func touchRoster(ctx context.Context, q database.Querier, rosterID string) error {
	if _, err := q.Exec(ctx, `UPDATE rosters SET updated_at = NOW() WHERE id = $1`, rosterID); err != nil {
		return fmt.Errorf("failed to touch roster: %w", err)
	}
	return nil
}
