package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/storeshift/hris-backend-go/internal/domain/shift"
	"github.com/storeshift/hris-backend-go/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.Catalog {
	return &shiftRepositoryImpl{db: db}
}

func toTimeOfDay(t pgtype.Time) shift.TimeOfDay {
	return shift.TimeOfDay(t.Microseconds / 1_000_000)
}

func scanShift(row pgx.Row) (shift.ShiftDefinition, error) {
	var (
		s          shift.ShiftDefinition
		start, end pgtype.Time
	)
	if err := row.Scan(&s.Name, &start, &end); err != nil {
		return shift.ShiftDefinition{}, err
	}
	s.StartTime = toTimeOfDay(start)
	s.EndTime = toTimeOfDay(end)
	return s, nil
}

// ListShifts implements shift.Catalog.
func (r *shiftRepositoryImpl) ListShifts(ctx context.Context) ([]shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT name, start_time, end_time FROM shifts ORDER BY start_time, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.ShiftDefinition
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return shifts, nil
}

// FindByName implements shift.Catalog.
func (r *shiftRepositoryImpl) FindByName(ctx context.Context, name string) (shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, `SELECT name, start_time, end_time FROM shifts WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftDefinition{}, shift.ErrShiftNotFound
		}
		return shift.ShiftDefinition{}, fmt.Errorf("failed to find shift %q: %w", name, err)
	}
	return s, nil
}
