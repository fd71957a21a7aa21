package shift

import "context"

// Catalog is the read-only list of named shifts.
type Catalog interface {
	ListShifts(ctx context.Context) ([]ShiftDefinition, error)
	// FindByName returns ErrShiftNotFound when no shift has that name.
	FindByName(ctx context.Context, name string) (ShiftDefinition, error)
}
