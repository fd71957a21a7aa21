package memory

import (
	"context"
	"sort"

	"github.com/storeshift/hris-backend-go/internal/domain/shift"
)

// ShiftCatalog is immutable after construction, so reads need no locking.
type ShiftCatalog struct {
	byName map[string]shift.ShiftDefinition
	sorted []shift.ShiftDefinition
}

func NewShiftCatalog(shifts ...shift.ShiftDefinition) *ShiftCatalog {
	c := &ShiftCatalog{byName: make(map[string]shift.ShiftDefinition, len(shifts))}
	for _, s := range shifts {
		c.byName[s.Name] = s
	}
	for _, s := range c.byName {
		c.sorted = append(c.sorted, s)
	}
	sort.Slice(c.sorted, func(i, j int) bool {
		if c.sorted[i].StartTime != c.sorted[j].StartTime {
			return c.sorted[i].StartTime < c.sorted[j].StartTime
		}
		return c.sorted[i].Name < c.sorted[j].Name
	})
	return c
}

// DefaultShifts is the catalog seeded by the initial migration.
func DefaultShifts() []shift.ShiftDefinition {
	return []shift.ShiftDefinition{
		{Name: "Day", StartTime: shift.NewTimeOfDay(8, 0, 0), EndTime: shift.NewTimeOfDay(16, 0, 0)},
		{Name: "Evening", StartTime: shift.NewTimeOfDay(14, 0, 0), EndTime: shift.NewTimeOfDay(22, 0, 0)},
		{Name: "Night", StartTime: shift.NewTimeOfDay(22, 0, 0), EndTime: shift.NewTimeOfDay(6, 0, 0)},
	}
}

func (c *ShiftCatalog) ListShifts(ctx context.Context) ([]shift.ShiftDefinition, error) {
	out := make([]shift.ShiftDefinition, len(c.sorted))
	copy(out, c.sorted)
	return out, nil
}

func (c *ShiftCatalog) FindByName(ctx context.Context, name string) (shift.ShiftDefinition, error) {
	s, ok := c.byName[name]
	if !ok {
		return shift.ShiftDefinition{}, shift.ErrShiftNotFound
	}
	return s, nil
}
