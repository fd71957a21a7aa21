package audit

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryAuth       Category = "auth"
	CategoryBranch     Category = "branch"
	CategoryEmployee   Category = "employee"
	CategoryShift      Category = "shift"
	CategoryAttendance Category = "attendance"
	CategoryLeave      Category = "leave"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAuth, CategoryBranch, CategoryEmployee, CategoryShift, CategoryAttendance, CategoryLeave:
		return true
	}
	return false
}

// Entry is one line of the append-only history log.
type Entry struct {
	ID          string
	ActorID     string
	ActorName   string
	Description string
	Category    Category
	Timestamp   time.Time
}

func NewEntryID() string {
	return "HIS_" + uuid.New().String()
}
