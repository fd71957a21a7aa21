package employee

import (
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/pkg/geo"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Employee struct {
	ID                 string
	Name               string
	BranchID           string
	Role               user.Role
	AnnualLeaveBalance int
	WorkDays           int
	Status             Status
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Branch struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	// IANA zone name, e.g. "Asia/Jakarta". Empty means the business default.
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Coordinate is the branch's registered point.
func (b Branch) Coordinate() geo.Coordinate {
	return geo.Coordinate{Longitude: b.Longitude, Latitude: b.Latitude}
}

// Location resolves the branch timezone, falling back to def.
func (b Branch) Location(def *time.Location) *time.Location {
	if b.Timezone == "" {
		return def
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return def
	}
	return loc
}
