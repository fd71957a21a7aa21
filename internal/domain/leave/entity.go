package leave

import (
	"time"

	"github.com/google/uuid"
)

type LeaveType string

const (
	TypeSick       LeaveType = "sick"
	TypeAnnual     LeaveType = "annual"
	TypePermission LeaveType = "permission"
)

// DeductsBalance reports whether requests of this type reserve annual leave days.
func (t LeaveType) DeductsBalance() bool {
	return t == TypeAnnual
}

type LeaveRequestStatus string

const (
	StatusPending  LeaveRequestStatus = "pending"
	StatusApproved LeaveRequestStatus = "approved"
	StatusRejected LeaveRequestStatus = "rejected"
	StatusCanceled LeaveRequestStatus = "canceled"
)

// Active statuses block other requests of the employee over the same days.
var ActiveStatuses = []LeaveRequestStatus{StatusPending, StatusApproved}

// Reviewer is the manager decision attached on approval or rejection.
type Reviewer struct {
	ReviewerID   string
	ReviewerName string
	Note         string
	ReviewedAt   time.Time
}

type LeaveRequest struct {
	ID                 string
	EmployeeID         string
	BranchID           string
	Type               LeaveType
	StartDate          time.Time // civil date, midnight UTC
	EndDate            time.Time
	Days               int
	Reason             string
	Status             LeaveRequestStatus
	Reviewer           *Reviewer
	AttachmentURL      *string
	AttachmentFileName *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewRequestID() string {
	return "ANR_" + uuid.New().String()
}

func (r LeaveRequest) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// Overlaps reports whether [start, end] intersects the request's range, bounds inclusive.
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !start.After(r.EndDate) && !end.Before(r.StartDate)
}

// DaysBetween counts calendar days from start to end, both included.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
