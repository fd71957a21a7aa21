package leave

import (
	"context"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
)

type LeaveService interface {
	// CheckDateRange validates a requested range and returns its day count
	CheckDateRange(ctx context.Context, start, end time.Time, employeeID string) (outcome.Result[int], error)

	// CreateRequest files a pending request for the caller and reserves annual days
	CreateRequest(ctx context.Context, p user.Principal, req CreateLeaveRequestRequest) (outcome.Result[CreateLeaveResponse], error)

	ListByEmployee(ctx context.Context, employeeID string) (outcome.Result[[]LeaveRequestResponse], error)
	GetRequestsByBranch(ctx context.Context, branchID string) (outcome.Result[[]LeaveRequestResponse], error)
	GetDetails(ctx context.Context, p user.Principal, id string) (outcome.Result[LeaveRequestResponse], error)

	// CancelRequest withdraws a pending or approved request and refunds reserved days
	CancelRequest(ctx context.Context, p user.Principal, id string) (outcome.Result[LeaveRequestResponse], error)

	// RejectRequest declines a pending request and refunds reserved days
	RejectRequest(ctx context.Context, p user.Principal, id string, req ReviewRequest) (outcome.Result[LeaveRequestResponse], error)

	// ApproveRequest accepts a pending request; the days were already reserved at creation
	ApproveRequest(ctx context.Context, p user.Principal, id string, req ReviewRequest) (outcome.Result[LeaveRequestResponse], error)
}
