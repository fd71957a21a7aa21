package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// GetByEmployeeID returns the employee's requests, newest first.
	GetByEmployeeID(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	// GetActiveByEmployeeID returns pending and approved requests only.
	GetActiveByEmployeeID(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	GetByBranchID(ctx context.Context, branchID string) ([]LeaveRequest, error)

	// UpdateStatus moves the request to status only when its current status
	// is one of from, returning ErrLeaveRequestAlreadyProcessed otherwise.
	UpdateStatus(ctx context.Context, id string, from []LeaveRequestStatus, status LeaveRequestStatus, reviewer *Reviewer) (LeaveRequest, error)

	// LockEmployee serializes leave writes of one employee until the
	// surrounding transaction ends.
	LockEmployee(ctx context.Context, employeeID string) error
}

// TxManager runs fn in one transaction carried by the context passed to fn.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
