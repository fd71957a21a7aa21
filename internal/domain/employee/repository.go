package employee

import "context"

// DirectoryStore is the employee and branch master data the workflow engines
// read and update. Lookups of unknown ids return ErrEmployeeNotFound or
// ErrBranchNotFound.
type DirectoryStore interface {
	GetEmployee(ctx context.Context, id string) (Employee, error)
	GetEmployees(ctx context.Context, ids []string) (map[string]Employee, error)
	GetBranch(ctx context.Context, id string) (Branch, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) error

	// DeductLeaveBalance subtracts days only if the balance covers them,
	// otherwise it returns ErrInsufficientBalance.
	DeductLeaveBalance(ctx context.Context, id string, days int) error
	RefundLeaveBalance(ctx context.Context, id string, days int) error
	IncrementWorkDays(ctx context.Context, id string) error
}
