package user

import "context"

type Role string

const (
	RoleOwner    Role = "owner"    // Business owner - every branch
	RoleManager  Role = "manager"  // Runs one branch: rosters, leave review
	RoleEmployee Role = "employee" // Regular employee
)

// Principal is the authorized caller of an operation.
type Principal struct {
	ID       string
	Name     string
	Role     Role
	BranchID string
}

// IsOwner checks if the principal is the business owner
func (p Principal) IsOwner() bool {
	return p.Role == RoleOwner
}

// IsManager checks if the principal is a manager or owner
func (p Principal) IsManager() bool {
	return p.Role == RoleManager || p.Role == RoleOwner
}

// CanApprove checks if the principal can review leave requests
func (p Principal) CanApprove() bool {
	return p.IsManager()
}

// CanAccessBranch reports whether the principal may act on branchID.
func (p Principal) CanAccessBranch(branchID string) bool {
	return p.IsOwner() || p.BranchID == branchID
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
