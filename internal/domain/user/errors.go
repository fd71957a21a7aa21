package user

import "errors"

var (
	ErrPrincipalMissing        = errors.New("principal missing from request context")
	ErrInvalidRole             = errors.New("invalid role")
	ErrOwnerAccessRequired     = errors.New("owner access required")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrBranchAccessDenied      = errors.New("You don't have access to this branch")
)
