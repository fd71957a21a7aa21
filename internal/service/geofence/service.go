package geofence

import (
	"context"
	"errors"
	"fmt"

	"github.com/storeshift/hris-backend-go/internal/domain/employee"
	"github.com/storeshift/hris-backend-go/internal/pkg/geo"
)

// Validator decides whether a reported position is close enough to a branch.
type Validator interface {
	IsWithinFence(ctx context.Context, branchID string, c geo.Coordinate) (bool, error)
}

type ValidatorImpl struct {
	directory employee.DirectoryStore
}

func NewValidator(directory employee.DirectoryStore) *ValidatorImpl {
	return &ValidatorImpl{directory: directory}
}

// IsWithinFence reports false for unknown branches. Only store failures are errors.
func (v *ValidatorImpl) IsWithinFence(ctx context.Context, branchID string, c geo.Coordinate) (bool, error) {
	branch, err := v.directory.GetBranch(ctx, branchID)
	if err != nil {
		if errors.Is(err, employee.ErrBranchNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get branch %s: %w", branchID, err)
	}

	return geo.Within(branch.Coordinate(), c), nil
}
