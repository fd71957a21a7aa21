package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/storeshift/hris-backend-go/internal/domain/employee"
)

// GetBranch implements employee.DirectoryStore.
func (r *directoryRepositoryImpl) GetBranch(ctx context.Context, id string) (employee.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, latitude, longitude, timezone, created_at, updated_at
		FROM branches
		WHERE id = $1
	`

	var result employee.Branch
	err := q.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.Name,
		&result.Latitude,
		&result.Longitude,
		&result.Timezone,
		&result.CreatedAt,
		&result.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Branch{}, employee.ErrBranchNotFound
		}
		return employee.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	return result, nil
}
