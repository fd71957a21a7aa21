package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/storeshift/hris-backend-go/internal/domain/employee"
	"github.com/storeshift/hris-backend-go/internal/pkg/database"
)

type directoryRepositoryImpl struct {
	db *database.DB
}

func NewDirectoryRepository(db *database.DB) employee.DirectoryStore {
	return &directoryRepositoryImpl{db: db}
}

const employeeColumns = `id, name, COALESCE(branch_id, ''), role, annual_leave_balance, work_days, status, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.BranchID,
		&e.Role,
		&e.AnnualLeaveBalance,
		&e.WorkDays,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// GetEmployee implements employee.DirectoryStore.
func (r *directoryRepositoryImpl) GetEmployee(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	return e, nil
}

// GetEmployees implements employee.DirectoryStore.
func (r *directoryRepositoryImpl) GetEmployees(ctx context.Context, ids []string) (map[string]employee.Employee, error) {
	result := make(map[string]employee.Employee, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1)`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		result[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return result, nil
}

// UpdateEmployee implements employee.DirectoryStore.
func (r *directoryRepositoryImpl) UpdateEmployee(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	if req.Empty() {
		return employee.ErrNoFieldsToUpdate
	}

	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.BranchID != nil {
		if *req.BranchID == "" {
			updates["branch_id"] = nil
		} else {
			updates["branch_id"] = *req.BranchID
		}
	}
	if req.AnnualLeaveBalance != nil {
		updates["annual_leave_balance"] = *req.AnnualLeaveBalance
	}
	if req.WorkDays != nil {
		updates["work_days"] = *req.WorkDays
	}
	if req.Status != nil && *req.Status != "" {
		updates["status"] = string(*req.Status)
	}

	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING id", strings.Join(setClauses, ", "), i)
	args = append(args, id)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}
	return nil
}

// DeductLeaveBalance implements employee.DirectoryStore.
func (r *directoryRepositoryImpl) DeductLeaveBalance(ctx context.Context, id string, days int) error {
	if days <= 0 {
		return employee.ErrInvalidLeaveDays
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET annual_leave_balance = annual_leave_balance - $2, updated_at = NOW()
		WHERE id = $1 AND annual_leave_balance >= $2
	`

	tag, err := q.Exec(ctx, query, id, days)
	if err != nil {
		return fmt.Errorf("failed to deduct leave balance of %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMiss(ctx, id, employee.ErrInsufficientBalance)
	}
	return nil
}

// RefundLeaveBalance implements employee.DirectoryStore.
func (r *directoryRepositoryImpl) RefundLeaveBalance(ctx context.Context, id string, days int) error {
	if days <= 0 {
		return employee.ErrInvalidLeaveDays
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET annual_leave_balance = annual_leave_balance + $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, days)
	if err != nil {
		return fmt.Errorf("failed to refund leave balance of %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// IncrementWorkDays implements employee.DirectoryStore.
func (r *directoryRepositoryImpl) IncrementWorkDays(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET work_days = work_days + 1, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment work days of %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// explainMiss tells a missing employee apart from a failed precondition.
func (r *directoryRepositoryImpl) explainMiss(ctx context.Context, id string, precondition error) error {
	var exists bool
	err := GetQuerier(ctx, r.db).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check employee %s: %w", id, err)
	}
	if !exists {
		return employee.ErrEmployeeNotFound
	}
	return precondition
}
