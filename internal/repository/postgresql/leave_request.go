package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/storeshift/hris-backend-go/internal/domain/leave"
	"github.com/storeshift/hris-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	id, employee_id, branch_id, type, start_date, end_date, days, reason, status,
	reviewer_id, reviewer_name, reviewer_note, reviewed_at,
	attachment_url, attachment_file_name, created_at, updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var (
		req          leave.LeaveRequest
		reviewerID   *string
		reviewerName *string
		reviewerNote *string
		reviewedAt   *time.Time
	)
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.BranchID, &req.Type, &req.StartDate, &req.EndDate, &req.Days, &req.Reason, &req.Status,
		&reviewerID, &reviewerName, &reviewerNote, &reviewedAt,
		&req.AttachmentURL, &req.AttachmentFileName, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	if reviewerID != nil && reviewedAt != nil {
		req.Reviewer = &leave.Reviewer{
			ReviewerID:   *reviewerID,
			ReviewerName: deref(reviewerName),
			Note:         deref(reviewerNote),
			ReviewedAt:   *reviewedAt,
		}
	}
	return req, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, branch_id, type,
			start_date, end_date, days, reason, status,
			attachment_url, attachment_file_name,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.BranchID, string(request.Type),
		request.StartDate, request.EndDate, request.Days, request.Reason, string(request.Status),
		request.AttachmentURL, request.AttachmentFileName,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// Delete implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request %s: %w", id, err)
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanLeaveRequest(q.QueryRow(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}
	return req, nil
}

// GetByEmployeeID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE employee_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, employeeID)
}

// GetActiveByEmployeeID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetActiveByEmployeeID(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	statuses := make([]string, 0, len(leave.ActiveStatuses))
	for _, s := range leave.ActiveStatuses {
		statuses = append(statuses, string(s))
	}

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1 AND status = ANY($2)
		ORDER BY start_date ASC
	`
	return r.list(ctx, query, employeeID, statuses)
}

// GetByBranchID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByBranchID(ctx context.Context, branchID string) ([]leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE branch_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, branchID)
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, from []leave.LeaveRequestStatus, status leave.LeaveRequestStatus, reviewer *leave.Reviewer) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}

	var reviewerID, reviewerName, reviewerNote *string
	var reviewedAt *time.Time
	if reviewer != nil {
		reviewerID = &reviewer.ReviewerID
		reviewerName = &reviewer.ReviewerName
		reviewerNote = &reviewer.Note
		reviewedAt = &reviewer.ReviewedAt
	}

	query := `
		UPDATE leave_requests
		SET status = $2,
			reviewer_id = COALESCE($4, reviewer_id),
			reviewer_name = COALESCE($5, reviewer_name),
			reviewer_note = COALESCE($6, reviewer_note),
			reviewed_at = COALESCE($7, reviewed_at),
			updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
		RETURNING ` + leaveRequestColumns

	updated, err := scanLeaveRequest(q.QueryRow(ctx, query, id, string(status), allowed, reviewerID, reviewerName, reviewerNote, reviewedAt))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request status: %w", err)
		}
		// tell an unknown id apart from a lost race on the status
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return leave.LeaveRequest{}, getErr
		}
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	return updated, nil
}

// LockEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('leave:' || $1))`, employeeID); err != nil {
		return fmt.Errorf("failed to lock leave requests of %s: %w", employeeID, err)
	}
	return nil
}
