package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/audit"
	"github.com/storeshift/hris-backend-go/internal/domain/employee"
	"github.com/storeshift/hris-backend-go/internal/domain/leave"
	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/domain/roster"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/pkg/sanitizer"
	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
	"github.com/storeshift/hris-backend-go/internal/service/file"
)

// displayDateLayout formats dates quoted back to employees.
const displayDateLayout = "02-01-2006"

type LeaveServiceImpl struct {
	requests  leave.LeaveRequestRepository
	directory employee.DirectoryStore
	tx        leave.TxManager
	files     file.FileService
	history   audit.Logger
	sanitizer sanitizer.Sanitizer
	location  *time.Location
	now       func() time.Time
}

func NewLeaveService(
	requests leave.LeaveRequestRepository,
	directory employee.DirectoryStore,
	tx leave.TxManager,
	files file.FileService,
	history audit.Logger,
	s sanitizer.Sanitizer,
	loc *time.Location,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		requests:  requests,
		directory: directory,
		tx:        tx,
		files:     files,
		history:   history,
		sanitizer: s,
		location:  loc,
		now:       time.Now,
	}
}

func (s *LeaveServiceImpl) today() time.Time {
	return roster.CivilDate(s.now().In(s.location))
}

// CheckDateRange implements leave.LeaveService. start and end are civil dates.
func (s *LeaveServiceImpl) CheckDateRange(ctx context.Context, start, end time.Time, employeeID string) (outcome.Result[int], error) {
	start, end = roster.CivilDate(start), roster.CivilDate(end)
	today := s.today()

	switch {
	case start.Before(today):
		return outcome.Business[int](leave.ErrStartDateInPast), nil
	case end.Before(today):
		return outcome.Business[int](leave.ErrEndDateInPast), nil
	case start.After(end):
		return outcome.Business[int](leave.ErrStartDateAfterEnd), nil
	}

	active, err := s.requests.GetActiveByEmployeeID(ctx, employeeID)
	if err != nil {
		return outcome.Result[int]{}, fmt.Errorf("failed to get leave requests of %s: %w", employeeID, err)
	}
	for _, r := range active {
		if r.Overlaps(start, end) {
			return outcome.Business[int](fmt.Errorf("%w (%s to %s).", leave.ErrDateRangeOverlaps,
				r.StartDate.Format(displayDateLayout), r.EndDate.Format(displayDateLayout))), nil
		}
	}

	return outcome.OK("", leave.DaysBetween(start, end)), nil
}

// CreateRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, p user.Principal, req leave.CreateLeaveRequestRequest) (outcome.Result[leave.CreateLeaveResponse], error) {
	if err := req.ValidateDates(); err != nil {
		return outcome.Invalid[leave.CreateLeaveResponse](err), nil
	}
	start, _ := validator.ParseDateIn(req.StartDate, time.UTC)
	end, _ := validator.ParseDateIn(req.EndDate, time.UTC)

	var res outcome.Result[leave.CreateLeaveResponse]
	var created leave.LeaveRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requests.LockEmployee(ctx, p.ID); err != nil {
			return fmt.Errorf("failed to lock leave requests of %s: %w", p.ID, err)
		}

		var err error
		created, res, err = s.create(ctx, p, req, start, end)
		return err
	})
	if err != nil {
		return outcome.Result[leave.CreateLeaveResponse]{}, err
	}
	if !res.Status {
		return res, nil
	}

	s.history.Log(ctx, p, audit.CategoryLeave, fmt.Sprintf("Created %s leave request %s for %d days (%s to %s)",
		created.Type, created.ID, created.Days,
		created.StartDate.Format(displayDateLayout), created.EndDate.Format(displayDateLayout)))

	return res, nil
}

// create runs the checks and writes of CreateRequest while the employee's
// leave lock is held.
func (s *LeaveServiceImpl) create(ctx context.Context, p user.Principal, req leave.CreateLeaveRequestRequest, start, end time.Time) (leave.LeaveRequest, outcome.Result[leave.CreateLeaveResponse], error) {
	fail := func(r outcome.Result[leave.CreateLeaveResponse]) (leave.LeaveRequest, outcome.Result[leave.CreateLeaveResponse], error) {
		return leave.LeaveRequest{}, r, nil
	}

	emp, err := s.directory.GetEmployee(ctx, p.ID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return fail(outcome.NotFound[leave.CreateLeaveResponse](employee.ErrEmployeeNotFound))
		}
		return leave.LeaveRequest{}, outcome.Result[leave.CreateLeaveResponse]{}, fmt.Errorf("failed to get employee %s: %w", p.ID, err)
	}

	check, err := s.CheckDateRange(ctx, start, end, emp.ID)
	if err != nil {
		return leave.LeaveRequest{}, outcome.Result[leave.CreateLeaveResponse]{}, err
	}
	if !check.Status {
		return fail(outcome.Cast[leave.CreateLeaveResponse](check))
	}
	days := check.Data

	if req.Type == leave.TypeAnnual && days > emp.AnnualLeaveBalance {
		return fail(outcome.Business[leave.CreateLeaveResponse](employee.ErrInsufficientBalance).
			WithExtra("deficit", days-emp.AnnualLeaveBalance))
	}

	req.Reason = s.sanitizer.Clean(req.Reason)
	if err := req.Validate(); err != nil {
		return fail(outcome.Invalid[leave.CreateLeaveResponse](err))
	}

	request := leave.LeaveRequest{
		ID:         leave.NewRequestID(),
		EmployeeID: emp.ID,
		BranchID:   emp.BranchID,
		Type:       req.Type,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Reason:     req.Reason,
		Status:     leave.StatusPending,
	}

	var attachmentKey string
	stored := false
	defer func() {
		if !stored && attachmentKey != "" {
			s.discardAttachment(ctx, attachmentKey)
		}
	}()

	if req.File != nil && req.FileHeader != nil {
		attachment, err := s.files.UploadLeaveAttachment(ctx, emp.ID, req.File, req.FileHeader.Filename)
		if err != nil {
			return leave.LeaveRequest{}, outcome.Result[leave.CreateLeaveResponse]{}, err
		}
		attachmentKey = attachment.Key
		request.AttachmentURL = &attachment.URL
		request.AttachmentFileName = &attachment.FileName
	}

	created, err := s.requests.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequest{}, outcome.Result[leave.CreateLeaveResponse]{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	if created.Type.DeductsBalance() {
		if err := s.directory.DeductLeaveBalance(ctx, emp.ID, days); err != nil {
			// an error return rolls the insert back with the transaction
			if !errors.Is(err, employee.ErrInsufficientBalance) {
				return leave.LeaveRequest{}, outcome.Result[leave.CreateLeaveResponse]{}, fmt.Errorf("%w: %v", employee.ErrBalanceUpdateFailed, err)
			}
			s.rollbackCreate(ctx, created.ID)
			return fail(outcome.Business[leave.CreateLeaveResponse](employee.ErrBalanceUpdateFailed))
		}
	}

	stored = true
	return created, outcome.OK("Leave request created successfully", leave.CreateLeaveResponse{
		RequestID: created.ID,
		Days:      created.Days,
	}), nil
}

// rollbackCreate deletes a request whose balance deduction failed.
func (s *LeaveServiceImpl) rollbackCreate(ctx context.Context, id string) {
	if err := s.requests.Delete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "failed to roll back leave request", "request_id", id, "error", err)
	}
}

func (s *LeaveServiceImpl) discardAttachment(ctx context.Context, key string) {
	if err := s.files.DeleteFile(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to delete orphaned attachment", "key", key, "error", err)
	}
}

// ListByEmployee implements leave.LeaveService.
func (s *LeaveServiceImpl) ListByEmployee(ctx context.Context, employeeID string) (outcome.Result[[]leave.LeaveRequestResponse], error) {
	requests, err := s.requests.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return outcome.Result[[]leave.LeaveRequestResponse]{}, fmt.Errorf("failed to get leave requests of %s: %w", employeeID, err)
	}

	out := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, leave.NewLeaveRequestResponse(r, nil))
	}
	return outcome.OK("Leave requests retrieved successfully", out), nil
}

// GetRequestsByBranch implements leave.LeaveService.
func (s *LeaveServiceImpl) GetRequestsByBranch(ctx context.Context, branchID string) (outcome.Result[[]leave.LeaveRequestResponse], error) {
	requests, err := s.requests.GetByBranchID(ctx, branchID)
	if err != nil {
		return outcome.Result[[]leave.LeaveRequestResponse]{}, fmt.Errorf("failed to get leave requests of branch %s: %w", branchID, err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, r := range requests {
		if !seen[r.EmployeeID] {
			seen[r.EmployeeID] = true
			ids = append(ids, r.EmployeeID)
		}
	}

	employees := map[string]employee.Employee{}
	if len(ids) > 0 {
		employees, err = s.directory.GetEmployees(ctx, ids)
		if err != nil {
			return outcome.Result[[]leave.LeaveRequestResponse]{}, fmt.Errorf("failed to look up employees: %w", err)
		}
	}

	out := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		var snapshot *employee.Employee
		if e, ok := employees[r.EmployeeID]; ok {
			snapshot = &e
		}
		out = append(out, leave.NewLeaveRequestResponse(r, snapshot))
	}
	return outcome.OK("Leave requests retrieved successfully", out), nil
}

// GetDetails implements leave.LeaveService. Employees see their own requests,
// managers every request of their branch.
func (s *LeaveServiceImpl) GetDetails(ctx context.Context, p user.Principal, id string) (outcome.Result[leave.LeaveRequestResponse], error) {
	r, res, err := s.load(ctx, p, id, leave.ErrRequestAccessDenied)
	if err != nil || !res.Status {
		return outcome.Cast[leave.LeaveRequestResponse](res), err
	}

	resp, err := s.enrich(ctx, r)
	if err != nil {
		return outcome.Result[leave.LeaveRequestResponse]{}, err
	}
	return outcome.OK("Leave request retrieved successfully", resp), nil
}

// load fetches a request the principal may act on. denied is the reason
// reported when they may not.
func (s *LeaveServiceImpl) load(ctx context.Context, p user.Principal, id string, denied error) (leave.LeaveRequest, outcome.Result[struct{}], error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, outcome.NotFound[struct{}](leave.ErrLeaveRequestNotFound), nil
		}
		return leave.LeaveRequest{}, outcome.Result[struct{}]{}, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}

	if r.EmployeeID != p.ID && !(p.IsManager() && p.CanAccessBranch(r.BranchID)) {
		return leave.LeaveRequest{}, outcome.Forbidden[struct{}](denied), nil
	}
	return r, outcome.OK("", struct{}{}), nil
}

func (s *LeaveServiceImpl) enrich(ctx context.Context, r leave.LeaveRequest) (leave.LeaveRequestResponse, error) {
	emp, err := s.directory.GetEmployee(ctx, r.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.NewLeaveRequestResponse(r, nil), nil
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get employee %s: %w", r.EmployeeID, err)
	}
	return leave.NewLeaveRequestResponse(r, &emp), nil
}

// CancelRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CancelRequest(ctx context.Context, p user.Principal, id string) (outcome.Result[leave.LeaveRequestResponse], error) {
	r, res, err := s.load(ctx, p, id, leave.ErrCancelNotAllowed)
	if err != nil || !res.Status {
		return outcome.Cast[leave.LeaveRequestResponse](res), err
	}

	updated, res, err := s.transition(ctx, r, leave.ActiveStatuses, leave.StatusCanceled, nil)
	if err != nil || !res.Status {
		return outcome.Cast[leave.LeaveRequestResponse](res), err
	}

	s.history.Log(ctx, p, audit.CategoryLeave, fmt.Sprintf("Canceled leave request %s", updated.ID))

	return outcome.OK("Leave request canceled successfully", leave.NewLeaveRequestResponse(updated, nil)), nil
}

// RejectRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) RejectRequest(ctx context.Context, p user.Principal, id string, req leave.ReviewRequest) (outcome.Result[leave.LeaveRequestResponse], error) {
	return s.review(ctx, p, id, req, leave.StatusRejected)
}

// ApproveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) ApproveRequest(ctx context.Context, p user.Principal, id string, req leave.ReviewRequest) (outcome.Result[leave.LeaveRequestResponse], error) {
	return s.review(ctx, p, id, req, leave.StatusApproved)
}

func (s *LeaveServiceImpl) review(ctx context.Context, p user.Principal, id string, req leave.ReviewRequest, status leave.LeaveRequestStatus) (outcome.Result[leave.LeaveRequestResponse], error) {
	if !p.CanApprove() {
		return outcome.Forbidden[leave.LeaveRequestResponse](user.ErrManagerAccessRequired), nil
	}

	req.Note = s.sanitizer.Clean(req.Note)
	if err := req.Validate(); err != nil {
		return outcome.Invalid[leave.LeaveRequestResponse](err), nil
	}

	r, res, err := s.load(ctx, p, id, leave.ErrRequestAccessDenied)
	if err != nil || !res.Status {
		return outcome.Cast[leave.LeaveRequestResponse](res), err
	}

	reviewer := &leave.Reviewer{
		ReviewerID:   p.ID,
		ReviewerName: p.Name,
		Note:         req.Note,
		ReviewedAt:   s.now(),
	}

	updated, res, err := s.transition(ctx, r, []leave.LeaveRequestStatus{leave.StatusPending}, status, reviewer)
	if err != nil || !res.Status {
		return outcome.Cast[leave.LeaveRequestResponse](res), err
	}

	s.history.Log(ctx, p, audit.CategoryLeave, fmt.Sprintf("%s leave request %s", reviewVerb(status), updated.ID))

	resp, err := s.enrich(ctx, updated)
	if err != nil {
		return outcome.Result[leave.LeaveRequestResponse]{}, err
	}
	return outcome.OK(fmt.Sprintf("Leave request %s successfully", status), resp), nil
}

func reviewVerb(status leave.LeaveRequestStatus) string {
	if status == leave.StatusApproved {
		return "Approved"
	}
	return "Rejected"
}

// transition moves r from one of from to status. Leaving pending or approved
// for anything but approved gives reserved annual days back.
func (s *LeaveServiceImpl) transition(ctx context.Context, r leave.LeaveRequest, from []leave.LeaveRequestStatus, status leave.LeaveRequestStatus, reviewer *leave.Reviewer) (leave.LeaveRequest, outcome.Result[struct{}], error) {
	var updated leave.LeaveRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.requests.UpdateStatus(ctx, r.ID, from, status, reviewer)
		if err != nil {
			return err
		}

		if status != leave.StatusApproved && updated.Type.DeductsBalance() {
			if err := s.directory.RefundLeaveBalance(ctx, updated.EmployeeID, updated.Days); err != nil {
				return fmt.Errorf("failed to refund %d days to %s: %w", updated.Days, updated.EmployeeID, err)
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
			return leave.LeaveRequest{}, outcome.Conflict[struct{}](leave.ErrLeaveRequestAlreadyProcessed), nil
		case errors.Is(err, leave.ErrLeaveRequestNotFound):
			return leave.LeaveRequest{}, outcome.NotFound[struct{}](leave.ErrLeaveRequestNotFound), nil
		}
		return leave.LeaveRequest{}, outcome.Result[struct{}]{}, fmt.Errorf("failed to update leave request %s: %w", r.ID, err)
	}

	return updated, outcome.OK("", struct{}{}), nil
}
