package leave

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/employee"
	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
)

const MaxAttachmentSize = 5 << 20

var allowedAttachmentExts = []string{".pdf", ".jpg", ".jpeg", ".png"}

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type CreateLeaveRequestRequest struct {
	Type      LeaveType `json:"type" validate:"required,oneof=sick annual permission"`
	StartDate string    `json:"start_date" validate:"required,isodate"`
	EndDate   string    `json:"end_date" validate:"required,isodate"`
	Reason    string    `json:"reason" validate:"required,max=1000"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

// ValidateDates checks the date fields alone; the rest of the payload is
// validated once the range and balance checks pass.
func (r *CreateLeaveRequestRequest) ValidateDates() error {
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)

	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a date in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a date in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateLeaveRequestRequest) Validate() error {
	r.Type = LeaveType(strings.ToLower(strings.TrimSpace(string(r.Type))))

	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}

	if r.FileHeader != nil {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, allowedAttachmentExts) {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: ErrInvalidAttachmentType.Error(),
			})
		} else if r.FileHeader.Size > MaxAttachmentSize {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: ErrAttachmentTooLarge.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewRequest struct {
	Note string `json:"note" validate:"max=1000"`
}

func (r *ReviewRequest) Validate() error {
	return validator.Struct(r)
}

// ========================================
// RESPONSES
// ========================================

type ReviewerResponse struct {
	EmployeeID   string    `json:"employee_id"`
	Name         string    `json:"name"`
	Note         string    `json:"note"`
	TimeReviewed time.Time `json:"time_reviewed"`
}

type LeaveRequestResponse struct {
	ID                 string                     `json:"id"`
	EmployeeID         string                     `json:"employee_id"`
	BranchID           string                     `json:"branch_id"`
	Type               LeaveType                  `json:"type"`
	StartDate          string                     `json:"start_date"`
	EndDate            string                     `json:"end_date"`
	Days               int                        `json:"days"`
	Reason             string                     `json:"reason"`
	Status             LeaveRequestStatus         `json:"status"`
	Reviewer           *ReviewerResponse          `json:"reviewer"`
	AttachmentURL      *string                    `json:"attachment_url"`
	AttachmentFileName *string                    `json:"attachment_file_name"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
	Employee           *employee.EmployeeResponse `json:"employee,omitempty"`
}

// NewLeaveRequestResponse builds the response; emp may be nil when the
// employee snapshot is not needed.
func NewLeaveRequestResponse(r LeaveRequest, emp *employee.Employee) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		BranchID:           r.BranchID,
		Type:               r.Type,
		StartDate:          r.StartDate.Format(validator.DateLayout),
		EndDate:            r.EndDate.Format(validator.DateLayout),
		Days:               r.Days,
		Reason:             r.Reason,
		Status:             r.Status,
		AttachmentURL:      r.AttachmentURL,
		AttachmentFileName: r.AttachmentFileName,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if r.Reviewer != nil {
		resp.Reviewer = &ReviewerResponse{
			EmployeeID:   r.Reviewer.ReviewerID,
			Name:         r.Reviewer.ReviewerName,
			Note:         r.Reviewer.Note,
			TimeReviewed: r.Reviewer.ReviewedAt,
		}
	}
	if emp != nil {
		resp.Employee = employee.NewEmployeeResponse(*emp)
	}
	return resp
}

type CreateLeaveResponse struct {
	RequestID string `json:"request_id"`
	Days      int    `json:"days"`
}
