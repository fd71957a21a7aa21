package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("Leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("Leave request already processed")

	ErrStartDateInPast     = errors.New("Start date cannot be in the past")
	ErrEndDateInPast       = errors.New("End date cannot be in the past")
	ErrStartDateAfterEnd   = errors.New("Start date cannot be after end date")
	ErrDateRangeOverlaps   = errors.New("The date range overlaps with a previous request")
	ErrCancelNotAllowed    = errors.New("You can only cancel your own leave request")
	ErrRequestAccessDenied = errors.New("You don't have access to this leave request")

	ErrInvalidAttachmentType = errors.New("invalid file type: only pdf, jpg, jpeg, png allowed")
	ErrAttachmentTooLarge    = errors.New("attachment size must not exceed 5MB")
)
