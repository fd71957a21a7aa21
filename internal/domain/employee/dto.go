package employee

// UpdateEmployeeRequest is a partial update; nil fields are left untouched.
type UpdateEmployeeRequest struct {
	Name               *string
	BranchID           *string
	AnnualLeaveBalance *int
	WorkDays           *int
	Status             *Status
}

func (r UpdateEmployeeRequest) Empty() bool {
	return r.Name == nil && r.BranchID == nil && r.AnnualLeaveBalance == nil &&
		r.WorkDays == nil && r.Status == nil
}

// EmployeeResponse is the directory snapshot attached to rosters and leave
// requests.
type EmployeeResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	BranchID           string `json:"branch_id"`
	Role               string `json:"role"`
	AnnualLeaveBalance int    `json:"annual_leave_balance"`
	WorkDays           int    `json:"work_days"`
	Status             string `json:"status"`
}

func NewEmployeeResponse(e Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:                 e.ID,
		Name:               e.Name,
		BranchID:           e.BranchID,
		Role:               string(e.Role),
		AnnualLeaveBalance: e.AnnualLeaveBalance,
		WorkDays:           e.WorkDays,
		Status:             string(e.Status),
	}
}
