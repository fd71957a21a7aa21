package report

import (
	"strings"
	"time"

	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
)

// ========================================
// MONTHLY ATTENDANCE EXPORT
// ========================================

type MonthlyExportRequest struct {
	BranchID string `json:"branch_id" validate:"required"`
	// Month is "YYYY-MM".
	Month string `json:"month" validate:"required"`
}

func (r *MonthlyExportRequest) Validate() error {
	r.BranchID = strings.TrimSpace(r.BranchID)
	r.Month = strings.TrimSpace(r.Month)

	if err := validator.Struct(r); err != nil {
		return err
	}
	if _, _, err := validator.ParseYearMonth(r.Month); err != nil {
		return validator.ValidationErrors{{
			Field:   "month",
			Message: ErrInvalidMonth.Error(),
		}}
	}
	return nil
}

// Period returns the requested year and month. Call after Validate.
func (r MonthlyExportRequest) Period() (int, time.Month) {
	year, month, _ := validator.ParseYearMonth(r.Month)
	return year, month
}

// Workbook is a rendered spreadsheet ready to be sent as a download.
type Workbook struct {
	FileName string
	Content  []byte
}

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
