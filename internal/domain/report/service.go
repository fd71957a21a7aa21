package report

import (
	"context"

	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
)

// ExportService renders attendance data as spreadsheets.
type ExportService interface {
	// ExportMonthly builds a workbook with one row per roster entry of the
	// month and a summary sheet
	ExportMonthly(ctx context.Context, p user.Principal, req MonthlyExportRequest) (outcome.Result[Workbook], error)
}
