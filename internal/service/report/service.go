package report

import (
	"context"
	"fmt"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/domain/report"
	"github.com/storeshift/hris-backend-go/internal/domain/roster"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/xuri/excelize/v2"
)

const (
	rosterSheet  = "Rosters"
	summarySheet = "Summary"
)

var rosterHeader = []interface{}{"Date", "Employee ID", "Employee Name", "Shift", "Status", "Clock In", "Clock Out"}

type ExportServiceImpl struct {
	aggregator roster.Aggregator
	location   *time.Location
}

func NewExportService(aggregator roster.Aggregator, loc *time.Location) *ExportServiceImpl {
	return &ExportServiceImpl{
		aggregator: aggregator,
		location:   loc,
	}
}

// ExportMonthly implements report.ExportService.
func (s *ExportServiceImpl) ExportMonthly(ctx context.Context, p user.Principal, req report.MonthlyExportRequest) (outcome.Result[report.Workbook], error) {
	if err := req.Validate(); err != nil {
		return outcome.Invalid[report.Workbook](err), nil
	}
	if !p.CanAccessBranch(req.BranchID) {
		return outcome.Forbidden[report.Workbook](user.ErrBranchAccessDenied), nil
	}
	year, month := req.Period()

	rosters, err := s.aggregator.GetMonthlyRosters(ctx, req.BranchID, month, year)
	if err != nil {
		return outcome.Result[report.Workbook]{}, err
	}
	summary, err := s.aggregator.GetMonthlySummary(ctx, req.BranchID, month, year)
	if err != nil {
		return outcome.Result[report.Workbook]{}, err
	}

	content, err := s.render(req.BranchID, rosters.Data, summary.Data)
	if err != nil {
		return outcome.Result[report.Workbook]{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return outcome.OK("Report generated successfully", report.Workbook{
		FileName: fmt.Sprintf("attendance_%s_%s.xlsx", req.BranchID, summary.Data.Month),
		Content:  content,
	}), nil
}

func (s *ExportServiceImpl) render(branchID string, rosters []roster.RosterResponse, summary roster.SummaryResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(rosterSheet, "A1", &rosterHeader); err != nil {
		return nil, err
	}
	row := 2
	for _, r := range rosters {
		for _, e := range r.Entries {
			name := ""
			if e.Employee != nil {
				name = e.Employee.Name
			}
			values := []interface{}{r.Date, e.EmployeeID, name, e.Shift, string(e.Status), s.clock(e.ClockInTime), s.clock(e.ClockOutTime)}

			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(rosterSheet, cell, &values); err != nil {
				return nil, err
			}
			row++
		}
	}
	if err := f.SetRowStyle(rosterSheet, 1, 1, bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(rosterSheet, "A", "G", 16); err != nil {
		return nil, err
	}

	summaryRows := [][]interface{}{
		{"Branch", branchID},
		{"Month", summary.Month},
		{"Present", summary.PresentCount},
		{"Late", summary.LateCount},
	}
	for i, values := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return nil, err
		}
	}
	if err := f.SetColStyle(summarySheet, "A", bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportServiceImpl) clock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(s.location).Format("15:04:05")
}
