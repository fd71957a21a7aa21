package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/storeshift/hris-backend-go/internal/domain/report"
	"github.com/storeshift/hris-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Monthly attendance workbook
	ExportMonthly(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	exportService report.ExportService
}

func NewReportHandler(exportService report.ExportService) ReportHandler {
	return &reportHandlerImpl{
		exportService: exportService,
	}
}

// ExportMonthly handles GET /attendance/monthly/{month}/export
func (h *reportHandlerImpl) ExportMonthly(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	branchID, ok := branchScope(w, r, p)
	if !ok {
		return
	}

	req := report.MonthlyExportRequest{
		BranchID: branchID,
		Month:    chi.URLParam(r, "month"),
	}

	result, err := h.exportService.ExportMonthly(r.Context(), p, req)
	if err != nil || !result.Status {
		response.Outcome(w, r, result, err)
		return
	}

	slog.InfoContext(r.Context(), "attendance export generated",
		"branch_id", branchID,
		"month", req.Month,
		"bytes", len(result.Data.Content),
	)
	response.Download(w, report.ContentTypeXLSX, result.Data.FileName, result.Data.Content)
}
