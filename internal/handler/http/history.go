package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/storeshift/hris-backend-go/internal/domain/audit"
	"github.com/storeshift/hris-backend-go/internal/handler/http/response"
)

type HistoryHandler interface {
	ListAll(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
}

type historyHandlerImpl struct {
	historyService audit.HistoryService
}

func NewHistoryHandler(historyService audit.HistoryService) HistoryHandler {
	return &historyHandlerImpl{
		historyService: historyService,
	}
}

// ListAll handles GET /history
func (h *historyHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseHistoryFilter(w, r)
	if !ok {
		return
	}

	result, err := h.historyService.ListAll(r.Context(), filter)
	response.Outcome(w, r, result, err)
}

// ListMine handles GET /history/my
func (h *historyHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	filter, ok := parseHistoryFilter(w, r)
	if !ok {
		return
	}

	result, err := h.historyService.ListMine(r.Context(), p, filter)
	response.Outcome(w, r, result, err)
}

func parseHistoryFilter(w http.ResponseWriter, r *http.Request) (audit.Filter, bool) {
	query := r.URL.Query()
	var filter audit.Filter
	details := make(map[string]string)

	if v := query.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			details["page"] = "page must be a number"
		}
		filter.Page = page
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			details["limit"] = "limit must be a number"
		}
		filter.Limit = limit
	}
	if v := strings.TrimSpace(query.Get("category")); v != "" {
		category := audit.Category(strings.ToLower(v))
		filter.Category = &category
	}

	if len(details) > 0 {
		response.ValidationError(w, details)
		return audit.Filter{}, false
	}
	return filter, true
}
