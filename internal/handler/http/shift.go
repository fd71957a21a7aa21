package http

import (
	"log/slog"
	"net/http"

	"github.com/storeshift/hris-backend-go/internal/domain/shift"
	"github.com/storeshift/hris-backend-go/internal/handler/http/response"
)

type ShiftHandler interface {
	ListShifts(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	catalog shift.Catalog
}

func NewShiftHandler(catalog shift.Catalog) ShiftHandler {
	return &shiftHandlerImpl{
		catalog: catalog,
	}
}

// ListShifts implements ShiftHandler.
func (h *shiftHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.catalog.ListShifts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "list shifts", "error", err)
		response.HandleError(w, err)
		return
	}

	items := make([]shift.ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		items = append(items, shift.NewShiftResponse(s))
	}

	response.SuccessWithMessage(w, "Shifts retrieved successfully", items)
}
