package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/storeshift/hris-backend-go/internal/domain/leave"
	"github.com/storeshift/hris-backend-go/internal/handler/http/response"
)

// multipart bodies carry the attachment plus the JSON "data" field
const maxLeaveFormSize = leave.MaxAttachmentSize + 1<<20

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// CreateRequest implements LeaveHandler. It accepts a plain JSON body or a
// multipart form with the JSON payload in "data" and an optional "attachment".
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequestRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if !decodeJSON(w, r, &req) {
			return
		}
		result, err := l.leaveService.CreateRequest(r.Context(), p, req)
		response.CreatedOutcome(w, r, result, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLeaveFormSize)
	if err := r.ParseMultipartForm(maxLeaveFormSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.ValidationError(w, map[string]string{"attachment": leave.ErrAttachmentTooLarge.Error()})
			return
		}
		slog.WarnContext(r.Context(), "Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.WarnContext(r.Context(), "Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	file, fileHeader, err := r.FormFile("attachment")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.WarnContext(r.Context(), "Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if file != nil {
		defer file.Close()
		req.File = file
		req.FileHeader = fileHeader
	}

	result, err := l.leaveService.CreateRequest(r.Context(), p, req)
	response.CreatedOutcome(w, r, result, err)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.ListByEmployee(r.Context(), p.ID)
	response.Outcome(w, r, result, err)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	branchID, ok := branchScope(w, r, p)
	if !ok {
		return
	}

	result, err := l.leaveService.GetRequestsByBranch(r.Context(), branchID)
	response.Outcome(w, r, result, err)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.GetDetails(r.Context(), p, chi.URLParam(r, "id"))
	response.Outcome(w, r, result, err)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.CancelRequest(r.Context(), p, chi.URLParam(r, "id"))
	response.Outcome(w, r, result, err)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	req, ok := decodeReview(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.ApproveRequest(r.Context(), p, chi.URLParam(r, "id"), req)
	response.Outcome(w, r, result, err)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	req, ok := decodeReview(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.RejectRequest(r.Context(), p, chi.URLParam(r, "id"), req)
	response.Outcome(w, r, result, err)
}

// decodeReview reads the optional reviewer note. An empty body is a review without a note.
func decodeReview(w http.ResponseWriter, r *http.Request) (leave.ReviewRequest, bool) {
	var req leave.ReviewRequest
	if r.ContentLength == 0 {
		return req, true
	}
	return req, decodeJSON(w, r, &req)
}
