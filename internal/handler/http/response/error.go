package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
)

// HandleError maps errors that are not outcome failures to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, user.ErrPrincipalMissing):
		Unauthorized(w, "Unauthorized")
	case errors.Is(err, user.ErrOwnerAccessRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrBranchAccessDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, Response{
			Status: false,
			Error: &ErrorDetail{
				Code:    "TIMEOUT",
				Message: "Request timed out",
			},
		})

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

// Outcome writes a service result with 200 on success. A non-nil err is an
// infrastructure failure and is logged before the generic error response.
func Outcome[T any](w http.ResponseWriter, r *http.Request, res outcome.Result[T], err error) {
	writeOutcome(w, r, http.StatusOK, res, err)
}

// CreatedOutcome is Outcome with 201 on success.
func CreatedOutcome[T any](w http.ResponseWriter, r *http.Request, res outcome.Result[T], err error) {
	writeOutcome(w, r, http.StatusCreated, res, err)
}

func writeOutcome[T any](w http.ResponseWriter, r *http.Request, successCode int, res outcome.Result[T], err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		HandleError(w, err)
		return
	}

	if res.Status {
		writeJSON(w, successCode, Response{
			Status:  true,
			Message: res.Message,
			Data:    res.Data,
		})
		return
	}

	statusCode, code := failureStatus(res.Kind)
	resp := Response{
		Status:  false,
		Message: res.Message,
		Error: &ErrorDetail{
			Code:    code,
			Message: res.Message,
			Details: res.Details,
		},
	}
	if len(res.Extra) > 0 {
		resp.Data = res.Extra
	}
	writeJSON(w, statusCode, resp)
}

func failureStatus(kind outcome.Kind) (int, string) {
	switch kind {
	case outcome.KindValidation:
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR"
	case outcome.KindNotFound:
		return http.StatusNotFound, "NOT_FOUND"
	case outcome.KindConflict:
		return http.StatusConflict, "CONFLICT"
	case outcome.KindForbidden:
		return http.StatusForbidden, "FORBIDDEN"
	default:
		return http.StatusBadRequest, "BAD_REQUEST"
	}
}
