package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSample = errors.New("Insufficient annual leave balance")

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOutcome_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		res  outcome.Result[int]
		err  error
		code int
	}{
		{name: "ok", res: outcome.OK("done", 1), code: http.StatusOK},
		{name: "validation", res: outcome.Invalid[int](validator.ValidationErrors{{Field: "date", Message: "date is required"}}), code: http.StatusUnprocessableEntity},
		{name: "business", res: outcome.Business[int](errSample), code: http.StatusBadRequest},
		{name: "not found", res: outcome.NotFound[int](errSample), code: http.StatusNotFound},
		{name: "conflict", res: outcome.Conflict[int](errSample), code: http.StatusConflict},
		{name: "forbidden", res: outcome.Forbidden[int](errSample), code: http.StatusForbidden},
		{name: "infrastructure", err: errors.New("connection refused"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Outcome(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.res, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decode(t, rec)
			assert.Equal(t, tt.code == http.StatusOK, body["status"])
		})
	}
}

func TestOutcome_FailureBody(t *testing.T) {
	rec := httptest.NewRecorder()
	res := outcome.Business[int](errSample).WithExtra("deficit", 3)
	Outcome(rec, httptest.NewRequest(http.MethodPost, "/", nil), res, nil)

	body := decode(t, rec)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, "Insufficient annual leave balance", body["message"])
	assert.Equal(t, map[string]interface{}{"deficit": float64(3)}, body["data"])

	detail := body["error"].(map[string]interface{})
	assert.Equal(t, "BAD_REQUEST", detail["code"])
}

func TestOutcome_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	res := outcome.Invalid[int](validator.ValidationErrors{{Field: "reason", Message: "reason is required"}})
	Outcome(rec, httptest.NewRequest(http.MethodPost, "/", nil), res, nil)

	body := decode(t, rec)
	detail := body["error"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"reason": "reason is required"}, detail["details"])
	_, hasData := body["data"]
	assert.False(t, hasData)
}
