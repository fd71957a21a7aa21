package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/employee"
	"github.com/storeshift/hris-backend-go/internal/domain/report"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/pkg/jwt"
	"github.com/storeshift/hris-backend-go/internal/pkg/sanitizer"
	"github.com/storeshift/hris-backend-go/internal/pkg/storage"
	"github.com/storeshift/hris-backend-go/internal/repository/memory"
	"github.com/storeshift/hris-backend-go/internal/service/file"
	"github.com/storeshift/hris-backend-go/internal/service/geofence"
	"github.com/storeshift/hris-backend-go/internal/service/history"
	leaveService "github.com/storeshift/hris-backend-go/internal/service/leave"
	reportService "github.com/storeshift/hris-backend-go/internal/service/report"
	rosterService "github.com/storeshift/hris-backend-go/internal/service/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const handlerTestSecret = "test-secret-key-for-jwt"

var wib = time.FixedZone("WIB", 7*3600)

var (
	testOwner    = user.Principal{ID: "OWN_1", Name: "Budi", Role: user.RoleOwner}
	testManager  = user.Principal{ID: "MGR_1", Name: "Sari", Role: user.RoleManager, BranchID: "STR_1"}
	testEmployee = user.Principal{ID: "EMP_1", Name: "Andi", Role: user.RoleEmployee, BranchID: "STR_1"}
	testOther    = user.Principal{ID: "EMP_2", Name: "Dewi", Role: user.RoleEmployee, BranchID: "STR_1"}
)

type testServer struct {
	handler   http.Handler
	tokens    *jwt.JWTService
	directory *memory.Directory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := memory.NewDirectory()
	dir.PutBranch(employee.Branch{ID: "STR_1", Name: "Kemang", Latitude: -6.2607, Longitude: 106.8137})
	for _, p := range []user.Principal{testManager, testEmployee, testOther} {
		dir.PutEmployee(employee.Employee{
			ID:                 p.ID,
			Name:               p.Name,
			BranchID:           p.BranchID,
			Role:               p.Role,
			AnnualLeaveBalance: 12,
			Status:             employee.StatusActive,
		})
	}

	uploads := t.TempDir()
	local, err := storage.NewLocalStorage(uploads, "http://localhost:8080/uploads")
	require.NoError(t, err)

	clean := sanitizer.New()
	historySvc := history.NewHistoryService(memory.NewAuditSink(), clean)
	rosters := memory.NewRosterRepository()
	catalog := memory.NewShiftCatalog(memory.DefaultShifts()...)
	aggregator := rosterService.NewAggregator(rosters, catalog, dir, wib)

	tokens := jwt.NewJWTService(handlerTestSecret, time.Hour)
	router := NewRouter(RouterOptions{
		AllowedOrigins: []string{"*"},
		RequestTimeout: 5 * time.Second,
		UploadsDir:     uploads,
	}, tokens, Handlers{
		Shift: NewShiftHandler(catalog),
		Attendance: NewAttendanceHandler(
			rosterService.NewRosterService(rosters, catalog, dir, memory.NewTxManager(), geofence.NewValidator(dir), historySvc, wib),
			aggregator,
		),
		Report: NewReportHandler(reportService.NewExportService(aggregator, wib)),
		Leave: NewLeaveHandler(leaveService.NewLeaveService(
			memory.NewLeaveRequestRepository(), dir, memory.NewTxManager(),
			file.NewFileService(local), historySvc, clean, wib,
		)),
		History: NewHistoryHandler(historySvc),
	})

	return &testServer{handler: router, tokens: tokens, directory: dir}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, p *user.Principal, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if p != nil {
		token, _, err := s.tokens.GenerateAccessToken(*p)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(t *testing.T, p *user.Principal, method, path string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	rec := s.do(t, p, method, path, body, "application/json")

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *testServer) seedRoster(t *testing.T) {
	t.Helper()
	rec, env := s.json(t, &testManager, http.MethodPost, "/api/v1/attendance/rosters", map[string]interface{}{
		"date": "2025-10-31",
		"entries": []map[string]string{
			{"employee_id": "EMP_1", "shift": "Day"},
			{"employee_id": "EMP_2", "shift": "Night"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.True(t, env.Status)
}

func futureDate(days int) string {
	return time.Now().In(wib).AddDate(0, 0, days).Format("2006-01-02")
}

func TestRouter_Authentication(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.json(t, nil, http.MethodGet, "/api/v1/shifts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Status)

	rec, env = s.json(t, &testEmployee, http.MethodGet, "/api/v1/shifts", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)

	var shifts []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &shifts))
	assert.NotEmpty(t, shifts)
}

func TestRouter_RosterLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.seedRoster(t)

	rec, env := s.json(t, &testManager, http.MethodPost, "/api/v1/attendance/rosters", map[string]interface{}{
		"date":    "2025-10-31",
		"entries": []map[string]string{{"employee_id": "EMP_1", "shift": "Day"}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Shift already exists for this date", env.Message)

	rec, env = s.json(t, &testManager, http.MethodGet, "/api/v1/attendance/rosters/2025-10-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		ID      string `json:"id"`
		Entries []struct {
			EmployeeID string `json:"employee_id"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "SHF_2025-10-31_STR_1", got.ID)
	assert.Len(t, got.Entries, 2)

	rec, _ = s.json(t, &testManager, http.MethodPut, "/api/v1/attendance/rosters/SHF_2025-10-31_STR_1/remove",
		map[string]string{"employee_id": "EMP_2"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.json(t, &testManager, http.MethodPut, "/api/v1/attendance/rosters/SHF_2025-10-31_STR_1",
		map[string]interface{}{"entries": []map[string]string{{"employee_id": "EMP_1", "shift": "Brunch"}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.json(t, &testManager, http.MethodGet, "/api/v1/attendance/rosters/2025-11-01", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No data found", env.Message)
}

func TestRouter_RosterPermissions(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.json(t, &testEmployee, http.MethodPost, "/api/v1/attendance/rosters", map[string]interface{}{
		"date":    "2025-10-31",
		"entries": []map[string]string{{"employee_id": "EMP_1", "shift": "Day"}},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// owners must say which branch they mean
	rec, env := s.json(t, &testOwner, http.MethodGet, "/api/v1/attendance/rosters/2025-10-31", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "branch_id is required", env.Error.Details["branch_id"])

	rec, _ = s.json(t, &testManager, http.MethodGet, "/api/v1/attendance/rosters/2025-10-31?branch_id=STR_2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_ClockInValidation(t *testing.T) {
	s := newTestServer(t)
	s.seedRoster(t)

	rec, env := s.json(t, &testEmployee, http.MethodPost, "/api/v1/attendance/clock-in", map[string]interface{}{
		"roster_id": "SHF_2025-10-31_STR_1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "latitude")

	rec, env = s.json(t, &testEmployee, http.MethodPost, "/api/v1/attendance/clock-in", map[string]interface{}{
		"roster_id": "SHF_2025-10-31_STR_1",
		"latitude":  -6.2507,
		"longitude": 106.8137,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Location is outside the allowed radius", env.Message)

	rec, _ = s.json(t, &testOwner, http.MethodPost, "/api/v1/attendance/clock-in", map[string]interface{}{
		"roster_id": "SHF_2025-10-31_STR_1",
		"latitude":  -6.2607,
		"longitude": 106.8137,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, &testEmployee, http.MethodPost, "/api/v1/attendance/clock-in", bytes.NewBufferString("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Monthly(t *testing.T) {
	s := newTestServer(t)
	s.seedRoster(t)

	rec, env := s.json(t, &testManager, http.MethodGet, "/api/v1/attendance/monthly/2025-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rosters []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &rosters))
	assert.Len(t, rosters, 1)

	rec, env = s.json(t, &testManager, http.MethodGet, "/api/v1/attendance/monthly/2025-10/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Month        string `json:"month"`
		PresentCount int    `json:"present_count"`
		LateCount    int    `json:"late_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, "2025-10", summary.Month)
	assert.Zero(t, summary.PresentCount)
	assert.Zero(t, summary.LateCount)

	rec, env = s.json(t, &testManager, http.MethodGet, "/api/v1/attendance/monthly/2025-13", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "month")

	rec, _ = s.json(t, &testEmployee, http.MethodGet, "/api/v1/attendance/monthly/2025-10", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Export(t *testing.T) {
	s := newTestServer(t)
	s.seedRoster(t)

	rec := s.do(t, &testManager, http.MethodGet, "/api/v1/attendance/monthly/2025-10/export", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, report.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_STR_1_2025-10.xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Rosters")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestRouter_Schedule(t *testing.T) {
	s := newTestServer(t)
	s.seedRoster(t)

	rec, env := s.json(t, &testEmployee, http.MethodGet, "/api/v1/attendance/schedule/EMP_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []struct {
		Shift     string `json:"shift"`
		StartTime string `json:"start_time"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Day", items[0].Shift)

	rec, _ = s.json(t, &testEmployee, http.MethodGet, "/api/v1/attendance/schedule/EMP_2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.json(t, &testManager, http.MethodGet, "/api/v1/attendance/schedule/EMP_2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LeaveWorkflow(t *testing.T) {
	s := newTestServer(t)
	start, end := futureDate(30), futureDate(33)

	rec, env := s.json(t, &testEmployee, http.MethodPost, "/api/v1/leave/requests", map[string]string{
		"type":       "annual",
		"start_date": start,
		"end_date":   end,
		"reason":     "Family trip",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		RequestID string `json:"request_id"`
		Days      int    `json:"days"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 4, created.Days)

	emp, err := s.directory.GetEmployee(t.Context(), "EMP_1")
	require.NoError(t, err)
	assert.Equal(t, 8, emp.AnnualLeaveBalance)

	// same range again overlaps the pending request
	rec, env = s.json(t, &testEmployee, http.MethodPost, "/api/v1/leave/requests", map[string]string{
		"type":       "sick",
		"start_date": start,
		"end_date":   start,
		"reason":     "Flu",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "The date range overlaps with a previous request")

	rec, _ = s.json(t, &testEmployee, http.MethodPut, "/api/v1/leave/requests/"+created.RequestID+"/approve", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.json(t, &testManager, http.MethodPut, "/api/v1/leave/requests/"+created.RequestID+"/approve",
		map[string]string{"note": "Enjoy"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var approved struct {
		Status   string `json:"status"`
		Reviewer struct {
			Note string `json:"note"`
		} `json:"reviewer"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &approved))
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, "Enjoy", approved.Reviewer.Note)

	rec, _ = s.json(t, &testManager, http.MethodPut, "/api/v1/leave/requests/"+created.RequestID+"/reject", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = s.json(t, &testEmployee, http.MethodGet, "/api/v1/leave/requests/my", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 1)

	rec, _ = s.json(t, &testOther, http.MethodGet, "/api/v1/leave/requests/"+created.RequestID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.json(t, &testEmployee, http.MethodPut, "/api/v1/leave/requests/"+created.RequestID+"/cancel", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	emp, err = s.directory.GetEmployee(t.Context(), "EMP_1")
	require.NoError(t, err)
	assert.Equal(t, 12, emp.AnnualLeaveBalance)

	rec, env = s.json(t, &testManager, http.MethodGet, "/api/v1/leave/requests", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var branch []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &branch))
	assert.Len(t, branch, 1)
}

func TestRouter_LeaveInsufficientBalance(t *testing.T) {
	s := newTestServer(t)
	days := 2
	require.NoError(t, s.directory.UpdateEmployee(t.Context(), "EMP_1", employee.UpdateEmployeeRequest{AnnualLeaveBalance: &days}))

	rec, env := s.json(t, &testEmployee, http.MethodPost, "/api/v1/leave/requests", map[string]string{
		"type":       "annual",
		"start_date": futureDate(10),
		"end_date":   futureDate(14),
		"reason":     "Holiday",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient annual leave balance", env.Message)

	var extra map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &extra))
	assert.Equal(t, 3, extra["deficit"])
}

func TestRouter_LeaveAttachment(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("data", `{"type":"sick","start_date":"`+futureDate(3)+`","end_date":"`+futureDate(4)+`","reason":"Doctor visit"}`))
	part, err := form.CreateFormFile("attachment", "letter.PDF")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 sick note"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	rec := s.do(t, &testEmployee, http.MethodPost, "/api/v1/leave/requests", &body, form.FormDataContentType())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var created struct {
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	_, env = s.json(t, &testEmployee, http.MethodGet, "/api/v1/leave/requests/"+created.RequestID, nil)
	var details struct {
		AttachmentURL      *string `json:"attachment_url"`
		AttachmentFileName *string `json:"attachment_file_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &details))
	require.NotNil(t, details.AttachmentURL)
	require.NotNil(t, details.AttachmentFileName)
	assert.Equal(t, "letter.PDF", *details.AttachmentFileName)

	key := (*details.AttachmentURL)[len("http://localhost:8080/uploads/"):]
	rec = s.do(t, nil, http.MethodGet, "/uploads/"+key, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.4 sick note", rec.Body.String())
}

func TestRouter_LeaveMultipartWithoutData(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("note", "missing"))
	require.NoError(t, form.Close())

	rec := s.do(t, &testEmployee, http.MethodPost, "/api/v1/leave/requests", &body, form.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_History(t *testing.T) {
	s := newTestServer(t)
	s.seedRoster(t)

	rec, env := s.json(t, &testManager, http.MethodGet, "/api/v1/history?category=shift", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Entries    []map[string]interface{} `json:"entries"`
		TotalCount int64                    `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.EqualValues(t, 1, list.TotalCount)

	rec, env = s.json(t, &testEmployee, http.MethodGet, "/api/v1/history/my", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.EqualValues(t, 0, list.TotalCount)

	rec, _ = s.json(t, &testEmployee, http.MethodGet, "/api/v1/history", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.json(t, &testManager, http.MethodGet, "/api/v1/history?limit=abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "limit must be a number", env.Error.Details["limit"])
}
