package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/handler/http/middleware"
	"github.com/storeshift/hris-backend-go/internal/pkg/jwt"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	RequestTimeout time.Duration
	// UploadsDir is served read-only under /uploads/. Empty disables it.
	UploadsDir string
}

type Handlers struct {
	Shift      ShiftHandler
	Attendance AttendanceHandler
	Report     ReportHandler
	Leave      LeaveHandler
	History    HistoryHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	if opts.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}

	if opts.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.With(middleware.RequirePermission(user.PermissionShiftView)).Get("/shifts", h.Shift.ListShifts)

			r.Route("/attendance", func(r chi.Router) {
				r.Route("/rosters", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRosterManage))
					r.Post("/", h.Attendance.CreateRoster)
					r.Get("/{date}", h.Attendance.GetRosterForDate)
					r.Put("/{id}", h.Attendance.ReplaceEntries)
					r.Put("/{id}/remove", h.Attendance.RemoveEmployee)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceClock))
					r.Post("/clock-in", h.Attendance.ClockIn)
					r.Post("/clock-out", h.Attendance.ClockOut)
				})

				r.Route("/monthly/{month}", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRosterViewAll))
					r.Get("/", h.Attendance.GetMonthly)
					r.Get("/summary", h.Attendance.GetMonthlySummary)
					r.With(middleware.RequirePermission(user.PermissionAttendanceExport)).Get("/export", h.Report.ExportMonthly)
				})

				r.Get("/schedule/{employeeID}", h.Attendance.GetSchedule)
			})

			r.Route("/leave/requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/my", h.Leave.GetMyRequests)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/", h.Leave.ListRequests)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Leave.GetRequest)
					r.Put("/cancel", h.Leave.CancelRequest)

					// Manager only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
						r.Put("/approve", h.Leave.ApproveRequest)
						r.Put("/reject", h.Leave.RejectRequest)
					})
				})
			})

			r.Route("/history", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionHistoryViewAll)).Get("/", h.History.ListAll)
				r.With(middleware.RequirePermission(user.PermissionHistoryViewOwn)).Get("/my", h.History.ListMine)
			})
		})
	})
	return r
}
