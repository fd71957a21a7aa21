package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/storeshift/hris-backend-go/internal/config"
	"github.com/storeshift/hris-backend-go/internal/domain/audit"
	appHTTP "github.com/storeshift/hris-backend-go/internal/handler/http"
	"github.com/storeshift/hris-backend-go/internal/pkg/database"
	"github.com/storeshift/hris-backend-go/internal/pkg/jwt"
	"github.com/storeshift/hris-backend-go/internal/pkg/mongodb"
	"github.com/storeshift/hris-backend-go/internal/pkg/sanitizer"
	"github.com/storeshift/hris-backend-go/internal/pkg/storage"
	mongoRepo "github.com/storeshift/hris-backend-go/internal/repository/mongodb"
	"github.com/storeshift/hris-backend-go/internal/repository/postgresql"
	"github.com/storeshift/hris-backend-go/internal/service/file"
	"github.com/storeshift/hris-backend-go/internal/service/geofence"
	"github.com/storeshift/hris-backend-go/internal/service/history"
	"github.com/storeshift/hris-backend-go/internal/service/leave"
	"github.com/storeshift/hris-backend-go/internal/service/report"
	"github.com/storeshift/hris-backend-go/internal/service/roster"
)

const (
	appName         = "storeshift-hris"
	version         = "v1.0.0"
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.App.LogLevel, err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	var auditSink audit.Sink
	switch cfg.App.AuditDriver {
	case config.AuditDriverMongo:
		mongoDB, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		defer func() {
			if err := mongoDB.Close(context.Background()); err != nil {
				slog.Error("Failed to disconnect MongoDB", "error", err)
			}
		}()
		if err := mongoRepo.EnsureIndexes(ctx, mongoDB.Database); err != nil {
			return err
		}
		auditSink = mongoRepo.NewAuditRepository(mongoDB.Database)
	default:
		auditSink = postgresql.NewAuditRepository(db)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("initialize local storage: %w", err)
	}

	loc := cfg.Location()
	clean := sanitizer.New()

	// Repositories
	directory := postgresql.NewDirectoryRepository(db)
	shiftCatalog := postgresql.NewShiftRepository(db)
	rosterRepo := postgresql.NewRosterRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	txManager := postgresql.NewTxManager(db)

	// Services
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	historyService := history.NewHistoryService(auditSink, clean)
	fileService := file.NewFileService(fileStorage)
	rosterService := roster.NewRosterService(rosterRepo, shiftCatalog, directory, txManager, geofence.NewValidator(directory), historyService, loc)
	aggregator := roster.NewAggregator(rosterRepo, shiftCatalog, directory, loc)
	exportService := report.NewExportService(aggregator, loc)
	leaveService := leave.NewLeaveService(leaveRequestRepo, directory, txManager, fileService, historyService, clean, loc)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       level,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		RequestTimeout: cfg.App.RequestTimeout,
		UploadsDir:     cfg.Storage.BasePath,
	}, JWTService, appHTTP.Handlers{
		Shift:      appHTTP.NewShiftHandler(shiftCatalog),
		Attendance: appHTTP.NewAttendanceHandler(rosterService, aggregator),
		Report:     appHTTP.NewReportHandler(exportService),
		Leave:      appHTTP.NewLeaveHandler(leaveService),
		History:    appHTTP.NewHistoryHandler(historyService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "port", cfg.App.Port, "timezone", loc.String(), "audit_driver", cfg.App.AuditDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
