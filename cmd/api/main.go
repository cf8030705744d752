package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/attendance"
	notificationService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/payroll"
	reconciliationService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/reconciliation"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftpay"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	branchRepo := postgresql.NewBranchRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	dayRepo := postgresql.NewDayRepository(db)
	reviewRepo := postgresql.NewReviewStatusRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	keyTransactor := postgresql.NewKeyTransactor(db)

	hub := sse.NewHub()
	notifier := notificationService.NewChangeNotifier(hub, notificationService.Config{})
	defer notifier.Close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	parserSvc := attendanceService.NewParserService()
	reconciliationSvc := reconciliationService.NewReconciliationService(keyTransactor, dayRepo, reviewRepo, scheduleRepo, branchRepo, payrollRepo, notifier)
	payrollSvc := payrollService.NewPayrollService(keyTransactor, payrollRepo, dayRepo, reviewRepo, employeeRepo, branchRepo, notifier)

	writeLimiter := middleware.NewKeyedRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	scheduler := cron.NewScheduler()
	scheduler.AddJob(cron.EvictIdleJob("rate-limiter-eviction", writeLimiter, 10*time.Minute, 30*time.Minute))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
			RateLimiter:    writeLimiter,
		},
		JWTService,
		appHTTP.NewAttendanceHandler(parserSvc),
		appHTTP.NewReconciliationHandler(reconciliationSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewNotificationHandler(notifier),
	)

	// Cancelled on shutdown so open event streams return
	baseCtx, stopStreams := context.WithCancel(context.Background())

	// No WriteTimeout: the event stream stays open
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(stopStreams)

	go func() {
		slog.Info("HTTP server running", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ListenAndServe error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("Shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	} else {
		slog.Info("Server exited gracefully")
	}
}
