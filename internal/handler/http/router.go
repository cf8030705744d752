package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions carries the non-handler settings the router needs
type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	RateLimiter    *middleware.KeyedRateLimiter // nil disables per-user limits
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	reconciliationHandler ReconciliationHandler,
	payrollHandler PayrollHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
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

	writeLimit := func(next http.Handler) http.Handler { return next }
	if opts.RateLimiter != nil {
		writeLimit = middleware.RateLimitByUser(opts.RateLimiter)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(JWTService.Verifier())
		r.Use(middleware.AuthRequired(JWTService))

		r.With(middleware.RequireBranchAccess).Get("/events", notificationHandler.Stream)

		r.With(writeLimit).Post("/attendance/parse", attendanceHandler.Parse)
		r.With(writeLimit).Post("/attendance/parse-workbook", attendanceHandler.ParseWorkbook)

		r.Route("/reconciliations/{employeeID}/{branchID}/{month}", func(r chi.Router) {
			r.Use(middleware.RequireBranchAccess)

			r.With(middleware.RequirePermission(user.PermissionReconciliationView)).Get("/", reconciliationHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(writeLimit)
				r.Use(middleware.RequirePermission(user.PermissionReconciliationEdit))

				r.Post("/compare", reconciliationHandler.Compare)
				r.Post("/import", reconciliationHandler.Import)

				r.Route("/days/{date}", func(r chi.Router) {
					r.Patch("/", reconciliationHandler.UpdateDay)
					r.Post("/confirm", reconciliationHandler.ConfirmDay)
					r.Post("/unconfirm", reconciliationHandler.UnconfirmDay)
					r.Post("/copy-scheduled", reconciliationHandler.CopyScheduled)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(writeLimit)
				r.With(middleware.RequirePermission(user.PermissionReviewComplete)).Post("/complete", reconciliationHandler.Complete)
				r.With(middleware.RequirePermission(user.PermissionReviewReopen)).Post("/reopen", reconciliationHandler.Reopen)
			})
		})

		r.Route("/payroll", func(r chi.Router) {
			r.With(writeLimit, middleware.RequirePermission(user.PermissionPayrollCalculate)).Post("/calculate", payrollHandler.Calculate)

			r.Route("/{employeeID}/{branchID}/{month}", func(r chi.Router) {
				r.Use(middleware.RequireBranchAccess)

				r.Get("/", payrollHandler.GetConfirmed)
				r.With(writeLimit, middleware.RequirePermission(user.PermissionPayrollConfirm)).Post("/confirm", payrollHandler.Confirm)
				r.With(writeLimit, middleware.RequirePermission(user.PermissionPayrollUnconfirm)).Delete("/confirm", payrollHandler.Unconfirm)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	return r
}
