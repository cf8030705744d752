package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken), errors.Is(err, user.ErrInvalidRole):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrBranchAccessDenied),
		errors.Is(err, user.ErrMasterAccessRequired):
		Forbidden(w, err.Error())

	// Attendance input errors
	case errors.Is(err, attendance.ErrInvalidWorkbook), errors.Is(err, attendance.ErrWorkbookHasNoSheets):
		BadRequest(w, err.Error(), nil)

	// Not found
	case errors.Is(err, reconciliation.ErrDayNotFound):
		NotFound(w, "Reconciliation day not found")
	case errors.Is(err, payroll.ErrConfirmedPayrollNotFound):
		NotFound(w, "Confirmed payroll not found")
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")

	// State conflicts
	case errors.Is(err, reconciliation.ErrModifiedDaysExist),
		errors.Is(err, reconciliation.ErrPayrollLocked),
		errors.Is(err, reconciliation.ErrRevisionConflict),
		errors.Is(err, reconciliation.ErrInvalidTransition),
		errors.Is(err, payroll.ErrPayrollAlreadyConfirmed),
		errors.Is(err, payroll.ErrReviewNotComplete):
		Conflict(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
