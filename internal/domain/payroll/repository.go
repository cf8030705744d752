package payroll

import (
	"context"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
)

// PayrollRepository is the confirmation ledger.
type PayrollRepository interface {
	GetConfirmed(ctx context.Context, key reconciliation.Key) (ConfirmedPayroll, error)
	// CreateConfirmed returns ErrPayrollAlreadyConfirmed when the key already has an entry
	CreateConfirmed(ctx context.Context, confirmed ConfirmedPayroll) (ConfirmedPayroll, error)
	// DeleteConfirmed returns ErrConfirmedPayrollNotFound when nothing was deleted
	DeleteConfirmed(ctx context.Context, key reconciliation.Key) error
	IsConfirmed(ctx context.Context, key reconciliation.Key) (bool, error)
}
