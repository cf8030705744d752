package payroll

import "context"

type PayrollService interface {
	// Calculate previews payroll for an employee and month; nothing is stored
	Calculate(ctx context.Context, req CalculateRequest) (CalculationResponse, error)

	// GetConfirmed returns the ledger entry of a key
	GetConfirmed(ctx context.Context, req KeyRequest) (ConfirmedPayrollResponse, error)

	// Confirm recomputes payroll for the key and locks it in the ledger
	Confirm(ctx context.Context, req ConfirmRequest) (ConfirmedPayrollResponse, error)

	// Unconfirm removes the ledger entry and returns the key to review_complete
	Unconfirm(ctx context.Context, req KeyRequest) error
}
