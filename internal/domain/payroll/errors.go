package payroll

import "errors"

var (
	ErrConfirmedPayrollNotFound = errors.New("confirmed payroll not found")
	ErrPayrollAlreadyConfirmed  = errors.New("payroll already confirmed for this month; unconfirm it first")
	ErrReviewNotComplete        = errors.New("review must be complete before payroll can be confirmed")
)
