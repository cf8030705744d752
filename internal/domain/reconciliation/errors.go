package reconciliation

import "errors"

var (
	ErrModifiedDaysExist   = errors.New("manually edited days exist; confirm overwrite to re-run the comparison")
	ErrPayrollLocked       = errors.New("payroll for this month is confirmed; unconfirm it before editing")
	ErrDayNotFound         = errors.New("reconciliation day not found")
	ErrReviewStateNotFound = errors.New("review status not found")
	ErrRevisionConflict    = errors.New("reconciliation was changed by someone else; reload and retry")
	ErrInvalidTransition   = errors.New("invalid review status transition")
)
