package employee

import "errors"

var (
	ErrCompensationNotFound = errors.New("no employment contract found for this month")
)
