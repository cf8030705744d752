package schedule

import (
	"context"
	"time"
)

// ListFilter selects planned shifts of one employee inside [From, To].
// A nil BranchID returns the employee's shifts at every branch.
type ListFilter struct {
	EmployeeID string
	BranchID   *string
	From       time.Time
	To         time.Time
}

type ScheduleRepository interface {
	ListSchedules(ctx context.Context, filter ListFilter) ([]Entry, error)
}
