package reconciliation

import (
	"context"
	"time"
)

// DayPatch changes the reviewer-editable fields of one day. Nil fields are left
// untouched. Difference is always rewritten as worked - scheduled.
type DayPatch struct {
	ActualWorkedHours *float64
	Status            *DayStatus
	IsModified        *bool
}

type DayRepository interface {
	// ReplaceDays deletes the key's day-set and inserts days in its place
	ReplaceDays(ctx context.Context, key Key, days []Day) error
	ListDays(ctx context.Context, key Key) ([]Day, error)
	// ListEmployeeDays returns one employee's days for a month, optionally narrowed to a branch
	ListEmployeeDays(ctx context.Context, employeeID string, month string, branchID *string) ([]Day, error)
	UpdateDay(ctx context.Context, key Key, date time.Time, patch DayPatch) (Day, error)
}

type ReviewStatusRepository interface {
	// GetReviewState returns ErrReviewStateNotFound for a key never written
	GetReviewState(ctx context.Context, key Key) (ReviewState, error)
	// SetReviewState upserts the status and increments the key's revision
	SetReviewState(ctx context.Context, key Key, status ReviewStatus, source StatusSource) (ReviewState, error)
	// TouchRevision increments the revision without changing the status
	TouchRevision(ctx context.Context, key Key) (ReviewState, error)
}

// LockChecker reports whether payroll for a key has been confirmed.
type LockChecker interface {
	IsConfirmed(ctx context.Context, key Key) (bool, error)
}

// Transactor runs fn in one transaction that holds an exclusive lock on key,
// so writes to the same employee/branch/month never interleave.
type Transactor interface {
	WithinKey(ctx context.Context, key Key, fn func(ctx context.Context) error) error
}
