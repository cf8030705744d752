package reconciliation

import (
	"context"
	"time"
)

type ChangeKind string

const (
	ChangeCompared           ChangeKind = "reconciliation.compared"
	ChangeDayUpdated         ChangeKind = "reconciliation.day_updated"
	ChangeReviewCompleted    ChangeKind = "reconciliation.review_completed"
	ChangeReviewReopened     ChangeKind = "reconciliation.review_reopened"
	ChangePayrollConfirmed   ChangeKind = "payroll.confirmed"
	ChangePayrollUnconfirmed ChangeKind = "payroll.unconfirmed"
)

// ChangeEvent is published after a mutation of a key has been committed.
type ChangeEvent struct {
	Kind       ChangeKind   `json:"kind"`
	EmployeeID string       `json:"employee_id"`
	BranchID   string       `json:"branch_id"`
	Month      string       `json:"month"`
	Status     ReviewStatus `json:"status"`
	Revision   int64        `json:"revision"`
	At         time.Time    `json:"at"`
}

// Notifier is handed to services by their caller; callers decide how views refresh.
type Notifier interface {
	Notify(ctx context.Context, event ChangeEvent)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, ChangeEvent) {}
