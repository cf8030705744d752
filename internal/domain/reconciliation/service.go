package reconciliation

import "context"

// ReconciliationService runs comparisons and drives the review status machine.
// Every mutation is serialized per key and rejected once payroll is confirmed.
type ReconciliationService interface {
	// RunComparison parses RawText, compares it with the schedule and replaces the key's days
	RunComparison(ctx context.Context, req CompareRequest) (ReviewResponse, error)

	// ImportWorkbook runs the comparison on an uploaded spreadsheet export
	ImportWorkbook(ctx context.Context, req ImportRequest) (ReviewResponse, error)

	// GetReview returns the key's days and its display status
	GetReview(ctx context.Context, key KeyParams) (ReviewResponse, error)

	// UpdateDayHours manually corrects a day's worked hours
	UpdateDayHours(ctx context.Context, req UpdateDayRequest) (ReviewResponse, error)

	// ConfirmDay marks a day review_completed
	ConfirmDay(ctx context.Context, req DayActionRequest) (ReviewResponse, error)

	// UnconfirmDay puts a completed day back to review_required
	UnconfirmDay(ctx context.Context, req DayActionRequest) (ReviewResponse, error)

	// CopyScheduledToActual accepts the scheduled hours as worked and completes the day
	CopyScheduledToActual(ctx context.Context, req DayActionRequest) (ReviewResponse, error)

	// CompleteReview forces the key to review_complete regardless of day tallies
	CompleteReview(ctx context.Context, req ReviewActionRequest) (ReviewResponse, error)

	// ReopenReview forces a completed key back to in_review
	ReopenReview(ctx context.Context, req ReviewActionRequest) (ReviewResponse, error)
}
