package reconciliation

import (
	"fmt"
	"time"
)

// MismatchThresholdHours is the smallest |difference| (10 minutes) that needs review.
const MismatchThresholdHours = 0.17

const (
	NoDataLabel      = "no data"
	UnscheduledLabel = "-"
)

// DayStatus is the per-day review state.
type DayStatus string

const (
	DayStatusTimeMatch       DayStatus = "time_match"
	DayStatusReviewRequired  DayStatus = "review_required"
	DayStatusReviewCompleted DayStatus = "review_completed"
)

// ReviewStatus is the coarse state of one employee/branch/month.
type ReviewStatus string

const (
	ReviewStatusNotStarted     ReviewStatus = "not_started"
	ReviewStatusInReview       ReviewStatus = "in_review"
	ReviewStatusReviewComplete ReviewStatus = "review_complete"
	// ReviewStatusConfirmed is only ever written by the payroll ledger.
	ReviewStatusConfirmed ReviewStatus = "confirmed"
)

// StatusSource records which write path produced the stored review status.
type StatusSource string

const (
	StatusSourceDerived  StatusSource = "derived"  // recomputed from day tallies
	StatusSourceOverride StatusSource = "override" // forced by a reviewer
	StatusSourceLedger   StatusSource = "ledger"   // payroll confirm/unconfirm
)

// Key identifies one reconciliation: an employee at a branch for a month ("YYYY-MM").
type Key struct {
	EmployeeID string
	BranchID   string
	Month      string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.EmployeeID, k.BranchID, k.Month)
}

// Day compares one calendar date of scheduled work against reported attendance.
type Day struct {
	EmployeeID         string
	EmployeeName       string
	BranchID           string
	BranchName         string
	Month              string
	Date               time.Time
	ScheduledHours     float64
	ScheduledTimeRange string
	// RawActualHours is kept exactly as the export reported it.
	RawActualHours    float64
	ActualTimeRange   string
	BreakHours        float64
	ActualWorkedHours float64
	Difference        float64
	Status            DayStatus
	IsModified        bool
	UpdatedAt         time.Time
}

func (d Day) Key() Key {
	return Key{EmployeeID: d.EmployeeID, BranchID: d.BranchID, Month: d.Month}
}

// SetWorkedHours updates the net worked hours and keeps Difference consistent.
func (d *Day) SetWorkedHours(h float64) {
	d.ActualWorkedHours = h
	d.Difference = h - d.ScheduledHours
}

// HasAttendance reports whether the export reported any time for this day.
func (d Day) HasAttendance() bool {
	return d.ActualTimeRange != NoDataLabel && d.RawActualHours > 0
}

// ReviewState is the persisted coarse status of a key.
type ReviewState struct {
	Key       Key
	Status    ReviewStatus
	Source    StatusSource
	Revision  int64
	UpdatedAt time.Time
}

// NewReviewState is the lazily created default for a key that was never written.
func NewReviewState(key Key) ReviewState {
	return ReviewState{
		Key:    key,
		Status: ReviewStatusNotStarted,
		Source: StatusSourceDerived,
	}
}
