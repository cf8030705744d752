package schedule

import (
	"math"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/hours"
)

// Entry is one planned shift of an employee at a branch.
type Entry struct {
	ID           string
	EmployeeID   string
	EmployeeName string // denormalized at creation time
	BranchID     string
	BranchName   string // denormalized at creation time
	Date         time.Time
	StartTime    string  // "HH:MM"
	EndTime      string  // "HH:MM"
	BreakHours   float64 // break allowance in decimal hours
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ScheduledHours is end - start - break, never negative.
func (e Entry) ScheduledHours() float64 {
	span, ok := hours.Between(e.StartTime, e.EndTime)
	if !ok {
		return 0
	}
	return math.Max(0, span-e.BreakHours)
}

func (e Entry) TimeRange() string {
	return hours.Range(e.StartTime, e.EndTime)
}
