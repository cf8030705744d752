package reconciliation

import (
	"io"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/hours"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

// KeyParams carries the key from the URL path.
type KeyParams struct {
	EmployeeID string `json:"-"`
	BranchID   string `json:"-"`
	Month      string `json:"-"`
}

func (p KeyParams) Key() Key {
	return Key{EmployeeID: p.EmployeeID, BranchID: p.BranchID, Month: p.Month}
}

func (p KeyParams) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	if validator.IsEmpty(p.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if validator.IsEmpty(p.BranchID) {
		errs = append(errs, validator.ValidationError{Field: "branch_id", Message: "branch_id is required"})
	}
	if !validator.IsValidMonth(p.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be in YYYY-MM format"})
	}
	return errs
}

func (p KeyParams) Validate() error {
	if errs := p.validate(nil); len(errs) > 0 {
		return errs
	}
	return nil
}

type CompareRequest struct {
	KeyParams
	RawText          string `json:"raw_text"`
	Overwrite        bool   `json:"overwrite"`
	ExpectedRevision *int64 `json:"expected_revision,omitempty"`
}

// Validate accepts an empty RawText: comparing before any export has been
// pasted lists every scheduled day as needing review.
func (r *CompareRequest) Validate() error {
	errs := r.KeyParams.validate(nil)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ImportRequest struct {
	KeyParams
	Overwrite        bool
	ExpectedRevision *int64
	File             io.Reader
	Filename         string
}

func (r *ImportRequest) Validate() error {
	errs := r.KeyParams.validate(nil)
	if r.File == nil {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "attendance workbook is required"})
	} else if len(r.Filename) < 5 || r.Filename[len(r.Filename)-5:] != ".xlsx" {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "invalid file type: only xlsx allowed"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateDayRequest struct {
	KeyParams
	Date              string   `json:"-"`
	ActualWorkedHours *float64 `json:"actual_worked_hours"`
	ExpectedRevision  *int64   `json:"expected_revision,omitempty"`
}

func (r *UpdateDayRequest) Validate() error {
	errs := r.KeyParams.validate(nil)
	errs = validateDate(errs, r.Date, r.Month)
	if r.ActualWorkedHours == nil {
		errs = append(errs, validator.ValidationError{Field: "actual_worked_hours", Message: "actual_worked_hours is required"})
	} else if *r.ActualWorkedHours < 0 || *r.ActualWorkedHours > 24 {
		errs = append(errs, validator.ValidationError{Field: "actual_worked_hours", Message: "actual_worked_hours must be between 0 and 24"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DayActionRequest is shared by confirm, unconfirm and copy-scheduled.
type DayActionRequest struct {
	KeyParams
	Date             string `json:"-"`
	ExpectedRevision *int64 `json:"expected_revision,omitempty"`
}

func (r *DayActionRequest) Validate() error {
	errs := r.KeyParams.validate(nil)
	errs = validateDate(errs, r.Date, r.Month)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewActionRequest struct {
	KeyParams
	ExpectedRevision *int64 `json:"expected_revision,omitempty"`
}

func (r *ReviewActionRequest) Validate() error {
	return r.KeyParams.Validate()
}

func validateDate(errs validator.ValidationErrors, date string, month string) validator.ValidationErrors {
	d, ok := validator.IsValidDate(date)
	if !ok {
		return append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if validator.IsValidMonth(month) && !validator.IsInMonth(d, month) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must fall inside month"})
	}
	return errs
}

type DayResponse struct {
	Date               string  `json:"date"`
	BranchName         string  `json:"branch_name"`
	ScheduledHours     float64 `json:"scheduled_hours"`
	ScheduledDisplay   string  `json:"scheduled_display"`
	ScheduledTimeRange string  `json:"scheduled_time_range"`
	RawActualHours     float64 `json:"raw_actual_hours"`
	ActualTimeRange    string  `json:"actual_time_range"`
	BreakHours         float64 `json:"break_hours"`
	ActualWorkedHours  float64 `json:"actual_worked_hours"`
	WorkedDisplay      string  `json:"worked_display"`
	Difference         float64 `json:"difference"`
	DifferenceDisplay  string  `json:"difference_display"`
	Status             string  `json:"status"`
	IsModified         bool    `json:"is_modified"`
}

type SummaryResponse struct {
	DayCount             int     `json:"day_count"`
	TimeMatchCount       int     `json:"time_match_count"`
	ReviewRequiredCount  int     `json:"review_required_count"`
	ReviewCompletedCount int     `json:"review_completed_count"`
	ModifiedCount        int     `json:"modified_count"`
	TotalScheduledHours  float64 `json:"total_scheduled_hours"`
	TotalWorkedHours     float64 `json:"total_worked_hours"`
}

type ReviewResponse struct {
	EmployeeID   string          `json:"employee_id"`
	BranchID     string          `json:"branch_id"`
	Month        string          `json:"month"`
	Status       string          `json:"status"`
	StatusSource string          `json:"status_source"`
	Revision     int64           `json:"revision"`
	IsLocked     bool            `json:"is_locked"`
	Summary      SummaryResponse `json:"summary"`
	Days         []DayResponse   `json:"days"`
}

func NewDayResponse(d Day) DayResponse {
	return DayResponse{
		Date:               d.Date.Format(hours.DateLayout),
		BranchName:         d.BranchName,
		ScheduledHours:     d.ScheduledHours,
		ScheduledDisplay:   hours.Format(d.ScheduledHours),
		ScheduledTimeRange: d.ScheduledTimeRange,
		RawActualHours:     d.RawActualHours,
		ActualTimeRange:    d.ActualTimeRange,
		BreakHours:         d.BreakHours,
		ActualWorkedHours:  d.ActualWorkedHours,
		WorkedDisplay:      hours.Format(d.ActualWorkedHours),
		Difference:         d.Difference,
		DifferenceDisplay:  hours.Format(d.Difference),
		Status:             string(d.Status),
		IsModified:         d.IsModified,
	}
}

func NewSummaryResponse(days []Day) SummaryResponse {
	s := SummaryResponse{DayCount: len(days)}
	for _, d := range days {
		switch d.Status {
		case DayStatusTimeMatch:
			s.TimeMatchCount++
		case DayStatusReviewRequired:
			s.ReviewRequiredCount++
		case DayStatusReviewCompleted:
			s.ReviewCompletedCount++
		}
		if d.IsModified {
			s.ModifiedCount++
		}
		s.TotalScheduledHours += d.ScheduledHours
		s.TotalWorkedHours += d.ActualWorkedHours
	}
	return s
}
