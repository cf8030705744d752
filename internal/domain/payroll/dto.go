package payroll

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/hours"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

type CalculateRequest struct {
	EmployeeID      string  `json:"employee_id"`
	BranchID        *string `json:"branch_id,omitempty"` // nil = every branch, else that branch's share
	Month           string  `json:"month"`
	UnpaidLeaveDays int     `json:"unpaid_leave_days"`
	CarryoverHours  float64 `json:"carryover_hours"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if r.BranchID != nil && validator.IsEmpty(*r.BranchID) {
		errs = append(errs, validator.ValidationError{Field: "branch_id", Message: "branch_id must not be empty if provided"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be in YYYY-MM format"})
	}
	if r.UnpaidLeaveDays < 0 || r.UnpaidLeaveDays > 31 {
		errs = append(errs, validator.ValidationError{Field: "unpaid_leave_days", Message: "unpaid_leave_days must be between 0 and 31"})
	}
	if r.CarryoverHours < 0 {
		errs = append(errs, validator.ValidationError{Field: "carryover_hours", Message: "carryover_hours must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type KeyRequest struct {
	reconciliation.KeyParams
}

func (r *KeyRequest) Validate() error {
	return r.KeyParams.Validate()
}

type ConfirmRequest struct {
	reconciliation.KeyParams
	UnpaidLeaveDays  int     `json:"unpaid_leave_days"`
	CarryoverHours   float64 `json:"carryover_hours"`
	ExpectedRevision *int64  `json:"expected_revision,omitempty"`
}

func (r *ConfirmRequest) Validate() error {
	calc := CalculateRequest{
		EmployeeID:      r.EmployeeID,
		BranchID:        &r.BranchID,
		Month:           r.Month,
		UnpaidLeaveDays: r.UnpaidLeaveDays,
		CarryoverHours:  r.CarryoverHours,
	}
	return calc.Validate()
}

// CalculationResponse is the result plus H:MM renderings for display.
type CalculationResponse struct {
	CalculationResult
	ActualWorkDisplay     string `json:"actual_work_display"`
	ScheduledDisplay      string `json:"scheduled_display"`
	WeeklyHolidayDisplay  string `json:"weekly_holiday_display"`
	ProbationHoursDisplay string `json:"probation_hours_display"`
	RegularHoursDisplay   string `json:"regular_hours_display"`
}

type ConfirmedPayrollResponse struct {
	ID          string              `json:"id"`
	EmployeeID  string              `json:"employee_id"`
	BranchID    string              `json:"branch_id"`
	Month       string              `json:"month"`
	ConfirmedAt string              `json:"confirmed_at"`
	ConfirmedBy string              `json:"confirmed_by,omitempty"`
	Result      CalculationResponse `json:"result"`
}

func NewCalculationResponse(r CalculationResult) CalculationResponse {
	return CalculationResponse{
		CalculationResult:     r,
		ActualWorkDisplay:     hours.Format(r.ActualWorkHours),
		ScheduledDisplay:      hours.Format(r.TotalScheduledHours),
		WeeklyHolidayDisplay:  hours.Format(r.WeeklyHolidayHours),
		ProbationHoursDisplay: hours.Format(r.ProbationHours),
		RegularHoursDisplay:   hours.Format(r.RegularHours),
	}
}

func NewConfirmedPayrollResponse(c ConfirmedPayroll) ConfirmedPayrollResponse {
	return ConfirmedPayrollResponse{
		ID:          c.ID,
		EmployeeID:  c.EmployeeID,
		BranchID:    c.BranchID,
		Month:       c.Month,
		ConfirmedAt: c.ConfirmedAt.Format(time.RFC3339),
		ConfirmedBy: c.ConfirmedBy,
		Result:      NewCalculationResponse(c.Result),
	}
}
