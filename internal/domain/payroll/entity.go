package payroll

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/shopspring/decimal"
)

// Reasons recorded on weekly-holiday weeks that are not paid.
const (
	ReasonIncompleteWeek = "incomplete week"
	ReasonDeferred       = "deferred to next month"
	ReasonUnderThreshold = "under 15 hours or attendance not met"
)

// CalculationInput is everything the calculator needs for one employee and month.
type CalculationInput struct {
	EmployeeID      string
	Month           string // "YYYY-MM"
	Days            []reconciliation.Day
	Config          employee.CompensationConfig
	UnpaidLeaveDays int
	// CarryoverHours come from a week that began in the previous month.
	CarryoverHours float64
	// BranchNames holds live branch names; missing IDs fall back to the day's own name.
	BranchNames map[string]string
	// BranchID narrows the result to one branch's share. Days must still cover
	// every branch so weekly-holiday eligibility and tax brackets see the whole month.
	BranchID *string
}

// Deductions is the simplified statutory estimate on gross pay.
// The result is serialized as an immutable snapshot, hence the json tags.
type Deductions struct {
	Pension      decimal.Decimal `json:"pension"`
	Health       decimal.Decimal `json:"health"`
	LongTermCare decimal.Decimal `json:"long_term_care"`
	Employment   decimal.Decimal `json:"employment"`
	Insurance    decimal.Decimal `json:"insurance"`
	IncomeTax    decimal.Decimal `json:"income_tax"`
	LocalTax     decimal.Decimal `json:"local_tax"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

// HolidayWeek is one Monday-start week of the weekly-holiday breakdown.
type HolidayWeek struct {
	WeekStart      time.Time       `json:"week_start"`
	WeekEnd        time.Time       `json:"week_end"`
	IsFirstWeek    bool            `json:"is_first_week"`
	WorkedDays     int             `json:"worked_days"`
	ActualHours    float64         `json:"actual_hours"`
	CarryoverHours float64         `json:"carryover_hours"`
	Eligible       bool            `json:"eligible"`
	HolidayHours   float64         `json:"holiday_hours"`
	BranchHours    float64         `json:"branch_hours,omitempty"`
	Pay            decimal.Decimal `json:"pay"`
	InProbation    bool            `json:"in_probation"`
	Reason         string          `json:"reason,omitempty"`
}

// BranchHours breaks hours down per branch.
type BranchHours struct {
	BranchID          string  `json:"branch_id"`
	BranchName        string  `json:"branch_name"`
	DayCount          int     `json:"day_count"`
	ScheduledHours    float64 `json:"scheduled_hours"`
	ActualWorkedHours float64 `json:"actual_worked_hours"`
}

type CalculationResult struct {
	EmployeeID   string                      `json:"employee_id"`
	EmployeeName string                      `json:"employee_name,omitempty"`
	Month        string                      `json:"month"`
	Category     employee.EmploymentCategory `json:"employment_category"`
	SalaryType   employee.SalaryType         `json:"salary_type"`
	HourlyWage   decimal.Decimal             `json:"hourly_wage"`
	MonthlyWage  decimal.Decimal             `json:"monthly_salary"`

	TotalScheduledHours float64 `json:"total_scheduled_hours"`
	TotalActualHours    float64 `json:"total_actual_hours"`
	TotalBreakHours     float64 `json:"total_break_hours"`
	ActualWorkHours     float64 `json:"actual_work_hours"`
	ProbationHours      float64 `json:"probation_hours"`
	RegularHours        float64 `json:"regular_hours"`

	ProbationPay         decimal.Decimal `json:"probation_pay"`
	RegularPay           decimal.Decimal `json:"regular_pay"`
	BasePay              decimal.Decimal `json:"base_pay"`
	ProbationApplied     bool            `json:"probation_applied"`
	UnpaidLeaveDays      int             `json:"unpaid_leave_days"`
	UnpaidLeaveDeduction decimal.Decimal `json:"unpaid_leave_deduction"`

	WeeklyHolidayHours float64         `json:"weekly_holiday_hours"`
	WeeklyHolidayPay   decimal.Decimal `json:"weekly_holiday_pay"`
	WeeklyHolidayWeeks []HolidayWeek   `json:"weekly_holiday_weeks"`

	GrossPay   decimal.Decimal `json:"gross_pay"`
	Deductions Deductions      `json:"deductions"`
	NetPay     decimal.Decimal `json:"net_pay"`

	Branches []BranchHours `json:"branches"`
}

// ConfirmedPayroll is the immutable ledger entry for one employee/branch/month.
type ConfirmedPayroll struct {
	ID          string
	EmployeeID  string
	BranchID    string
	Month       string
	Result      CalculationResult
	ConfirmedAt time.Time
	ConfirmedBy string
}

func (c ConfirmedPayroll) Key() reconciliation.Key {
	return reconciliation.Key{EmployeeID: c.EmployeeID, BranchID: c.BranchID, Month: c.Month}
}
