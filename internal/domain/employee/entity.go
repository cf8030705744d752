package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentCategory string

const (
	CategoryWageEarner     EmploymentCategory = "wage_earner"
	CategoryBusinessIncome EmploymentCategory = "business_income"
	CategoryDailyWorker    EmploymentCategory = "daily_worker"
	CategoryForeignWorker  EmploymentCategory = "foreign_worker"
)

var EmploymentCategoryValues = []string{
	string(CategoryWageEarner),
	string(CategoryBusinessIncome),
	string(CategoryDailyWorker),
	string(CategoryForeignWorker),
}

type SalaryType string

const (
	SalaryTypeHourly  SalaryType = "hourly"
	SalaryTypeMonthly SalaryType = "monthly"
)

// DefaultWeeklyWorkdays is used when a contract does not state its weekly workdays.
const DefaultWeeklyWorkdays = 5

// CompensationConfig is the pay configuration taken from the employee's
// most recent contract as of a given month.
type CompensationConfig struct {
	EmployeeID            string
	EmployeeName          string
	ContractID            string
	Category              EmploymentCategory
	SalaryType            SalaryType
	HourlyWage            decimal.Decimal
	MonthlySalary         decimal.Decimal
	ProbationStart        *time.Time
	ProbationEnd          *time.Time
	WeeklyHolidayIncluded bool
	WeeklyWorkdays        int
	ContractStart         time.Time
	ContractEnd           *time.Time
}

// ZeroConfig is what the calculator runs with when no contract is on file.
func ZeroConfig(employeeID string) CompensationConfig {
	return CompensationConfig{
		EmployeeID:     employeeID,
		Category:       CategoryWageEarner,
		SalaryType:     SalaryTypeHourly,
		HourlyWage:     decimal.Zero,
		MonthlySalary:  decimal.Zero,
		WeeklyWorkdays: DefaultWeeklyWorkdays,
	}
}

// Workdays returns the contracted weekly workdays, defaulting to five.
func (c CompensationConfig) Workdays() int {
	if c.WeeklyWorkdays <= 0 {
		return DefaultWeeklyWorkdays
	}
	return c.WeeklyWorkdays
}

// InProbation reports whether date lies inside the inclusive probation window.
// Both ends must be set for the window to exist.
func (c CompensationConfig) InProbation(date time.Time) bool {
	if c.ProbationStart == nil || c.ProbationEnd == nil {
		return false
	}
	return !date.Before(*c.ProbationStart) && !date.After(*c.ProbationEnd)
}

// ProbationOverlaps reports whether [from, to] intersects the probation window.
func (c CompensationConfig) ProbationOverlaps(from, to time.Time) bool {
	if c.ProbationStart == nil || c.ProbationEnd == nil {
		return false
	}
	return !c.ProbationStart.After(to) && !c.ProbationEnd.Before(from)
}

// PaysWeeklyHoliday reports whether weekly-holiday allowance is paid on top of wages.
func (c CompensationConfig) PaysWeeklyHoliday() bool {
	if c.WeeklyHolidayIncluded {
		return false
	}
	switch c.Category {
	case CategoryWageEarner, CategoryBusinessIncome, CategoryForeignWorker:
		return true
	}
	return false
}
