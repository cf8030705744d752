package payroll

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var (
	probationRate = decimal.RequireFromString("0.9")
	daysPerMonth  = decimal.NewFromInt(30)
)

// Calculator turns finalized reconciliation days into pay. It holds no state.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate runs the hourly or monthly path, then deductions. Money is rounded
// to whole currency units; hours are never rounded. With in.BranchID set the
// month is still calculated across all branches and then allocated.
func (c *Calculator) Calculate(in payroll.CalculationInput) payroll.CalculationResult {
	result := c.calculate(in)
	if in.BranchID == nil {
		return result
	}
	return allocate(result, in, *in.BranchID)
}

func (c *Calculator) calculate(in payroll.CalculationInput) payroll.CalculationResult {
	cfg := in.Config
	result := payroll.CalculationResult{
		EmployeeID:           in.EmployeeID,
		EmployeeName:         cfg.EmployeeName,
		Month:                in.Month,
		Category:             cfg.Category,
		SalaryType:           cfg.SalaryType,
		HourlyWage:           cfg.HourlyWage,
		MonthlyWage:          cfg.MonthlySalary,
		ProbationPay:         decimal.Zero,
		RegularPay:           decimal.Zero,
		BasePay:              decimal.Zero,
		UnpaidLeaveDays:      in.UnpaidLeaveDays,
		UnpaidLeaveDeduction: decimal.Zero,
		WeeklyHolidayPay:     decimal.Zero,
		WeeklyHolidayWeeks:   []payroll.HolidayWeek{},
		GrossPay:             decimal.Zero,
	}

	for _, d := range in.Days {
		result.TotalScheduledHours += d.ScheduledHours
		result.TotalActualHours += d.RawActualHours
		result.TotalBreakHours += d.BreakHours
		result.ActualWorkHours += d.ActualWorkedHours
		if cfg.InProbation(d.Date) {
			result.ProbationHours += d.ActualWorkedHours
		} else {
			result.RegularHours += d.ActualWorkedHours
		}
	}
	result.Branches = branchBreakdown(in)

	monthStart, monthEnd, ok := validator.MonthBounds(in.Month)
	if !ok {
		result.Deductions = deductionsFor(cfg.Category, decimal.Zero)
		result.NetPay = decimal.Zero
		return result
	}

	switch cfg.SalaryType {
	case employee.SalaryTypeMonthly:
		c.monthly(&result, cfg, monthStart, monthEnd, in.UnpaidLeaveDays)
	default:
		c.hourly(&result, in, monthStart, monthEnd)
	}

	result.Deductions = deductionsFor(cfg.Category, result.GrossPay)
	result.NetPay = result.GrossPay.Sub(result.Deductions.Total)
	return result
}

func (c *Calculator) hourly(result *payroll.CalculationResult, in payroll.CalculationInput, monthStart, monthEnd time.Time) {
	wage := in.Config.HourlyWage

	result.ProbationPay = round(decimal.NewFromFloat(result.ProbationHours).Mul(wage).Mul(probationRate))
	result.RegularPay = round(decimal.NewFromFloat(result.RegularHours).Mul(wage))
	result.BasePay = result.ProbationPay.Add(result.RegularPay)

	if in.Config.PaysWeeklyHoliday() {
		result.WeeklyHolidayWeeks = weeklyHoliday(in, monthStart, monthEnd)
		for _, w := range result.WeeklyHolidayWeeks {
			if !w.Eligible {
				continue
			}
			result.WeeklyHolidayHours += w.HolidayHours
			result.WeeklyHolidayPay = result.WeeklyHolidayPay.Add(w.Pay)
		}
	}

	result.GrossPay = result.BasePay.Add(result.WeeklyHolidayPay)
}

func (c *Calculator) monthly(result *payroll.CalculationResult, cfg employee.CompensationConfig, monthStart, monthEnd time.Time, unpaidLeaveDays int) {
	base := cfg.MonthlySalary
	if cfg.ProbationOverlaps(monthStart, monthEnd) {
		base = round(base.Mul(probationRate))
		result.ProbationApplied = true
	}
	result.BasePay = base

	gross := base
	if cfg.Category == employee.CategoryWageEarner && unpaidLeaveDays > 0 {
		result.UnpaidLeaveDeduction = round(base.Div(daysPerMonth).Mul(decimal.NewFromInt(int64(unpaidLeaveDays))))
		gross = base.Sub(result.UnpaidLeaveDeduction)
		if gross.IsNegative() {
			gross = decimal.Zero
		}
	}
	result.GrossPay = gross
}

func branchBreakdown(in payroll.CalculationInput) []payroll.BranchHours {
	byID := make(map[string]*payroll.BranchHours)
	for _, d := range in.Days {
		b, ok := byID[d.BranchID]
		if !ok {
			b = &payroll.BranchHours{
				BranchID:   d.BranchID,
				BranchName: branch.DisplayName(in.BranchNames[d.BranchID], d.BranchName),
			}
			byID[d.BranchID] = b
		}
		b.DayCount++
		b.ScheduledHours += d.ScheduledHours
		b.ActualWorkedHours += d.ActualWorkedHours
	}

	out := make([]payroll.BranchHours, 0, len(byID))
	for _, b := range byID {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchName != out[j].BranchName {
			return out[i].BranchName < out[j].BranchName
		}
		return out[i].BranchID < out[j].BranchID
	})
	return out
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
