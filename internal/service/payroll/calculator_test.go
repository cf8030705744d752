package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func worked(d string, h float64) reconciliation.Day {
	return reconciliation.Day{
		EmployeeID:        "emp-1",
		BranchID:          "br-1",
		BranchName:        "Gangnam",
		Month:             d[:7],
		Date:              date(d),
		ScheduledHours:    h,
		RawActualHours:    h,
		ActualWorkedHours: h,
		Status:            reconciliation.DayStatusTimeMatch,
	}
}

func hourlyConfig(wage int64) employee.CompensationConfig {
	return employee.CompensationConfig{
		EmployeeID:     "emp-1",
		Category:       employee.CategoryWageEarner,
		SalaryType:     employee.SalaryTypeHourly,
		HourlyWage:     decimal.NewFromInt(wage),
		MonthlySalary:  decimal.Zero,
		WeeklyWorkdays: 5,
		ContractStart:  date("2025-01-01"),
	}
}

func assertMoney(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), append([]any{"want %d, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestCalculate_ProbationSplit(t *testing.T) {
	cfg := hourlyConfig(10_000)
	cfg.WeeklyHolidayIncluded = true
	cfg.ProbationStart = datePtr("2025-09-01")
	cfg.ProbationEnd = datePtr("2025-09-10")

	result := NewCalculator().Calculate(payroll.CalculationInput{
		EmployeeID: "emp-1",
		Month:      "2025-09",
		Config:     cfg,
		Days: []reconciliation.Day{
			worked("2025-09-02", 10),
			worked("2025-09-15", 12),
			worked("2025-09-16", 8),
		},
	})

	assert.InDelta(t, 10.0, result.ProbationHours, 1e-9)
	assert.InDelta(t, 20.0, result.RegularHours, 1e-9)
	assertMoney(t, 90_000, result.ProbationPay)
	assertMoney(t, 200_000, result.RegularPay)
	assertMoney(t, 290_000, result.BasePay)
	assertMoney(t, 290_000, result.GrossPay)
	assert.Empty(t, result.WeeklyHolidayWeeks)
}

func TestCalculate_EndToEndWageEarner(t *testing.T) {
	day := worked("2025-09-01", 7)
	day.BreakHours = 1

	result := NewCalculator().Calculate(payroll.CalculationInput{
		EmployeeID: "emp-1",
		Month:      "2025-09",
		Config:     hourlyConfig(12_000),
		Days:       []reconciliation.Day{day},
	})

	assertMoney(t, 84_000, result.BasePay)
	assertMoney(t, 0, result.WeeklyHolidayPay)
	assertMoney(t, 84_000, result.GrossPay)

	require.NotEmpty(t, result.WeeklyHolidayWeeks)
	first := result.WeeklyHolidayWeeks[0]
	assert.Equal(t, date("2025-09-01"), first.WeekStart)
	assert.True(t, first.IsFirstWeek)
	assert.False(t, first.Eligible)
	assert.Equal(t, payroll.ReasonUnderThreshold, first.Reason)

	assertMoney(t, 3_780, result.Deductions.Pension)
	assertMoney(t, 2_978, result.Deductions.Health)
	assertMoney(t, 386, result.Deductions.LongTermCare)
	assertMoney(t, 756, result.Deductions.Employment)
	assertMoney(t, 7_900, result.Deductions.Insurance)
	assertMoney(t, 0, result.Deductions.Tax)
	assertMoney(t, 76_100, result.NetPay)
	assert.InDelta(t, 1.0, result.TotalBreakHours, 1e-9)
}

func TestWeeklyHoliday_Boundary(t *testing.T) {
	tests := []struct {
		name     string
		days     []reconciliation.Day
		eligible bool
	}{
		{
			name:     "exactly fifteen hours",
			days:     []reconciliation.Day{worked("2025-09-01", 5), worked("2025-09-02", 5), worked("2025-09-03", 5)},
			eligible: true,
		},
		{
			name:     "just under fifteen hours",
			days:     []reconciliation.Day{worked("2025-09-01", 5), worked("2025-09-02", 5), worked("2025-09-03", 4.99)},
			eligible: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewCalculator().Calculate(payroll.CalculationInput{
				EmployeeID: "emp-1",
				Month:      "2025-09",
				Config:     hourlyConfig(10_000),
				Days:       tt.days,
			})
			first := result.WeeklyHolidayWeeks[0]
			assert.Equal(t, tt.eligible, first.Eligible)
			if tt.eligible {
				assert.InDelta(t, 3.0, first.HolidayHours, 1e-9)
				assertMoney(t, 30_000, first.Pay)
				assertMoney(t, 30_000, result.WeeklyHolidayPay)
				assertMoney(t, 180_000, result.GrossPay)
			} else {
				assert.Equal(t, payroll.ReasonUnderThreshold, first.Reason)
				assertMoney(t, 0, result.WeeklyHolidayPay)
			}
		})
	}
}

func TestWeeklyHoliday_IncompleteAndDeferredWeeks(t *testing.T) {
	cfg := hourlyConfig(10_000)
	cfg.ContractEnd = datePtr("2025-09-17")

	result := NewCalculator().Calculate(payroll.CalculationInput{
		EmployeeID: "emp-1",
		Month:      "2025-09",
		Config:     cfg,
		Days: []reconciliation.Day{
			worked("2025-09-08", 8), worked("2025-09-09", 8), // week of 8th, complete
			worked("2025-09-15", 8), worked("2025-09-16", 8), worked("2025-09-17", 8), // contract ends mid-week
		},
	})

	byStart := map[string]payroll.HolidayWeek{}
	for _, w := range result.WeeklyHolidayWeeks {
		byStart[w.WeekStart.Format("2006-01-02")] = w
	}

	assert.True(t, byStart["2025-09-08"].Eligible)
	assert.False(t, byStart["2025-09-15"].Eligible)
	assert.Equal(t, payroll.ReasonIncompleteWeek, byStart["2025-09-15"].Reason)
	assertMoney(t, 32_000, result.WeeklyHolidayPay)

	// 2025-09-29 week ends 2025-10-05
	cfg.ContractEnd = nil
	result = NewCalculator().Calculate(payroll.CalculationInput{
		EmployeeID: "emp-1",
		Month:      "2025-09",
		Config:     cfg,
		Days:       []reconciliation.Day{worked("2025-09-29", 8), worked("2025-09-30", 8)},
	})
	last := result.WeeklyHolidayWeeks[len(result.WeeklyHolidayWeeks)-1]
	assert.Equal(t, date("2025-09-29"), last.WeekStart)
	assert.False(t, last.Eligible)
	assert.Equal(t, payroll.ReasonDeferred, last.Reason)
}

func TestWeeklyHoliday_CarryoverAndProbation(t *testing.T) {
	cfg := hourlyConfig(10_000)
	cfg.ProbationStart = datePtr("2025-10-01")
	cfg.ProbationEnd = datePtr("2025-10-31")

	// October 2025 starts on a Wednesday; that week began in September.
	result := NewCalculator().Calculate(payroll.CalculationInput{
		EmployeeID:     "emp-1",
		Month:          "2025-10",
		Config:         cfg,
		CarryoverHours: 6,
		Days:           []reconciliation.Day{worked("2025-10-01", 5), worked("2025-10-02", 5)},
	})

	first := result.WeeklyHolidayWeeks[0]
	assert.Equal(t, date("2025-09-29"), first.WeekStart)
	assert.InDelta(t, 6.0, first.CarryoverHours, 1e-9)
	assert.True(t, first.Eligible)
	assert.True(t, first.InProbation)
	assert.InDelta(t, 2.0, first.HolidayHours, 1e-9)
	// round(2 * 10000) = 20000, then round(20000 * 0.9)
	assertMoney(t, 18_000, first.Pay)
}

func TestWeeklyHoliday_NotPaidWhenIncludedOrDailyWorker(t *testing.T) {
	days := []reconciliation.Day{worked("2025-09-01", 8), worked("2025-09-02", 8)}

	included := hourlyConfig(10_000)
	included.WeeklyHolidayIncluded = true
	result := NewCalculator().Calculate(payroll.CalculationInput{EmployeeID: "emp-1", Month: "2025-09", Config: included, Days: days})
	assertMoney(t, 0, result.WeeklyHolidayPay)

	daily := hourlyConfig(10_000)
	daily.Category = employee.CategoryDailyWorker
	result = NewCalculator().Calculate(payroll.CalculationInput{EmployeeID: "emp-1", Month: "2025-09", Config: daily, Days: days})
	assertMoney(t, 0, result.WeeklyHolidayPay)
	assertMoney(t, 160_000, result.GrossPay)
	assertMoney(t, 0, result.Deductions.Total)
	assertMoney(t, 160_000, result.NetPay)
}

func TestCalculate_BusinessIncomeFlatTax(t *testing.T) {
	cfg := hourlyConfig(10_000)
	cfg.Category = employee.CategoryBusinessIncome
	cfg.WeeklyHolidayIncluded = true

	result := NewCalculator().Calculate(payroll.CalculationInput{
		EmployeeID: "emp-1",
		Month:      "2025-09",
		Config:     cfg,
		Days:       []reconciliation.Day{worked("2025-09-01", 10)},
	})

	assertMoney(t, 100_000, result.GrossPay)
	assertMoney(t, 3_300, result.Deductions.Tax)
	assertMoney(t, 0, result.Deductions.Insurance)
	assertMoney(t, 96_700, result.NetPay)
}

func TestCalculate_MonthlyPath(t *testing.T) {
	cfg := hourlyConfig(0)
	cfg.SalaryType = employee.SalaryTypeMonthly
	cfg.MonthlySalary = decimal.NewFromInt(3_000_000)

	result := NewCalculator().Calculate(payroll.CalculationInput{EmployeeID: "emp-1", Month: "2025-09", Config: cfg, UnpaidLeaveDays: 2})

	assertMoney(t, 3_000_000, result.BasePay)
	assertMoney(t, 200_000, result.UnpaidLeaveDeduction)
	assertMoney(t, 2_800_000, result.GrossPay)
	assert.False(t, result.ProbationApplied)
	// 20800 + 4% of 700000
	assertMoney(t, 48_800, result.Deductions.IncomeTax)
	assertMoney(t, 4_880, result.Deductions.LocalTax)

	cfg.ProbationStart = datePtr("2025-08-15")
	cfg.ProbationEnd = datePtr("2025-09-01")
	cfg.Category = employee.CategoryForeignWorker
	result = NewCalculator().Calculate(payroll.CalculationInput{EmployeeID: "emp-1", Month: "2025-09", Config: cfg, UnpaidLeaveDays: 2})

	assert.True(t, result.ProbationApplied)
	assertMoney(t, 2_700_000, result.BasePay)
	assertMoney(t, 0, result.UnpaidLeaveDeduction)
	assertMoney(t, 2_700_000, result.GrossPay)
	assertMoney(t, 89_100, result.Deductions.Tax)
}

func TestIncomeTaxBrackets(t *testing.T) {
	tests := []struct {
		gross int64
		want  int64
	}{
		{1_060_000, 0},
		{1_560_000, 10_000},
		{2_100_000, 20_800},
		{3_160_000, 63_200},
		{4_160_000, 123_200},
		{6_000_000, 253_600},
	}
	for _, tt := range tests {
		assertMoney(t, tt.want, incomeTax(decimal.NewFromInt(tt.gross)), "gross %d", tt.gross)
	}
}

func TestCalculate_ZeroConfigAndBranches(t *testing.T) {
	other := worked("2025-09-03", 4)
	other.BranchID = "br-2"
	other.BranchName = ""

	result := NewCalculator().Calculate(payroll.CalculationInput{
		EmployeeID:  "emp-1",
		Month:       "2025-09",
		Config:      employee.ZeroConfig("emp-1"),
		Days:        []reconciliation.Day{worked("2025-09-01", 6), other},
		BranchNames: map[string]string{"br-1": "Gangnam Station"},
	})

	assertMoney(t, 0, result.GrossPay)
	assertMoney(t, 0, result.NetPay)
	assert.InDelta(t, 10.0, result.ActualWorkHours, 1e-9)
	require.Len(t, result.Branches, 2)
	assert.Equal(t, "Gangnam Station", result.Branches[0].BranchName)
	assert.Equal(t, "unknown branch", result.Branches[1].BranchName)
	assert.InDelta(t, 4.0, result.Branches[1].ActualWorkedHours, 1e-9)
}

func workedAt(d, branchID string, h float64) reconciliation.Day {
	day := worked(d, h)
	day.BranchID = branchID
	day.BranchName = "Branch " + branchID
	return day
}

func TestCalculate_BranchShareOfCrossBranchWeek(t *testing.T) {
	days := []reconciliation.Day{
		workedAt("2025-09-01", "br-a", 5),
		workedAt("2025-09-02", "br-a", 5),
		workedAt("2025-09-03", "br-b", 5),
		workedAt("2025-09-04", "br-b", 5),
	}
	in := payroll.CalculationInput{EmployeeID: "emp-1", Month: "2025-09", Days: days, Config: hourlyConfig(10_000)}

	full := NewCalculator().Calculate(in)
	assertMoney(t, 40_000, full.WeeklyHolidayPay)
	assertMoney(t, 240_000, full.GrossPay)

	branchA := "br-a"
	in.BranchID = &branchA
	a := NewCalculator().Calculate(in)

	assert.InDelta(t, 10.0, a.ActualWorkHours, 1e-9)
	assertMoney(t, 100_000, a.BasePay)
	require.NotEmpty(t, a.WeeklyHolidayWeeks)
	first := a.WeeklyHolidayWeeks[0]
	assert.True(t, first.Eligible)
	assert.InDelta(t, 20.0, first.ActualHours, 1e-9)
	assert.InDelta(t, 10.0, first.BranchHours, 1e-9)
	assert.InDelta(t, 2.0, first.HolidayHours, 1e-9)
	assertMoney(t, 20_000, a.WeeklyHolidayPay)
	assertMoney(t, 120_000, a.GrossPay)
	assertMoney(t, 5_400, a.Deductions.Pension)
	assert.True(t, a.NetPay.Equal(a.GrossPay.Sub(a.Deductions.Total)))
	require.Len(t, a.Branches, 1)
	assert.Equal(t, "br-a", a.Branches[0].BranchID)

	branchB := "br-b"
	in.BranchID = &branchB
	b := NewCalculator().Calculate(in)
	assert.True(t, full.GrossPay.Equal(a.GrossPay.Add(b.GrossPay)))
}

func TestCalculate_MonthlySalarySplitByHours(t *testing.T) {
	cfg := hourlyConfig(0)
	cfg.SalaryType = employee.SalaryTypeMonthly
	cfg.MonthlySalary = decimal.NewFromInt(2_000_000)
	branchA := "br-a"
	in := payroll.CalculationInput{
		EmployeeID: "emp-1",
		Month:      "2025-09",
		Days:       []reconciliation.Day{workedAt("2025-09-01", "br-a", 30), workedAt("2025-09-02", "br-b", 10)},
		Config:     cfg,
		BranchID:   &branchA,
	}

	result := NewCalculator().Calculate(in)

	assertMoney(t, 1_500_000, result.BasePay)
	assertMoney(t, 1_500_000, result.GrossPay)
}
