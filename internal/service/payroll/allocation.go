package payroll

import (
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// allocate narrows an all-branch result to one branch. Hourly base pay comes
// from the branch's own hours; weekly-holiday weeks keep the all-branch
// eligibility and pay out by the branch's share of the week's hours. Monthly
// salary is split by worked hours and deductions by gross pay.
func allocate(full payroll.CalculationResult, in payroll.CalculationInput, branchID string) payroll.CalculationResult {
	cfg := in.Config
	out := full
	out.TotalScheduledHours = 0
	out.TotalActualHours = 0
	out.TotalBreakHours = 0
	out.ActualWorkHours = 0
	out.ProbationHours = 0
	out.RegularHours = 0

	for _, d := range in.Days {
		if d.BranchID != branchID {
			continue
		}
		out.TotalScheduledHours += d.ScheduledHours
		out.TotalActualHours += d.RawActualHours
		out.TotalBreakHours += d.BreakHours
		out.ActualWorkHours += d.ActualWorkedHours
		if cfg.InProbation(d.Date) {
			out.ProbationHours += d.ActualWorkedHours
		} else {
			out.RegularHours += d.ActualWorkedHours
		}
	}

	out.Branches = []payroll.BranchHours{}
	for _, b := range full.Branches {
		if b.BranchID == branchID {
			out.Branches = append(out.Branches, b)
		}
	}

	switch cfg.SalaryType {
	case employee.SalaryTypeMonthly:
		share := hoursShare(out.ActualWorkHours, full.ActualWorkHours)
		out.BasePay = round(full.BasePay.Mul(share))
		out.UnpaidLeaveDeduction = round(full.UnpaidLeaveDeduction.Mul(share))
		out.GrossPay = out.BasePay.Sub(out.UnpaidLeaveDeduction)
		if out.GrossPay.IsNegative() {
			out.GrossPay = decimal.Zero
		}
	default:
		wage := cfg.HourlyWage
		out.ProbationPay = round(decimal.NewFromFloat(out.ProbationHours).Mul(wage).Mul(probationRate))
		out.RegularPay = round(decimal.NewFromFloat(out.RegularHours).Mul(wage))
		out.BasePay = out.ProbationPay.Add(out.RegularPay)

		out.WeeklyHolidayHours = 0
		out.WeeklyHolidayPay = decimal.Zero
		out.WeeklyHolidayWeeks = make([]payroll.HolidayWeek, 0, len(full.WeeklyHolidayWeeks))
		for _, w := range full.WeeklyHolidayWeeks {
			for _, d := range in.Days {
				if d.BranchID == branchID && !d.Date.Before(w.WeekStart) && !d.Date.After(w.WeekEnd) {
					w.BranchHours += d.ActualWorkedHours
				}
			}
			if w.Eligible {
				share := hoursShare(w.BranchHours, w.ActualHours)
				w.HolidayHours = w.HolidayHours * share.InexactFloat64()
				w.Pay = round(w.Pay.Mul(share))
				out.WeeklyHolidayHours += w.HolidayHours
				out.WeeklyHolidayPay = out.WeeklyHolidayPay.Add(w.Pay)
			}
			out.WeeklyHolidayWeeks = append(out.WeeklyHolidayWeeks, w)
		}
		out.GrossPay = out.BasePay.Add(out.WeeklyHolidayPay)
	}

	grossShare := decimal.Zero
	if full.GrossPay.IsPositive() {
		grossShare = out.GrossPay.Div(full.GrossPay)
	}
	out.Deductions = allocateDeductions(full.Deductions, grossShare)
	out.NetPay = out.GrossPay.Sub(out.Deductions.Total)
	return out
}

// hoursShare is part/whole. A whole of zero gives the branch everything.
func hoursShare(part, whole float64) decimal.Decimal {
	if whole <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(part).Div(decimal.NewFromFloat(whole))
}

func allocateDeductions(full payroll.Deductions, share decimal.Decimal) payroll.Deductions {
	scale := func(v decimal.Decimal) decimal.Decimal {
		return round(v.Mul(share))
	}
	d := payroll.Deductions{
		Pension:      scale(full.Pension),
		Health:       scale(full.Health),
		LongTermCare: scale(full.LongTermCare),
		Employment:   scale(full.Employment),
		IncomeTax:    scale(full.IncomeTax),
		LocalTax:     scale(full.LocalTax),
	}
	d.Insurance = d.Pension.Add(d.Health).Add(d.LongTermCare).Add(d.Employment)
	if full.IncomeTax.IsZero() && full.LocalTax.IsZero() {
		d.Tax = scale(full.Tax)
	} else {
		d.Tax = d.IncomeTax.Add(d.LocalTax)
	}
	d.Total = d.Insurance.Add(d.Tax)
	return d
}
