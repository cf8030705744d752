package payroll

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

const (
	weeklyHolidayMinHours = 15.0
	hoursEpsilon          = 1e-9
)

// weeklyHoliday builds one entry per Monday-start week touching the month.
// Only a week whose Sunday falls inside the month and inside the employment
// can be paid; later weeks are left to next month's run.
func weeklyHoliday(in payroll.CalculationInput, monthStart, monthEnd time.Time) []payroll.HolidayWeek {
	cfg := in.Config
	wage := cfg.HourlyWage
	workdays := decimal.NewFromInt(int64(cfg.Workdays()))

	var weeks []payroll.HolidayWeek
	for start := mondayOf(monthStart); !start.After(monthEnd); start = start.AddDate(0, 0, 7) {
		end := start.AddDate(0, 0, 6)
		w := payroll.HolidayWeek{
			WeekStart:   start,
			WeekEnd:     end,
			IsFirstWeek: start.Day() <= 7,
			Pay:         decimal.Zero,
			InProbation: cfg.InProbation(end),
		}

		for _, d := range in.Days {
			if d.Date.Before(start) || d.Date.After(end) {
				continue
			}
			w.ActualHours += d.ActualWorkedHours
			if d.ActualWorkedHours > 0 {
				w.WorkedDays++
			}
		}
		if start.Before(monthStart) {
			w.CarryoverHours = in.CarryoverHours
		}

		switch {
		case cfg.ContractEnd != nil && cfg.ContractEnd.Before(end):
			w.Reason = payroll.ReasonIncompleteWeek
		case end.After(monthEnd):
			w.Reason = payroll.ReasonDeferred
		case w.ActualHours+w.CarryoverHours+hoursEpsilon < weeklyHolidayMinHours || w.WorkedDays == 0:
			w.Reason = payroll.ReasonUnderThreshold
		default:
			w.Eligible = true
			w.HolidayHours = w.ActualHours / float64(cfg.Workdays())
			pay := round(decimal.NewFromFloat(w.ActualHours).Div(workdays).Mul(wage))
			if w.InProbation {
				pay = round(pay.Mul(probationRate))
			}
			w.Pay = pay
		}

		weeks = append(weeks, w)
	}
	return weeks
}

func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
