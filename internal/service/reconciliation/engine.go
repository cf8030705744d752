package reconciliation

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/hours"
)

// thresholdEpsilon absorbs float noise so a difference landing on the 0.17 h
// threshold itself still needs review.
const thresholdEpsilon = 1e-9

type plannedDay struct {
	hours        float64
	breakHours   float64
	ranges       []string
	employeeName string
	branchName   string
}

// reportedDay keeps gross (POS) and pre-netted hours apart; only the gross
// part still carries the scheduled break.
type reportedDay struct {
	gross  float64
	netted float64
	ranges []string
}

func (r *reportedDay) total() float64 {
	return r.gross + r.netted
}

func (r *reportedDay) worked(breakHours float64) float64 {
	return r.netted + math.Max(0, r.gross-breakHours)
}

// Reconcile compares one key's planned shifts with reported attendance, one
// day per calendar date, sorted by date. The result replaces the key's day-set.
func Reconcile(key reconciliation.Key, entries []schedule.Entry, records []attendance.Record) []reconciliation.Day {
	planned := foldSchedules(entries)
	reported := foldRecords(records)

	employeeName := ""
	for _, p := range planned {
		if p.employeeName != "" {
			employeeName = p.employeeName
			break
		}
	}
	branchName := ""
	for _, p := range planned {
		if p.branchName != "" {
			branchName = p.branchName
			break
		}
	}

	days := make([]reconciliation.Day, 0, len(planned)+len(reported))
	matched := make(map[time.Time]bool, len(reported))

	for date, p := range planned {
		d := reconciliation.Day{
			EmployeeID:         key.EmployeeID,
			EmployeeName:       employeeName,
			BranchID:           key.BranchID,
			BranchName:         branchName,
			Month:              key.Month,
			Date:               date,
			ScheduledHours:     p.hours,
			ScheduledTimeRange: strings.Join(p.ranges, ", "),
			BreakHours:         p.breakHours,
		}

		r, ok := reported[date]
		if !ok {
			d.ActualTimeRange = reconciliation.NoDataLabel
			d.SetWorkedHours(0)
			d.Status = reconciliation.DayStatusReviewRequired
			days = append(days, d)
			continue
		}
		matched[date] = true

		d.RawActualHours = r.total()
		d.ActualTimeRange = strings.Join(r.ranges, ", ")
		d.SetWorkedHours(r.worked(p.breakHours))
		d.Status = classify(d.Difference)
		days = append(days, d)
	}

	for date, r := range reported {
		if matched[date] {
			continue
		}
		// worked without a schedule: always reviewed
		d := reconciliation.Day{
			EmployeeID:         key.EmployeeID,
			EmployeeName:       employeeName,
			BranchID:           key.BranchID,
			BranchName:         branchName,
			Month:              key.Month,
			Date:               date,
			ScheduledTimeRange: reconciliation.UnscheduledLabel,
			RawActualHours:     r.total(),
			ActualTimeRange:    strings.Join(r.ranges, ", "),
			Status:             reconciliation.DayStatusReviewRequired,
		}
		d.SetWorkedHours(r.total())
		days = append(days, d)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

func classify(difference float64) reconciliation.DayStatus {
	if math.Abs(difference) >= reconciliation.MismatchThresholdHours-thresholdEpsilon {
		return reconciliation.DayStatusReviewRequired
	}
	return reconciliation.DayStatusTimeMatch
}

func foldSchedules(entries []schedule.Entry) map[time.Time]*plannedDay {
	out := make(map[time.Time]*plannedDay, len(entries))
	for _, e := range entries {
		date := truncateDate(e.Date)
		p, ok := out[date]
		if !ok {
			p = &plannedDay{employeeName: e.EmployeeName, branchName: e.BranchName}
			out[date] = p
		}
		p.hours += e.ScheduledHours()
		p.breakHours += e.BreakHours
		p.ranges = append(p.ranges, e.TimeRange())
	}
	return out
}

func foldRecords(records []attendance.Record) map[time.Time]*reportedDay {
	out := make(map[time.Time]*reportedDay, len(records))
	for _, rec := range records {
		date := truncateDate(rec.Date)
		r, ok := out[date]
		if !ok {
			r = &reportedDay{}
			out[date] = r
		}
		if rec.IsPreNetted {
			r.netted += rec.TotalHours
		} else {
			r.gross += rec.TotalHours
		}
		r.ranges = append(r.ranges, hours.Range(rec.StartTime, rec.EndTime))
	}
	return out
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
