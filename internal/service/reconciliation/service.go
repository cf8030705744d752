package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/hours"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	attendancesvc "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/attendance"
)

type ReconciliationServiceImpl struct {
	tx reconciliation.Transactor
	reconciliation.DayRepository
	reconciliation.ReviewStatusRepository
	schedule.ScheduleRepository
	branch.BranchRepository
	lock     reconciliation.LockChecker
	notifier reconciliation.Notifier
}

// mutation runs inside the key's transaction and returns the status write to
// persist. A nil transition only bumps the revision.
type mutation func(ctx context.Context, current reconciliation.ReviewState) (*transition, error)

// RunComparison implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) RunComparison(ctx context.Context, req reconciliation.CompareRequest) (reconciliation.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	return s.compare(ctx, req.KeyParams, req.RawText, req.Overwrite, req.ExpectedRevision)
}

// ImportWorkbook implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) ImportWorkbook(ctx context.Context, req reconciliation.ImportRequest) (reconciliation.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	text, err := attendancesvc.ParseWorkbook(req.File)
	if err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	return s.compare(ctx, req.KeyParams, text, req.Overwrite, req.ExpectedRevision)
}

func (s *ReconciliationServiceImpl) compare(ctx context.Context, params reconciliation.KeyParams, rawText string, overwrite bool, expected *int64) (reconciliation.ReviewResponse, error) {
	key := params.Key()
	from, to, _ := validator.MonthBounds(key.Month)

	records := attendancesvc.ParseText(rawText)
	records = slices.DeleteFunc(records, func(r attendance.Record) bool {
		return !validator.IsInMonth(r.Date, key.Month)
	})

	var dayCount int
	err := s.mutate(ctx, key, expected, reconciliation.ChangeCompared, func(ctx context.Context, current reconciliation.ReviewState) (*transition, error) {
		existing, err := s.DayRepository.ListDays(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to list reconciliation days: %w", err)
		}
		if !overwrite && slices.ContainsFunc(existing, func(d reconciliation.Day) bool { return d.IsModified }) {
			return nil, reconciliation.ErrModifiedDaysExist
		}

		entries, err := s.ScheduleRepository.ListSchedules(ctx, schedule.ListFilter{
			EmployeeID: key.EmployeeID,
			BranchID:   &key.BranchID,
			From:       from,
			To:         to,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list schedules: %w", err)
		}

		days := Reconcile(key, entries, records)
		if err := s.DayRepository.ReplaceDays(ctx, key, days); err != nil {
			return nil, fmt.Errorf("failed to replace reconciliation days: %w", err)
		}
		dayCount = len(days)

		if t, ok := onCompared(current.Status, len(days)); ok {
			return &t, nil
		}
		return nil, nil
	})
	if err != nil {
		return reconciliation.ReviewResponse{}, err
	}

	slog.InfoContext(ctx, "reconciliation compared",
		"key", key.String(),
		"records", len(records),
		"days", dayCount,
	)
	return s.GetReview(ctx, params)
}

// GetReview implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) GetReview(ctx context.Context, params reconciliation.KeyParams) (reconciliation.ReviewResponse, error) {
	if err := params.Validate(); err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	key := params.Key()

	days, err := s.DayRepository.ListDays(ctx, key)
	if err != nil {
		return reconciliation.ReviewResponse{}, fmt.Errorf("failed to list reconciliation days: %w", err)
	}

	locked, err := s.lock.IsConfirmed(ctx, key)
	if err != nil {
		return reconciliation.ReviewResponse{}, fmt.Errorf("failed to check payroll confirmation: %w", err)
	}

	state, err := s.loadState(ctx, key)
	if err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	if locked {
		// a ledger entry outranks whatever status row is stored
		state.Status = reconciliation.ReviewStatusConfirmed
		state.Source = reconciliation.StatusSourceLedger
	}

	liveName, err := s.branchName(ctx, key.BranchID)
	if err != nil {
		return reconciliation.ReviewResponse{}, err
	}

	resp := reconciliation.ReviewResponse{
		EmployeeID:   key.EmployeeID,
		BranchID:     key.BranchID,
		Month:        key.Month,
		Status:       string(state.Status),
		StatusSource: string(state.Source),
		Revision:     state.Revision,
		IsLocked:     locked,
		Summary:      reconciliation.NewSummaryResponse(days),
		Days:         make([]reconciliation.DayResponse, 0, len(days)),
	}
	for _, d := range days {
		d.BranchName = branch.DisplayName(liveName, d.BranchName)
		resp.Days = append(resp.Days, reconciliation.NewDayResponse(d))
	}
	return resp, nil
}

// UpdateDayHours implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) UpdateDayHours(ctx context.Context, req reconciliation.UpdateDayRequest) (reconciliation.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	modified := true
	patch := reconciliation.DayPatch{
		ActualWorkedHours: req.ActualWorkedHours,
		IsModified:        &modified,
	}
	return s.patchDay(ctx, req.KeyParams, req.Date, req.ExpectedRevision, func(reconciliation.Day) (reconciliation.DayPatch, error) {
		return patch, nil
	})
}

// ConfirmDay implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) ConfirmDay(ctx context.Context, req reconciliation.DayActionRequest) (reconciliation.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	return s.patchDay(ctx, req.KeyParams, req.Date, req.ExpectedRevision, func(reconciliation.Day) (reconciliation.DayPatch, error) {
		status := reconciliation.DayStatusReviewCompleted
		modified := true
		return reconciliation.DayPatch{Status: &status, IsModified: &modified}, nil
	})
}

// UnconfirmDay implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) UnconfirmDay(ctx context.Context, req reconciliation.DayActionRequest) (reconciliation.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	return s.patchDay(ctx, req.KeyParams, req.Date, req.ExpectedRevision, func(d reconciliation.Day) (reconciliation.DayPatch, error) {
		if d.Status != reconciliation.DayStatusReviewCompleted {
			return reconciliation.DayPatch{}, reconciliation.ErrInvalidTransition
		}
		status := reconciliation.DayStatusReviewRequired
		return reconciliation.DayPatch{Status: &status}, nil
	})
}

// CopyScheduledToActual implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) CopyScheduledToActual(ctx context.Context, req reconciliation.DayActionRequest) (reconciliation.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	return s.patchDay(ctx, req.KeyParams, req.Date, req.ExpectedRevision, func(d reconciliation.Day) (reconciliation.DayPatch, error) {
		worked := d.ScheduledHours
		status := reconciliation.DayStatusReviewCompleted
		modified := true
		return reconciliation.DayPatch{ActualWorkedHours: &worked, Status: &status, IsModified: &modified}, nil
	})
}

// CompleteReview implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) CompleteReview(ctx context.Context, req reconciliation.ReviewActionRequest) (reconciliation.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	return s.force(ctx, req, reconciliation.ReviewStatusReviewComplete, reconciliation.ChangeReviewCompleted)
}

// ReopenReview implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) ReopenReview(ctx context.Context, req reconciliation.ReviewActionRequest) (reconciliation.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	return s.force(ctx, req, reconciliation.ReviewStatusInReview, reconciliation.ChangeReviewReopened)
}

func (s *ReconciliationServiceImpl) force(ctx context.Context, req reconciliation.ReviewActionRequest, target reconciliation.ReviewStatus, kind reconciliation.ChangeKind) (reconciliation.ReviewResponse, error) {
	key := req.Key()
	err := s.mutate(ctx, key, req.ExpectedRevision, kind, func(ctx context.Context, current reconciliation.ReviewState) (*transition, error) {
		t, err := forceSet(current.Status, target)
		if err != nil {
			return nil, fmt.Errorf("%w: %s to %s", err, current.Status, target)
		}
		return &t, nil
	})
	if err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	return s.GetReview(ctx, req.KeyParams)
}

// patchDay applies a day edit and then recomputes the coarse status from the
// key's full day-set.
func (s *ReconciliationServiceImpl) patchDay(ctx context.Context, params reconciliation.KeyParams, date string, expected *int64, build func(reconciliation.Day) (reconciliation.DayPatch, error)) (reconciliation.ReviewResponse, error) {
	key := params.Key()
	dayDate, _ := time.Parse(hours.DateLayout, date)

	err := s.mutate(ctx, key, expected, reconciliation.ChangeDayUpdated, func(ctx context.Context, current reconciliation.ReviewState) (*transition, error) {
		days, err := s.DayRepository.ListDays(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to list reconciliation days: %w", err)
		}
		idx := slices.IndexFunc(days, func(d reconciliation.Day) bool { return d.Date.Equal(dayDate) })
		if idx < 0 {
			return nil, reconciliation.ErrDayNotFound
		}

		patch, err := build(days[idx])
		if err != nil {
			return nil, err
		}
		updated, err := s.DayRepository.UpdateDay(ctx, key, dayDate, patch)
		if err != nil {
			return nil, fmt.Errorf("failed to update reconciliation day: %w", err)
		}
		days[idx] = updated

		t := recompute(current.Status, days)
		return &t, nil
	})
	if err != nil {
		return reconciliation.ReviewResponse{}, err
	}
	return s.GetReview(ctx, params)
}

// mutate serializes fn against every other write to key, rejects confirmed
// keys and stale revisions, persists the resulting status and notifies after commit.
func (s *ReconciliationServiceImpl) mutate(ctx context.Context, key reconciliation.Key, expected *int64, kind reconciliation.ChangeKind, fn mutation) error {
	var before, after reconciliation.ReviewState

	err := s.tx.WithinKey(ctx, key, func(ctx context.Context) error {
		locked, err := s.lock.IsConfirmed(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to check payroll confirmation: %w", err)
		}
		if locked {
			return reconciliation.ErrPayrollLocked
		}

		before, err = s.loadState(ctx, key)
		if err != nil {
			return err
		}
		if expected != nil && *expected != before.Revision {
			return reconciliation.ErrRevisionConflict
		}

		t, err := fn(ctx, before)
		if err != nil {
			return err
		}

		if t == nil {
			after, err = s.ReviewStatusRepository.TouchRevision(ctx, key)
		} else {
			after, err = s.ReviewStatusRepository.SetReviewState(ctx, key, t.status, t.source)
		}
		if err != nil {
			return fmt.Errorf("failed to write review status: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if before.Status != after.Status {
		slog.InfoContext(ctx, "review status changed",
			"key", key.String(),
			"from", before.Status,
			"to", after.Status,
			"source", after.Source,
			"revision", after.Revision,
		)
	}

	s.notifier.Notify(ctx, reconciliation.ChangeEvent{
		Kind:       kind,
		EmployeeID: key.EmployeeID,
		BranchID:   key.BranchID,
		Month:      key.Month,
		Status:     after.Status,
		Revision:   after.Revision,
		At:         time.Now().UTC(),
	})
	return nil
}

func (s *ReconciliationServiceImpl) loadState(ctx context.Context, key reconciliation.Key) (reconciliation.ReviewState, error) {
	state, err := s.ReviewStatusRepository.GetReviewState(ctx, key)
	if errors.Is(err, reconciliation.ErrReviewStateNotFound) {
		return reconciliation.NewReviewState(key), nil
	}
	if err != nil {
		return reconciliation.ReviewState{}, fmt.Errorf("failed to get review status: %w", err)
	}
	return state, nil
}

// branchName returns the live branch name, or "" when the branch is gone.
func (s *ReconciliationServiceImpl) branchName(ctx context.Context, branchID string) (string, error) {
	b, err := s.BranchRepository.GetByID(ctx, branchID)
	if errors.Is(err, branch.ErrBranchNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	return strings.TrimSpace(b.Name), nil
}

func NewReconciliationService(
	tx reconciliation.Transactor,
	dayRepository reconciliation.DayRepository,
	reviewStatusRepository reconciliation.ReviewStatusRepository,
	scheduleRepository schedule.ScheduleRepository,
	branchRepository branch.BranchRepository,
	lock reconciliation.LockChecker,
	notifier reconciliation.Notifier,
) reconciliation.ReconciliationService {
	if notifier == nil {
		notifier = reconciliation.NopNotifier{}
	}
	return &ReconciliationServiceImpl{
		tx:                     tx,
		DayRepository:          dayRepository,
		ReviewStatusRepository: reviewStatusRepository,
		ScheduleRepository:     scheduleRepository,
		BranchRepository:       branchRepository,
		lock:                   lock,
		notifier:               notifier,
	}
}
