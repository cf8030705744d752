package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	tx reconciliation.Transactor
	payroll.PayrollRepository
	dayRepo      reconciliation.DayRepository
	reviewRepo   reconciliation.ReviewStatusRepository
	employeeRepo employee.EmployeeRepository
	branchRepo   branch.BranchRepository
	calculator   *Calculator
	notifier     reconciliation.Notifier
}

func NewPayrollService(
	tx reconciliation.Transactor,
	payrollRepo payroll.PayrollRepository,
	dayRepo reconciliation.DayRepository,
	reviewRepo reconciliation.ReviewStatusRepository,
	employeeRepo employee.EmployeeRepository,
	branchRepo branch.BranchRepository,
	notifier reconciliation.Notifier,
) payroll.PayrollService {
	if notifier == nil {
		notifier = reconciliation.NopNotifier{}
	}
	return &PayrollServiceImpl{
		tx:                tx,
		PayrollRepository: payrollRepo,
		dayRepo:           dayRepo,
		reviewRepo:        reviewRepo,
		employeeRepo:      employeeRepo,
		branchRepo:        branchRepo,
		calculator:        NewCalculator(),
		notifier:          notifier,
	}
}

// Helper to get user_id from JWT context. Missing claims are not an error here.
func userIDFromContext(ctx context.Context) string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return ""
	}
	userID, _ := claims["user_id"].(string)
	return userID
}

// Calculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculateRequest) (payroll.CalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculationResponse{}, err
	}

	result, err := s.calculate(ctx, req)
	if err != nil {
		return payroll.CalculationResponse{}, err
	}
	return payroll.NewCalculationResponse(result), nil
}

// calculate fetches days and contract concurrently and runs the calculator.
// Days are always read across branches; req.BranchID only scopes the result.
// It must not run inside a key transaction: a pgx.Tx cannot serve parallel queries.
func (s *PayrollServiceImpl) calculate(ctx context.Context, req payroll.CalculateRequest) (payroll.CalculationResult, error) {
	var (
		days []reconciliation.Day
		cfg  employee.CompensationConfig
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		days, err = s.dayRepo.ListEmployeeDays(gctx, req.EmployeeID, req.Month, nil)
		if err != nil {
			return fmt.Errorf("failed to list reconciliation days: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cfg, err = s.employeeRepo.GetCompensationConfig(gctx, req.EmployeeID, req.Month)
		if errors.Is(err, employee.ErrCompensationNotFound) {
			slog.WarnContext(gctx, "no compensation config, calculating with zero wage",
				"employee_id", req.EmployeeID,
				"month", req.Month,
			)
			cfg = employee.ZeroConfig(req.EmployeeID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get compensation config: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return payroll.CalculationResult{}, err
	}

	ids := make([]string, 0, 1)
	for _, d := range days {
		if !slices.Contains(ids, d.BranchID) {
			ids = append(ids, d.BranchID)
		}
	}
	names := map[string]string{}
	if len(ids) > 0 {
		var err error
		names, err = s.branchRepo.GetNames(ctx, ids)
		if err != nil {
			return payroll.CalculationResult{}, fmt.Errorf("failed to get branch names: %w", err)
		}
	}

	return s.calculator.Calculate(payroll.CalculationInput{
		EmployeeID:      req.EmployeeID,
		Month:           req.Month,
		Days:            days,
		Config:          cfg,
		UnpaidLeaveDays: req.UnpaidLeaveDays,
		CarryoverHours:  req.CarryoverHours,
		BranchNames:     names,
		BranchID:        req.BranchID,
	}), nil
}

// GetConfirmed implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetConfirmed(ctx context.Context, req payroll.KeyRequest) (payroll.ConfirmedPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ConfirmedPayrollResponse{}, err
	}
	confirmed, err := s.PayrollRepository.GetConfirmed(ctx, req.Key())
	if err != nil {
		return payroll.ConfirmedPayrollResponse{}, err
	}
	return payroll.NewConfirmedPayrollResponse(confirmed), nil
}

// Confirm implements payroll.PayrollService.
func (s *PayrollServiceImpl) Confirm(ctx context.Context, req payroll.ConfirmRequest) (payroll.ConfirmedPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ConfirmedPayrollResponse{}, err
	}
	key := req.Key()

	// The result is computed before taking the key lock; the revision read here
	// must still be current inside the lock or the days changed underneath us.
	seen, err := s.reviewState(ctx, key)
	if err != nil {
		return payroll.ConfirmedPayrollResponse{}, err
	}
	if req.ExpectedRevision != nil && *req.ExpectedRevision != seen.Revision {
		return payroll.ConfirmedPayrollResponse{}, reconciliation.ErrRevisionConflict
	}

	branchID := key.BranchID
	result, err := s.calculate(ctx, payroll.CalculateRequest{
		EmployeeID:      key.EmployeeID,
		BranchID:        &branchID,
		Month:           key.Month,
		UnpaidLeaveDays: req.UnpaidLeaveDays,
		CarryoverHours:  req.CarryoverHours,
	})
	if err != nil {
		return payroll.ConfirmedPayrollResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.ConfirmedPayrollResponse{}, fmt.Errorf("failed to generate payroll id: %w", err)
	}

	var (
		created payroll.ConfirmedPayroll
		state   reconciliation.ReviewState
	)
	err = s.tx.WithinKey(ctx, key, func(ctx context.Context) error {
		exists, err := s.PayrollRepository.IsConfirmed(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to check payroll confirmation: %w", err)
		}
		if exists {
			return payroll.ErrPayrollAlreadyConfirmed
		}

		current, err := s.reviewState(ctx, key)
		if err != nil {
			return err
		}
		if current.Status != reconciliation.ReviewStatusReviewComplete {
			return payroll.ErrReviewNotComplete
		}
		if current.Revision != seen.Revision {
			return reconciliation.ErrRevisionConflict
		}

		created, err = s.PayrollRepository.CreateConfirmed(ctx, payroll.ConfirmedPayroll{
			ID:          id.String(),
			EmployeeID:  key.EmployeeID,
			BranchID:    key.BranchID,
			Month:       key.Month,
			Result:      result,
			ConfirmedAt: time.Now().UTC(),
			ConfirmedBy: userIDFromContext(ctx),
		})
		if err != nil {
			return fmt.Errorf("failed to create confirmed payroll: %w", err)
		}

		state, err = s.reviewRepo.SetReviewState(ctx, key, reconciliation.ReviewStatusConfirmed, reconciliation.StatusSourceLedger)
		if err != nil {
			return fmt.Errorf("failed to write review status: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.ConfirmedPayrollResponse{}, err
	}

	slog.InfoContext(ctx, "payroll confirmed",
		"key", key.String(),
		"payroll_id", created.ID,
		"gross_pay", created.Result.GrossPay.String(),
		"net_pay", created.Result.NetPay.String(),
	)
	s.notify(ctx, reconciliation.ChangePayrollConfirmed, state)

	return payroll.NewConfirmedPayrollResponse(created), nil
}

// Unconfirm implements payroll.PayrollService.
func (s *PayrollServiceImpl) Unconfirm(ctx context.Context, req payroll.KeyRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	key := req.Key()

	var state reconciliation.ReviewState
	err := s.tx.WithinKey(ctx, key, func(ctx context.Context) error {
		if err := s.PayrollRepository.DeleteConfirmed(ctx, key); err != nil {
			return err
		}
		// only the payroll lock is undone, not the review work
		var err error
		state, err = s.reviewRepo.SetReviewState(ctx, key, reconciliation.ReviewStatusReviewComplete, reconciliation.StatusSourceLedger)
		if err != nil {
			return fmt.Errorf("failed to write review status: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "payroll unconfirmed", "key", key.String())
	s.notify(ctx, reconciliation.ChangePayrollUnconfirmed, state)
	return nil
}

func (s *PayrollServiceImpl) reviewState(ctx context.Context, key reconciliation.Key) (reconciliation.ReviewState, error) {
	state, err := s.reviewRepo.GetReviewState(ctx, key)
	if errors.Is(err, reconciliation.ErrReviewStateNotFound) {
		return reconciliation.NewReviewState(key), nil
	}
	if err != nil {
		return reconciliation.ReviewState{}, fmt.Errorf("failed to get review status: %w", err)
	}
	return state, nil
}

func (s *PayrollServiceImpl) notify(ctx context.Context, kind reconciliation.ChangeKind, state reconciliation.ReviewState) {
	s.notifier.Notify(ctx, reconciliation.ChangeEvent{
		Kind:       kind,
		EmployeeID: state.Key.EmployeeID,
		BranchID:   state.Key.BranchID,
		Month:      state.Key.Month,
		Status:     state.Status,
		Revision:   state.Revision,
		At:         time.Now().UTC(),
	})
}
