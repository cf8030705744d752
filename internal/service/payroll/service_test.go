package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = reconciliation.Key{EmployeeID: "emp-1", BranchID: "br-1", Month: "2025-09"}

type fakeTransactor struct{}

func (fakeTransactor) WithinKey(ctx context.Context, key reconciliation.Key, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePayrollRepository struct {
	ledger   map[reconciliation.Key]payroll.ConfirmedPayroll
	createFn func(ctx context.Context, c payroll.ConfirmedPayroll) (payroll.ConfirmedPayroll, error)
}

func (f *fakePayrollRepository) GetConfirmed(ctx context.Context, key reconciliation.Key) (payroll.ConfirmedPayroll, error) {
	c, ok := f.ledger[key]
	if !ok {
		return payroll.ConfirmedPayroll{}, payroll.ErrConfirmedPayrollNotFound
	}
	return c, nil
}

func (f *fakePayrollRepository) CreateConfirmed(ctx context.Context, c payroll.ConfirmedPayroll) (payroll.ConfirmedPayroll, error) {
	if f.createFn != nil {
		return f.createFn(ctx, c)
	}
	f.ledger[c.Key()] = c
	return c, nil
}

func (f *fakePayrollRepository) DeleteConfirmed(ctx context.Context, key reconciliation.Key) error {
	if _, ok := f.ledger[key]; !ok {
		return payroll.ErrConfirmedPayrollNotFound
	}
	delete(f.ledger, key)
	return nil
}

func (f *fakePayrollRepository) IsConfirmed(ctx context.Context, key reconciliation.Key) (bool, error) {
	_, ok := f.ledger[key]
	return ok, nil
}

type fakeDayRepository struct {
	listEmployeeDaysFn func(ctx context.Context, employeeID string, month string, branchID *string) ([]reconciliation.Day, error)
}

func (f *fakeDayRepository) ReplaceDays(ctx context.Context, key reconciliation.Key, days []reconciliation.Day) error {
	return nil
}

func (f *fakeDayRepository) ListDays(ctx context.Context, key reconciliation.Key) ([]reconciliation.Day, error) {
	return nil, nil
}

func (f *fakeDayRepository) ListEmployeeDays(ctx context.Context, employeeID string, month string, branchID *string) ([]reconciliation.Day, error) {
	if f.listEmployeeDaysFn != nil {
		return f.listEmployeeDaysFn(ctx, employeeID, month, branchID)
	}
	return nil, nil
}

func (f *fakeDayRepository) UpdateDay(ctx context.Context, key reconciliation.Key, date time.Time, patch reconciliation.DayPatch) (reconciliation.Day, error) {
	return reconciliation.Day{}, nil
}

type fakeReviewRepository struct {
	states map[reconciliation.Key]reconciliation.ReviewState
}

func (f *fakeReviewRepository) GetReviewState(ctx context.Context, key reconciliation.Key) (reconciliation.ReviewState, error) {
	s, ok := f.states[key]
	if !ok {
		return reconciliation.ReviewState{}, reconciliation.ErrReviewStateNotFound
	}
	return s, nil
}

func (f *fakeReviewRepository) SetReviewState(ctx context.Context, key reconciliation.Key, status reconciliation.ReviewStatus, source reconciliation.StatusSource) (reconciliation.ReviewState, error) {
	s, ok := f.states[key]
	if !ok {
		s = reconciliation.NewReviewState(key)
	}
	s.Status, s.Source = status, source
	s.Revision++
	f.states[key] = s
	return s, nil
}

func (f *fakeReviewRepository) TouchRevision(ctx context.Context, key reconciliation.Key) (reconciliation.ReviewState, error) {
	s := f.states[key]
	s.Revision++
	f.states[key] = s
	return s, nil
}

type fakeEmployeeRepository struct {
	getCompensationConfigFn func(ctx context.Context, employeeID string, asOfMonth string) (employee.CompensationConfig, error)
}

func (f *fakeEmployeeRepository) GetCompensationConfig(ctx context.Context, employeeID string, asOfMonth string) (employee.CompensationConfig, error) {
	if f.getCompensationConfigFn != nil {
		return f.getCompensationConfigFn(ctx, employeeID, asOfMonth)
	}
	return employee.CompensationConfig{}, employee.ErrCompensationNotFound
}

type fakeBranchRepository struct{}

func (fakeBranchRepository) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	return branch.Branch{ID: id, Name: "Gangnam"}, nil
}

func (fakeBranchRepository) GetNames(ctx context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		out[id] = "Gangnam"
	}
	return out, nil
}

type fixture struct {
	ledger  *fakePayrollRepository
	days    *fakeDayRepository
	reviews *fakeReviewRepository
	emps    *fakeEmployeeRepository
	events  []reconciliation.ChangeEvent
	svc     payroll.PayrollService
}

func (f *fixture) Notify(ctx context.Context, event reconciliation.ChangeEvent) {
	f.events = append(f.events, event)
}

func newFixture() *fixture {
	f := &fixture{
		ledger:  &fakePayrollRepository{ledger: map[reconciliation.Key]payroll.ConfirmedPayroll{}},
		days:    &fakeDayRepository{},
		reviews: &fakeReviewRepository{states: map[reconciliation.Key]reconciliation.ReviewState{}},
		emps:    &fakeEmployeeRepository{},
	}
	f.days.listEmployeeDaysFn = func(ctx context.Context, employeeID string, month string, branchID *string) ([]reconciliation.Day, error) {
		return []reconciliation.Day{worked("2025-09-01", 7)}, nil
	}
	f.emps.getCompensationConfigFn = func(ctx context.Context, employeeID string, asOfMonth string) (employee.CompensationConfig, error) {
		return hourlyConfig(12_000), nil
	}
	f.svc = NewPayrollService(fakeTransactor{}, f.ledger, f.days, f.reviews, f.emps, fakeBranchRepository{}, f)
	return f
}

func confirmReq() payroll.ConfirmRequest {
	return payroll.ConfirmRequest{KeyParams: reconciliation.KeyParams{EmployeeID: "emp-1", BranchID: "br-1", Month: "2025-09"}}
}

func keyReq() payroll.KeyRequest {
	return payroll.KeyRequest{KeyParams: reconciliation.KeyParams{EmployeeID: "emp-1", BranchID: "br-1", Month: "2025-09"}}
}

func TestCalculate_AllBranchesAndMissingConfig(t *testing.T) {
	f := newFixture()
	var gotBranch *string
	f.days.listEmployeeDaysFn = func(ctx context.Context, employeeID string, month string, branchID *string) ([]reconciliation.Day, error) {
		gotBranch = branchID
		return []reconciliation.Day{worked("2025-09-01", 7)}, nil
	}
	f.emps.getCompensationConfigFn = nil

	resp, err := f.svc.Calculate(context.Background(), payroll.CalculateRequest{EmployeeID: "emp-1", Month: "2025-09"})

	require.NoError(t, err)
	assert.Nil(t, gotBranch)
	assertMoney(t, 0, resp.GrossPay)
	assert.Equal(t, "7:00", resp.ActualWorkDisplay)
	require.Len(t, resp.Branches, 1)
	assert.Equal(t, "Gangnam", resp.Branches[0].BranchName)
}

func TestCalculate_RepositoryError(t *testing.T) {
	f := newFixture()
	f.emps.getCompensationConfigFn = func(ctx context.Context, employeeID string, asOfMonth string) (employee.CompensationConfig, error) {
		return employee.CompensationConfig{}, errors.New("db down")
	}

	_, err := f.svc.Calculate(context.Background(), payroll.CalculateRequest{EmployeeID: "emp-1", Month: "2025-09"})
	assert.Error(t, err)
}

func TestCalculate_Validation(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Calculate(context.Background(), payroll.CalculateRequest{EmployeeID: "", Month: "2025-13"})
	assert.Error(t, err)
}

func TestConfirm_RequiresReviewComplete(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Confirm(context.Background(), confirmReq())
	assert.ErrorIs(t, err, payroll.ErrReviewNotComplete)

	f.reviews.states[testKey] = reconciliation.ReviewState{Key: testKey, Status: reconciliation.ReviewStatusInReview, Revision: 3}
	_, err = f.svc.Confirm(context.Background(), confirmReq())
	assert.ErrorIs(t, err, payroll.ErrReviewNotComplete)
	assert.Empty(t, f.ledger.ledger)
}

func TestConfirmAndUnconfirm(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.reviews.states[testKey] = reconciliation.ReviewState{Key: testKey, Status: reconciliation.ReviewStatusReviewComplete, Revision: 3}

	resp, err := f.svc.Confirm(ctx, confirmReq())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assertMoney(t, 84_000, resp.Result.GrossPay)
	assertMoney(t, 76_100, resp.Result.NetPay)
	assert.Equal(t, reconciliation.ReviewStatusConfirmed, f.reviews.states[testKey].Status)
	assert.Equal(t, reconciliation.StatusSourceLedger, f.reviews.states[testKey].Source)

	_, err = f.svc.Confirm(ctx, confirmReq())
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyConfirmed)

	got, err := f.svc.GetConfirmed(ctx, keyReq())
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)

	require.NoError(t, f.svc.Unconfirm(ctx, keyReq()))
	assert.Equal(t, reconciliation.ReviewStatusReviewComplete, f.reviews.states[testKey].Status)
	assert.Empty(t, f.ledger.ledger)

	err = f.svc.Unconfirm(ctx, keyReq())
	assert.ErrorIs(t, err, payroll.ErrConfirmedPayrollNotFound)

	_, err = f.svc.GetConfirmed(ctx, keyReq())
	assert.ErrorIs(t, err, payroll.ErrConfirmedPayrollNotFound)

	require.Len(t, f.events, 2)
	assert.Equal(t, reconciliation.ChangePayrollConfirmed, f.events[0].Kind)
	assert.Equal(t, reconciliation.ChangePayrollUnconfirmed, f.events[1].Kind)
	assert.Equal(t, reconciliation.ReviewStatusReviewComplete, f.events[1].Status)
}

func TestConfirm_ExpectedRevision(t *testing.T) {
	f := newFixture()
	f.reviews.states[testKey] = reconciliation.ReviewState{Key: testKey, Status: reconciliation.ReviewStatusReviewComplete, Revision: 3}

	req := confirmReq()
	stale := int64(2)
	req.ExpectedRevision = &stale

	_, err := f.svc.Confirm(context.Background(), req)
	assert.ErrorIs(t, err, reconciliation.ErrRevisionConflict)
}

func TestConfirm_LedgerWriteFails(t *testing.T) {
	f := newFixture()
	f.reviews.states[testKey] = reconciliation.ReviewState{Key: testKey, Status: reconciliation.ReviewStatusReviewComplete, Revision: 3}
	f.ledger.createFn = func(ctx context.Context, c payroll.ConfirmedPayroll) (payroll.ConfirmedPayroll, error) {
		return payroll.ConfirmedPayroll{}, errors.New("insert failed")
	}

	_, err := f.svc.Confirm(context.Background(), confirmReq())

	require.Error(t, err)
	assert.Equal(t, reconciliation.ReviewStatusReviewComplete, f.reviews.states[testKey].Status)
	assert.Empty(t, f.events)
}

func TestConfirm_ReadsEveryBranch(t *testing.T) {
	f := newFixture()
	f.reviews.states[testKey] = reconciliation.ReviewState{Key: testKey, Status: reconciliation.ReviewStatusReviewComplete, Revision: 3}
	other := worked("2025-09-02", 8)
	other.BranchID = "br-2"
	var gotBranch *string
	f.days.listEmployeeDaysFn = func(ctx context.Context, employeeID string, month string, branchID *string) ([]reconciliation.Day, error) {
		gotBranch = branchID
		return []reconciliation.Day{worked("2025-09-01", 7), other}, nil
	}

	resp, err := f.svc.Confirm(context.Background(), confirmReq())

	require.NoError(t, err)
	assert.Nil(t, gotBranch)
	assert.InDelta(t, 7.0, resp.Result.ActualWorkHours, 1e-9)
	assertMoney(t, 84_000, resp.Result.BasePay)
	require.Len(t, resp.Result.Branches, 1)
	assert.Equal(t, "br-1", resp.Result.Branches[0].BranchID)
}
