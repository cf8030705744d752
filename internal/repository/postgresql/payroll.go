package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type payrollRepositoryImpl struct {
	db *database.DB
}

// NewPayrollRepository returns the confirmation ledger. It also satisfies
// reconciliation.LockChecker.
func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

var _ reconciliation.LockChecker = (*payrollRepositoryImpl)(nil)

// GetConfirmed implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetConfirmed(ctx context.Context, key reconciliation.Key) (payroll.ConfirmedPayroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, branch_id, month, result, confirmed_at, COALESCE(confirmed_by::text, '')
		FROM confirmed_payrolls
		WHERE employee_id = $1 AND branch_id = $2 AND month = $3
	`

	var (
		c          payroll.ConfirmedPayroll
		resultJSON []byte
	)
	err := q.QueryRow(ctx, query, key.EmployeeID, key.BranchID, key.Month).Scan(
		&c.ID,
		&c.EmployeeID,
		&c.BranchID,
		&c.Month,
		&resultJSON,
		&c.ConfirmedAt,
		&c.ConfirmedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ConfirmedPayroll{}, payroll.ErrConfirmedPayrollNotFound
		}
		return payroll.ConfirmedPayroll{}, fmt.Errorf("failed to get confirmed payroll: %w", err)
	}

	if err := json.Unmarshal(resultJSON, &c.Result); err != nil {
		return payroll.ConfirmedPayroll{}, fmt.Errorf("failed to decode payroll snapshot: %w", err)
	}

	return c, nil
}

// CreateConfirmed implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CreateConfirmed(ctx context.Context, c payroll.ConfirmedPayroll) (payroll.ConfirmedPayroll, error) {
	q := GetQuerier(ctx, r.db)

	resultJSON, err := json.Marshal(c.Result)
	if err != nil {
		return payroll.ConfirmedPayroll{}, fmt.Errorf("failed to encode payroll snapshot: %w", err)
	}

	query := `
		INSERT INTO confirmed_payrolls (id, employee_id, branch_id, month, result, gross_pay, net_pay, confirmed_at, confirmed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid)
		RETURNING confirmed_at
	`

	err = q.QueryRow(ctx, query,
		c.ID, c.EmployeeID, c.BranchID, c.Month, resultJSON,
		c.Result.GrossPay, c.Result.NetPay, c.ConfirmedAt, c.ConfirmedBy,
	).Scan(&c.ConfirmedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return payroll.ConfirmedPayroll{}, payroll.ErrPayrollAlreadyConfirmed
		}
		return payroll.ConfirmedPayroll{}, fmt.Errorf("failed to create confirmed payroll: %w", err)
	}

	return c, nil
}

// DeleteConfirmed implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) DeleteConfirmed(ctx context.Context, key reconciliation.Key) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		DELETE FROM confirmed_payrolls
		WHERE employee_id = $1 AND branch_id = $2 AND month = $3
	`, key.EmployeeID, key.BranchID, key.Month)
	if err != nil {
		return fmt.Errorf("failed to delete confirmed payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrConfirmedPayrollNotFound
	}

	return nil
}

// IsConfirmed implements payroll.PayrollRepository and reconciliation.LockChecker.
func (r *payrollRepositoryImpl) IsConfirmed(ctx context.Context, key reconciliation.Key) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM confirmed_payrolls
			WHERE employee_id = $1 AND branch_id = $2 AND month = $3
		)
	`, key.EmployeeID, key.BranchID, key.Month).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check confirmed payroll: %w", err)
	}

	return exists, nil
}
