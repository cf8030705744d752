package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const dayColumns = `
	employee_id, employee_name, branch_id, branch_name, month, work_date,
	scheduled_hours, scheduled_time_range, raw_actual_hours, actual_time_range,
	break_hours, actual_worked_hours, difference, status, is_modified, updated_at
`

type dayRepositoryImpl struct {
	db *database.DB
}

func NewDayRepository(db *database.DB) reconciliation.DayRepository {
	return &dayRepositoryImpl{db: db}
}

func scanDay(row pgx.Row) (reconciliation.Day, error) {
	var d reconciliation.Day
	err := row.Scan(
		&d.EmployeeID,
		&d.EmployeeName,
		&d.BranchID,
		&d.BranchName,
		&d.Month,
		&d.Date,
		&d.ScheduledHours,
		&d.ScheduledTimeRange,
		&d.RawActualHours,
		&d.ActualTimeRange,
		&d.BreakHours,
		&d.ActualWorkedHours,
		&d.Difference,
		&d.Status,
		&d.IsModified,
		&d.UpdatedAt,
	)
	return d, err
}

// ReplaceDays implements reconciliation.DayRepository.
// Callers run it inside a key transaction so the delete and inserts commit together.
func (r *dayRepositoryImpl) ReplaceDays(ctx context.Context, key reconciliation.Key, days []reconciliation.Day) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `
		DELETE FROM reconciliation_days
		WHERE employee_id = $1 AND branch_id = $2 AND month = $3
	`, key.EmployeeID, key.BranchID, key.Month); err != nil {
		return fmt.Errorf("failed to delete reconciliation days: %w", err)
	}

	query := `
		INSERT INTO reconciliation_days (` + dayColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
	`
	for _, d := range days {
		if _, err := q.Exec(ctx, query,
			key.EmployeeID, d.EmployeeName, key.BranchID, d.BranchName, key.Month, d.Date,
			d.ScheduledHours, d.ScheduledTimeRange, d.RawActualHours, d.ActualTimeRange,
			d.BreakHours, d.ActualWorkedHours, d.Difference, d.Status, d.IsModified,
		); err != nil {
			return fmt.Errorf("failed to insert reconciliation day %s: %w", d.Date.Format("2006-01-02"), err)
		}
	}

	return nil
}

// ListDays implements reconciliation.DayRepository.
func (r *dayRepositoryImpl) ListDays(ctx context.Context, key reconciliation.Key) ([]reconciliation.Day, error) {
	branchID := key.BranchID
	return r.list(ctx, key.EmployeeID, key.Month, &branchID)
}

// ListEmployeeDays implements reconciliation.DayRepository.
func (r *dayRepositoryImpl) ListEmployeeDays(ctx context.Context, employeeID string, month string, branchID *string) ([]reconciliation.Day, error) {
	return r.list(ctx, employeeID, month, branchID)
}

func (r *dayRepositoryImpl) list(ctx context.Context, employeeID string, month string, branchID *string) ([]reconciliation.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dayColumns + `
		FROM reconciliation_days
		WHERE employee_id = $1 AND month = $2
			AND ($3::uuid IS NULL OR branch_id = $3)
		ORDER BY work_date, branch_id
	`

	rows, err := q.Query(ctx, query, employeeID, month, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation days: %w", err)
	}
	defer rows.Close()

	var days []reconciliation.Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation day: %w", err)
		}
		days = append(days, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation days: %w", err)
	}

	return days, nil
}

// UpdateDay implements reconciliation.DayRepository.
func (r *dayRepositoryImpl) UpdateDay(ctx context.Context, key reconciliation.Key, date time.Time, patch reconciliation.DayPatch) (reconciliation.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE reconciliation_days SET
			actual_worked_hours = COALESCE($5::double precision, actual_worked_hours),
			difference = COALESCE($5::double precision, actual_worked_hours) - scheduled_hours,
			status = COALESCE($6::text, status),
			is_modified = COALESCE($7::boolean, is_modified),
			updated_at = NOW()
		WHERE employee_id = $1 AND branch_id = $2 AND month = $3 AND work_date = $4
		RETURNING ` + dayColumns

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	d, err := scanDay(q.QueryRow(ctx, query,
		key.EmployeeID, key.BranchID, key.Month, date,
		patch.ActualWorkedHours, status, patch.IsModified,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reconciliation.Day{}, reconciliation.ErrDayNotFound
		}
		return reconciliation.Day{}, fmt.Errorf("failed to update reconciliation day: %w", err)
	}

	return d, nil
}
