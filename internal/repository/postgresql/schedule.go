package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
)

type scheduleRepositoryImpl struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{db: db}
}

// ListSchedules implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) ListSchedules(ctx context.Context, filter schedule.ListFilter) ([]schedule.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, employee_name, branch_id, branch_name, work_date,
			to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), break_hours,
			created_at, updated_at
		FROM schedules
		WHERE employee_id = $1
			AND work_date BETWEEN $2 AND $3
			AND ($4::uuid IS NULL OR branch_id = $4)
		ORDER BY work_date, start_time
	`

	rows, err := q.Query(ctx, query, filter.EmployeeID, filter.From, filter.To, filter.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var entries []schedule.Entry
	for rows.Next() {
		var e schedule.Entry
		if err := rows.Scan(
			&e.ID,
			&e.EmployeeID,
			&e.EmployeeName,
			&e.BranchID,
			&e.BranchName,
			&e.Date,
			&e.StartTime,
			&e.EndTime,
			&e.BreakHours,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}

	return entries, nil
}
