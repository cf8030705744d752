package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetCompensationConfig implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetCompensationConfig(ctx context.Context, employeeID string, asOfMonth string) (employee.CompensationConfig, error) {
	_, monthEnd, ok := validator.MonthBounds(asOfMonth)
	if !ok {
		return employee.CompensationConfig{}, fmt.Errorf("invalid month %q", asOfMonth)
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.name, c.id, c.category, c.salary_type,
			c.hourly_wage, c.monthly_salary, c.probation_start, c.probation_end,
			c.weekly_holiday_included, c.weekly_workdays, c.start_date, c.end_date
		FROM employment_contracts c
		JOIN employees e ON e.id = c.employee_id
		WHERE c.employee_id = $1
			AND c.start_date <= $2
			AND e.deleted_at IS NULL
		ORDER BY c.start_date DESC, c.created_at DESC
		LIMIT 1
	`

	var cfg employee.CompensationConfig
	err := q.QueryRow(ctx, query, employeeID, monthEnd).Scan(
		&cfg.EmployeeID,
		&cfg.EmployeeName,
		&cfg.ContractID,
		&cfg.Category,
		&cfg.SalaryType,
		&cfg.HourlyWage,
		&cfg.MonthlySalary,
		&cfg.ProbationStart,
		&cfg.ProbationEnd,
		&cfg.WeeklyHolidayIncluded,
		&cfg.WeeklyWorkdays,
		&cfg.ContractStart,
		&cfg.ContractEnd,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.CompensationConfig{}, employee.ErrCompensationNotFound
		}
		return employee.CompensationConfig{}, fmt.Errorf("failed to get compensation config: %w", err)
	}

	return cfg, nil
}
