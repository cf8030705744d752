package employee

import "context"

type EmployeeRepository interface {
	// GetCompensationConfig resolves the most recent contract that started on
	// or before the end of asOfMonth ("YYYY-MM").
	GetCompensationConfig(ctx context.Context, employeeID string, asOfMonth string) (CompensationConfig, error)
}
