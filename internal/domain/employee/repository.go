package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetActive returns active employees; an empty ids slice means all of them
	GetActive(ctx context.Context, ids []string) ([]Employee, error)
}
