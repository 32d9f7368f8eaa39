package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, employee_code, full_name, employment_type, employment_status,
	rate_basis, hourly_rate, daily_rate, base_monthly_salary,
	hire_date, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var rateBasis *string
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.FullName, &e.EmploymentType, &e.EmploymentStatus,
		&rateBasis, &e.HourlyRate, &e.DailyRate, &e.BaseMonthlySalary,
		&e.HireDate, &e.CreatedAt, &e.UpdatedAt,
	)
	if rateBasis != nil {
		e.RateBasis = employee.RateBasis(*rateBasis)
	}
	return e, err
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) GetActive(ctx context.Context, ids []string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employment_status = 'active'`
	var args []interface{}
	if len(ids) > 0 {
		query += ` AND id = ANY($1::uuid[])`
		args = append(args, ids)
	}
	query += ` ORDER BY employee_code`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}
