package payroll

import "errors"

var (
	ErrPayrollResultNotFound = errors.New("payroll result not found")
	ErrPayrollRunNotFound    = errors.New("payroll run not found")
	ErrInvalidPeriod         = errors.New("invalid payroll period")
	ErrNoEmployees           = errors.New("no active employees to compute")
	ErrInvalidSalary         = errors.New("salary must be a non-negative amount")
)
