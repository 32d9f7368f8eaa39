package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/ratetable"
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Rate table errors
	case errors.Is(err, ratetable.ErrRateTableMissing):
		ServiceUnavailable(w, "RATE_TABLE_MISSING", err.Error())
	case errors.Is(err, ratetable.ErrInvalidKind):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNotActive):
		UnprocessableEntity(w, "Employee is not active")
	case errors.Is(err, employee.ErrInvalidRateBasis):
		UnprocessableEntity(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrPayrollResultNotFound):
		NotFound(w, "Payroll result not found")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrInvalidSalary):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrNoEmployees):
		UnprocessableEntity(w, "No active employees to compute")

	// Attendance errors that escape aggregation
	case errors.Is(err, attendance.ErrUnknownDayType):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
