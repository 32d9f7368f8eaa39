package employee

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrInvalidRateBasis  = errors.New("rate basis must be monthly, daily or hourly")
	ErrEmployeeNotActive = errors.New("employee is not active")
)
