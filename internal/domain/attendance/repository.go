package attendance

import (
	"context"
	"time"
)

// AttendanceRepository reads attendance entries for payroll periods.
type AttendanceRepository interface {
	// ListByEmployee returns one employee's entries with start <= work_date <= end
	ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]Entry, error)
}
