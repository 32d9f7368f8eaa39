package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, work_date, time_in, time_out, break_minutes, day_type,
			   manual_overtime_hours, night_differential_hours, remarks, created_at, updated_at
		FROM attendances
		WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY work_date, created_at
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var entries []attendance.Entry
	for rows.Next() {
		var (
			e       attendance.Entry
			timeOut *string
			dayType string
		)
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.WorkDate, &e.TimeIn, &timeOut, &e.BreakMinutes, &dayType,
			&e.ManualOvertimeHours, &e.NightDifferentialHours, &e.Remarks, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		if timeOut != nil {
			e.TimeOut = *timeOut
		}
		// An unrecognised day type is left as the zero DayType so the entry is
		// reported during aggregation instead of failing the whole query.
		if dt, err := attendance.ParseDayType(dayType); err == nil {
			e.DayType = dt
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return entries, nil
}
