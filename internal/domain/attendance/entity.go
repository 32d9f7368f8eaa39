package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one employee's attendance for one work date. TimeIn and TimeOut
// are wall-clock values ("15:04" or "15:04:05"); an empty TimeOut means the
// employee has clocked in but not yet out.
type Entry struct {
	ID           string
	EmployeeID   string
	WorkDate     time.Time
	TimeIn       string
	TimeOut      string
	BreakMinutes int
	DayType      DayType

	// ManualOvertimeHours is operator-entered and is the only source of
	// overtime; hours beyond eight are never promoted to overtime.
	ManualOvertimeHours decimal.Decimal

	// NightDifferentialHours overrides the 22:00-06:00 overlap derived from
	// the clock window when valid.
	NightDifferentialHours decimal.NullDecimal

	Remarks   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	nightStart = 22 * time.Hour
	nightEnd   = 6 * time.Hour
	day        = 24 * time.Hour
)

var (
	secondsPerHour = decimal.NewFromInt(3600)
	minutesPerHour = decimal.NewFromInt(60)
)

// IsOpen reports whether the entry has no clock-out yet.
func (e Entry) IsOpen() bool {
	return e.TimeOut == ""
}

// Window returns clock-in and clock-out as offsets from midnight of the work
// date. A clock-out at or before the clock-in rolls over to the next day.
func (e Entry) Window() (in, out time.Duration, err error) {
	in, err = ParseClock(e.TimeIn)
	if err != nil {
		return 0, 0, err
	}
	if e.IsOpen() {
		return 0, 0, ErrOpenClockIn
	}
	out, err = ParseClock(e.TimeOut)
	if err != nil {
		return 0, 0, err
	}
	if out <= in {
		out += day
	}
	return in, out, nil
}

// HoursWorked is the clock window less the break, never below zero.
func (e Entry) HoursWorked() (decimal.Decimal, error) {
	if e.BreakMinutes < 0 {
		return decimal.Zero, ErrNegativeBreak
	}
	in, out, err := e.Window()
	if err != nil {
		return decimal.Zero, err
	}

	hours := durationHours(out - in).Sub(decimal.NewFromInt(int64(e.BreakMinutes)).Div(minutesPerHour))
	if hours.IsNegative() {
		return decimal.Zero, nil
	}
	return hours, nil
}

// NightHours returns the night-differential hours of the entry: the supplied
// override when present, otherwise the overlap of the clock window with
// 22:00-06:00 capped at the hours worked.
func (e Entry) NightHours() (decimal.Decimal, error) {
	worked, err := e.HoursWorked()
	if err != nil {
		return decimal.Zero, err
	}
	if e.NightDifferentialHours.Valid {
		if e.NightDifferentialHours.Decimal.IsNegative() {
			return decimal.Zero, ErrNegativeHours
		}
		return e.NightDifferentialHours.Decimal, nil
	}

	in, out, _ := e.Window()
	var overlap time.Duration
	// the window lies within [0, 48h); these are the night spans that can touch it
	for _, span := range [][2]time.Duration{
		{0, nightEnd},
		{nightStart, day + nightEnd},
		{day + nightStart, 2 * day},
	} {
		overlap += intersect(in, out, span[0], span[1])
	}

	night := durationHours(overlap)
	if night.GreaterThan(worked) {
		return worked, nil
	}
	return night, nil
}

func intersect(aStart, aEnd, bStart, bEnd time.Duration) time.Duration {
	start, end := max(aStart, bStart), min(aEnd, bEnd)
	if end <= start {
		return 0
	}
	return end - start
}

func durationHours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(secondsPerHour)
}
