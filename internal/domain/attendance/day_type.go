package attendance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DayType classifies a work date for pay multipliers. The zero value is not a
// valid day type so an unset field cannot pass for a regular day.
type DayType int

const (
	DayTypeRegular DayType = iota + 1
	DayTypeRestDay
	DayTypeRegularHoliday
	DayTypeSpecialHoliday
	DayTypeDoubleHoliday
	DayTypeRestDayHoliday
)

// DayTypes lists every valid day type.
var DayTypes = []DayType{
	DayTypeRegular,
	DayTypeRestDay,
	DayTypeRegularHoliday,
	DayTypeSpecialHoliday,
	DayTypeDoubleHoliday,
	DayTypeRestDayHoliday,
}

func (d DayType) String() string {
	switch d {
	case DayTypeRegular:
		return "Regular"
	case DayTypeRestDay:
		return "RestDay"
	case DayTypeRegularHoliday:
		return "RegularHoliday"
	case DayTypeSpecialHoliday:
		return "SpecialHoliday"
	case DayTypeDoubleHoliday:
		return "DoubleHoliday"
	case DayTypeRestDayHoliday:
		return "RestDayHoliday"
	}
	return fmt.Sprintf("DayType(%d)", int(d))
}

// ParseDayType accepts the canonical names ("RestDay") and their snake_case
// forms ("rest_day"), case-insensitively.
func ParseDayType(s string) (DayType, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	for _, d := range DayTypes {
		if strings.ToLower(d.String()) == key {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDayType, s)
}

func (d DayType) Valid() bool {
	_, ok := d.OvertimeMultiplier()
	return ok
}

func (d DayType) IsHoliday() bool {
	switch d {
	case DayTypeRegularHoliday, DayTypeSpecialHoliday, DayTypeDoubleHoliday, DayTypeRestDayHoliday:
		return true
	}
	return false
}

// OvertimeMultiplier is the factor applied to the hourly rate for each manual
// overtime hour. ok is false for an unknown day type.
func (d DayType) OvertimeMultiplier() (m decimal.Decimal, ok bool) {
	switch d {
	case DayTypeRegular:
		return decimal.RequireFromString("1.25"), true
	case DayTypeRestDay:
		return decimal.RequireFromString("1.30"), true
	case DayTypeRegularHoliday:
		return decimal.RequireFromString("2.00"), true
	case DayTypeSpecialHoliday:
		return decimal.RequireFromString("1.30"), true
	case DayTypeDoubleHoliday:
		return decimal.RequireFromString("3.00"), true
	case DayTypeRestDayHoliday:
		return decimal.RequireFromString("2.60"), true
	}
	return decimal.Zero, false
}

// HolidayMultiplier is the premium, as a fraction of the daily rate, paid on
// top of regular pay for the day. Non-holidays have a zero premium.
func (d DayType) HolidayMultiplier() (m decimal.Decimal, ok bool) {
	switch d {
	case DayTypeRegular, DayTypeRestDay:
		return decimal.Zero, true
	case DayTypeRegularHoliday:
		return decimal.RequireFromString("1.00"), true
	case DayTypeSpecialHoliday:
		return decimal.RequireFromString("0.30"), true
	case DayTypeDoubleHoliday:
		return decimal.RequireFromString("2.00"), true
	case DayTypeRestDayHoliday:
		return decimal.RequireFromString("1.30"), true
	}
	return decimal.Zero, false
}

func (d DayType) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDayType, int(d))
	}
	return []byte(d.String()), nil
}

func (d *DayType) UnmarshalText(text []byte) error {
	parsed, err := ParseDayType(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
