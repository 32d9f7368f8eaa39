package attendance

import "errors"

var (
	ErrMalformedTime  = errors.New("malformed clock time")
	ErrOpenClockIn    = errors.New("attendance has no clock-out yet")
	ErrUnknownDayType = errors.New("unknown day type")
	ErrNegativeBreak  = errors.New("break minutes cannot be negative")
	ErrNegativeHours  = errors.New("hours cannot be negative")
)
