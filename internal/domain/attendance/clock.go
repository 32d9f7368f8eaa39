package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/pkg/validator"
)

var clockLayouts = []string{"15:04", "15:04:05"}

// ParseClock converts a zero-padded wall-clock value ("08:30" or "08:30:15")
// into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if !validator.IsValidClock(s) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
}
