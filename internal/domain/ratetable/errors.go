package ratetable

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRateTableMissing    = errors.New("no rate table in effect")
	ErrInvalidKind         = errors.New("invalid rate table kind")
	ErrOverlappingBrackets = errors.New("rate table brackets overlap")
	ErrNegativeAmount      = errors.New("rate table bracket has a negative amount")
	ErrInvalidRange        = errors.New("rate table bracket range is invalid")
	ErrEmptyRateTables     = errors.New("no rate table brackets loaded")
)

// MissingTableError reports that no version of a table is effective on AsOf.
// It is a configuration problem, not a problem with a particular employee.
type MissingTableError struct {
	Kind Kind
	AsOf time.Time
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("no %s rate table effective on %s", e.Kind, e.AsOf.Format("2006-01-02"))
}

func (e *MissingTableError) Is(target error) bool {
	return target == ErrRateTableMissing
}
