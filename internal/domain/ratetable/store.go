package ratetable

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Store is an immutable snapshot of every loaded rate table. It is built once
// at start-up and shared read-only, so lookups need no locking.
type Store struct {
	versions map[Kind][]Version
}

// NewStore groups brackets into versions by kind and effective date and
// validates each version.
func NewStore(brackets []Bracket) (*Store, error) {
	if len(brackets) == 0 {
		return nil, ErrEmptyRateTables
	}

	grouped := make(map[Kind]map[time.Time][]Bracket)
	for _, b := range brackets {
		if _, err := ParseKind(string(b.Kind)); err != nil {
			return nil, err
		}
		if err := checkAmounts(b); err != nil {
			return nil, err
		}
		day := dateOnly(b.EffectiveDate)
		b.EffectiveDate = day
		if grouped[b.Kind] == nil {
			grouped[b.Kind] = make(map[time.Time][]Bracket)
		}
		grouped[b.Kind][day] = append(grouped[b.Kind][day], b)
	}

	s := &Store{versions: make(map[Kind][]Version, len(grouped))}
	for kind, byDate := range grouped {
		versions := make([]Version, 0, len(byDate))
		for day, rows := range byDate {
			sort.SliceStable(rows, func(i, j int) bool {
				return rows[i].RangeStart.LessThan(rows[j].RangeStart)
			})
			if err := checkOverlap(kind, day, rows); err != nil {
				return nil, err
			}
			versions = append(versions, Version{Kind: kind, EffectiveDate: day, Brackets: rows})
		}
		sort.Slice(versions, func(i, j int) bool {
			return versions[i].EffectiveDate.Before(versions[j].EffectiveDate)
		})
		s.versions[kind] = versions
	}

	return s, nil
}

// Active returns the version of kind with the latest effective date on or
// before asOf.
func (s *Store) Active(kind Kind, asOf time.Time) (Version, error) {
	day := dateOnly(asOf)
	versions := s.versions[kind]
	for i := len(versions) - 1; i >= 0; i-- {
		if !versions[i].EffectiveDate.After(day) {
			return versions[i], nil
		}
	}
	return Version{}, &MissingTableError{Kind: kind, AsOf: day}
}

// Lookup selects the active version for asOf, then the bracket whose range
// holds value. Values below the first bracket resolve to the first bracket
// and values past the last resolve to the last one.
func (s *Store) Lookup(kind Kind, value decimal.Decimal, asOf time.Time) (Bracket, error) {
	version, err := s.Active(kind, asOf)
	if err != nil {
		return Bracket{}, err
	}

	rows := version.Brackets
	idx := sort.Search(len(rows), func(i int) bool {
		return rows[i].RangeStart.GreaterThan(value)
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return rows[idx], nil
}

// Versions returns every loaded version of kind, oldest first.
func (s *Store) Versions(kind Kind) []Version {
	return append([]Version(nil), s.versions[kind]...)
}

// CheckCoverage reports every kind that has no version effective on asOf.
func (s *Store) CheckCoverage(asOf time.Time) error {
	var errs []error
	for _, kind := range Kinds {
		if _, err := s.Active(kind, asOf); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkOverlap(kind Kind, day time.Time, rows []Bracket) error {
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.OpenEnded() || cur.RangeStart.LessThan(prev.RangeEnd.Decimal) || cur.RangeStart.Equal(prev.RangeStart) {
			return fmt.Errorf("%w: %s effective %s at %s", ErrOverlappingBrackets, kind, day.Format("2006-01-02"), cur.RangeStart)
		}
	}
	return nil
}

func checkAmounts(b Bracket) error {
	amounts := []decimal.Decimal{
		b.RangeStart, b.RangeEnd.Decimal,
		b.EmployeeShare, b.EmployerShare,
		b.EmployeeRate, b.EmployerRate,
		b.PremiumRate, b.MinContribution, b.MaxContribution,
		b.BaseTax, b.TaxRate,
	}
	for _, a := range amounts {
		if a.IsNegative() {
			return fmt.Errorf("%w: %s bracket starting at %s", ErrNegativeAmount, b.Kind, b.RangeStart)
		}
	}
	if !b.OpenEnded() && b.RangeEnd.Decimal.LessThan(b.RangeStart) {
		return fmt.Errorf("%w: %s bracket ends before it starts at %s", ErrInvalidRange, b.Kind, b.RangeStart)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
