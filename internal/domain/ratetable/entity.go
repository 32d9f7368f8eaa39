package ratetable

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies one statutory contribution or tax schedule.
type Kind string

const (
	KindSSS        Kind = "sss"
	KindPhilHealth Kind = "philhealth"
	KindPagIBIG    Kind = "pagibig"
	KindBIR        Kind = "bir"
)

// Kinds lists every schedule a payroll computation needs.
var Kinds = []Kind{KindSSS, KindPhilHealth, KindPagIBIG, KindBIR}

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSSS, KindPhilHealth, KindPagIBIG, KindBIR:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Bracket is one row of a rate table. Which amount fields are meaningful
// depends on Kind:
//
//	sss:        EmployeeShare, EmployerShare (flat)
//	philhealth: PremiumRate, MinContribution, MaxContribution (total premium)
//	pagibig:    EmployeeRate, EmployerRate, MaxContribution (per side)
//	bir:        BaseTax, TaxRate (annual taxable income)
//
// An invalid RangeEnd means the bracket is open-ended.
type Bracket struct {
	ID              string
	Kind            Kind
	RangeStart      decimal.Decimal
	RangeEnd        decimal.NullDecimal
	EmployeeShare   decimal.Decimal
	EmployerShare   decimal.Decimal
	EmployeeRate    decimal.Decimal
	EmployerRate    decimal.Decimal
	PremiumRate     decimal.Decimal
	MinContribution decimal.Decimal
	MaxContribution decimal.Decimal
	BaseTax         decimal.Decimal
	TaxRate         decimal.Decimal
	EffectiveDate   time.Time
	CreatedAt       time.Time
}

// OpenEnded reports whether the bracket has no upper bound.
func (b Bracket) OpenEnded() bool {
	return !b.RangeEnd.Valid
}

// Version is the set of brackets of one Kind sharing an effective date,
// ordered by RangeStart.
type Version struct {
	Kind          Kind
	EffectiveDate time.Time
	Brackets      []Bracket
}
