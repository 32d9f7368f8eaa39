package ratetable

import (
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ListRateTablesRequest struct {
	Kind string
	AsOf string
	// History lists every loaded version instead of the one active on AsOf.
	History bool
}

func (r *ListRateTablesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Kind != "" {
		if _, err := ParseKind(r.Kind); err != nil {
			errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be one of sss, philhealth, pagibig, bir"})
		}
	}
	if r.AsOf != "" {
		if _, ok := validator.IsValidDate(r.AsOf); !ok {
			errs = append(errs, validator.ValidationError{Field: "as_of", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BracketResponse struct {
	RangeStart      decimal.Decimal  `json:"range_start"`
	RangeEnd        *decimal.Decimal `json:"range_end,omitempty"`
	EmployeeShare   *decimal.Decimal `json:"employee_share,omitempty"`
	EmployerShare   *decimal.Decimal `json:"employer_share,omitempty"`
	EmployeeRate    *decimal.Decimal `json:"employee_rate,omitempty"`
	EmployerRate    *decimal.Decimal `json:"employer_rate,omitempty"`
	PremiumRate     *decimal.Decimal `json:"premium_rate,omitempty"`
	MinContribution *decimal.Decimal `json:"min_contribution,omitempty"`
	MaxContribution *decimal.Decimal `json:"max_contribution,omitempty"`
	BaseTax         *decimal.Decimal `json:"base_tax,omitempty"`
	TaxRate         *decimal.Decimal `json:"tax_rate,omitempty"`
}

type VersionResponse struct {
	Kind          string            `json:"kind"`
	EffectiveDate string            `json:"effective_date"`
	Brackets      []BracketResponse `json:"brackets"`
}

// ToResponse renders only the fields that are meaningful for the version's kind.
func (v Version) ToResponse() VersionResponse {
	brackets := make([]BracketResponse, 0, len(v.Brackets))
	for _, b := range v.Brackets {
		br := BracketResponse{RangeStart: b.RangeStart}
		if !b.OpenEnded() {
			br.RangeEnd = decimalPtr(b.RangeEnd.Decimal)
		}
		switch v.Kind {
		case KindSSS:
			br.EmployeeShare = decimalPtr(b.EmployeeShare)
			br.EmployerShare = decimalPtr(b.EmployerShare)
		case KindPhilHealth:
			br.PremiumRate = decimalPtr(b.PremiumRate)
			br.MinContribution = decimalPtr(b.MinContribution)
			br.MaxContribution = decimalPtr(b.MaxContribution)
		case KindPagIBIG:
			br.EmployeeRate = decimalPtr(b.EmployeeRate)
			br.EmployerRate = decimalPtr(b.EmployerRate)
			br.MaxContribution = decimalPtr(b.MaxContribution)
		case KindBIR:
			br.BaseTax = decimalPtr(b.BaseTax)
			br.TaxRate = decimalPtr(b.TaxRate)
		}
		brackets = append(brackets, br)
	}

	return VersionResponse{
		Kind:          string(v.Kind),
		EffectiveDate: v.EffectiveDate.Format("2006-01-02"),
		Brackets:      brackets,
	}
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }
