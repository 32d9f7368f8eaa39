package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/ratetable"
	"github.com/shopspring/decimal"
)

var (
	daysPerYear = decimal.NewFromInt(365)
	two         = decimal.NewFromInt(2)
)

// Resolver looks up statutory contributions and withholding tax in a rate
// table snapshot. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	store *ratetable.Store
}

func NewResolver(store *ratetable.Store) *Resolver {
	return &Resolver{store: store}
}

// SSS returns the flat shares of the bracket holding monthlySalary.
func (r *Resolver) SSS(monthlySalary decimal.Decimal, asOf time.Time) (payroll.Contribution, error) {
	b, err := r.store.Lookup(ratetable.KindSSS, monthlySalary, asOf)
	if err != nil {
		return payroll.Contribution{}, err
	}
	return payroll.NewContribution(b.EmployeeShare, b.EmployerShare), nil
}

// PhilHealth clamps salary × premium rate to the bracket's minimum and maximum
// and splits it evenly. An odd centavo goes to the employer.
func (r *Resolver) PhilHealth(monthlySalary decimal.Decimal, asOf time.Time) (payroll.Contribution, error) {
	b, err := r.store.Lookup(ratetable.KindPhilHealth, monthlySalary, asOf)
	if err != nil {
		return payroll.Contribution{}, err
	}

	premium := monthlySalary.Mul(b.PremiumRate)
	if premium.LessThan(b.MinContribution) {
		premium = b.MinContribution
	}
	if premium.GreaterThan(b.MaxContribution) {
		premium = b.MaxContribution
	}
	premium = premium.Round(2)

	employee := premium.Div(two).RoundDown(2)
	return payroll.NewContribution(employee, premium.Sub(employee)), nil
}

// PagIBIG applies the bracket's employee and employer rates, each capped at
// the bracket's maximum.
func (r *Resolver) PagIBIG(monthlySalary decimal.Decimal, asOf time.Time) (payroll.Contribution, error) {
	b, err := r.store.Lookup(ratetable.KindPagIBIG, monthlySalary, asOf)
	if err != nil {
		return payroll.Contribution{}, err
	}

	employee := decimal.Min(monthlySalary.Mul(b.EmployeeRate), b.MaxContribution)
	employer := decimal.Min(monthlySalary.Mul(b.EmployerRate), b.MaxContribution)
	return payroll.NewContribution(nonNegative(employee).Round(2), nonNegative(employer).Round(2)), nil
}

// Contributions resolves all three salary-keyed deductions.
func (r *Resolver) Contributions(monthlySalary decimal.Decimal, asOf time.Time) (payroll.Deductions, error) {
	sss, err := r.SSS(monthlySalary, asOf)
	if err != nil {
		return payroll.Deductions{}, err
	}
	philHealth, err := r.PhilHealth(monthlySalary, asOf)
	if err != nil {
		return payroll.Deductions{}, err
	}
	pagIBIG, err := r.PagIBIG(monthlySalary, asOf)
	if err != nil {
		return payroll.Deductions{}, err
	}
	return payroll.Deductions{SSS: sss, PhilHealth: philHealth, PagIBIG: pagIBIG}, nil
}

// BIRTax is the annual income tax on annualTaxableIncome:
// base tax + (income − bracket start) × rate. It is never negative.
func (r *Resolver) BIRTax(annualTaxableIncome decimal.Decimal, asOf time.Time) (decimal.Decimal, error) {
	b, err := r.store.Lookup(ratetable.KindBIR, annualTaxableIncome, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	excess := nonNegative(annualTaxableIncome.Sub(b.RangeStart))
	return b.BaseTax.Add(excess.Mul(b.TaxRate)), nil
}

// WithholdingTax annualizes a period's taxable income, resolves the annual
// tax and scales it back to the period.
func (r *Resolver) WithholdingTax(periodTaxable decimal.Decimal, periodDays int, asOf time.Time) (decimal.Decimal, error) {
	annual := Annualize(nonNegative(periodTaxable), periodDays)
	tax, err := r.BIRTax(annual, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return Deannualize(tax, periodDays), nil
}

// Annualize scales a period amount to a 365-day year.
func Annualize(amount decimal.Decimal, periodDays int) decimal.Decimal {
	if periodDays <= 0 {
		return decimal.Zero
	}
	return amount.Mul(daysPerYear).Div(decimal.NewFromInt(int64(periodDays)))
}

// Deannualize scales an annual amount down to a period of periodDays.
func Deannualize(annual decimal.Decimal, periodDays int) decimal.Decimal {
	if periodDays <= 0 {
		return decimal.Zero
	}
	return annual.Mul(decimal.NewFromInt(int64(periodDays))).Div(daysPerYear)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
