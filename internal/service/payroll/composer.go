package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/payroll"
)

// Composer turns aggregated attendance into a payroll result. It reads no
// clock and assigns no IDs, so equal inputs always give equal results.
type Composer struct {
	resolver *Resolver
}

func NewComposer(resolver *Resolver) *Composer {
	return &Composer{resolver: resolver}
}

func (c *Composer) Compose(emp employee.Employee, totals payroll.PeriodTotals, period payroll.Period) (payroll.PayrollResult, error) {
	if err := period.Validate(); err != nil {
		return payroll.PayrollResult{}, err
	}
	rates := emp.Rates()

	// Each component is rounded to centavos before it is summed.
	totals.RegularPay = totals.RegularPay.Round(2)
	totals.OvertimePay = totals.OvertimePay.Round(2)
	totals.NightDiffPay = totals.NightDiffPay.Round(2)
	totals.HolidayPay = totals.HolidayPay.Round(2)

	gross := totals.RegularPay.
		Add(totals.OvertimePay).
		Add(totals.NightDiffPay).
		Add(totals.HolidayPay)

	// Statutory deductions are keyed on the monthly base salary, not on the
	// period's gross.
	deductions, err := c.resolver.Contributions(rates.Monthly, period.End)
	if err != nil {
		return payroll.PayrollResult{}, fmt.Errorf("failed to resolve contributions: %w", err)
	}
	totalDeduction := deductions.EmployeeTotal()

	taxable := gross.Sub(totalDeduction)
	periodDays := period.Days()
	tax, err := c.resolver.WithholdingTax(taxable, periodDays, period.End)
	if err != nil {
		return payroll.PayrollResult{}, fmt.Errorf("failed to resolve withholding tax: %w", err)
	}
	tax = tax.Round(2)

	net := gross.Sub(totalDeduction).Sub(tax)

	warnings := make([]payroll.EntryWarning, 0, len(totals.Warnings)+2)
	warnings = append(warnings, totals.Warnings...)
	// A negative salary falls into the zero bands of every contribution table.
	if rates.Monthly.IsNegative() {
		warnings = append(warnings, payroll.EntryWarning{
			Reason:  payroll.WarningNegativeSalary,
			Message: fmt.Sprintf("monthly salary %s is negative", rates.Monthly.StringFixed(2)),
		})
	}
	if net.IsNegative() {
		warnings = append(warnings, payroll.EntryWarning{
			Reason:  payroll.WarningNegativeNet,
			Message: fmt.Sprintf("deductions exceed gross pay by %s", net.Neg().StringFixed(2)),
		})
	}

	return payroll.PayrollResult{
		EmployeeID:     emp.ID,
		Period:         period,
		PeriodDays:     periodDays,
		MonthlySalary:  rates.Monthly,
		DailyRate:      rates.Daily,
		HourlyRate:     rates.Hourly,
		Totals:         totals,
		GrossPay:       gross,
		Deductions:     deductions,
		TotalDeduction: totalDeduction,
		TaxableIncome:  taxable,
		WithholdingTax: tax,
		NetPay:         net,
		Warnings:       warnings,
		EmployeeName:   stringPtr(emp.FullName),
		EmployeeCode:   stringPtr(emp.EmployeeCode),
	}, nil
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
