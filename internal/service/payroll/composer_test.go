package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/ratetable"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyEmployee(id string, salary int64) employee.Employee {
	return employee.Employee{
		ID:                id,
		EmployeeCode:      "EMP-" + id,
		FullName:          "Juan Dela Cruz",
		EmploymentStatus:  employee.EmploymentStatusActive,
		RateBasis:         employee.RateBasisMonthly,
		BaseMonthlySalary: decimal.NewFromInt(salary),
	}
}

func firstHalfJanuary(t *testing.T) payroll.Period {
	t.Helper()
	p, err := payroll.NewPeriod(workDate(1), workDate(15))
	require.NoError(t, err)
	return p
}

func TestComposer_Sample(t *testing.T) {
	emp := monthlyEmployee("1", 25000)
	period := firstHalfJanuary(t)

	totals := NewAggregator().Aggregate(sampleEntries(), emp.Rates())
	result, err := NewComposer(NewResolver(referenceStore(t))).Compose(emp, totals, period)
	require.NoError(t, err)

	assertDecimal(t, "3409.09", result.Totals.RegularPay)
	assertDecimal(t, "355.11", result.Totals.OvertimePay)
	assertDecimal(t, "1136.36", result.Totals.HolidayPay)
	assertDecimal(t, "4900.56", result.GrossPay)

	assertDecimal(t, "1125", result.Deductions.SSS.Employee)
	assertDecimal(t, "562.50", result.Deductions.PhilHealth.Employee)
	assertDecimal(t, "100", result.Deductions.PagIBIG.Employee)
	assertDecimal(t, "1787.50", result.TotalDeduction)

	assertDecimal(t, "3113.06", result.TaxableIncome)
	assert.True(t, result.WithholdingTax.IsZero())
	assertDecimal(t, "3113.06", result.NetPay)

	assert.Equal(t, 15, result.PeriodDays)
	assert.Equal(t, "1", result.EmployeeID)
	require.NotNil(t, result.EmployeeName)
	assert.Equal(t, "Juan Dela Cruz", *result.EmployeeName)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.ID)
	assert.True(t, result.ComputedAt.IsZero())
}

func TestComposer_Invariants(t *testing.T) {
	emp := monthlyEmployee("1", 25000)
	totals := NewAggregator().Aggregate(sampleEntries(), emp.Rates())
	result, err := NewComposer(NewResolver(referenceStore(t))).Compose(emp, totals, firstHalfJanuary(t))
	require.NoError(t, err)

	sum := result.Totals.RegularPay.Add(result.Totals.OvertimePay).Add(result.Totals.NightDiffPay).Add(result.Totals.HolidayPay)
	assert.True(t, result.GrossPay.Equal(sum))
	assert.True(t, result.TotalDeduction.Equal(result.Deductions.EmployeeTotal()))
	assert.True(t, result.TaxableIncome.Equal(result.GrossPay.Sub(result.TotalDeduction)))
	assert.True(t, result.NetPay.Equal(result.GrossPay.Sub(result.TotalDeduction).Sub(result.WithholdingTax)))
}

func TestComposer_WithholdsTax(t *testing.T) {
	emp := monthlyEmployee("2", 100000)
	totals := payroll.PeriodTotals{RegularPay: decimal.NewFromInt(50000)}

	result, err := NewComposer(NewResolver(referenceStore(t))).Compose(emp, totals, firstHalfJanuary(t))
	require.NoError(t, err)

	assertDecimal(t, "50000", result.GrossPay)
	assertDecimal(t, "1350", result.Deductions.SSS.Employee)
	assertDecimal(t, "1800", result.Deductions.PhilHealth.Employee)
	assertDecimal(t, "100", result.Deductions.PagIBIG.Employee)
	assertDecimal(t, "3250", result.TotalDeduction)
	assertDecimal(t, "46750", result.TaxableIncome)
	assertDecimal(t, "7680.65", result.WithholdingTax)
	assertDecimal(t, "39069.35", result.NetPay)
}

func TestComposer_DeductionsIgnorePeriodGross(t *testing.T) {
	composer := NewComposer(NewResolver(referenceStore(t)))
	emp := monthlyEmployee("3", 25000)
	period := firstHalfJanuary(t)

	small, err := composer.Compose(emp, payroll.PeriodTotals{RegularPay: decimal.NewFromInt(1000)}, period)
	require.NoError(t, err)
	large, err := composer.Compose(emp, payroll.PeriodTotals{RegularPay: decimal.NewFromInt(90000)}, period)
	require.NoError(t, err)

	assert.Equal(t, small.Deductions, large.Deductions)
}

func TestComposer_NegativeNet(t *testing.T) {
	emp := monthlyEmployee("4", 25000)

	result, err := NewComposer(NewResolver(referenceStore(t))).Compose(emp, payroll.PeriodTotals{}, firstHalfJanuary(t))
	require.NoError(t, err)

	assertDecimal(t, "0", result.GrossPay)
	assertDecimal(t, "-1787.50", result.NetPay)
	assert.True(t, result.WithholdingTax.IsZero())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, payroll.WarningNegativeNet, result.Warnings[0].Reason)
	assert.Empty(t, result.Warnings[0].EntryID)
}

func TestComposer_NegativeSalary(t *testing.T) {
	emp := monthlyEmployee("6", -1000)

	result, err := NewComposer(NewResolver(referenceStore(t))).Compose(emp, payroll.PeriodTotals{}, firstHalfJanuary(t))
	require.NoError(t, err)

	assert.True(t, result.Deductions.SSS.Employee.IsZero())
	assert.True(t, result.Deductions.PhilHealth.Employee.IsZero())
	assert.True(t, result.Deductions.PagIBIG.Employee.IsZero())
	assert.True(t, result.TotalDeduction.IsZero())
	assert.True(t, result.WithholdingTax.IsZero())
	assert.True(t, result.NetPay.IsZero())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, payroll.WarningNegativeSalary, result.Warnings[0].Reason)
	assert.Empty(t, result.Warnings[0].EntryID)
}

func TestComposer_Idempotent(t *testing.T) {
	composer := NewComposer(NewResolver(referenceStore(t)))
	emp := monthlyEmployee("5", 31250)
	totals := NewAggregator().Aggregate(sampleEntries(), emp.Rates())
	period := firstHalfJanuary(t)

	first, err := composer.Compose(emp, totals, period)
	require.NoError(t, err)
	second, err := composer.Compose(emp, totals, period)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComposer_Errors(t *testing.T) {
	composer := NewComposer(NewResolver(referenceStore(t)))

	t.Run("inverted period", func(t *testing.T) {
		period := payroll.Period{Start: workDate(15), End: workDate(1)}
		_, err := composer.Compose(monthlyEmployee("7", 25000), payroll.PeriodTotals{}, period)
		assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
	})

	t.Run("missing table", func(t *testing.T) {
		period, err := payroll.NewPeriod(time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2017, 1, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		_, err = composer.Compose(monthlyEmployee("8", 25000), payroll.PeriodTotals{}, period)
		assert.ErrorIs(t, err, ratetable.ErrRateTableMissing)
	})
}
