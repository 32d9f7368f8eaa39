package payroll

import (
	"errors"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var nightDiffRate = decimal.RequireFromString("0.10")

// Aggregator reduces a period's attendance entries into pay totals. Each
// entry is priced on its own, so the result does not depend on entry order.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) Aggregate(entries []attendance.Entry, rates employee.Rates) payroll.PeriodTotals {
	totals := emptyTotals()
	for _, entry := range entries {
		totals = totals.Add(a.priceEntry(entry, rates))
	}
	return totals
}

// priceEntry computes one entry's contribution. Entries that cannot be priced
// contribute nothing and carry a single warning instead.
func (a *Aggregator) priceEntry(entry attendance.Entry, rates employee.Rates) payroll.PeriodTotals {
	otMultiplier, ok := entry.DayType.OvertimeMultiplier()
	if !ok {
		return warningTotals(entry, payroll.WarningUnknownDayType, attendance.ErrUnknownDayType)
	}
	holidayMultiplier, ok := entry.DayType.HolidayMultiplier()
	if !ok {
		return warningTotals(entry, payroll.WarningUnknownDayType, attendance.ErrUnknownDayType)
	}
	if entry.ManualOvertimeHours.IsNegative() {
		return warningTotals(entry, payroll.WarningInvalidHours, attendance.ErrNegativeHours)
	}

	hours, err := entry.HoursWorked()
	if err != nil {
		return warningTotals(entry, classify(err), err)
	}
	nightHours, err := entry.NightHours()
	if err != nil {
		return warningTotals(entry, classify(err), err)
	}

	t := emptyTotals()
	t.RegularHours = hours
	t.RegularPay = hours.Mul(rates.Hourly)
	t.OvertimeHours = entry.ManualOvertimeHours
	t.OvertimePay = entry.ManualOvertimeHours.Mul(rates.Hourly).Mul(otMultiplier)
	t.NightDiffHours = nightHours
	t.NightDiffPay = nightHours.Mul(rates.Hourly).Mul(nightDiffRate)
	t.DaysWorked = 1
	if entry.DayType.IsHoliday() {
		t.HolidayPay = rates.Daily.Mul(holidayMultiplier)
		t.HolidayDays = 1
	}
	return t
}

func classify(err error) payroll.WarningReason {
	switch {
	case errors.Is(err, attendance.ErrOpenClockIn):
		return payroll.WarningOpenClockIn
	case errors.Is(err, attendance.ErrMalformedTime):
		return payroll.WarningMalformedTime
	case errors.Is(err, attendance.ErrUnknownDayType):
		return payroll.WarningUnknownDayType
	default:
		return payroll.WarningInvalidHours
	}
}

func warningTotals(entry attendance.Entry, reason payroll.WarningReason, err error) payroll.PeriodTotals {
	t := emptyTotals()
	t.Warnings = []payroll.EntryWarning{{
		EntryID:  entry.ID,
		WorkDate: entry.WorkDate,
		Reason:   reason,
		Message:  err.Error(),
	}}
	return t
}

func emptyTotals() payroll.PeriodTotals {
	return payroll.PeriodTotals{
		RegularHours:   decimal.Zero,
		RegularPay:     decimal.Zero,
		OvertimeHours:  decimal.Zero,
		OvertimePay:    decimal.Zero,
		NightDiffHours: decimal.Zero,
		NightDiffPay:   decimal.Zero,
		HolidayPay:     decimal.Zero,
	}
}
