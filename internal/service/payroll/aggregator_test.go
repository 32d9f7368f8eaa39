package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workDate(day int) time.Time {
	return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
}

func dayShift(id string, day int, dt attendance.DayType) attendance.Entry {
	return attendance.Entry{
		ID:           id,
		WorkDate:     workDate(day),
		TimeIn:       "08:00",
		TimeOut:      "17:00",
		BreakMinutes: 60,
		DayType:      dt,
	}
}

// sampleEntries is two regular days, one with two hours of overtime, and one
// regular holiday.
func sampleEntries() []attendance.Entry {
	withOT := dayShift("e1", 2, attendance.DayTypeRegular)
	withOT.ManualOvertimeHours = decimal.NewFromInt(2)
	return []attendance.Entry{
		withOT,
		dayShift("e2", 3, attendance.DayTypeRegular),
		dayShift("e3", 4, attendance.DayTypeRegularHoliday),
	}
}

func TestAggregator_Sample(t *testing.T) {
	rates := employee.RatesFromMonthly(decimal.NewFromInt(25000))
	totals := NewAggregator().Aggregate(sampleEntries(), rates)

	assertDecimal(t, "24", totals.RegularHours)
	assertDecimal(t, "3409.09", totals.RegularPay.Round(2))
	assertDecimal(t, "2", totals.OvertimeHours)
	assertDecimal(t, "355.11", totals.OvertimePay.Round(2))
	assertDecimal(t, "1136.36", totals.HolidayPay.Round(2))
	assert.True(t, totals.NightDiffHours.IsZero())
	assert.True(t, totals.NightDiffPay.IsZero())
	assert.Equal(t, 3, totals.DaysWorked)
	assert.Equal(t, 1, totals.HolidayDays)
	assert.Empty(t, totals.Warnings)
}

func TestAggregator_OrderIndependent(t *testing.T) {
	rates := employee.RatesFromDaily(decimal.RequireFromString("733.33"))
	a := NewAggregator()

	entries := append(sampleEntries(), attendance.Entry{
		ID: "night", WorkDate: workDate(5), TimeIn: "21:00", TimeOut: "05:30", BreakMinutes: 30,
		DayType: attendance.DayTypeSpecialHoliday, ManualOvertimeHours: decimal.RequireFromString("1.5"),
	})
	reversed := make([]attendance.Entry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}

	forward := a.Aggregate(entries, rates)
	backward := a.Aggregate(reversed, rates)

	assert.True(t, forward.RegularPay.Equal(backward.RegularPay))
	assert.True(t, forward.OvertimePay.Equal(backward.OvertimePay))
	assert.True(t, forward.NightDiffPay.Equal(backward.NightDiffPay))
	assert.True(t, forward.HolidayPay.Equal(backward.HolidayPay))
	assert.Equal(t, forward.DaysWorked, backward.DaysWorked)
}

func TestAggregator_NightDifferential(t *testing.T) {
	rates := employee.RatesFromHourly(decimal.NewFromInt(100))

	entry := attendance.Entry{
		ID: "n1", WorkDate: workDate(8), TimeIn: "22:00", TimeOut: "06:00", BreakMinutes: 60,
		DayType: attendance.DayTypeRegular,
	}
	totals := NewAggregator().Aggregate([]attendance.Entry{entry}, rates)

	assertDecimal(t, "7", totals.RegularHours)
	assertDecimal(t, "700", totals.RegularPay)
	assertDecimal(t, "7", totals.NightDiffHours)
	assertDecimal(t, "70", totals.NightDiffPay)
	assert.True(t, totals.HolidayPay.IsZero())
}

func TestAggregator_DayTypeMultipliers(t *testing.T) {
	rates := employee.RatesFromHourly(decimal.NewFromInt(100))

	tests := []struct {
		dayType     attendance.DayType
		wantOT      string
		wantHoliday string
	}{
		{attendance.DayTypeRegular, "125", "0"},
		{attendance.DayTypeRestDay, "130", "0"},
		{attendance.DayTypeRegularHoliday, "200", "800"},
		{attendance.DayTypeSpecialHoliday, "130", "240"},
		{attendance.DayTypeDoubleHoliday, "300", "1600"},
		{attendance.DayTypeRestDayHoliday, "260", "1040"},
	}

	for _, tt := range tests {
		t.Run(tt.dayType.String(), func(t *testing.T) {
			e := dayShift("x", 10, tt.dayType)
			e.ManualOvertimeHours = decimal.NewFromInt(1)

			totals := NewAggregator().Aggregate([]attendance.Entry{e}, rates)
			assertDecimal(t, tt.wantOT, totals.OvertimePay)
			assertDecimal(t, tt.wantHoliday, totals.HolidayPay)
			assertDecimal(t, "800", totals.RegularPay)
		})
	}
}

func TestAggregator_Warnings(t *testing.T) {
	rates := employee.RatesFromHourly(decimal.NewFromInt(100))

	negativeOT := dayShift("neg-ot", 6, attendance.DayTypeRegular)
	negativeOT.ManualOvertimeHours = decimal.NewFromInt(-1)

	negativeND := dayShift("neg-nd", 7, attendance.DayTypeRegular)
	negativeND.NightDifferentialHours = decimal.NewNullDecimal(decimal.NewFromInt(-2))

	negativeBreak := dayShift("neg-break", 8, attendance.DayTypeRegular)
	negativeBreak.BreakMinutes = -30

	tests := []struct {
		name   string
		entry  attendance.Entry
		reason payroll.WarningReason
	}{
		{name: "malformed time", entry: attendance.Entry{ID: "bad", WorkDate: workDate(1), TimeIn: "8am", TimeOut: "17:00", DayType: attendance.DayTypeRegular}, reason: payroll.WarningMalformedTime},
		{name: "open clock-in", entry: attendance.Entry{ID: "open", WorkDate: workDate(2), TimeIn: "08:00", DayType: attendance.DayTypeRegular}, reason: payroll.WarningOpenClockIn},
		{name: "unknown day type", entry: dayShift("unknown", 3, attendance.DayType(0)), reason: payroll.WarningUnknownDayType},
		{name: "negative overtime", entry: negativeOT, reason: payroll.WarningInvalidHours},
		{name: "negative night differential", entry: negativeND, reason: payroll.WarningInvalidHours},
		{name: "negative break", entry: negativeBreak, reason: payroll.WarningInvalidHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := dayShift("good", 9, attendance.DayTypeRegular)
			totals := NewAggregator().Aggregate([]attendance.Entry{good, tt.entry}, rates)

			// The bad entry contributes nothing; the good one is unaffected.
			assertDecimal(t, "800", totals.RegularPay)
			assert.Equal(t, 1, totals.DaysWorked)

			require.Len(t, totals.Warnings, 1)
			w := totals.Warnings[0]
			assert.Equal(t, tt.entry.ID, w.EntryID)
			assert.Equal(t, tt.entry.WorkDate, w.WorkDate)
			assert.Equal(t, tt.reason, w.Reason)
			assert.NotEmpty(t, w.Message)
		})
	}
}

func TestAggregator_Empty(t *testing.T) {
	totals := NewAggregator().Aggregate(nil, employee.RatesFromHourly(decimal.NewFromInt(100)))
	assert.True(t, totals.RegularPay.IsZero())
	assert.Zero(t, totals.DaysWorked)
	assert.Empty(t, totals.Warnings)
}
