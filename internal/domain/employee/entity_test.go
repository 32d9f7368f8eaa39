package employee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEmployee_Rates(t *testing.T) {
	tests := []struct {
		name        string
		emp         Employee
		wantHourly  string
		wantDaily   string
		wantMonthly string
	}{
		{
			name:        "monthly basis",
			emp:         Employee{RateBasis: RateBasisMonthly, BaseMonthlySalary: decimal.NewFromInt(17600)},
			wantHourly:  "100",
			wantDaily:   "800",
			wantMonthly: "17600",
		},
		{
			name:        "daily basis",
			emp:         Employee{RateBasis: RateBasisDaily, DailyRate: decimal.NewFromInt(610)},
			wantHourly:  "76.25",
			wantDaily:   "610",
			wantMonthly: "13420",
		},
		{
			name:        "hourly basis ignores stale monthly",
			emp:         Employee{RateBasis: RateBasisHourly, HourlyRate: decimal.NewFromInt(50), BaseMonthlySalary: decimal.NewFromInt(99999)},
			wantHourly:  "50",
			wantDaily:   "400",
			wantMonthly: "8800",
		},
		{
			name:        "no basis prefers monthly",
			emp:         Employee{BaseMonthlySalary: decimal.NewFromInt(22000), DailyRate: decimal.NewFromInt(1)},
			wantHourly:  "125",
			wantDaily:   "1000",
			wantMonthly: "22000",
		},
		{
			name:        "no basis falls back to daily",
			emp:         Employee{DailyRate: decimal.NewFromInt(800)},
			wantHourly:  "100",
			wantDaily:   "800",
			wantMonthly: "17600",
		},
		{
			name:        "no rates at all",
			emp:         Employee{},
			wantHourly:  "0",
			wantDaily:   "0",
			wantMonthly: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.emp.Rates()
			assert.True(t, r.Hourly.Equal(decimal.RequireFromString(tt.wantHourly)), "hourly %s", r.Hourly)
			assert.True(t, r.Daily.Equal(decimal.RequireFromString(tt.wantDaily)), "daily %s", r.Daily)
			assert.True(t, r.Monthly.Equal(decimal.RequireFromString(tt.wantMonthly)), "monthly %s", r.Monthly)
		})
	}
}

func TestRates_Consistent(t *testing.T) {
	for _, r := range []Rates{
		RatesFromMonthly(decimal.NewFromInt(25000)),
		RatesFromDaily(decimal.RequireFromString("645.50")),
		RatesFromHourly(decimal.RequireFromString("95.75")),
	} {
		assert.True(t, r.Hourly.Mul(hoursPerDay).Sub(r.Daily).Abs().LessThan(decimal.RequireFromString("0.000001")))
		assert.True(t, r.Daily.Mul(daysPerMonth).Sub(r.Monthly).Abs().LessThan(decimal.RequireFromString("0.000001")))
	}
}

func TestEmployee_IsActive(t *testing.T) {
	assert.True(t, Employee{EmploymentStatus: EmploymentStatusActive}.IsActive())
	assert.False(t, Employee{EmploymentStatus: EmploymentStatusResigned}.IsActive())
	assert.False(t, Employee{}.IsActive())
}
