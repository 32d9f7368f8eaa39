package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StandardHoursPerDay      = 8
	StandardWorkDaysPerMonth = 22
)

type Employee struct {
	ID                string
	EmployeeCode      string
	FullName          string
	EmploymentType    EmploymentType
	EmploymentStatus  EmploymentStatus
	RateBasis         RateBasis
	HourlyRate        decimal.Decimal
	DailyRate         decimal.Decimal
	BaseMonthlySalary decimal.Decimal
	HireDate          time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type EmploymentType string

const (
	EmploymentTypeRegular      EmploymentType = "regular"
	EmploymentTypeProbationary EmploymentType = "probationary"
	EmploymentTypeContractual  EmploymentType = "contractual"
	EmploymentTypeProjectBased EmploymentType = "project_based"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// RateBasis names the pay rate that is authoritative for an employee; the
// other two are derived from it.
type RateBasis string

const (
	RateBasisMonthly RateBasis = "monthly"
	RateBasisDaily   RateBasis = "daily"
	RateBasisHourly  RateBasis = "hourly"
)

// Rates holds the three pay rates of an employee, always mutually consistent:
// Daily = Hourly × 8 and Monthly = Daily × 22.
type Rates struct {
	Hourly  decimal.Decimal
	Daily   decimal.Decimal
	Monthly decimal.Decimal
}

var (
	hoursPerDay  = decimal.NewFromInt(StandardHoursPerDay)
	daysPerMonth = decimal.NewFromInt(StandardWorkDaysPerMonth)
)

func RatesFromMonthly(monthly decimal.Decimal) Rates {
	daily := monthly.Div(daysPerMonth)
	return Rates{Hourly: daily.Div(hoursPerDay), Daily: daily, Monthly: monthly}
}

func RatesFromDaily(daily decimal.Decimal) Rates {
	return Rates{Hourly: daily.Div(hoursPerDay), Daily: daily, Monthly: daily.Mul(daysPerMonth)}
}

func RatesFromHourly(hourly decimal.Decimal) Rates {
	daily := hourly.Mul(hoursPerDay)
	return Rates{Hourly: hourly, Daily: daily, Monthly: daily.Mul(daysPerMonth)}
}

// Rates derives a consistent rate set from the authoritative field. When no
// basis is recorded the first non-zero of monthly, daily, hourly wins.
func (e Employee) Rates() Rates {
	switch e.RateBasis {
	case RateBasisMonthly:
		return RatesFromMonthly(e.BaseMonthlySalary)
	case RateBasisDaily:
		return RatesFromDaily(e.DailyRate)
	case RateBasisHourly:
		return RatesFromHourly(e.HourlyRate)
	}

	switch {
	case !e.BaseMonthlySalary.IsZero():
		return RatesFromMonthly(e.BaseMonthlySalary)
	case !e.DailyRate.IsZero():
		return RatesFromDaily(e.DailyRate)
	default:
		return RatesFromHourly(e.HourlyRate)
	}
}

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}
