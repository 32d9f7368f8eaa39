package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is an inclusive range of work dates.
type Period struct {
	Start time.Time
	End   time.Time
}

func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: dateOnly(start), End: dateOnly(end)}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if dateOnly(p.End).Before(dateOnly(p.Start)) {
		return ErrInvalidPeriod
	}
	return nil
}

// Days is the inclusive number of calendar days in the period.
func (p Period) Days() int {
	return int(dateOnly(p.End).Sub(dateOnly(p.Start)).Hours()/24) + 1
}

// WarningReason classifies a non-fatal problem found while computing pay.
type WarningReason string

const (
	WarningMalformedTime  WarningReason = "malformed_time"
	WarningOpenClockIn    WarningReason = "open_clock_in"
	WarningUnknownDayType WarningReason = "unknown_day_type"
	WarningInvalidHours   WarningReason = "invalid_hours"
	WarningNegativeNet    WarningReason = "negative_net"
	WarningNegativeSalary WarningReason = "negative_salary"
)

// EntryWarning marks an attendance entry that contributed nothing to pay, or
// a result-level condition when EntryID is empty.
type EntryWarning struct {
	EntryID  string
	WorkDate time.Time
	Reason   WarningReason
	Message  string
}

// PeriodTotals is the reduction of a period's attendance entries.
type PeriodTotals struct {
	RegularHours   decimal.Decimal
	RegularPay     decimal.Decimal
	OvertimeHours  decimal.Decimal
	OvertimePay    decimal.Decimal
	NightDiffHours decimal.Decimal
	NightDiffPay   decimal.Decimal
	HolidayPay     decimal.Decimal
	DaysWorked     int
	HolidayDays    int
	Warnings       []EntryWarning
}

// Add combines two partial totals. Warnings are concatenated in argument order.
func (t PeriodTotals) Add(o PeriodTotals) PeriodTotals {
	warnings := make([]EntryWarning, 0, len(t.Warnings)+len(o.Warnings))
	warnings = append(warnings, t.Warnings...)
	warnings = append(warnings, o.Warnings...)

	return PeriodTotals{
		RegularHours:   t.RegularHours.Add(o.RegularHours),
		RegularPay:     t.RegularPay.Add(o.RegularPay),
		OvertimeHours:  t.OvertimeHours.Add(o.OvertimeHours),
		OvertimePay:    t.OvertimePay.Add(o.OvertimePay),
		NightDiffHours: t.NightDiffHours.Add(o.NightDiffHours),
		NightDiffPay:   t.NightDiffPay.Add(o.NightDiffPay),
		HolidayPay:     t.HolidayPay.Add(o.HolidayPay),
		DaysWorked:     t.DaysWorked + o.DaysWorked,
		HolidayDays:    t.HolidayDays + o.HolidayDays,
		Warnings:       warnings,
	}
}

// Contribution is one statutory deduction split between employee and employer.
type Contribution struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
	Total    decimal.Decimal
}

func NewContribution(employee, employer decimal.Decimal) Contribution {
	return Contribution{Employee: employee, Employer: employer, Total: employee.Add(employer)}
}

type Deductions struct {
	SSS        Contribution
	PhilHealth Contribution
	PagIBIG    Contribution
}

// EmployeeTotal is the sum of the employee shares withheld from pay.
func (d Deductions) EmployeeTotal() decimal.Decimal {
	return d.SSS.Employee.Add(d.PhilHealth.Employee).Add(d.PagIBIG.Employee)
}

// PayrollResult is the computed pay of one employee for one period. It is
// never updated: recomputing a period produces a new result.
type PayrollResult struct {
	ID             string
	RunID          string
	EmployeeID     string
	Period         Period
	PeriodDays     int
	MonthlySalary  decimal.Decimal
	DailyRate      decimal.Decimal
	HourlyRate     decimal.Decimal
	Totals         PeriodTotals
	GrossPay       decimal.Decimal
	Deductions     Deductions
	TotalDeduction decimal.Decimal
	TaxableIncome  decimal.Decimal
	WithholdingTax decimal.Decimal
	NetPay         decimal.Decimal
	Warnings       []EntryWarning
	ComputedAt     time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

type RunItemStatus string

const (
	RunItemSucceeded RunItemStatus = "succeeded"
	RunItemFailed    RunItemStatus = "failed"
)

// RunItem is the outcome for one employee of a batch run.
type RunItem struct {
	EmployeeID string
	Status     RunItemStatus
	Error      string
	Result     *PayrollResult
}

// Run is a batch payroll computation over one period.
type Run struct {
	ID             string
	Period         Period
	Status         RunStatus
	EmployeeCount  int
	SucceededCount int
	FailedCount    int
	TotalGross     decimal.Decimal
	TotalNet       decimal.Decimal
	Items          []RunItem
	CreatedAt      time.Time
}

// Summarize sets the counts, totals and status from Items.
func (r *Run) Summarize() {
	r.EmployeeCount = len(r.Items)
	r.SucceededCount, r.FailedCount = 0, 0
	r.TotalGross, r.TotalNet = decimal.Zero, decimal.Zero

	for _, item := range r.Items {
		if item.Status != RunItemSucceeded || item.Result == nil {
			r.FailedCount++
			continue
		}
		r.SucceededCount++
		r.TotalGross = r.TotalGross.Add(item.Result.GrossPay)
		r.TotalNet = r.TotalNet.Add(item.Result.NetPay)
	}

	switch {
	case r.FailedCount == 0:
		r.Status = RunStatusCompleted
	case r.SucceededCount == 0:
		r.Status = RunStatusFailed
	default:
		r.Status = RunStatusPartial
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
