package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== REQUEST DTOs ==========

type ComputePayrollRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (r *ComputePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUIDv7"})
	}
	errs = append(errs, validatePeriod(r.PeriodStart, r.PeriodEnd)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ComputePayrollRequest) Period() (Period, error) {
	return parsePeriod(r.PeriodStart, r.PeriodEnd)
}

type RunPayrollRequest struct {
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all active employees
}

func (r *RunPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validatePeriod(r.PeriodStart, r.PeriodEnd)...)
	for _, id := range r.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must contain valid UUIDv7 values"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *RunPayrollRequest) Period() (Period, error) {
	return parsePeriod(r.PeriodStart, r.PeriodEnd)
}

type ContributionsRequest struct {
	MonthlySalary string
	AsOf          string
}

func (r *ContributionsRequest) Validate() error {
	var errs validator.ValidationErrors

	salary, err := decimal.NewFromString(r.MonthlySalary)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "must be a decimal amount"})
	} else if salary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "must be non-negative"})
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

type RunFilter struct {
	PeriodStart *string `json:"period_start,omitempty"`
	PeriodEnd   *string `json:"period_end,omitempty"`
	Status      *string `json:"status,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
}

var runStatuses = []string{string(RunStatusCompleted), string(RunStatusPartial), string(RunStatusFailed)}

func (f *RunFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, runStatuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of completed, partial, failed"})
	}
	if f.PeriodStart != nil {
		if _, ok := validator.IsValidDate(*f.PeriodStart); !ok {
			errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if f.PeriodEnd != nil {
		if _, ok := validator.IsValidDate(*f.PeriodEnd); !ok {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type ContributionResponse struct {
	Employee decimal.Decimal `json:"employee"`
	Employer decimal.Decimal `json:"employer"`
	Total    decimal.Decimal `json:"total"`
}

type ContributionsResponse struct {
	MonthlySalary decimal.Decimal      `json:"monthly_salary"`
	AsOf          string               `json:"as_of"`
	SSS           ContributionResponse `json:"sss"`
	PhilHealth    ContributionResponse `json:"philhealth"`
	PagIBIG       ContributionResponse `json:"pagibig"`
	TotalEmployee decimal.Decimal      `json:"total_employee"`
	TotalEmployer decimal.Decimal      `json:"total_employer"`
}

type WarningResponse struct {
	EntryID  string  `json:"entry_id,omitempty"`
	WorkDate *string `json:"work_date,omitempty"`
	Reason   string  `json:"reason"`
	Message  string  `json:"message"`
}

type PayrollResultResponse struct {
	ID             string               `json:"id,omitempty"`
	RunID          string               `json:"run_id,omitempty"`
	EmployeeID     string               `json:"employee_id"`
	EmployeeName   string               `json:"employee_name,omitempty"`
	EmployeeCode   string               `json:"employee_code,omitempty"`
	PeriodStart    string               `json:"period_start"`
	PeriodEnd      string               `json:"period_end"`
	PeriodDays     int                  `json:"period_days"`
	MonthlySalary  decimal.Decimal      `json:"monthly_salary"`
	DailyRate      decimal.Decimal      `json:"daily_rate"`
	HourlyRate     decimal.Decimal      `json:"hourly_rate"`
	DaysWorked     int                  `json:"days_worked"`
	HolidayDays    int                  `json:"holiday_days"`
	RegularHours   decimal.Decimal      `json:"regular_hours"`
	RegularPay     decimal.Decimal      `json:"regular_pay"`
	OvertimeHours  decimal.Decimal      `json:"overtime_hours"`
	OvertimePay    decimal.Decimal      `json:"overtime_pay"`
	NightDiffHours decimal.Decimal      `json:"night_diff_hours"`
	NightDiffPay   decimal.Decimal      `json:"night_diff_pay"`
	HolidayPay     decimal.Decimal      `json:"holiday_pay"`
	GrossPay       decimal.Decimal      `json:"gross_pay"`
	SSS            ContributionResponse `json:"sss"`
	PhilHealth     ContributionResponse `json:"philhealth"`
	PagIBIG        ContributionResponse `json:"pagibig"`
	TotalDeduction decimal.Decimal      `json:"total_deductions"`
	TaxableIncome  decimal.Decimal      `json:"taxable_income"`
	WithholdingTax decimal.Decimal      `json:"withholding_tax"`
	NetPay         decimal.Decimal      `json:"net_pay"`
	Warnings       []WarningResponse    `json:"warnings,omitempty"`
	ComputedAt     *string              `json:"computed_at,omitempty"`
}

type RunItemResponse struct {
	EmployeeID string                 `json:"employee_id"`
	Status     string                 `json:"status"`
	Error      string                 `json:"error,omitempty"`
	Result     *PayrollResultResponse `json:"result,omitempty"`
}

type RunResponse struct {
	ID             string            `json:"id"`
	PeriodStart    string            `json:"period_start"`
	PeriodEnd      string            `json:"period_end"`
	Status         string            `json:"status"`
	EmployeeCount  int               `json:"employee_count"`
	SucceededCount int               `json:"succeeded_count"`
	FailedCount    int               `json:"failed_count"`
	TotalGross     decimal.Decimal   `json:"total_gross"`
	TotalNet       decimal.Decimal   `json:"total_net"`
	Items          []RunItemResponse `json:"items,omitempty"`
	CreatedAt      string            `json:"created_at"`
}

type ListRunResponse struct {
	Data       []RunResponse `json:"data"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

// ========== HELPERS ==========

func validatePeriod(start, end string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	startDate, startOK := validator.IsValidDate(start)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be in YYYY-MM-DD format"})
	}
	endDate, endOK := validator.IsValidDate(end)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be in YYYY-MM-DD format"})
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}

	return errs
}

func parsePeriod(start, end string) (Period, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return NewPeriod(startDate, endDate)
}
