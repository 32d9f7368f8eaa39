package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// Run items that failed are stored on the run row; succeeded items are the
// payroll_results rows pointing at the run.
type failureRecord struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type warningRecord struct {
	EntryID  string  `json:"entry_id,omitempty"`
	WorkDate *string `json:"work_date,omitempty"`
	Reason   string  `json:"reason"`
	Message  string  `json:"message"`
}

// ========== RUNS ==========

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	q := GetQuerier(ctx, r.db)

	failures := []failureRecord{}
	for _, item := range run.Items {
		if item.Status == payroll.RunItemFailed {
			failures = append(failures, failureRecord{EmployeeID: item.EmployeeID, Error: item.Error})
		}
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return payroll.Run{}, fmt.Errorf("failed to encode run failures: %w", err)
	}

	query := `
		INSERT INTO payroll_runs (
			id, period_start, period_end, status, employee_count,
			succeeded_count, failed_count, total_gross, total_net, failures, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		run.ID, run.Period.Start, run.Period.End, run.Status, run.EmployeeCount,
		run.SucceededCount, run.FailedCount, run.TotalGross, run.TotalNet, failuresJSON, run.CreatedAt,
	).Scan(&run.CreatedAt)
	if err != nil {
		return payroll.Run{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	return run, nil
}

const runColumns = `
	id, period_start, period_end, status, employee_count,
	succeeded_count, failed_count, total_gross, total_net, failures, created_at
`

func scanRun(row pgx.Row) (payroll.Run, error) {
	var (
		run          payroll.Run
		failuresJSON []byte
	)
	if err := row.Scan(
		&run.ID, &run.Period.Start, &run.Period.End, &run.Status, &run.EmployeeCount,
		&run.SucceededCount, &run.FailedCount, &run.TotalGross, &run.TotalNet, &failuresJSON, &run.CreatedAt,
	); err != nil {
		return payroll.Run{}, err
	}

	var failures []failureRecord
	if len(failuresJSON) > 0 {
		if err := json.Unmarshal(failuresJSON, &failures); err != nil {
			return payroll.Run{}, fmt.Errorf("failed to decode run failures: %w", err)
		}
	}
	for _, f := range failures {
		run.Items = append(run.Items, payroll.RunItem{
			EmployeeID: f.EmployeeID,
			Status:     payroll.RunItemFailed,
			Error:      f.Error,
		})
	}

	return run, nil
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string) (payroll.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE id = $1`

	run, err := scanRun(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Run{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.Run{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	return run, nil
}

func (r *payrollRepository) ListRuns(ctx context.Context, filter payroll.RunFilter) ([]payroll.Run, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := ` FROM payroll_runs WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.PeriodStart != nil {
		baseQuery += fmt.Sprintf(" AND period_start >= $%d::date", argIdx)
		args = append(args, *filter.PeriodStart)
		argIdx++
	}
	if filter.PeriodEnd != nil {
		baseQuery += fmt.Sprintf(" AND period_end <= $%d::date", argIdx)
		args = append(args, *filter.PeriodEnd)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count query
	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll runs: %w", err)
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		runColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll runs: %w", err)
	}

	return runs, totalCount, nil
}

// ========== RESULTS ==========

func (r *payrollRepository) CreateResult(ctx context.Context, result payroll.PayrollResult) (payroll.PayrollResult, error) {
	q := GetQuerier(ctx, r.db)

	warningsJSON, err := json.Marshal(toWarningRecords(result.Warnings))
	if err != nil {
		return payroll.PayrollResult{}, fmt.Errorf("failed to encode payroll warnings: %w", err)
	}

	t := result.Totals
	d := result.Deductions
	query := `
		INSERT INTO payroll_results (
			id, run_id, employee_id, period_start, period_end, period_days,
			monthly_salary, daily_rate, hourly_rate,
			regular_hours, regular_pay, overtime_hours, overtime_pay,
			night_diff_hours, night_diff_pay, holiday_pay, days_worked, holiday_days,
			gross_pay, sss_employee, sss_employer, philhealth_employee, philhealth_employer,
			pagibig_employee, pagibig_employer, total_deductions, taxable_income,
			withholding_tax, net_pay, warnings, computed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31
		)
	`

	_, err = q.Exec(ctx, query,
		result.ID, nullIfEmpty(result.RunID), result.EmployeeID, result.Period.Start, result.Period.End, result.PeriodDays,
		result.MonthlySalary, result.DailyRate, result.HourlyRate,
		t.RegularHours, t.RegularPay, t.OvertimeHours, t.OvertimePay,
		t.NightDiffHours, t.NightDiffPay, t.HolidayPay, t.DaysWorked, t.HolidayDays,
		result.GrossPay, d.SSS.Employee, d.SSS.Employer, d.PhilHealth.Employee, d.PhilHealth.Employer,
		d.PagIBIG.Employee, d.PagIBIG.Employer, result.TotalDeduction, result.TaxableIncome,
		result.WithholdingTax, result.NetPay, warningsJSON, result.ComputedAt,
	)
	if err != nil {
		return payroll.PayrollResult{}, fmt.Errorf("failed to create payroll result: %w", err)
	}

	return result, nil
}

const resultColumns = `
	pr.id, COALESCE(pr.run_id::text, ''), pr.employee_id, pr.period_start, pr.period_end, pr.period_days,
	pr.monthly_salary, pr.daily_rate, pr.hourly_rate,
	pr.regular_hours, pr.regular_pay, pr.overtime_hours, pr.overtime_pay,
	pr.night_diff_hours, pr.night_diff_pay, pr.holiday_pay, pr.days_worked, pr.holiday_days,
	pr.gross_pay, pr.sss_employee, pr.sss_employer, pr.philhealth_employee, pr.philhealth_employer,
	pr.pagibig_employee, pr.pagibig_employer, pr.total_deductions, pr.taxable_income,
	pr.withholding_tax, pr.net_pay, pr.warnings, pr.computed_at,
	e.full_name AS employee_name, e.employee_code
`

func scanResult(row pgx.Row) (payroll.PayrollResult, error) {
	var (
		res          payroll.PayrollResult
		warningsJSON []byte
	)
	t := &res.Totals
	d := &res.Deductions
	err := row.Scan(
		&res.ID, &res.RunID, &res.EmployeeID, &res.Period.Start, &res.Period.End, &res.PeriodDays,
		&res.MonthlySalary, &res.DailyRate, &res.HourlyRate,
		&t.RegularHours, &t.RegularPay, &t.OvertimeHours, &t.OvertimePay,
		&t.NightDiffHours, &t.NightDiffPay, &t.HolidayPay, &t.DaysWorked, &t.HolidayDays,
		&res.GrossPay, &d.SSS.Employee, &d.SSS.Employer, &d.PhilHealth.Employee, &d.PhilHealth.Employer,
		&d.PagIBIG.Employee, &d.PagIBIG.Employer, &res.TotalDeduction, &res.TaxableIncome,
		&res.WithholdingTax, &res.NetPay, &warningsJSON, &res.ComputedAt,
		&res.EmployeeName, &res.EmployeeCode,
	)
	if err != nil {
		return payroll.PayrollResult{}, err
	}

	d.SSS = payroll.NewContribution(d.SSS.Employee, d.SSS.Employer)
	d.PhilHealth = payroll.NewContribution(d.PhilHealth.Employee, d.PhilHealth.Employer)
	d.PagIBIG = payroll.NewContribution(d.PagIBIG.Employee, d.PagIBIG.Employer)

	if len(warningsJSON) > 0 {
		var records []warningRecord
		if err := json.Unmarshal(warningsJSON, &records); err != nil {
			return payroll.PayrollResult{}, fmt.Errorf("failed to decode payroll warnings: %w", err)
		}
		res.Warnings = fromWarningRecords(records)
	}
	res.Totals.Warnings = entryWarnings(res.Warnings)

	return res, nil
}

func (r *payrollRepository) GetResultByID(ctx context.Context, id string) (payroll.PayrollResult, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + resultColumns + `
		FROM payroll_results pr
		LEFT JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1
	`

	res, err := scanResult(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollResult{}, payroll.ErrPayrollResultNotFound
		}
		return payroll.PayrollResult{}, fmt.Errorf("failed to get payroll result: %w", err)
	}

	return res, nil
}

func (r *payrollRepository) ListResultsByRun(ctx context.Context, runID string) ([]payroll.PayrollResult, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + resultColumns + `
		FROM payroll_results pr
		LEFT JOIN employees e ON pr.employee_id = e.id
		WHERE pr.run_id = $1
		ORDER BY e.employee_code, pr.id
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll results: %w", err)
	}
	defer rows.Close()

	var results []payroll.PayrollResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll results: %w", err)
	}

	return results, nil
}

// ========== HELPERS ==========

func toWarningRecords(warnings []payroll.EntryWarning) []warningRecord {
	records := make([]warningRecord, 0, len(warnings))
	for _, w := range warnings {
		var workDate *string
		if !w.WorkDate.IsZero() {
			str := w.WorkDate.Format("2006-01-02")
			workDate = &str
		}
		records = append(records, warningRecord{
			EntryID:  w.EntryID,
			WorkDate: workDate,
			Reason:   string(w.Reason),
			Message:  w.Message,
		})
	}
	return records
}

func fromWarningRecords(records []warningRecord) []payroll.EntryWarning {
	warnings := make([]payroll.EntryWarning, 0, len(records))
	for _, rec := range records {
		w := payroll.EntryWarning{
			EntryID: rec.EntryID,
			Reason:  payroll.WarningReason(rec.Reason),
			Message: rec.Message,
		}
		if rec.WorkDate != nil {
			if d, err := time.Parse("2006-01-02", *rec.WorkDate); err == nil {
				w.WorkDate = d
			}
		}
		warnings = append(warnings, w)
	}
	return warnings
}

// entryWarnings keeps the warnings raised by attendance entries, dropping
// result-level ones.
func entryWarnings(warnings []payroll.EntryWarning) []payroll.EntryWarning {
	var result []payroll.EntryWarning
	for _, w := range warnings {
		if w.EntryID != "" {
			result = append(result, w)
		}
	}
	return result
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
