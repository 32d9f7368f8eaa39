package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/ratetable"
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

type PayrollServiceImpl struct {
	tx             payroll.Transactor
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	store          *ratetable.Store
	resolver       *Resolver
	aggregator     *Aggregator
	composer       *Composer
	metrics        *metrics.PayrollMetrics
	logger         *slog.Logger
	workers        int
	now            func() time.Time
}

// Option customizes a PayrollServiceImpl.
type Option func(*PayrollServiceImpl)

// WithWorkers bounds how many employees a batch run computes concurrently.
func WithWorkers(n int) Option {
	return func(s *PayrollServiceImpl) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithMetrics(m *metrics.PayrollMetrics) Option {
	return func(s *PayrollServiceImpl) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *PayrollServiceImpl) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *PayrollServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

func NewPayrollService(
	tx payroll.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	store *ratetable.Store,
	opts ...Option,
) payroll.PayrollService {
	resolver := NewResolver(store)
	s := &PayrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		store:          store,
		resolver:       resolver,
		aggregator:     NewAggregator(),
		composer:       NewComposer(resolver),
		logger:         slog.Default(),
		workers:        defaultWorkers,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ========== COMPUTATION ==========

func (s *PayrollServiceImpl) PreviewPayroll(ctx context.Context, req payroll.ComputePayrollRequest) (payroll.PayrollResultResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResultResponse{}, err
	}
	period, err := req.Period()
	if err != nil {
		return payroll.PayrollResultResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollResultResponse{}, err
	}

	result, err := s.computeOne(ctx, emp, period)
	if err != nil {
		return payroll.PayrollResultResponse{}, err
	}

	return mapToResultResponse(result), nil
}

func (s *PayrollServiceImpl) RunPayroll(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}
	period, err := req.Period()
	if err != nil {
		return payroll.RunResponse{}, err
	}

	// A missing table would fail every employee; refuse the run up front.
	if err := s.store.CheckCoverage(period.End); err != nil {
		return payroll.RunResponse{}, err
	}

	employees, err := s.employeeRepo.GetActive(ctx, req.EmployeeIDs)
	if err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}
	if len(employees) == 0 && len(req.EmployeeIDs) == 0 {
		return payroll.RunResponse{}, payroll.ErrNoEmployees
	}

	started := s.now()
	run := payroll.Run{
		ID:        newID(),
		Period:    period,
		Items:     s.computeAll(ctx, employees, period),
		CreatedAt: started,
	}
	run.Items = append(run.Items, missingItems(req.EmployeeIDs, employees)...)

	for i := range run.Items {
		if r := run.Items[i].Result; r != nil {
			r.ID = newID()
			r.RunID = run.ID
			r.ComputedAt = started
		}
	}
	run.Summarize()

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.payrollRepo.CreateRun(txCtx, run); err != nil {
			return fmt.Errorf("failed to create payroll run: %w", err)
		}
		for _, item := range run.Items {
			if item.Result == nil {
				continue
			}
			if _, err := s.payrollRepo.CreateResult(txCtx, *item.Result); err != nil {
				return fmt.Errorf("failed to create payroll result for employee %s: %w", item.EmployeeID, err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	s.record(run, s.now().Sub(started))
	return mapToRunResponse(run), nil
}

// computeAll prices every employee concurrently. Failures are captured on the
// employee's item and never cancel the others.
func (s *PayrollServiceImpl) computeAll(ctx context.Context, employees []employee.Employee, period payroll.Period) []payroll.RunItem {
	items := make([]payroll.RunItem, len(employees))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			items[i] = payroll.RunItem{EmployeeID: emp.ID}
			if err := gCtx.Err(); err != nil {
				items[i].Status = payroll.RunItemFailed
				items[i].Error = err.Error()
				return nil
			}

			result, err := s.computeOne(gCtx, emp, period)
			if err != nil {
				s.logger.WarnContext(gCtx, "payroll computation failed",
					slog.String("employee_id", emp.ID),
					slog.String("error", err.Error()),
				)
				items[i].Status = payroll.RunItemFailed
				items[i].Error = err.Error()
				return nil
			}

			items[i].Status = payroll.RunItemSucceeded
			items[i].Result = &result
			return nil
		})
	}
	_ = g.Wait()

	return items
}

func (s *PayrollServiceImpl) computeOne(ctx context.Context, emp employee.Employee, period payroll.Period) (payroll.PayrollResult, error) {
	if !emp.IsActive() {
		return payroll.PayrollResult{}, employee.ErrEmployeeNotActive
	}

	entries, err := s.attendanceRepo.ListByEmployee(ctx, emp.ID, period.Start, period.End)
	if err != nil {
		return payroll.PayrollResult{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	totals := s.aggregator.Aggregate(entries, emp.Rates())
	return s.composer.Compose(emp, totals, period)
}

// missingItems reports requested employees that were not found or are not
// active as failed items.
func missingItems(requested []string, found []employee.Employee) []payroll.RunItem {
	if len(requested) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(found))
	for _, emp := range found {
		seen[emp.ID] = true
	}

	var items []payroll.RunItem
	for _, id := range requested {
		if seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, payroll.RunItem{
			EmployeeID: id,
			Status:     payroll.RunItemFailed,
			Error:      employee.ErrEmployeeNotFound.Error(),
		})
	}
	return items
}

func (s *PayrollServiceImpl) record(run payroll.Run, elapsed time.Duration) {
	s.metrics.ObserveRun(elapsed)
	for _, item := range run.Items {
		s.metrics.IncResult(string(item.Status))
		if item.Result == nil {
			continue
		}
		for _, w := range item.Result.Warnings {
			s.metrics.IncWarning(string(w.Reason))
		}
	}

	s.logger.Info("payroll run completed",
		slog.String("run_id", run.ID),
		slog.String("period_start", run.Period.Start.Format("2006-01-02")),
		slog.String("period_end", run.Period.End.Format("2006-01-02")),
		slog.String("status", string(run.Status)),
		slog.Int("succeeded", run.SucceededCount),
		slog.Int("failed", run.FailedCount),
		slog.Duration("elapsed", elapsed),
	)
}

// ========== HISTORY ==========

func (s *PayrollServiceImpl) GetRun(ctx context.Context, id string) (payroll.RunResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, id)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	results, err := s.payrollRepo.ListResultsByRun(ctx, id)
	if err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to list payroll results: %w", err)
	}

	items := make([]payroll.RunItem, 0, len(results)+len(run.Items))
	for i := range results {
		items = append(items, payroll.RunItem{
			EmployeeID: results[i].EmployeeID,
			Status:     payroll.RunItemSucceeded,
			Result:     &results[i],
		})
	}
	// Stored run items hold only the failures.
	items = append(items, run.Items...)
	run.Items = items

	return mapToRunResponse(run), nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context, filter payroll.RunFilter) (payroll.ListRunResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListRunResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	runs, totalCount, err := s.payrollRepo.ListRuns(ctx, filter)
	if err != nil {
		return payroll.ListRunResponse{}, err
	}

	data := make([]payroll.RunResponse, 0, len(runs))
	for _, r := range runs {
		// Listing shows headers only.
		r.Items = nil
		data = append(data, mapToRunResponse(r))
	}

	return payroll.ListRunResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) GetResult(ctx context.Context, id string) (payroll.PayrollResultResponse, error) {
	result, err := s.payrollRepo.GetResultByID(ctx, id)
	if err != nil {
		return payroll.PayrollResultResponse{}, err
	}
	return mapToResultResponse(result), nil
}

// ========== RATE TABLES ==========

func (s *PayrollServiceImpl) ResolveContributions(ctx context.Context, req payroll.ContributionsRequest) (payroll.ContributionsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ContributionsResponse{}, err
	}

	salary, err := decimal.NewFromString(req.MonthlySalary)
	if err != nil {
		return payroll.ContributionsResponse{}, payroll.ErrInvalidSalary
	}
	asOf, err := s.asOf(req.AsOf)
	if err != nil {
		return payroll.ContributionsResponse{}, err
	}

	d, err := s.resolver.Contributions(salary, asOf)
	if err != nil {
		return payroll.ContributionsResponse{}, err
	}

	return payroll.ContributionsResponse{
		MonthlySalary: salary,
		AsOf:          asOf.Format("2006-01-02"),
		SSS:           mapToContributionResponse(d.SSS),
		PhilHealth:    mapToContributionResponse(d.PhilHealth),
		PagIBIG:       mapToContributionResponse(d.PagIBIG),
		TotalEmployee: d.EmployeeTotal(),
		TotalEmployer: d.SSS.Employer.Add(d.PhilHealth.Employer).Add(d.PagIBIG.Employer),
	}, nil
}

func (s *PayrollServiceImpl) ListRateTables(ctx context.Context, req ratetable.ListRateTablesRequest) ([]ratetable.VersionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	asOf, err := s.asOf(req.AsOf)
	if err != nil {
		return nil, err
	}

	kinds := ratetable.Kinds
	if req.Kind != "" {
		kind, err := ratetable.ParseKind(req.Kind)
		if err != nil {
			return nil, err
		}
		kinds = []ratetable.Kind{kind}
	}

	if req.History {
		versions := make([]ratetable.VersionResponse, 0, len(kinds))
		for _, kind := range kinds {
			for _, v := range s.store.Versions(kind) {
				versions = append(versions, v.ToResponse())
			}
		}
		return versions, nil
	}

	var (
		versions = make([]ratetable.VersionResponse, 0, len(kinds))
		missing  []error
	)
	for _, kind := range kinds {
		v, err := s.store.Active(kind, asOf)
		if err != nil {
			missing = append(missing, err)
			continue
		}
		versions = append(versions, v.ToResponse())
	}
	if len(versions) == 0 && len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	return versions, nil
}

// asOf parses an optional YYYY-MM-DD date, defaulting to today.
func (s *PayrollServiceImpl) asOf(value string) (time.Time, error) {
	if value == "" {
		y, m, d := s.now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as_of date: %w", err)
	}
	return t, nil
}

// ========== HELPERS ==========

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func mapToContributionResponse(c payroll.Contribution) payroll.ContributionResponse {
	return payroll.ContributionResponse{Employee: c.Employee, Employer: c.Employer, Total: c.Total}
}

func mapToWarningResponses(warnings []payroll.EntryWarning) []payroll.WarningResponse {
	if len(warnings) == 0 {
		return nil
	}
	result := make([]payroll.WarningResponse, 0, len(warnings))
	for _, w := range warnings {
		var workDate *string
		if !w.WorkDate.IsZero() {
			str := w.WorkDate.Format("2006-01-02")
			workDate = &str
		}
		result = append(result, payroll.WarningResponse{
			EntryID:  w.EntryID,
			WorkDate: workDate,
			Reason:   string(w.Reason),
			Message:  w.Message,
		})
	}
	return result
}

func mapToResultResponse(r payroll.PayrollResult) payroll.PayrollResultResponse {
	var computedAt *string
	if !r.ComputedAt.IsZero() {
		str := r.ComputedAt.Format(time.RFC3339)
		computedAt = &str
	}

	employeeName := ""
	employeeCode := ""
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}
	if r.EmployeeCode != nil {
		employeeCode = *r.EmployeeCode
	}

	return payroll.PayrollResultResponse{
		ID:             r.ID,
		RunID:          r.RunID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   employeeName,
		EmployeeCode:   employeeCode,
		PeriodStart:    r.Period.Start.Format("2006-01-02"),
		PeriodEnd:      r.Period.End.Format("2006-01-02"),
		PeriodDays:     r.PeriodDays,
		MonthlySalary:  r.MonthlySalary.Round(2),
		DailyRate:      r.DailyRate.Round(2),
		HourlyRate:     r.HourlyRate.Round(2),
		DaysWorked:     r.Totals.DaysWorked,
		HolidayDays:    r.Totals.HolidayDays,
		RegularHours:   r.Totals.RegularHours,
		RegularPay:     r.Totals.RegularPay,
		OvertimeHours:  r.Totals.OvertimeHours,
		OvertimePay:    r.Totals.OvertimePay,
		NightDiffHours: r.Totals.NightDiffHours,
		NightDiffPay:   r.Totals.NightDiffPay,
		HolidayPay:     r.Totals.HolidayPay,
		GrossPay:       r.GrossPay,
		SSS:            mapToContributionResponse(r.Deductions.SSS),
		PhilHealth:     mapToContributionResponse(r.Deductions.PhilHealth),
		PagIBIG:        mapToContributionResponse(r.Deductions.PagIBIG),
		TotalDeduction: r.TotalDeduction,
		TaxableIncome:  r.TaxableIncome,
		WithholdingTax: r.WithholdingTax,
		NetPay:         r.NetPay,
		Warnings:       mapToWarningResponses(r.Warnings),
		ComputedAt:     computedAt,
	}
}

func mapToRunResponse(r payroll.Run) payroll.RunResponse {
	var items []payroll.RunItemResponse
	for _, item := range r.Items {
		resp := payroll.RunItemResponse{
			EmployeeID: item.EmployeeID,
			Status:     string(item.Status),
			Error:      item.Error,
		}
		if item.Result != nil {
			result := mapToResultResponse(*item.Result)
			resp.Result = &result
		}
		items = append(items, resp)
	}

	return payroll.RunResponse{
		ID:             r.ID,
		PeriodStart:    r.Period.Start.Format("2006-01-02"),
		PeriodEnd:      r.Period.End.Format("2006-01-02"),
		Status:         string(r.Status),
		EmployeeCount:  r.EmployeeCount,
		SucceededCount: r.SucceededCount,
		FailedCount:    r.FailedCount,
		TotalGross:     r.TotalGross,
		TotalNet:       r.TotalNet,
		Items:          items,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}
