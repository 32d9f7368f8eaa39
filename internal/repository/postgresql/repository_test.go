package postgresql_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/ratetable"
	"github.com/cmlabs-hris/payroll-ph/internal/fixtures"
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-ph/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests need a disposable PostgreSQL database in TEST_DATABASE_URL.
// testdata/schema.sql is applied and every table is truncated first.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	schema, err := os.ReadFile("testdata/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err)
	_, err = db.Exec(ctx, "TRUNCATE TABLE payroll_results, payroll_runs, attendances, rate_brackets, employees CASCADE")
	require.NoError(t, err)

	return db
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func insertEmployee(t *testing.T, db *database.DB, code, status string, monthly string) string {
	t.Helper()
	id := newID()
	_, err := db.Exec(context.Background(), `
		INSERT INTO employees (id, employee_code, full_name, employment_status, rate_basis, base_monthly_salary, hire_date)
		VALUES ($1, $2, $3, $4, 'monthly', $5, '2023-01-09')
	`, id, code, "Employee "+code, status, decimal.RequireFromString(monthly))
	require.NoError(t, err)
	return id
}

func TestEmployeeRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewEmployeeRepository(db)
	ctx := context.Background()

	alpha := insertEmployee(t, db, "E-001", "active", "25000")
	bravo := insertEmployee(t, db, "E-002", "resigned", "18000")
	charlie := insertEmployee(t, db, "E-003", "active", "40000")

	t.Run("get by id", func(t *testing.T) {
		emp, err := repo.GetByID(ctx, alpha)
		require.NoError(t, err)
		assert.Equal(t, "E-001", emp.EmployeeCode)
		assert.Equal(t, employee.RateBasisMonthly, emp.RateBasis)
		assert.True(t, decimal.NewFromInt(25000).Equal(emp.BaseMonthlySalary))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, newID())
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("active only", func(t *testing.T) {
		emps, err := repo.GetActive(ctx, nil)
		require.NoError(t, err)
		require.Len(t, emps, 2)
		assert.Equal(t, alpha, emps[0].ID)
		assert.Equal(t, charlie, emps[1].ID)
	})

	t.Run("active subset", func(t *testing.T) {
		emps, err := repo.GetActive(ctx, []string{bravo, charlie})
		require.NoError(t, err)
		require.Len(t, emps, 1)
		assert.Equal(t, charlie, emps[0].ID)
	})
}

func TestAttendanceRepository_ListByEmployee(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	empID := insertEmployee(t, db, "E-001", "active", "25000")
	insert := func(workDate, timeIn string, timeOut *string, dayType string) {
		_, err := db.Exec(ctx, `
			INSERT INTO attendances (id, employee_id, work_date, time_in, time_out, break_minutes, day_type)
			VALUES ($1, $2, $3::date, $4, $5, 60, $6)
		`, newID(), empID, workDate, timeIn, timeOut, dayType)
		require.NoError(t, err)
	}
	out := "17:00"
	insert("2024-01-02", "08:00", &out, "regular")
	insert("2024-01-03", "08:00", nil, "rest_day")
	insert("2024-01-04", "08:00", &out, "leap_day")
	insert("2024-01-20", "08:00", &out, "regular")

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	entries, err := repo.ListByEmployee(ctx, empID, start, end)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, attendance.DayTypeRegular, entries[0].DayType)
	assert.Equal(t, "17:00", entries[0].TimeOut)
	assert.Equal(t, "", entries[1].TimeOut)
	assert.Equal(t, attendance.DayTypeRestDay, entries[1].DayType)
	assert.Equal(t, attendance.DayType(0), entries[2].DayType)
	assert.False(t, entries[0].NightDifferentialHours.Valid)
}

func TestRateTableRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewRateTableRepository(db)
	tx := postgresql.NewTransactor(db)
	ctx := context.Background()

	brackets, err := fixtures.ReferenceRateTables()
	require.NoError(t, err)

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return repo.CreateBrackets(ctx, brackets)
	})
	require.NoError(t, err)

	loaded, err := repo.ListBrackets(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, len(brackets))

	store, err := ratetable.NewStore(loaded)
	require.NoError(t, err)

	asOf := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.CheckCoverage(asOf))

	b, err := store.Lookup(ratetable.KindSSS, decimal.NewFromInt(25000), asOf)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1125").Equal(b.EmployeeShare))
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewRateTableRepository(db)
	tx := postgresql.NewTransactor(db)
	ctx := context.Background()

	brackets, err := fixtures.ReferenceRateTables()
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.CreateBrackets(ctx, brackets); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	loaded, err := repo.ListBrackets(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestPayrollRepository_RunsAndResults(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewPayrollRepository(db)
	ctx := context.Background()

	alpha := insertEmployee(t, db, "E-001", "active", "25000")
	bravo := insertEmployee(t, db, "E-002", "active", "18000")

	period, err := payroll.NewPeriod(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	computedAt := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	result := payroll.PayrollResult{
		ID:            newID(),
		EmployeeID:    alpha,
		Period:        period,
		PeriodDays:    period.Days(),
		MonthlySalary: decimal.NewFromInt(25000),
		DailyRate:     decimal.RequireFromString("1136.3636"),
		HourlyRate:    decimal.RequireFromString("142.0455"),
		Totals: payroll.PeriodTotals{
			RegularHours:   decimal.RequireFromString("22.3333"),
			RegularPay:     decimal.RequireFromString("3409.09"),
			OvertimeHours:  decimal.RequireFromString("1.6667"),
			NightDiffHours: decimal.RequireFromString("0.3333"),
			DaysWorked:     3,
		},
		GrossPay: decimal.RequireFromString("3409.09"),
		Deductions: payroll.Deductions{
			SSS:        payroll.NewContribution(decimal.NewFromInt(1125), decimal.NewFromInt(2405)),
			PhilHealth: payroll.NewContribution(decimal.NewFromInt(562), decimal.NewFromInt(563)),
			PagIBIG:    payroll.NewContribution(decimal.NewFromInt(100), decimal.NewFromInt(100)),
		},
		TotalDeduction: decimal.RequireFromString("1787"),
		TaxableIncome:  decimal.RequireFromString("1622.09"),
		WithholdingTax: decimal.Zero,
		NetPay:         decimal.RequireFromString("1622.09"),
		Warnings: []payroll.EntryWarning{{
			EntryID:  newID(),
			WorkDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Reason:   payroll.WarningOpenClockIn,
			Message:  "no clock-out recorded",
		}},
		ComputedAt: computedAt,
	}

	run := payroll.Run{
		ID:     newID(),
		Period: period,
		Items: []payroll.RunItem{
			{EmployeeID: alpha, Status: payroll.RunItemSucceeded, Result: &result},
			{EmployeeID: bravo, Status: payroll.RunItemFailed, Error: "failed to list attendance: timeout"},
		},
		CreatedAt: computedAt,
	}
	run.Summarize()
	result.RunID = run.ID

	_, err = repo.CreateRun(ctx, run)
	require.NoError(t, err)
	_, err = repo.CreateResult(ctx, result)
	require.NoError(t, err)

	t.Run("get run keeps failures", func(t *testing.T) {
		got, err := repo.GetRunByID(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, payroll.RunStatusPartial, got.Status)
		assert.Equal(t, 1, got.SucceededCount)
		assert.Equal(t, 1, got.FailedCount)
		require.Len(t, got.Items, 1)
		assert.Equal(t, bravo, got.Items[0].EmployeeID)
		assert.Equal(t, payroll.RunItemFailed, got.Items[0].Status)
	})

	t.Run("get result", func(t *testing.T) {
		got, err := repo.GetResultByID(ctx, result.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, got.RunID)
		assert.True(t, result.NetPay.Equal(got.NetPay))
		assert.True(t, decimal.NewFromInt(3530).Equal(got.Deductions.SSS.Total))
		assert.True(t, result.Totals.RegularHours.Equal(got.Totals.RegularHours), "regular hours %s", got.Totals.RegularHours)
		assert.True(t, result.Totals.OvertimeHours.Equal(got.Totals.OvertimeHours), "overtime hours %s", got.Totals.OvertimeHours)
		assert.True(t, result.Totals.NightDiffHours.Equal(got.Totals.NightDiffHours), "night hours %s", got.Totals.NightDiffHours)
		require.Len(t, got.Warnings, 1)
		assert.Equal(t, payroll.WarningOpenClockIn, got.Warnings[0].Reason)
		require.NotNil(t, got.EmployeeCode)
		assert.Equal(t, "E-001", *got.EmployeeCode)
	})

	t.Run("list results by run", func(t *testing.T) {
		got, err := repo.ListResultsByRun(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, alpha, got[0].EmployeeID)
	})

	t.Run("list runs with filter", func(t *testing.T) {
		status := string(payroll.RunStatusPartial)
		runs, total, err := repo.ListRuns(ctx, payroll.RunFilter{Status: &status, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, runs, 1)

		completed := string(payroll.RunStatusCompleted)
		runs, total, err = repo.ListRuns(ctx, payroll.RunFilter{Status: &completed})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, runs)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetRunByID(ctx, newID())
		assert.ErrorIs(t, err, payroll.ErrPayrollRunNotFound)
		_, err = repo.GetResultByID(ctx, newID())
		assert.ErrorIs(t, err, payroll.ErrPayrollResultNotFound)
	})
}
