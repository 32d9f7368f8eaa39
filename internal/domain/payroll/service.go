package payroll

import (
	"context"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/ratetable"
)

// PayrollService defines payroll computation and history operations
type PayrollService interface {
	// PreviewPayroll computes one employee's payroll without storing it
	PreviewPayroll(ctx context.Context, req ComputePayrollRequest) (PayrollResultResponse, error)

	// RunPayroll computes and stores payroll for many employees over one period.
	// A failure for one employee is recorded on its item and does not stop the run.
	RunPayroll(ctx context.Context, req RunPayrollRequest) (RunResponse, error)

	GetRun(ctx context.Context, id string) (RunResponse, error)
	ListRuns(ctx context.Context, filter RunFilter) (ListRunResponse, error)
	GetResult(ctx context.Context, id string) (PayrollResultResponse, error)

	// ResolveContributions previews the statutory deductions for a monthly salary
	ResolveContributions(ctx context.Context, req ContributionsRequest) (ContributionsResponse, error)

	// ListRateTables returns the version of each table in effect on asOf
	ListRateTables(ctx context.Context, req ratetable.ListRateTablesRequest) ([]ratetable.VersionResponse, error)
}
