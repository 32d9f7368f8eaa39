package payroll

import "context"

// PayrollRepository stores runs and results. Results are insert-only.
type PayrollRepository interface {
	// Runs
	CreateRun(ctx context.Context, run Run) (Run, error)
	GetRunByID(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, int64, error)

	// Results
	CreateResult(ctx context.Context, result PayrollResult) (PayrollResult, error)
	GetResultByID(ctx context.Context, id string) (PayrollResult, error)
	ListResultsByRun(ctx context.Context, runID string) ([]PayrollResult, error)
}

// Transactor runs fn in a single database transaction. Repository calls made
// with the context handed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
