package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/ratetable"
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/metrics"
)

// RateTableJobs watches that the loaded rate tables cover today and the
// coming pay periods, so a missing table is noticed before a run fails on it.
type RateTableJobs struct {
	store     *ratetable.Store
	metrics   *metrics.PayrollMetrics
	logger    *slog.Logger
	lookahead time.Duration
	now       func() time.Time
}

func NewRateTableJobs(store *ratetable.Store, m *metrics.PayrollMetrics, logger *slog.Logger, lookahead time.Duration) *RateTableJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateTableJobs{
		store:     store,
		metrics:   m,
		logger:    logger,
		lookahead: lookahead,
		now:       time.Now,
	}
}

// CheckCoverage checks today and today plus the lookahead. It returns the
// coverage errors joined so the scheduler logs them as one failure.
func (j *RateTableJobs) CheckCoverage(ctx context.Context) error {
	today := j.now()
	var errs []error

	if err := j.store.CheckCoverage(today); err != nil {
		j.metrics.SetCoverage("today", false)
		errs = append(errs, err)
	} else {
		j.metrics.SetCoverage("today", true)
	}

	horizon := today.Add(j.lookahead)
	if err := j.store.CheckCoverage(horizon); err != nil {
		j.metrics.SetCoverage("lookahead", false)
		j.logger.WarnContext(ctx, "rate tables do not cover upcoming periods",
			slog.String("horizon", horizon.Format("2006-01-02")),
			slog.String("error", err.Error()),
		)
		errs = append(errs, err)
	} else {
		j.metrics.SetCoverage("lookahead", true)
	}

	return errors.Join(errs...)
}

func (j *RateTableJobs) Register(s *Scheduler, interval time.Duration) {
	s.AddJob("rate_table_coverage", interval, j.CheckCoverage)
}
