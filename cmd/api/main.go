package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/config"
	"github.com/cmlabs-hris/payroll-ph/internal/domain/ratetable"
	"github.com/cmlabs-hris/payroll-ph/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/payroll-ph/internal/handler/http"
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/metrics"
	"github.com/cmlabs-hris/payroll-ph/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/payroll-ph/internal/service/payroll"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	coverageCheckInterval = 12 * time.Hour
	coverageLookahead     = 31 * 24 * time.Hour
	shutdownTimeout       = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(os.Stdout, parseLevel(cfg.App.LogLevel),
		slog.String("app", "payroll-ph"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	rateTableRepo := postgresql.NewRateTableRepository(db)

	brackets, err := loadRateTables(ctx, cfg.Payroll, rateTableRepo, transactor.WithinTransaction, logger)
	if err != nil {
		return err
	}
	store, err := ratetable.NewStore(brackets)
	if err != nil {
		return fmt.Errorf("failed to build rate tables: %w", err)
	}
	if err := store.CheckCoverage(time.Now()); err != nil {
		// Runs for covered periods still work; runs for today fail fast.
		logger.Warn("Rate tables do not cover today", slog.String("error", err.Error()))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	payrollMetrics := metrics.NewPayrollMetrics(registry)

	payrollSvc := payrollService.NewPayrollService(
		transactor,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		store,
		payrollService.WithWorkers(cfg.Payroll.Workers),
		payrollService.WithMetrics(payrollMetrics),
		payrollService.WithLogger(logger),
	)

	scheduler := cron.NewScheduler(logger)
	cron.NewRateTableJobs(store, payrollMetrics, logger, coverageLookahead).Register(scheduler, coverageCheckInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	routerCfg := appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	router := appHTTP.NewRouter(routerCfg, appHTTP.NewPayrollHandler(payrollSvc))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server running", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down server")
	return server.Shutdown(shutdownCtx)
}

// loadRateTables reads brackets from the configured source. An empty
// rate_brackets table is seeded with the embedded reference tables.
func loadRateTables(
	ctx context.Context,
	cfg config.PayrollConfig,
	repo ratetable.RateTableRepository,
	withinTx func(ctx context.Context, fn func(ctx context.Context) error) error,
	logger *slog.Logger,
) ([]ratetable.Bracket, error) {
	switch cfg.RateTableSource {
	case config.RateTableSourceFile:
		logger.Info("Loading rate tables from file", slog.String("path", cfg.RateTablePath))
		return fixtures.LoadRateTablesFile(cfg.RateTablePath)

	case config.RateTableSourceDatabase:
		brackets, err := repo.ListBrackets(ctx)
		if err != nil {
			return nil, err
		}
		if len(brackets) > 0 {
			logger.Info("Loaded rate tables from database", slog.Int("brackets", len(brackets)))
			return brackets, nil
		}

		brackets, err = fixtures.ReferenceRateTables()
		if err != nil {
			return nil, err
		}
		err = withinTx(ctx, func(ctx context.Context) error {
			return repo.CreateBrackets(ctx, brackets)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed rate tables: %w", err)
		}
		logger.Info("Seeded rate tables from reference data", slog.Int("brackets", len(brackets)))
		return brackets, nil

	default:
		return fixtures.ReferenceRateTables()
	}
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
