package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string

	// MetricsHandler is mounted at MetricsPath when non-nil.
	MetricsHandler http.Handler
	MetricsPath    string
}

func NewRouter(cfg RouterConfig, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/payroll", func(r chi.Router) {
			r.With(chiMiddleware.AllowContentType("application/json")).Post("/preview", payrollHandler.PreviewPayroll)

			r.Route("/runs", func(r chi.Router) {
				r.With(chiMiddleware.AllowContentType("application/json")).Post("/", payrollHandler.RunPayroll)
				r.Get("/", payrollHandler.ListRuns)
				r.Get("/{id}", payrollHandler.GetRun)
			})

			r.Get("/results/{id}", payrollHandler.GetResult)
			r.Get("/contributions", payrollHandler.ResolveContributions)
		})

		r.Get("/rate-tables", payrollHandler.ListRateTables)
	})
	return r
}

// NewLogger builds the JSON request logger used by the router, with ECS field
// names and the given static attributes.
func NewLogger(w io.Writer, level slog.Level, attrs ...slog.Attr) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})
	return slog.New(handler.WithAttrs(attrs))
}
