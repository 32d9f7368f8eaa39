package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "payroll"

// PayrollMetrics records batch run health. A nil *PayrollMetrics is valid and
// records nothing.
type PayrollMetrics struct {
	runDuration   prometheus.Histogram
	results       *prometheus.CounterVec
	entryWarnings *prometheus.CounterVec
	coverage      *prometheus.GaugeVec
}

// NewPayrollMetrics creates the collectors and registers them on registerer,
// falling back to the default registerer when nil.
func NewPayrollMetrics(registerer prometheus.Registerer) *PayrollMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &PayrollMetrics{
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a batch payroll run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Per-employee payroll outcomes of batch runs.",
		}, []string{"status"}),
		entryWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entry_warnings_total",
			Help:      "Warnings raised while computing payroll results.",
		}, []string{"reason"}),
		coverage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_table_coverage",
			Help:      "1 when every rate table has a version in effect at the checked horizon, else 0.",
		}, []string{"horizon"}),
	}

	registerer.MustRegister(m.runDuration, m.results, m.entryWarnings, m.coverage)
	return m
}

func (m *PayrollMetrics) ObserveRun(d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
}

func (m *PayrollMetrics) IncResult(status string) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(status).Inc()
}

func (m *PayrollMetrics) IncWarning(reason string) {
	if m == nil {
		return
	}
	m.entryWarnings.WithLabelValues(reason).Inc()
}

// SetCoverage records whether all rate tables are in effect at the named
// horizon ("today", "lookahead").
func (m *PayrollMetrics) SetCoverage(horizon string, ok bool) {
	if m == nil {
		return
	}
	v := 0.0
	if ok {
		v = 1
	}
	m.coverage.WithLabelValues(horizon).Set(v)
}
