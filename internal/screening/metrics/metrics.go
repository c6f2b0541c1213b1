package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the screening engine. All methods are
// nil-safe so wiring metrics stays optional in tests.
type Metrics struct {
	// Phase execution latency by phase level.
	PhaseDuration *prometheus.HistogramVec

	// Phase outcomes by level and result ("ok", "error").
	PhaseOutcome *prometheus.CounterVec

	// Phases exceeding their soft time budget, by level. The budget is an
	// observability signal, not a deadline; this counter is its alert feed.
	BudgetOverruns *prometheus.CounterVec

	// Terminal run statuses.
	RunsTotal *prometheus.CounterVec

	// Currently executing runs and attached subscribers.
	ActiveRuns        prometheus.Gauge
	ActiveSubscribers prometheus.Gauge

	// Events dropped because a subscriber fell behind.
	EventsDropped prometheus.Counter
}

// New creates a new Metrics instance with all screening metrics registered.
func New() *Metrics {
	return &Metrics{
		PhaseDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lexscreen_screening_phase_duration_seconds",
			Help:    "Duration of screening phases by level",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"phase"}),

		PhaseOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lexscreen_screening_phase_outcomes_total",
			Help: "Total screening phase outcomes by level and result",
		}, []string{"phase", "result"}),

		BudgetOverruns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lexscreen_screening_budget_overruns_total",
			Help: "Screening phases that exceeded their soft time budget",
		}, []string{"phase"}),

		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lexscreen_screening_runs_total",
			Help: "Total screening runs by terminal status",
		}, []string{"status"}),

		ActiveRuns: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "lexscreen_screening_active_runs",
			Help: "Screening runs currently executing",
		}),

		ActiveSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "lexscreen_screening_active_subscribers",
			Help: "Subscribers currently attached to run streams",
		}),

		EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexscreen_screening_events_dropped_total",
			Help: "Events dropped because a subscriber buffer was full",
		}),
	}
}

// ObservePhase records one executed phase.
func (m *Metrics) ObservePhase(phase string, d time.Duration, overBudget bool, err error) {
	if m == nil {
		return
	}
	m.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.PhaseOutcome.WithLabelValues(phase, result).Inc()
	if overBudget {
		m.BudgetOverruns.WithLabelValues(phase).Inc()
	}
}

// IncrementRun records a terminal run status.
func (m *Metrics) IncrementRun(status string) {
	if m != nil {
		m.RunsTotal.WithLabelValues(status).Inc()
	}
}

// RunStarted / RunFinished track the active-run gauge.
func (m *Metrics) RunStarted() {
	if m != nil {
		m.ActiveRuns.Inc()
	}
}

func (m *Metrics) RunFinished() {
	if m != nil {
		m.ActiveRuns.Dec()
	}
}

// SubscriberAttached / SubscriberDetached track the subscriber gauge.
func (m *Metrics) SubscriberAttached() {
	if m != nil {
		m.ActiveSubscribers.Inc()
	}
}

func (m *Metrics) SubscriberDetached() {
	if m != nil {
		m.ActiveSubscribers.Dec()
	}
}

// IncrementDropped records one dropped subscriber event.
func (m *Metrics) IncrementDropped() {
	if m != nil {
		m.EventsDropped.Inc()
	}
}
