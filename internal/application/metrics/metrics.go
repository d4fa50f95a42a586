package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the application draft tracker.
type Metrics struct {
	FieldChanges     prometheus.Counter
	Submissions      prometheus.Counter
	DraftResets      prometheus.Counter
	PersistFailures  *prometheus.CounterVec
	LegacyMigrations prometheus.Counter
	MalformedDrafts  prometheus.Counter
	LoadDuration     prometheus.Histogram
	SaveDuration     prometheus.Histogram
}

// New registers the tracker metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the tracker metrics with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	buckets := []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}
	return &Metrics{
		FieldChanges: f.NewCounter(prometheus.CounterOpts{
			Name: "ebhutanza_application_field_changes_total",
			Help: "Total number of recorded draft field changes",
		}),
		Submissions: f.NewCounter(prometheus.CounterOpts{
			Name: "ebhutanza_application_submissions_total",
			Help: "Total number of application submissions, including repeats",
		}),
		DraftResets: f.NewCounter(prometheus.CounterOpts{
			Name: "ebhutanza_application_draft_resets_total",
			Help: "Total number of explicit new-draft resets",
		}),
		PersistFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ebhutanza_application_persist_failures_total",
			Help: "Draft writes that could not be persisted, by operation",
		}, []string{"operation"}),
		LegacyMigrations: f.NewCounter(prometheus.CounterOpts{
			Name: "ebhutanza_application_legacy_migrations_total",
			Help: "Drafts copied from the legacy global keys into a user's keys",
		}),
		MalformedDrafts: f.NewCounter(prometheus.CounterOpts{
			Name: "ebhutanza_application_malformed_drafts_total",
			Help: "Stored drafts that failed to parse and were treated as empty",
		}),
		LoadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ebhutanza_application_load_duration_seconds",
			Help:    "Duration of LoadDraft operations",
			Buckets: buckets,
		}),
		SaveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ebhutanza_application_save_duration_seconds",
			Help:    "Duration of draft writes",
			Buckets: buckets,
		}),
	}
}

func (m *Metrics) IncrementFieldChange() { m.FieldChanges.Inc() }
func (m *Metrics) IncrementSubmission()  { m.Submissions.Inc() }
func (m *Metrics) IncrementReset()       { m.DraftResets.Inc() }
func (m *Metrics) IncrementMigration()   { m.LegacyMigrations.Inc() }
func (m *Metrics) IncrementMalformed()   { m.MalformedDrafts.Inc() }

// IncrementPersistFailure records a failed write for operation.
func (m *Metrics) IncrementPersistFailure(operation string) {
	m.PersistFailures.WithLabelValues(operation).Inc()
}

// ObserveLoad records the duration of a load. Call with time.Now() at the start.
func (m *Metrics) ObserveLoad(start time.Time) {
	m.LoadDuration.Observe(time.Since(start).Seconds())
}

// ObserveSave records the duration of a write. Call with time.Now() at the start.
func (m *Metrics) ObserveSave(start time.Time) {
	m.SaveDuration.Observe(time.Since(start).Seconds())
}
