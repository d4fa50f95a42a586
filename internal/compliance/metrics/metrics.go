package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for compliance assessments.
type Metrics struct {
	Assessments  *prometheus.CounterVec
	RiskLevels   *prometheus.CounterVec
	ModelLatency prometheus.Histogram
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Assessments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ebhutanza_compliance_assessments_total",
			Help: "Compliance assessments by result (success, model_error, invalid_output)",
		}, []string{"result"}),
		RiskLevels: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ebhutanza_compliance_risk_levels_total",
			Help: "Successful assessments by overall risk level",
		}, []string{"level"}),
		ModelLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ebhutanza_compliance_model_latency_seconds",
			Help:    "Latency of model calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}),
	}
}

func (m *Metrics) IncrementAssessment(result string) {
	m.Assessments.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementRiskLevel(level string) {
	m.RiskLevels.WithLabelValues(level).Inc()
}

func (m *Metrics) ObserveModelLatency(start time.Time) {
	m.ModelLatency.Observe(time.Since(start).Seconds())
}
