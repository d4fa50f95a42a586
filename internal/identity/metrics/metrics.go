package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks account and session activity.
type Metrics struct {
	SignUps      prometheus.Counter
	SignIns      *prometheus.CounterVec
	SignOuts     prometheus.Counter
	UsersDeleted prometheus.Counter
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SignUps: f.NewCounter(prometheus.CounterOpts{
			Name: "ebhutanza_identity_signups_total",
			Help: "Total number of accounts created",
		}),
		SignIns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ebhutanza_identity_signins_total",
			Help: "Sign-in attempts by result",
		}, []string{"result"}),
		SignOuts: f.NewCounter(prometheus.CounterOpts{
			Name: "ebhutanza_identity_signouts_total",
			Help: "Total number of sign-outs",
		}),
		UsersDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "ebhutanza_identity_users_deleted_total",
			Help: "Total number of deleted accounts",
		}),
	}
}

func (m *Metrics) IncrementSignUp()              { m.SignUps.Inc() }
func (m *Metrics) IncrementSignIn(result string) { m.SignIns.WithLabelValues(result).Inc() }
func (m *Metrics) IncrementSignOut()             { m.SignOuts.Inc() }
func (m *Metrics) IncrementUserDeleted()         { m.UsersDeleted.Inc() }
