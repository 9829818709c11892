package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts user lookups and migration transitions.
type Recorder struct {
	migrations *prometheus.CounterVec
	lookups    *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		migrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "limelight",
			Name:      "user_migrations_total",
			Help:      "User record migrations by transition.",
		}, []string{"transition"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "limelight",
			Name:      "user_lookups_total",
			Help:      "User record lookups by key kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	reg.MustRegister(r.migrations, r.lookups)
	return r
}

func (r *Recorder) IncMigration(transition string) {
	r.migrations.WithLabelValues(transition).Inc()
}

func (r *Recorder) IncLookup(kind, outcome string) {
	r.lookups.WithLabelValues(kind, outcome).Inc()
}
