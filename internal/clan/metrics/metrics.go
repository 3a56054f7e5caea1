package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the clan module.
type Metrics struct {
	ClansCreated     prometheus.Counter
	ClansDisbanded   prometheus.Counter
	MembersJoined    prometheus.Counter
	MembersRemoved   *prometheus.CounterVec
	SanctionsFired   *prometheus.CounterVec
	MutationDuration *prometheus.HistogramVec
	PersistenceFails prometheus.Counter
}

// New creates and registers all clan module metrics.
func New() *Metrics {
	return &Metrics{
		ClansCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clanhall_clans_created_total",
			Help: "Total number of clans created",
		}),
		ClansDisbanded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clanhall_clans_disbanded_total",
			Help: "Total number of clans disbanded",
		}),
		MembersJoined: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clanhall_members_joined_total",
			Help: "Total number of memberships created",
		}),
		MembersRemoved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clanhall_members_removed_total",
			Help: "Total number of memberships removed, by reason",
		}, []string{"reason"}),
		SanctionsFired: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clanhall_sanctions_fired_total",
			Help: "Total number of sanction tiers fired, by tier",
		}, []string{"tier"}),
		MutationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clanhall_mutation_duration_seconds",
			Help:    "Duration of clan mutation operations including the gateway write",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),
		PersistenceFails: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clanhall_persistence_failures_total",
			Help: "Total number of gateway writes that failed and aborted a mutation",
		}),
	}
}

// ObserveMutation records the duration of one mutation operation.
func (m *Metrics) ObserveMutation(op string, start time.Time) {
	m.MutationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
