package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mmss/internal/metrics"
)

// Instruments bundles the Prometheus collectors the server exports, on a
// private registry so tests never collide on the global one.
type Instruments struct {
	Registry *prometheus.Registry

	TasksSubmitted prometheus.Counter
	TasksExecuted  *prometheus.CounterVec
	CampaignsRun   prometheus.Counter
	CoreMetrics    *prometheus.GaugeVec
}

// NewInstruments creates the collectors on a fresh registry.
func NewInstruments() *Instruments {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Instruments{
		Registry: reg,
		TasksSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mmss",
			Name:      "tasks_submitted_total",
			Help:      "Tasks accepted into the store.",
		}),
		TasksExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mmss",
			Name:      "tasks_executed_total",
			Help:      "Tasks executed, by terminal status.",
		}, []string{"status"}),
		CampaignsRun: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mmss",
			Name:      "campaigns_total",
			Help:      "Research campaigns run.",
		}),
		CoreMetrics: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "mmss",
			Name:      "metric_value",
			Help:      "Current value of each core geometric metric.",
		}, []string{"name"}),
	}
}

// Observe publishes the snapshot's core values to the gauges.
func (i *Instruments) Observe(snap metrics.Snapshot) {
	for name, value := range snap.CoreValues() {
		i.CoreMetrics.WithLabelValues(name).Set(value)
	}
}
