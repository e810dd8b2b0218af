// Package metrics exposes Prometheus gauges for observability (§6.4),
// updated by the host between ticks — never from inside the kernel's
// deterministic tick loop.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every gauge the kernel host updates once per tick.
type Registry struct {
	TickDuration  prometheus.Histogram
	Population    prometheus.Gauge
	ActiveEvents  prometheus.Gauge
	FactionCount  prometheus.Gauge
	SpeciesCount  prometheus.Gauge
	TickCounter   prometheus.Counter
}

// NewRegistry constructs and registers every gauge against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	m := &Registry{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "biotica",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of one kernel tick.",
			Buckets:   prometheus.DefBuckets,
		}),
		Population: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "biotica",
			Name:      "creature_population",
			Help:      "Current live creature count.",
		}),
		ActiveEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "biotica",
			Name:      "active_events",
			Help:      "Current count of active world events.",
		}),
		FactionCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "biotica",
			Name:      "faction_count",
			Help:      "Current number of founded factions.",
		}),
		SpeciesCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "biotica",
			Name:      "species_count",
			Help:      "Current number of registered species.",
		}),
		TickCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "biotica",
			Name:      "ticks_total",
			Help:      "Total number of ticks advanced since process start.",
		}),
	}
	reg.MustRegister(m.TickDuration, m.Population, m.ActiveEvents, m.FactionCount, m.SpeciesCount, m.TickCounter)
	return m
}

// Sample is a read-only view of kernel counts taken between ticks,
// decoupling metrics from any specific kernel type.
type Sample struct {
	Population   int
	ActiveEvents int
	FactionCount int
	SpeciesCount int
}

// Observe records one tick's duration and updates the point-in-time gauges
// from sample. Called by the host loop after a tick commits, never from
// inside the tick itself.
func (m *Registry) Observe(tickSeconds float64, sample Sample) {
	m.TickDuration.Observe(tickSeconds)
	m.TickCounter.Inc()
	m.Population.Set(float64(sample.Population))
	m.ActiveEvents.Set(float64(sample.ActiveEvents))
	m.FactionCount.Set(float64(sample.FactionCount))
	m.SpeciesCount.Set(float64(sample.SpeciesCount))
}
