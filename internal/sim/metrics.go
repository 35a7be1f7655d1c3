package sim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Traffic: сколько циклов отработало и сколько выборок записано
	CyclesTotal  prometheus.Counter
	SamplesTotal prometheus.Counter

	// Errors: циклы, потерянные из-за недоступности хранилища
	SkippedCycles prometheus.Counter

	// Latency: длительность полного цикла (чтение + синтез + коммит)
	CycleDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern — если рег не передан, используем локальный,
	// который никуда не подключен (удобно в тестах)
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		CyclesTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fleetsim_heartbeat_cycles_total",
			Help: "Total number of completed heartbeat cycles.",
		}),
		SamplesTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fleetsim_heartbeat_samples_total",
			Help: "Total number of telemetry samples written by the simulator.",
		}),
		SkippedCycles: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fleetsim_heartbeat_skipped_cycles_total",
			Help: "Cycles lost because the store was unreachable.",
		}),
		CycleDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "fleetsim_heartbeat_cycle_duration_seconds",
			Help:    "Histogram of heartbeat cycle durations.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
	}
}
