// Package metrics exports fiber cycle stats to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/delaneyj/fiberparty/fiber"
)

// Recorder is a prometheus.Collector fed by fiber.WithObserver(rec.Observe).
type Recorder struct {
	cycles    prometheus.Counter
	duration  prometheus.Histogram
	ops       *prometheus.CounterVec
	liveNodes prometheus.Gauge
}

var _ prometheus.Collector = (*Recorder)(nil)

func New(namespace string) *Recorder {
	return &Recorder{
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Committed render cycles.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Time from begin phase to the last effect of a cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_ops_total",
			Help:      "Node operations by kind.",
		}, []string{"op"}),
		liveNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_nodes",
			Help:      "Nodes held by the arena after the last cycle.",
		}),
	}
}

// Observe records one cycle. It has the signature of fiber.Observer.
func (r *Recorder) Observe(s fiber.CycleStats) {
	r.cycles.Inc()
	r.duration.Observe(s.Duration.Seconds())
	r.liveNodes.Set(float64(s.LiveNodes))
	for op, n := range map[string]int{
		"rendered":     s.Rendered,
		"bailout":      s.Bailouts,
		"created":      s.Created,
		"placed":       s.Placed,
		"updated":      s.Updated,
		"deleted":      s.Deleted,
		"setup":        s.Setups,
		"teardown":     s.Teardowns,
		"effect_error": s.EffectErrors,
	} {
		r.ops.WithLabelValues(op).Add(float64(n))
	}
}

func (r *Recorder) Describe(ch chan<- *prometheus.Desc) {
	r.cycles.Describe(ch)
	r.duration.Describe(ch)
	r.ops.Describe(ch)
	r.liveNodes.Describe(ch)
}

func (r *Recorder) Collect(ch chan<- prometheus.Metric) {
	r.cycles.Collect(ch)
	r.duration.Collect(ch)
	r.ops.Collect(ch)
	r.liveNodes.Collect(ch)
}
