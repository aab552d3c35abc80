package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/superKazi/awal-lazard/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use so an unused
// collector never touches the registerer.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	refreshes          prometheus.Counter
	invalidParameters  *prometheus.CounterVec
	recomputes         *prometheus.CounterVec
	recomputeLatency   prometheus.Histogram
	derivations        *prometheus.CounterVec
	derivationLatency  prometheus.Histogram
	busy               prometheus.Gauge
	eventClients       prometheus.Gauge
	eventsDropped      prometheus.Counter
	snapshotPublishes  *prometheus.CounterVec
	snapshotPutLatency prometheus.Histogram
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace (defaults to "dashboard" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "dashboard"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.refreshes = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "control",
			Name:      "refreshes_total",
			Help:      "Total refresh triggers from the control panel.",
		})
		p.invalidParameters = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "control",
			Name:      "invalid_parameters_total",
			Help:      "Total rejected control parameters by field.",
		}, []string{"field"})

		p.recomputes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "plot",
			Name:      "recomputes_total",
			Help:      "Dataset recompute outcomes (success, failure, stale).",
		}, []string{"result"})
		p.recomputeLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "plot",
			Name:      "recompute_duration_seconds",
			Help:      "Time from recompute trigger to result in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
		})
		p.derivations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "plot",
			Name:      "derivations_total",
			Help:      "Chart derivations by kind and result.",
		}, []string{"kind", "result"})
		p.derivationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "plot",
			Name:      "derivation_duration_seconds",
			Help:      "Chart derivation latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs .. ~1.6s
		})
		p.busy = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "plot",
			Name:      "busy",
			Help:      "1 while a recompute or derivation is in flight.",
		})

		p.eventClients = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "web",
			Name:      "event_clients",
			Help:      "Connected server-sent event clients.",
		})
		p.eventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "web",
			Name:      "events_dropped_total",
			Help:      "State events dropped for slow clients.",
		})

		p.snapshotPublishes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "snapshot",
			Name:      "publishes_total",
			Help:      "Snapshot publish outcomes (success, failure).",
		}, []string{"result"})
		p.snapshotPutLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "snapshot",
			Name:      "put_duration_seconds",
			Help:      "KV put latency for snapshots in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms .. ~0.5s
		})

		p.reg.MustRegister(p.refreshes)
		p.reg.MustRegister(p.invalidParameters)
		p.reg.MustRegister(p.recomputes)
		p.reg.MustRegister(p.recomputeLatency)
		p.reg.MustRegister(p.derivations)
		p.reg.MustRegister(p.derivationLatency)
		p.reg.MustRegister(p.busy)
		p.reg.MustRegister(p.eventClients)
		p.reg.MustRegister(p.eventsDropped)
		p.reg.MustRegister(p.snapshotPublishes)
		p.reg.MustRegister(p.snapshotPutLatency)
	})
}

// RecordRefreshTriggered increments the refresh counter.
func (p *PrometheusCollector) RecordRefreshTriggered() {
	p.ensureRegistered()
	p.refreshes.Inc()
}

// RecordInvalidParameter increments the rejected parameter counter for field.
func (p *PrometheusCollector) RecordInvalidParameter(field string) {
	p.ensureRegistered()
	p.invalidParameters.WithLabelValues(field).Inc()
}

// RecordRecompute records a recompute outcome and its latency.
//
// Stale results are counted but not observed in the latency histogram.
func (p *PrometheusCollector) RecordRecompute(duration float64, result string) {
	p.ensureRegistered()
	p.recomputes.WithLabelValues(result).Inc()
	if result != "stale" {
		p.recomputeLatency.Observe(duration)
	}
}

// RecordDerivation records a chart derivation outcome and its latency.
func (p *PrometheusCollector) RecordDerivation(duration float64, kind types.ChartKind, success bool) {
	p.ensureRegistered()
	result := "success"
	if !success {
		result = "failure"
	}
	p.derivations.WithLabelValues(string(kind), result).Inc()
	p.derivationLatency.Observe(duration)
}

// SetBusy sets the busy gauge.
func (p *PrometheusCollector) SetBusy(busy bool) {
	p.ensureRegistered()
	if busy {
		p.busy.Set(1)
	} else {
		p.busy.Set(0)
	}
}

// SetEventClients sets the event client gauge.
func (p *PrometheusCollector) SetEventClients(count int) {
	p.ensureRegistered()
	p.eventClients.Set(float64(count))
}

// RecordEventDropped increments the dropped event counter.
func (p *PrometheusCollector) RecordEventDropped() {
	p.ensureRegistered()
	p.eventsDropped.Inc()
}

// RecordSnapshotPublish records a snapshot publish outcome and its latency.
func (p *PrometheusCollector) RecordSnapshotPublish(duration float64, success bool) {
	p.ensureRegistered()
	result := "success"
	if !success {
		result = "failure"
	}
	p.snapshotPublishes.WithLabelValues(result).Inc()
	p.snapshotPutLatency.Observe(duration)
}
