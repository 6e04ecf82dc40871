// Package metrics instruments a connection with Prometheus metrics.
//
// All methods are safe to call on a nil *Metrics, which records
// nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wlframe"

type Metrics struct {
	registry *prometheus.Registry

	events        *prometheus.CounterVec
	requests      *prometheus.CounterVec
	frames        prometheus.Counter
	stalls        prometheus.Counter
	poolGrows     prometheus.Counter
	poolBytes     prometheus.Gauge
	slotsInFlight prometheus.Gauge
}

// New creates a set of metrics registered with their own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of events received, by interface",
		}, []string{"interface"}),

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of requests sent, by interface",
		}, []string{"interface"}),

		frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of frames committed",
		}),

		stalls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_stalls_total",
			Help:      "Number of frames deferred because every buffer was in use by the compositor",
		}),

		poolGrows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_grows_total",
			Help:      "Number of times the shared memory pool was grown",
		}),

		poolBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_bytes",
			Help:      "Size of the shared memory pool in bytes",
		}),

		slotsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slots_in_flight",
			Help:      "Number of buffers currently held by the compositor",
		}),
	}
}

// Registry returns the registry that the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) EventReceived(inter string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(inter).Inc()
}

func (m *Metrics) RequestSent(inter string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(inter).Inc()
}

func (m *Metrics) FramePresented() {
	if m == nil {
		return
	}
	m.frames.Inc()
}

func (m *Metrics) FrameStalled() {
	if m == nil {
		return
	}
	m.stalls.Inc()
}

func (m *Metrics) PoolGrown(size int) {
	if m == nil {
		return
	}
	m.poolGrows.Inc()
	m.poolBytes.Set(float64(size))
}

func (m *Metrics) PoolCreated(size int) {
	if m == nil {
		return
	}
	m.poolBytes.Set(float64(size))
}

func (m *Metrics) SetSlotsInFlight(n int) {
	if m == nil {
		return
	}
	m.slotsInFlight.Set(float64(n))
}
