package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rickgao/danmaku-overlay/internal/event"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	Events         *prometheus.CounterVec
	Streaming      prometheus.Gauge
	DeliveryErrors *prometheus.CounterVec
	QueueDropped   prometheus.Counter

	mu   sync.Mutex
	live map[string]struct{} // Connection IDs between Succeeded and Closed
}

// New registers the metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		Events: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "danmaku_lifecycle_events_total",
				Help: "Lifecycle events emitted by stream pumps",
			},
			[]string{"kind"},
		),
		Streaming: f.NewGauge(prometheus.GaugeOpts{
			Name: "danmaku_connections_streaming",
			Help: "Connections past the handshake and not yet closed",
		}),
		DeliveryErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "danmaku_signal_delivery_errors_total",
				Help: "Host signals the window failed to accept",
			},
			[]string{"signal"},
		),
		QueueDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "danmaku_events_dropped_total",
			Help: "Events dropped because the event queue was closed or full",
		}),
		live: make(map[string]struct{}),
	}
}

// Observe records one lifecycle event.
func (m *Metrics) Observe(e event.Event) {
	m.Events.WithLabelValues(e.Kind.String()).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()

	switch e.Kind {
	case event.KindSucceeded:
		m.live[e.ConnID] = struct{}{}
	case event.KindClosed:
		if _, ok := m.live[e.ConnID]; !ok {
			return
		}
		delete(m.live, e.ConnID)
	default:
		return
	}
	m.Streaming.Set(float64(len(m.live)))
}

// DeliveryFailed records a signal the window rejected.
func (m *Metrics) DeliveryFailed(signal string) {
	m.DeliveryErrors.WithLabelValues(signal).Inc()
}

// Sink wraps next so every event is observed before being forwarded.
func (m *Metrics) Sink(next event.Sink) event.Sink {
	return event.SinkFunc(func(e event.Event) {
		m.Observe(e)
		next.Emit(e)
	})
}

// QueueSink wraps a queue so rejected events are counted as dropped.
func (m *Metrics) QueueSink(q *event.Queue) event.Sink {
	return event.SinkFunc(func(e event.Event) {
		if !q.Send(e) {
			m.QueueDropped.Inc()
		}
	})
}
