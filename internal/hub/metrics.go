package hub

import "github.com/prometheus/client_golang/prometheus"

// Handshake results recorded by the push gate.
const (
	HandshakeAccepted = "accepted"
	HandshakeRejected = "rejected"
	HandshakeTimeout  = "timeout"
	HandshakeFull     = "full"
)

// Metrics holds the push channel collectors.
type Metrics struct {
	Connections       prometheus.Gauge
	EventsPublished   prometheus.Counter
	DeliveriesDropped prometheus.Counter
	InboundDropped    prometheus.Counter
	Handshakes        *prometheus.CounterVec
}

// NewMetrics creates the push collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tasktracker_push_connections",
			Help: "Number of authenticated push connections",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasktracker_push_events_published_total",
			Help: "Total number of domain events published to the hub",
		}),
		DeliveriesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasktracker_push_deliveries_dropped_total",
			Help: "Total number of per-subscriber deliveries dropped on a full queue",
		}),
		InboundDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasktracker_push_inbound_dropped_total",
			Help: "Total number of inbound frames ignored before the handshake completed",
		}),
		Handshakes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tasktracker_push_handshakes_total",
			Help: "Total number of push handshakes by result",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(m.Connections, m.EventsPublished, m.DeliveriesDropped, m.InboundDropped, m.Handshakes)
	}

	return m
}

// RecordHandshake increments the handshake counter for result.
func (m *Metrics) RecordHandshake(result string) {
	m.Handshakes.WithLabelValues(result).Inc()
}
