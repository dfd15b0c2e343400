package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the relay's prometheus collectors. A nil *Metrics records
// nothing, so callers never need to guard their calls.
type Metrics struct {
	RoomsActive       prometheus.Gauge
	ConnectionsActive prometheus.Gauge
	EventsTotal       *prometheus.CounterVec
	JoinRejections    *prometheus.CounterVec
	DroppedFrames     prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RoomsActive:       prometheus.NewGauge(prometheus.GaugeOpts{Name: "relay_rooms_active", Help: "rooms with at least one member"}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{Name: "relay_connections_active", Help: "open websocket connections"}),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_events_total",
			Help: "inbound events handled, by event name",
		}, []string{"event"}),
		JoinRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_join_rejections_total",
			Help: "rejected join attempts, by reason",
		}, []string{"reason"}),
		DroppedFrames: prometheus.NewCounter(prometheus.CounterOpts{Name: "relay_dropped_frames_total", Help: "outbound frames dropped on full send queues"}),
	}
	reg.MustRegister(m.RoomsActive, m.ConnectionsActive, m.EventsTotal, m.JoinRejections, m.DroppedFrames)
	return m
}

func (m *Metrics) RoomOpened() {
	if m != nil {
		m.RoomsActive.Inc()
	}
}

func (m *Metrics) RoomClosed() {
	if m != nil {
		m.RoomsActive.Dec()
	}
}

func (m *Metrics) ConnectionOpened() {
	if m != nil {
		m.ConnectionsActive.Inc()
	}
}

func (m *Metrics) ConnectionClosed() {
	if m != nil {
		m.ConnectionsActive.Dec()
	}
}

func (m *Metrics) Event(name string) {
	if m != nil {
		m.EventsTotal.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) JoinRejected(reason string) {
	if m != nil {
		m.JoinRejections.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) FrameDropped() {
	if m != nil {
		m.DroppedFrames.Inc()
	}
}
