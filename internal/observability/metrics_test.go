package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.Event("join_room")
	m.Event("join_room")
	m.Event("makeMove")
	m.JoinRejected("room_full")
	m.FrameDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("join_room")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("makeMove")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JoinRejections.WithLabelValues("room_full")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DroppedFrames))
}

func TestMetrics_Gauges(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RoomOpened()
	m.RoomOpened()
	m.RoomClosed()
	m.ConnectionOpened()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RoomsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectionsActive))

	m.ConnectionClosed()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ConnectionsActive))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RoomOpened()
		m.RoomClosed()
		m.ConnectionOpened()
		m.ConnectionClosed()
		m.Event("win")
		m.JoinRejected("name_taken")
		m.FrameDropped()
	})
}

func TestNewMetrics_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}
