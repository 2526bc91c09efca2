package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	ticksProcessed atomic.Uint64
	ordersPlaced   atomic.Uint64
	ordersFilled   atomic.Uint64
	fillsPublished atomic.Uint64
	eventsDropped  atomic.Uint64
	errorsTotal    atomic.Uint64

	// Latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	activeConnections atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordTick records one processed trade tick with latency.
func (m *Metrics) RecordTick(latencyNs int64) {
	m.ticksProcessed.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordOrderPlaced records an accepted order placement.
func (m *Metrics) RecordOrderPlaced() {
	m.ordersPlaced.Add(1)
}

// RecordOrderFilled records a filled order.
func (m *Metrics) RecordOrderFilled() {
	m.ordersFilled.Add(1)
}

// RecordFillPublished records a synthetic fill event put on the bus.
func (m *Metrics) RecordFillPublished() {
	m.fillsPublished.Add(1)
}

// RecordEventDropped records a bus event lost to a full subscriber buffer.
func (m *Metrics) RecordEventDropped() {
	m.eventsDropped.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// SetActiveConnections sets the current active connection count.
func (m *Metrics) SetActiveConnections(count int32) {
	m.activeConnections.Store(count)
}

// IncrementConnections increments active connections by 1.
func (m *Metrics) IncrementConnections() {
	m.activeConnections.Add(1)
}

// DecrementConnections decrements active connections by 1.
func (m *Metrics) DecrementConnections() {
	m.activeConnections.Add(-1)
}

// Snapshot is a point-in-time copy of all metric values.
type Snapshot struct {
	TicksProcessed    uint64
	OrdersPlaced      uint64
	OrdersFilled      uint64
	FillsPublished    uint64
	EventsDropped     uint64
	ErrorsTotal       uint64
	AvgLatency        time.Duration
	ActiveConnections int32
}

// Read returns a consistent-enough snapshot for logging and tests.
func (m *Metrics) Read() Snapshot {
	s := Snapshot{
		TicksProcessed:    m.ticksProcessed.Load(),
		OrdersPlaced:      m.ordersPlaced.Load(),
		OrdersFilled:      m.ordersFilled.Load(),
		FillsPublished:    m.fillsPublished.Load(),
		EventsDropped:     m.eventsDropped.Load(),
		ErrorsTotal:       m.errorsTotal.Load(),
		ActiveConnections: m.activeConnections.Load(),
	}
	if n := m.latencyCount.Load(); n > 0 {
		s.AvgLatency = time.Duration(m.latencySumNs.Load() / int64(n))
	}
	return s
}
