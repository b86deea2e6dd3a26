package sim

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "craneguard/internal/sim"

// simMetrics holds the instruments updated by the tick loop.
type simMetrics struct {
	ticks        metric.Int64Counter
	tickDuration metric.Float64Histogram
	alerts       metric.Int64Counter
	transitions  metric.Int64Counter
	sinkErrors   metric.Int64Counter
	droppedSinks metric.Int64Counter
}

// newSimMetrics creates the instruments on m, or on a noop meter when m is
// nil. Instruments that fail to register fall back to noop ones.
func newSimMetrics(m metric.Meter) *simMetrics {
	if m == nil {
		m = noop.NewMeterProvider().Meter(meterName)
	}
	sm := &simMetrics{}
	var err error
	if sm.ticks, err = m.Int64Counter("craneguard.sim.ticks",
		metric.WithDescription("Number of simulation ticks executed.")); err != nil {
		sm.ticks = noop.Int64Counter{}
	}
	if sm.tickDuration, err = m.Float64Histogram("craneguard.sim.tick.duration",
		metric.WithDescription("Time spent computing one tick."),
		metric.WithUnit("s")); err != nil {
		sm.tickDuration = noop.Float64Histogram{}
	}
	if sm.alerts, err = m.Int64Counter("craneguard.sim.alerts",
		metric.WithDescription("Alerts raised, by level.")); err != nil {
		sm.alerts = noop.Int64Counter{}
	}
	if sm.transitions, err = m.Int64Counter("craneguard.sim.transitions",
		metric.WithDescription("Alert level transitions logged.")); err != nil {
		sm.transitions = noop.Int64Counter{}
	}
	if sm.sinkErrors, err = m.Int64Counter("craneguard.sim.sinks.errors",
		metric.WithDescription("Failed snapshot sink writes.")); err != nil {
		sm.sinkErrors = noop.Int64Counter{}
	}
	if sm.droppedSinks, err = m.Int64Counter("craneguard.sim.sinks.dropped",
		metric.WithDescription("Snapshot sinks dropped after a write failure.")); err != nil {
		sm.droppedSinks = noop.Int64Counter{}
	}
	return sm
}

func (m *simMetrics) recordTick(ctx context.Context, d time.Duration, snap Snapshot) {
	m.ticks.Add(ctx, 1)
	m.tickDuration.Record(ctx, d.Seconds())
	for _, a := range snap.Alerts {
		m.alerts.Add(ctx, 1, metric.WithAttributes(attribute.String("level", a.AlertLevel.String())))
	}
	if n := len(snap.Transitions); n > 0 {
		m.transitions.Add(ctx, int64(n))
	}
}

func (m *simMetrics) recordSinkError(ctx context.Context) {
	m.sinkErrors.Add(ctx, 1)
}

func (m *simMetrics) recordDroppedSink(ctx context.Context) {
	m.droppedSinks.Add(ctx, 1)
}
