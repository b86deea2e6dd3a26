package sim

import (
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"craneguard/internal/collision"
)

// counterValue sums the data points of an int64 counter whose attributes
// equal attrs.
func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	want := attribute.NewSet(attrs...)
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s: unexpected aggregation %T", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				if dp.Attributes.Equals(&want) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestMetricsRecordTicksAlertsAndSinks(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	s := NewSimulator("site-test", twoCranes(), time.Second, WithMeter(mp.Meter("test")))
	if !s.ApplyScenario("head_on_collision") {
		t.Fatal("scenario not applied")
	}

	var danger int64
	var last Snapshot
	for i := 0; i < 3; i++ {
		last = s.Step(0)
		for _, a := range last.Alerts {
			if a.AlertLevel == collision.Danger {
				danger++
			}
		}
	}
	if danger == 0 {
		t.Fatal("expected DANGER alerts from the head-on scenario")
	}

	fail := SinkFunc(func(Snapshot) error { return errors.New("unreachable") })
	s.Subscribe(fail)
	s.Subscribe(fail, WithKeepOnError())
	s.sinks.deliver(t.Context(), last, s.metrics)
	s.sinks.deliver(t.Context(), last, s.metrics)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(t.Context(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := counterValue(t, rm, "craneguard.sim.ticks"); got != 3 {
		t.Fatalf("expected 3 ticks, got %d", got)
	}
	if got := counterValue(t, rm, "craneguard.sim.alerts", attribute.String("level", "DANGER")); got != danger {
		t.Fatalf("expected %d DANGER alerts, got %d", danger, got)
	}
	if got := counterValue(t, rm, "craneguard.sim.sinks.errors"); got != 3 {
		t.Fatalf("expected 3 sink errors, got %d", got)
	}
	if got := counterValue(t, rm, "craneguard.sim.sinks.dropped"); got != 1 {
		t.Fatalf("expected 1 dropped sink, got %d", got)
	}
}

func TestNewSimMetricsNilMeter(t *testing.T) {
	m := newSimMetrics(nil)
	m.recordTick(t.Context(), time.Millisecond, testSnapshot())
	m.recordSinkError(t.Context())
	m.recordDroppedSink(t.Context())
}
