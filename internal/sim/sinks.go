package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"craneguard/internal/logging"
)

// SnapshotSink receives every snapshot produced by the simulator.
type SnapshotSink interface {
	WriteSnapshot(Snapshot) error
}

// SinkFunc adapts a function to SnapshotSink.
type SinkFunc func(Snapshot) error

// WriteSnapshot calls f(s).
func (f SinkFunc) WriteSnapshot(s Snapshot) error { return f(s) }

type sinkEntry struct {
	id   string
	sink SnapshotSink
	keep bool
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*sinkEntry)

// WithKeepOnError keeps the sink subscribed when a write fails. The error is
// logged and the sink receives the next snapshot as usual.
func WithKeepOnError() SubscribeOption {
	return func(e *sinkEntry) { e.keep = true }
}

// sinkSet holds subscribed sinks in subscription order.
type sinkSet struct {
	mu      sync.Mutex
	entries []sinkEntry
}

func newSinkSet() *sinkSet { return &sinkSet{} }

func (ss *sinkSet) add(sink SnapshotSink, opts ...SubscribeOption) string {
	e := sinkEntry{id: uuid.NewString(), sink: sink}
	for _, opt := range opts {
		opt(&e)
	}
	ss.mu.Lock()
	ss.entries = append(ss.entries, e)
	ss.mu.Unlock()
	return e.id
}

func (ss *sinkSet) remove(id string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for i, e := range ss.entries {
		if e.id == id {
			ss.entries = append(ss.entries[:i], ss.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (ss *sinkSet) list() []sinkEntry {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return append([]sinkEntry(nil), ss.entries...)
}

func (ss *sinkSet) len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.entries)
}

// deliver hands snap to every sink. A failing sink is dropped unless it was
// subscribed with WithKeepOnError; the remaining sinks still receive the
// snapshot.
func (ss *sinkSet) deliver(ctx context.Context, snap Snapshot, m *simMetrics) {
	log := logging.FromContext(ctx)
	for _, e := range ss.list() {
		err := writeSnapshot(e.sink, snap)
		if err == nil {
			continue
		}
		m.recordSinkError(ctx)
		if e.keep {
			log.Error("snapshot sink write failed", "sink", e.id, "err", err)
			continue
		}
		log.Warn("dropping snapshot sink", "sink", e.id, "err", err)
		ss.remove(e.id)
		m.recordDroppedSink(ctx)
	}
}

func writeSnapshot(sink SnapshotSink, snap Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panic: %v", r)
		}
	}()
	return sink.WriteSnapshot(snap)
}

// MultiSink fans a snapshot out to several sinks and joins their errors.
type MultiSink struct {
	sinks []SnapshotSink
}

// NewMultiSink creates a new MultiSink.
func NewMultiSink(sinks ...SnapshotSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// WriteSnapshot sends s to every sink, continuing past failures.
func (ms *MultiSink) WriteSnapshot(s Snapshot) error {
	var errs []error
	for _, sink := range ms.sinks {
		if err := sink.WriteSnapshot(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
