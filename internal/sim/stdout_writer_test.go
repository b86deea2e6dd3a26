package sim

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStdoutWriterJSONFallback(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &StdoutWriter{out: buf, colorize: false}
	if err := w.WriteSnapshot(testSnapshot()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"crane_a_id":"TC-1"`) {
		t.Fatalf("expected JSON output, got %q", out)
	}
}

func TestStdoutWriterColorized(t *testing.T) {
	cfg := twoCranes()
	cfg.SiteID = "site-a"
	buf := &bytes.Buffer{}
	w := &StdoutWriter{cfg: cfg, colorize: true, out: buf}
	snap := testSnapshot()
	snap.Alerts = []AlertState{{CraneA: "TC-1", CraneB: "TC-2", AlertLevel: snap.Status.HighestAlert, Message: "Crane 1 <-> Crane 2: distance 3.2m - STOP IMMEDIATELY (DANGER)"}}
	if err := w.WriteSnapshot(snap); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Site Configuration:") || !strings.Contains(output, "Cranes:") {
		t.Fatalf("overview not printed: %q", output)
	}
	if !strings.Contains(output, "\x1b[") {
		t.Fatalf("expected color codes in output: %q", output)
	}
	if !strings.Contains(output, "STOP IMMEDIATELY") || !strings.Contains(output, "TRANSITION") {
		t.Fatalf("alert or transition missing: %q", output)
	}

	buf.Reset()
	if err := w.WriteSnapshot(snap); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if strings.Contains(buf.String(), "Site Configuration:") {
		t.Fatalf("overview printed more than once")
	}
}

func TestJSONStdoutWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &JSONStdoutWriter{out: buf}
	if err := w.WriteSnapshot(testSnapshot()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
}

type errSink struct{ calls int }

func (e *errSink) WriteSnapshot(Snapshot) error {
	e.calls++
	return errors.New("boom")
}

func TestMultiSinkContinuesPastErrors(t *testing.T) {
	bad := &errSink{}
	good := &collectSink{}
	ms := NewMultiSink(bad, good)
	if err := ms.WriteSnapshot(testSnapshot()); err == nil {
		t.Fatal("expected joined error")
	}
	if bad.calls != 1 || len(good.snaps) != 1 {
		t.Fatalf("expected both sinks called, got %d/%d", bad.calls, len(good.snaps))
	}
}

func TestSinkPanicIsDropped(t *testing.T) {
	s := NewSimulator("site-test", twoCranes(), 0)
	good := &collectSink{}
	s.Subscribe(SinkFunc(func(Snapshot) error { panic("broken sink") }))
	s.Subscribe(good)
	snap := s.Step(0)
	s.sinks.deliver(t.Context(), snap, s.metrics)
	if len(good.snaps) != 1 {
		t.Fatalf("healthy sink must still receive the snapshot")
	}
	if s.Subscribers() != 1 {
		t.Fatalf("panicking sink must be dropped, %d left", s.Subscribers())
	}
}

type fakeAdminSink struct {
	collectSink
	listening bool
}

func (f *fakeAdminSink) SetAdminStatus(l bool) { f.listening = l }

func TestNotifyAdminStatus(t *testing.T) {
	a := &fakeAdminSink{}
	NotifyAdminStatus(true, a, &collectSink{})
	if !a.listening {
		t.Fatal("expected admin status to be forwarded")
	}
}
