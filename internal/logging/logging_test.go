package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn)
	ctx := NewContext(context.Background(), l)
	FromContext(ctx).Info("hidden")
	FromContext(ctx).Warn("shown", "crane", "TC-1")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "crane=TC-1") {
		t.Fatalf("unexpected log output %q", out)
	}
	if FromContext(context.Background()) != slog.Default() {
		t.Fatalf("expected default logger without context value")
	}
}
