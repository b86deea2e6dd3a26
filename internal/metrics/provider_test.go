package metrics

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer written by the periodic reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestDisabledProviderIsNoop(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)

	c, err := p.Meter("test").Int64Counter("craneguard.test.count")
	require.NoError(t, err)
	c.Add(t.Context(), 1)

	assert.NoError(t, p.Flush(t.Context()))
	assert.NoError(t, p.Shutdown(t.Context()))
}

func TestEnabledProviderRequiresWriter(t *testing.T) {
	_, err := New(Config{Enabled: true, ServiceName: "craneguard"})
	assert.Error(t, err)
}

func TestEnabledProviderExportsOnShutdown(t *testing.T) {
	var out syncBuffer
	p, err := New(Config{Enabled: true, ServiceName: "craneguard-test", Writer: &out})
	require.NoError(t, err)

	c, err := p.Meter("test").Int64Counter("craneguard.test.count")
	require.NoError(t, err)
	c.Add(t.Context(), 2)

	require.NoError(t, p.Shutdown(t.Context()))
	assert.Contains(t, out.String(), "craneguard.test.count")
	assert.Contains(t, out.String(), "craneguard-test")
}
