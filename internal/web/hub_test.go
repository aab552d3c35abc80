package web

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/superKazi/awal-lazard/internal/metrics"
)

type webMetrics struct {
	*metrics.NopMetrics

	mu      sync.Mutex
	clients int
	dropped int
}

func (m *webMetrics) SetEventClients(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients = n
}

func (m *webMetrics) RecordEventDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped++
}

func TestHub_FanOut(t *testing.T) {
	m := &webMetrics{NopMetrics: metrics.NewNop()}
	hub := NewHub(4, m)

	a, unsubscribeA := hub.Subscribe()
	b, unsubscribeB := hub.Subscribe()
	require.Equal(t, 2, m.clients)

	hub.Publish([]byte("one"))
	require.Equal(t, []byte("one"), <-a)
	require.Equal(t, []byte("one"), <-b)

	unsubscribeA()
	unsubscribeA()
	_, open := <-a
	require.False(t, open)
	require.Equal(t, 1, m.clients)

	unsubscribeB()
	require.Equal(t, 0, hub.Clients())
}

func TestHub_SlowClientDrops(t *testing.T) {
	m := &webMetrics{NopMetrics: metrics.NewNop()}
	hub := NewHub(1, m)

	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	hub.Publish([]byte("1"))
	hub.Publish([]byte("2"))
	hub.Publish([]byte("3"))

	require.Equal(t, []byte("1"), <-ch)
	require.Equal(t, 2, m.dropped)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(1, metrics.NewNop())

	ch, unsubscribe := hub.Subscribe()
	hub.Close()

	_, open := <-ch
	require.False(t, open)
	require.Zero(t, hub.Clients())

	// Unsubscribing after Close is harmless.
	unsubscribe()
	hub.Publish([]byte("x"))
}

func TestHub_SubscribeAfterClose(t *testing.T) {
	m := &webMetrics{NopMetrics: metrics.NewNop()}
	hub := NewHub(1, m)
	hub.Close()

	ch, unsubscribe := hub.Subscribe()
	_, open := <-ch
	require.False(t, open)
	require.Zero(t, hub.Clients())
	require.Zero(t, m.clients)

	unsubscribe()
	hub.Publish([]byte("x"))
}
