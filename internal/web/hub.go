package web

import (
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/superKazi/awal-lazard/types"
)

// eventClient is one connected server-sent events stream.
type eventClient struct {
	ch     chan []byte
	mu     sync.Mutex
	closed bool
}

// trySend queues an event without blocking.
//
// Returns:
//   - bool: false if the client was slow and the event was dropped
func (c *eventClient) trySend(event []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}

	select {
	case c.ch <- event:
		return true
	default:
		// Slow client; it still gets the next update.
		return false
	}
}

func (c *eventClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

// Hub fans events out to connected clients.
type Hub struct {
	clients *xsync.Map[uint64, *eventClient]
	nextID  atomic.Uint64
	buffer  int
	metrics types.WebMetrics

	// closeMu orders Subscribe against Close; Subscribe holds it shared.
	closeMu sync.RWMutex
	closed  bool
}

// NewHub creates a hub whose clients buffer up to buffer events.
func NewHub(buffer int, metrics types.WebMetrics) *Hub {
	return &Hub{
		clients: xsync.NewMap[uint64, *eventClient](),
		buffer:  max(1, buffer),
		metrics: metrics,
	}
}

// Subscribe registers a client.
//
// Returns:
//   - <-chan []byte: Events for the client, closed by unsubscribe or Close;
//     already closed once the hub is closed
//   - func(): Unsubscribe function
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	h.closeMu.RLock()
	defer h.closeMu.RUnlock()

	if h.closed {
		ch := make(chan []byte)
		close(ch)
		return ch, func() {}
	}

	id := h.nextID.Add(1)
	client := &eventClient{ch: make(chan []byte, h.buffer)}
	h.clients.Store(id, client)
	h.metrics.SetEventClients(h.clients.Size())

	return client.ch, func() {
		if c, ok := h.clients.LoadAndDelete(id); ok {
			c.close()
			h.metrics.SetEventClients(h.clients.Size())
		}
	}
}

// Publish sends event to every client. Slow clients drop the event.
func (h *Hub) Publish(event []byte) {
	h.clients.Range(func(_ uint64, c *eventClient) bool {
		if !c.trySend(event) {
			h.metrics.RecordEventDropped()
		}
		return true
	})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return h.clients.Size()
}

// Close disconnects every client. Later subscribers get a closed channel.
func (h *Hub) Close() {
	h.closeMu.Lock()
	h.closed = true
	h.closeMu.Unlock()

	h.clients.Range(func(id uint64, c *eventClient) bool {
		h.clients.Delete(id)
		c.close()
		return true
	})
	h.metrics.SetEventClients(0)
}
