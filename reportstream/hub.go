// Package reportstream fans dispatch reports out to live observers over
// Server-Sent Events or WebSocket, so operators can watch tick cycles
// without polling a metrics endpoint.
package reportstream

import (
	"encoding/json"
	"sync"

	"github.com/sworn-game/daytick/report"
)

// Hub broadcasts marshalled DispatchReports to all subscribers. Slow
// subscribers drop reports rather than blocking the publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan []byte]struct{})}
}

// Subscribe registers a new observer channel.
func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (h *Hub) Unsubscribe(ch chan []byte) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish broadcasts r to every subscriber. It satisfies the scheduler's
// report sink contract.
func (h *Hub) Publish(r *report.DispatchReport) {
	raw, err := json.Marshal(r)
	if err != nil {
		return
	}
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- raw:
		default:
		}
	}
	h.mu.Unlock()
}
