// Package notify is an in-process broadcast hub. It is the server-side
// counterpart of the storefront's cross-tab storage event: best effort,
// fan-out only, never authoritative state. Slow subscribers drop events
// rather than block publishers.
package notify

import (
	"context"
	"sync"
	"time"
)

// Kind tags the event type.
type Kind string

const (
	// KindOrderCreated is published after a checkout persists an order, so
	// any open order-history view can refetch.
	KindOrderCreated Kind = "order_created"
	// KindRewardGranted is published when a reward lands in a user's ledger.
	KindRewardGranted Kind = "reward_granted"
)

// Event is a single notification.
type Event struct {
	Kind   Kind
	UserID string
	ID     string
	At     time.Time
}

// Hub broadcasts events to all current subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
	now  func() time.Time
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan Event]struct{}),
		now:  time.Now,
	}
}

// Publish delivers ev to every subscriber. Subscribers with a full buffer
// miss the event; they are expected to refetch on the next one.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = h.now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a new subscriber. The returned channel closes when ctx
// is cancelled.
func (h *Hub) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}
