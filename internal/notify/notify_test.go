package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_Broadcast(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub1 := h.Subscribe(ctx)
	sub2 := h.Subscribe(ctx)

	h.Publish(Event{Kind: KindOrderCreated, UserID: "u1", ID: "o1"})

	for _, sub := range []<-chan Event{sub1, sub2} {
		select {
		case ev := <-sub:
			assert.Equal(t, KindOrderCreated, ev.Kind)
			assert.Equal(t, "o1", ev.ID)
			assert.False(t, ev.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestHub_UnsubscribeOnCancel(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	sub := h.Subscribe(ctx)
	cancel()

	// The channel closes once the hub processes the cancellation.
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// Publishing after unsubscribe must not panic or block.
	h.Publish(Event{Kind: KindRewardGranted})
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.Subscribe(ctx) // never drained

	done := make(chan struct{})
	go func() {
		for range 100 {
			h.Publish(Event{Kind: KindOrderCreated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on slow subscriber")
	}
}
