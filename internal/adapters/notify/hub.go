// Package notify fans store changes out to subscribers, either inside the
// process or across instances through Redis pub/sub.
package notify

import (
	"context"
	"sync"

	"venuebooking/internal/domain"
)

// subscriberBuffer bounds how far a slow subscriber may lag before changes are dropped for it.
const subscriberBuffer = 16

// Hub is an in-process ChangeNotifier.
type Hub struct {
	mu   sync.Mutex
	subs map[chan domain.ChangeEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan domain.ChangeEvent]struct{})}
}

// Publish never blocks: subscribers whose buffer is full miss the change.
func (h *Hub) Publish(_ context.Context, change domain.ChangeEvent) error {
	h.broadcast(change)
	return nil
}

func (h *Hub) broadcast(change domain.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- change:
		default:
		}
	}
}

func (h *Hub) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	ch := make(chan domain.ChangeEvent, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		close(ch)
		h.mu.Unlock()
	}()
	return ch, nil
}
