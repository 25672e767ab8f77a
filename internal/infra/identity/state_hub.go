package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"boutique/internal/domain/service"
)

const subscriberBuffer = 16

type subscriber struct {
	ch chan service.IdentityState
}

// send never blocks: when the buffer is full the oldest pending state is dropped,
// so the subscriber always ends up seeing the latest one.
func (s *subscriber) send(state service.IdentityState) {
	for {
		select {
		case s.ch <- state:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// StateHub is the in-process identity state-change stream.
type StateHub struct {
	mu          sync.Mutex
	subscribers map[uuid.UUID]map[*subscriber]struct{}
}

// NewStateHub creates an empty hub.
func NewStateHub() *StateHub {
	return &StateHub{subscribers: make(map[uuid.UUID]map[*subscriber]struct{})}
}

var _ service.IdentityStateHub = (*StateHub)(nil)

func (h *StateHub) Publish(userID uuid.UUID, state service.IdentityState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subscribers[userID] {
		sub.send(state)
	}
}

func (h *StateHub) Subscribe(ctx context.Context, userID uuid.UUID, seed service.IdentityState) <-chan service.IdentityState {
	sub := &subscriber{ch: make(chan service.IdentityState, subscriberBuffer)}
	sub.ch <- seed

	h.mu.Lock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[*subscriber]struct{})
	}
	h.subscribers[userID][sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()

		h.mu.Lock()
		delete(h.subscribers[userID], sub)
		if len(h.subscribers[userID]) == 0 {
			delete(h.subscribers, userID)
		}
		close(sub.ch)
		h.mu.Unlock()
	}()

	return sub.ch
}

// SubscriberCount returns the number of live subscriptions for userID.
func (h *StateHub) SubscriberCount(userID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscribers[userID])
}
