// Package notify turns admin broadcasts into per-user notifications and
// pushes them to connected clients.
package notify

import (
	"sync"

	"event-hub-backend/cmd/event-hub/model"
)

const subscriberBuffer = 16

// Hub fans notifications out to the subscribers of each user. Publishing
// never blocks; a subscriber whose buffer is full misses the push and picks
// the notification up on its next listing.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint]map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	ch   chan model.Notification
	once sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[uint]map[*subscriber]struct{}),
	}
}

// Subscribe registers a listener for userID. The returned cancel func
// unregisters it and closes the channel; calling it twice is safe.
func (h *Hub) Subscribe(userID uint) (<-chan model.Notification, func()) {
	s := &subscriber{ch: make(chan model.Notification, subscriberBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(s.ch)
		return s.ch, func() {}
	}
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscriber]struct{})
	}
	h.subs[userID][s] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[userID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
		s.once.Do(func() { close(s.ch) })
	}

	return s.ch, cancel
}

// Publish delivers n to every subscriber of n.UserID and reports how many
// received it.
func (h *Hub) Publish(n model.Notification) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for s := range h.subs[n.UserID] {
		select {
		case s.ch <- n:
			delivered++
		default:
		}
	}

	return delivered
}

func (h *Hub) Subscribers(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// Close ends every subscription. Later subscribers get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for userID, set := range h.subs {
		for s := range set {
			s.once.Do(func() { close(s.ch) })
		}
		delete(h.subs, userID)
	}
}
