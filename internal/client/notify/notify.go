// Package notify implements the in-process notification hub embedded in each
// entity cache. Subscribers are invoked synchronously, in subscription order,
// after any cache mutation.
package notify

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownSubscription is returned by Unsubscribe for an id that does not
// correspond to a live subscription. This signals a programming mistake in
// the caller, not a transient condition.
var ErrUnknownSubscription = errors.New("unknown subscription id")

type subscription struct {
	id       int
	callback func()
}

// Hub is a synchronous publish/subscribe list. The zero value is ready to use.
//
// Callbacks must not block; they may subscribe or unsubscribe, because
// Publish iterates over a snapshot of the list.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

// Subscribe registers callback and returns its subscription id.
func (h *Hub) Subscribe(callback func()) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.subs = append(h.subs, subscription{id: id, callback: callback})
	return id
}

// Unsubscribe removes the subscription with the given id.
func (h *Hub) Unsubscribe(id int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, s := range h.subs {
		if s.id == id {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownSubscription, id)
}

// Publish invokes every live callback once, in subscription order.
func (h *Hub) Publish() {
	h.mu.Lock()
	snapshot := make([]subscription, len(h.subs))
	copy(snapshot, h.subs)
	h.mu.Unlock()

	for _, s := range snapshot {
		s.callback()
	}
}
