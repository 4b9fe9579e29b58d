// Package realtime tracks WebSocket subscribers per task list and fans
// mutation notifications out to them.  The registry is in-process and
// unbounded; a multi-instance deployment would need a shared pub/sub layer
// in front of it.  The Hub is an injected dependency rather than a package
// global so tests can run isolated instances.
package realtime

import (
	"encoding/json"
	"io"
	"sync"
)

// EventKind names the two mutation notifications pushed to subscribers.
type EventKind string

const (
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// Event is the envelope sent to every subscriber of a task list.
type Event struct {
	Status string `json:"status"`
}

// Subscriber wraps a single connection with a write lock so concurrent
// publishes never interleave frames on the wire.
type Subscriber struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewSubscriber builds a subscriber over any writer; in production that is
// a websocket connection, in tests a plain buffer.
func NewSubscriber(w io.Writer) *Subscriber {
	return &Subscriber{enc: json.NewEncoder(w)}
}

func (s *Subscriber) send(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(ev)
}

// Hub is the per-task-list subscriber registry.
type Hub struct {
	mu    sync.Mutex
	lists map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{lists: make(map[string]map[*Subscriber]struct{})}
}

// Subscribe registers a connection under a task list key. Access checks
// happen at connect time in the handler, not here and not per message.
func (h *Hub) Subscribe(taskListID string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.lists[taskListID]
	if !ok {
		set = make(map[*Subscriber]struct{})
		h.lists[taskListID] = set
	}
	set[sub] = struct{}{}
}

// Unsubscribe removes a connection; empty sets are pruned so the registry
// does not grow with every task list ever watched.
func (h *Hub) Unsubscribe(taskListID string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.lists[taskListID]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.lists, taskListID)
	}
}

// Publish sends the event to every current subscriber of the task list.
// Delivery is best-effort: the subscriber set is snapshotted under the
// lock and writes happen outside it, so a concurrent unsubscribe never
// breaks the iteration. Subscribers whose write fails are dropped.
func (h *Hub) Publish(taskListID string, kind EventKind) {
	h.mu.Lock()
	subs := make([]*Subscriber, 0, len(h.lists[taskListID]))
	for sub := range h.lists[taskListID] {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	ev := Event{Status: string(kind)}
	for _, sub := range subs {
		if err := sub.send(ev); err != nil {
			h.Unsubscribe(taskListID, sub)
		}
	}
}

// SubscriberCount reports how many connections watch a task list.
func (h *Hub) SubscriberCount(taskListID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lists[taskListID])
}
