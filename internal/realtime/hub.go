package realtime

import (
	"log"
	"sync"
)

// Event names sent to connected clients.
const (
	EventTaskCreated = "taskCreated"
	EventTaskUpdated = "taskUpdated"
	EventTaskDeleted = "taskDeleted"
)

// Event is one task mutation broadcast to every connected observer.
type Event struct {
	Name    string
	Payload interface{}
}

// subscriberBuffer bounds how far a slow client may fall behind before it
// starts missing events.
const subscriberBuffer = 16

// Subscriber receives events from a Hub until Unsubscribe is called.
type Subscriber struct {
	ch chan Event
}

// Events returns the subscriber's receive channel. The hub closes it on
// unsubscribe.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Hub fans task mutation events out to all current subscribers. Delivery is
// at-most-once and best-effort: a subscriber whose buffer is full misses the
// event, and there is no replay for observers that connect later.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*Subscriber]struct{}),
	}
}

// Subscribe registers a new observer.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Unsubscribe removes an observer and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[sub]; !ok {
		return
	}
	delete(h.subscribers, sub)
	close(sub.ch)
}

// Publish delivers the event to every current subscriber without blocking
// the caller. Events to a full subscriber are dropped.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subscribers {
		select {
		case sub.ch <- event:
		default:
			log.Printf("realtime: dropping %s event for slow subscriber", event.Name)
		}
	}
}

// SubscriberCount reports how many observers are currently connected.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
