// Package feed is the in-process change feed. Every persisted create (and,
// for simulations, every status or log update) is broadcast to subscribers
// of the matching entity kind. Delivery per kind follows publish order and
// is at-least-once; there is no ordering relationship across kinds. A slow
// or abandoned subscriber never blocks the publisher or its peers.
package feed

import (
	"sync"
)

// Kind names an entity topic.
type Kind string

const (
	KindInteraction Kind = "interaction"
	KindAlert       Kind = "alert"
	KindPrediction  Kind = "prediction"
	KindSimulation  Kind = "simulation"
)

// ValidKind reports whether k names a known topic.
func ValidKind(k Kind) bool {
	switch k {
	case KindInteraction, KindAlert, KindPrediction, KindSimulation:
		return true
	}
	return false
}

// Event is one change-feed entry.
type Event struct {
	Kind   Kind        `json:"kind"`
	Action string      `json:"action"` // created, updated
	Record interface{} `json:"record"`
}

// Subscription is one subscriber's view of a topic. Events arrive on C in
// publish order from the moment of subscribing onward. Cancel releases the
// subscription; C is closed afterwards.
type Subscription struct {
	C chan Event

	hub    *Hub
	kind   Kind
	done   chan struct{}
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	closed bool
}

// Hub fans events out to per-kind subscriber lists.
type Hub struct {
	mu   sync.RWMutex
	subs map[Kind][]*Subscription
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[Kind][]*Subscription)}
}

// Subscribe registers a new subscriber for the given kind. The returned
// subscription only sees events published after this call.
func (h *Hub) Subscribe(kind Kind) *Subscription {
	sub := &Subscription{
		C:    make(chan Event),
		hub:  h,
		kind: kind,
		done: make(chan struct{}),
	}
	sub.cond = sync.NewCond(&sub.mu)

	h.mu.Lock()
	h.subs[kind] = append(h.subs[kind], sub)
	h.mu.Unlock()

	go sub.drain()
	return sub
}

// Publish enqueues the event for every current subscriber of the kind.
// Enqueueing happens under the hub lock, so all subscribers observe the
// same per-kind order.
func (h *Hub) Publish(kind Kind, event Event) {
	event.Kind = kind

	h.mu.Lock()
	for _, sub := range h.subs[kind] {
		sub.enqueue(event)
	}
	h.mu.Unlock()
}

func (s *Subscription) enqueue(event Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, event)
	s.mu.Unlock()
	s.cond.Signal()
}

// drain feeds queued events to the subscriber channel in FIFO order. The
// queue is unbounded so the publisher never waits on a receiver.
func (s *Subscription) drain() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			close(s.C)
			return
		}
		event := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.C <- event:
		case <-s.done:
			close(s.C)
			return
		}
	}
}

// Cancel detaches the subscription from the hub, drops anything still
// queued, and closes C.
func (s *Subscription) Cancel() {
	s.hub.mu.Lock()
	subs := s.hub.subs[s.kind]
	for i, candidate := range subs {
		if candidate == s {
			s.hub.subs[s.kind] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	s.hub.mu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()
	s.cond.Signal()
}
