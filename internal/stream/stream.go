// Package stream provides small notification primitives used by document
// sessions: a typed event stream with cancellable subscriptions, and a
// one-shot readiness signal. Handlers on a single stream are invoked in
// emission order; different streams are independent.
package stream

import "sync"

// Stream delivers values of type T to subscribed handlers.
// Emit calls handlers synchronously in subscription order, and separate
// emissions on the same stream are serialised, so a subscriber observes
// values in the order they were emitted.
type Stream[T any] struct {
	mu   sync.Mutex
	subs []*Subscription[T]
	next int
}

// New creates an empty stream.
func New[T any]() *Stream[T] {
	return &Stream[T]{}
}

// Subscription represents one handler attached to a stream.
// Cancel detaches it; cancelling twice is a no-op.
type Subscription[T any] struct {
	id      int
	stream  *Stream[T]
	handler func(T)

	mu        sync.Mutex
	cancelled bool
}

// Subscribe attaches fn to the stream and returns its subscription.
// fn runs on the goroutine that calls Emit.
func (s *Stream[T]) Subscribe(fn func(T)) *Subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &Subscription[T]{
		id:      s.next,
		stream:  s,
		handler: fn,
	}
	s.next++
	s.subs = append(s.subs, sub)
	return sub
}

// Emit delivers v to every active subscriber in subscription order.
// A handler that cancels its own subscription still completes the current
// delivery; it receives no further values.
func (s *Stream[T]) Emit(v T) {
	s.mu.Lock()
	subs := make([]*Subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(v)
	}
}

// Len returns the number of active subscriptions.
func (s *Stream[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Stream[T]) remove(sub *Subscription[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, candidate := range s.subs {
		if candidate.id == sub.id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func (sub *Subscription[T]) deliver(v T) {
	sub.mu.Lock()
	if sub.cancelled {
		sub.mu.Unlock()
		return
	}
	fn := sub.handler
	sub.mu.Unlock()

	fn(v)
}

// Cancel detaches the subscription from its stream. After Cancel returns,
// the handler will not be invoked again. Safe to call more than once.
func (sub *Subscription[T]) Cancel() {
	sub.mu.Lock()
	if sub.cancelled {
		sub.mu.Unlock()
		return
	}
	sub.cancelled = true
	sub.mu.Unlock()

	sub.stream.remove(sub)
}

// Active reports whether the subscription is still attached.
func (sub *Subscription[T]) Active() bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return !sub.cancelled
}
