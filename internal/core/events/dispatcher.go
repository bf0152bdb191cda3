// Package events implements the deferred dispatch queue that decouples
// subscriber callbacks from the simulation step that produced them. Events
// raised during a step are buffered and only delivered when the owner drains
// the queue after the step completes, so a handler can never synchronously
// re-enter the step that is still running. That non-reentrancy guarantee is a
// correctness requirement, not an optimization: a host reacting to a
// collision by mutating state that feeds back into the running step is an
// unbounded-update-loop factory.
package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/VeerOneGPT/galileo-motion/internal/core/observability/log"
)

// Handler consumes one delivered event.
type Handler[T any] func(T)

// Subscription is a registered handler. Cancel is safe to call at any time,
// including from inside the handler itself.
type Subscription struct {
	id     string
	topic  string
	cancel func()
}

// ID returns the subscription's unique id.
func (s *Subscription) ID() string { return s.id }

// Topic returns the topic the subscription listens on.
func (s *Subscription) Topic() string { return s.topic }

// Cancel deregisters the handler. Events already queued are still delivered
// to other subscribers; this handler will not be invoked again.
func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

type queued[T any] struct {
	topic string
	event T
}

// Dispatcher buffers events per topic and delivers them on Drain.
type Dispatcher[T any] struct {
	mu       sync.RWMutex
	handlers map[string]map[string]Handler[T]
	queue    []queued[T]
	logger   log.Log
}

// NewDispatcher creates an empty dispatcher. A nil logger is replaced with a
// nop logger.
func NewDispatcher[T any](logger log.Log) *Dispatcher[T] {
	if logger == nil {
		logger = log.Nop()
	}
	return &Dispatcher[T]{
		handlers: make(map[string]map[string]Handler[T]),
		logger:   logger,
	}
}

// Subscribe registers a handler for a topic and returns its subscription.
func (d *Dispatcher[T]) Subscribe(topic string, handler Handler[T]) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers[topic] == nil {
		d.handlers[topic] = make(map[string]Handler[T])
	}
	id := uuid.NewString()
	d.handlers[topic][id] = handler
	sub := &Subscription{id: id, topic: topic}
	sub.cancel = func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if m, ok := d.handlers[topic]; ok {
			delete(m, id)
			if len(m) == 0 {
				delete(d.handlers, topic)
			}
		}
	}
	return sub
}

// Enqueue buffers an event for later delivery. Called from inside the step
// loop; never invokes handlers.
func (d *Dispatcher[T]) Enqueue(topic string, event T) {
	d.mu.Lock()
	d.queue = append(d.queue, queued[T]{topic: topic, event: event})
	d.mu.Unlock()
}

// Drain delivers every queued event in enqueue order. Events enqueued by a
// handler during the drain are held for the next drain, keeping each delivery
// pass bounded. Handler panics are recovered and logged so one subscriber
// cannot take down the simulation loop.
func (d *Dispatcher[T]) Drain() {
	d.mu.Lock()
	batch := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, q := range batch {
		d.mu.RLock()
		m := d.handlers[q.topic]
		hs := make([]Handler[T], 0, len(m))
		for _, h := range m {
			hs = append(hs, h)
		}
		d.mu.RUnlock()

		for _, h := range hs {
			d.invoke(q.topic, h, q.event)
		}
	}
}

func (d *Dispatcher[T]) invoke(topic string, h Handler[T], ev T) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked",
				log.String("topic", topic),
				log.Any("panic", r),
			)
		}
	}()
	h(ev)
}

// Pending returns the number of undelivered events.
func (d *Dispatcher[T]) Pending() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.queue)
}

// Clear drops all queued events without delivering them.
func (d *Dispatcher[T]) Clear() {
	d.mu.Lock()
	d.queue = nil
	d.mu.Unlock()
}
