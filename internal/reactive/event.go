package reactive

import "sync/atomic"

// Event is a value-less signal. Every Fire notifies all subscribers.
type Event struct {
	name  string
	count atomic.Uint64
	subs  *subscriberSet[uint64]
}

// NewEvent creates an event that has never fired.
func NewEvent(name string) *Event {
	return &Event{name: name, subs: newSubscriberSet[uint64]()}
}

// Name returns the event name.
func (e *Event) Name() string {
	return e.name
}

// Fire notifies all subscribers synchronously.
//
// Returns:
//   - uint64: Number of times the event has fired, including this one
func (e *Event) Fire() uint64 {
	n := e.count.Add(1)
	e.subs.notify(n)

	return n
}

// Count returns how often the event has fired.
func (e *Event) Count() uint64 {
	return e.count.Load()
}

// Subscribe registers fn to be called on every Fire.
func (e *Event) Subscribe(fn func()) func() {
	return e.subs.add(func(uint64) { fn() })
}

// SubscribeAny registers fn with the fire count boxed as any.
func (e *Event) SubscribeAny(fn func(any)) func() {
	return e.subs.add(func(n uint64) { fn(n) })
}

// Ref returns a read-only view of the event.
func (e *Event) Ref() EventRef {
	return &eventRef{e: e}
}

// EventRef is a read-only reference to an Event.
type EventRef interface {
	Name() string
	Count() uint64
	Subscribe(fn func()) func()
}

type eventRef struct {
	e *Event
}

func (r *eventRef) Name() string { return r.e.Name() }
func (r *eventRef) Count() uint64 { return r.e.Count() }
func (r *eventRef) Subscribe(fn func()) func() { return r.e.Subscribe(fn) }
