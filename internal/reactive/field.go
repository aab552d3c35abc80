package reactive

import "sync"

// Field is a named observable value.
//
// Get is safe from any goroutine. Set is meant to be called on the loop; it
// notifies subscribers synchronously before returning, and only when the value
// actually changed.
type Field[T comparable] struct {
	name string

	mu    sync.RWMutex
	value T

	subs *subscriberSet[T]
}

// NewField creates a field holding initial.
func NewField[T comparable](name string, initial T) *Field[T] {
	return &Field[T]{
		name:  name,
		value: initial,
		subs:  newSubscriberSet[T](),
	}
}

// Name returns the field name.
func (f *Field[T]) Name() string {
	return f.name
}

// Get returns the current value.
func (f *Field[T]) Get() T {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.value
}

// Set stores v and notifies subscribers if it differs from the current value.
//
// Returns:
//   - bool: true if the value changed
func (f *Field[T]) Set(v T) bool {
	f.mu.Lock()
	if f.value == v {
		f.mu.Unlock()
		return false
	}
	f.value = v
	f.mu.Unlock()

	f.subs.notify(v)

	return true
}

// Subscribe registers fn to be called with every new value.
//
// Returns:
//   - func(): Unsubscribe function
func (f *Field[T]) Subscribe(fn func(T)) func() {
	return f.subs.add(fn)
}

// SubscribeAny registers fn with the value boxed as any.
func (f *Field[T]) SubscribeAny(fn func(any)) func() {
	return f.subs.add(func(v T) { fn(v) })
}

// Ref returns a read-only view of the field.
func (f *Field[T]) Ref() Ref[T] {
	return &fieldRef[T]{f: f}
}

// Ref is a read-only reference to a Field.
type Ref[T comparable] interface {
	Name() string
	Get() T
	Subscribe(fn func(T)) func()
}

type fieldRef[T comparable] struct {
	f *Field[T]
}

func (r *fieldRef[T]) Name() string { return r.f.Name() }
func (r *fieldRef[T]) Get() T { return r.f.Get() }
func (r *fieldRef[T]) Subscribe(fn func(T)) func() { return r.f.Subscribe(fn) }

// Mirror forwards every value of src into dst, starting with the current one.
//
// Returns:
//   - func(): Stops forwarding
func Mirror[T comparable](src Ref[T], dst func(T)) func() {
	dst(src.Get())
	return src.Subscribe(dst)
}
