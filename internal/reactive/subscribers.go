package reactive

import (
	"cmp"
	"slices"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

// subscriberSet holds callbacks keyed by a monotonically increasing id.
type subscriberSet[T any] struct {
	subs   *xsync.Map[uint64, func(T)]
	nextID atomic.Uint64
}

type subscriberEntry[T any] struct {
	id uint64
	fn func(T)
}

func newSubscriberSet[T any]() *subscriberSet[T] {
	return &subscriberSet[T]{subs: xsync.NewMap[uint64, func(T)]()}
}

// add registers fn and returns a function removing it again.
// The returned function is idempotent.
func (s *subscriberSet[T]) add(fn func(T)) func() {
	id := s.nextID.Add(1)
	s.subs.Store(id, fn)

	return func() {
		s.subs.Delete(id)
	}
}

// notify calls every subscriber with v in subscription order.
func (s *subscriberSet[T]) notify(v T) {
	entries := make([]subscriberEntry[T], 0, s.subs.Size())
	s.subs.Range(func(id uint64, fn func(T)) bool {
		entries = append(entries, subscriberEntry[T]{id: id, fn: fn})
		return true
	})
	slices.SortFunc(entries, func(a, b subscriberEntry[T]) int {
		return cmp.Compare(a.id, b.id)
	})

	for _, e := range entries {
		e.fn(v)
	}
}

func (s *subscriberSet[T]) size() int {
	return s.subs.Size()
}
