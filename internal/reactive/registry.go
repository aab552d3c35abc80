package reactive

import (
	"fmt"
	"slices"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/superKazi/awal-lazard/types"
)

// Observable is anything that can be subscribed to by name.
type Observable interface {
	Name() string
	SubscribeAny(fn func(any)) func()
}

// Registry maps field names to observables.
type Registry struct {
	entries *xsync.Map[string, Observable]
}

// NewRegistry creates a registry holding the given observables.
func NewRegistry(obs ...Observable) *Registry {
	r := &Registry{entries: xsync.NewMap[string, Observable]()}
	for _, o := range obs {
		r.Register(o)
	}

	return r
}

// Register adds o under its name, replacing any previous entry.
func (r *Registry) Register(o Observable) {
	r.entries.Store(o.Name(), o)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.entries.Size())
	r.entries.Range(func(name string, _ Observable) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)

	return names
}

// Subscribe registers fn on the named observable.
//
// Returns:
//   - func(): Unsubscribe function
//   - error: ErrUnknownField if no observable has that name
func (r *Registry) Subscribe(name string, fn func(any)) (func(), error) {
	o, ok := r.entries.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownField, name)
	}

	return o.SubscribeAny(fn), nil
}
