package reactive

import (
	"github.com/vango-dev/reactive/pkg/vango"
)

// slot is what a key of a Reactive is bound to. Exactly one field is set.
type slot struct {
	fn    any
	cell  vango.AnySignal
	child *Reactive
}

// Reactive is a wrapped State. Every non-function key is backed by its own
// cell (or, in deep mode, by a nested Reactive), so reads can be tracked and
// writes notify per key.
//
// The key set is fixed at construction. A Reactive is not safe for
// concurrent mutation; callers sharing one across goroutines serialize
// access themselves.
type Reactive struct {
	slots   map[string]slot
	keys    []string
	shallow bool
	opts    *options
}

// New wraps state deeply: nested objects become nested Reactives, atomic
// values get a fresh cell, and cells and Reactives found in state are
// reused as-is so writes through either side stay visible to both.
func New(state State, opts ...Option) *Reactive {
	return wrap(state, false, buildOptions(opts))
}

// NewShallow wraps only the top level of state. Every non-function key gets
// exactly one cell; nested objects are boxed whole, and a Reactive found in
// state is replaced by a fresh cell holding its Raw value.
func NewShallow(state State, opts ...Option) *Reactive {
	return wrap(state, true, buildOptions(opts))
}

func wrap(state State, shallow bool, opts *options) *Reactive {
	r := &Reactive{
		slots:   make(map[string]slot, len(state)),
		keys:    sortedKeys(state),
		shallow: shallow,
		opts:    opts,
	}
	for _, key := range r.keys {
		r.slots[key] = r.bind(state[key])
	}
	opts.observer.Wrapped(shallow, len(r.keys))
	return r
}

func (r *Reactive) bind(value any) slot {
	switch classify(value) {
	case kindFunc:
		return slot{fn: value}
	case kindCell:
		return slot{cell: value.(vango.AnySignal)}
	case kindReactive:
		sub := value.(*Reactive)
		if r.shallow {
			return r.box(sub.raw())
		}
		return slot{child: sub}
	case kindObject:
		if r.shallow {
			return r.box(value)
		}
		return slot{child: wrap(value.(map[string]any), false, r.opts)}
	default:
		return r.box(value)
	}
}

func (r *Reactive) box(value any) slot {
	r.opts.observer.CellCreated()
	return slot{cell: vango.NewSignal[any](value)}
}

// IsShallow reports whether r was built by NewShallow.
func (r *Reactive) IsShallow() bool {
	return r.shallow
}
