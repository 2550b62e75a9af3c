package reactive

import (
	"github.com/vango-dev/reactive/pkg/vango"
)

// UseReactive is New memoized in the current owner's hook slots: renders
// that pass the same state map get the same *Reactive back.
//
//	owner.Render(func() {
//	    form := reactive.UseReactive(initial)
//	    ...
//	})
func UseReactive(state State, opts ...Option) *Reactive {
	return vango.UseMemo(func() *Reactive {
		return New(state, opts...)
	}, state)
}

// UseShallowReactive is NewShallow memoized like UseReactive.
func UseShallowReactive(state State, opts ...Option) *Reactive {
	return vango.UseMemo(func() *Reactive {
		return NewShallow(state, opts...)
	}, state)
}

type cellResult struct {
	cell vango.AnySignal
	err  error
}

// UseCell is ToCell memoized on (r, key).
func UseCell(r *Reactive, key string) (vango.AnySignal, error) {
	res := vango.UseMemo(func() cellResult {
		c, err := ToCell(r, key)
		return cellResult{cell: c, err: err}
	}, r, key)
	return res.cell, res.err
}
