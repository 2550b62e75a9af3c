// Package vango provides the reactive primitives the reactive package builds
// on: signals, listeners, batching, effects, and owners with hook slots.
//
// # Signals
//
// Signal[T] is a reactive value container:
//
//	count := vango.NewSignal(0)
//	v := count.Get()   // tracked read
//	count.Set(5)       // notifies subscribers
//	count.Peek()       // untracked read
//
// Every signal also satisfies AnySignal, the type-erased view used by
// containers that keep cells of mixed element types.
//
// # Tracking
//
// The current listener and owner are kept per goroutine. A signal read while
// a listener is current subscribes it; see WithListener, Untracked and
// CreateEffect.
//
// # Batching
//
//	vango.Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	}) // each subscriber is notified once, here
//
// # Memoization
//
// Owner.Render runs a render function with hook slots enabled. UseMemo
// caches a value in the next slot keyed by an explicit dependency list, so
// repeated renders get the same instance back until a dependency changes.
package vango
