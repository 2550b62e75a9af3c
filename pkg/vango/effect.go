package vango

import (
	"sync"
	"sync/atomic"
)

// Effect is a side effect that re-runs whenever a signal it read during its
// last run changes.
//
// An effect created without a current owner re-runs synchronously on the
// goroutine that performed the write. An effect created under an owner is
// queued on that owner and runs on the next RunPendingEffects.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*signalBase
	sourcesMu sync.Mutex

	owner *Owner

	pending  atomic.Bool
	running  atomic.Bool
	disposed atomic.Bool
}

// CreateEffect runs fn immediately and again whenever its dependencies
// change. During an owner render the same Effect is returned on every render
// and its body is replaced with fn.
//
//	vango.CreateEffect(func() vango.Cleanup {
//	    log.Println("count:", count.Get())
//	    return nil
//	})
func CreateEffect(fn func() Cleanup) *Effect {
	owner := currentOwner()
	rendering := owner != nil && owner.rendering

	if owner != nil {
		owner.TrackHook(HookEffect)
	}
	if rendering {
		if slot := owner.UseHookSlot(); slot != nil {
			e, ok := slot.(*Effect)
			if !ok {
				panic("vango: hook slot type mismatch for Effect")
			}
			e.fn = fn
			return e
		}
	}

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}
	if owner != nil {
		owner.registerEffect(e)
	}
	if rendering {
		owner.SetHookSlot(e)
	}

	e.run()
	return e
}

// ID implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

// MarkDirty implements Listener.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.owner != nil {
		if e.pending.CompareAndSwap(false, true) {
			e.owner.scheduleEffect(e)
		}
		return
	}
	if e.running.Load() {
		// A write from inside the body; picked up by the loop in run.
		e.pending.Store(true)
		return
	}
	e.run()
}

// Dispose stops the effect, runs its last cleanup and unsubscribes it from
// every source. Disposing twice is a no-op.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.dropSources()
}

// IsDisposed reports whether Dispose has been called.
func (e *Effect) IsDisposed() bool {
	return e.disposed.Load()
}

func (e *Effect) run() {
	e.running.Store(true)
	defer e.running.Store(false)

	for {
		if e.disposed.Load() {
			return
		}
		e.pending.Store(false)
		e.execute()
		if e.owner != nil || !e.pending.Load() {
			return
		}
	}
}

func (e *Effect) execute() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.dropSources()

	restore := swapListener(e)
	defer restore()
	e.cleanup = e.fn()
}

func (e *Effect) dropSources() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, s := range sources {
		s.unsubscribe(e)
	}
}

func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}
