package vango

import "sync/atomic"

// Listener is anything that wants to hear about changes to the signals it
// read. Effects implement it; tests and hosts may supply their own.
type Listener interface {
	// MarkDirty reports that a dependency of the listener changed.
	MarkDirty()

	// ID identifies the listener for deduplication inside a batch.
	ID() uint64
}

// Cleanup is returned from an effect body. It runs before the next run of the
// effect and when the effect is disposed.
type Cleanup func()

// sourceTracker is implemented by listeners that must unsubscribe from their
// sources before re-running.
type sourceTracker interface {
	addSource(source *signalBase)
}

var idCounter atomic.Uint64

// nextID returns a process-unique, monotonically increasing identifier.
func nextID() uint64 {
	return idCounter.Add(1)
}
