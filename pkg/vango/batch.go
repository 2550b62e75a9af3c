package vango

// DebugMode enables dev-time validation such as hook order checking.
// Set it at startup; it is not synchronized.
var DebugMode bool

// Batch groups signal writes so that every affected listener is notified
// once, after the outermost batch returns.
//
//	vango.Batch(func() {
//	    first.Set("Ada")
//	    last.Set("Lovelace")
//	})
func Batch(fn func()) {
	ctx, gid := ensureContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth > 0 {
			return
		}
		pending := ctx.pending
		ctx.pending = nil
		releaseIfIdle(ctx, gid)
		flush(pending)
	}()

	fn()
}

// queuePending defers a notification until the current batch completes.
func queuePending(l Listener) {
	ctx, _ := ensureContext()
	ctx.pending = append(ctx.pending, l)
}

// flush notifies each listener once, in first-queued order.
func flush(listeners []Listener) {
	if len(listeners) == 0 {
		return
	}
	seen := make(map[uint64]struct{}, len(listeners))
	for _, l := range listeners {
		id := l.ID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		l.MarkDirty()
	}
}
