package vango

import (
	"bytes"
	"runtime"
	"sync"
)

// trackingContext is the reactive state of a single goroutine.
type trackingContext struct {
	// owner receives effects and hook slots created while it is current.
	owner *Owner

	// listener is subscribed to every signal read while it is current.
	listener Listener

	// batchDepth counts nested Batch calls. Notifications are queued in
	// pending while it is above zero.
	batchDepth int
	pending    []Listener
}

func (c *trackingContext) idle() bool {
	return c.owner == nil && c.listener == nil && c.batchDepth == 0 && len(c.pending) == 0
}

// contexts maps goroutine IDs to their tracking context. Entries are created
// by the setters below and dropped again once the goroutine is idle, so plain
// reads from request goroutines never allocate one.
var contexts sync.Map

// goroutineID parses the current goroutine ID from the runtime stack header
// ("goroutine 42 [running]:").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))

	var id uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}

// lookupContext returns the current goroutine's context or nil.
func lookupContext() *trackingContext {
	if ctx, ok := contexts.Load(goroutineID()); ok {
		return ctx.(*trackingContext)
	}
	return nil
}

// ensureContext returns the current goroutine's context, creating it.
func ensureContext() (*trackingContext, uint64) {
	gid := goroutineID()
	if ctx, ok := contexts.Load(gid); ok {
		return ctx.(*trackingContext), gid
	}
	ctx := &trackingContext{}
	contexts.Store(gid, ctx)
	return ctx, gid
}

func releaseIfIdle(ctx *trackingContext, gid uint64) {
	if ctx.idle() {
		contexts.Delete(gid)
	}
}

func currentListener() Listener {
	if ctx := lookupContext(); ctx != nil {
		return ctx.listener
	}
	return nil
}

func currentOwner() *Owner {
	if ctx := lookupContext(); ctx != nil {
		return ctx.owner
	}
	return nil
}

func batchDepth() int {
	if ctx := lookupContext(); ctx != nil {
		return ctx.batchDepth
	}
	return 0
}

// swapListener installs l as the current listener and returns a function
// restoring the previous one.
func swapListener(l Listener) func() {
	ctx, gid := ensureContext()
	prev := ctx.listener
	ctx.listener = l
	return func() {
		ctx.listener = prev
		releaseIfIdle(ctx, gid)
	}
}

// swapOwner installs o as the current owner and returns a function restoring
// the previous one.
func swapOwner(o *Owner) func() {
	ctx, gid := ensureContext()
	prev := ctx.owner
	ctx.owner = o
	return func() {
		ctx.owner = prev
		releaseIfIdle(ctx, gid)
	}
}

// WithListener runs fn with l tracking every signal read.
func WithListener(l Listener, fn func()) {
	restore := swapListener(l)
	defer restore()
	fn()
}

// WithOwner runs fn with o as the owner of effects and hook slots.
//
// Goroutines do not inherit their parent's owner; use WithOwner to
// propagate it explicitly:
//
//	go func() {
//	    vango.WithOwner(owner, func() {
//	        vango.CreateEffect(...)
//	    })
//	}()
func WithOwner(o *Owner, fn func()) {
	restore := swapOwner(o)
	defer restore()
	fn()
}

// Untracked runs fn without subscribing the current listener to anything
// read inside it.
func Untracked(fn func()) {
	restore := swapListener(nil)
	defer restore()
	fn()
}
