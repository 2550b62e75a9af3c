package vango

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// HookType identifies a hook call for order validation.
type HookType uint8

const (
	HookMemo HookType = iota + 1
	HookEffect
)

// String returns the hook's name.
func (h HookType) String() string {
	switch h {
	case HookMemo:
		return "Memo"
	case HookEffect:
		return "Effect"
	default:
		return "Unknown"
	}
}

// Owner is the scope a render function runs in. It owns the effects created
// under it and the hook slots that keep memoized values identity-stable
// across repeated renders.
//
// Owners form a tree that mirrors the host's component tree. Disposing an
// owner disposes its children first, then its effects, then runs its
// cleanups in reverse registration order.
type Owner struct {
	id     uint64
	parent *Owner

	mu             sync.Mutex
	children       []*Owner
	effects        []*Effect
	cleanups       []func()
	pendingEffects []*Effect

	disposed atomic.Bool

	// Render state. Only touched by the goroutine rendering this owner.
	rendering   bool
	renderCount int
	hookOrder   []HookType
	hookIndex   int
	hookSlots   []any
	hookSlotIdx int
}

// NewOwner creates an owner, registered as a child of parent when parent is
// non-nil.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{id: nextID(), parent: parent}
	if parent != nil {
		parent.mu.Lock()
		parent.children = append(parent.children, o)
		parent.mu.Unlock()
	}
	return o
}

// ID returns the owner's unique identifier.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent owner, or nil for a root.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed reports whether Dispose has been called.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// Render runs fn as one render pass of this owner: o is the current owner
// and hook slots are consumed in call order.
func (o *Owner) Render(fn func()) {
	restore := swapOwner(o)
	defer restore()

	o.StartRender()
	fn()
	o.EndRender()
}

// StartRender begins a render pass.
func (o *Owner) StartRender() {
	o.rendering = true
	o.hookSlotIdx = 0
	o.hookIndex = 0
}

// EndRender ends a render pass. In DebugMode it panics when the pass called
// fewer hooks than the first render did.
func (o *Owner) EndRender() {
	o.rendering = false
	if !DebugMode {
		return
	}
	if o.renderCount == 0 {
		o.renderCount = 1
		return
	}
	if o.hookIndex < len(o.hookOrder) {
		panic(fmt.Sprintf("vango: hook order changed: expected %d hooks, got %d",
			len(o.hookOrder), o.hookIndex))
	}
}

// TrackHook records a hook call. In DebugMode the first render fixes the
// sequence and later renders panic on any deviation.
func (o *Owner) TrackHook(ht HookType) {
	if !DebugMode || !o.rendering {
		return
	}
	if o.renderCount == 0 {
		o.hookOrder = append(o.hookOrder, ht)
	} else {
		if o.hookIndex >= len(o.hookOrder) {
			panic(fmt.Sprintf("vango: hook order changed: extra %s hook at index %d", ht, o.hookIndex))
		}
		if want := o.hookOrder[o.hookIndex]; want != ht {
			panic(fmt.Sprintf("vango: hook order changed at index %d: expected %s, got %s",
				o.hookIndex, want, ht))
		}
	}
	o.hookIndex++
}

// UseHookSlot returns the value stored for the next hook slot, or nil on the
// first render, in which case the caller creates the value and stores it
// with SetHookSlot.
func (o *Owner) UseHookSlot() any {
	idx := o.hookSlotIdx
	o.hookSlotIdx++
	if idx < len(o.hookSlots) {
		return o.hookSlots[idx]
	}
	return nil
}

// SetHookSlot stores the value for the slot just returned by UseHookSlot.
func (o *Owner) SetHookSlot(value any) {
	o.hookSlots = append(o.hookSlots, value)
}

// OnCleanup registers fn to run when the owner is disposed. If the owner is
// already disposed fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}
	o.mu.Lock()
	o.cleanups = append(o.cleanups, fn)
	o.mu.Unlock()
}

func (o *Owner) registerEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}
	o.mu.Lock()
	o.effects = append(o.effects, e)
	o.mu.Unlock()
}

func (o *Owner) scheduleEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}
	o.mu.Lock()
	o.pendingEffects = append(o.pendingEffects, e)
	o.mu.Unlock()
}

// HasPendingEffects reports whether this owner or a descendant has effects
// waiting to run.
func (o *Owner) HasPendingEffects() bool {
	if o.disposed.Load() {
		return false
	}
	o.mu.Lock()
	pending := len(o.pendingEffects) > 0
	children := append([]*Owner(nil), o.children...)
	o.mu.Unlock()

	if pending {
		return true
	}
	for _, c := range children {
		if c.HasPendingEffects() {
			return true
		}
	}
	return false
}

// RunPendingEffects runs every queued effect of this owner, then recurses
// into its children.
func (o *Owner) RunPendingEffects() {
	if o.disposed.Load() {
		return
	}
	o.mu.Lock()
	effects := o.pendingEffects
	o.pendingEffects = nil
	children := append([]*Owner(nil), o.children...)
	o.mu.Unlock()

	for _, e := range effects {
		if e.pending.Load() {
			e.run()
		}
	}
	for _, c := range children {
		c.RunPendingEffects()
	}
}

// Dispose tears down the owner and everything it owns.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}
	if p := o.parent; p != nil {
		p.removeChild(o)
	}

	o.mu.Lock()
	children := o.children
	effects := o.effects
	cleanups := o.cleanups
	o.children, o.effects, o.cleanups, o.pendingEffects = nil, nil, nil, nil
	o.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	for _, e := range effects {
		e.Dispose()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (o *Owner) removeChild(child *Owner) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}
