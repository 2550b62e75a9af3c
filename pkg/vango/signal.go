package vango

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

// AnySignal is the type-erased view of a Signal. Containers that keep cells
// of different element types side by side store them as AnySignal.
type AnySignal interface {
	// ID returns the signal's unique identifier.
	ID() uint64

	// GetAny returns the current value and subscribes the current listener.
	GetAny() any

	// PeekAny returns the current value without subscribing.
	PeekAny() any

	// SetAny stores value. It fails with ErrTypeMismatch when value is not
	// assignable to the signal's element type. A nil value stores the zero
	// value.
	SetAny(value any) error
}

// signalBase holds the subscriber list shared by every signal type.
type signalBase struct {
	id uint64

	subs  []Listener
	subMu sync.Mutex
}

// subscribe adds l unless a listener with the same ID is already present.
func (s *signalBase) subscribe(l Listener) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == id {
			return
		}
	}
	s.subs = append(s.subs, l)
}

func (s *signalBase) unsubscribe(l Listener) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *signalBase) subscriberCount() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// notify marks subscribers dirty, or queues them while a batch is open.
// Subscribers are copied first so they may resubscribe while being notified.
func (s *signalBase) notify() {
	s.subMu.Lock()
	subs := append([]Listener(nil), s.subs...)
	s.subMu.Unlock()

	if batchDepth() > 0 {
		for _, l := range subs {
			queuePending(l)
		}
		return
	}
	for _, l := range subs {
		l.MarkDirty()
	}
}

// track subscribes the current listener, if any.
func (s *signalBase) track() {
	l := currentListener()
	if l == nil {
		return
	}
	s.subscribe(l)
	if st, ok := l.(sourceTracker); ok {
		st.addSource(s)
	}
}

// Signal is a reactive value container. Reading it with Get while a listener
// is current subscribes that listener; Set notifies subscribers when the
// value actually changes.
type Signal[T any] struct {
	base signalBase

	value T
	mu    sync.RWMutex

	// equal decides whether a write is a change. nil uses defaultEquals.
	equal func(T, T) bool
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base:  signalBase{id: nextID()},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	v := s.value
	s.mu.RUnlock()

	s.base.track()
	return v
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and notifies subscribers if it differs from the current
// value.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.base.notify()
	}
}

// Update replaces the value with fn(current).
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	changed := !s.equals(s.value, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()

	if changed {
		s.base.notify()
	}
}

// WithEquals sets a custom change detector and returns the signal.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the signal's unique identifier.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

// GetAny implements AnySignal.
func (s *Signal[T]) GetAny() any {
	return s.Get()
}

// PeekAny implements AnySignal.
func (s *Signal[T]) PeekAny() any {
	return s.Peek()
}

// SetAny implements AnySignal.
func (s *Signal[T]) SetAny(value any) error {
	if value == nil {
		var zero T
		s.Set(zero)
		return nil
	}
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf("%w: signal holds %s, got %T", ErrTypeMismatch, elemType[T](), value)
	}
	s.Set(v)
	return nil
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

func elemType[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// defaultEquals compares scalars with == and everything else with
// reflect.DeepEqual. Values of different dynamic types are never equal, which
// matters for Signal[any].
func defaultEquals[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if av == nil || bv == nil {
		return av == nil && bv == nil
	}
	if reflect.TypeOf(av) != reflect.TypeOf(bv) {
		return false
	}
	switch x := av.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return x == bv
	case time.Time:
		return x.Equal(bv.(time.Time))
	default:
		return reflect.DeepEqual(av, bv)
	}
}

var _ AnySignal = (*Signal[any])(nil)
