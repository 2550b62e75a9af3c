package reactive

import (
	"fmt"

	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/vango"
)

// Get returns the value at key: a cell's current value (a tracked read), a
// nested *Reactive, or a function. Methods come back bound to r as
// func(args ...any) any. Missing keys read as nil.
func (r *Reactive) Get(key string) any {
	v, _ := r.Lookup(key)
	return v
}

// Lookup is Get that also reports whether key exists.
func (r *Reactive) Lookup(key string) (any, bool) {
	s, ok := r.slots[key]
	if !ok {
		return nil, false
	}
	return r.read(s, true), true
}

// Peek is Get without subscribing the current listener.
func (r *Reactive) Peek(key string) any {
	s, ok := r.slots[key]
	if !ok {
		return nil
	}
	return r.read(s, false)
}

func (r *Reactive) read(s slot, tracked bool) any {
	switch {
	case s.cell != nil:
		if tracked {
			return s.cell.GetAny()
		}
		return s.cell.PeekAny()
	case s.child != nil:
		return s.child
	}
	if m, ok := s.fn.(Method); ok {
		return func(args ...any) any { return m(r, args...) }
	}
	return s.fn
}

// Child returns the nested Reactive at key.
func (r *Reactive) Child(key string) (*Reactive, bool) {
	s, ok := r.slots[key]
	if !ok || s.child == nil {
		return nil, false
	}
	return s.child, true
}

// Call invokes the Method at key with r as its receiver.
func (r *Reactive) Call(key string, args ...any) (any, error) {
	s, ok := r.slots[key]
	if !ok {
		return nil, keyError("R001", key)
	}
	m, ok := s.fn.(Method)
	if !ok {
		return nil, keyError("R010", key)
	}
	return m(r, args...), nil
}

// Keys returns every key of r, sorted. Function keys are included.
func (r *Reactive) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Has reports whether key exists.
func (r *Reactive) Has(key string) bool {
	_, ok := r.slots[key]
	return ok
}

// Len returns the number of keys.
func (r *Reactive) Len() int {
	return len(r.keys)
}

// Value returns the value at key as a T.
func Value[T any](r *Reactive, key string) (T, bool) {
	v, ok := r.Lookup(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Set writes value to key.
//
//   - key must already exist;
//   - function keys cannot be reassigned;
//   - a *Reactive is never accepted as a value, pass Raw(x) instead;
//   - a cell key stores value as-is, whatever its type (a borrowed typed
//     cell may refuse values of another type);
//   - a nested key takes a State and merges it into the nested Reactive key
//     by key, in sorted key order, under one vango.Batch. Every key of value
//     must exist in the nested Reactive; the first one that fails stops the
//     merge.
func (r *Reactive) Set(key string, value any) error {
	if err := r.set(key, value); err != nil {
		r.opts.observer.Rejected(key, err)
		r.opts.logger.Debug("reactive: write rejected", "key", key, "error", err)
		return err
	}
	r.opts.observer.Written(key)
	return nil
}

// MustSet is Set that panics on error.
func (r *Reactive) MustSet(key string, value any) {
	if err := r.Set(key, value); err != nil {
		panic(err)
	}
}

func (r *Reactive) set(key string, value any) error {
	s, ok := r.slots[key]
	if !ok {
		return keyError("R001", key)
	}
	if s.cell == nil && s.child == nil {
		return keyError("R002", key)
	}
	if IsReactive(value) {
		return keyError("R003", key)
	}

	switch {
	case s.cell != nil:
		if err := s.cell.SetAny(value); err != nil {
			return rerrors.New("R008").WithDetailf("key %q", key).Wrap(err)
		}
		return nil
	case s.child != nil:
		obj, ok := value.(map[string]any)
		if !ok {
			return rerrors.New("R004").WithDetail(fmt.Sprintf("key %q got %T", key, value))
		}
		return s.child.merge(obj)
	}
	return keyError("R005", key)
}

func (r *Reactive) merge(obj State) error {
	var err error
	vango.Batch(func() {
		for _, k := range sortedKeys(obj) {
			if err = r.set(k, obj[k]); err != nil {
				return
			}
		}
	})
	return err
}

// Kind says what a key is bound to.
type Kind string

const (
	KindCell   Kind = "cell"
	KindNested Kind = "nested"
	KindFunc   Kind = "func"
)

// KindOf reports what key is bound to.
func (r *Reactive) KindOf(key string) (Kind, bool) {
	s, ok := r.slots[key]
	switch {
	case !ok:
		return "", false
	case s.cell != nil:
		return KindCell, true
	case s.child != nil:
		return KindNested, true
	}
	return KindFunc, true
}
