package reactive

import (
	"github.com/vango-dev/reactive/pkg/vango"
)

// Helpers is the administrative side of a Reactive: the escape hatches that
// are deliberately kept off the key-access API.
type Helpers struct {
	r *Reactive
}

// helperProvider is implemented only by *Reactive; the unexported method
// keeps other types from passing IsReactive.
type helperProvider interface {
	reactiveHelpers() *Helpers
}

func (r *Reactive) reactiveHelpers() *Helpers {
	if r == nil {
		return nil
	}
	return &Helpers{r: r}
}

// Helpers returns r's administrative interface.
func (r *Reactive) Helpers() *Helpers {
	return r.reactiveHelpers()
}

// Raw recursively unwraps the Reactive into a plain State: cells become
// their current values (tracked reads), nested Reactives are unwrapped the
// same way, and function keys are dropped.
func (h *Helpers) Raw() State {
	return h.r.raw()
}

// Cell returns the cell bound to key. It fails for function keys, nested
// Reactives and missing keys.
func (h *Helpers) Cell(key string) (vango.AnySignal, error) {
	s, ok := h.r.slots[key]
	switch {
	case !ok:
		return nil, keyError("R001", key)
	case s.child != nil:
		return nil, keyError("R007", key)
	case s.cell == nil:
		return nil, keyError("R006", key)
	}
	return s.cell, nil
}

func (r *Reactive) raw() State {
	out := make(State, len(r.keys))
	for _, k := range r.keys {
		s := r.slots[k]
		switch {
		case s.cell != nil:
			out[k] = s.cell.GetAny()
		case s.child != nil:
			out[k] = s.child.raw()
		}
	}
	return out
}

// IsReactive reports whether v is a non-nil value produced by New or
// NewShallow.
func IsReactive(v any) bool {
	p, ok := v.(helperProvider)
	return ok && p.reactiveHelpers() != nil
}

// Raw returns the plain State equivalent of r. See Helpers.Raw.
func Raw(r *Reactive) State {
	if r == nil {
		return nil
	}
	return r.Helpers().Raw()
}

// ToCell returns the cell bound to key in r. See Helpers.Cell.
func ToCell(r *Reactive, key string) (vango.AnySignal, error) {
	return r.Helpers().Cell(key)
}
