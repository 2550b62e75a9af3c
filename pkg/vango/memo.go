package vango

import "reflect"

// memoSlot is the hook-slot state behind UseMemo.
type memoSlot[T any] struct {
	value T
	deps  []any
}

// UseMemo returns compute() cached across renders of the current owner.
// The cached value is reused while every dependency is identical to the one
// seen on the previous render; when any dependency differs, compute runs
// once and replaces the cache.
//
// Outside an owner render there is nowhere to keep the cache and compute
// runs on every call.
//
//	state := vango.UseMemo(func() *Cart { return newCart(items) }, items)
func UseMemo[T any](compute func() T, deps ...any) T {
	owner := currentOwner()
	if owner == nil || !owner.rendering {
		return compute()
	}
	owner.TrackHook(HookMemo)

	if raw := owner.UseHookSlot(); raw != nil {
		slot, ok := raw.(*memoSlot[T])
		if !ok {
			panic("vango: hook slot type mismatch for Memo")
		}
		if !depsEqual(slot.deps, deps) {
			slot.value = compute()
			slot.deps = append([]any(nil), deps...)
		}
		return slot.value
	}

	slot := &memoSlot[T]{
		value: compute(),
		deps:  append([]any(nil), deps...),
	}
	owner.SetHookSlot(slot)
	return slot.value
}

func depsEqual(prev, next []any) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !SameIdentity(prev[i], next[i]) {
			return false
		}
	}
	return true
}

// SameIdentity reports whether a and b are the same value for memoization
// purposes. Maps, slices, funcs, channels and pointers compare by reference;
// other comparable values compare with ==. Incomparable values never match.
func SameIdentity(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if !va.Type().Comparable() {
		return false
	}
	return a == b
}
