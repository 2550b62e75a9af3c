package reactive

import (
	"reflect"
	"sort"
	"time"

	"github.com/vango-dev/reactive/pkg/vango"
)

// State is a plain nested object: string keys mapped to atomic values,
// nested State values, cells, reactives or functions.
type State = map[string]any

// Method is a function-valued key. Reading it through a Reactive returns a
// func(args ...any) any with self bound to that Reactive, so the method can
// read and write sibling keys through the same contract as any caller.
//
//	counter := reactive.New(reactive.State{
//	    "count": 0,
//	    "inc": reactive.Method(func(self *reactive.Reactive, _ ...any) any {
//	        n := self.Get("count").(int)
//	        return self.Set("count", n+1)
//	    }),
//	})
type Method func(self *Reactive, args ...any) any

// valueKind is the wrapping classification of a source value.
type valueKind uint8

const (
	kindAtomic valueKind = iota
	kindFunc
	kindCell
	kindReactive
	kindObject
	kindOpaque
)

var timeType = reflect.TypeOf(time.Time{})

// classify decides how a source value is stored. Atomic values (nil, nil
// maps, booleans, numbers, strings, times, slices and arrays) and opaque
// values are boxed whole; objects are recursed into in deep mode.
func classify(v any) valueKind {
	if v == nil {
		return kindAtomic
	}
	if IsReactive(v) {
		return kindReactive
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
		if rv.IsNil() {
			return kindAtomic
		}
	}

	if _, ok := v.(vango.AnySignal); ok {
		return kindCell
	}
	if _, ok := v.(map[string]any); ok {
		return kindObject
	}

	switch rv.Kind() {
	case reflect.Func:
		return kindFunc
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Slice, reflect.Array:
		return kindAtomic
	}
	if rv.Type() == timeType || (rv.Kind() == reflect.Pointer && rv.Type().Elem() == timeType) {
		return kindAtomic
	}
	return kindOpaque
}

// IsAtomic reports whether v is boxed whole into a single cell in either
// mode.
func IsAtomic(v any) bool {
	return classify(v) == kindAtomic
}

func sortedKeys(s State) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
