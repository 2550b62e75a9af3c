package reactive

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/reactive/pkg/vango"
)

func sampleState() State {
	return State{
		"name":  "Ada",
		"age":   36,
		"admin": false,
		"tags":  []any{"math", "engines"},
		"address": State{
			"city": "London",
			"geo":  State{"lat": 51.5, "lng": -0.12},
		},
		"greet": Method(func(self *Reactive, _ ...any) any {
			return "hello " + self.Get("name").(string)
		}),
	}
}

func TestRawRoundTrip(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		state func() State
	}{
		{"sample", sampleState},
		{"empty", func() State { return State{} }},
		{"nested empty", func() State {
			return State{"a": State{}, "b": State{"c": State{}}}
		}},
		{"nil leaves", func() State {
			return State{
				"nil":   nil,
				"map":   State(nil),
				"slice": []any(nil),
				"ptr":   (*int)(nil),
			}
		}},
		{"arrays", func() State {
			return State{
				"list":   []any{1, "two", State{"three": 3}},
				"fixed":  [3]int{1, 2, 3},
				"nested": State{"ids": []int{4, 5}},
			}
		}},
		{"time", func() State {
			return State{"at": when, "meta": State{"at": &when}}
		}},
		{"deep", func() State {
			return State{"a": State{"b": State{"c": State{"d": State{"e": "leaf"}}}}}
		}},
	}
	for _, tt := range tests {
		for _, shallow := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/shallow=%v", tt.name, shallow), func(t *testing.T) {
				var r *Reactive
				if shallow {
					r = NewShallow(tt.state())
				} else {
					r = New(tt.state())
				}

				want := tt.state()
				delete(want, "greet")

				got := Raw(r)
				if !reflect.DeepEqual(got, want) {
					t.Errorf("Raw = %#v, want %#v", got, want)
				}
			})
		}
	}
}

func TestReadReturnsCurrentValue(t *testing.T) {
	r := New(sampleState())

	if r.Get("name") != "Ada" {
		t.Errorf("name = %v", r.Get("name"))
	}
	if err := r.Set("name", "Grace"); err != nil {
		t.Fatal(err)
	}
	if r.Get("name") != "Grace" {
		t.Errorf("name after write = %v", r.Get("name"))
	}

	// Cells accept any type once wrapped.
	if err := r.Set("age", "unknown"); err != nil {
		t.Fatal(err)
	}
	if r.Get("age") != "unknown" {
		t.Errorf("age = %v", r.Get("age"))
	}

	if v, ok := r.Lookup("missing"); ok || v != nil {
		t.Errorf("Lookup(missing) = %v, %v", v, ok)
	}
	if r.Get("missing") != nil {
		t.Errorf("missing key should read as nil")
	}
}

func TestWriteUnknownKeyFails(t *testing.T) {
	for _, r := range []*Reactive{New(sampleState()), NewShallow(sampleState())} {
		err := r.Set("email", "ada@example.com")
		if !errors.Is(err, ErrUnknownKey) {
			t.Errorf("shallow=%v: expected ErrUnknownKey, got %v", r.IsShallow(), err)
		}
		if r.Has("email") {
			t.Errorf("key set must not grow")
		}
		if !strings.Contains(err.Error(), `"email"`) {
			t.Errorf("error should name the key: %v", err)
		}
	}
}

func TestFunctionKeysAreImmutable(t *testing.T) {
	for _, r := range []*Reactive{New(sampleState()), NewShallow(sampleState())} {
		err := r.Set("greet", "nope")
		if !errors.Is(err, ErrImmutableMethod) {
			t.Fatalf("expected ErrImmutableMethod, got %v", err)
		}

		greet, ok := r.Get("greet").(func(...any) any)
		if !ok {
			t.Fatalf("greet should read as a bound method, got %T", r.Get("greet"))
		}
		if got := greet(); got != "hello Ada" {
			t.Errorf("greet() = %v", got)
		}
	}
}

func TestMethodSeesWritesThroughSelf(t *testing.T) {
	counter := New(State{
		"count": 0,
		"inc": Method(func(self *Reactive, args ...any) any {
			step := 1
			if len(args) > 0 {
				step = args[0].(int)
			}
			return self.Set("count", self.Get("count").(int)+step)
		}),
	})

	if _, err := counter.Call("inc"); err != nil {
		t.Fatal(err)
	}
	res, err := counter.Call("inc", 5)
	if err != nil || res != nil {
		t.Fatalf("Call = %v, %v", res, err)
	}
	if counter.Get("count") != 6 {
		t.Errorf("count = %v, want 6", counter.Get("count"))
	}

	if _, err := counter.Call("count"); !errors.Is(err, ErrNotMethod) {
		t.Errorf("expected ErrNotMethod, got %v", err)
	}
	if _, err := counter.Call("nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
}

func TestPlainFuncsAreKeptAsIs(t *testing.T) {
	calls := 0
	fn := func() { calls++ }
	r := New(State{"fn": fn})

	got, ok := r.Get("fn").(func())
	if !ok {
		t.Fatalf("plain func should be returned unchanged, got %T", r.Get("fn"))
	}
	got()
	if calls != 1 {
		t.Errorf("calls = %d", calls)
	}
	if _, ok := Raw(r)["fn"]; ok {
		t.Errorf("Raw must drop functions")
	}
	if !errors.Is(r.Set("fn", func() {}), ErrImmutableMethod) {
		t.Errorf("plain funcs are immutable too")
	}
}

func TestNestedMerge(t *testing.T) {
	r := New(State{"a": State{"b": 1}})

	a, ok := r.Get("a").(*Reactive)
	if !ok {
		t.Fatalf("a should be a nested reactive, got %T", r.Get("a"))
	}
	if a.Get("b") != 1 {
		t.Errorf("a.b = %v", a.Get("b"))
	}

	if err := r.Set("a", State{"b": 2}); err != nil {
		t.Fatal(err)
	}
	if a.Get("b") != 2 {
		t.Errorf("a.b after merge = %v", a.Get("b"))
	}
	if child, _ := r.Child("a"); child != a {
		t.Errorf("merge must mutate in place, not replace the nested reactive")
	}

	if err := r.Set("a", State{"c": 3}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey for new nested key, got %v", err)
	}
	if a.Has("c") {
		t.Errorf("nested key set must not grow")
	}

	if err := r.Set("a", 5); !errors.Is(err, ErrNotObject) {
		t.Errorf("expected ErrNotObject, got %v", err)
	}
	if err := r.Set("a", []any{1}); !errors.Is(err, ErrNotObject) {
		t.Errorf("expected ErrNotObject for slice, got %v", err)
	}
}

func TestNestedMergeIsBatched(t *testing.T) {
	r := New(State{"pos": State{"x": 0, "y": 0}})
	pos, _ := r.Child("pos")

	runs := 0
	e := vango.CreateEffect(func() vango.Cleanup {
		runs++
		_ = pos.Get("x")
		_ = pos.Get("y")
		return nil
	})
	defer e.Dispose()

	if err := r.Set("pos", State{"x": 1, "y": 2}); err != nil {
		t.Fatal(err)
	}
	if runs != 2 {
		t.Errorf("expected one re-run for a merged write, got %d runs", runs)
	}
}

func TestShallowBoxesObjects(t *testing.T) {
	r := NewShallow(State{"a": State{"b": 1}})

	got, ok := r.Get("a").(map[string]any)
	if !ok {
		t.Fatalf("shallow a should be a plain object, got %T", r.Get("a"))
	}
	if !reflect.DeepEqual(got, State{"b": 1}) {
		t.Errorf("a = %v", got)
	}
	if IsReactive(r.Get("a")) {
		t.Errorf("shallow values are never reactives")
	}
	if _, ok := r.Child("a"); ok {
		t.Errorf("shallow reactive has no children")
	}

	cell, err := ToCell(r, "a")
	if err != nil {
		t.Fatalf("ToCell: %v", err)
	}
	if !reflect.DeepEqual(cell.PeekAny(), State{"b": 1}) {
		t.Errorf("cell value = %v", cell.PeekAny())
	}

	// A shallow cell takes a whole replacement object.
	if err := r.Set("a", State{"c": 3}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r.Get("a"), State{"c": 3}) {
		t.Errorf("a after replace = %v", r.Get("a"))
	}
}

func TestKeys(t *testing.T) {
	r := New(State{"value": 1, "b": 2, "a": State{"x": 1}, "fn": func() {}})

	want := []string{"a", "b", "fn", "value"}
	if got := r.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
	if r.Len() != 4 {
		t.Errorf("Len = %d", r.Len())
	}

	keys := r.Keys()
	keys[0] = "mutated"
	if r.Keys()[0] != "a" {
		t.Errorf("Keys must return a copy")
	}

	empty := New(nil)
	if empty.Len() != 0 || len(empty.Keys()) != 0 {
		t.Errorf("nil state should wrap to an empty reactive")
	}
}

func TestAssigningReactiveAlwaysFails(t *testing.T) {
	other := New(State{"b": 1})

	for _, r := range []*Reactive{
		New(State{"n": 1, "obj": State{"b": 0}}),
		NewShallow(State{"n": 1, "obj": State{"b": 0}}),
	} {
		for _, key := range []string{"n", "obj"} {
			if err := r.Set(key, other); !errors.Is(err, ErrReactiveAssign) {
				t.Errorf("shallow=%v key=%s: expected ErrReactiveAssign, got %v", r.IsShallow(), key, err)
			}
		}
		if err := r.Set("obj", Raw(other)); err != nil {
			t.Errorf("shallow=%v: raw object should be accepted: %v", r.IsShallow(), err)
		}
	}
}

func TestIsReactive(t *testing.T) {
	var nilReactive *Reactive
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"deep", New(State{"a": 1}), true},
		{"shallow", NewShallow(State{"a": 1}), true},
		{"plain object", State{"a": 1}, false},
		{"cell", vango.NewSignal[any](1), false},
		{"int", 1, false},
		{"string", "x", false},
		{"nil", nil, false},
		{"nil reactive pointer", nilReactive, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReactive(tt.v); got != tt.want {
				t.Errorf("IsReactive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBorrowedCellIsShared(t *testing.T) {
	cell := vango.NewSignal[any](1)
	r1 := New(State{"x": cell})
	r2 := NewShallow(State{"x": cell})

	if err := r1.Set("x", 5); err != nil {
		t.Fatal(err)
	}
	if r2.Get("x") != 5 {
		t.Errorf("write through r1 should be visible through r2, got %v", r2.Get("x"))
	}

	got, err := ToCell(r2, "x")
	if err != nil {
		t.Fatal(err)
	}
	if got != vango.AnySignal(cell) {
		t.Errorf("borrowed cell identity must be preserved")
	}
}

func TestBorrowedTypedCell(t *testing.T) {
	n := vango.NewSignal(1)
	r := New(State{"n": n})

	if err := r.Set("n", 2); err != nil {
		t.Fatal(err)
	}
	if n.Peek() != 2 {
		t.Errorf("typed cell = %d", n.Peek())
	}

	err := r.Set("n", "two")
	if !errors.Is(err, ErrCellType) || !errors.Is(err, vango.ErrTypeMismatch) {
		t.Errorf("expected ErrCellType wrapping ErrTypeMismatch, got %v", err)
	}
}

func TestBorrowedReactive(t *testing.T) {
	inner := New(State{"v": 1})

	deep := New(State{"in": inner})
	if child, _ := deep.Child("in"); child != inner {
		t.Fatalf("deep mode must reuse a borrowed reactive")
	}

	shallow := NewShallow(State{"in": inner})
	if err := inner.Set("v", 2); err != nil {
		t.Fatal(err)
	}
	if got := deep.Get("in").(*Reactive).Get("v"); got != 2 {
		t.Errorf("deep borrow should share writes, got %v", got)
	}
	if got := shallow.Get("in").(map[string]any)["v"]; got != 1 {
		t.Errorf("shallow copy is detached from later writes, got %v", got)
	}
}

func TestToCell(t *testing.T) {
	r := New(sampleState())

	cell, err := ToCell(r, "name")
	if err != nil {
		t.Fatal(err)
	}
	if err := cell.SetAny("Grace"); err != nil {
		t.Fatal(err)
	}
	if r.Get("name") != "Grace" {
		t.Errorf("cell write should be visible through the reactive")
	}

	if _, err := ToCell(r, "greet"); !errors.Is(err, ErrCellOnMethod) {
		t.Errorf("expected ErrCellOnMethod, got %v", err)
	}
	if _, err := ToCell(r, "address"); !errors.Is(err, ErrCellOnNested) {
		t.Errorf("expected ErrCellOnNested, got %v", err)
	}
	if _, err := r.Helpers().Cell("missing"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
}

func TestReadsAreTracked(t *testing.T) {
	r := New(State{"count": 0, "other": 0})
	var seen []any

	e := vango.CreateEffect(func() vango.Cleanup {
		seen = append(seen, r.Get("count"))
		_ = r.Peek("other")
		return nil
	})
	defer e.Dispose()

	r.MustSet("count", 1)
	r.MustSet("other", 1)

	if !reflect.DeepEqual(seen, []any{0, 1}) {
		t.Errorf("effect runs = %v", seen)
	}
}

func TestRawIsTracked(t *testing.T) {
	r := New(State{"a": State{"b": 1}})
	runs := 0

	e := vango.CreateEffect(func() vango.Cleanup {
		runs++
		_ = Raw(r)
		return nil
	})
	defer e.Dispose()

	if err := SetPath(r, "a.b", 2); err != nil {
		t.Fatal(err)
	}
	if runs != 2 {
		t.Errorf("Raw should subscribe to nested cells, runs = %d", runs)
	}
}

func TestMustSetPanics(t *testing.T) {
	r := New(State{"a": 1})
	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, ErrUnknownKey) {
			t.Errorf("expected ErrUnknownKey panic, got %v", err)
		}
	}()
	r.MustSet("b", 1)
}

func TestValue(t *testing.T) {
	r := New(State{"n": 3, "s": "x"})

	if n, ok := Value[int](r, "n"); !ok || n != 3 {
		t.Errorf("Value[int] = %v, %v", n, ok)
	}
	if _, ok := Value[int](r, "s"); ok {
		t.Errorf("Value[int] of a string should fail")
	}
	if _, ok := Value[string](r, "missing"); ok {
		t.Errorf("Value of a missing key should fail")
	}
}

func TestClassify(t *testing.T) {
	var nilFunc func()
	now := time.Now()
	type point struct{ X, Y int }

	tests := []struct {
		name string
		v    any
		want valueKind
	}{
		{"nil", nil, kindAtomic},
		{"int", 1, kindAtomic},
		{"float", 1.5, kindAtomic},
		{"uint8", uint8(1), kindAtomic},
		{"string", "s", kindAtomic},
		{"bool", true, kindAtomic},
		{"time", now, kindAtomic},
		{"time pointer", &now, kindAtomic},
		{"slice", []int{1}, kindAtomic},
		{"array", [2]int{1, 2}, kindAtomic},
		{"nil func", nilFunc, kindAtomic},
		{"nil object", State(nil), kindAtomic},
		{"nil slice", []any(nil), kindAtomic},
		{"nil chan", (chan int)(nil), kindAtomic},
		{"func", func() {}, kindFunc},
		{"method", Method(func(*Reactive, ...any) any { return nil }), kindFunc},
		{"cell", vango.NewSignal(1), kindCell},
		{"reactive", New(nil), kindReactive},
		{"object", State{}, kindObject},
		{"struct", point{1, 2}, kindOpaque},
		{"int keyed map", map[int]any{}, kindOpaque},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.v); got != tt.want {
				t.Errorf("classify(%T) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}

	if !IsAtomic([]any{}) || IsAtomic(State{}) {
		t.Errorf("IsAtomic mismatch")
	}
}

func TestOpaqueValuesAreBoxed(t *testing.T) {
	type point struct{ X, Y int }
	r := New(State{"p": point{1, 2}})

	if r.Get("p") != (point{1, 2}) {
		t.Errorf("p = %v", r.Get("p"))
	}
	if _, err := ToCell(r, "p"); err != nil {
		t.Errorf("opaque values live in a cell: %v", err)
	}
}

type countingObserver struct {
	NopObserver
	wrapped, cells, writes int
	rejected               []string
}

func (o *countingObserver) Wrapped(bool, int) { o.wrapped++ }
func (o *countingObserver) CellCreated()      { o.cells++ }
func (o *countingObserver) Written(string)    { o.writes++ }
func (o *countingObserver) Rejected(key string, _ error) {
	o.rejected = append(o.rejected, key)
}

func TestObserver(t *testing.T) {
	obs := &countingObserver{}
	borrowed := vango.NewSignal[any](0)
	r := New(State{"a": 1, "b": State{"c": 2}, "d": borrowed}, WithObserver(obs))

	if obs.wrapped != 2 {
		t.Errorf("wrapped = %d, want 2 (root and nested)", obs.wrapped)
	}
	if obs.cells != 2 {
		t.Errorf("cells = %d, want 2 (borrowed cell not counted)", obs.cells)
	}

	r.MustSet("a", 2)
	r.MustSet("b", State{"c": 3})
	if obs.writes != 2 {
		t.Errorf("writes = %d, want 2 (a and b, merged keys not counted)", obs.writes)
	}

	_ = r.Set("zzz", 1)
	_ = r.Set("b", State{"missing": 1})
	if !reflect.DeepEqual(obs.rejected, []string{"zzz", "b"}) {
		t.Errorf("rejected = %v, want [zzz b]", obs.rejected)
	}
	if obs.writes != 2 {
		t.Errorf("writes after rejections = %d, want 2", obs.writes)
	}
}

func TestRejectedWritesAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New(State{"a": 1}, WithLogger(logger))

	_ = r.Set("b", 1)
	out := buf.String()
	if !strings.Contains(out, "write rejected") || !strings.Contains(out, "key=b") {
		t.Errorf("log output = %q", out)
	}
}

func TestKindOf(t *testing.T) {
	r := New(sampleState())
	tests := []struct {
		key  string
		want Kind
		ok   bool
	}{
		{"name", KindCell, true},
		{"tags", KindCell, true},
		{"address", KindNested, true},
		{"greet", KindFunc, true},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := r.KindOf(tt.key)
			if got != tt.want || ok != tt.ok {
				t.Errorf("KindOf = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}

	if k, _ := NewShallow(sampleState()).KindOf("address"); k != KindCell {
		t.Errorf("shallow nested object should be a cell, got %q", k)
	}
}
