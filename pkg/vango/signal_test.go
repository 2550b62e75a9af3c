package vango

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type testListener struct {
	id         uint64
	mu         sync.Mutex
	dirtyCount int
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	l.dirtyCount++
	l.mu.Unlock()
}

func (l *testListener) ID() uint64 {
	return l.id
}

func (l *testListener) getDirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirtyCount
}

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestSignalPeekDoesNotSubscribe(t *testing.T) {
	count := NewSignal(42)
	listener := newTestListener()

	WithListener(listener, func() {
		if v := count.Peek(); v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	})

	count.Set(100)
	if listener.getDirtyCount() != 0 {
		t.Errorf("Peek should not subscribe listener, got %d notifications", listener.getDirtyCount())
	}
}

func TestSignalSubscription(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}

	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("same value should not notify, got %d", listener.getDirtyCount())
	}

	count.Set(2)
	if listener.getDirtyCount() != 2 {
		t.Errorf("expected 2 notifications, got %d", listener.getDirtyCount())
	}
}

func TestSignalNoTrackingOutsideListener(t *testing.T) {
	count := NewSignal(0)
	_ = count.Get()

	if n := count.base.subscriberCount(); n != 0 {
		t.Errorf("expected no subscribers, got %d", n)
	}
}

func TestSignalDeduplicatesSubscribers(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
		_ = count.Get()
	})

	if n := count.base.subscriberCount(); n != 1 {
		t.Errorf("expected 1 subscriber, got %d", n)
	}
}

func TestSignalWithEquals(t *testing.T) {
	s := NewSignal("a").WithEquals(func(a, b string) bool { return len(a) == len(b) })
	listener := newTestListener()
	WithListener(listener, func() { _ = s.Get() })

	s.Set("b")
	if listener.getDirtyCount() != 0 {
		t.Errorf("custom equality should suppress notification")
	}
	if s.Peek() != "a" {
		t.Errorf("value should be unchanged, got %q", s.Peek())
	}

	s.Set("bb")
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}
}

func TestSignalSetAny(t *testing.T) {
	t.Run("any signal accepts every type", func(t *testing.T) {
		s := NewSignal[any](1)
		for _, v := range []any{"x", 2.5, []any{1, 2}, map[string]any{"k": 1}, nil} {
			if err := s.SetAny(v); err != nil {
				t.Fatalf("SetAny(%v) error: %v", v, err)
			}
		}
		if s.PeekAny() != nil {
			t.Errorf("expected nil after SetAny(nil), got %v", s.PeekAny())
		}
	})

	t.Run("typed signal rejects other types", func(t *testing.T) {
		s := NewSignal(1)
		err := s.SetAny("nope")
		if !errors.Is(err, ErrTypeMismatch) {
			t.Fatalf("expected ErrTypeMismatch, got %v", err)
		}
		if s.Peek() != 1 {
			t.Errorf("value should be unchanged, got %d", s.Peek())
		}
	})

	t.Run("nil stores zero value", func(t *testing.T) {
		s := NewSignal(7)
		if err := s.SetAny(nil); err != nil {
			t.Fatal(err)
		}
		if s.Peek() != 0 {
			t.Errorf("expected 0, got %d", s.Peek())
		}
	})
}

func TestDefaultEquals(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, true},
		{"different types", 1, "1", false},
		{"int vs float", 1, 1.0, false},
		{"both nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"equal slices", []any{1, "a"}, []any{1, "a"}, true},
		{"different maps", map[string]any{"a": 1}, map[string]any{"a": 2}, false},
		{"same instant", now, now.UTC(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultEquals(tt.a, tt.b); got != tt.want {
				t.Errorf("defaultEquals(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSignalConcurrentAccess(t *testing.T) {
	s := NewSignal(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(n int) int { return n + 1 })
			_ = s.Get()
		}()
	}
	wg.Wait()

	if s.Peek() != 50 {
		t.Errorf("expected 50, got %d", s.Peek())
	}
}
