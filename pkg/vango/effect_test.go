package vango

import "testing"

func TestEffectRunsImmediatelyAndOnChange(t *testing.T) {
	count := NewSignal(0)
	var seen []int

	e := CreateEffect(func() Cleanup {
		seen = append(seen, count.Get())
		return nil
	})
	defer e.Dispose()

	count.Set(1)
	count.Set(2)

	want := []int{0, 1, 2}
	if len(seen) != len(want) {
		t.Fatalf("runs = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("run %d saw %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestEffectCleanup(t *testing.T) {
	count := NewSignal(0)
	cleanups := 0

	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		return func() { cleanups++ }
	})

	count.Set(1)
	if cleanups != 1 {
		t.Errorf("expected cleanup before re-run, got %d", cleanups)
	}

	e.Dispose()
	if cleanups != 2 {
		t.Errorf("expected cleanup on dispose, got %d", cleanups)
	}

	count.Set(2)
	if cleanups != 2 {
		t.Errorf("disposed effect should not run again")
	}
	if !e.IsDisposed() {
		t.Errorf("IsDisposed = false after Dispose")
	}
}

func TestEffectRetracksDependencies(t *testing.T) {
	useA := NewSignal(true)
	a := NewSignal(0)
	b := NewSignal(0)
	runs := 0

	e := CreateEffect(func() Cleanup {
		runs++
		if useA.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
		return nil
	})
	defer e.Dispose()

	useA.Set(false)
	runs = 0

	a.Set(1)
	if runs != 0 {
		t.Errorf("effect should no longer depend on a")
	}
	b.Set(1)
	if runs != 1 {
		t.Errorf("expected 1 run after b changed, got %d", runs)
	}
}

func TestEffectWriteInsideBodyReruns(t *testing.T) {
	count := NewSignal(0)
	runs := 0

	e := CreateEffect(func() Cleanup {
		runs++
		if v := count.Get(); v < 3 {
			count.Set(v + 1)
		}
		return nil
	})
	defer e.Dispose()

	if count.Peek() != 3 {
		t.Errorf("expected effect to converge at 3, got %d", count.Peek())
	}
	if runs != 4 {
		t.Errorf("expected 4 runs, got %d", runs)
	}
}

func TestEffectBatchedRunsOnce(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	runs := 0

	e := CreateEffect(func() Cleanup {
		runs++
		_ = a.Get() + b.Get()
		return nil
	})
	defer e.Dispose()

	Batch(func() {
		a.Set(1)
		b.Set(1)
	})
	if runs != 2 {
		t.Errorf("expected initial run plus one batched run, got %d", runs)
	}
}
