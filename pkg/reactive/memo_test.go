package reactive

import "testing"

const (
	kindSquares CacheKind = iota
	kindLabels
)

func TestCacheComputesOncePerCycle(t *testing.T) {
	q := NewQueue()
	m := NewMemo(nil, q)

	calls := 0
	square := func() any { calls++; return 4 }

	if got := m.Cache(kindSquares, 2, square); got != 4 {
		t.Errorf("Cache = %v, want 4", got)
	}
	if got := m.Cache(kindSquares, 2, square); got != 4 {
		t.Errorf("Cache = %v, want 4", got)
	}
	if calls != 2 {
		// Consuming from current removes it, so a second request in the
		// same cycle recomputes only when the first was not carried from
		// a previous cycle.
		t.Errorf("calls = %d, want 2 on a cold cache", calls)
	}

	// Next cycle: the value was produced last cycle, so it is reused.
	q.Flush()
	if got := m.Cache(kindSquares, 2, square); got != 4 {
		t.Errorf("Cache = %v, want 4", got)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 after carry-over", calls)
	}
}

func TestCacheEvictsUnusedEntries(t *testing.T) {
	q := NewQueue()
	m := NewMemo(nil, q)

	calls := 0
	compute := func() any { calls++; return "v" }

	m.Cache(kindSquares, "a", compute)
	q.Flush() // cycle 1 -> 2: "a" carried

	m.Cache(kindSquares, "b", compute)
	q.Flush() // cycle 2 -> 3: "a" was not requested, so it is dropped

	m.Cache(kindSquares, "a", compute)
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (a recomputed after eviction)", calls)
	}
}

func TestCacheKindsAreDisjoint(t *testing.T) {
	q := NewQueue()
	m := NewMemo(nil, q)

	m.Cache(kindSquares, 1, func() any { return 100 })
	got := m.Cache(kindLabels, 1, func() any { return "one" })
	if got != "one" {
		t.Errorf("Cache with distinct kind = %v, want %q", got, "one")
	}
}

func TestCacheValueTyped(t *testing.T) {
	q := NewQueue()
	m := NewMemo(nil, q)

	v := CacheValue(m, kindSquares, 3, func() int { return 9 })
	if v != 9 {
		t.Errorf("CacheValue = %d, want 9", v)
	}
	q.Flush()

	defer func() {
		if recover() == nil {
			t.Error("mismatched value type did not panic")
		}
	}()
	CacheValue(m, kindSquares, 3, func() string { return "nine" })
}

func TestMemoDestroyedByOwner(t *testing.T) {
	q := NewQueue()
	owner := NewOwner(nil)
	m := NewMemo(owner, q)

	m.Cache(kindSquares, 1, func() any { return 1 })
	owner.Dispose()

	// A destroyed cache degrades to pass-through compute.
	calls := 0
	m.Cache(kindSquares, 1, func() any { calls++; return 1 })
	m.Cache(kindSquares, 1, func() any { calls++; return 1 })
	if calls != 2 {
		t.Errorf("calls = %d, want 2 after destroy", calls)
	}

	// The boundary swap enqueued before destroy must be a no-op.
	q.Flush()
}

func TestCacheSwapEnqueuedOncePerCycle(t *testing.T) {
	q := NewQueue()
	m := NewMemo(nil, q)

	m.Cache(kindSquares, 1, func() any { return 1 })
	m.Cache(kindSquares, 2, func() any { return 2 })
	if got := q.Len(); got != 1 {
		t.Errorf("queued tasks = %d, want 1 swap", got)
	}
}

func TestCacheReentrantCompute(t *testing.T) {
	q := NewQueue()
	m := NewMemo(nil, q)

	outer, inner := 0, 0
	area := func() any {
		outer++
		side := m.Cache(kindSquares, "side", func() any { inner++; return 3 }).(int)
		return side * side
	}

	if got := m.Cache(kindSquares, "area", area); got != 9 {
		t.Errorf("Cache = %v, want 9", got)
	}
	// The nested Cache call lands before the outer result is stored, so
	// it must not arrange a second boundary swap.
	if got := q.Len(); got != 1 {
		t.Errorf("queued tasks = %d, want 1 swap", got)
	}

	// Next cycle: both values were produced last cycle and carry over.
	q.Flush()
	if got := m.Cache(kindSquares, "area", area); got != 9 {
		t.Errorf("Cache = %v, want 9", got)
	}
	if got := m.Cache(kindSquares, "side", func() any { inner++; return 3 }); got != 3 {
		t.Errorf("Cache = %v, want 3", got)
	}
	if outer != 1 || inner != 1 {
		t.Errorf("outer = %d, inner = %d, want 1, 1 after carry-over", outer, inner)
	}
}
