package reactive

import (
	"fmt"
	"sync"
)

// CacheKind is a caller-chosen discriminant separating unrelated uses of one
// memo cache. Each (kind, key) pair addresses one cached value; a kind must
// always be used with one key type and one value type.
type CacheKind uint16

type memoKey struct {
	kind CacheKind
	key  any
}

// Memo is a double-buffered per-cycle computation cache. Within one update
// cycle, Cache computes each requested value at most once; values not
// requested during a cycle are evicted at the cycle boundary, so the cache
// stays proportional to live usage, not history.
//
// The cycle boundary is the owning Queue's flush: on the first Cache call of
// a cycle, the swap of next into current is enqueued there.
type Memo struct {
	queue *Queue

	mu         sync.Mutex
	current    map[memoKey]any
	next       map[memoKey]any
	swapQueued bool
	destroyed  bool
}

// NewMemo creates a memo cache whose cycle boundary is q's flush. If owner
// is non-nil, the cache is destroyed when the owner is disposed; queued
// boundary swaps hold no owning reference and no-op after destruction.
func NewMemo(owner *Owner, q *Queue) *Memo {
	m := &Memo{
		queue:   q,
		current: make(map[memoKey]any),
		next:    make(map[memoKey]any),
	}
	if owner != nil {
		owner.OnCleanup(m.Destroy)
	}
	return m
}

// Cache returns the value for (kind, key), computing it with compute only if
// the previous cycle did not produce it or it was already consumed this
// cycle. The value is carried into the next cycle either way.
func (m *Memo) Cache(kind CacheKind, key any, compute func() any) any {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return compute()
	}

	if !m.swapQueued {
		// First touch this cycle: arrange the boundary swap. The flag, not
		// next's size, marks the pending swap; a reentrant Cache call from
		// inside compute must not enqueue a second one.
		m.swapQueued = true
		m.queue.Enqueue(m.swap)
	}

	k := memoKey{kind: kind, key: key}
	value, ok := m.current[k]
	if ok {
		delete(m.current, k)
	}
	m.mu.Unlock()

	if !ok {
		// Compute outside the lock: compute may itself consult the cache.
		value = compute()
	}

	m.mu.Lock()
	if !m.destroyed {
		m.next[k] = value
	}
	m.mu.Unlock()
	return value
}

// swap moves next into current at the cycle boundary.
func (m *Memo) swap() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swapQueued = false
	if m.destroyed {
		return
	}
	m.current = m.next
	m.next = make(map[memoKey]any)
}

// Destroy empties the cache and detaches it from pending boundary swaps.
func (m *Memo) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = true
	m.current = nil
	m.next = nil
}

// CacheValue is the typed accessor for Memo.Cache. Using one CacheKind with
// more than one value type is a programming error and panics.
func CacheValue[K comparable, V any](m *Memo, kind CacheKind, key K, compute func() V) V {
	v := m.Cache(kind, key, func() any { return compute() })
	tv, ok := v.(V)
	if !ok {
		panic(fmt.Sprintf("reactive: memo cache kind %d holds %T, not the requested type", kind, v))
	}
	return tv
}
