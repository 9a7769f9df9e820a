// Package reactive provides the reactive primitives that drive weft trees:
// signals, effects, owner scopes, a deferred-work queue, and the per-cycle
// memoization cache.
//
// Execution is cooperative. Mutations run synchronously on the calling
// goroutine; deferred work (effect re-runs, the memo cycle-boundary swap)
// is enqueued on a Queue and runs when the host binding flushes it, once
// per update cycle.
package reactive
