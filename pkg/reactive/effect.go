package reactive

import (
	"sync"
	"sync/atomic"
)

// Cleanup is a function run before an effect re-runs or when it is
// disposed.
type Cleanup func()

// Effect is a reactive side effect that re-runs when its dependencies
// change. Re-runs are deferred: a dirty effect is enqueued on its Queue and
// runs at the next flush, so a burst of signal writes produces one re-run.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*signalBase
	sourcesMu sync.Mutex

	owner *Owner
	queue *Queue

	pending  atomic.Bool
	disposed atomic.Bool
}

// NewEffect creates an effect owned by owner, scheduled on q, and runs it
// immediately. The effect re-runs at queue flush whenever a signal it read
// changes. fn may return a Cleanup to run before each re-run and at
// disposal.
func NewEffect(owner *Owner, q *Queue, fn func() Cleanup) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
		queue: q,
	}

	if owner != nil {
		owner.registerEffect(e)
	}

	e.run()
	return e
}

// MarkDirty schedules the effect for re-run. Implements Listener.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.pending.CompareAndSwap(false, true) {
		e.queue.Enqueue(e.runPending)
	}
}

// ID implements Listener.
func (e *Effect) ID() uint64 { return e.id }

func (e *Effect) runPending() {
	if e.pending.Load() {
		e.run()
	}
}

// run executes the effect function, re-tracking its dependencies.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	old := setCurrentListener(e)
	e.cleanup = e.fn()
	setCurrentListener(old)
}

// addSource records a dependency, called by signals read during the run.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// dispose runs the last cleanup and unsubscribes from all sources.
func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}
