package reactive

import "sync"

// Queue is an explicit FIFO of zero-argument callbacks, flushed by the host
// event-loop binding. It is the animation-frame-equivalent scheduling point:
// everything deferred "until the end of the current update cycle" lands
// here.
type Queue struct {
	mu    sync.Mutex
	tasks []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends fn to the queue. It never blocks.
func (q *Queue) Enqueue(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Flush runs queued tasks in FIFO order until the queue is empty, including
// tasks enqueued while flushing. A flush runs to completion before the
// caller processes its next event.
func (q *Queue) Flush() {
	for {
		q.mu.Lock()
		tasks := q.tasks
		q.tasks = nil
		q.mu.Unlock()

		if len(tasks) == 0 {
			return
		}
		for _, fn := range tasks {
			fn()
		}
	}
}
