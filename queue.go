package globe

import "sync"

// ChangeQueue collects change requests from producer goroutines for a
// single render-goroutine drain. Enqueueing always succeeds and
// preserves submission order; draining never waits on producers — a
// contended drain skips the frame and leaves the queue intact.
type ChangeQueue struct {
	mu      sync.Mutex
	pending []ChangeRequest
}

// NewChangeQueue creates an empty queue.
func NewChangeQueue() *ChangeQueue {
	return &ChangeQueue{}
}

// Enqueue appends one request. Safe from any goroutine.
func (q *ChangeQueue) Enqueue(req ChangeRequest) {
	q.mu.Lock()
	q.pending = append(q.pending, req)
	q.mu.Unlock()
}

// EnqueueBatch appends requests in order as one atomic group.
func (q *ChangeQueue) EnqueueBatch(reqs []ChangeRequest) {
	if len(reqs) == 0 {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, reqs...)
	q.mu.Unlock()
}

// Len returns the number of queued requests. It takes the lock, so
// producers can use it for diagnostics; the render goroutine should
// use HasPending instead.
func (q *ChangeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// HasPending reports whether requests are waiting, without blocking.
// Under contention it returns false; the requests are still there and
// the next frame will see them.
func (q *ChangeQueue) HasPending() bool {
	if !q.mu.TryLock() {
		return false
	}
	n := len(q.pending)
	q.mu.Unlock()
	return n > 0
}

// Drain executes every queued request in FIFO order against s, then
// clears the queue. It must only be called from the render goroutine.
// If a producer holds the lock, Drain returns false immediately and
// executes nothing; the whole batch waits for the next frame.
func (q *ChangeQueue) Drain(s *Scene, rc RenderContext) bool {
	if !q.mu.TryLock() {
		return false
	}
	defer q.mu.Unlock()

	if len(q.pending) > 0 {
		Logger().Debug("draining change queue", "requests", len(q.pending))
	}
	// The lock stays held through execution: request application is
	// atomic with respect to producers, and HasPending reports busy
	// while a drain is in progress.
	for _, req := range q.pending {
		req.Execute(s, rc)
	}
	q.pending = nil
	return true
}
