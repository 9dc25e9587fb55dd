package globe

import "sync"

// NotificationSink receives named notifications raised by change
// requests. Post must not block and must deliver asynchronously on the
// application's main execution context, never on the render goroutine.
type NotificationSink interface {
	Post(name string, payload any)
}

// Notification is one queued (name, payload) pair.
type Notification struct {
	Name    string
	Payload any
}

// Dispatcher is the provided NotificationSink: an unbounded queue that
// the main loop drains with DispatchPending. Post never blocks and is
// safe from any goroutine.
type Dispatcher struct {
	mu      sync.Mutex
	pending []Notification
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Post queues a notification for the next DispatchPending.
func (d *Dispatcher) Post(name string, payload any) {
	d.mu.Lock()
	d.pending = append(d.pending, Notification{Name: name, Payload: payload})
	d.mu.Unlock()
}

// Pending returns the number of queued notifications.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// DispatchPending delivers every queued notification to handler, in
// post order, then clears the queue. Call it from the main loop.
// Notifications posted while handler runs are delivered on the next
// call, not this one.
func (d *Dispatcher) DispatchPending(handler func(Notification)) {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, n := range batch {
		handler(n)
	}
}

// Ensure Dispatcher implements NotificationSink.
var _ NotificationSink = (*Dispatcher)(nil)
