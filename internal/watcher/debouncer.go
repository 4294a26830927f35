package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid file events to prevent index thrashing. Events
// for the same path within the window merge:
//   - UPSERT + UPSERT = UPSERT (latest wins)
//   - UPSERT + DELETE = DELETE (file is gone)
//   - DELETE + UPSERT = UPSERT (file was replaced)
type Debouncer struct {
	window time.Duration
	output chan []Event
	stopCh chan struct{}

	mu       sync.Mutex
	pending  map[string]Event
	timer    *time.Timer
	stopped  bool
	inFlight sync.WaitGroup
}

// NewDebouncer creates a debouncer with the given coalescing window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]Event),
		output:  make(chan []Event, 16),
		stopCh:  make(chan struct{}),
	}
}

// Batches returns the channel on which coalesced batches are delivered.
// Closed when the debouncer stops.
func (d *Debouncer) Batches() <-chan []Event {
	return d.output
}

// Add records an event, merging with any pending event for the same path,
// and (re)schedules the flush.
func (d *Debouncer) Add(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	// Last operation wins for every merge rule above.
	d.pending[event.Path] = event

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	batch := make([]Event, 0, len(d.pending))
	for _, event := range d.pending {
		batch = append(batch, event)
	}
	d.pending = make(map[string]Event)
	d.inFlight.Add(1)
	d.mu.Unlock()
	defer d.inFlight.Done()

	select {
	case d.output <- batch:
	case <-d.stopCh:
	}
}

// Stop discards pending events and closes the batch channel once any
// in-flight delivery has finished. Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	close(d.stopCh)
	d.inFlight.Wait()
	close(d.output)
}
