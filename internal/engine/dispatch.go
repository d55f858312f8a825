package engine

import (
	"sync"
	"time"
)

// Response carries the outcome of one dispatched query together with the
// generation it was dispatched under.
type Response struct {
	Generation uint64
	Query      string
	Results    []Result
}

// Dispatcher debounces keystrokes and discards stale responses. Every
// keystroke restarts the timer; only the last pending timer fires. Searches
// already running are not cancelled — instead each dispatch carries a
// generation number, and a completion whose generation is no longer current
// is dropped before it reaches the apply callback. That turns the classic
// timer-cancellation race into a single comparison.
type Dispatcher struct {
	search func(string) []Result
	delay  time.Duration
	apply  func(Response)

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDispatcher wires a dispatcher to an engine. apply is invoked from the
// search goroutine while the dispatcher's lock is held, which keeps applies
// ordered by generation; apply must not call back into the dispatcher.
// Callers that need affinity with a UI thread must hand the response over
// themselves.
func NewDispatcher(engine *Engine, delay time.Duration, apply func(Response)) *Dispatcher {
	return &Dispatcher{search: engine.Query, delay: delay, apply: apply}
}

// Submit records a keystroke: any pending (not yet fired) timer is stopped
// and a new one is started for query.
func (d *Dispatcher) Submit(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.dispatch(query)
	})
}

// Flush dispatches query immediately, bypassing the debounce window. Any
// pending timer is dropped; its query is superseded.
func (d *Dispatcher) Flush(query string) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.dispatch(query)
}

// Stop drops any pending timer. In-flight searches finish on their own and
// are discarded by the generation check if a newer dispatch happened.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Generation returns the most recently dispatched generation.
func (d *Dispatcher) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen
}

func (d *Dispatcher) dispatch(query string) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	results := d.search(query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		// A newer query was dispatched while this one was running.
		return
	}
	// Applying under the lock closes the window between the staleness check
	// and the callback: once a newer generation has applied, an older one
	// can neither pass the check nor interleave its apply.
	d.apply(Response{Generation: gen, Query: query, Results: results})
}
