package dashboard

import (
	"sync"
	"time"
)

// DefaultSyncDelay is the quiet period the URL synchronizer waits for
// before writing criteria to the navigable URL. Long enough to swallow
// a slider drag, short enough to feel immediate.
const DefaultSyncDelay = 300 * time.Millisecond

// Debouncer coalesces rapid repeated triggers into a single deferred
// call: each Trigger cancels any pending call and reschedules from the
// latest function, so only the last trigger within a quiet period fires.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet period, replacing any
// call still pending from an earlier trigger.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// fire runs the pending call, if one survived until the deadline.
func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Flush runs the pending call immediately instead of waiting out the
// quiet period. No-op when nothing is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Stop cancels the pending call without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
}

// NavigateFunc receives the canonical query string for the current
// criteria. Implementations must use replace semantics; the sync
// engine assumes a navigation never adds a history entry.
type NavigateFunc func(query string)

// QuerySync mirrors criteria state into the navigable URL after a
// debounce window. Rapid successive updates (a slider drag, fast
// typing) produce at most one navigation per quiet period, always
// reflecting the latest state.
type QuerySync struct {
	deb      *Debouncer
	navigate NavigateFunc
}

// NewQuerySync creates a synchronizer that calls navigate with the
// encoded query after each quiet period. A non-positive delay falls
// back to DefaultSyncDelay.
func NewQuerySync(delay time.Duration, navigate NavigateFunc) *QuerySync {
	if delay <= 0 {
		delay = DefaultSyncDelay
	}
	return &QuerySync{deb: NewDebouncer(delay), navigate: navigate}
}

// Update schedules a debounced sync of the given criteria. An update
// arriving before the window elapses cancels the pending navigation and
// reschedules from the new state.
func (s *QuerySync) Update(c Criteria) {
	query := c.QueryString()
	s.deb.Trigger(func() { s.navigate(query) })
}

// Flush performs any pending navigation immediately.
func (s *QuerySync) Flush() { s.deb.Flush() }

// Stop cancels any pending navigation.
func (s *QuerySync) Stop() { s.deb.Stop() }
