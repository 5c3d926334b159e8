package dashboard

import (
	"sync"
	"time"
)

// DefaultFreshnessWindow is how recent the backend's last-updated
// timestamp must be for the "just refreshed" banner to show.
const DefaultFreshnessWindow = 60 * time.Second

// BannerState is the freshness banner's position in its state machine.
type BannerState int

const (
	// BannerHidden means no banner; also the state when no timestamp exists.
	BannerHidden BannerState = iota
	// BannerPending means a fresh timestamp arrived; the show is deferred
	// one scheduling cycle so it never mutates state inside the update
	// that delivered the timestamp.
	BannerPending
	// BannerShown means the banner is visible.
	BannerShown
)

// FreshnessController decides whether the transient "just refreshed"
// banner displays. It reacts only to changes of the observed timestamp,
// defers the show through the scheduler, and cancels the deferred show
// when a newer timestamp supersedes it first.
//
// The Shown state exits automatically once the timestamp ages out of
// the freshness window: the banner claims the data was refreshed
// moments ago, which stops being true on its own.
type FreshnessController struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time // injectable clock for tests

	last      *time.Time
	state     BannerState
	showTimer *time.Timer
	hideTimer *time.Timer
}

// NewFreshnessController creates a controller with the given freshness
// window. A non-positive window falls back to DefaultFreshnessWindow.
func NewFreshnessController(window time.Duration) *FreshnessController {
	if window <= 0 {
		window = DefaultFreshnessWindow
	}
	return &FreshnessController{window: window, now: time.Now}
}

// SetClock overrides the wall clock. Test hook.
func (fc *FreshnessController) SetClock(now func() time.Time) {
	fc.mu.Lock()
	fc.now = now
	fc.mu.Unlock()
}

// Observe feeds the controller the backend's last-updated timestamp.
// A nil timestamp always hides the banner. Re-observing an unchanged
// timestamp is a no-op, so callers may invoke this on every poll.
func (fc *FreshnessController) Observe(ts *time.Time) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if sameTimestamp(fc.last, ts) {
		return
	}

	// A new observation supersedes whatever was scheduled.
	fc.cancelTimersLocked()
	if ts == nil {
		fc.last = nil
		fc.state = BannerHidden
		return
	}
	t := *ts
	fc.last = &t

	if fc.now().Sub(t) >= fc.window {
		fc.state = BannerHidden
		return
	}

	fc.state = BannerPending
	fc.showTimer = time.AfterFunc(0, func() { fc.show(t) })
}

// show promotes Pending to Shown, unless a newer timestamp arrived
// between scheduling and firing.
func (fc *FreshnessController) show(expected time.Time) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.state != BannerPending || fc.last == nil || !fc.last.Equal(expected) {
		return
	}

	remaining := fc.window - fc.now().Sub(expected)
	if remaining <= 0 {
		fc.state = BannerHidden
		return
	}
	fc.state = BannerShown
	fc.hideTimer = time.AfterFunc(remaining, func() { fc.hide(expected) })
}

// hide retires the banner when the timestamp it announced has aged out.
func (fc *FreshnessController) hide(expected time.Time) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.state == BannerShown && fc.last != nil && fc.last.Equal(expected) {
		fc.state = BannerHidden
	}
}

// State returns the current banner state.
func (fc *FreshnessController) State() BannerState {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.state
}

// Visible reports whether the banner should render right now.
func (fc *FreshnessController) Visible() bool {
	return fc.State() == BannerShown
}

// LastUpdated returns the most recently observed timestamp, or nil.
func (fc *FreshnessController) LastUpdated() *time.Time {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.last == nil {
		return nil
	}
	t := *fc.last
	return &t
}

// Stop cancels any scheduled transitions.
func (fc *FreshnessController) Stop() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.cancelTimersLocked()
}

func (fc *FreshnessController) cancelTimersLocked() {
	if fc.showTimer != nil {
		fc.showTimer.Stop()
		fc.showTimer = nil
	}
	if fc.hideTimer != nil {
		fc.hideTimer.Stop()
		fc.hideTimer = nil
	}
}

func sameTimestamp(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
