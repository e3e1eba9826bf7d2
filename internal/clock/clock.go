// Package clock is the timing substrate for the alarm core. Everything
// that waits — puzzle deadlines, the inter-puzzle delay, the scheduler
// sweep, the daily reset — goes through the Clock interface so that
// tests can drive time deterministically with the Fake implementation.
package clock

import (
	"time"

	"github.com/iliyamo/smart-alarm/internal/model"
)

// Clock schedules callbacks. Implementations must run callbacks on
// their own goroutine (Real) or synchronously from Advance (Fake);
// callers must not assume which goroutine a callback runs on.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time
	// After runs fn once after d has elapsed. There is no cancel: a
	// callback whose precondition no longer holds is expected to be a
	// no-op at fire time.
	After(d time.Duration, fn func())
	// Every runs fn repeatedly with the given period until stop is
	// called. The first run happens one full period after registration.
	Every(period time.Duration, fn func()) (stop func())
	// DailyAt runs fn once per calendar day at the given local
	// time-of-day until stop is called.
	DailyAt(at model.TimeOfDay, fn func()) (stop func())
}

// Real implements Clock on top of the runtime timers.
type Real struct{}

// New returns the production clock.
func New() *Real { return &Real{} }

func (*Real) Now() time.Time { return time.Now() }

func (*Real) After(d time.Duration, fn func()) { time.AfterFunc(d, fn) }

func (*Real) Every(period time.Duration, fn func()) (stop func()) {
	t := time.NewTicker(period)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	return func() {
		t.Stop()
		close(done)
	}
}

func (*Real) DailyAt(at model.TimeOfDay, fn func()) (stop func()) {
	done := make(chan struct{})
	go func() {
		for {
			t := time.NewTimer(time.Until(nextOccurrence(time.Now(), at)))
			select {
			case <-t.C:
				fn()
			case <-done:
				t.Stop()
				return
			}
		}
	}()
	return func() { close(done) }
}

// nextOccurrence returns the first instant strictly after now whose
// local time-of-day equals at.
func nextOccurrence(now time.Time, at model.TimeOfDay) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
