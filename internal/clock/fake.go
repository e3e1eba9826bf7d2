package clock

import (
	"sync"
	"time"

	"github.com/iliyamo/smart-alarm/internal/model"
)

// Fake is a deterministic Clock for tests. Time only moves when
// Advance is called; due callbacks run synchronously on the advancing
// goroutine, in firing order, and may themselves schedule further
// timers.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	period  time.Duration // 0 for one-shot
	fn      func()
	stopped bool
}

// NewFake returns a fake clock frozen at the given instant.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) After(d time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timers = append(f.timers, &fakeTimer{at: f.now.Add(d), fn: fn})
}

func (f *Fake) Every(period time.Duration, fn func()) (stop func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{at: f.now.Add(period), period: period, fn: fn}
	f.timers = append(f.timers, t)
	return func() { f.stop(t) }
}

func (f *Fake) DailyAt(at model.TimeOfDay, fn func()) (stop func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{at: nextOccurrence(f.now, at), period: 24 * time.Hour, fn: fn}
	f.timers = append(f.timers, t)
	return func() { f.stop(t) }
}

func (f *Fake) stop(t *fakeTimer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.stopped = true
}

// Advance moves the clock forward by d, firing every timer that comes
// due on the way in chronological order.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	for {
		t := f.nextDue(target)
		if t == nil {
			break
		}
		f.now = t.at
		if t.period > 0 {
			t.at = t.at.Add(t.period)
		}
		fn := t.fn
		f.mu.Unlock()
		fn()
		f.mu.Lock()
	}
	f.now = target
	f.mu.Unlock()
}

// nextDue pops the earliest live timer at or before target. One-shot
// timers are removed; periodic timers stay and are rescheduled by the
// caller. Must be called with the mutex held.
func (f *Fake) nextDue(target time.Time) *fakeTimer {
	var best *fakeTimer
	bestIdx := -1
	for i, t := range f.timers {
		if t.stopped || t.at.After(target) {
			continue
		}
		if best == nil || t.at.Before(best.at) {
			best, bestIdx = t, i
		}
	}
	if best == nil {
		return nil
	}
	if best.period == 0 {
		f.timers = append(f.timers[:bestIdx], f.timers[bestIdx+1:]...)
	}
	return best
}
