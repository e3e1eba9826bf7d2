package clock

import (
	"testing"
	"time"

	"github.com/iliyamo/smart-alarm/internal/model"
)

func TestAfterFiresInOrder(t *testing.T) {
	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f := NewFake(start)

	var order []string
	f.After(2*time.Second, func() { order = append(order, "b") })
	f.After(1*time.Second, func() { order = append(order, "a") })
	f.After(10*time.Second, func() { order = append(order, "late") })

	f.Advance(5 * time.Second)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v, want [a b]", order)
	}
	if !f.Now().Equal(start.Add(5 * time.Second)) {
		t.Errorf("Now = %v, want start+5s", f.Now())
	}

	f.Advance(5 * time.Second)
	if len(order) != 3 || order[2] != "late" {
		t.Errorf("order = %v, want [a b late]", order)
	}
}

func TestCallbackMayScheduleMore(t *testing.T) {
	f := NewFake(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	var fired int
	f.After(time.Second, func() {
		f.After(time.Second, func() { fired++ })
	})
	f.Advance(3 * time.Second)
	if fired != 1 {
		t.Errorf("nested timer fired %d times, want 1", fired)
	}
}

func TestEveryRepeatsUntilStopped(t *testing.T) {
	f := NewFake(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	var ticks int
	stop := f.Every(time.Minute, func() { ticks++ })

	f.Advance(5 * time.Minute)
	if ticks != 5 {
		t.Fatalf("ticks = %d, want 5", ticks)
	}
	stop()
	f.Advance(5 * time.Minute)
	if ticks != 5 {
		t.Errorf("ticks after stop = %d, want 5", ticks)
	}
}

func TestDailyAtFiresOncePerDay(t *testing.T) {
	f := NewFake(time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC))
	var runs int
	stop := f.DailyAt(model.TimeOfDay(1), func() { runs++ }) // 00:01
	defer stop()

	f.Advance(30 * time.Minute) // 00:00, not yet
	if runs != 0 {
		t.Fatalf("fired early: %d", runs)
	}
	f.Advance(time.Minute) // 00:01
	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}
	f.Advance(24 * time.Hour) // next day's 00:01
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestNextOccurrence(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	at := model.TimeOfDay(11 * 60)
	if got := nextOccurrence(now, at); got.Day() != 30 || got.Hour() != 11 {
		t.Errorf("same-day occurrence wrong: %v", got)
	}
	at = model.TimeOfDay(9 * 60)
	if got := nextOccurrence(now, at); got.Day() != 31 || got.Hour() != 9 {
		t.Errorf("next-day occurrence wrong: %v", got)
	}
}
