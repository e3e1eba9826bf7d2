// Package scheduler runs the periodic alarm sweep and the daily reset.
// The sweep decides per user whether today's wake instant needs to be
// (re)generated or whether the alarm fires right now; everything after
// a fire belongs to the session engine.
package scheduler

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/iliyamo/smart-alarm/internal/clock"
	"github.com/iliyamo/smart-alarm/internal/model"
	"github.com/iliyamo/smart-alarm/internal/session"
	"github.com/iliyamo/smart-alarm/internal/wake"
)

// AlarmStore is the slice of the session store the scheduler needs.
type AlarmStore interface {
	Active(ctx context.Context) ([]model.Alarm, error)
	SetWakeInstant(ctx context.Context, userID uint64, instant model.TimeOfDay, date string) error
	Deactivate(ctx context.Context, userID uint64) error
	ReactivateAll(ctx context.Context) error
}

// Config carries the scheduler tuning knobs.
type Config struct {
	SweepInterval time.Duration   // how often the sweep runs; not a correctness knob
	ResetAt       model.TimeOfDay // local time of the daily re-arm
}

// Scheduler owns the two periodic tasks. The sweep runs on a single
// goroutine, so the injected random source needs no locking.
type Scheduler struct {
	alarms AlarmStore
	engine *session.Engine
	msgr   session.Messenger
	clk    clock.Clock
	rng    *rand.Rand
	cfg    Config
}

// New wires a scheduler from its collaborators.
func New(alarms AlarmStore, engine *session.Engine, msgr session.Messenger, clk clock.Clock, rng *rand.Rand, cfg Config) *Scheduler {
	return &Scheduler{alarms: alarms, engine: engine, msgr: msgr, clk: clk, rng: rng, cfg: cfg}
}

// Start arms the periodic sweep and the daily reset. The returned stop
// function halts both; in-flight puzzle sessions keep their own timers.
func (s *Scheduler) Start() (stop func()) {
	stopSweep := s.clk.Every(s.cfg.SweepInterval, s.Sweep)
	stopReset := s.clk.DailyAt(s.cfg.ResetAt, s.ResetAll)
	return func() {
		stopSweep()
		stopReset()
	}
}

// Sweep walks every active alarm once. An alarm whose wake instant is
// missing or was generated for a different date gets a fresh instant
// and is skipped — it can never fire on the tick that generated it.
// Otherwise it fires only on a minute-exact match with the current
// time; a sweep delayed past that minute means the alarm silently
// skips the day.
func (s *Scheduler) Sweep() {
	ctx := context.Background()
	alarms, err := s.alarms.Active(ctx)
	if err != nil {
		log.Printf("scheduler: list active alarms: %v", err)
		return
	}

	now := s.clk.Now()
	today := now.Format("2006-01-02")
	minute := model.TimeOfDayFrom(now)

	for _, a := range alarms {
		if a.WakeInstant == nil || a.LastGeneratedDate == nil || *a.LastGeneratedDate != today {
			instant, err := wake.Generate(s.rng, a.WindowStart, a.WindowEnd)
			if err != nil {
				log.Printf("scheduler: generate wake instant for user %d: %v", a.UserID, err)
				continue
			}
			if err := s.alarms.SetWakeInstant(ctx, a.UserID, instant, today); err != nil {
				log.Printf("scheduler: persist wake instant for user %d: %v", a.UserID, err)
				continue
			}
			log.Printf("scheduler: wake instant for user %d is %s", a.UserID, instant)
			continue
		}

		if *a.WakeInstant != minute {
			continue
		}

		// Fire: wake sequence, then hand the user to the session
		// engine, then burn the alarm for today.
		for _, text := range wakeSequence {
			_ = s.msgr.Deliver(ctx, a.UserID, text)
		}
		if err := s.engine.Begin(ctx, a.UserID); err != nil {
			log.Printf("scheduler: begin session for user %d: %v", a.UserID, err)
			continue
		}
		if err := s.alarms.Deactivate(ctx, a.UserID); err != nil {
			log.Printf("scheduler: deactivate alarm for user %d: %v", a.UserID, err)
			continue
		}
		log.Printf("scheduler: alarm fired for user %d at %s", a.UserID, minute)
	}
}

// ResetAll re-arms every alarm for a new day: active again, wake
// instant cleared so the next sweep rolls a fresh one. Sessions still
// in flight are deliberately left alone — they run to their own
// terminal state.
func (s *Scheduler) ResetAll() {
	if err := s.alarms.ReactivateAll(context.Background()); err != nil {
		log.Printf("scheduler: daily reset: %v", err)
		return
	}
	log.Printf("scheduler: daily reset complete, all alarms re-armed")
}

var wakeSequence = []string{
	"WAKE-UP CALL!",
	"Time to get up!",
	"Good morning!",
}
