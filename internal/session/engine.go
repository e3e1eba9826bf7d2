// Package session implements the per-user puzzle session state machine:
// the lifecycle from "alarm fired" through two timed puzzle gates to a
// terminal success or failure. All timing after an alarm fires is owned
// here; the scheduler only calls Begin.
package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/smart-alarm/internal/clock"
	"github.com/iliyamo/smart-alarm/internal/model"
	"github.com/iliyamo/smart-alarm/internal/puzzle"
)

// StateStore persists puzzle sessions. A missing row reads back as a
// SLEEP state. The *If operations are atomic compare-and-set on
// {state, issued_at}: they report false without touching anything when
// the session no longer matches, which is how a user answer and a
// deadline racing for the same puzzle instance resolve to exactly one
// winner.
type StateStore interface {
	Get(ctx context.Context, userID uint64) (model.UserState, error)
	// SetChallenge unconditionally records an issued puzzle.
	SetChallenge(ctx context.Context, userID uint64, state model.SessionState, question, answer string, issuedAt time.Time) error
	// AdvanceIf moves the session to a new state with a fresh issue
	// time and cleared question/answer, but only when {from, issuedAt}
	// still match.
	AdvanceIf(ctx context.Context, userID uint64, from model.SessionState, issuedAt time.Time, to model.SessionState, at time.Time) (bool, error)
	// ClearIf returns the session to SLEEP, but only when
	// {from, issuedAt} still match.
	ClearIf(ctx context.Context, userID uint64, from model.SessionState, issuedAt time.Time) (bool, error)
}

// StatsStore appends terminal outcomes to the statistics log.
type StatsStore interface {
	Append(ctx context.Context, userID uint64, outcome model.Outcome) error
}

// Messenger delivers a text to a user, best effort. The engine never
// depends on delivery succeeding.
type Messenger interface {
	Deliver(ctx context.Context, userID uint64, text string) error
}

// Timings are the three tuning knobs of a session cycle.
type Timings struct {
	FirstTimeout  time.Duration // T1: deadline for the first puzzle
	SecondTimeout time.Duration // T2: deadline for the second puzzle
	SecondDelay   time.Duration // D: pause between the gates
}

// Result tells the HTTP boundary what an answer did.
type Result int

const (
	// ResultNoChallenge means no puzzle was outstanding for the user;
	// the answer was not processed by the state machine.
	ResultNoChallenge Result = iota
	// ResultIncorrect means the answer did not match; the deadline
	// keeps running and the user may retry.
	ResultIncorrect
	// ResultAdvanced means the first gate was passed; the second
	// puzzle will follow after the configured delay.
	ResultAdvanced
	// ResultSuccess means the second gate was passed and the wake-up
	// is confirmed.
	ResultSuccess
)

const (
	firstPuzzleText  = "Good morning! Time to wake up. Solve this puzzle:\n\n%s"
	secondPuzzleText = "Knock knock! Are you really awake? Prove it:\n\n%s"
	wrongAnswerText  = "Wrong answer. Try again:"
	successText      = "Congratulations, you are officially awake. Have a great day!"
	failedFirstText  = "Time is up! No confirmed wake-up today."
	failedSecondText = "Time is up! Wake-up not confirmed."
)

// Engine drives sessions for all users. Per-user linearizability comes
// entirely from the store's conditional updates; the engine itself
// holds no locks and keeps no state between calls.
type Engine struct {
	states  StateStore
	stats   StatsStore
	puzzles puzzle.Provider
	msgr    Messenger
	clk     clock.Clock
	cfg     Timings
}

// NewEngine wires a session engine from its collaborators.
func NewEngine(states StateStore, stats StatsStore, puzzles puzzle.Provider, msgr Messenger, clk clock.Clock, cfg Timings) *Engine {
	return &Engine{states: states, stats: stats, puzzles: puzzles, msgr: msgr, clk: clk, cfg: cfg}
}

// Begin starts a session cycle for a user whose alarm just fired:
// SLEEP -> AWAITING_FIRST. It issues the first puzzle, delivers it and
// arms the T1 deadline. The persist happens before any notification so
// a store failure cannot leave the user answering a puzzle the system
// never recorded.
func (e *Engine) Begin(ctx context.Context, userID uint64) error {
	p := e.puzzles.Next()
	issued := e.instant()
	if err := e.states.SetChallenge(ctx, userID, model.StateAwaitingFirst, p.Question, p.Answer, issued); err != nil {
		return fmt.Errorf("persist first puzzle: %w", err)
	}
	_ = e.msgr.Deliver(ctx, userID, fmt.Sprintf(firstPuzzleText, p.Question))
	e.clk.After(e.cfg.FirstTimeout, func() {
		e.expire(userID, model.StateAwaitingFirst, issued, model.OutcomeFailedFirst, failedFirstText)
	})
	return nil
}

// HandleAnswer processes one inbound answer. Messages arriving with no
// outstanding puzzle return ResultNoChallenge and are left for other
// layers to route. A wrong answer never touches the running deadline.
func (e *Engine) HandleAnswer(ctx context.Context, userID uint64, text string) (Result, error) {
	st, err := e.states.Get(ctx, userID)
	if err != nil {
		return ResultNoChallenge, err
	}
	if st.State == model.StateSleep {
		return ResultNoChallenge, nil
	}
	if !e.puzzles.Match(text, st.CurrentAnswer) {
		_ = e.msgr.Deliver(ctx, userID, wrongAnswerText)
		return ResultIncorrect, nil
	}

	switch st.State {
	case model.StateAwaitingFirst:
		swapped, err := e.states.AdvanceIf(ctx, userID, model.StateAwaitingFirst, st.IssuedAt, model.StateAwaitingSecond, e.instant())
		if err != nil {
			return ResultNoChallenge, err
		}
		if !swapped {
			// Deadline won the race; this puzzle instance is gone.
			return ResultNoChallenge, nil
		}
		_ = e.msgr.Deliver(ctx, userID, fmt.Sprintf("Correct! The second puzzle arrives in %s. Stay up!", e.cfg.SecondDelay))
		e.clk.After(e.cfg.SecondDelay, func() { e.issueSecond(userID) })
		return ResultAdvanced, nil

	case model.StateAwaitingSecond:
		swapped, err := e.states.ClearIf(ctx, userID, model.StateAwaitingSecond, st.IssuedAt)
		if err != nil {
			return ResultNoChallenge, err
		}
		if !swapped {
			return ResultNoChallenge, nil
		}
		if err := e.stats.Append(ctx, userID, model.OutcomeSuccess); err != nil {
			log.Printf("session: append success stats for user %d: %v", userID, err)
		}
		_ = e.msgr.Deliver(ctx, userID, successText)
		return ResultSuccess, nil
	}
	return ResultNoChallenge, nil
}

// issueSecond runs after the inter-puzzle delay: it records the second
// puzzle, delivers it and arms the T2 deadline. Like the original flow
// it does not re-check the session first — nothing else transitions out
// of AWAITING_SECOND during the delay.
func (e *Engine) issueSecond(userID uint64) {
	ctx := context.Background()
	p := e.puzzles.Next()
	issued := e.instant()
	if err := e.states.SetChallenge(ctx, userID, model.StateAwaitingSecond, p.Question, p.Answer, issued); err != nil {
		log.Printf("session: persist second puzzle for user %d: %v", userID, err)
		return
	}
	_ = e.msgr.Deliver(ctx, userID, fmt.Sprintf(secondPuzzleText, p.Question))
	e.clk.After(e.cfg.SecondTimeout, func() {
		e.expire(userID, model.StateAwaitingSecond, issued, model.OutcomeFailedSecond, failedSecondText)
	})
}

// expire is the deadline callback for one specific puzzle instance. The
// conditional clear makes a stale firing a no-op: if the session
// advanced (or finished) since the timer was armed, nothing matches and
// nothing happens.
func (e *Engine) expire(userID uint64, from model.SessionState, issuedAt time.Time, outcome model.Outcome, text string) {
	ctx := context.Background()
	swapped, err := e.states.ClearIf(ctx, userID, from, issuedAt)
	if err != nil {
		log.Printf("session: expire %s for user %d: %v", from, userID, err)
		return
	}
	if !swapped {
		return // stale timer
	}
	if err := e.stats.Append(ctx, userID, outcome); err != nil {
		log.Printf("session: append %s stats for user %d: %v", outcome, userID, err)
	}
	_ = e.msgr.Deliver(ctx, userID, text)
}

// instant returns the issue timestamp for a new puzzle instance.
// Microsecond truncation keeps the value stable across a round trip
// through a DATETIME(6) column, which the conditional updates compare
// against byte for byte.
func (e *Engine) instant() time.Time {
	return e.clk.Now().UTC().Truncate(time.Microsecond)
}
