package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/smart-alarm/internal/clock"
	"github.com/iliyamo/smart-alarm/internal/model"
	"github.com/iliyamo/smart-alarm/internal/puzzle"
)

// scriptedPuzzles hands out q1/a1, q2/a2, ... so tests always know the
// expected answer.
type scriptedPuzzles struct {
	mu sync.Mutex
	n  int
}

func (p *scriptedPuzzles) Next() puzzle.Puzzle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	return puzzle.Puzzle{Question: fmt.Sprintf("q%d", p.n), Answer: fmt.Sprintf("a%d", p.n)}
}

func (p *scriptedPuzzles) Match(given, expected string) bool {
	return expected != "" && strings.TrimSpace(given) == expected
}

const testUser uint64 = 42

var testTimings = Timings{
	FirstTimeout:  600 * time.Second,
	SecondTimeout: 420 * time.Second,
	SecondDelay:   600 * time.Second,
}

func newTestEngine(t *testing.T) (*Engine, *MemoryStates, *MemoryStats, *Recorder, *clock.Fake) {
	t.Helper()
	states := NewMemoryStates()
	stats := NewMemoryStats()
	rec := NewRecorder()
	clk := clock.NewFake(time.Date(2026, 8, 30, 7, 17, 0, 0, time.UTC))
	eng := NewEngine(states, stats, &scriptedPuzzles{}, rec, clk, testTimings)
	return eng, states, stats, rec, clk
}

func mustState(t *testing.T, states *MemoryStates, want model.SessionState) model.UserState {
	t.Helper()
	st, err := states.Get(context.Background(), testUser)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if st.State != want {
		t.Fatalf("state = %s, want %s", st.State, want)
	}
	return st
}

func TestBeginIssuesFirstPuzzle(t *testing.T) {
	eng, states, _, rec, _ := newTestEngine(t)
	if err := eng.Begin(context.Background(), testUser); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	st := mustState(t, states, model.StateAwaitingFirst)
	if st.CurrentQuestion != "q1" || st.CurrentAnswer != "a1" {
		t.Errorf("challenge = %q/%q, want q1/a1", st.CurrentQuestion, st.CurrentAnswer)
	}
	msgs := rec.Texts(testUser)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "q1") {
		t.Errorf("expected one delivery containing q1, got %v", msgs)
	}
}

func TestCorrectFirstAnswerAdvances(t *testing.T) {
	eng, states, stats, _, clk := newTestEngine(t)
	ctx := context.Background()
	if err := eng.Begin(ctx, testUser); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	clk.Advance(120 * time.Second)
	res, err := eng.HandleAnswer(ctx, testUser, "a1")
	if err != nil {
		t.Fatalf("HandleAnswer: %v", err)
	}
	if res != ResultAdvanced {
		t.Fatalf("result = %v, want ResultAdvanced", res)
	}

	st := mustState(t, states, model.StateAwaitingSecond)
	if st.CurrentQuestion != "" || st.CurrentAnswer != "" {
		t.Errorf("challenge not cleared during delay: %q/%q", st.CurrentQuestion, st.CurrentAnswer)
	}
	if got := stats.ByUser(testUser); len(got) != 0 {
		t.Errorf("no stats expected yet, got %v", got)
	}
}

func TestStaleFirstTimeoutIsNoOp(t *testing.T) {
	eng, states, stats, rec, clk := newTestEngine(t)
	ctx := context.Background()
	if err := eng.Begin(ctx, testUser); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	clk.Advance(120 * time.Second)
	if _, err := eng.HandleAnswer(ctx, testUser, "a1"); err != nil {
		t.Fatalf("HandleAnswer: %v", err)
	}

	// Crossing the original T1 deadline fires the stale timer and,
	// later, the delay callback that issues the second puzzle.
	clk.Advance(600 * time.Second)

	st := mustState(t, states, model.StateAwaitingSecond)
	if st.CurrentQuestion != "q2" || st.CurrentAnswer != "a2" {
		t.Errorf("second challenge = %q/%q, want q2/a2", st.CurrentQuestion, st.CurrentAnswer)
	}
	if got := stats.ByUser(testUser); len(got) != 0 {
		t.Errorf("stale timeout must not record stats, got %v", got)
	}
	for _, m := range rec.Texts(testUser) {
		if strings.Contains(m, "Time is up") {
			t.Errorf("stale timeout must not notify failure, got %q", m)
		}
	}
}

func TestFirstPuzzleTimeout(t *testing.T) {
	eng, states, stats, rec, clk := newTestEngine(t)
	if err := eng.Begin(context.Background(), testUser); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	clk.Advance(600 * time.Second)

	mustState(t, states, model.StateSleep)
	got := stats.ByUser(testUser)
	if len(got) != 1 || got[0] != model.OutcomeFailedFirst {
		t.Fatalf("stats = %v, want exactly [failed_first]", got)
	}
	msgs := rec.Texts(testUser)
	if len(msgs) == 0 || !strings.Contains(msgs[len(msgs)-1], "Time is up") {
		t.Errorf("expected failure notification, got %v", msgs)
	}

	// A very late answer is no longer processed by the state machine.
	res, err := eng.HandleAnswer(context.Background(), testUser, "a1")
	if err != nil || res != ResultNoChallenge {
		t.Errorf("late answer: result=%v err=%v, want ResultNoChallenge", res, err)
	}
}

func TestWrongAnswerKeepsDeadlineRunning(t *testing.T) {
	eng, states, stats, _, clk := newTestEngine(t)
	ctx := context.Background()
	if err := eng.Begin(ctx, testUser); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	before := mustState(t, states, model.StateAwaitingFirst)

	clk.Advance(30 * time.Second)
	res, err := eng.HandleAnswer(ctx, testUser, "nope")
	if err != nil || res != ResultIncorrect {
		t.Fatalf("wrong answer: result=%v err=%v, want ResultIncorrect", res, err)
	}
	after := mustState(t, states, model.StateAwaitingFirst)
	if !after.IssuedAt.Equal(before.IssuedAt) {
		t.Error("wrong answer must not reset the puzzle instance")
	}

	// The deadline still counts from the original issuance.
	clk.Advance(570 * time.Second)
	mustState(t, states, model.StateSleep)
	got := stats.ByUser(testUser)
	if len(got) != 1 || got[0] != model.OutcomeFailedFirst {
		t.Fatalf("stats = %v, want [failed_first]", got)
	}
}

func TestAnswerDuringDelayIsIncorrect(t *testing.T) {
	eng, _, _, _, clk := newTestEngine(t)
	ctx := context.Background()
	if err := eng.Begin(ctx, testUser); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := eng.HandleAnswer(ctx, testUser, "a1"); err != nil {
		t.Fatalf("HandleAnswer: %v", err)
	}

	clk.Advance(300 * time.Second) // halfway through the delay
	res, err := eng.HandleAnswer(ctx, testUser, "a1")
	if err != nil || res != ResultIncorrect {
		t.Errorf("delay-window answer: result=%v err=%v, want ResultIncorrect", res, err)
	}
}

func TestSecondPuzzleSuccess(t *testing.T) {
	eng, states, stats, rec, clk := newTestEngine(t)
	ctx := context.Background()
	if err := eng.Begin(ctx, testUser); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := eng.HandleAnswer(ctx, testUser, "a1"); err != nil {
		t.Fatalf("first answer: %v", err)
	}

	clk.Advance(600 * time.Second) // delay elapses, second puzzle issued
	mustState(t, states, model.StateAwaitingSecond)

	clk.Advance(100 * time.Second)
	if res, _ := eng.HandleAnswer(ctx, testUser, "wrong"); res != ResultIncorrect {
		t.Fatalf("wrong second answer: result=%v, want ResultIncorrect", res)
	}
	clk.Advance(100 * time.Second)
	res, err := eng.HandleAnswer(ctx, testUser, "a2")
	if err != nil || res != ResultSuccess {
		t.Fatalf("second answer: result=%v err=%v, want ResultSuccess", res, err)
	}

	mustState(t, states, model.StateSleep)
	got := stats.ByUser(testUser)
	if len(got) != 1 || got[0] != model.OutcomeSuccess {
		t.Fatalf("stats = %v, want exactly [success]", got)
	}
	msgs := rec.Texts(testUser)
	if !strings.Contains(msgs[len(msgs)-1], "Congratulations") {
		t.Errorf("expected success notification, got %q", msgs[len(msgs)-1])
	}

	// The obsolete T2 deadline must stay a no-op.
	clk.Advance(420 * time.Second)
	if got := stats.ByUser(testUser); len(got) != 1 {
		t.Errorf("stale T2 timer added stats: %v", got)
	}
}

func TestSecondPuzzleTimeout(t *testing.T) {
	eng, states, stats, _, clk := newTestEngine(t)
	ctx := context.Background()
	if err := eng.Begin(ctx, testUser); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := eng.HandleAnswer(ctx, testUser, "a1"); err != nil {
		t.Fatalf("first answer: %v", err)
	}

	clk.Advance(600 * time.Second) // second puzzle issued
	clk.Advance(420 * time.Second) // T2 elapses

	mustState(t, states, model.StateSleep)
	got := stats.ByUser(testUser)
	if len(got) != 1 || got[0] != model.OutcomeFailedSecond {
		t.Fatalf("stats = %v, want exactly [failed_second]", got)
	}
}

func TestAnswerWithoutSession(t *testing.T) {
	eng, _, _, rec, _ := newTestEngine(t)
	res, err := eng.HandleAnswer(context.Background(), testUser, "anything")
	if err != nil || res != ResultNoChallenge {
		t.Fatalf("result=%v err=%v, want ResultNoChallenge", res, err)
	}
	if msgs := rec.Texts(testUser); len(msgs) != 0 {
		t.Errorf("no delivery expected, got %v", msgs)
	}
}

func TestAnswerAndTimeoutRaceHasOneWinner(t *testing.T) {
	// The answer lands on the exact T1 instant: whichever side runs
	// first wins the conditional update and the other is a no-op.
	eng, states, stats, _, clk := newTestEngine(t)
	ctx := context.Background()
	if err := eng.Begin(ctx, testUser); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	clk.Advance(600 * time.Second) // deadline fires first
	res, err := eng.HandleAnswer(ctx, testUser, "a1")
	if err != nil || res != ResultNoChallenge {
		t.Fatalf("result=%v err=%v, want ResultNoChallenge after deadline won", res, err)
	}
	mustState(t, states, model.StateSleep)
	got := stats.ByUser(testUser)
	if len(got) != 1 || got[0] != model.OutcomeFailedFirst {
		t.Fatalf("stats = %v, want exactly [failed_first]", got)
	}
}
