package session

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/smart-alarm/internal/model"
)

// In-memory implementations of the engine's collaborators. They mirror
// the conditional-update semantics of the MySQL store and exist so the
// state machine and the scheduler can be exercised without a database
// or a broker.

// MemoryStates is an in-memory StateStore.
type MemoryStates struct {
	mu sync.Mutex
	m  map[uint64]model.UserState
}

func NewMemoryStates() *MemoryStates {
	return &MemoryStates{m: make(map[uint64]model.UserState)}
}

func (s *MemoryStates) Get(_ context.Context, userID uint64) (model.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[userID]
	if !ok {
		return model.UserState{UserID: userID, State: model.StateSleep}, nil
	}
	return st, nil
}

func (s *MemoryStates) SetChallenge(_ context.Context, userID uint64, state model.SessionState, question, answer string, issuedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = model.UserState{
		UserID:          userID,
		State:           state,
		CurrentQuestion: question,
		CurrentAnswer:   answer,
		IssuedAt:        issuedAt,
	}
	return nil
}

func (s *MemoryStates) AdvanceIf(_ context.Context, userID uint64, from model.SessionState, issuedAt time.Time, to model.SessionState, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[userID]
	if !ok || st.State != from || !st.IssuedAt.Equal(issuedAt) {
		return false, nil
	}
	s.m[userID] = model.UserState{UserID: userID, State: to, IssuedAt: at}
	return true, nil
}

func (s *MemoryStates) ClearIf(_ context.Context, userID uint64, from model.SessionState, issuedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[userID]
	if !ok || st.State != from || !st.IssuedAt.Equal(issuedAt) {
		return false, nil
	}
	s.m[userID] = model.UserState{UserID: userID, State: model.StateSleep}
	return true, nil
}

// MemoryStats is an in-memory append-only StatsStore.
type MemoryStats struct {
	mu      sync.Mutex
	entries map[uint64][]model.Outcome
}

func NewMemoryStats() *MemoryStats {
	return &MemoryStats{entries: make(map[uint64][]model.Outcome)}
}

func (s *MemoryStats) Append(_ context.Context, userID uint64, outcome model.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = append(s.entries[userID], outcome)
	return nil
}

// ByUser returns the outcomes recorded for a user, oldest first.
func (s *MemoryStats) ByUser(userID uint64) []model.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Outcome, len(s.entries[userID]))
	copy(out, s.entries[userID])
	return out
}

// Recorder is a Messenger that captures everything it is asked to
// deliver.
type Recorder struct {
	mu   sync.Mutex
	msgs map[uint64][]string
}

func NewRecorder() *Recorder {
	return &Recorder{msgs: make(map[uint64][]string)}
}

func (r *Recorder) Deliver(_ context.Context, userID uint64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs[userID] = append(r.msgs[userID], text)
	return nil
}

// Texts returns the messages delivered to a user in order.
func (r *Recorder) Texts(userID uint64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs[userID]))
	copy(out, r.msgs[userID])
	return out
}
