package model

import "time"

// SessionState names a phase of the per-user puzzle session lifecycle.
// SLEEP is both the initial state and the terminal state of every cycle.
type SessionState string

const (
	StateSleep          SessionState = "SLEEP"
	StateAwaitingFirst  SessionState = "AWAITING_FIRST"
	StateAwaitingSecond SessionState = "AWAITING_SECOND"
)

// UserState is the persisted puzzle session for one user, at most one
// concurrently. The pair {State, IssuedAt} identifies a puzzle instance:
// a deadline timer only acts when both still match what it was armed
// for, which is what keeps a late-firing timeout from clobbering a
// session that already advanced. This struct corresponds to a row in
// the `user_states` table.
//
// Fields:
//  UserID          – owner of the session (user_states.user_id, PK).
//  State           – current lifecycle phase.
//  CurrentQuestion – question text of the outstanding puzzle; empty
//                    whenever State is SLEEP, and during the delay
//                    between the first and second puzzle.
//  CurrentAnswer   – expected answer for the outstanding puzzle; same
//                    presence rule as CurrentQuestion.
//  IssuedAt        – when the current instance was issued; correlates
//                    deadline timers with the instance they belong to.
type UserState struct {
	UserID          uint64       // user_states.user_id
	State           SessionState // user_states.state
	CurrentQuestion string       // user_states.current_question (nullable)
	CurrentAnswer   string       // user_states.current_answer (nullable)
	IssuedAt        time.Time    // user_states.issued_at
}
