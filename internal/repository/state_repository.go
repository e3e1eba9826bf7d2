package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/smart-alarm/internal/model"
)

// StateRepo provides data access to the user_states table. The
// conditional updates (AdvanceIf/ClearIf) are the store-side half of
// the session linearizability guarantee: a single UPDATE whose WHERE
// clause pins {user, state, issued_at} means a user answer and a
// deadline firing for the same puzzle instance can never both win —
// MySQL serializes the row write and RowsAffected tells the loser it
// lost. issued_at lives in a DATETIME(6) column; callers must pass
// microsecond-truncated UTC values so equality survives the round trip.
type StateRepo struct{ DB *sql.DB }

func NewStateRepo(db *sql.DB) *StateRepo { return &StateRepo{DB: db} }

// Get returns the user's session. A user with no row reads back as
// SLEEP: absence of a session and a dormant session are the same thing
// to every caller.
func (r *StateRepo) Get(ctx context.Context, userID uint64) (model.UserState, error) {
	var (
		st       model.UserState
		state    string
		q, a     sql.NullString
		issuedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, state, current_question, current_answer, issued_at FROM user_states WHERE user_id=? LIMIT 1",
		userID).Scan(&st.UserID, &state, &q, &a, &issuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserState{UserID: userID, State: model.StateSleep}, nil
	}
	if err != nil {
		return model.UserState{}, err
	}
	st.State = model.SessionState(state)
	st.CurrentQuestion = q.String
	st.CurrentAnswer = a.String
	if issuedAt.Valid {
		st.IssuedAt = issuedAt.Time.UTC()
	}
	return st, nil
}

// SetChallenge unconditionally records a freshly issued puzzle.
func (r *StateRepo) SetChallenge(ctx context.Context, userID uint64, state model.SessionState, question, answer string, issuedAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO user_states (user_id, state, current_question, current_answer, issued_at)
		 VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   state=VALUES(state), current_question=VALUES(current_question),
		   current_answer=VALUES(current_answer), issued_at=VALUES(issued_at)`,
		userID, string(state), question, answer, issuedAt)
	return err
}

// AdvanceIf moves the session to a new state, clearing the outstanding
// puzzle, but only when {from, issuedAt} still identify the current
// instance. Returns false when the session moved on already.
func (r *StateRepo) AdvanceIf(ctx context.Context, userID uint64, from model.SessionState, issuedAt time.Time, to model.SessionState, at time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE user_states
		 SET state=?, current_question=NULL, current_answer=NULL, issued_at=?
		 WHERE user_id=? AND state=? AND issued_at=?`,
		string(to), at, userID, string(from), issuedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ClearIf returns the session to SLEEP under the same instance check.
func (r *StateRepo) ClearIf(ctx context.Context, userID uint64, from model.SessionState, issuedAt time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE user_states
		 SET state=?, current_question=NULL, current_answer=NULL, issued_at=NULL
		 WHERE user_id=? AND state=? AND issued_at=?`,
		string(model.StateSleep), userID, string(from), issuedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
