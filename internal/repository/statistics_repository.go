package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/smart-alarm/internal/model"
)

// StatisticsRepo provides append-only access to the statistics table.
// Rows are never updated or deleted; reads only ever look at the most
// recent few entries per user.
type StatisticsRepo struct{ DB *sql.DB }

func NewStatisticsRepo(db *sql.DB) *StatisticsRepo { return &StatisticsRepo{DB: db} }

// Append records one terminal session outcome.
func (r *StatisticsRepo) Append(ctx context.Context, userID uint64, outcome model.Outcome) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO statistics (user_id, recorded_at, outcome) VALUES (?,?,?)",
		userID, time.Now().UTC(), string(outcome))
	return err
}

// Recent returns the user's most recent n entries, newest first.
func (r *StatisticsRepo) Recent(ctx context.Context, userID uint64, n int) ([]model.StatisticsEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, recorded_at, outcome FROM statistics WHERE user_id=? ORDER BY recorded_at DESC, id DESC LIMIT ?",
		userID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []model.StatisticsEntry
	for rows.Next() {
		var (
			e       model.StatisticsEntry
			outcome string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.RecordedAt, &outcome); err != nil {
			return nil, err
		}
		e.Outcome = model.Outcome(outcome)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Summary counts outcomes over the rolling last-n window.
func (r *StatisticsRepo) Summary(ctx context.Context, userID uint64, n int) (model.StatisticsSummary, error) {
	entries, err := r.Recent(ctx, userID, n)
	if err != nil {
		return model.StatisticsSummary{}, err
	}
	var s model.StatisticsSummary
	for _, e := range entries {
		switch e.Outcome {
		case model.OutcomeSuccess:
			s.Success++
		case model.OutcomeFailedFirst:
			s.FailedFirst++
		case model.OutcomeFailedSecond:
			s.FailedSecond++
		}
	}
	return s, nil
}
