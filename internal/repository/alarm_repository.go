package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/smart-alarm/internal/model"
)

// AlarmRepo provides data access to the alarms table. Windows and wake
// instants are stored as zero-padded "HH:MM" strings so that rows stay
// human-readable; generation dates are "2006-01-02" strings because
// only calendar-day identity matters, never instants.
type AlarmRepo struct{ DB *sql.DB }

func NewAlarmRepo(db *sql.DB) *AlarmRepo { return &AlarmRepo{DB: db} }

// Upsert installs a new alarm window for a user, replacing any prior
// alarm. The replacement is total: the wake instant and generation date
// are cleared so the next sweep rolls a fresh instant, and the alarm is
// re-armed even if today's already fired.
func (r *AlarmRepo) Upsert(ctx context.Context, userID uint64, start, end model.TimeOfDay) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO alarms (user_id, window_start, window_end, wake_instant, last_generated_date, is_active)
		 VALUES (?,?,?,NULL,NULL,TRUE)
		 ON DUPLICATE KEY UPDATE
		   window_start=VALUES(window_start), window_end=VALUES(window_end),
		   wake_instant=NULL, last_generated_date=NULL, is_active=TRUE`,
		userID, start.String(), end.String())
	return err
}

// GetByUser fetches a user's alarm, ErrNotFound when none is set.
func (r *AlarmRepo) GetByUser(ctx context.Context, userID uint64) (model.Alarm, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT user_id, window_start, window_end, wake_instant, last_generated_date, is_active, created_at, updated_at
		 FROM alarms WHERE user_id=? LIMIT 1`, userID)
	a, err := scanAlarm(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Alarm{}, ErrNotFound
	}
	return a, err
}

// Active returns every alarm that is currently eligible to fire.
func (r *AlarmRepo) Active(ctx context.Context) ([]model.Alarm, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT user_id, window_start, window_end, wake_instant, last_generated_date, is_active, created_at, updated_at
		 FROM alarms WHERE is_active=TRUE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var alarms []model.Alarm
	for rows.Next() {
		a, err := scanAlarm(rows.Scan)
		if err != nil {
			return nil, err
		}
		alarms = append(alarms, a)
	}
	return alarms, rows.Err()
}

// SetWakeInstant records the instant generated for the given date.
func (r *AlarmRepo) SetWakeInstant(ctx context.Context, userID uint64, instant model.TimeOfDay, date string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE alarms SET wake_instant=?, last_generated_date=? WHERE user_id=?",
		instant.String(), date, userID)
	return err
}

// Deactivate burns an alarm for the day after it fires.
func (r *AlarmRepo) Deactivate(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE alarms SET is_active=FALSE WHERE user_id=?", userID)
	return err
}

// ReactivateAll is the daily reset: every alarm becomes active again
// with its wake instant cleared, regardless of what happened to it
// yesterday.
func (r *AlarmRepo) ReactivateAll(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE alarms SET is_active=TRUE, wake_instant=NULL")
	return err
}

// scanAlarm maps one alarms row onto the model, converting the stored
// "HH:MM" strings back into minute-of-day values.
func scanAlarm(scan func(...any) error) (model.Alarm, error) {
	var (
		a          model.Alarm
		start, end string
		instant    sql.NullString
		genDate    sql.NullString
	)
	if err := scan(&a.UserID, &start, &end, &instant, &genDate, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return model.Alarm{}, err
	}
	var err error
	if a.WindowStart, err = model.ParseTimeOfDay(start); err != nil {
		return model.Alarm{}, err
	}
	if a.WindowEnd, err = model.ParseTimeOfDay(end); err != nil {
		return model.Alarm{}, err
	}
	if instant.Valid {
		tod, err := model.ParseTimeOfDay(instant.String)
		if err != nil {
			return model.Alarm{}, err
		}
		a.WakeInstant = &tod
	}
	if genDate.Valid {
		a.LastGeneratedDate = &genDate.String
	}
	return a, nil
}
