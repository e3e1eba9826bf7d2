package model

import "time"

// Alarm is a user's wake-up window configuration together with the
// randomized wake instant chosen for the current day. There is at most
// one row per user; setting a new window replaces the previous one.
// This struct corresponds to a row in the `alarms` table.
//
// Fields:
//  UserID            – owner of the alarm (alarms.user_id, primary key).
//  WindowStart       – earliest minute the alarm may fire.
//  WindowEnd         – latest minute the alarm may fire (same day,
//                      never before WindowStart; wrap-around windows
//                      are rejected at the boundary).
//  WakeInstant       – today's randomly chosen firing minute, nil until
//                      the scheduler generates it.
//  LastGeneratedDate – calendar date ("2006-01-02") WakeInstant was
//                      computed for; a mismatch with today means the
//                      instant is stale and must be re-rolled.
//  IsActive          – eligible to fire. Cleared when the alarm fires
//                      (one shot per day), restored by the daily reset.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – timestamp of last update.
type Alarm struct {
	UserID            uint64     // alarms.user_id
	WindowStart       TimeOfDay  // alarms.window_start
	WindowEnd         TimeOfDay  // alarms.window_end
	WakeInstant       *TimeOfDay // alarms.wake_instant (nullable)
	LastGeneratedDate *string    // alarms.last_generated_date (nullable)
	IsActive          bool       // alarms.is_active
	CreatedAt         time.Time  // alarms.created_at
	UpdatedAt         time.Time  // alarms.updated_at
}
