package model

import "time"

// Outcome classifies how one alarm cycle ended.
type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeFailedFirst  Outcome = "failed_first"
	OutcomeFailedSecond Outcome = "failed_second"
)

// StatisticsEntry is one append-only record of a finished alarm cycle.
// Entries are never mutated or deleted; summaries only ever look at the
// most recent seven rows per user. Corresponds to a row in the
// `statistics` table.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user the cycle belonged to.
//  RecordedAt – when the terminal transition happened.
//  Outcome    – success, failed_first or failed_second.
type StatisticsEntry struct {
	ID         uint64    // statistics.id
	UserID     uint64    // statistics.user_id
	RecordedAt time.Time // statistics.recorded_at
	Outcome    Outcome   // statistics.outcome
}

// StatisticsSummary aggregates the rolling last-7 window for display.
type StatisticsSummary struct {
	Success      int `json:"success"`
	FailedFirst  int `json:"failed_first"`
	FailedSecond int `json:"failed_second"`
}
