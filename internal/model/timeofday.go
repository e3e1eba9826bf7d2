package model

import (
	"fmt"
	"time"
)

// TimeOfDay is a minute-precision clock time encoded as minutes since
// midnight. Alarm windows and wake instants never need more resolution
// than a minute, and the integer form makes ordering and equality
// comparisons trivial. The zero value is midnight.
type TimeOfDay int

// ParseTimeOfDay parses "H:MM" or "HH:MM" (24h). It rejects anything
// outside 00:00–23:59.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// TimeOfDayFrom truncates a wall-clock instant to its minute of the day.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// String renders the canonical zero-padded "HH:MM" form used in storage
// and in user-facing messages.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Hour returns the hour component (0–23).
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component (0–59).
func (t TimeOfDay) Minute() int { return int(t) % 60 }
