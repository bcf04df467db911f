package model

import (
	"fmt"
	"time"
)

const ClockLayout = "15:04:05"

// ClockTime is a time-of-day value in seconds since midnight, with no date
// or zone attached. Operational hours are stored and exchanged as HH:MM:SS.
type ClockTime int

func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
}

// ClockTimeOf extracts the time-of-day component of a timestamp in UTC.
// All booking timestamps enter the system with a Z suffix, so time-of-day
// comparisons against operational hours are done on the UTC clock.
func ClockTimeOf(t time.Time) ClockTime {
	u := t.UTC()
	return ClockTime(u.Hour()*3600 + u.Minute()*60 + u.Second())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)%3600/60, int(c)%60)
}

func (c ClockTime) Before(other ClockTime) bool {
	return c < other
}
