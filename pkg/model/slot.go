package model

import "time"

// Slot is a committed half-open interval [start_time, end_time) in a dining
// place's booking ledger. Slots are append-only and keep insertion order;
// a slot has no identity of its own beyond its position in the sequence.
type Slot struct {
	StartTime time.Time `json:"start_time" bson:"start_time"`
	EndTime   time.Time `json:"end_time" bson:"end_time"`
	BookedAt  time.Time `json:"booked_at,omitempty" bson:"booked_at,omitempty"`
}

// Overlaps reports whether [start, end) intersects the slot under the
// half-open rule: touching endpoints do not overlap.
func (s Slot) Overlaps(start, end time.Time) bool {
	return start.Before(s.EndTime) && end.After(s.StartTime)
}

type OperationalHours struct {
	OpenTime  string `json:"open_time" bson:"open_time" validate:"required,clock_time"`
	CloseTime string `json:"close_time" bson:"close_time" validate:"required,clock_time"`
}

// Window parses the stored HH:MM:SS bounds. Callers validate the strings at
// the edge, so a parse failure here means corrupted storage.
func (h OperationalHours) Window() (open, close ClockTime, err error) {
	open, err = ParseClockTime(h.OpenTime)
	if err != nil {
		return 0, 0, err
	}
	close, err = ParseClockTime(h.CloseTime)
	if err != nil {
		return 0, 0, err
	}
	return open, close, nil
}

// Admits reports whether both endpoints of [start, end), taken as UTC
// time-of-day, fall inside the operational window. The convention is
// open <= start < close and open < end <= close: a booking may begin exactly
// at opening and end exactly at closing, but cannot start at closing or end
// at opening.
func (h OperationalHours) Admits(start, end time.Time) (bool, error) {
	open, close, err := h.Window()
	if err != nil {
		return false, err
	}
	s, e := ClockTimeOf(start), ClockTimeOf(end)
	return open <= s && s < close && open < e && e <= close, nil
}
