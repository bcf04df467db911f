package model

import (
	"testing"
	"time"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}

func TestSlotOverlaps(t *testing.T) {
	slot := Slot{
		StartTime: ts(t, "2024-01-01T10:00:00Z"),
		EndTime:   ts(t, "2024-01-01T11:00:00Z"),
	}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"fully inside", "2024-01-01T10:15:00Z", "2024-01-01T10:45:00Z", true},
		{"identical", "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z", true},
		{"straddles start", "2024-01-01T09:30:00Z", "2024-01-01T10:30:00Z", true},
		{"straddles end", "2024-01-01T10:30:00Z", "2024-01-01T11:30:00Z", true},
		{"contains slot", "2024-01-01T09:00:00Z", "2024-01-01T12:00:00Z", true},
		{"touching before", "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z", false},
		{"touching after", "2024-01-01T11:00:00Z", "2024-01-01T12:00:00Z", false},
		{"well before", "2024-01-01T08:00:00Z", "2024-01-01T09:00:00Z", false},
		{"well after", "2024-01-01T12:00:00Z", "2024-01-01T13:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slot.Overlaps(ts(t, tt.start), ts(t, tt.end))
			if got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestParseClockTime(t *testing.T) {
	got, err := ParseClockTime("09:30:15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ClockTime(9*3600 + 30*60 + 15)
	if got != want {
		t.Errorf("ParseClockTime(09:30:15) = %d, want %d", got, want)
	}

	for _, bad := range []string{"", "9:30", "25:00:00", "09:61:00", "nonsense"} {
		if _, err := ParseClockTime(bad); err == nil {
			t.Errorf("ParseClockTime(%q) expected error, got nil", bad)
		}
	}
}

func TestOperationalHoursAdmits(t *testing.T) {
	hours := OperationalHours{OpenTime: "09:00:00", CloseTime: "18:00:00"}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"well inside", "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z", true},
		{"starts at open", "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z", true},
		{"ends at close", "2024-01-01T17:00:00Z", "2024-01-01T18:00:00Z", true},
		{"full window", "2024-01-01T09:00:00Z", "2024-01-01T18:00:00Z", true},
		{"starts before open", "2024-01-01T08:00:00Z", "2024-01-01T09:30:00Z", false},
		{"ends after close", "2024-01-01T17:30:00Z", "2024-01-01T18:30:00Z", false},
		{"starts at close", "2024-01-01T18:00:00Z", "2024-01-01T19:00:00Z", false},
		{"entirely outside", "2024-01-01T06:00:00Z", "2024-01-01T07:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hours.Admits(ts(t, tt.start), ts(t, tt.end))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Admits(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestOperationalHoursWindowMalformed(t *testing.T) {
	hours := OperationalHours{OpenTime: "garbage", CloseTime: "18:00:00"}
	if _, _, err := hours.Window(); err == nil {
		t.Error("expected error for malformed open_time, got nil")
	}
}
