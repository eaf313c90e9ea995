package models

import (
	"encoding/json"
	"fmt"
)

// Duration is a wall-clock duration triple as reported by the provider:
// hours 0-23, minutes and seconds 0-59. It is the unit for activity elapsed
// time and the sleep stage durations, and renders as "HH:MM:SS" in JSON.
type Duration struct {
	Hours   int
	Minutes int
	Seconds int
}

// TotalSeconds returns the duration as a plain second count.
func (d Duration) TotalSeconds() int {
	return d.Hours*3600 + d.Minutes*60 + d.Seconds
}

// IsZero reports whether the duration is 00:00:00.
func (d Duration) IsZero() bool {
	return d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

func (d Duration) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.Hours, d.Minutes, d.Seconds)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseClock parses a "HH:MM:SS" string into a Duration.
func ParseClock(s string) (Duration, error) {
	var d Duration
	if _, err := fmt.Sscanf(s, "%02d:%02d:%02d", &d.Hours, &d.Minutes, &d.Seconds); err != nil {
		return Duration{}, fmt.Errorf("parsing clock value %q: %w", s, err)
	}
	if d.Hours < 0 || d.Hours > 23 || d.Minutes < 0 || d.Minutes > 59 || d.Seconds < 0 || d.Seconds > 59 {
		return Duration{}, fmt.Errorf("clock value %q out of range", s)
	}
	return d, nil
}

// DurationFromSeconds builds a Duration from a second count, clamping to the
// valid wall-clock range. Negative input yields a zero duration.
func DurationFromSeconds(total int) Duration {
	if total < 0 {
		total = 0
	}
	return Duration{
		Hours:   min(total/3600, 23),
		Minutes: min(total%3600/60, 59),
		Seconds: min(total%60, 59),
	}
}
