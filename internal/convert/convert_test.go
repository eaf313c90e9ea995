package convert

import (
	"testing"
	"time"

	"github.com/strideflow/strideflow/internal/models"
)

// TestSecondsToDuration covers the numeric, string, and garbage input paths.
// The function must be total: no input may panic or produce an invalid clock.
func TestSecondsToDuration(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want models.Duration
	}{
		{"int", 3665, models.Duration{Hours: 1, Minutes: 1, Seconds: 5}},
		{"float", 3665.9, models.Duration{Hours: 1, Minutes: 1, Seconds: 5}},
		{"int64", int64(59), models.Duration{Seconds: 59}},
		{"numeric string", "3665", models.Duration{Hours: 1, Minutes: 1, Seconds: 5}},
		{"float string", " 120.5 ", models.Duration{Minutes: 2}},
		{"zero", 0, models.Duration{}},
		{"negative", -10, models.Duration{}},
		{"clamped day", 86400, models.Duration{Hours: 23}},
		{"over a day", 90061, models.Duration{Hours: 23, Minutes: 1, Seconds: 1}},
		{"garbage string", "not-a-number", models.Duration{}},
		{"nil", nil, models.Duration{}},
		{"wrong type", []int{1}, models.Duration{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SecondsToDuration(tt.in); got != tt.want {
				t.Errorf("SecondsToDuration(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestSecondsToDurationRoundTrip verifies s < 86400 round-trips exactly.
func TestSecondsToDurationRoundTrip(t *testing.T) {
	for _, s := range []int{0, 1, 59, 60, 3599, 3600, 43211, 86399} {
		if got := SecondsToDuration(s).TotalSeconds(); got != s {
			t.Errorf("round trip %d → %d", s, got)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-01-15T14:30:45Z", time.Date(2023, 1, 15, 14, 30, 45, 0, time.UTC)},
		{"2023-01-15T14:30:45", time.Date(2023, 1, 15, 14, 30, 45, 0, time.UTC)},
		{"2023-01-15 14:30:45", time.Date(2023, 1, 15, 14, 30, 45, 0, time.UTC)},
		{"2023/01/15 14:30:45", time.Date(2023, 1, 15, 14, 30, 45, 0, time.UTC)},
		{"15/01/2023 14:30:45", time.Date(2023, 1, 15, 14, 30, 45, 0, time.UTC)},
		{"2023-01-15", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.in)
		if !ok {
			t.Errorf("ParseTimestamp(%q): not parsed", tt.in)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestParseTimestampTotal verifies the function never reports success on
// unparseable input and never panics.
func TestParseTimestampTotal(t *testing.T) {
	for _, s := range []string{"", "   ", "garbage", "2023-13-45T99:99:99", "99/99/9999 00:00:00"} {
		if _, ok := ParseTimestamp(s); ok {
			t.Errorf("ParseTimestamp(%q): expected failure", s)
		}
	}
}
