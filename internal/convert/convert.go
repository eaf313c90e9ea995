// Package convert holds the pure conversion helpers used by the record
// mappers: seconds-to-clock durations, provider timestamp parsing, and GPX
// track decoding. Every function here is total — bad input yields a zero
// value or an empty sequence, never an error.
package convert

import (
	"strconv"
	"strings"
	"time"

	"github.com/strideflow/strideflow/internal/models"
)

// SecondsToDuration converts a seconds count into a clamped wall-clock
// Duration. The provider is inconsistent about numeric types, so any of
// int, int64, float64, or a numeric string is accepted; nil or garbage
// yields a zero duration.
func SecondsToDuration(v any) models.Duration {
	var total float64
	switch n := v.(type) {
	case nil:
		return models.Duration{}
	case int:
		total = float64(n)
	case int64:
		total = float64(n)
	case float64:
		total = n
	case float32:
		total = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return models.Duration{}
		}
		total = parsed
	default:
		return models.Duration{}
	}
	return models.DurationFromSeconds(int(total))
}

// timestampLayouts is the ordered fallback list tried after ISO-8601.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"02/01/2006 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a provider timestamp. It accepts ISO-8601 with or
// without a trailing UTC marker, then tries a fixed list of fallback
// layouts. The second return is false when nothing matched; the function
// never fails the caller.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	trimmed := strings.TrimSuffix(s, "Z")
	if t, err := time.Parse("2006-01-02T15:04:05", trimmed); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
