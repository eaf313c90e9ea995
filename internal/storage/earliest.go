package storage

import (
	"context"
	"log/slog"
	"time"
)

// earliestFallbackDays bounds a first sync on an empty database.
const earliestFallbackDays = 180

// EarliestDataDate returns the oldest date with any stored data, across
// activities, health summaries and sleep sessions. On an empty database, or
// when the lookup fails, it falls back to 180 days before now; a sync must
// always have a starting point, so this never returns an error.
func (db *DB) EarliestDataDate(ctx context.Context, now time.Time, log *slog.Logger) time.Time {
	fallback := now.AddDate(0, 0, -earliestFallbackDays)

	var earliest *time.Time
	err := db.Pool.QueryRow(ctx,
		`SELECT LEAST(
		   (SELECT MIN(start_time::date) FROM activities),
		   (SELECT MIN(date) FROM health_summary),
		   (SELECT MIN(date) FROM sleep_metrics)
		 )`).Scan(&earliest)
	if err != nil {
		log.Warn("earliest data lookup failed, using fallback window", "error", err)
		return fallback
	}
	if earliest == nil {
		return fallback
	}
	return *earliest
}
