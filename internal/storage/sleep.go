package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/strideflow/strideflow/internal/models"
)

// UpsertSleepSession inserts or replaces the sleep session for its date.
func (db *DB) UpsertSleepSession(ctx context.Context, s models.SleepSession) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sleep_metrics (date, start_time, end_time, total_sleep_sec,
		 deep_sleep_sec, light_sleep_sec, rem_sleep_sec, awake_sec,
		 avg_respiration, sleep_stress)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (date) DO UPDATE SET
		   start_time      = EXCLUDED.start_time,
		   end_time        = EXCLUDED.end_time,
		   total_sleep_sec = EXCLUDED.total_sleep_sec,
		   deep_sleep_sec  = EXCLUDED.deep_sleep_sec,
		   light_sleep_sec = EXCLUDED.light_sleep_sec,
		   rem_sleep_sec   = EXCLUDED.rem_sleep_sec,
		   awake_sec       = EXCLUDED.awake_sec,
		   avg_respiration = EXCLUDED.avg_respiration,
		   sleep_stress    = EXCLUDED.sleep_stress`,
		s.Date, s.StartTime, s.EndTime, s.TotalSleep.TotalSeconds(),
		s.DeepSleep.TotalSeconds(), s.LightSleep.TotalSeconds(),
		s.REMSleep.TotalSeconds(), s.AwakeTime.TotalSeconds(),
		s.AvgRespiration, s.SleepStress)
	if err != nil {
		return fmt.Errorf("upserting sleep session: %w", err)
	}
	return nil
}

// SleepSessions retrieves sleep sessions in a date range, oldest first.
func (db *DB) SleepSessions(ctx context.Context, start, end time.Time) ([]models.SleepSession, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date, start_time, end_time, total_sleep_sec,
		 deep_sleep_sec, light_sleep_sec, rem_sleep_sec, awake_sec,
		 avg_respiration, sleep_stress
		 FROM sleep_metrics
		 WHERE date >= $1 AND date <= $2
		 ORDER BY date ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sleep sessions: %w", err)
	}
	defer rows.Close()

	var result []models.SleepSession
	for rows.Next() {
		var s models.SleepSession
		var total, deep, light, rem, awake int
		if err := rows.Scan(&s.Date, &s.StartTime, &s.EndTime, &total,
			&deep, &light, &rem, &awake,
			&s.AvgRespiration, &s.SleepStress); err != nil {
			return nil, fmt.Errorf("scanning sleep session: %w", err)
		}
		s.TotalSleep = models.DurationFromSeconds(total)
		s.DeepSleep = models.DurationFromSeconds(deep)
		s.LightSleep = models.DurationFromSeconds(light)
		s.REMSleep = models.DurationFromSeconds(rem)
		s.AwakeTime = models.DurationFromSeconds(awake)
		result = append(result, s)
	}
	return result, rows.Err()
}
