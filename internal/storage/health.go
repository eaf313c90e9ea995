package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/strideflow/strideflow/internal/models"
)

// UpsertHealthSummary inserts or replaces the summary for its date. A re-sync
// of an already stored date overwrites every column, so corrected upstream
// data wins.
func (db *DB) UpsertHealthSummary(ctx context.Context, h models.HealthSummary) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO health_summary (date, resting_heart_rate, max_heart_rate, avg_heart_rate,
		 avg_stress, max_stress, steps, intensity_minutes, active_calories,
		 body_battery_charged, body_battery_drained)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (date) DO UPDATE SET
		   resting_heart_rate   = EXCLUDED.resting_heart_rate,
		   max_heart_rate       = EXCLUDED.max_heart_rate,
		   avg_heart_rate       = EXCLUDED.avg_heart_rate,
		   avg_stress           = EXCLUDED.avg_stress,
		   max_stress           = EXCLUDED.max_stress,
		   steps                = EXCLUDED.steps,
		   intensity_minutes    = EXCLUDED.intensity_minutes,
		   active_calories      = EXCLUDED.active_calories,
		   body_battery_charged = EXCLUDED.body_battery_charged,
		   body_battery_drained = EXCLUDED.body_battery_drained`,
		h.Date, h.RestingHeartRate, h.MaxHeartRate, h.AvgHeartRate,
		h.AvgStress, h.MaxStress, h.Steps, h.IntensityMinutes, h.ActiveCalories,
		h.BodyBatteryCharged, h.BodyBatteryDrained)
	if err != nil {
		return fmt.Errorf("upserting health summary: %w", err)
	}
	return nil
}

// HealthSummaries retrieves daily summaries in a date range, oldest first.
func (db *DB) HealthSummaries(ctx context.Context, start, end time.Time) ([]models.HealthSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date, resting_heart_rate, max_heart_rate, avg_heart_rate,
		 avg_stress, max_stress, steps, intensity_minutes, active_calories,
		 body_battery_charged, body_battery_drained
		 FROM health_summary
		 WHERE date >= $1 AND date <= $2
		 ORDER BY date ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying health summaries: %w", err)
	}
	defer rows.Close()

	var result []models.HealthSummary
	for rows.Next() {
		var h models.HealthSummary
		if err := rows.Scan(&h.Date, &h.RestingHeartRate, &h.MaxHeartRate, &h.AvgHeartRate,
			&h.AvgStress, &h.MaxStress, &h.Steps, &h.IntensityMinutes, &h.ActiveCalories,
			&h.BodyBatteryCharged, &h.BodyBatteryDrained); err != nil {
			return nil, fmt.Errorf("scanning health summary: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}
