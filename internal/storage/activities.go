package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/strideflow/strideflow/internal/models"
)

// InsertActivity inserts an activity row. Returns true if inserted, false if
// the activity id already exists.
func (db *DB) InsertActivity(ctx context.Context, a models.Activity) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO activities (activity_id, location_name, start_time, sport, distance,
		 elapsed_time_sec, avg_speed, max_speed, calories, avg_hr, max_hr, steps,
		 training_effect, training_load, vo2max)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 ON CONFLICT (activity_id) DO NOTHING`,
		a.ActivityID, a.LocationName, a.StartTime, a.Sport, a.Distance,
		a.ElapsedTime.TotalSeconds(), a.AvgSpeed, a.MaxSpeed, a.Calories,
		a.AvgHR, a.MaxHR, a.Steps, a.TrainingEffect, a.TrainingLoad, a.VO2Max)
	if err != nil {
		return false, fmt.Errorf("inserting activity: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ActivityExists reports whether an activity with the id is already stored.
func (db *DB) ActivityExists(ctx context.Context, activityID string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM activities WHERE activity_id = $1)`,
		activityID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking activity: %w", err)
	}
	return exists, nil
}

// ReplaceTrack atomically replaces an activity's stored track with the given
// points. Either the whole new track lands or the old one stays.
func (db *DB) ReplaceTrack(ctx context.Context, activityID string, points []models.TrackPoint) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning track transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM activity_records WHERE activity_id = $1`, activityID); err != nil {
		return fmt.Errorf("deleting old track: %w", err)
	}

	if len(points) > 0 {
		query := `INSERT INTO activity_records (activity_id, record, timestamp, latitude, longitude, altitude, heart_rate, speed) VALUES `
		args := make([]any, 0, len(points)*8)
		valueStrings := make([]string, 0, len(points))

		for i, p := range points {
			base := i * 8
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
			))
			args = append(args, activityID, p.Seq, p.Timestamp, p.Lat, p.Lon,
				p.Altitude, p.HeartRate, p.Speed)
		}

		if _, err := tx.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
			return fmt.Errorf("inserting track points: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing track transaction: %w", err)
	}
	return nil
}

// Activities retrieves activities in a time range, newest first.
func (db *DB) Activities(ctx context.Context, start, end time.Time) ([]models.Activity, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT activity_id, location_name, start_time, sport, distance,
		 elapsed_time_sec, avg_speed, max_speed, calories, avg_hr, max_hr, steps,
		 training_effect, training_load, vo2max
		 FROM activities
		 WHERE start_time >= $1 AND start_time < $2
		 ORDER BY start_time DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	var result []models.Activity
	for rows.Next() {
		var a models.Activity
		var elapsedSec int
		if err := rows.Scan(&a.ActivityID, &a.LocationName, &a.StartTime, &a.Sport,
			&a.Distance, &elapsedSec, &a.AvgSpeed, &a.MaxSpeed, &a.Calories,
			&a.AvgHR, &a.MaxHR, &a.Steps,
			&a.TrainingEffect, &a.TrainingLoad, &a.VO2Max); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		a.ElapsedTime = models.DurationFromSeconds(elapsedSec)
		result = append(result, a)
	}
	return result, rows.Err()
}

// ActivityGPS retrieves an activity's track points in recorded order.
func (db *DB) ActivityGPS(ctx context.Context, activityID string) ([]models.TrackPoint, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT activity_id, record, timestamp, latitude, longitude, altitude, heart_rate, speed
		 FROM activity_records
		 WHERE activity_id = $1
		 ORDER BY record ASC`,
		activityID)
	if err != nil {
		return nil, fmt.Errorf("querying track points: %w", err)
	}
	defer rows.Close()

	var result []models.TrackPoint
	for rows.Next() {
		var p models.TrackPoint
		if err := rows.Scan(&p.ActivityID, &p.Seq, &p.Timestamp, &p.Lat, &p.Lon,
			&p.Altitude, &p.HeartRate, &p.Speed); err != nil {
			return nil, fmt.Errorf("scanning track point: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// MaxValues computes the per-metric maxima across all stored activities.
// An empty table yields all zeros.
func (db *DB) MaxValues(ctx context.Context) (models.MaxValues, error) {
	var mv models.MaxValues
	err := db.Pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(distance), 0),
		        COALESCE(MAX(elapsed_time_sec), 0),
		        COALESCE(MAX(avg_speed), 0),
		        COALESCE(MAX(calories), 0),
		        COALESCE(MAX(avg_hr), 0)
		 FROM activities`).
		Scan(&mv.Distance, &mv.Duration, &mv.AvgSpeed, &mv.Calories, &mv.AvgHR)
	if err != nil {
		return models.MaxValues{}, fmt.Errorf("querying max values: %w", err)
	}
	return mv, nil
}
