// Package sync pulls data from the activity provider and lands it in the
// store. A sync run is idempotent: activities are skipped once stored, daily
// data is upserted by date, so re-running over the same window converges on
// the same rows.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/strideflow/strideflow/internal/mapper"
	"github.com/strideflow/strideflow/internal/models"
	"github.com/strideflow/strideflow/internal/provider"
	"github.com/strideflow/strideflow/internal/storage"
)

// activityPageSize is the single page requested from the activity list. The
// provider returns newest first, so one page covers everything since the
// previous run.
const activityPageSize = 100

// sleepWindowDays bounds the sleep backfill. Health goes back to the
// earliest stored date; sleep only covers the trailing window.
const sleepWindowDays = 180

// Store is the persistence surface the syncer writes to.
type Store interface {
	InsertActivity(ctx context.Context, a models.Activity) (bool, error)
	ActivityExists(ctx context.Context, activityID string) (bool, error)
	ReplaceTrack(ctx context.Context, activityID string, points []models.TrackPoint) error
	UpsertHealthSummary(ctx context.Context, h models.HealthSummary) error
	UpsertSleepSession(ctx context.Context, s models.SleepSession) error
	EarliestDataDate(ctx context.Context, now time.Time, log *slog.Logger) time.Time
}

var _ Store = (*storage.DB)(nil)

// Result counts what one sync run did.
type Result struct {
	ActivitiesNew     int
	ActivitiesSkipped int
	ActivitiesFailed  int
	HealthDays        int
	SleepDays         int
	DaysFailed        int
}

// Syncer orchestrates one or more sync runs against a store and a provider
// client.
type Syncer struct {
	store  Store
	client provider.Client
	log    *slog.Logger
	now    func() time.Time
}

func New(store Store, client provider.Client, log *slog.Logger) *Syncer {
	return &Syncer{store: store, client: client, log: log, now: time.Now}
}

// SyncAll runs a full sync: activities first, then the per-date health and
// sleep data. An error aborts the run; per-item and per-date failures only
// count.
func (s *Syncer) SyncAll(ctx context.Context) (Result, error) {
	runID := uuid.New()
	log := s.log.With("run_id", runID)
	log.Info("sync starting")

	var res Result
	if err := s.SyncActivities(ctx, &res); err != nil {
		return res, fmt.Errorf("syncing activities: %w", err)
	}
	if err := s.SyncDaily(ctx, &res); err != nil {
		return res, fmt.Errorf("syncing daily data: %w", err)
	}

	log.Info("sync finished",
		"activities_new", res.ActivitiesNew,
		"activities_skipped", res.ActivitiesSkipped,
		"activities_failed", res.ActivitiesFailed,
		"health_days", res.HealthDays,
		"sleep_days", res.SleepDays,
		"days_failed", res.DaysFailed)
	return res, nil
}

// SyncActivities fetches the newest page of activities and stores the ones
// not seen before, together with their GPS tracks. One broken activity never
// stops the page: a mapping failure or track fetch error is logged and
// counted, and the loop moves on.
func (s *Syncer) SyncActivities(ctx context.Context, res *Result) error {
	payloads, err := s.client.Activities(ctx, 0, activityPageSize)
	if err != nil {
		return fmt.Errorf("listing activities: %w", err)
	}

	for _, p := range payloads {
		if err := ctx.Err(); err != nil {
			return err
		}

		a, err := mapper.Activity(p)
		if err != nil {
			var me *mapper.MappingError
			if errors.As(err, &me) {
				s.log.Warn("skipping unmappable activity", "error", err)
				res.ActivitiesFailed++
				continue
			}
			return err
		}

		exists, err := s.store.ActivityExists(ctx, a.ActivityID)
		if err != nil {
			return err
		}
		if exists {
			res.ActivitiesSkipped++
			continue
		}

		if _, err := s.store.InsertActivity(ctx, *a); err != nil {
			return err
		}
		res.ActivitiesNew++
		s.log.Info("stored activity", "activity_id", a.ActivityID, "sport", a.Sport, "start", a.StartTime)

		// The activity row stays even when the track cannot be fetched;
		// the next run will not retry it.
		gpx, err := s.client.ActivityTrack(ctx, a.ActivityID)
		if err != nil {
			s.log.Warn("track fetch failed", "activity_id", a.ActivityID, "error", err)
			res.ActivitiesFailed++
			continue
		}
		if gpx == nil {
			continue // indoor activity, no track
		}
		points := mapper.TrackPoints(a.ActivityID, gpx, s.log)
		if err := s.store.ReplaceTrack(ctx, a.ActivityID, points); err != nil {
			s.log.Warn("track store failed", "activity_id", a.ActivityID, "error", err)
			res.ActivitiesFailed++
		}
	}
	return nil
}

// SyncDaily upserts the per-date health and sleep data, walking dates
// ascending. Health covers every date from the earliest stored date through
// today; sleep only the trailing window. Each date is isolated: a store
// failure for one date is counted and the walk continues with the next.
func (s *Syncer) SyncDaily(ctx context.Context, res *Result) error {
	today := dateOnly(s.now())
	healthStart := dateOnly(s.store.EarliestDataDate(ctx, s.now(), s.log))
	sleepStart := today.AddDate(0, 0, -sleepWindowDays)

	start := healthStart
	if sleepStart.Before(start) {
		start = sleepStart
	}

	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return err
		}

		doHealth := !d.Before(healthStart)
		doSleep := !d.Before(sleepStart)
		healthStored, sleepStored, err := s.syncDate(ctx, d, doHealth, doSleep)
		if healthStored {
			res.HealthDays++
		}
		if sleepStored {
			res.SleepDays++
		}
		if err != nil {
			s.log.Warn("date sync failed", "date", day(d), "error", err)
			res.DaysFailed++
			continue
		}
		s.log.Debug("date synced", "date", day(d), "health", healthStored, "sleep", sleepStored)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
