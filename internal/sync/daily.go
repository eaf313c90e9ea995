package sync

import (
	"context"
	"errors"
	"time"

	"github.com/strideflow/strideflow/internal/mapper"
	"github.com/strideflow/strideflow/internal/models"
	"github.com/strideflow/strideflow/internal/provider"
)

// syncDate fetches and stores one date's health summary and sleep session.
// A failed provider call downgrades to "no data for this call"; only a store
// failure makes the date count as failed. The two domains are stored
// independently, so a failed health upsert does not block the date's sleep.
func (s *Syncer) syncDate(ctx context.Context, date time.Time, doHealth, doSleep bool) (healthStored, sleepStored bool, err error) {
	summary, err := s.client.DailySummary(ctx, date)
	if err != nil {
		s.log.Warn("daily summary fetch failed", "date", day(date), "error", err)
		summary = nil
	}

	var healthErr error
	if doHealth {
		if health := s.fetchHealth(ctx, date, summary); health != nil {
			if healthErr = s.store.UpsertHealthSummary(ctx, *health); healthErr == nil {
				healthStored = true
			}
		}
	}

	var sleepErr error
	if doSleep {
		if sleep := s.fetchSleep(ctx, date, summary); sleep != nil {
			if sleepErr = s.store.UpsertSleepSession(ctx, *sleep); sleepErr == nil {
				sleepStored = true
			}
		}
	}
	return healthStored, sleepStored, errors.Join(healthErr, sleepErr)
}

// fetchHealth drives the per-date health endpoints. The calls are
// independent: one failing means that endpoint contributes nothing to the
// date's aggregate, not that the date is lost.
func (s *Syncer) fetchHealth(ctx context.Context, date time.Time, summary *provider.SummaryPayload) *models.HealthSummary {
	heartRates, err := s.client.HeartRates(ctx, date)
	if err != nil {
		s.log.Warn("heart rate fetch failed", "date", day(date), "error", err)
		heartRates = nil
	}
	resting, err := s.client.RestingHeartRates(ctx, date)
	if err != nil {
		s.log.Warn("resting heart rate fetch failed", "date", day(date), "error", err)
		resting = nil
	}
	intensity, err := s.client.IntensityMinutes(ctx, date)
	if err != nil {
		s.log.Warn("intensity minutes fetch failed", "date", day(date), "error", err)
		intensity = nil
	}
	stats, err := s.client.DailyStats(ctx, date)
	if err != nil {
		s.log.Warn("daily stats fetch failed", "date", day(date), "error", err)
		stats = nil
	}

	return mapper.DailyHealth(date, mapper.HealthInput{
		Summary:    summary,
		HeartRates: heartRates,
		Resting:    resting,
		Intensity:  intensity,
		Stats:      stats,
	})
}

// fetchSleep loads the date's sleep data. A privacy-protected response hides
// the session behind the user's settings, but the daily summary still carries
// the stage totals, so it serves as the fallback source. When the summary is
// itself privacy protected the date is skipped entirely.
func (s *Syncer) fetchSleep(ctx context.Context, date time.Time, summary *provider.SummaryPayload) *models.SleepSession {
	payload, err := s.client.SleepData(ctx, date)
	if err != nil {
		s.log.Warn("sleep fetch failed", "date", day(date), "error", err)
		return nil
	}
	if payload != nil && payload.PrivacyProtected {
		if summary == nil || summary.PrivacyProtected {
			return nil
		}
		s.log.Debug("sleep data privacy protected, using summary fallback", "date", day(date))
		payload = summary.SleepFallback()
	}
	return mapper.Sleep(date, payload)
}

func day(t time.Time) string { return t.Format("2006-01-02") }
