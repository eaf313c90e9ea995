// Package provider talks to the wearable vendor's connect API. The Client
// interface is what the sync fetchers consume; Garmin is the production
// implementation. A single client session is not safe for concurrent
// fetchers — the orchestrator serializes access.
package provider

import (
	"context"
	"fmt"
	"time"
)

// Client is the capability the domain fetchers drive. Every method can fail
// on network or auth problems; callers treat a failure as "no data for this
// call" and continue.
type Client interface {
	// Activities returns one page of most-recent activities.
	Activities(ctx context.Context, start, limit int) ([]ActivityPayload, error)
	// ActivityTrack downloads the GPX document for an activity, or nil when
	// the activity has no track.
	ActivityTrack(ctx context.Context, activityID string) ([]byte, error)
	DailySummary(ctx context.Context, date time.Time) (*SummaryPayload, error)
	HeartRates(ctx context.Context, date time.Time) (*HeartRatePayload, error)
	RestingHeartRates(ctx context.Context, date time.Time) ([]RestingHeartRate, error)
	IntensityMinutes(ctx context.Context, date time.Time) (*IntensityPayload, error)
	DailyStats(ctx context.Context, date time.Time) (*StatsPayload, error)
	SleepData(ctx context.Context, date time.Time) (*SleepPayload, error)
}

// CallError reports a failed provider API call.
type CallError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *CallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider call %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("provider call %s: unexpected status %d", e.Endpoint, e.Status)
}

func (e *CallError) Unwrap() error { return e.Err }
