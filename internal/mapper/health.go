package mapper

import (
	"math"
	"time"

	"github.com/strideflow/strideflow/internal/models"
	"github.com/strideflow/strideflow/internal/provider"
)

// HealthInput bundles the per-date endpoint responses the daily summary is
// aggregated from. Any of the pointers may be nil when the endpoint returned
// no data for the date.
type HealthInput struct {
	Summary    *provider.SummaryPayload
	HeartRates *provider.HeartRatePayload
	Resting    []provider.RestingHeartRate
	Intensity  *provider.IntensityPayload
	Stats      *provider.StatsPayload
}

// DailyHealth aggregates one calendar date's endpoint responses into a
// health summary. It returns nil when the date carries no signal at all: no
// steps, no intensity minutes and no heart rate of any kind. A day the watch
// was worn always has at least one of those.
func DailyHealth(date time.Time, in HealthInput) *models.HealthSummary {
	h := &models.HealthSummary{Date: date}

	if s := in.Summary; s != nil {
		if s.AverageStressLevel != nil && *s.AverageStressLevel > 0 {
			h.AvgStress = *s.AverageStressLevel
		}
		if s.MaxStressLevel != nil && *s.MaxStressLevel > 0 {
			h.MaxStress = *s.MaxStressLevel
		}
		if s.TotalSteps != nil {
			h.Steps = *s.TotalSteps
		}
		if s.BodyBatteryChargedValue != nil {
			h.BodyBatteryCharged = *s.BodyBatteryChargedValue
		}
		if s.BodyBatteryDrainedValue != nil {
			h.BodyBatteryDrained = *s.BodyBatteryDrainedValue
		}
	}

	if in.HeartRates != nil {
		h.AvgHeartRate, h.MaxHeartRate = heartRateStats(in.HeartRates.HeartRateValues)
	}

	for _, m := range in.Resting {
		if m.MetricID == provider.RestingHeartRateMetricID && m.Value != nil {
			v := int(*m.Value)
			h.RestingHeartRate = &v
			break
		}
	}

	if im := in.Intensity; im != nil {
		var moderate, vigorous int
		if im.ModerateIntensityDuration != nil {
			moderate = int(*im.ModerateIntensityDuration) / 60
		}
		if im.VigorousIntensityDuration != nil {
			vigorous = int(*im.VigorousIntensityDuration) / 60
		}
		// Vigorous minutes count double toward the weekly goal.
		h.IntensityMinutes = moderate + 2*vigorous
	}

	if in.Stats != nil && in.Stats.ActiveKilocalories != nil {
		v := int(*in.Stats.ActiveKilocalories)
		h.ActiveCalories = &v
	}

	if h.Steps == 0 && h.IntensityMinutes == 0 &&
		h.RestingHeartRate == nil && h.AvgHeartRate == nil && h.MaxHeartRate == nil {
		return nil
	}
	return h
}

// heartRateStats takes the rounded mean and the peak of the intraday series,
// ignoring gaps where the watch reported no value.
func heartRateStats(samples []provider.HeartRateSample) (avg, max *int) {
	var sum float64
	var count, peak int
	for _, s := range samples {
		if s.Value == nil {
			continue
		}
		sum += *s.Value
		count++
		if v := int(*s.Value); v > peak {
			peak = v
		}
	}
	if count == 0 {
		return nil, nil
	}
	a := int(math.Round(sum / float64(count)))
	return &a, &peak
}
