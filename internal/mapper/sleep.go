package mapper

import (
	"time"

	"github.com/strideflow/strideflow/internal/convert"
	"github.com/strideflow/strideflow/internal/models"
	"github.com/strideflow/strideflow/internal/provider"
)

// Sleep normalizes one night's sleep payload. The session nests under
// dailySleepDTO in newer responses and sits at the top level in older ones;
// each stage additionally falls back from its *Seconds key to the legacy
// key. A payload where both deep and light sleep are absent maps to nil,
// meaning no session for the date. An explicit zero stage is kept.
func Sleep(date time.Time, p *provider.SleepPayload) *models.SleepSession {
	if p == nil {
		return nil
	}
	f := &p.SleepFields
	if p.DailySleepDTO != nil {
		f = p.DailySleepDTO
	}

	deep := pickStage(f.DeepSleepSeconds, f.DeepSleep)
	light := pickStage(f.LightSleepSeconds, f.LightSleep)
	if deep == nil && light == nil {
		return nil
	}
	rem := pickStage(f.RemSleepSeconds, f.RemSleep)
	awake := pickStage(f.AwakeSleepSeconds, f.Awake)

	s := &models.SleepSession{
		Date:           date,
		DeepSleep:      convert.SecondsToDuration(deref(deep)),
		LightSleep:     convert.SecondsToDuration(deref(light)),
		REMSleep:       convert.SecondsToDuration(deref(rem)),
		AwakeTime:      convert.SecondsToDuration(deref(awake)),
		AvgRespiration: f.AverageRespirationValue,
		SleepStress:    f.AvgSleepStress,
	}
	// Awake time is not sleep, so it stays out of the total.
	s.TotalSleep = convert.SecondsToDuration(deref(deep) + deref(light) + deref(rem))

	if f.SleepStartTimestampGMT != nil {
		t := time.UnixMilli(*f.SleepStartTimestampGMT).UTC()
		s.StartTime = &t
	}
	if f.SleepEndTimestampGMT != nil {
		t := time.UnixMilli(*f.SleepEndTimestampGMT).UTC()
		s.EndTime = &t
	}
	return s
}

func pickStage(current, legacy *float64) *float64 {
	if current != nil {
		return current
	}
	return legacy
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
