// Package models defines the normalized records produced by the sync
// pipeline and served by the read API. All four record types are created and
// updated exclusively by the sync pipeline; the read API never mutates them.
package models

import (
	"encoding/json"
	"time"
)

// Activity is one recorded activity, keyed by the provider-assigned id.
// Distances are kilometers, speeds km/h, both rounded to two decimals.
type Activity struct {
	ActivityID     string
	LocationName   string
	StartTime      time.Time
	Sport          string
	Distance       float64
	ElapsedTime    Duration
	AvgSpeed       float64
	MaxSpeed       float64
	Calories       int
	AvgHR          *int
	MaxHR          *int
	Steps          *int
	TrainingEffect float64
	TrainingLoad   float64
	VO2Max         float64
}

// MarshalJSON renders the upstream API field names.
func (a Activity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ActivityID     string   `json:"activity_id"`
		LocationName   string   `json:"locationName"`
		StartTime      string   `json:"start_time"`
		Sport          string   `json:"sport"`
		Distance       float64  `json:"distance"`
		ElapsedTime    Duration `json:"elapsed_time"`
		AvgSpeed       float64  `json:"avg_speed"`
		MaxSpeed       float64  `json:"max_speed"`
		Calories       int      `json:"calories"`
		AvgHR          *int     `json:"avg_hr"`
		MaxHR          *int     `json:"max_hr"`
		Steps          *int     `json:"steps"`
		TrainingEffect float64  `json:"training_effect"`
		TrainingLoad   float64  `json:"training_load"`
		VO2Max         float64  `json:"vO2MaxValue"`
	}{
		ActivityID:     a.ActivityID,
		LocationName:   a.LocationName,
		StartTime:      a.StartTime.Format("2006-01-02T15:04:05"),
		Sport:          a.Sport,
		Distance:       a.Distance,
		ElapsedTime:    a.ElapsedTime,
		AvgSpeed:       a.AvgSpeed,
		MaxSpeed:       a.MaxSpeed,
		Calories:       a.Calories,
		AvgHR:          a.AvgHR,
		MaxHR:          a.MaxHR,
		Steps:          a.Steps,
		TrainingEffect: a.TrainingEffect,
		TrainingLoad:   a.TrainingLoad,
		VO2Max:         a.VO2Max,
	})
}

// TrackPoint is one GPS/sensor sample within an activity's recorded path.
// Seq is the 0-based position in the original provider ordering and is
// unique per activity. Latitude and longitude travel together: a point with
// only one of them is not meaningful and the parser rejects it upstream.
type TrackPoint struct {
	ActivityID string
	Seq        int
	Timestamp  time.Time
	Lat        *float64
	Lon        *float64
	Altitude   *float64
	HeartRate  *int
	Speed      *float64
}

// HealthSummary is the per-day health aggregate, keyed by calendar date.
// Stress, steps, intensity minutes and body battery default to 0 when the
// provider omits them; heart rates stay nil so absent is distinguishable
// from zero.
type HealthSummary struct {
	Date               time.Time
	RestingHeartRate   *int
	MaxHeartRate       *int
	AvgHeartRate       *int
	AvgStress          int
	MaxStress          int
	Steps              int
	IntensityMinutes   int
	ActiveCalories     *int
	BodyBatteryCharged int
	BodyBatteryDrained int
}

// BodyBatteryNet returns charged minus drained, or nil when either side is
// missing (zero counts as missing, matching the upstream API).
func (h HealthSummary) BodyBatteryNet() *int {
	if h.BodyBatteryCharged == 0 || h.BodyBatteryDrained == 0 {
		return nil
	}
	net := h.BodyBatteryCharged - h.BodyBatteryDrained
	return &net
}

func (h HealthSummary) MarshalJSON() ([]byte, error) {
	type bodyBattery struct {
		Charged int  `json:"charged"`
		Drained int  `json:"drained"`
		Net     *int `json:"net"`
	}
	return json.Marshal(struct {
		Date             string      `json:"date"`
		RestingHeartRate *int        `json:"resting_heart_rate"`
		MaxHeartRate     *int        `json:"max_heart_rate"`
		AvgHeartRate     *int        `json:"avg_heart_rate"`
		AvgStress        int         `json:"avg_stress"`
		MaxStress        int         `json:"max_stress"`
		Steps            int         `json:"steps"`
		IntensityMinutes int         `json:"intensity_minutes"`
		ActiveCalories   *int        `json:"active_calories"`
		BodyBattery      bodyBattery `json:"body_battery"`
	}{
		Date:             h.Date.Format("2006-01-02"),
		RestingHeartRate: h.RestingHeartRate,
		MaxHeartRate:     h.MaxHeartRate,
		AvgHeartRate:     h.AvgHeartRate,
		AvgStress:        h.AvgStress,
		MaxStress:        h.MaxStress,
		Steps:            h.Steps,
		IntensityMinutes: h.IntensityMinutes,
		ActiveCalories:   h.ActiveCalories,
		BodyBattery: bodyBattery{
			Charged: h.BodyBatteryCharged,
			Drained: h.BodyBatteryDrained,
			Net:     h.BodyBatteryNet(),
		},
	})
}

// SleepSession is one night's sleep, keyed by calendar date. A session only
// exists when the provider reported deep- or light-sleep data for the date;
// "no sleep data" never produces a zero-filled row.
type SleepSession struct {
	Date           time.Time
	StartTime      *time.Time
	EndTime        *time.Time
	TotalSleep     Duration
	DeepSleep      Duration
	LightSleep     Duration
	REMSleep       Duration
	AwakeTime      Duration
	AvgRespiration *float64
	SleepStress    *float64
}

func (s SleepSession) MarshalJSON() ([]byte, error) {
	fmtTime := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		v := t.Format("2006-01-02T15:04:05")
		return &v
	}
	return json.Marshal(struct {
		Date           string   `json:"date"`
		StartTime      *string  `json:"start_time"`
		EndTime        *string  `json:"end_time"`
		TotalSleep     Duration `json:"total_sleep"`
		DeepSleep      Duration `json:"deep_sleep"`
		LightSleep     Duration `json:"light_sleep"`
		REMSleep       Duration `json:"rem_sleep"`
		AwakeTime      Duration `json:"awake_time"`
		AvgRespiration *float64 `json:"avg_respiration"`
		SleepStress    *float64 `json:"stress_during_sleep"`
	}{
		Date:           s.Date.Format("2006-01-02"),
		StartTime:      fmtTime(s.StartTime),
		EndTime:        fmtTime(s.EndTime),
		TotalSleep:     s.TotalSleep,
		DeepSleep:      s.DeepSleep,
		LightSleep:     s.LightSleep,
		REMSleep:       s.REMSleep,
		AwakeTime:      s.AwakeTime,
		AvgRespiration: s.AvgRespiration,
		SleepStress:    s.SleepStress,
	})
}

// MaxValues holds the per-metric maxima across all activities, as served by
// the read API's max_values endpoint.
type MaxValues struct {
	Distance float64 `json:"Distance"`
	Duration int     `json:"Duration"`
	AvgSpeed float64 `json:"Avg Speed"`
	Calories int     `json:"Calories"`
	AvgHR    int     `json:"Avg HR"`
}
