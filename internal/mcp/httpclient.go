package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/strideflow/strideflow/internal/models"
)

// HTTPClient implements DataSource by calling the StrideFlow REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but data
// lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) Activities(ctx context.Context, start, end time.Time) ([]models.Activity, error) {
	body, err := c.get(ctx, "/api/activities", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	// The API serves provider field names; decode just what the tools need.
	var raw []struct {
		ActivityID     string  `json:"activity_id"`
		LocationName   string  `json:"locationName"`
		StartTime      string  `json:"start_time"`
		Sport          string  `json:"sport"`
		Distance       float64 `json:"distance"`
		ElapsedTime    string  `json:"elapsed_time"`
		AvgSpeed       float64 `json:"avg_speed"`
		MaxSpeed       float64 `json:"max_speed"`
		Calories       int     `json:"calories"`
		AvgHR          *int    `json:"avg_hr"`
		MaxHR          *int    `json:"max_hr"`
		Steps          *int    `json:"steps"`
		TrainingEffect float64 `json:"training_effect"`
		TrainingLoad   float64 `json:"training_load"`
		VO2Max         float64 `json:"vO2MaxValue"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("httpclient: decode activities: %w", err)
	}

	activities := make([]models.Activity, 0, len(raw))
	for _, r := range raw {
		a := models.Activity{
			ActivityID:     r.ActivityID,
			LocationName:   r.LocationName,
			Sport:          r.Sport,
			Distance:       r.Distance,
			AvgSpeed:       r.AvgSpeed,
			MaxSpeed:       r.MaxSpeed,
			Calories:       r.Calories,
			AvgHR:          r.AvgHR,
			MaxHR:          r.MaxHR,
			Steps:          r.Steps,
			TrainingEffect: r.TrainingEffect,
			TrainingLoad:   r.TrainingLoad,
			VO2Max:         r.VO2Max,
		}
		if t, err := time.Parse("2006-01-02T15:04:05", r.StartTime); err == nil {
			a.StartTime = t
		}
		if d, err := models.ParseClock(r.ElapsedTime); err == nil {
			a.ElapsedTime = d
		}
		activities = append(activities, a)
	}
	return activities, nil
}

func (c *HTTPClient) ActivityGPS(ctx context.Context, activityID string) ([]models.TrackPoint, error) {
	body, err := c.get(ctx, "/api/activities/"+activityID+"/gps", nil)
	if err != nil {
		return nil, err
	}

	var coords []struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &coords); err != nil {
		return nil, fmt.Errorf("httpclient: decode track: %w", err)
	}

	points := make([]models.TrackPoint, len(coords))
	for i, co := range coords {
		points[i] = models.TrackPoint{
			ActivityID: activityID,
			Seq:        i,
			Lat:        co.Lat,
			Lon:        co.Lon,
		}
	}
	return points, nil
}

func (c *HTTPClient) MaxValues(ctx context.Context) (models.MaxValues, error) {
	body, err := c.get(ctx, "/api/activities/max_values", nil)
	if err != nil {
		return models.MaxValues{}, err
	}

	var mv models.MaxValues
	if err := json.Unmarshal(body, &mv); err != nil {
		return models.MaxValues{}, fmt.Errorf("httpclient: decode max values: %w", err)
	}
	return mv, nil
}

func (c *HTTPClient) HealthSummaries(ctx context.Context, start, end time.Time) ([]models.HealthSummary, error) {
	body, err := c.get(ctx, "/api/health", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Date             string `json:"date"`
		RestingHeartRate *int   `json:"resting_heart_rate"`
		MaxHeartRate     *int   `json:"max_heart_rate"`
		AvgHeartRate     *int   `json:"avg_heart_rate"`
		AvgStress        int    `json:"avg_stress"`
		MaxStress        int    `json:"max_stress"`
		Steps            int    `json:"steps"`
		IntensityMinutes int    `json:"intensity_minutes"`
		ActiveCalories   *int   `json:"active_calories"`
		BodyBattery      struct {
			Charged int `json:"charged"`
			Drained int `json:"drained"`
		} `json:"body_battery"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("httpclient: decode health summaries: %w", err)
	}

	summaries := make([]models.HealthSummary, 0, len(raw))
	for _, r := range raw {
		h := models.HealthSummary{
			RestingHeartRate:   r.RestingHeartRate,
			MaxHeartRate:       r.MaxHeartRate,
			AvgHeartRate:       r.AvgHeartRate,
			AvgStress:          r.AvgStress,
			MaxStress:          r.MaxStress,
			Steps:              r.Steps,
			IntensityMinutes:   r.IntensityMinutes,
			ActiveCalories:     r.ActiveCalories,
			BodyBatteryCharged: r.BodyBattery.Charged,
			BodyBatteryDrained: r.BodyBattery.Drained,
		}
		if t, err := time.Parse("2006-01-02", r.Date); err == nil {
			h.Date = t
		}
		summaries = append(summaries, h)
	}
	return summaries, nil
}

func (c *HTTPClient) SleepSessions(ctx context.Context, start, end time.Time) ([]models.SleepSession, error) {
	body, err := c.get(ctx, "/api/sleep", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Date           string   `json:"date"`
		StartTime      *string  `json:"start_time"`
		EndTime        *string  `json:"end_time"`
		TotalSleep     string   `json:"total_sleep"`
		DeepSleep      string   `json:"deep_sleep"`
		LightSleep     string   `json:"light_sleep"`
		REMSleep       string   `json:"rem_sleep"`
		AwakeTime      string   `json:"awake_time"`
		AvgRespiration *float64 `json:"avg_respiration"`
		SleepStress    *float64 `json:"stress_during_sleep"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("httpclient: decode sleep sessions: %w", err)
	}

	parseClock := func(s string) models.Duration {
		d, err := models.ParseClock(s)
		if err != nil {
			return models.Duration{}
		}
		return d
	}
	parseTime := func(s *string) *time.Time {
		if s == nil {
			return nil
		}
		t, err := time.Parse("2006-01-02T15:04:05", *s)
		if err != nil {
			return nil
		}
		return &t
	}

	sessions := make([]models.SleepSession, 0, len(raw))
	for _, r := range raw {
		s := models.SleepSession{
			StartTime:      parseTime(r.StartTime),
			EndTime:        parseTime(r.EndTime),
			TotalSleep:     parseClock(r.TotalSleep),
			DeepSleep:      parseClock(r.DeepSleep),
			LightSleep:     parseClock(r.LightSleep),
			REMSleep:       parseClock(r.REMSleep),
			AwakeTime:      parseClock(r.AwakeTime),
			AvgRespiration: r.AvgRespiration,
			SleepStress:    r.SleepStress,
		}
		if t, err := time.Parse("2006-01-02", r.Date); err == nil {
			s.Date = t
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
