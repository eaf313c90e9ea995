package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://connectapi.garmin.com"
	dateLayout     = "2006-01-02"
)

// Garmin is the HTTP implementation of Client against Garmin Connect.
// A Garmin value holds one authenticated session; it must not be shared
// between concurrently running fetchers.
type Garmin struct {
	baseURL    string
	username   string
	password   string
	token      string
	tokens     *TokenStore
	httpClient *http.Client
	log        *slog.Logger
}

// GarminOption configures a Garmin client.
type GarminOption func(*Garmin)

// WithBaseURL overrides the API base URL (tests).
func WithBaseURL(u string) GarminOption {
	return func(g *Garmin) { g.baseURL = strings.TrimRight(u, "/") }
}

// NewGarmin logs in to Garmin Connect and verifies the session with a
// one-activity probe. A cached token from the store is reused when still
// valid; otherwise credentials are exchanged and the new token saved.
func NewGarmin(ctx context.Context, username, password string, tokens *TokenStore, log *slog.Logger, opts ...GarminOption) (*Garmin, error) {
	g := &Garmin{
		baseURL:  defaultBaseURL,
		username: username,
		password: password,
		tokens:   tokens,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(g)
	}

	if tokens != nil {
		cached, err := tokens.Token(username)
		if err != nil {
			log.Warn("token cache read failed", "error", err)
		}
		g.token = cached
	}

	if g.token == "" {
		if err := g.login(ctx); err != nil {
			return nil, fmt.Errorf("garmin login: %w", err)
		}
	}

	// Probe the session; an expired cached token triggers one re-login.
	if _, err := g.Activities(ctx, 0, 1); err != nil {
		g.token = ""
		if err := g.login(ctx); err != nil {
			return nil, fmt.Errorf("garmin session refresh: %w", err)
		}
		if _, err := g.Activities(ctx, 0, 1); err != nil {
			return nil, fmt.Errorf("garmin session verification: %w", err)
		}
	}

	log.Info("garmin session established", "username", username)
	return g, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (g *Garmin) login(ctx context.Context) error {
	form := url.Values{
		"username":   {g.username},
		"password":   {g.password},
		"grant_type": {"password"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/oauth-service/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("token exchange failed (status %d): %s", resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return fmt.Errorf("token exchange returned no access token")
	}

	g.token = tr.AccessToken
	if g.tokens != nil {
		expiresAt := time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
		if tr.ExpiresIn == 0 {
			expiresAt = time.Now().Add(time.Hour)
		}
		if err := g.tokens.Save(g.username, tr.AccessToken, expiresAt); err != nil {
			g.log.Warn("token cache write failed", "error", err)
		}
	}
	return nil
}

// get performs an authenticated GET and decodes the JSON response into out.
// A 204 leaves out untouched so callers see "no data".
func (g *Garmin) get(ctx context.Context, path string, params url.Values, out any) error {
	u := g.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &CallError{Endpoint: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &CallError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return &CallError{Endpoint: path, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &CallError{Endpoint: path, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func (g *Garmin) Activities(ctx context.Context, start, limit int) ([]ActivityPayload, error) {
	params := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	var activities []ActivityPayload
	if err := g.get(ctx, "/activitylist-service/activities/search/activities", params, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (g *Garmin) ActivityTrack(ctx context.Context, activityID string) ([]byte, error) {
	path := "/download-service/export/gpx/activity/" + activityID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, &CallError{Endpoint: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &CallError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNotFound, http.StatusNoContent:
		return nil, nil // activity without a track
	default:
		return nil, &CallError{Endpoint: path, Status: resp.StatusCode}
	}
}

func (g *Garmin) DailySummary(ctx context.Context, date time.Time) (*SummaryPayload, error) {
	var summary SummaryPayload
	path := "/usersummary-service/usersummary/daily"
	params := url.Values{"calendarDate": {date.Format(dateLayout)}}
	if err := g.get(ctx, path, params, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (g *Garmin) HeartRates(ctx context.Context, date time.Time) (*HeartRatePayload, error) {
	var hr HeartRatePayload
	path := "/wellness-service/wellness/dailyHeartRate"
	params := url.Values{"date": {date.Format(dateLayout)}}
	if err := g.get(ctx, path, params, &hr); err != nil {
		return nil, err
	}
	return &hr, nil
}

func (g *Garmin) RestingHeartRates(ctx context.Context, date time.Time) ([]RestingHeartRate, error) {
	// The endpoint wraps the series in allMetrics.metricsMap.WELLNESS_RESTING_HEART_RATE.
	var body struct {
		AllMetrics struct {
			MetricsMap struct {
				RestingHeartRate []RestingHeartRate `json:"WELLNESS_RESTING_HEART_RATE"`
			} `json:"metricsMap"`
		} `json:"allMetrics"`
	}
	path := "/userstats-service/wellness/daily/" + g.username
	params := url.Values{
		"fromDate":            {date.Format(dateLayout)},
		"untilDate":           {date.Format(dateLayout)},
		"metricId":            {strconv.Itoa(RestingHeartRateMetricID)},
		"grpParentActivities": {"false"},
	}
	if err := g.get(ctx, path, params, &body); err != nil {
		return nil, err
	}
	series := body.AllMetrics.MetricsMap.RestingHeartRate
	for i := range series {
		series[i].MetricID = RestingHeartRateMetricID
	}
	return series, nil
}

func (g *Garmin) IntensityMinutes(ctx context.Context, date time.Time) (*IntensityPayload, error) {
	var im IntensityPayload
	path := "/wellness-service/wellness/daily/im/" + date.Format(dateLayout)
	if err := g.get(ctx, path, nil, &im); err != nil {
		return nil, err
	}
	return &im, nil
}

func (g *Garmin) DailyStats(ctx context.Context, date time.Time) (*StatsPayload, error) {
	var stats StatsPayload
	path := "/usersummary-service/stats/daily/" + date.Format(dateLayout) + "/" + date.Format(dateLayout)
	if err := g.get(ctx, path, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (g *Garmin) SleepData(ctx context.Context, date time.Time) (*SleepPayload, error) {
	var sleep SleepPayload
	path := "/wellness-service/wellness/dailySleepData/" + g.username
	params := url.Values{"date": {date.Format(dateLayout)}}
	if err := g.get(ctx, path, params, &sleep); err != nil {
		return nil, err
	}
	return &sleep, nil
}

// Compile-time check: Garmin satisfies Client.
var _ Client = (*Garmin)(nil)
