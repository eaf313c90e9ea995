package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/strideflow/strideflow/internal/models"
	syncpkg "github.com/strideflow/strideflow/internal/sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeQueries serves canned records and remembers the last range asked for.
type fakeQueries struct {
	activities []models.Activity
	points     []models.TrackPoint
	health     []models.HealthSummary
	sleep      []models.SleepSession
	maxValues  models.MaxValues
	err        error

	gotStart, gotEnd time.Time
}

func (f *fakeQueries) Activities(_ context.Context, start, end time.Time) ([]models.Activity, error) {
	f.gotStart, f.gotEnd = start, end
	return f.activities, f.err
}

func (f *fakeQueries) ActivityGPS(_ context.Context, _ string) ([]models.TrackPoint, error) {
	return f.points, f.err
}

func (f *fakeQueries) MaxValues(_ context.Context) (models.MaxValues, error) {
	return f.maxValues, f.err
}

func (f *fakeQueries) HealthSummaries(_ context.Context, start, end time.Time) ([]models.HealthSummary, error) {
	f.gotStart, f.gotEnd = start, end
	return f.health, f.err
}

func (f *fakeQueries) SleepSessions(_ context.Context, start, end time.Time) ([]models.SleepSession, error) {
	f.gotStart, f.gotEnd = start, end
	return f.sleep, f.err
}

type fakeSyncer struct {
	res     syncpkg.Result
	err     error
	block   chan struct{} // when set, SyncAll waits until closed
	started chan struct{}
}

func (f *fakeSyncer) SyncAll(context.Context) (syncpkg.Result, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.res, f.err
}

func newTestServer(db Queries, syncer SyncRunner) *Server {
	return New(db, syncer, "secret", testLogger())
}

func TestHandleActivities(t *testing.T) {
	db := &fakeQueries{activities: []models.Activity{{
		ActivityID:  "19001",
		Sport:       "running",
		StartTime:   time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC),
		Distance:    10.51,
		ElapsedTime: models.DurationFromSeconds(3125),
	}}}
	s := newTestServer(db, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/activities", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0]["activity_id"] != "19001" {
		t.Errorf("activity_id = %v", got[0]["activity_id"])
	}
	if got[0]["elapsed_time"] != "00:52:05" {
		t.Errorf("elapsed_time = %v, want 00:52:05", got[0]["elapsed_time"])
	}
	if got[0]["start_time"] != "2026-03-14T07:30:00" {
		t.Errorf("start_time = %v", got[0]["start_time"])
	}
}

func TestHandleActivitiesEmpty(t *testing.T) {
	s := newTestServer(&fakeQueries{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/activities", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

func TestHandleActivitiesBadRange(t *testing.T) {
	s := newTestServer(&fakeQueries{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/activities?start=tomorrow", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleActivityGPS(t *testing.T) {
	lat, lon := 53.5511, 9.9937
	db := &fakeQueries{points: []models.TrackPoint{
		{ActivityID: "19001", Seq: 0, Lat: &lat, Lon: &lon},
	}}
	s := newTestServer(db, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/activities/19001/gps", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var coords []map[string]float64
	if err := json.NewDecoder(rec.Body).Decode(&coords); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(coords) != 1 || coords[0]["lat"] != 53.5511 {
		t.Errorf("coords = %v", coords)
	}
}

// An activity without a stored track is an empty list, not an error.
func TestHandleActivityGPSEmptyTrack(t *testing.T) {
	s := newTestServer(&fakeQueries{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/activities/999/gps", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

// An end-only query bounds the range; it must not fall back to the default
// window ending today.
func TestHandleHealthEndOnlyRange(t *testing.T) {
	db := &fakeQueries{}
	s := newTestServer(db, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health?end=2020-01-01", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	wantEnd := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if !db.gotEnd.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", db.gotEnd, wantEnd)
	}
	if wantStart := wantEnd.AddDate(0, 0, -30); !db.gotStart.Equal(wantStart) {
		t.Errorf("start = %v, want %v", db.gotStart, wantStart)
	}
}

// A date-only end stays as-is for the inclusive date columns and is widened
// by a day only for the timestamp-filtered activities query.
func TestHandleRangeDateOnlyEnd(t *testing.T) {
	db := &fakeQueries{}
	s := newTestServer(db, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/sleep?start=2026-03-01&end=2026-03-14", nil)
	s.ServeHTTP(httptest.NewRecorder(), req)
	if want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC); !db.gotEnd.Equal(want) {
		t.Errorf("sleep end = %v, want %v", db.gotEnd, want)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/activities?start=2026-03-01&end=2026-03-14", nil)
	s.ServeHTTP(httptest.NewRecorder(), req)
	if want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC); !db.gotEnd.Equal(want) {
		t.Errorf("activities end = %v, want %v", db.gotEnd, want)
	}
}

func TestHandleMaxValues(t *testing.T) {
	db := &fakeQueries{maxValues: models.MaxValues{Distance: 42.2, Duration: 14400, Calories: 2900}}
	s := newTestServer(db, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/activities/max_values", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got map[string]float64
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got["Distance"] != 42.2 {
		t.Errorf("Distance = %v, want 42.2", got["Distance"])
	}
	if got["Duration"] != 14400 {
		t.Errorf("Duration = %v, want 14400", got["Duration"])
	}
}

func TestHandleQueryError(t *testing.T) {
	s := newTestServer(&fakeQueries{err: errors.New("db down")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandleSyncAuth(t *testing.T) {
	s := newTestServer(&fakeQueries{}, &fakeSyncer{})

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusForbidden},
		{"valid key", "secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/activities/sync", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestHandleSyncNotConfigured(t *testing.T) {
	s := newTestServer(&fakeQueries{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/activities/sync", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleSyncRejectsConcurrentRuns(t *testing.T) {
	syncer := &fakeSyncer{
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	s := newTestServer(&fakeQueries{}, syncer)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		req := httptest.NewRequest(http.MethodPost, "/api/activities/sync", nil)
		req.Header.Set("X-API-Key", "secret")
		s.ServeHTTP(httptest.NewRecorder(), req)
	}()

	<-syncer.started

	req := httptest.NewRequest(http.MethodPost, "/api/activities/sync", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("second sync status = %d, want 409", rec.Code)
	}

	close(syncer.block)
	wg.Wait()
}

func TestHandleSyncReportsCounts(t *testing.T) {
	syncer := &fakeSyncer{res: syncpkg.Result{ActivitiesNew: 3, HealthDays: 5}}
	s := newTestServer(&fakeQueries{}, syncer)

	req := httptest.NewRequest(http.MethodPost, "/api/activities/sync", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got["activities_new"] != 3 || got["health_days"] != 5 {
		t.Errorf("body = %v", got)
	}
}
