package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newGarminServer serves a token endpoint plus the given handlers, so client
// construction (login + session probe) succeeds.
func newGarminServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/oauth-service/token":
			json.NewEncoder(w).Encode(tokenResponse{AccessToken: "test-token", ExpiresIn: 3600})
		case r.URL.Path == "/activitylist-service/activities/search/activities":
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("Authorization = %q", got)
			}
			if h, ok := handlers[r.URL.Path]; ok {
				h(w, r)
				return
			}
			json.NewEncoder(w).Encode([]ActivityPayload{})
		default:
			h, ok := handlers[r.URL.Path]
			if !ok {
				t.Errorf("unexpected request path: %s", r.URL.Path)
				http.NotFound(w, r)
				return
			}
			h(w, r)
		}
	}))
}

func TestGarminLoginAndProbe(t *testing.T) {
	ts := newGarminServer(t, nil)
	defer ts.Close()

	g, err := NewGarmin(context.Background(), "user@example.com", "pw", nil, testLogger(), WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("NewGarmin error: %v", err)
	}
	if g.token != "test-token" {
		t.Errorf("token = %q, want test-token", g.token)
	}
}

func TestGarminTokenCacheReuse(t *testing.T) {
	store, err := OpenTokenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenTokenStore error: %v", err)
	}
	defer store.Close()

	logins := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth-service/token" {
			logins++
			json.NewEncoder(w).Encode(tokenResponse{AccessToken: "fresh", ExpiresIn: 3600})
			return
		}
		json.NewEncoder(w).Encode([]ActivityPayload{})
	}))
	defer ts.Close()

	ctx := context.Background()
	if _, err := NewGarmin(ctx, "u", "p", store, testLogger(), WithBaseURL(ts.URL)); err != nil {
		t.Fatalf("first NewGarmin error: %v", err)
	}
	if _, err := NewGarmin(ctx, "u", "p", store, testLogger(), WithBaseURL(ts.URL)); err != nil {
		t.Fatalf("second NewGarmin error: %v", err)
	}
	if logins != 1 {
		t.Errorf("logins = %d, want 1 (second client should reuse cached token)", logins)
	}
}

// TestGarminCallError verifies non-2xx responses surface as *CallError and
// that a missing track is "no data", not an error.
func TestGarminCallError(t *testing.T) {
	ts := newGarminServer(t, map[string]http.HandlerFunc{
		"/wellness-service/wellness/dailyHeartRate": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		},
		"/download-service/export/gpx/activity/42": func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		},
	})
	defer ts.Close()

	ctx := context.Background()
	g, err := NewGarmin(ctx, "u", "p", nil, testLogger(), WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("NewGarmin error: %v", err)
	}

	_, err = g.HeartRates(ctx, time.Now())
	var ce *CallError
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if !errors.As(err, &ce) || ce.Status != http.StatusBadGateway {
		t.Errorf("err = %v, want *CallError with status 502", err)
	}

	track, err := g.ActivityTrack(ctx, "42")
	if err != nil {
		t.Errorf("ActivityTrack on 404 should not error, got %v", err)
	}
	if track != nil {
		t.Errorf("track = %q, want nil", track)
	}
}
