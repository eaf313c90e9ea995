// Package server is the HTTP read API plus the sync trigger endpoint.
package server

import (
	"context"
	"log/slog"
	"net/http"
	gosync "sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/strideflow/strideflow/internal/models"
	"github.com/strideflow/strideflow/internal/storage"
	"github.com/strideflow/strideflow/internal/sync"
)

// Queries is the read surface the handlers serve from.
type Queries interface {
	Activities(ctx context.Context, start, end time.Time) ([]models.Activity, error)
	ActivityGPS(ctx context.Context, activityID string) ([]models.TrackPoint, error)
	MaxValues(ctx context.Context) (models.MaxValues, error)
	HealthSummaries(ctx context.Context, start, end time.Time) ([]models.HealthSummary, error)
	SleepSessions(ctx context.Context, start, end time.Time) ([]models.SleepSession, error)
}

var _ Queries = (*storage.DB)(nil)

// SyncRunner runs one full sync. Nil when the server has no provider
// credentials; the sync endpoint then reports 503.
type SyncRunner interface {
	SyncAll(ctx context.Context) (sync.Result, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     Queries
	syncer SyncRunner
	log    *slog.Logger
	apiKey string
	router chi.Router

	// syncMu rejects overlapping sync runs; the provider session is not
	// safe for concurrent use.
	syncMu gosync.Mutex
}

// New creates a Server with all routes configured.
func New(db Queries, syncer SyncRunner, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		syncer: syncer,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/activities", s.handleActivities)
	s.router.Get("/api/activities/max_values", s.handleMaxValues)
	s.router.Get("/api/activities/{id}/gps", s.handleActivityGPS)
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/sleep", s.handleSleep)

	// The sync trigger mutates the store, so it requires the API key.
	s.router.Route("/api/activities/sync", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleSync)
	})
}
