package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/strideflow/strideflow/internal/models"
)

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimestampRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	activities, err := s.db.Activities(r.Context(), start, end)
	if err != nil {
		s.log.Error("activities query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) handleMaxValues(w http.ResponseWriter, r *http.Request) {
	mv, err := s.db.MaxValues(r.Context())
	if err != nil {
		s.log.Error("max values query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, mv)
}

func (s *Server) handleActivityGPS(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "id")

	points, err := s.db.ActivityGPS(r.Context(), activityID)
	if err != nil {
		s.log.Error("track query failed", "activity_id", activityID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	// The map view only needs coordinates. An activity without a stored
	// track serves an empty list, not an error.
	type coord struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	}
	coords := make([]coord, len(points))
	for i, p := range points {
		coords[i] = coord{Lat: p.Lat, Lon: p.Lon}
	}
	writeJSON(w, http.StatusOK, coords)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	summaries, err := s.db.HealthSummaries(r.Context(), start, end)
	if err != nil {
		s.log.Error("health query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if summaries == nil {
		summaries = []models.HealthSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleSleep(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.db.SleepSessions(r.Context(), start, end)
	if err != nil {
		s.log.Error("sleep query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []models.SleepSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.syncer == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "sync not configured"})
		return
	}
	if !s.syncMu.TryLock() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "sync already running"})
		return
	}
	defer s.syncMu.Unlock()

	res, err := s.syncer.SyncAll(r.Context())
	if err != nil {
		s.log.Error("sync failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"activities_new":     res.ActivitiesNew,
		"activities_skipped": res.ActivitiesSkipped,
		"activities_failed":  res.ActivitiesFailed,
		"health_days":        res.HealthDays,
		"sleep_days":         res.SleepDays,
		"days_failed":        res.DaysFailed,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseTimeRange reads the optional start/end query params. Defaults: end is
// now, start is 30 days before end. Either may be given on its own.
func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	if endStr := r.URL.Query().Get("end"); endStr != "" {
		end, err = parseDateOrTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr := r.URL.Query().Get("start"); startStr != "" {
		start, err = parseDateOrTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}
	return start, end, nil
}

// parseTimestampRange is parseTimeRange for timestamp columns queried with an
// exclusive upper bound: a date-only end means "through that day", so it is
// widened to the next midnight. Date columns compare inclusively and must not
// get the extra day.
func parseTimestampRange(r *http.Request) (start, end time.Time, err error) {
	start, end, err = parseTimeRange(r)
	if err == nil && len(r.URL.Query().Get("end")) == len("2006-01-02") {
		end = end.Add(24 * time.Hour)
	}
	return start, end, err
}

func parseDateOrTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
