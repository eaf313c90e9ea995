package mapper

import (
	"log/slog"

	"github.com/strideflow/strideflow/internal/convert"
	"github.com/strideflow/strideflow/internal/models"
)

// TrackPoints decodes a GPX document into the activity's ordered track.
// Sequence numbers are assigned 0-based over the surviving points, so the
// stored track is always dense even when the parser skipped samples.
func TrackPoints(activityID string, gpx []byte, log *slog.Logger) []models.TrackPoint {
	var points []models.TrackPoint
	for p := range convert.ParseGPX(gpx, log) {
		lat, lon := p.Lat, p.Lon
		points = append(points, models.TrackPoint{
			ActivityID: activityID,
			Seq:        len(points),
			Timestamp:  p.Time,
			Lat:        &lat,
			Lon:        &lon,
			Altitude:   p.Elevation,
			HeartRate:  p.HeartRate,
			Speed:      p.Speed,
		})
	}
	return points
}
