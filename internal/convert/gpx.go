package convert

import (
	"encoding/xml"
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Point is one parsed GPX track sample. Latitude, longitude and time are
// required; the sensor fields are nil when the extension block omits them.
type Point struct {
	Lat       float64
	Lon       float64
	Time      time.Time
	Elevation *float64
	HeartRate *int
	Speed     *float64
}

type gpxDoc struct {
	TrackPoints []gpxTrkpt `xml:"trk>trkseg>trkpt"`
}

type gpxTrkpt struct {
	Lat        string        `xml:"lat,attr"`
	Lon        string        `xml:"lon,attr"`
	Time       string        `xml:"time"`
	Elevation  string        `xml:"ele"`
	Extensions gpxExtensions `xml:"extensions"`
}

// Garmin nests hr/speed under a TrackPointExtension element in a vendor
// namespace; unqualified tags match the local names regardless of namespace.
type gpxExtensions struct {
	HeartRate string `xml:"TrackPointExtension>hr"`
	Speed     string `xml:"TrackPointExtension>speed"`
}

// ParseGPX decodes a GPX document into a finite, restartable sequence of
// track points. A malformed document yields an empty sequence and a
// malformed individual point is skipped; both are logged, neither fails the
// caller.
func ParseGPX(data []byte, log *slog.Logger) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if len(data) == 0 {
			log.Warn("empty GPX document")
			return
		}

		var doc gpxDoc
		if err := xml.Unmarshal(data, &doc); err != nil {
			log.Error("parsing GPX document", "error", err)
			return
		}

		for i, tp := range doc.TrackPoints {
			p, ok := parseTrkpt(tp)
			if !ok {
				log.Warn("skipping malformed track point", "index", i)
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

func parseTrkpt(tp gpxTrkpt) (Point, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(tp.Lat), 64)
	if err != nil {
		return Point{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(tp.Lon), 64)
	if err != nil {
		return Point{}, false
	}
	ts, ok := ParseTimestamp(tp.Time)
	if !ok {
		return Point{}, false
	}

	return Point{
		Lat:       lat,
		Lon:       lon,
		Time:      ts,
		Elevation: safeFloat(tp.Elevation),
		HeartRate: safeInt(tp.Extensions.HeartRate),
		Speed:     safeFloat(tp.Extensions.Speed),
	}, true
}

func safeFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func safeInt(s string) *int {
	f := safeFloat(s)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}
