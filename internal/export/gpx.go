package export

import (
	"fmt"
	"io"

	"github.com/tkrajina/gpxgo/gpx"
)

const (
	GPXMediaType = "application/gpx+xml"
	GPXFilename  = "toporider_course.gpx"
)

func (c Course) gpx() *gpx.GPX {
	segment := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, len(c.Trackpoints))}
	for i, tp := range c.Trackpoints {
		segment.Points[i] = gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  tp.Position.Lat,
				Longitude: tp.Position.Lng,
				Elevation: *gpx.NewNullableFloat64(tp.AltitudeMeters),
			},
			Timestamp: tp.Time,
		}
	}

	doc := &gpx.GPX{
		Version: "1.1",
		Creator: "TopoRider",
		Name:    c.Name,
	}
	doc.Tracks = append(doc.Tracks, gpx.GPXTrack{
		Name:     c.Name,
		Segments: []gpx.GPXTrackSegment{segment},
	})
	return doc
}

// WriteGPX writes the course as a GPX 1.1 track with the same timing as the TCX export.
func (c Course) WriteGPX(w io.Writer) error {
	data, err := c.gpx().ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("failed to encode GPX: %w", err)
	}
	_, err = w.Write(data)
	return err
}
