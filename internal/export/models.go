package export

import (
	"time"

	"github.com/hongjunna/toporider/internal/shared/geo"
)

type TrackPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	Ele float64 `json:"ele"`
}

func (p TrackPoint) coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: p.Lat, Lng: p.Lng}
}

type Request struct {
	TrackPoints []TrackPoint `json:"trackPoints"`
}

// Course is a named course with synthesized timing. It is built once per
// export and only serialized afterwards.
type Course struct {
	Name             string
	TotalTimeSeconds float64
	DistanceMeters   float64
	Begin            geo.Coordinate
	End              geo.Coordinate
	Trackpoints      []Trackpoint
}

type Trackpoint struct {
	Time           time.Time
	Position       geo.Coordinate
	AltitudeMeters float64
	DistanceMeters float64
}
