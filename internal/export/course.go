package export

import (
	"errors"
	"math"
	"time"

	"github.com/hongjunna/toporider/internal/shared/geo"
)

const (
	CourseName = "TopoRider Course"

	// AverageSpeedMps is the constant travel speed used to synthesize timestamps.
	AverageSpeedMps = 5.5
	minStepMeters   = 1.0
)

var ErrNoPoints = errors.New("no points provided")

// BuildCourse turns an ordered point sequence into a timed course starting at
// start. Points closer than a meter to the last emitted point are dropped.
func BuildCourse(points []TrackPoint, start time.Time) (Course, error) {
	if len(points) == 0 {
		return Course{}, ErrNoPoints
	}

	clock := start.UTC().Truncate(time.Second)
	prev := points[0]
	course := Course{
		Name:  CourseName,
		Begin: prev.coordinate(),
		Trackpoints: []Trackpoint{{
			Time:           clock,
			Position:       prev.coordinate(),
			AltitudeMeters: prev.Ele,
		}},
	}

	total := 0.0
	for _, curr := range points[1:] {
		d := geo.Distance(prev.coordinate(), curr.coordinate())
		if d < minStepMeters {
			continue
		}
		total += d
		step := math.Max(1, math.Round(d/AverageSpeedMps))
		clock = clock.Add(time.Duration(step) * time.Second)

		course.Trackpoints = append(course.Trackpoints, Trackpoint{
			Time:           clock,
			Position:       curr.coordinate(),
			AltitudeMeters: curr.Ele,
			DistanceMeters: total,
		})
		prev = curr
	}

	course.End = prev.coordinate()
	course.DistanceMeters = total
	course.TotalTimeSeconds = total / AverageSpeedMps
	return course, nil
}
