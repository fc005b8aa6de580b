package elevation

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/hongjunna/toporider/internal/shared/geo"

	"golang.org/x/sync/errgroup"
)

const (
	sampleSpacingM = 50.0
	minSteps       = 2
	maxSteps       = 100

	DefaultSampleTimeout = 2 * time.Second
	DefaultConcurrency   = 16
)

// Source looks up the elevation of a single coordinate.
type Source interface {
	Elevation(ctx context.Context, at geo.Coordinate) (float64, error)
}

type Point struct {
	geo.Coordinate
	Elevation float64 `json:"ele"`
}

// Sample is the outcome of one elevation lookup. Err is set when the lookup
// failed; Point.Elevation is then 0.
type Sample struct {
	Point
	Err error
}

type Sampler struct {
	source      Source
	timeout     time.Duration
	concurrency int
}

func NewSampler(source Source, timeout time.Duration, concurrency int) *Sampler {
	if timeout <= 0 {
		timeout = DefaultSampleTimeout
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Sampler{
		source:      source,
		timeout:     timeout,
		concurrency: min(concurrency, maxSteps),
	}
}

// Steps returns the number of intervals a leg of distM meters is cut into.
func Steps(distM float64) int {
	steps := int(math.Round(distM / sampleSpacingM))
	return min(maxSteps, max(minSteps, steps))
}

// Sample returns Steps(distance)+1 points from start to end inclusive, each
// tagged with the elevation reported by the source. A failed lookup only
// zeroes its own point. Lookups run on their own deadlines and are not
// cancelled with ctx.
func (s *Sampler) Sample(ctx context.Context, start, end geo.Coordinate) []Sample {
	steps := Steps(geo.Distance(start, end))
	samples := make([]Sample, steps+1)
	for i := range samples {
		at := geo.Interpolate(start, end, float64(i)/float64(steps))
		if i == steps {
			at = end
		}
		samples[i].Coordinate = at
	}

	base := context.WithoutCancel(ctx)
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range samples {
		i := i
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(base, s.timeout)
			defer cancel()

			ele, err := s.source.Elevation(callCtx, samples[i].Coordinate)
			if err != nil {
				log.Printf("elevation sample %d (%.6f,%.6f) failed: %v", i, samples[i].Lat, samples[i].Lng, err)
				samples[i].Err = err
				return nil
			}
			samples[i].Elevation = ele
			return nil
		})
	}
	_ = g.Wait()

	return samples
}

// Points folds samples into points, defaulting failed lookups to 0.
func Points(samples []Sample) []Point {
	points := make([]Point, len(samples))
	for i, s := range samples {
		points[i] = s.Point
		if s.Err != nil {
			points[i].Elevation = 0
		}
	}
	return points
}

// Elevations extracts the elevation channel of points.
func Elevations(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Elevation
	}
	return out
}
