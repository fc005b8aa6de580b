package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hongjunna/toporider/internal/elevation"
	"github.com/hongjunna/toporider/internal/graphhopper"
	"github.com/hongjunna/toporider/internal/shared/geo"
)

const (
	DefaultRouteTimeout = 30 * time.Second
	upstreamErrorText   = "GraphHopper Error"
)

// Strategy produces a route for one request. Failures are reported inside
// the Response rather than as an error.
type Strategy interface {
	Route(ctx context.Context, req Request) Response
}

// Engine is the part of the routing engine client used by Delegated.
type Engine interface {
	Route(ctx context.Context, q graphhopper.RouteQuery) (graphhopper.RouteResponse, error)
}

// Straight builds a two-point straight line and tags it with sampled,
// smoothed elevation.
type Straight struct {
	sampler    *elevation.Sampler
	window     int
	iterations int
}

func NewStraight(sampler *elevation.Sampler, window, iterations int) *Straight {
	return &Straight{sampler: sampler, window: window, iterations: iterations}
}

func (s *Straight) Route(ctx context.Context, req Request) Response {
	if len(req.Points) < 2 {
		return errorResponse("straight mode needs a start and an end point")
	}
	start, end := req.Points[0], req.Points[1]

	points := elevation.Points(s.sampler.Sample(ctx, start, end))
	smoothed := elevation.Smooth(elevation.Elevations(points), s.window, s.iterations)

	coords := make([][]float64, len(points))
	decoded := make([][3]float64, len(points))
	for i := range points {
		points[i].Elevation = smoothed[i]
		p := points[i]
		coords[i] = []float64{p.Lng, p.Lat, p.Elevation}
		decoded[i] = [3]float64{p.Lat, p.Lng, p.Elevation}
	}

	snapped := graphhopper.NewLineString([][]float64{
		{start.Lng, start.Lat, points[0].Elevation},
		{end.Lng, end.Lat, points[len(points)-1].Elevation},
	})

	return Response{
		Hints: json.RawMessage("{}"),
		Info:  graphhopper.Info{Copyrights: []string{"GraphHopper"}},
		Paths: []Path{{
			Distance:         geo.Distance(start, end),
			Points:           graphhopper.NewLineString(coords),
			DecodedPoints:    decoded,
			Instructions:     json.RawMessage("[]"),
			SnappedWaypoints: &snapped,
		}},
	}
}

// Delegated forwards the waypoints to the routing engine and smooths the
// elevation of every decodable path it returns.
type Delegated struct {
	engine         Engine
	timeout        time.Duration
	window         int
	iterations     int
	defaultProfile string
}

func NewDelegated(engine Engine, timeout time.Duration, window, iterations int, defaultProfile string) *Delegated {
	if timeout <= 0 {
		timeout = DefaultRouteTimeout
	}
	if defaultProfile == "" {
		defaultProfile = "bike"
	}
	return &Delegated{
		engine:         engine,
		timeout:        timeout,
		window:         window,
		iterations:     iterations,
		defaultProfile: defaultProfile,
	}
}

func (d *Delegated) Route(ctx context.Context, req Request) Response {
	profile := req.Profile
	if profile == "" {
		profile = d.defaultProfile
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	resp, err := d.engine.Route(callCtx, graphhopper.RouteQuery{
		Points:    req.Points,
		Profile:   profile,
		Elevation: true,
	})
	var statusErr *graphhopper.StatusError
	if errors.As(err, &statusErr) {
		log.Printf("routing engine answered %d for %d points", statusErr.StatusCode, len(req.Points))
		return errorResponse(upstreamErrorText)
	}
	if err != nil {
		log.Printf("routing engine call failed: %v", err)
		return errorResponse(err.Error())
	}

	if resp.Paths == nil {
		resp.Paths = []Path{}
	}
	for i := range resp.Paths {
		if err := d.decode(&resp.Paths[i]); err != nil {
			log.Printf("routing engine path %d: %v", i, err)
			return errorResponse(err.Error())
		}
	}
	return resp
}

// decode attaches [lat, lng, ele] points with smoothed elevation. Encoded
// geometry is left untouched with an empty point list.
func (d *Delegated) decode(path *Path) error {
	if path.Points.Line == nil {
		path.DecodedPoints = [][3]float64{}
		return nil
	}

	coords := path.Points.Line.Coordinates
	raw := make([]float64, len(coords))
	for i, c := range coords {
		if len(c) < 2 {
			return fmt.Errorf("coordinate %d has %d values", i, len(c))
		}
		if len(c) > 2 {
			raw[i] = c[2]
		}
	}

	smoothed := elevation.Smooth(raw, d.window, d.iterations)
	path.DecodedPoints = make([][3]float64, len(coords))
	for i, c := range coords {
		path.DecodedPoints[i] = [3]float64{c[1], c[0], smoothed[i]}
	}
	return nil
}
