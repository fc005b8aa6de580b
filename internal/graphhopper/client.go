package graphhopper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hongjunna/toporider/internal/shared/geo"
)

// ErrNoElevation is returned when a route response carries no elevation for the queried point.
var ErrNoElevation = errors.New("graphhopper: no elevation in response")

// StatusError is returned for any non-200 answer from the routing engine.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graphhopper: unexpected status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL       string
	sampleProfile string
	http          *http.Client
}

// NewClient returns a client for the engine at baseURL. sampleProfile is the
// vehicle profile used for single-point elevation lookups.
func NewClient(baseURL, sampleProfile string) *Client {
	if sampleProfile == "" {
		sampleProfile = "foot"
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		sampleProfile: sampleProfile,
		http:          &http.Client{},
	}
}

type RouteQuery struct {
	Points        []geo.Coordinate
	Profile       string
	Elevation     bool
	PointsEncoded bool
}

func (q RouteQuery) values() url.Values {
	v := url.Values{}
	for _, p := range q.Points {
		v.Add("point", FormatPoint(p))
	}
	v.Set("type", "json")
	v.Set("profile", q.Profile)
	v.Set("elevation", strconv.FormatBool(q.Elevation))
	v.Set("points_encoded", strconv.FormatBool(q.PointsEncoded))
	return v
}

// FormatPoint renders a coordinate the way the point query parameter expects: "lat,lng".
func FormatPoint(c geo.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// Route issues GET /route. Deadlines come from ctx.
func (c *Client) Route(ctx context.Context, q RouteQuery) (RouteResponse, error) {
	reqURL := c.baseURL + "/route?" + q.values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return RouteResponse{}, fmt.Errorf("graphhopper: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return RouteResponse{}, fmt.Errorf("graphhopper: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RouteResponse{}, fmt.Errorf("graphhopper: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return RouteResponse{}, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out RouteResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return RouteResponse{}, fmt.Errorf("graphhopper: parse response: %w", err)
	}
	return out, nil
}

// Elevation asks for a degenerate same-point route and returns the elevation
// of its first coordinate.
func (c *Client) Elevation(ctx context.Context, at geo.Coordinate) (float64, error) {
	resp, err := c.Route(ctx, RouteQuery{
		Points:    []geo.Coordinate{at, at},
		Profile:   c.sampleProfile,
		Elevation: true,
	})
	if err != nil {
		return 0, err
	}
	if len(resp.Paths) == 0 {
		return 0, ErrNoElevation
	}
	line := resp.Paths[0].Points.Line
	if line == nil || len(line.Coordinates) == 0 || len(line.Coordinates[0]) < 3 {
		return 0, ErrNoElevation
	}
	return line.Coordinates[0][2], nil
}
