package graphhopper

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
)

// RouteResponse mirrors the JSON body of GraphHopper's GET /route. Values
// decoded from JSON re-encode with the fields they arrived with, including
// ones the struct does not model.
type RouteResponse struct {
	Hints json.RawMessage `json:"hints,omitempty"`
	Info  Info            `json:"info"`
	Paths []Path          `json:"paths"`

	raw map[string]json.RawMessage
}

type routeResponse RouteResponse

func (r RouteResponse) MarshalJSON() ([]byte, error) {
	return mergeObject(routeResponse(r), r.raw, "paths")
}

func (r *RouteResponse) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*routeResponse)(r)); err != nil {
		return err
	}
	r.raw = nil
	return json.Unmarshal(data, &r.raw)
}

type Info struct {
	Copyrights        []string  `json:"copyrights,omitempty"`
	Took              int64     `json:"took,omitempty"`
	RoadDataTimestamp string    `json:"road_data_timestamp,omitempty"`
	Errors            []Message `json:"errors,omitempty"`

	raw map[string]json.RawMessage
}

type info Info

func (i Info) MarshalJSON() ([]byte, error) {
	return mergeObject(info(i), i.raw)
}

func (i *Info) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*info)(i)); err != nil {
		return err
	}
	i.raw = nil
	return json.Unmarshal(data, &i.raw)
}

type Message struct {
	Message string `json:"message"`
}

type Path struct {
	Distance         float64         `json:"distance"`
	Weight           float64         `json:"weight"`
	Time             int64           `json:"time"`
	Transfers        int             `json:"transfers"`
	PointsEncoded    bool            `json:"points_encoded"`
	BBox             []float64       `json:"bbox,omitempty"`
	Points           Points          `json:"points"`
	DecodedPoints    [][3]float64    `json:"decoded_points"`
	Instructions     json.RawMessage `json:"instructions"`
	Legs             json.RawMessage `json:"legs,omitempty"`
	Details          json.RawMessage `json:"details,omitempty"`
	Ascend           float64         `json:"ascend"`
	Descend          float64         `json:"descend"`
	SnappedWaypoints *Points         `json:"snapped_waypoints,omitempty"`

	raw map[string]json.RawMessage
}

type path Path

// MarshalJSON always writes decoded_points, which this service adds.
func (p Path) MarshalJSON() ([]byte, error) {
	return mergeObject(path(p), p.raw, "decoded_points")
}

func (p *Path) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*path)(p)); err != nil {
		return err
	}
	p.raw = nil
	return json.Unmarshal(data, &p.raw)
}

// LineString is a GeoJSON line whose coordinates are [lng, lat, ele] triples.
type LineString struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// Points holds either a GeoJSON LineString or an opaque encoded polyline,
// depending on the points_encoded flag the request was made with.
type Points struct {
	Line    *LineString
	Encoded string
}

// IsEncoded reports whether the geometry arrived as an encoded string.
func (p Points) IsEncoded() bool {
	return p.Line == nil && p.Encoded != ""
}

func (p Points) MarshalJSON() ([]byte, error) {
	if p.Line != nil {
		return json.Marshal(p.Line)
	}
	return json.Marshal(p.Encoded)
}

func (p *Points) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Points{}
		return nil
	}
	switch data[0] {
	case '"':
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		*p = Points{Encoded: encoded}
		return nil
	case '{':
		var line LineString
		if err := json.Unmarshal(data, &line); err != nil {
			return err
		}
		*p = Points{Line: &line}
		return nil
	}
	return errors.New("points: expected object or string")
}

// NewLineString builds a LineString geometry from [lng, lat, ele] triples.
func NewLineString(coords [][]float64) Points {
	return Points{Line: &LineString{Type: "LineString", Coordinates: coords}}
}

// mergeObject encodes v as a JSON object shaped like raw, the object v was
// decoded from: modelled fields absent from raw are dropped unless listed in
// keep, and fields only raw knows are copied through. A nil raw leaves the
// encoding of v as is.
func mergeObject(v any, raw map[string]json.RawMessage, keep ...string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || raw == nil {
		return data, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for k := range out {
		if _, ok := raw[k]; !ok && !slices.Contains(keep, k) {
			delete(out, k)
		}
	}
	for k, v := range raw {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return json.Marshal(out)
}
