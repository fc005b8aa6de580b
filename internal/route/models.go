package route

import (
	"github.com/hongjunna/toporider/internal/graphhopper"
	"github.com/hongjunna/toporider/internal/shared/geo"
)

type Mode string

const (
	ModeDelegated Mode = "turn-by-turn"
	ModeStraight  Mode = "straight"
)

// ParseMode maps the mode query value to a Mode; anything other than
// "straight" is delegated to the routing engine.
func ParseMode(s string) Mode {
	if Mode(s) == ModeStraight {
		return ModeStraight
	}
	return ModeDelegated
}

type Request struct {
	Points  []geo.Coordinate
	Profile string
	Mode    Mode
}

// Response is the envelope both modes answer with. It keeps the routing
// engine's wire shape so clients can't tell which mode produced a path.
type Response = graphhopper.RouteResponse

type Path = graphhopper.Path

func errorResponse(message string) Response {
	return Response{
		Info:  graphhopper.Info{Errors: []graphhopper.Message{{Message: message}}},
		Paths: []Path{},
	}
}
