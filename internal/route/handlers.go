package route

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hongjunna/toporider/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		raw := c.Context().QueryArgs().PeekMulti("point")
		points := make([]geo.Coordinate, 0, len(raw))
		for _, p := range raw {
			coord, err := ParsePoint(string(p))
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			points = append(points, coord)
		}

		resp, err := svc.Route(c.Context(), Request{
			Points:  points,
			Profile: c.Query("profile"),
			Mode:    ParseMode(c.Query("mode", string(ModeDelegated))),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(resp)
	})
}

// ParsePoint parses a "lat,lng" query value.
func ParsePoint(s string) (geo.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("point %q must be lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("point %q: invalid latitude", s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("point %q: invalid longitude", s)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return geo.Coordinate{}, fmt.Errorf("point %q out of range", s)
	}
	return geo.Coordinate{Lat: lat, Lng: lng}, nil
}
