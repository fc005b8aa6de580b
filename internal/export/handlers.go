package export

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/tcx", func(c *fiber.Ctx) error {
		return render(c, svc.TCX, TCXMediaType, TCXFilename)
	})

	r.Post("/gpx", func(c *fiber.Ctx) error {
		return render(c, svc.GPX, GPXMediaType, GPXFilename)
	})
}

func render(c *fiber.Ctx, build func([]TrackPoint) ([]byte, error), mediaType, filename string) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	data, err := build(req.TrackPoints)
	if errors.Is(err, ErrNoPoints) {
		return c.Status(fiber.StatusBadRequest).SendString("No points provided")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, mediaType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Send(data)
}
