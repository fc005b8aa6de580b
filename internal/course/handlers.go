package course

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hongjunna/toporider/internal/auth"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		course, err := svc.Create(c.Context(), req, auth.UserID(c))
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":    "success",
			"course_id": course.ID,
			"title":     course.Title,
		})
	})

	r.Get("/", func(c *fiber.Ctx) error {
		courses, err := svc.List(c.Context())
		if err != nil {
			return httpError(err)
		}
		return c.JSON(courses)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		course, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(course)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		course, err := svc.Update(c.Context(), c.Params("id"), req)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"status": "success", "course": course})
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := svc.Delete(c.Context(), id); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"status": "success", "deleted_id": id, "message": "Soft deleted"})
	})
}

// Unavailable answers every course request when no database is configured.
func Unavailable(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusServiceUnavailable, "course store unavailable")
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrCourseNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Course not found")
	case errors.Is(err, ErrInvalidCourse):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
