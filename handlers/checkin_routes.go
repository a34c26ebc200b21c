// handlers/checkin_routes.go
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fitclub-backend/middleware"
	"fitclub-backend/services"
)

func SetupCheckInRoutes(app *fiber.App, checkinService *services.CheckInService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Post("/checkin", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		session, err := checkinService.CheckIn(c.Context(), userID)
		if errors.Is(err, services.ErrAlreadyCheckedIn) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "ALREADY_CHECKED_IN",
				"cause": "you already have an active gym session",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "check-in failed",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	secured.Post("/checkout", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		session, err := checkinService.CheckOut(c.Context(), userID)
		if errors.Is(err, services.ErrNoActiveCheckIn) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "NO_ACTIVE_CHECKIN",
				"cause": "there is no active gym session to close",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "check-out failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"session":          session,
			"duration_minutes": session.DurationMinutes(*session.CheckOutTime),
		})
	})

	secured.Get("/checkin/status", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		status, err := checkinService.GetStatus(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get check-in status",
				"cause": err.Error(),
			})
		}
		return c.JSON(status)
	})

	secured.Get("/checkin/workout-days", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		days, err := checkinService.GetWorkoutDaysThisMonth(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to count workout days",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"workout_days_this_month": days})
	})
}
