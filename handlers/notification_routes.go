// handlers/notification_routes.go
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"fitclub-backend/middleware"
	"fitclub-backend/services"
)

func SetupNotificationRoutes(app *fiber.App, notifications *services.NotificationService) {
	secured := app.Group("/s/notifications", middleware.UserContextMiddleware())

	secured.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		unreadOnly := c.Query("unread") == "true"

		list, err := notifications.List(c.Context(), userID, unreadOnly)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list notifications",
				"cause": err.Error(),
			})
		}
		return c.JSON(list)
	})

	secured.Post("/:id/read", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		err := notifications.MarkRead(c.Context(), userID, c.Params("id"))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "notification not found",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to mark notification read",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "notification marked read"})
	})
}
