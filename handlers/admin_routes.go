// handlers/admin_routes.go
package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"fitclub-backend/middleware"
	"fitclub-backend/models"
	"fitclub-backend/services"
	"fitclub-backend/utils"
)

var validate = validator.New()

func SetupAdminRoutes(app *fiber.App, gamification *services.GamificationService, achievements *services.AchievementService) {
	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	// Create a catalog achievement. Multipart so an icon can ride along;
	// the icon lands in R2 and only its URL is stored.
	admin.Post("/achievements", func(c *fiber.Ctx) error {
		input := services.CreateAchievementInput{
			Name:        c.FormValue("name"),
			Description: c.FormValue("description"),
			Category:    c.FormValue("category"),
		}
		input.RequirementType = models.RequirementType(c.FormValue("requirement_type"))
		if v, err := strconv.ParseInt(c.FormValue("requirement_value"), 10, 64); err == nil {
			input.RequirementValue = v
		}
		if v, err := strconv.ParseInt(c.FormValue("points"), 10, 64); err == nil {
			input.Points = v
		}

		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid achievement payload",
				"cause": err.Error(),
			})
		}

		if icon, err := c.FormFile("icon"); err == nil {
			key := fmt.Sprintf("achievements/%s-%s%s", slug.Make(input.Name), uuid.NewString()[:8], filepath.Ext(icon.Filename))
			url, err := utils.UploadIcon(icon, key)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to upload icon",
					"cause": err.Error(),
				})
			}
			input.IconURL = url
		}

		ach, err := achievements.Create(c.Context(), input)
		if errors.Is(err, services.ErrAchievementExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "an achievement with this name already exists",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create achievement",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(ach)
	})

	admin.Post("/points/grant", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			Points int64  `json:"points" validate:"required,min=1"`
			Reason string `json:"reason" validate:"max=255"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid grant payload",
				"cause": err.Error(),
			})
		}

		stats, err := gamification.GrantPoints(c.Context(), req.UserID, req.Points, req.Reason)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "points grant failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})

	// Manual trigger for the streak-expiration sweep, next to the cron job.
	admin.Post("/sweep/streaks", func(c *fiber.Ctx) error {
		expired, err := gamification.CheckStreakExpiration(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "streak sweep failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"expired": expired})
	})
}
