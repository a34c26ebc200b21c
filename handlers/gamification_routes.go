// handlers/gamification_routes.go
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fitclub-backend/middleware"
	"fitclub-backend/models"
	"fitclub-backend/pkg/logger"
	"fitclub-backend/services"
)

func SetupGamificationRoutes(app *fiber.App, gamification *services.GamificationService, achievements *services.AchievementService) {
	secured := app.Group("/s/gamification", middleware.UserContextMiddleware())

	secured.Get("/stats", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		stats, err := gamification.GetStats(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get gamification stats",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})

	secured.Post("/workout", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		stats, err := gamification.RecordWorkout(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to record workout",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})

	secured.Post("/goal", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		stats, err := gamification.RecordGoalAchieved(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to record goal",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})

	secured.Post("/streak/freeze", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		stats, err := gamification.FreezeStreak(c.Context(), userID)
		if errors.Is(err, services.ErrNoStreakToFreeze) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "NO_STREAK_TO_FREEZE",
				"cause": "you need an active streak before you can freeze it",
			})
		}
		if errors.Is(err, services.ErrStreakFreezeUsed) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "STREAK_FREEZE_USED_THIS_WEEK",
				"cause": "you can only freeze your streak once per week",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to freeze streak",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})

	secured.Get("/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		list, err := achievements.ListWithStatus(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list achievements",
				"cause": err.Error(),
			})
		}
		return c.JSON(list)
	})

	// Leaderboard degrades to an empty list on failure; the screen renders
	// an empty state rather than an error dialog.
	app.Get("/s/leaderboard", middleware.UserContextMiddleware(), func(c *fiber.Ctx) error {
		entries, err := gamification.GetLeaderboard(c.Context())
		if err != nil {
			logger.Logger.Error("leaderboard query failed", zap.Error(err))
			return c.JSON([]models.LeaderboardEntry{})
		}
		return c.JSON(entries)
	})
}
