// middleware/gateway.go
package middleware

import (
	"crypto/subtle"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fitclub-backend/pkg/logger"
)

// GatewayAuthMiddleware validates the shared service token from the Gateway.
// Every request must carry it; user identity comes separately via headers.
func GatewayAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("FITCLUB_SERVICE_TOKEN")

	return func(c *fiber.Ctx) error {
		if expectedToken == "" {
			// Local development without a gateway in front.
			return c.Next()
		}

		token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			logger.Logger.Warn("rejected request with invalid gateway token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway authentication token",
			})
		}
		return c.Next()
	}
}
