package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger verifica la conexión con el almacenamiento (pgxpool.Pool lo implementa).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler GET /health. Con Pinger nil (driver memory) solo informa que el proceso vive.
func HealthHandler(db Pinger, driver string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok", "driver": driver}
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				body["status"] = "degraded"
				body["error"] = "base de datos no disponible"
				return c.Status(fiber.StatusServiceUnavailable).JSON(body)
			}
		}
		return c.JSON(body)
	}
}
