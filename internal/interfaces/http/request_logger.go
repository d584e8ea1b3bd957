package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/infrastructure/metrics"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// RequestLogger registra cada petición y la cuenta en Prometheus. Si requestid está montado antes,
// el id de la petición se incluye en el log.
// El label route usa el patrón registrado (/api/v1/products/:id), no la URL concreta.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler escriba la respuesta antes de leer el status.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		route := c.Route().Path

		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("user_id", GetUserID(c)).
			Str("request_id", requestID(c)).
			Msg("request")
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
