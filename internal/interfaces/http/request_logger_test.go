package http_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gudang-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/gudang-api/internal/interfaces/http"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

func TestRequestLogger_RegistraRutaYRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "test", Level: "info", Output: &buf})

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(apphttp.RequestLogger(log))
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	counter := metrics.HTTPRequests.WithLabelValues("GET", "/items/:id", "204")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest("GET", "/items/42", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "/items/42", entry["path"])
	assert.EqualValues(t, 204, entry["status"])
}
