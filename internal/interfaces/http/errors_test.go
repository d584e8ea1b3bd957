package http_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gudang-api/internal/domain"
	apphttp "github.com/jhoicas/gudang-api/internal/interfaces/http"
)

func TestErrorBody_MensajesDeAutenticacion(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{"login fallido", domain.ErrInvalidCredentials, "INVALID_CREDENTIALS", "credenciales inválidas"},
		{"refresh inválido", fmt.Errorf("refresh: %w", domain.ErrInvalidToken), "INVALID_TOKEN", "token inválido o expirado"},
		{"no autorizado genérico", fmt.Errorf("sesión: %w", domain.ErrUnauthorized), "UNAUTHORIZED", "no autorizado"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := apphttp.ErrorBody(tc.err)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, domain.KindAuth, body.Kind)
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestErrorBody_InternoNoExponeDetalle(t *testing.T) {
	status, body := apphttp.ErrorBody(fmt.Errorf("insert product: %w", fmt.Errorf("dial tcp: refused")))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "dial tcp")
}
