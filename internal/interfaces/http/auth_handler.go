package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/auth"
	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// AuthHandler maneja login, renovación de token y perfil.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password, remember_me"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), c.IP(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// Refresh godoc
// @Summary      Renovar token de acceso
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "refresh_token"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Refresh(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}
