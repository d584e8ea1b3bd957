package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/pkg/jwt"
)

// Locals keys para los claims del token en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

func unauthorized(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Kind: domain.KindAuth, Code: code, Message: message})
}

// AuthMiddleware valida el Bearer Token JWT (solo tokens de acceso) y carga user_id, username y role en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN", "token vacío")
		}
		claims, err := jwt.ParseAccess(jwtSecret, tokenString)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN", "token inválido o expirado")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole permite el paso solo si el rol del token está entre allowed.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return unauthorized(c, "MISSING_ROLE", "el token no incluye rol")
		}
		for _, r := range allowed {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Kind: domain.KindPermission, Code: "FORBIDDEN", Message: "rol sin permiso para este recurso",
		})
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetUsername devuelve el username del token.
func GetUsername(c *fiber.Ctx) string { return localString(c, LocalUsername) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// actorFrom arma el Actor de la petición autenticada.
func actorFrom(c *fiber.Ctx) dto.Actor {
	return dto.Actor{
		UserID:    GetUserID(c),
		Username:  GetUsername(c),
		Role:      GetRole(c),
		IPAddress: c.IP(),
	}
}
