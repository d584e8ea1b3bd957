package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// UserHandler administración de usuarios (solo superadmin).
type UserHandler struct {
	uc  *usecase.UserUseCase
	log *logger.Logger
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase, log *logger.Logger) *UserHandler {
	return &UserHandler{uc: uc, log: log}
}

// List GET /api/v1/users?page=&limit=
func (h *UserHandler) List(c *fiber.Ctx) error {
	var in dto.PageRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// GetByID GET /api/v1/users/:id
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "username, email, password, confirm_password, role"
// @Success      201   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return created(c, out, "usuario creado")
}

// Update PUT /api/v1/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// Deactivate DELETE /api/v1/users/:id (desactiva, no borra).
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "usuario desactivado"})
}
