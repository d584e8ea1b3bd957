package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// AuditHandler consulta del registro de auditoría (solo superadmin).
type AuditHandler struct {
	audit *usecase.AuditRecorder
	log   *logger.Logger
}

// NewAuditHandler construye el handler.
func NewAuditHandler(audit *usecase.AuditRecorder, log *logger.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, log: log}
}

// List GET /api/v1/audit-logs?page=&limit=
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var in dto.PageRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.audit.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}
