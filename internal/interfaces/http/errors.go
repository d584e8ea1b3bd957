package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// statusByKind código HTTP para cada kind de error.
var statusByKind = map[string]int{
	domain.KindNotFound:          fiber.StatusNotFound,
	domain.KindValidation:        fiber.StatusBadRequest,
	domain.KindInsufficientStock: fiber.StatusConflict,
	domain.KindInvalidAdjustment: fiber.StatusConflict,
	domain.KindAuth:              fiber.StatusUnauthorized,
	domain.KindPermission:        fiber.StatusForbidden,
	domain.KindConflict:          fiber.StatusConflict,
	domain.KindInternal:          fiber.StatusInternalServerError,
}

// ErrorBody traduce err al cuerpo de error y su código HTTP.
// Los errores internos no exponen el mensaje original.
func ErrorBody(err error) (int, dto.ErrorResponse) {
	kind := domain.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	body := dto.ErrorResponse{Kind: kind, Message: err.Error()}

	var (
		stockErr *domain.InsufficientStockError
		adjErr   *domain.InvalidAdjustmentError
		valErr   *domain.ValidationError
	)
	switch {
	case errors.As(err, &stockErr):
		body.Code = "INSUFFICIENT_STOCK"
		body.Details = map[string]any{"available": stockErr.Available, "requested": stockErr.Requested}
	case errors.As(err, &adjErr):
		body.Code = "INVALID_ADJUSTMENT"
		body.Details = map[string]any{"current_stock": adjErr.CurrentStock, "quantity": adjErr.Quantity}
	case errors.Is(err, domain.ErrProductArchived):
		body.Code = "PRODUCT_ARCHIVED"
	case errors.As(err, &valErr):
		body.Code = "VALIDATION"
		if valErr.Field != "" {
			body.Details = map[string]any{"field": valErr.Field}
		}
	case kind == domain.KindValidation:
		body.Code = "VALIDATION"
	case kind == domain.KindNotFound:
		body.Code = "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidCredentials):
		body.Code = "INVALID_CREDENTIALS"
		body.Message = domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrInvalidToken):
		body.Code = "INVALID_TOKEN"
		body.Message = domain.ErrInvalidToken.Error()
	case kind == domain.KindAuth:
		body.Code = "UNAUTHORIZED"
		body.Message = domain.ErrUnauthorized.Error()
	case kind == domain.KindPermission:
		body.Code = "FORBIDDEN"
	case kind == domain.KindConflict:
		body.Code = "DUPLICATE"
	default:
		body.Code = "INTERNAL"
		body.Message = "error interno"
	}
	return status, body
}

// respondError escribe el error como JSON; los internos se registran con el detalle.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, body := ErrorBody(err)
	if status >= fiber.StatusInternalServerError && log != nil {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Kind: domain.KindValidation, Code: "INVALID_BODY", Message: "cuerpo inválido",
	})
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.SuccessResponse{Success: true, Data: data})
}

func created(c *fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true, Data: data, Message: message})
}

// FiberErrorHandler para errores que llegan a fiber sin pasar por respondError (404 de ruta, panics).
func FiberErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			kind := domain.KindInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				kind = domain.KindNotFound
			case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
				kind = domain.KindValidation
			case fiber.StatusUnauthorized:
				kind = domain.KindAuth
			case fiber.StatusForbidden:
				kind = domain.KindPermission
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Kind: kind, Code: "HTTP_ERROR", Message: fe.Message})
		}
		return respondError(c, log, err)
	}
}
