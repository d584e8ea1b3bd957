package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP del catálogo de productos (protegido).
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	log *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return created(c, out, "producto creado")
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search            query  string  false  "sku, nombre o categoría"
// @Param        category          query  string  false  "Categoría"
// @Param        status            query  string  false  "available | low-stock | out-of-stock"
// @Param        price_min         query  string  false  "Precio mínimo"
// @Param        price_max         query  string  false  "Precio máximo"
// @Param        include_archived  query  bool    false  "Incluir archivados"
// @Param        page              query  int     false  "Página"  default(1)
// @Param        limit             query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.SuccessResponse
// @Router       /api/v1/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var in dto.ProductListRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  El SKU y el stock no se modifican por esta vía.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// Archive POST /api/v1/products/:id/archive. Idempotente.
func (h *ProductHandler) Archive(c *fiber.Ctx) error {
	out, err := h.uc.Archive(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}
