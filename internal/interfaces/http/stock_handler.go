package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/ledger"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// StockHandler expone el libro de stock: entradas, salidas, ajustes y consultas.
type StockHandler struct {
	uc  *ledger.StockLedger
	log *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.StockLedger, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// RecordIn godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InTransactionRequest  true  "product_id, quantity, transaction_date"
// @Success      201   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/stock/in [post]
func (h *StockHandler) RecordIn(c *fiber.Ctx) error {
	var in dto.InTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordIn(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return created(c, out, "entrada registrada")
}

// RecordOut godoc
// @Summary      Registrar salida de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OutTransactionRequest  true  "product_id, quantity, transaction_date"
// @Success      201   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "insufficient_stock, details.available"
// @Router       /api/v1/stock/out [post]
func (h *StockHandler) RecordOut(c *fiber.Ctx) error {
	var in dto.OutTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordOut(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return created(c, out, "salida registrada")
}

// RecordAdjustment godoc
// @Summary      Registrar ajuste de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "quantity con signo, reason, notes"
// @Success      201   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "invalid_adjustment, details.current_stock"
// @Router       /api/v1/stock/adjustment [post]
func (h *StockHandler) RecordAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordAdjustment(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return created(c, out, "ajuste registrado")
}

// GetCurrent GET /api/v1/stock/current/:id
func (h *StockHandler) GetCurrent(c *fiber.Ctx) error {
	out, err := h.uc.GetCurrentStock(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// GetHistory GET /api/v1/stock/history/:id?page=1&limit=20
// limit fuera de los tamaños admitidos responde 400.
func (h *StockHandler) GetHistory(c *fiber.Ctx) error {
	out, err := h.uc.GetHistory(c.UserContext(), c.Params("id"), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// ListTransactions GET /api/v1/stock/transactions?type=&product_id=&page=&limit=
func (h *StockHandler) ListTransactions(c *fiber.Ctx) error {
	var in dto.TransactionListRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListTransactions(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}
