package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/report"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// ReportHandler reportes de stock y movimientos, y resumen del dashboard.
type ReportHandler struct {
	reports   *report.ReportUseCase
	dashboard *report.DashboardUseCase
	log       *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *report.ReportUseCase, dashboard *report.DashboardUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, dashboard: dashboard, log: log}
}

// StockReport GET /api/v1/reports/stock?category=&status=
func (h *ReportHandler) StockReport(c *fiber.Ctx) error {
	var in dto.StockReportRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.reports.StockReport(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// StockReportPDF godoc
// @Summary      Reporte de stock en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        category  query  string  false  "Categoría"
// @Param        status    query  string  false  "available | low-stock | out-of-stock"
// @Success      200  {file}  binary
// @Router       /api/v1/reports/stock.pdf [get]
func (h *ReportHandler) StockReportPDF(c *fiber.Ctx) error {
	var in dto.StockReportRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	pdf, err := h.reports.StockReportPDF(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="stock-%s.pdf"`, time.Now().Format("20060102")))
	return c.Send(pdf)
}

// MovementReport GET /api/v1/reports/movements?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD&type=&product_id=
func (h *ReportHandler) MovementReport(c *fiber.Ctx) error {
	var in dto.MovementReportRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.reports.MovementReport(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}

// DashboardSummary GET /api/v1/dashboard/summary
func (h *ReportHandler) DashboardSummary(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, out)
}
