package report

import (
	"context"

	"github.com/jhoicas/gudang-api/internal/application/dto"
)

// StockReportPDFGenerator renderiza el reporte de stock como PDF.
type StockReportPDFGenerator interface {
	GenerateStockReportPDF(ctx context.Context, report *dto.StockReportDTO) ([]byte, error)
}
