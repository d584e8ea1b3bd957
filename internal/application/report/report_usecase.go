// Package report contiene los casos de uso de reportes de stock, movimientos y el dashboard.
// Todo es de solo lectura: el estado de cada producto se deriva al momento de generar.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/internal/domain/stock"
)

const dateLayout = "2006-01-02"

// ReportUseCase genera el reporte de stock (JSON y PDF) y el de movimientos.
type ReportUseCase struct {
	productRepo repository.ProductRepository
	txRepo      repository.StockTransactionRepository
	pdf         StockReportPDFGenerator
	lang        language.Tag
}

// NewReportUseCase construye el caso de uso. lang define el orden alfabético de las filas.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	txRepo repository.StockTransactionRepository,
	pdf StockReportPDFGenerator,
	lang language.Tag,
) *ReportUseCase {
	return &ReportUseCase{productRepo: productRepo, txRepo: txRepo, pdf: pdf, lang: lang}
}

// StockReport totales, agregados por categoría y filas ordenadas por nombre.
func (uc *ReportUseCase) StockReport(ctx context.Context, in dto.StockReportRequest) (*dto.StockReportDTO, error) {
	filter := repository.ProductFilter{Category: strings.TrimSpace(in.Category)}
	if in.Status != "" {
		st, ok := stock.ParseStatus(in.Status)
		if !ok {
			return nil, domain.NewValidationError("status", "debe ser available, low-stock o out-of-stock")
		}
		filter.Status = st
	}
	products, _, err := uc.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reporte de stock: %w", err)
	}
	sortByName(products, uc.lang)

	sum := summarize(products)
	out := &dto.StockReportDTO{
		GeneratedAt:     time.Now().UTC(),
		TotalProducts:   sum.products,
		TotalStockItems: sum.items,
		TotalStockValue: sum.value,
		LowStockCount:   sum.low,
		OutOfStockCount: sum.out,
		ByCategory:      make(map[string]dto.CategorySummaryDTO),
		Products:        make([]dto.StockReportRowDTO, 0, len(products)),
	}
	for _, p := range products {
		value := p.StockValue()
		cat := out.ByCategory[p.Category]
		cat.Count++
		cat.Value = cat.Value.Add(value)
		out.ByCategory[p.Category] = cat

		out.Products = append(out.Products, dto.StockReportRowDTO{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			Category:     p.Category,
			Unit:         p.Unit,
			CurrentStock: p.CurrentStock,
			MinStock:     p.MinStock,
			Price:        p.Price,
			TotalValue:   value,
			Status:       string(stock.StatusOf(p.CurrentStock, p.MinStock)),
		})
	}
	return out, nil
}

// StockReportPDF el mismo reporte renderizado como PDF.
func (uc *ReportUseCase) StockReportPDF(ctx context.Context, in dto.StockReportRequest) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("reporte pdf: generador no configurado")
	}
	rep, err := uc.StockReport(ctx, in)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateStockReportPDF(ctx, rep)
}

// MovementReport totales por tipo y transacciones del rango (fechas inclusivas, YYYY-MM-DD).
func (uc *ReportUseCase) MovementReport(ctx context.Context, in dto.MovementReportRequest) (*dto.MovementReportDTO, error) {
	filter := repository.TransactionFilter{ProductID: strings.TrimSpace(in.ProductID)}
	if in.Type != "" {
		t := entity.TransactionType(in.Type)
		if !t.Valid() {
			return nil, domain.NewValidationError("type", "debe ser in, out o adjustment")
		}
		filter.Type = t
	}
	if in.StartDate != "" {
		from, err := time.Parse(dateLayout, in.StartDate)
		if err != nil {
			return nil, domain.NewValidationError("start_date", "formato YYYY-MM-DD")
		}
		filter.From = &from
	}
	if in.EndDate != "" {
		end, err := time.Parse(dateLayout, in.EndDate)
		if err != nil {
			return nil, domain.NewValidationError("end_date", "formato YYYY-MM-DD")
		}
		to := end.Add(24*time.Hour - time.Nanosecond)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.NewValidationError("start_date", "debe ser anterior a end_date")
	}

	sums, err := uc.txRepo.SumByType(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reporte de movimientos: %w", err)
	}
	list, _, err := uc.txRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reporte de movimientos: %w", err)
	}

	out := &dto.MovementReportDTO{
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		TotalIn:         sums[entity.TransactionIn],
		TotalOut:        sums[entity.TransactionOut],
		TotalAdjustment: sums[entity.TransactionAdjustment],
		Transactions:    make([]dto.TransactionResponse, 0, len(list)),
	}
	out.NetChange = out.TotalIn - out.TotalOut + out.TotalAdjustment
	for _, t := range list {
		out.Transactions = append(out.Transactions, dto.NewTransactionResponse(t))
	}
	return out, nil
}

type totals struct {
	products int
	items    int64
	value    decimal.Decimal
	low      int
	out      int
}

func summarize(products []*entity.Product) totals {
	var t totals
	for _, p := range products {
		t.products++
		t.items += p.CurrentStock
		t.value = t.value.Add(p.StockValue())
		switch stock.StatusOf(p.CurrentStock, p.MinStock) {
		case stock.StatusLowStock:
			t.low++
		case stock.StatusOutOfStock:
			t.out++
		}
	}
	return t
}

// sortByName ordena según las reglas del idioma (tildes y mayúsculas no alteran el orden).
func sortByName(products []*entity.Product, lang language.Tag) {
	c := collate.New(lang, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(products, func(i, j int) bool {
		return c.CompareString(products[i].Name, products[j].Name) < 0
	})
}
