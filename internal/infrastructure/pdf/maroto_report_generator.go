// Package pdf implementa la exportación del reporte de stock a PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la bodega  │  Reporte de stock + Fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Productos | Unidades | Valor | Bajo mín. | Agotados │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Categoría | Stock | Mín | Valor | Estado │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR CATEGORÍA: Categoría | Productos | Valor               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/report"
)

var _ report.StockReportPDFGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorAmber   = &props.Color{Red: 190, Green: 120, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa report.StockReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	title string
	lang  language.Tag
}

// NewMarotoReportGenerator construye el generador. title aparece en la cabecera;
// lang define los separadores de miles y decimales.
func NewMarotoReportGenerator(title string, lang language.Tag) *MarotoReportGenerator {
	return &MarotoReportGenerator{title: title, lang: lang}
}

// GenerateStockReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateStockReportPDF(_ context.Context, rep *dto.StockReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)
	p := message.NewPrinter(g.lang)

	m.AddRows(g.headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(p, rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(p, rep.Products)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(categoryRows(p, rep.ByCategory)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la bodega (izq) y título + fecha de generación (der).
func (g *MarotoReportGenerator) headerRow(rep *dto.StockReportDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// summaryRow: cinco indicadores del reporte.
func summaryRow(p *message.Printer, rep *dto.StockReportDTO) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center}),
		)
	}
	return row.New(14).Add(
		kpi("Productos", p.Sprintf("%d", rep.TotalProducts)),
		kpi("Unidades", p.Sprintf("%d", rep.TotalStockItems)),
		col.New(4).Add(
			text.New("Valor del inventario", props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(money(p, rep.TotalStockValue), props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center}),
		),
		kpi("Bajo mínimo", p.Sprintf("%d", rep.LowStockCount)),
		kpi("Agotados", p.Sprintf("%d", rep.OutOfStockCount)),
	)
}

// tableHeaderRow: cabecera de la tabla de productos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Stock", 1, align.Right),
		h("Mín.", 1, align.Right),
		h("Valor", 2, align.Right),
		h("Estado", 1, align.Center),
	)
}

// tableRows: una fila por producto.
func tableRows(p *message.Printer, products []dto.StockReportRowDTO) []core.Row {
	result := make([]core.Row, 0, len(products))
	for _, r := range products {
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(r.SKU, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(3).Add(text.New(r.Name, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(r.Category, props.Text{Size: 7, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(p.Sprintf("%d", r.CurrentStock), props.Text{Size: 7, Top: 1, Align: align.Right, Right: 1})),
			col.New(1).Add(text.New(p.Sprintf("%d", r.MinStock), props.Text{Size: 7, Top: 1, Align: align.Right, Right: 1, Color: colorGray})),
			col.New(2).Add(text.New(money(p, r.TotalValue), props.Text{Size: 7, Top: 1, Align: align.Right, Right: 1})),
			col.New(1).Add(text.New(statusLabel(r.Status), props.Text{
				Size: 6.5, Top: 1, Align: align.Center, Style: fontstyle.Bold, Color: statusColor(r.Status),
			})),
		))
	}
	return result
}

// categoryRows: agregados por categoría en orden alfabético.
func categoryRows(p *message.Printer, byCategory map[string]dto.CategorySummaryDTO) []core.Row {
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("RESUMEN POR CATEGORÍA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, name := range names {
		c := byCategory[name]
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(text.New(name, props.Text{Size: 8, Top: 0.5, Left: 1})),
			col.New(2).Add(text.New(p.Sprintf("%d", c.Count), props.Text{Size: 8, Top: 0.5, Align: align.Right})),
			col.New(4).Add(text.New(money(p, c.Value), props.Text{Size: 8, Top: 0.5, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separadores del idioma y dos decimales. Ej (es): 1.250.000,50
func money(p *message.Printer, d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return p.Sprintf("$%.2f", f)
}

func statusLabel(s string) string {
	switch s {
	case "out-of-stock":
		return "AGOTADO"
	case "low-stock":
		return "BAJO"
	}
	return "OK"
}

func statusColor(s string) *props.Color {
	switch s {
	case "out-of-stock":
		return colorRed
	case "low-stock":
		return colorAmber
	}
	return colorGray
}
