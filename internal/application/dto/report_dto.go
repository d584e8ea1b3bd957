package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockReportRequest filtros del reporte de stock.
type StockReportRequest struct {
	Category string `query:"category"`
	Status   string `query:"status"`
}

// StockReportDTO respuesta de GET /api/v1/reports/stock.
type StockReportDTO struct {
	GeneratedAt     time.Time                     `json:"generated_at"`
	TotalProducts   int                           `json:"total_products"`
	TotalStockItems int64                         `json:"total_stock_items"`
	TotalStockValue decimal.Decimal               `json:"total_stock_value"` // Σ current_stock * price
	LowStockCount   int                           `json:"low_stock_count"`
	OutOfStockCount int                           `json:"out_of_stock_count"`
	ByCategory      map[string]CategorySummaryDTO `json:"by_category"`
	Products        []StockReportRowDTO           `json:"products"`
}

// CategorySummaryDTO agregados por categoría.
type CategorySummaryDTO struct {
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// StockReportRowDTO fila del reporte de stock.
type StockReportRowDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	CurrentStock int64           `json:"current_stock"`
	MinStock     int64           `json:"min_stock"`
	Price        decimal.Decimal `json:"price"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Status       string          `json:"status"`
}

// MovementReportRequest filtros del reporte de movimientos (fechas YYYY-MM-DD).
type MovementReportRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Type      string `query:"type"`
	ProductID string `query:"product_id"`
}

// MovementReportDTO respuesta de GET /api/v1/reports/movements.
type MovementReportDTO struct {
	StartDate       string                `json:"start_date,omitempty"`
	EndDate         string                `json:"end_date,omitempty"`
	TotalIn         int64                 `json:"total_in"`
	TotalOut        int64                 `json:"total_out"`
	TotalAdjustment int64                 `json:"total_adjustment"` // suma con signo
	NetChange       int64                 `json:"net_change"`
	Transactions    []TransactionResponse `json:"transactions"`
}

// DashboardSummaryDTO respuesta de GET /api/v1/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts      int                   `json:"total_products"`
	TotalStockValue    decimal.Decimal       `json:"total_stock_value"`
	TotalStockItems    int64                 `json:"total_stock_items"`
	LowStockCount      int                   `json:"low_stock_count"`
	OutOfStockCount    int                   `json:"out_of_stock_count"`
	LowStockProducts   []LowStockProductDTO  `json:"low_stock_products"`
	RecentTransactions []TransactionResponse `json:"recent_transactions"`
}

// LowStockProductDTO producto bajo el mínimo o agotado, con cantidad sugerida de reposición.
type LowStockProductDTO struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	CurrentStock      int64  `json:"current_stock"`
	MinStock          int64  `json:"min_stock"`
	Status            string `json:"status"`
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // ceil(min_stock * 1.5) - current_stock
}

// AuditLogResponse salida de una entrada de auditoría.
type AuditLogResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	OldValues  map[string]any `json:"old_values"`
	NewValues  map[string]any `json:"new_values"`
	IPAddress  string         `json:"ip_address"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}
