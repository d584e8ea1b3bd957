package dto

import (
	"time"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

// InTransactionRequest body para POST /api/v1/stock/in.
type InTransactionRequest struct {
	ProductID       string `json:"product_id"`
	Quantity        int64  `json:"quantity"`
	Reference       string `json:"reference,omitempty"`
	Notes           string `json:"notes,omitempty"`
	TransactionDate Date   `json:"transaction_date"`
}

// OutTransactionRequest body para POST /api/v1/stock/out.
type OutTransactionRequest = InTransactionRequest

// AdjustmentRequest body para POST /api/v1/stock/adjustment. Quantity con signo.
type AdjustmentRequest struct {
	ProductID       string `json:"product_id"`
	Quantity        int64  `json:"quantity"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes"`
	Reference       string `json:"reference,omitempty"`
	TransactionDate Date   `json:"transaction_date"`
}

// TransactionResponse salida de una transacción de stock.
type TransactionResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	Type            string    `json:"type"`
	Quantity        int64     `json:"quantity"`
	Reason          string    `json:"reason,omitempty"`
	Reference       string    `json:"reference"`
	Notes           string    `json:"notes"`
	StockAfter      int64     `json:"stock_after"`
	TransactionDate time.Time `json:"transaction_date"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// StockLevelResponse stock actual de un producto con su estado derivado.
type StockLevelResponse struct {
	ProductID    string `json:"product_id"`
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
	Status       string `json:"status"`
}

// TransactionListRequest query de GET /api/v1/stock/transactions.
type TransactionListRequest struct {
	PageRequest
	Type      string `query:"type"`
	ProductID string `query:"product_id"`
}

// NewTransactionResponse convierte la entidad en su DTO de salida.
func NewTransactionResponse(t *entity.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		ProductID:       t.ProductID,
		Type:            string(t.Type),
		Quantity:        t.Quantity,
		Reason:          string(t.Reason),
		Reference:       t.Reference,
		Notes:           t.Notes,
		StockAfter:      t.StockAfter,
		TransactionDate: t.TransactionDate,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}
