package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicia en 0.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	MinStock    int64           `json:"min_stock"`
}

// UpdateProductRequest entrada para actualizar (campos opcionales). El SKU no se modifica.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	MinStock    *int64           `json:"min_stock,omitempty"`
}

// ProductListRequest filtros de GET /api/v1/products.
type ProductListRequest struct {
	PageRequest
	Search          string `query:"search"`
	Category        string `query:"category"`
	Status          string `query:"status"`
	PriceMin        string `query:"price_min"`
	PriceMax        string `query:"price_max"`
	IncludeArchived bool   `query:"include_archived"`
}

// ProductResponse salida de un producto; Status siempre derivado al leer.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Unit         string          `json:"unit"`
	MinStock     int64           `json:"min_stock"`
	CurrentStock int64           `json:"current_stock"`
	Status       string          `json:"status"`
	IsArchived   bool            `json:"is_archived"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
