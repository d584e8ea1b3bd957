package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la bodega.
// CurrentStock solo se modifica a través del libro de stock (transacciones in/out/adjustment).
// El estado (available, low-stock, out-of-stock) no se guarda: se deriva con stock.StatusOf.
type Product struct {
	ID           string
	SKU          string // código único, mayúsculas, dígitos y guiones
	Name         string
	Category     string
	Description  string
	Price        decimal.Decimal // precio unitario
	Unit         string          // pcs, box, kg...
	MinStock     int64           // umbral de reorden
	CurrentStock int64
	IsArchived   bool
	CreatedBy    string // UserID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockValue devuelve CurrentStock * Price.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.CurrentStock))
}
