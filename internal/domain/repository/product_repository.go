package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/stock"
)

// ProductFilter criterios de búsqueda del catálogo. Limit <= 0 significa sin límite.
type ProductFilter struct {
	Search          string // sku, nombre o categoría (sin distinguir mayúsculas)
	Category        string
	Status          stock.Status // derivado de current_stock y min_stock
	PriceMin        *decimal.Decimal
	PriceMax        *decimal.Decimal
	IncludeArchived bool
	Limit           int
	Offset          int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update actualiza metadatos del catálogo. No modifica current_stock ni is_archived.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock es la única vía de escritura de current_stock (la usa el libro de stock).
	UpdateStock(ctx context.Context, productID string, currentStock int64, updatedAt time.Time) error
	SetArchived(ctx context.Context, productID string, archived bool, updatedAt time.Time) error
	// List devuelve la página pedida y el total de coincidencias.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
}
