package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

// TransactionFilter criterios para listar transacciones de stock. Limit <= 0 significa sin límite.
type TransactionFilter struct {
	ProductID string
	Type      entity.TransactionType
	From      *time.Time // sobre transaction_date, inclusivo
	To        *time.Time
	Limit     int
	Offset    int
}

// StockTransactionRepository puerto del log append-only de transacciones.
// No hay Update ni Delete: las transacciones son inmutables.
type StockTransactionRepository interface {
	// Create persiste la transacción y asigna Seq (orden de inserción).
	Create(ctx context.Context, tx *entity.StockTransaction) error
	GetByID(ctx context.Context, id string) (*entity.StockTransaction, error)
	// List ordena de la más reciente a la más antigua y devuelve el total de coincidencias.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.StockTransaction, int, error)
	// SumByType devuelve la suma de Quantity por tipo (adjustment con signo).
	SumByType(ctx context.Context, filter TransactionFilter) (map[entity.TransactionType]int64, error)
}
