package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún cambio visible (rollback).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.StockTransactionRepository,
		productRepo repository.ProductRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// Recorder recibe las métricas del libro de stock.
type Recorder interface {
	TransactionRecorded(t entity.TransactionType)
	TransactionRejected(kind string)
	ObserveOperation(operation string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) TransactionRecorded(entity.TransactionType) {}
func (nopRecorder) TransactionRejected(string)                 {}
func (nopRecorder) ObserveOperation(string, time.Duration)     {}
