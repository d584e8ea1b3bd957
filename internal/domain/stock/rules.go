package stock

import (
	"unicode/utf8"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

// Límites de validación de movimientos.
const (
	DefaultMaxQuantity    = 999_999
	MaxReferenceLen       = 100
	MaxNotesLen           = 500
	MinAdjustmentNotesLen = 10
)

// Movement datos de un movimiento antes de aplicarse.
type Movement struct {
	Type      entity.TransactionType
	Quantity  int64
	Reason    entity.AdjustmentReason
	Reference string
	Notes     string
}

// Validate aplica las reglas que no dependen del stock actual.
// maxQty <= 0 usa DefaultMaxQuantity.
func (m Movement) Validate(maxQty int64) error {
	if maxQty <= 0 {
		maxQty = DefaultMaxQuantity
	}
	if utf8.RuneCountInString(m.Reference) > MaxReferenceLen {
		return domain.NewValidationError("reference", "máximo 100 caracteres")
	}
	if utf8.RuneCountInString(m.Notes) > MaxNotesLen {
		return domain.NewValidationError("notes", "máximo 500 caracteres")
	}

	switch m.Type {
	case entity.TransactionIn, entity.TransactionOut:
		if m.Quantity < 1 {
			return domain.NewValidationError("quantity", "debe ser al menos 1")
		}
		if m.Quantity > maxQty {
			return domain.NewValidationError("quantity", "cantidad demasiado grande")
		}
		if m.Reason != "" {
			return domain.NewValidationError("reason", "solo aplica a ajustes")
		}
	case entity.TransactionAdjustment:
		if m.Quantity == 0 {
			return domain.NewValidationError("quantity", "no puede ser 0")
		}
		if m.Quantity > maxQty || m.Quantity < -maxQty {
			return domain.NewValidationError("quantity", "cantidad demasiado grande")
		}
		if !m.Reason.Valid() {
			return domain.NewValidationError("reason", "motivo de ajuste requerido")
		}
		if utf8.RuneCountInString(m.Notes) < MinAdjustmentNotesLen {
			return domain.NewValidationError("notes", "mínimo 10 caracteres")
		}
	default:
		return domain.NewValidationError("type", "tipo de transacción desconocido")
	}
	return nil
}

// Apply calcula el stock resultante de aplicar m sobre current.
// Debe llamarse con el stock leído bajo bloqueo; no modifica nada.
func (m Movement) Apply(productID string, current int64) (int64, error) {
	switch m.Type {
	case entity.TransactionIn:
		return current + m.Quantity, nil
	case entity.TransactionOut:
		if m.Quantity > current {
			return current, &domain.InsufficientStockError{
				ProductID: productID,
				Requested: m.Quantity,
				Available: current,
			}
		}
		return current - m.Quantity, nil
	case entity.TransactionAdjustment:
		next := current + m.Quantity
		if next < 0 {
			return current, &domain.InvalidAdjustmentError{
				ProductID:    productID,
				Quantity:     m.Quantity,
				CurrentStock: current,
			}
		}
		return next, nil
	}
	return current, domain.NewValidationError("type", "tipo de transacción desconocido")
}

// Replay suma los efectos de una secuencia de transacciones partiendo de initial.
// Sirve para verificar la consistencia del libro (stock == Σ efectos).
func Replay(initial int64, txs []*entity.StockTransaction) int64 {
	total := initial
	for _, t := range txs {
		total += t.Effect()
	}
	return total
}
