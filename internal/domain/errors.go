package domain

import (
	"errors"
	"fmt"
)

// Etiquetas estables de error que ven los clientes.
const (
	KindNotFound          = "not_found"
	KindValidation        = "validation"
	KindInsufficientStock = "insufficient_stock"
	KindInvalidAdjustment = "invalid_adjustment"
	KindAuth              = "auth"
	KindPermission        = "permission"
	KindConflict          = "conflict"
	KindInternal          = "error"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidAdjustment = errors.New("el ajuste dejaría el stock en negativo")
	ErrProductArchived   = errors.New("el producto está archivado")
)

// Variantes de ErrUnauthorized con mensaje propio para el cliente.
var (
	ErrInvalidCredentials = fmt.Errorf("credenciales inválidas: %w", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("token inválido o expirado: %w", ErrUnauthorized)
)

// ValidationError describe un campo inválido. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError se devuelve cuando una salida supera el stock disponible.
// Available es el stock observado bajo el bloqueo de la fila.
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: solicitado %d, disponible %d", e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidAdjustmentError se devuelve cuando current_stock + quantity < 0.
type InvalidAdjustmentError struct {
	ProductID    string
	Quantity     int64
	CurrentStock int64
}

func (e *InvalidAdjustmentError) Error() string {
	return fmt.Sprintf("ajuste inválido: stock actual %d, ajuste %d", e.CurrentStock, e.Quantity)
}

func (e *InvalidAdjustmentError) Unwrap() error { return ErrInvalidAdjustment }

// KindOf clasifica err en una de las etiquetas Kind*.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrInvalidAdjustment):
		return KindInvalidAdjustment
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrProductArchived):
		return KindValidation
	case errors.Is(err, ErrUnauthorized):
		return KindAuth
	case errors.Is(err, ErrForbidden):
		return KindPermission
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return KindConflict
	}
	return KindInternal
}
