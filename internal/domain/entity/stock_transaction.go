package entity

import "time"

// TransactionType tipo de transacción de stock.
type TransactionType string

// Tipos de transacción del libro de stock.
const (
	TransactionIn         TransactionType = "in"         // entrada
	TransactionOut        TransactionType = "out"        // salida
	TransactionAdjustment TransactionType = "adjustment" // ajuste manual con motivo
)

// Valid indica si t es uno de los tipos conocidos.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIn, TransactionOut, TransactionAdjustment:
		return true
	}
	return false
}

// AdjustmentReason motivo obligatorio de un ajuste.
type AdjustmentReason string

// Motivos de ajuste admitidos.
const (
	ReasonStockCount          AdjustmentReason = "stock_count"
	ReasonDamage              AdjustmentReason = "damage"
	ReasonExpiry              AdjustmentReason = "expiry"
	ReasonPhysicalDiscrepancy AdjustmentReason = "physical_discrepancy"
	ReasonSystemCorrection    AdjustmentReason = "system_correction"
	ReasonOther               AdjustmentReason = "other"
)

// AdjustmentReasons lista cerrada, en el orden en que la muestra la UI.
var AdjustmentReasons = []AdjustmentReason{
	ReasonStockCount,
	ReasonDamage,
	ReasonExpiry,
	ReasonPhysicalDiscrepancy,
	ReasonSystemCorrection,
	ReasonOther,
}

// Valid indica si r pertenece a la enumeración.
func (r AdjustmentReason) Valid() bool {
	for _, v := range AdjustmentReasons {
		if r == v {
			return true
		}
	}
	return false
}

// StockTransaction registro inmutable del libro de stock.
// Quantity se guarda tal como se registró: positivo para in/out, con signo para adjustment.
// El efecto sobre el stock lo calcula Effect.
type StockTransaction struct {
	ID              string
	Seq             int64 // orden de inserción, asignado por el almacenamiento
	ProductID       string
	Type            TransactionType
	Quantity        int64
	Reason          AdjustmentReason // solo adjustment
	Reference       string
	Notes           string
	StockAfter      int64
	TransactionDate time.Time
	CreatedBy       string
	CreatedAt       time.Time
}

// Effect devuelve el efecto con signo sobre current_stock.
func (t *StockTransaction) Effect() int64 {
	if t.Type == TransactionOut {
		return -t.Quantity
	}
	return t.Quantity
}
