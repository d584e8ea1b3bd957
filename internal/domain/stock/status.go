// Package stock contiene las reglas puras del libro de stock: validación de movimientos,
// aplicación sobre el stock actual y derivación del estado del producto.
// No tiene dependencias de infraestructura.
package stock

// Status estado derivado de un producto según su stock.
type Status string

// Estados posibles. No hay histéresis: el estado depende solo de stock y min_stock.
const (
	StatusAvailable  Status = "available"
	StatusLowStock   Status = "low-stock"
	StatusOutOfStock Status = "out-of-stock"
)

// StatusOf deriva el estado a partir de stock actual y umbral mínimo.
//
//	out-of-stock  si stock == 0
//	low-stock     si 0 < stock <= minStock
//	available     en otro caso
func StatusOf(current, minStock int64) Status {
	switch {
	case current <= 0:
		return StatusOutOfStock
	case current <= minStock:
		return StatusLowStock
	default:
		return StatusAvailable
	}
}

// ParseStatus valida un estado recibido como filtro.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusAvailable, StatusLowStock, StatusOutOfStock:
		return Status(s), true
	}
	return "", false
}

// SuggestedReorder cantidad sugerida para volver al stock ideal (min_stock * 1.5, redondeado arriba).
// Devuelve 0 si el stock ya alcanza el ideal.
func SuggestedReorder(current, minStock int64) int64 {
	ideal := (minStock*3 + 1) / 2
	if current >= ideal {
		return 0
	}
	return ideal - current
}
