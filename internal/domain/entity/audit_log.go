package entity

import (
	"encoding/json"
	"time"
)

// Acciones de auditoría.
const (
	AuditStockIn         = "STOCK_IN"
	AuditStockOut        = "STOCK_OUT"
	AuditStockAdjustment = "STOCK_ADJUSTMENT"
	AuditProductCreate   = "PRODUCT_CREATE"
	AuditProductUpdate   = "PRODUCT_UPDATE"
	AuditProductArchive  = "PRODUCT_ARCHIVE"
	AuditUserCreate      = "USER_CREATE"
	AuditUserUpdate      = "USER_UPDATE"
	AuditUserDeactivate  = "USER_DEACTIVATE"
	AuditLogin           = "LOGIN"
)

// AuditLog entrada append-only del registro de auditoría.
type AuditLog struct {
	ID         string
	UserID     string
	Action     string
	EntityType string // product, user, stock_transaction
	EntityID   string
	OldValues  json.RawMessage
	NewValues  json.RawMessage
	IPAddress  string
	Status     string // success, error
	CreatedAt  time.Time
}
