package repository

import (
	"context"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

// AuditLogRepository puerto append-only del registro de auditoría.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
	List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, int, error)
}
