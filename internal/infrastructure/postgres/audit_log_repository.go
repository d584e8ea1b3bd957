package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo registro de auditoría append-only.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create inserta una entrada. old_values/new_values se guardan como JSONB.
func (r *AuditLogRepo) Create(ctx context.Context, e *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, old_values, new_values, ip_address, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, nullable(e.UserID), e.Action, e.EntityType, e.EntityID,
		jsonOrNil(e.OldValues), jsonOrNil(e.NewValues), e.IPAddress, e.Status, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List de la más reciente a la más antigua.
func (r *AuditLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM audit_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	var w whereBuilder
	suffix, args := w.page(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, action, entity_type, entity_id, old_values, new_values, ip_address, status, created_at
		FROM audit_logs ORDER BY created_at DESC, id`+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.AuditLog, 0)
	for rows.Next() {
		var (
			e      entity.AuditLog
			userID *string
		)
		if err := rows.Scan(&e.ID, &userID, &e.Action, &e.EntityType, &e.EntityID,
			&e.OldValues, &e.NewValues, &e.IPAddress, &e.Status, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		if userID != nil {
			e.UserID = *userID
		}
		list = append(list, &e)
	}
	return list, total, rows.Err()
}

// jsonOrNil evita guardar "" en columnas JSONB.
func jsonOrNil(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
