package memory

import (
	"context"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo registro de auditoría en memoria.
type AuditLogRepo struct {
	v view
}

// Create agrega una entrada.
func (r *AuditLogRepo) Create(_ context.Context, entry *entity.AuditLog) error {
	return r.v.write(func(st *state) error {
		cp := *entry
		st.audit = append(st.audit, &cp)
		return nil
	})
}

// List de la más reciente a la más antigua.
func (r *AuditLogRepo) List(_ context.Context, limit, offset int) ([]*entity.AuditLog, int, error) {
	var all []*entity.AuditLog
	r.v.read(func(st *state) {
		for i := len(st.audit) - 1; i >= 0; i-- {
			cp := *st.audit[i]
			all = append(all, &cp)
		}
	})
	return paginate(all, limit, offset), len(all), nil
}
