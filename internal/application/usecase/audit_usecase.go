package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// AuditRecorder escribe y consulta el registro de auditoría.
// Record no falla la operación de negocio: si no puede escribir, lo deja en el log.
type AuditRecorder struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
}

// NewAuditRecorder construye el registrador de auditoría.
func NewAuditRecorder(repo repository.AuditLogRepository, log *logger.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, log: log.Component("audit")}
}

// Record agrega una entrada con los valores antes/después serializados a JSON.
func (a *AuditRecorder) Record(ctx context.Context, actor dto.Actor, action, entityType, entityID string, oldValues, newValues any) {
	if a == nil {
		return
	}
	entry := &entity.AuditLog{
		ID:         uuid.New().String(),
		UserID:     actor.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldValues:  marshalValues(oldValues),
		NewValues:  marshalValues(newValues),
		IPAddress:  actor.IPAddress,
		Status:     "success",
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		a.log.Error().Err(err).Str("action", action).Str("entity_id", entityID).Msg("no se pudo guardar auditoría")
	}
}

func marshalValues(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// List devuelve una página del registro, de la entrada más reciente a la más antigua.
func (a *AuditRecorder) List(ctx context.Context, in dto.PageRequest) (*dto.PageResponse[dto.AuditLogResponse], error) {
	in.DefaultPage(50)
	list, total, err := a.repo.List(ctx, in.Limit, in.Offset())
	if err != nil {
		return nil, fmt.Errorf("listar auditoría: %w", err)
	}
	out := make([]dto.AuditLogResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.AuditLogResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			OldValues:  unmarshalValues(e.OldValues),
			NewValues:  unmarshalValues(e.NewValues),
			IPAddress:  e.IPAddress,
			Status:     e.Status,
			CreatedAt:  e.CreatedAt,
		})
	}
	return &dto.PageResponse[dto.AuditLogResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, in.Page, in.Limit),
	}, nil
}

func unmarshalValues(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
