package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gudang-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, int, error)
}
