package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	v view
}

// Create persiste un usuario. Username y email únicos sin distinguir mayúsculas.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.user(user.ID); ok {
			return domain.ErrDuplicate
		}
		if clashesUser(st, user) {
			return domain.ErrDuplicate
		}
		cp := *user
		st.putUser(&cp)
		return nil
	})
}

func clashesUser(st *state, user *entity.User) bool {
	for _, id := range st.userOrder {
		u, _ := st.user(id)
		if u.ID == user.ID {
			continue
		}
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return true
		}
	}
	return false
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

// GetByUsername obtiene un usuario por username.
func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Username, username) }), nil
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *UserRepo) find(match func(*entity.User) bool) *entity.User {
	var out *entity.User
	r.v.read(func(st *state) {
		for _, id := range st.userOrder {
			if u, _ := st.user(id); match(u) {
				cp := *u
				out = &cp
				return
			}
		}
	})
	return out
}

// Update actualiza username, email, password, rol y estado.
func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	return r.v.write(func(st *state) error {
		u, ok := st.userForWrite(user.ID)
		if !ok {
			return domain.ErrUserNotFound
		}
		if clashesUser(st, user) {
			return domain.ErrDuplicate
		}
		u.Username = user.Username
		u.Email = user.Email
		u.PasswordHash = user.PasswordHash
		u.Role = user.Role
		u.IsActive = user.IsActive
		u.UpdatedAt = user.UpdatedAt
		return nil
	})
}

// TouchLastLogin registra la fecha del último login.
func (r *UserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	return r.v.write(func(st *state) error {
		u, ok := st.userForWrite(id)
		if !ok {
			return domain.ErrUserNotFound
		}
		t := at
		u.LastLogin = &t
		return nil
	})
}

// List pagina usuarios en orden de creación.
func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, int, error) {
	var all []*entity.User
	r.v.read(func(st *state) {
		for _, id := range st.userOrder {
			u, _ := st.user(id)
			cp := *u
			all = append(all, &cp)
		}
	})
	return paginate(all, limit, offset), len(all), nil
}
