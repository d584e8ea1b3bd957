package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// UserUseCase administración de usuarios (solo superadmin).
type UserUseCase struct {
	repo  repository.UserRepository
	audit *AuditRecorder
	log   *logger.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, audit *AuditRecorder, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, audit: audit, log: log.Component("user_usecase")}
}

// List pagina los usuarios.
func (uc *UserUseCase) List(ctx context.Context, in dto.PageRequest) (*dto.PageResponse[dto.UserResponse], error) {
	in.DefaultPage(20)
	list, total, err := uc.repo.List(ctx, in.Limit, in.Offset())
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return &dto.PageResponse[dto.UserResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, in.Page, in.Limit),
	}, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

func (uc *UserUseCase) get(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("leer usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// Create crea un usuario: valida, hashea password con bcrypt y persiste.
func (uc *UserUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = entity.RoleAdmin
	}
	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		return nil, domain.NewValidationError("confirm_password", "las contraseñas no coinciden")
	}
	if !entity.ValidRole(in.Role) {
		return nil, domain.NewValidationError("role", "debe ser admin o superadmin")
	}
	if err := uc.ensureUnique(ctx, "", in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	out := ToUserResponse(user)
	uc.audit.Record(ctx, actor, entity.AuditUserCreate, "user", user.ID, nil, out)
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("usuario creado")
	return out, nil
}

// Update edita username, email, rol y estado. Un superadmin no puede degradarse ni desactivarse a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := ToUserResponse(user)

	if in.Username != nil {
		user.Username = strings.TrimSpace(*in.Username)
		if err := validateUsername(user.Username); err != nil {
			return nil, err
		}
	}
	if in.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		if err := validateEmail(user.Email); err != nil {
			return nil, err
		}
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, domain.NewValidationError("role", "debe ser admin o superadmin")
		}
		if user.ID == actor.UserID && *in.Role != entity.RoleSuperAdmin {
			return nil, fmt.Errorf("no puede cambiar su propio rol: %w", domain.ErrForbidden)
		}
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		if user.ID == actor.UserID && !*in.IsActive {
			return nil, fmt.Errorf("no puede desactivar su propia cuenta: %w", domain.ErrForbidden)
		}
		user.IsActive = *in.IsActive
	}
	if err := uc.ensureUnique(ctx, user.ID, user.Username, user.Email); err != nil {
		return nil, err
	}

	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	after := ToUserResponse(user)
	uc.audit.Record(ctx, actor, entity.AuditUserUpdate, "user", user.ID, before, after)
	return after, nil
}

// Deactivate desactiva la cuenta (no se borran usuarios).
func (uc *UserUseCase) Deactivate(ctx context.Context, actor dto.Actor, id string) error {
	user, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if user.ID == actor.UserID {
		return fmt.Errorf("no puede desactivar su propia cuenta: %w", domain.ErrForbidden)
	}
	if !user.IsActive {
		return nil
	}
	user.IsActive = false
	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return err
	}
	uc.audit.Record(ctx, actor, entity.AuditUserDeactivate, "user", user.ID,
		map[string]any{"is_active": true}, map[string]any{"is_active": false})
	uc.log.Info().Str("user_id", user.ID).Msg("usuario desactivado")
	return nil
}

func (uc *UserUseCase) ensureUnique(ctx context.Context, selfID, username, email string) error {
	byName, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("buscar username: %w", err)
	}
	if byName != nil && byName.ID != selfID {
		return fmt.Errorf("username %s: %w", username, domain.ErrDuplicate)
	}
	byEmail, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("buscar email: %w", err)
	}
	if byEmail != nil && byEmail.ID != selfID {
		return fmt.Errorf("email %s: %w", email, domain.ErrDuplicate)
	}
	return nil
}

// HashPassword genera el hash bcrypt de la contraseña.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func validateUsername(username string) error {
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return domain.NewValidationError("username", "entre 3 y 50 caracteres")
	}
	if !usernamePattern.MatchString(username) {
		return domain.NewValidationError("username", "solo letras, dígitos, guion y guion bajo")
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.NewValidationError("email", "email inválido")
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return domain.NewValidationError("password", "mínimo 8 caracteres")
	}
	var upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !digit {
		return domain.NewValidationError("password", "debe incluir una mayúscula y un dígito")
	}
	return nil
}

// ToUserResponse convierte la entidad en su DTO (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
