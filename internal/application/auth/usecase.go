package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/pkg/jwt"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret            string
	ExpMinutes        int
	RefreshExpMinutes int
	Issuer            string
}

// AuthUseCase casos de uso de autenticación: login, renovación de token y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	audit    *usecase.AuditRecorder
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, audit *usecase.AuditRecorder, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, audit: audit, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// Login verifica username/password, genera access + refresh token y registra last_login.
// Credenciales incorrectas y usuario inexistente devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, ip string, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.NewValidationError("username", "usuario y contraseña requeridos")
	}
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		uc.log.Warn().Str("username", username).Str("ip", ip).Msg("login fallido")
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("username", username).Str("ip", ip).Msg("login fallido")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, fmt.Errorf("cuenta desactivada: %w", domain.ErrForbidden)
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refreshMinutes := uc.jwtCfg.RefreshExpMinutes
	if !in.RememberMe && refreshMinutes > 24*60 {
		refreshMinutes = 24 * 60
	}
	refresh, err := jwt.GenerateRefresh(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, refreshMinutes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("actualizar last_login: %w", err)
	}
	user.LastLogin = &now
	actor := dto.Actor{UserID: user.ID, Username: user.Username, Role: user.Role, IPAddress: ip}
	uc.audit.Record(ctx, actor, entity.AuditLogin, "user", user.ID, nil, map[string]any{"username": user.Username})
	uc.log.Info().Str("user_id", user.ID).Str("ip", ip).Msg("login correcto")

	return &dto.LoginResponse{
		User:         *usecase.ToUserResponse(user),
		Token:        token,
		RefreshToken: refresh,
		ExpiresIn:    uc.jwtCfg.ExpMinutes * 60,
	}, nil
}

// Refresh emite un nuevo access token a partir de un refresh token válido.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.RefreshResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, strings.TrimSpace(in.RefreshToken))
	if err != nil || claims.TokenType != jwt.TokenRefresh {
		return nil, domain.ErrInvalidToken
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, fmt.Errorf("cuenta desactivada: %w", domain.ErrForbidden)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{Token: token, ExpiresIn: uc.jwtCfg.ExpMinutes * 60}, nil
}

// Me devuelve el perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return usecase.ToUserResponse(user), nil
}
