package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

// UpdateUserRequest entrada para editar un usuario (campos opcionales).
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

// LoginResponse salida con tokens JWT. ExpiresIn en segundos.
type LoginResponse struct {
	User         UserResponse `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
}

// RefreshRequest entrada para renovar el token de acceso.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse nuevo token de acceso.
type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
