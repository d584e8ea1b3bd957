package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// ValidRole indica si role es uno de los roles del sistema.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// User representa un usuario del panel (personal de bodega o administrador del sistema).
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash
	Role         string // admin, superadmin
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
