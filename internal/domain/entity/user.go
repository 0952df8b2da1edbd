package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string // único
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // ADMIN, USER
	Seller       bool   // rol de ventas opcional para USER
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si el rol es conocido.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
