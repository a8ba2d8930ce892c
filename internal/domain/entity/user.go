package entity

import (
	"slices"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// Estados de un usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del panel. SedeIDs son las sedes en las que puede operar;
// un admin puede operar en cualquier sede aunque la lista esté vacía.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string
	SedeIDs      []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si el rol es uno de los soportados.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBodeguero, RoleVendedor:
		return true
	}
	return false
}

// IsActive indica si el usuario puede iniciar sesión.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }

// CanOperateIn indica si el usuario puede registrar operaciones en la sede.
func (u *User) CanOperateIn(sedeID string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return slices.Contains(u.SedeIDs, sedeID)
}
