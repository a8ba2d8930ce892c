// Package access resuelve qué puede hacer el usuario de la sesión en cada sede.
package access

import (
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// Actor identifica al usuario que ejecuta una operación (tomado de los claims del JWT).
type Actor struct {
	UserID string
	Role   string
	SedeID string // sede activa de la sesión
}

// IsAdmin indica si el actor es administrador.
func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }

// HasRole indica si el actor tiene alguno de los roles.
func (a Actor) HasRole(roles ...string) bool { return slices.Contains(roles, a.Role) }

// ResolveSede usa la sede explícita o, si viene vacía, la sede activa de la sesión.
func (a Actor) ResolveSede(sedeID string) string {
	if sedeID != "" {
		return sedeID
	}
	return a.SedeID
}

// Guard valida sedes y asignaciones contra la base de datos.
type Guard struct {
	users repository.UserRepository
	sedes repository.SedeRepository
}

// NewGuard construye el guard.
func NewGuard(users repository.UserRepository, sedes repository.SedeRepository) *Guard {
	return &Guard{users: users, sedes: sedes}
}

// RequireRole devuelve ErrForbidden si el actor no tiene ninguno de los roles.
func RequireRole(a Actor, roles ...string) error {
	if !a.HasRole(roles...) {
		return domain.ErrForbidden
	}
	return nil
}

// CheckSede valida que la sede exista, esté activa y el actor pueda operar en ella.
func (g *Guard) CheckSede(ctx context.Context, a Actor, sedeID string) (*entity.Sede, error) {
	if sedeID == "" {
		return nil, domain.ValidationErrors{{Field: "sede_id", Message: "la sede es obligatoria"}}
	}
	sede, err := g.sedes.GetByID(ctx, sedeID)
	if err != nil {
		return nil, fmt.Errorf("obtener sede: %w", err)
	}
	if sede == nil {
		return nil, domain.ErrNotFound
	}
	if !sede.Active {
		return nil, domain.ErrInactive
	}
	if a.IsAdmin() {
		return sede, nil
	}
	user, err := g.users.GetByID(ctx, a.UserID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil || !user.IsActive() {
		return nil, domain.ErrUnauthorized
	}
	if !user.CanOperateIn(sedeID) {
		return nil, domain.ErrSedeNotAssigned
	}
	return sede, nil
}

// AllowedSedes devuelve las sedes que el actor puede consultar; nil significa todas (admin).
func (g *Guard) AllowedSedes(ctx context.Context, a Actor) ([]string, error) {
	if a.IsAdmin() {
		return nil, nil
	}
	user, err := g.users.GetByID(ctx, a.UserID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if len(user.SedeIDs) == 0 {
		return []string{}, nil
	}
	return user.SedeIDs, nil
}

// ScopeSede combina un filtro de sede pedido con las sedes permitidas.
// Devuelve la sede a filtrar y la lista de sedes permitidas para el repositorio.
func (g *Guard) ScopeSede(ctx context.Context, a Actor, requested string) (string, []string, error) {
	allowed, err := g.AllowedSedes(ctx, a)
	if err != nil {
		return "", nil, err
	}
	if allowed == nil {
		return requested, nil, nil
	}
	if requested != "" && !slices.Contains(allowed, requested) {
		return "", nil, domain.ErrSedeNotAssigned
	}
	if len(allowed) == 0 {
		// Sin sedes asignadas no ve nada: un id imposible evita devolver todo.
		return "", []string{""}, nil
	}
	return requested, allowed, nil
}
