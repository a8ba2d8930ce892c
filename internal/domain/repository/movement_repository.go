package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del kardex.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// List devuelve movimientos en orden cronológico ascendente.
	List(ctx context.Context, f MovementFilter) ([]*entity.Movement, error)
	// CountBySede se usa antes de eliminar una sede.
	CountBySede(ctx context.Context, sedeID string) (int, error)
}
