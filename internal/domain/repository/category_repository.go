package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByCode(ctx context.Context, code string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context, f CategoryFilter) ([]*entity.Category, int, error)
	Delete(ctx context.Context, id string) error
	// CountChildren y CountProducts se usan antes de eliminar.
	CountChildren(ctx context.Context, id string) (int, error)
	CountProducts(ctx context.Context, id string) (int, error)
}
