package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// ProviderRepository define el puerto de persistencia para Provider.
type ProviderRepository interface {
	Create(ctx context.Context, provider *entity.Provider) error
	GetByID(ctx context.Context, id string) (*entity.Provider, error)
	Update(ctx context.Context, provider *entity.Provider) error
	List(ctx context.Context, f ProviderFilter) ([]*entity.Provider, int, error)
	Delete(ctx context.Context, id string) error
	// CountEntries cuenta los ingresos que referencian al proveedor.
	CountEntries(ctx context.Context, id string) (int, error)
}
