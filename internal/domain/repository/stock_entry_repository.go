package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// StockEntryRepository define el puerto de persistencia para ingresos.
type StockEntryRepository interface {
	Create(ctx context.Context, entry *entity.StockEntry) error
	GetByID(ctx context.Context, id string) (*entity.StockEntry, error)
	List(ctx context.Context, f StockEntryFilter) ([]*entity.StockEntry, int, error)
}

// StockExitRepository define el puerto de persistencia para salidas.
type StockExitRepository interface {
	Create(ctx context.Context, exit *entity.StockExit) error
	List(ctx context.Context, f StockExitFilter) ([]*entity.StockExit, int, error)
}
