package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar inventario_sedes.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve la existencia; si no hay fila devuelve cantidad cero.
	Get(ctx context.Context, productID, sedeID string) (*entity.Stock, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, sedeID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	// TotalByProduct suma la existencia del producto en todas las sedes.
	TotalByProduct(ctx context.Context, productID string) (decimal.Decimal, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error)
	ListLines(ctx context.Context, f StockFilter) ([]entity.StockLine, int, error)
	// BelowMinimum devuelve las líneas con existencia menor al stock mínimo, mayor déficit primero.
	// sedeID vacío considera todas las sedes (una línea por producto y sede).
	BelowMinimum(ctx context.Context, sedeID string) ([]entity.StockLine, error)
}
