package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas e ítems.
type SaleRepository interface {
	// Create persiste la cabecera y sus ítems.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus ítems.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// UpdateStatus actualiza estado y motivo de anulación.
	UpdateStatus(ctx context.Context, sale *entity.Sale) error
	// List devuelve cabeceras (sin ítems).
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, int, error)
}

// SequenceRepository entrega consecutivos por sede y tipo de documento.
// Next bloquea el contador; debe llamarse dentro de la transacción del documento.
type SequenceRepository interface {
	Next(ctx context.Context, sedeID, kind string) (int64, error)
}

// Tipos de consecutivo.
const (
	SequenceSale       = "sale"
	SequenceStockEntry = "entry"
)
