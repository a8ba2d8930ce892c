package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la existencia de un producto en una sede (fila de inventario_sedes).
type Stock struct {
	ProductID string
	SedeID    string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}

// StockLine es una fila del inventario de una sede enriquecida con datos del producto.
type StockLine struct {
	ProductID   string
	ProductCode string
	ProductName string
	CategoryID  string
	SedeID      string
	Quantity    decimal.Decimal
	MinStock    decimal.Decimal
	Cost        decimal.Decimal
	Price       decimal.Decimal
	UpdatedAt   time.Time
}

// Low indica si la existencia está por debajo del stock mínimo.
func (l StockLine) Low() bool {
	return l.MinStock.GreaterThan(decimal.Zero) && l.Quantity.LessThan(l.MinStock)
}
