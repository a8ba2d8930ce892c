package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry      = "ENTRY"      // ingreso de mercancía
	MovementTypeSale       = "SALE"       // venta
	MovementTypeExit       = "EXIT"       // salida no comercial (merma, consumo...)
	MovementTypeAdjustment = "ADJUSTMENT" // ajuste por conteo físico
	MovementTypeTransfer   = "TRANSFER"   // traslado entre sedes
	MovementTypeVoid       = "VOID"       // reversa por anulación de venta
)

// Movement representa un movimiento del kardex. Quantity es positiva para entradas
// y negativa para salidas.
type Movement struct {
	ID            string
	TransactionID string // agrupa los movimientos de una misma operación
	ProductID     string
	SedeID        string
	Type          string
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Reference     string // venta, ingreso o salida que originó el movimiento
	Note          string
	Date          time.Time
	UserID        string
}
