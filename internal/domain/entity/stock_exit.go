package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de salida no comercial.
const (
	ExitReasonShrinkage      = "shrinkage"       // merma
	ExitReasonInternalUse    = "internal_use"    // consumo interno
	ExitReasonDonation       = "donation"        // donación
	ExitReasonSupplierReturn = "supplier_return" // devolución a proveedor
	ExitReasonOther          = "other"
)

// ValidExitReason indica si el motivo es soportado.
func ValidExitReason(r string) bool {
	switch r {
	case ExitReasonShrinkage, ExitReasonInternalUse, ExitReasonDonation, ExitReasonSupplierReturn, ExitReasonOther:
		return true
	}
	return false
}

// StockExit representa una salida de inventario que no es venta.
type StockExit struct {
	ID        string
	SedeID    string
	ProductID string
	UserID    string
	Quantity  decimal.Decimal
	Reason    string
	Note      string
	Date      time.Time
}
