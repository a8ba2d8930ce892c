package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusRegistered = "registered"
	SaleStatusVoided     = "voided"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentMixed    = "mixed"
)

// ValidPaymentMethod indica si el método de pago es soportado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentMixed:
		return true
	}
	return false
}

// Sale representa la cabecera de una venta en una sede.
type Sale struct {
	ID               string
	Number           string
	SedeID           string
	UserID           string
	CustomerName     string
	CustomerDocument string
	PaymentMethod    string
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	Tax              decimal.Decimal
	Total            decimal.Decimal
	Status           string
	Note             string
	VoidReason       string
	Date             time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Items            []SaleItem
}

// SaleItem representa una línea de venta. UnitCost es el costo promedio al momento
// de la venta, usado para margen.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal
	Subtotal  decimal.Decimal // cantidad*precio - descuento
	Tax       decimal.Decimal
	Total     decimal.Decimal
	UnitCost  decimal.Decimal
}
