package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea del formulario de venta. UnitPrice nil toma el precio del producto.
type SaleItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal  `json:"discount"`
}

// RegisterSaleRequest body para POST /api/ventas. SedeID vacío usa la sede activa de la sesión.
type RegisterSaleRequest struct {
	SedeID           string            `json:"sede_id"`
	CustomerName     string            `json:"customer_name"`
	CustomerDocument string            `json:"customer_document"`
	PaymentMethod    string            `json:"payment_method"`
	Note             string            `json:"note"`
	Items            []SaleItemRequest `json:"items"`
}

// VoidSaleRequest anulación de venta.
type VoidSaleRequest struct {
	Reason string `json:"reason"`
}

// SaleListRequest filtros del listado de ventas.
type SaleListRequest struct {
	PageRequest
	SedeID        string     `query:"sede_id"`
	UserID        string     `query:"user_id"`
	Status        string     `query:"status"`
	PaymentMethod string     `query:"payment_method"`
	Query         string     `query:"q"`
	Since         *time.Time `query:"-"`
	Until         *time.Time `query:"-"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	UnitCost  decimal.Decimal `json:"unit_cost"` // costo promedio al momento de la venta
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID               string             `json:"id"`
	Number           string             `json:"number"`
	SedeID           string             `json:"sede_id"`
	UserID           string             `json:"user_id"`
	CustomerName     string             `json:"customer_name,omitempty"`
	CustomerDocument string             `json:"customer_document,omitempty"`
	PaymentMethod    string             `json:"payment_method"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	Discount         decimal.Decimal    `json:"discount"`
	Tax              decimal.Decimal    `json:"tax"`
	Total            decimal.Decimal    `json:"total"`
	Status           string             `json:"status"`
	Note             string             `json:"note,omitempty"`
	VoidReason       string             `json:"void_reason,omitempty"`
	Date             time.Time          `json:"date"`
	Items            []SaleItemResponse `json:"items,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
