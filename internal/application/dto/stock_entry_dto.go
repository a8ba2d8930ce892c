package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntryItemRequest línea de un ingreso.
type StockEntryItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// RegisterStockEntryRequest body para POST /api/ingresos.
type RegisterStockEntryRequest struct {
	SedeID          string                  `json:"sede_id"`
	ProviderID      string                  `json:"provider_id"`
	ProviderInvoice string                  `json:"provider_invoice"`
	Note            string                  `json:"note"`
	Items           []StockEntryItemRequest `json:"items"`
}

// StockEntryListRequest filtros del listado de ingresos.
type StockEntryListRequest struct {
	PageRequest
	SedeID     string     `query:"sede_id"`
	ProviderID string     `query:"provider_id"`
	Since      *time.Time `query:"-"`
	Until      *time.Time `query:"-"`
}

// StockEntryItemResponse línea de un ingreso.
type StockEntryItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// StockEntryResponse salida de un ingreso.
type StockEntryResponse struct {
	ID              string                   `json:"id"`
	Number          string                   `json:"number"`
	SedeID          string                   `json:"sede_id"`
	ProviderID      string                   `json:"provider_id"`
	UserID          string                   `json:"user_id"`
	ProviderInvoice string                   `json:"provider_invoice,omitempty"`
	Total           decimal.Decimal          `json:"total"`
	Note            string                   `json:"note,omitempty"`
	Date            time.Time                `json:"date"`
	Items           []StockEntryItemResponse `json:"items,omitempty"`
}

// StockEntryListResponse lista paginada de ingresos.
type StockEntryListResponse struct {
	Items []StockEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// RegisterStockExitRequest body para POST /api/salidas.
type RegisterStockExitRequest struct {
	SedeID    string          `json:"sede_id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	Note      string          `json:"note"`
}

// StockExitListRequest filtros del listado de salidas.
type StockExitListRequest struct {
	PageRequest
	SedeID    string     `query:"sede_id"`
	ProductID string     `query:"product_id"`
	Reason    string     `query:"reason"`
	Since     *time.Time `query:"-"`
	Until     *time.Time `query:"-"`
}

// StockExitResponse salida de inventario.
type StockExitResponse struct {
	ID        string          `json:"id"`
	SedeID    string          `json:"sede_id"`
	ProductID string          `json:"product_id"`
	UserID    string          `json:"user_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	Note      string          `json:"note,omitempty"`
	Date      time.Time       `json:"date"`
}

// StockExitListResponse lista paginada de salidas.
type StockExitListResponse struct {
	Items []StockExitResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
