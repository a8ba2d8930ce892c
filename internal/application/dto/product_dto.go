package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitialStockRequest existencia inicial de un bien en una sede al crearlo.
type InitialStockRequest struct {
	SedeID   string          `json:"sede_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateProductRequest entrada para crear un bien.
type CreateProductRequest struct {
	Code         string                `json:"code"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	CategoryID   string                `json:"category_id"`
	ProviderID   string                `json:"provider_id"`
	Price        decimal.Decimal       `json:"price"`
	TaxRate      decimal.Decimal       `json:"tax_rate"`
	Unit         string                `json:"unit"`
	MinStock     decimal.Decimal       `json:"min_stock"`
	InitialCost  decimal.Decimal       `json:"initial_cost"`
	InitialStock []InitialStockRequest `json:"initial_stock"`
}

// UpdateProductRequest entrada para actualizar un producto (sin costo ni existencias).
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"category_id"`
	ProviderID  *string          `json:"provider_id"`
	Price       *decimal.Decimal `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	Unit        *string          `json:"unit"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	Active      *bool            `json:"active"`
}

// ProductListRequest filtros del listado de productos.
type ProductListRequest struct {
	PageRequest
	Query        string `query:"q"`
	CategoryID   string `query:"category_id"`
	ProviderID   string `query:"provider_id"`
	Active       *bool  `query:"active"`
	SedeID       string `query:"sede_id"`
	OnlyLowStock bool   `query:"low_stock"`
	Sort         string `query:"sort"`
	Desc         bool   `query:"desc"`
}

// SedeStockResponse existencia de un producto en una sede.
type SedeStockResponse struct {
	SedeID   string          `json:"sede_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string              `json:"id"`
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	CategoryID  string              `json:"category_id"`
	ProviderID  string              `json:"provider_id,omitempty"`
	Price       decimal.Decimal     `json:"price"`
	Cost        decimal.Decimal     `json:"cost"`
	TaxRate     decimal.Decimal     `json:"tax_rate"`
	Unit        string              `json:"unit"`
	MinStock    decimal.Decimal     `json:"min_stock"`
	Active      bool                `json:"active"`
	Stock       []SedeStockResponse `json:"stock,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ImportRowError error de una fila del archivo CSV.
type ImportRowError struct {
	Row     int    `json:"row"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ImportResult resultado de la importación de productos.
type ImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
}
