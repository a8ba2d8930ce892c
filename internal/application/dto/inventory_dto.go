package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockListRequest filtros del inventario de una sede.
type StockListRequest struct {
	PageRequest
	Query        string `query:"q"`
	CategoryID   string `query:"category_id"`
	OnlyLowStock bool   `query:"low_stock"`
}

// StockLineResponse fila del inventario de una sede.
type StockLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	SedeID      string          `json:"sede_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinStock    decimal.Decimal `json:"min_stock"`
	LowStock    bool            `json:"low_stock"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Valuation   decimal.Decimal `json:"valuation"` // cantidad * costo
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockListResponse inventario paginado de una sede.
type StockListResponse struct {
	Items     []StockLineResponse `json:"items"`
	Page      PageResponse        `json:"page"`
	Valuation decimal.Decimal     `json:"valuation"` // suma de la página
}

// StockResponse existencia puntual de un producto en una sede.
type StockResponse struct {
	ProductID string          `json:"product_id"`
	SedeID    string          `json:"sede_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AdjustStockRequest ajuste por conteo físico. Se envía NewQuantity (conteo) o Delta.
type AdjustStockRequest struct {
	ProductID   string           `json:"product_id"`
	SedeID      string           `json:"sede_id"`
	NewQuantity *decimal.Decimal `json:"new_quantity"`
	Delta       *decimal.Decimal `json:"delta"`
	Reason      string           `json:"reason"`
}

// TransferRequest traslado entre sedes.
type TransferRequest struct {
	ProductID  string          `json:"product_id"`
	FromSedeID string          `json:"from_sede_id"`
	ToSedeID   string          `json:"to_sede_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Note       string          `json:"note"`
}

// MovementResultResponse resultado de un ajuste o traslado.
type MovementResultResponse struct {
	TransactionID string          `json:"transaction_id"`
	Stock         []StockResponse `json:"stock"`
}

// KardexRequest filtros del kardex de un producto.
type KardexRequest struct {
	SedeID string     `query:"sede_id"`
	Since  *time.Time `query:"-"`
	Until  *time.Time `query:"-"`
}

// KardexLine movimiento con saldo acumulado.
type KardexLine struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	SedeID        string          `json:"sede_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Balance       decimal.Decimal `json:"balance"`
	Reference     string          `json:"reference,omitempty"`
	Note          string          `json:"note,omitempty"`
	Date          time.Time       `json:"date"`
	UserID        string          `json:"user_id,omitempty"`
}

// KardexResponse kardex de un producto.
type KardexResponse struct {
	ProductID      string          `json:"product_id"`
	SedeID         string          `json:"sede_id,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Lines          []KardexLine    `json:"lines"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	ProductCode        string          `json:"product_code"`
	ProductName        string          `json:"product_name"`
	SedeID             string          `json:"sede_id"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinStock           decimal.Decimal `json:"min_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // MinStock * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
