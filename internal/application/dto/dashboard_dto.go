package dto

import "github.com/shopspring/decimal"

// PeriodSalesDTO ventas de un período.
type PeriodSalesDTO struct {
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
	Net    decimal.Decimal `json:"net"`
	Margin decimal.Decimal `json:"margin"`
}

// TopProductDTO producto más vendido del mes.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Units     decimal.Decimal `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DashboardSummaryDTO resumen del panel principal.
type DashboardSummaryDTO struct {
	SedeID        string          `json:"sede_id,omitempty"`
	DateLabel     string          `json:"date_label"` // ej: "Octubre 2026"
	Today         PeriodSalesDTO  `json:"today"`
	Month         PeriodSalesDTO  `json:"month"`
	MarginPct     decimal.Decimal `json:"margin_pct"` // margen del mes sobre ventas netas
	TopProducts   []TopProductDTO `json:"top_products"`
	LowStockCount int             `json:"low_stock_count"`
	OpenTickets   int             `json:"open_tickets"`
}
