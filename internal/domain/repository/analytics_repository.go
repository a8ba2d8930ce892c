package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics agregados de ventas registradas (no anuladas) en un período.
type SalesMetrics struct {
	Count   int
	Revenue decimal.Decimal // total con IVA
	Net     decimal.Decimal // subtotal sin IVA
	Cost    decimal.Decimal // cantidad * costo unitario al momento de la venta
}

// TopProduct producto más vendido en un período.
type TopProduct struct {
	ProductID string
	Code      string
	Name      string
	Units     decimal.Decimal
	Revenue   decimal.Decimal
}

// AnalyticsRepository consultas de lectura para el dashboard. sedeID vacío = todas las sedes.
type AnalyticsRepository interface {
	GetSalesMetrics(ctx context.Context, sedeID string, start, end time.Time) (SalesMetrics, error)
	GetTopProducts(ctx context.Context, sedeID string, start, end time.Time, limit int) ([]TopProduct, error)
	CountLowStock(ctx context.Context, sedeID string) (int, error)
	CountOpenTickets(ctx context.Context, sedeID string) (int, error)
}
