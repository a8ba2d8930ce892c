package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un bien del inventario. Cost es promedio ponderado calculado desde
// los ingresos; la existencia se maneja por sede en Stock.
type Product struct {
	ID          string
	Code        string // código/SKU único
	Name        string
	Description string
	CategoryID  string
	ProviderID  string          // opcional
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	TaxRate     decimal.Decimal // IVA en porcentaje: 0, 5 o 19
	Unit        string
	MinStock    decimal.Decimal // stock mínimo por sede para alertas de reposición
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidTaxRate indica si la tasa de IVA es una de las permitidas (0, 5, 19).
func ValidTaxRate(rate decimal.Decimal) bool {
	for _, r := range []int64{0, 5, 19} {
		if rate.Equal(decimal.NewFromInt(r)) {
			return true
		}
	}
	return false
}
