package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-sedes/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 unidades a 100 + 30 unidades a 200 = 7000 / 40 = 175
	got := inventory.CostCalculator(d("10"), d("100"), d("30"), d("200"))
	assert.True(t, got.Equal(d("175")), "esperado 175, obtenido %s", got)
}

func TestCostCalculator_SinStockPrevio(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, decimal.Zero, d("5"), d("12.5"))
	assert.True(t, got.Equal(d("12.5")))
}

func TestCostCalculator_StockNegativoSeIgnora(t *testing.T) {
	got := inventory.CostCalculator(d("-3"), d("90"), d("2"), d("50"))
	assert.True(t, got.Equal(d("50")))
}

func TestCostCalculator_SumaCero(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, d("10"), decimal.Zero, d("10"))
	assert.True(t, got.IsZero())
}
