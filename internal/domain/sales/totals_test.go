package sales_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/sales"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineAmounts_ConIVA19(t *testing.T) {
	sub, tax, total := sales.LineAmounts(d("3"), d("1000"), d("500"), d("19"))
	assert.True(t, sub.Equal(d("2500")), "subtotal %s", sub)
	assert.True(t, tax.Equal(d("475")), "iva %s", tax)
	assert.True(t, total.Equal(d("2975")), "total %s", total)
}

func TestLineAmounts_Redondeo(t *testing.T) {
	sub, tax, _ := sales.LineAmounts(d("1"), d("10.005"), decimal.Zero, d("5"))
	assert.Equal(t, "10.01", sub.StringFixed(2))
	assert.Equal(t, "0.5", tax.String())
}

func TestApplyTotals_SumaCabecera(t *testing.T) {
	s := &entity.Sale{Items: []entity.SaleItem{
		{Quantity: d("2"), UnitPrice: d("100"), Discount: decimal.Zero, TaxRate: d("19"), UnitCost: d("60")},
		{Quantity: d("1"), UnitPrice: d("50"), Discount: d("10"), TaxRate: decimal.Zero, UnitCost: d("20")},
	}}
	sales.ApplyTotals(s)

	assert.True(t, s.Subtotal.Equal(d("240")))
	assert.True(t, s.Discount.Equal(d("10")))
	assert.True(t, s.Tax.Equal(d("38")))
	assert.True(t, s.Total.Equal(d("278")))
	// (200 - 120) + (40 - 20)
	assert.True(t, sales.Margin(s).Equal(d("100")))
}
