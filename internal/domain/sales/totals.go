// Package sales contiene las reglas de cálculo de totales de una venta.
package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// LineAmounts calcula los valores de una línea de venta.
// subtotal = cantidad*precio - descuento; iva = subtotal*tasa/100; total = subtotal + iva.
// Los montos se redondean a 2 decimales.
func LineAmounts(qty, unitPrice, discount, taxRate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	gross := qty.Mul(unitPrice)
	subtotal = gross.Sub(discount).Round(2)
	tax = subtotal.Mul(taxRate).Div(hundred).Round(2)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

// ApplyTotals completa los montos de cada línea y la cabecera de la venta.
func ApplyTotals(s *entity.Sale) {
	s.Subtotal, s.Discount, s.Tax, s.Total = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for i := range s.Items {
		it := &s.Items[i]
		it.Subtotal, it.Tax, it.Total = LineAmounts(it.Quantity, it.UnitPrice, it.Discount, it.TaxRate)
		s.Subtotal = s.Subtotal.Add(it.Subtotal)
		s.Discount = s.Discount.Add(it.Discount)
		s.Tax = s.Tax.Add(it.Tax)
		s.Total = s.Total.Add(it.Total)
	}
}

// Margin devuelve la utilidad bruta de la venta (subtotal sin IVA menos costo).
func Margin(s *entity.Sale) decimal.Decimal {
	m := decimal.Zero
	for _, it := range s.Items {
		m = m.Add(it.Subtotal.Sub(it.Quantity.Mul(it.UnitCost)))
	}
	return m.Round(2)
}
