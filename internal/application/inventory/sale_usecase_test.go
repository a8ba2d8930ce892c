package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// stocked deja 5 cafés a 1000 y 1 azúcar a 500 en la sede norte.
func stocked(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	_, err := f.entries().Register(f.ctx, admin, dto.RegisterStockEntryRequest{
		SedeID:     sedeNorte,
		ProviderID: provID,
		Items: []dto.StockEntryItemRequest{
			{ProductID: prodCafe, Quantity: dec("5"), UnitCost: dec("1000")},
			{ProductID: prodAzuc, Quantity: dec("1"), UnitCost: dec("500")},
		},
	})
	require.NoError(t, err)
	return f
}

func TestSale_RegistraTotalesYDescuentaStock(t *testing.T) {
	f := stocked(t)
	out, err := f.sales().Register(f.ctx, vendedor, dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: prodCafe, Quantity: dec("2")}},
	})
	require.NoError(t, err)

	assert.Equal(t, "V-NOR-1", out.Number)
	assert.Equal(t, sedeNorte, out.SedeID)
	assert.Equal(t, entity.PaymentCash, out.PaymentMethod)
	assert.True(t, out.Subtotal.Equal(dec("20000")))
	assert.True(t, out.Tax.Equal(dec("3800")))
	assert.True(t, out.Total.Equal(dec("23800")))
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].UnitCost.Equal(dec("1000")), "el costo se congela al momento de la venta")

	assert.True(t, f.qty(t, prodCafe, sedeNorte).Equal(dec("3")))
}

func TestSale_FaltanteEsTodoONada(t *testing.T) {
	f := stocked(t)
	_, err := f.sales().Register(f.ctx, vendedor, dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: prodCafe, Quantity: dec("2")},
			{ProductID: prodAzuc, Quantity: dec("3")},
		},
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, prodAzuc, stockErr.Shortages[0].ProductID)
	assert.Equal(t, "1", stockErr.Shortages[0].Available)
	assert.Equal(t, "3", stockErr.Shortages[0].Requested)

	// Ni el café ni el consecutivo se consumieron.
	assert.True(t, f.qty(t, prodCafe, sedeNorte).Equal(dec("5")))
	out, err := f.sales().Register(f.ctx, vendedor, dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: prodAzuc, Quantity: dec("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "V-NOR-1", out.Number)
}

func TestSale_LineasRepetidasSeAgrupan(t *testing.T) {
	f := stocked(t)
	_, err := f.sales().Register(f.ctx, vendedor, dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: prodCafe, Quantity: dec("3")},
			{ProductID: prodCafe, Quantity: dec("3")},
		},
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "6", stockErr.Shortages[0].Requested)
}

func TestSale_LineasRepetidasConOtroPrecioSeRechazan(t *testing.T) {
	f := stocked(t)
	_, err := f.sales().Register(f.ctx, vendedor, dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: prodCafe, Quantity: dec("1"), UnitPrice: ptrDec("10000")},
			{ProductID: prodCafe, Quantity: dec("1"), UnitPrice: ptrDec("20000")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr domain.ValidationErrors
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr, 1)
	assert.Equal(t, "items[1].unit_price", verr[0].Field)
	assert.True(t, f.qty(t, prodCafe, sedeNorte).Equal(dec("5")))
}

func TestSale_LineasRepetidasConMismoPrecioSumanSubtotal(t *testing.T) {
	f := stocked(t)
	out, err := f.sales().Register(f.ctx, vendedor, dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: prodCafe, Quantity: dec("1"), UnitPrice: ptrDec("10000")},
			// Sin precio toma el del producto, que es el mismo.
			{ProductID: prodCafe, Quantity: dec("2")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Quantity.Equal(dec("3")))
	assert.True(t, out.Subtotal.Equal(dec("30000")))
	assert.True(t, f.qty(t, prodCafe, sedeNorte).Equal(dec("2")))
}

func TestSale_DescuentoExcedidoUsaIndiceDeLaSolicitud(t *testing.T) {
	f := stocked(t)
	// Al ordenar por producto el café pasa de primero a último; el error
	// debe apuntar a la posición que envió el cliente.
	_, err := f.sales().Register(f.ctx, vendedor, dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: prodCafe, Quantity: dec("1"), Discount: dec("50000")},
			{ProductID: prodAzuc, Quantity: dec("1")},
		},
	})
	var verr domain.ValidationErrors
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr, 1)
	assert.Equal(t, "items[0].discount", verr[0].Field)
}

func TestSale_SedeNoAsignada(t *testing.T) {
	f := stocked(t)
	_, err := f.sales().Register(f.ctx, vendedor, dto.RegisterSaleRequest{
		SedeID: sedeSur,
		Items:  []dto.SaleItemRequest{{ProductID: prodCafe, Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrSedeNotAssigned)
}

func TestSale_AnulacionDevuelveStock(t *testing.T) {
	f := stocked(t)
	uc := f.sales()
	sale, err := uc.Register(f.ctx, vendedor, dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: prodCafe, Quantity: dec("4")}},
	})
	require.NoError(t, err)

	_, err = uc.Void(f.ctx, vendedor, sale.ID, dto.VoidSaleRequest{Reason: "error"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Void(f.ctx, admin, sale.ID, dto.VoidSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el motivo es obligatorio")

	voided, err := uc.Void(f.ctx, admin, sale.ID, dto.VoidSaleRequest{Reason: "devolución"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusVoided, voided.Status)
	assert.Equal(t, "devolución", voided.VoidReason)
	assert.True(t, f.qty(t, prodCafe, sedeNorte).Equal(dec("5")))

	_, err = uc.Void(f.ctx, admin, sale.ID, dto.VoidSaleRequest{Reason: "otra vez"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	movs, err := f.repos.Movements.List(f.ctx, repository.MovementFilter{ProductID: prodCafe})
	require.NoError(t, err)
	var voids []*entity.Movement
	for _, m := range movs {
		if m.Type == entity.MovementTypeVoid {
			voids = append(voids, m)
		}
	}
	require.Len(t, voids, 1)
	assert.Equal(t, sale.Number, voids[0].Reference)
	assert.True(t, voids[0].Quantity.Equal(dec("4")))
}

func TestSale_ListFiltraPorSedesPermitidas(t *testing.T) {
	f := stocked(t)
	_, err := f.entries().Register(f.ctx, admin, entryReq(sedeSur, prodCafe, "5", "1000"))
	require.NoError(t, err)
	uc := f.sales()
	_, err = uc.Register(f.ctx, admin, dto.RegisterSaleRequest{SedeID: sedeSur, Items: []dto.SaleItemRequest{{ProductID: prodCafe, Quantity: dec("1")}}})
	require.NoError(t, err)
	_, err = uc.Register(f.ctx, vendedor, dto.RegisterSaleRequest{Items: []dto.SaleItemRequest{{ProductID: prodCafe, Quantity: dec("1")}}})
	require.NoError(t, err)

	all, err := uc.List(f.ctx, admin, dto.SaleListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)

	own, err := uc.List(f.ctx, vendedor, dto.SaleListRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, own.Page.Total)
	assert.Equal(t, sedeNorte, own.Items[0].SedeID)

	_, err = uc.List(f.ctx, vendedor, dto.SaleListRequest{SedeID: sedeSur})
	assert.ErrorIs(t, err, domain.ErrSedeNotAssigned)
}
