package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

func ptrDec(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func TestAdjust_ConteoFisicoYDelta(t *testing.T) {
	f := stocked(t)
	uc := f.stock()

	out, err := uc.Adjust(f.ctx, bodeguero, dto.AdjustStockRequest{ProductID: prodCafe, NewQuantity: ptrDec("7"), Reason: "conteo mensual"})
	require.NoError(t, err)
	require.Len(t, out.Stock, 1)
	assert.True(t, out.Stock[0].Quantity.Equal(dec("7")))

	_, err = uc.Adjust(f.ctx, bodeguero, dto.AdjustStockRequest{ProductID: prodCafe, Delta: ptrDec("-2"), Reason: "rotura"})
	require.NoError(t, err)
	assert.True(t, f.qty(t, prodCafe, sedeNorte).Equal(dec("5")))

	_, err = uc.Adjust(f.ctx, bodeguero, dto.AdjustStockRequest{ProductID: prodCafe, Delta: ptrDec("-6"), Reason: "rotura"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.qty(t, prodCafe, sedeNorte).Equal(dec("5")))
}

func TestAdjust_Validaciones(t *testing.T) {
	f := stocked(t)
	uc := f.stock()

	cases := map[string]dto.AdjustStockRequest{
		"sin cantidad": {ProductID: prodCafe, Reason: "x"},
		"ambas":        {ProductID: prodCafe, NewQuantity: ptrDec("1"), Delta: ptrDec("1"), Reason: "x"},
		"sin motivo":   {ProductID: prodCafe, NewQuantity: ptrDec("1")},
		"negativa":     {ProductID: prodCafe, NewQuantity: ptrDec("-1"), Reason: "x"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Adjust(f.ctx, admin, dto.AdjustStockRequest{SedeID: sedeNorte, ProductID: in.ProductID, NewQuantity: in.NewQuantity, Delta: in.Delta, Reason: in.Reason})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := uc.Adjust(f.ctx, vendedor, dto.AdjustStockRequest{ProductID: prodCafe, NewQuantity: ptrDec("1"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTransfer_MueveUnidadesEntreSedes(t *testing.T) {
	f := stocked(t)
	uc := f.stock()

	out, err := uc.Transfer(f.ctx, bodeguero, dto.TransferRequest{ProductID: prodCafe, FromSedeID: sedeNorte, ToSedeID: sedeSur, Quantity: dec("3")})
	require.NoError(t, err)
	assert.NotEmpty(t, out.TransactionID)
	assert.True(t, f.qty(t, prodCafe, sedeNorte).Equal(dec("2")))
	assert.True(t, f.qty(t, prodCafe, sedeSur).Equal(dec("3")))

	movs, err := f.repos.Movements.List(f.ctx, repository.MovementFilter{ProductID: prodCafe})
	require.NoError(t, err)
	transfers := 0
	for _, m := range movs {
		if m.Type == entity.MovementTypeTransfer {
			transfers++
			assert.Equal(t, out.TransactionID, m.TransactionID)
		}
	}
	assert.Equal(t, 2, transfers)

	// El costo no cambia con un traslado.
	assert.True(t, f.cost(t, prodCafe).Equal(dec("1000")))

	// El bodeguero no opera en la sede sur como origen.
	_, err = uc.Transfer(f.ctx, bodeguero, dto.TransferRequest{ProductID: prodCafe, FromSedeID: sedeSur, ToSedeID: sedeNorte, Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrSedeNotAssigned)

	_, err = uc.Transfer(f.ctx, admin, dto.TransferRequest{ProductID: prodCafe, FromSedeID: sedeNorte, ToSedeID: sedeSur, Quantity: dec("9")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.Transfer(f.ctx, admin, dto.TransferRequest{ProductID: prodCafe, FromSedeID: sedeNorte, ToSedeID: sedeNorte, Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKardex_SaldoAcumulado(t *testing.T) {
	f := stocked(t)
	uc := f.stock()
	_, err := f.sales().Register(f.ctx, vendedor, dto.RegisterSaleRequest{Items: []dto.SaleItemRequest{{ProductID: prodCafe, Quantity: dec("2")}}})
	require.NoError(t, err)
	_, err = uc.Transfer(f.ctx, admin, dto.TransferRequest{ProductID: prodCafe, FromSedeID: sedeNorte, ToSedeID: sedeSur, Quantity: dec("1")})
	require.NoError(t, err)

	k, err := uc.Kardex(f.ctx, admin, prodCafe, dto.KardexRequest{SedeID: sedeNorte})
	require.NoError(t, err)
	require.Len(t, k.Lines, 3)
	assert.Equal(t, entity.MovementTypeEntry, k.Lines[0].Type)
	assert.Equal(t, entity.MovementTypeSale, k.Lines[1].Type)
	assert.Equal(t, entity.MovementTypeTransfer, k.Lines[2].Type)
	assert.True(t, k.Lines[0].Balance.Equal(dec("5")))
	assert.True(t, k.Lines[1].Balance.Equal(dec("3")))
	assert.True(t, k.ClosingBalance.Equal(dec("2")))
	assert.True(t, k.ClosingBalance.Equal(f.qty(t, prodCafe, sedeNorte)), "el kardex cuadra con la existencia")

	// Todas las sedes: la entrada y la salida del traslado se compensan.
	all, err := uc.Kardex(f.ctx, admin, prodCafe, dto.KardexRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Lines, 4)
	assert.True(t, all.ClosingBalance.Equal(dec("3")))

	// Un vendedor sin sede explícita ve su sede activa.
	own, err := uc.Kardex(f.ctx, vendedor, prodCafe, dto.KardexRequest{})
	require.NoError(t, err)
	assert.Equal(t, sedeNorte, own.SedeID)

	_, err = uc.Kardex(f.ctx, vendedor, prodCafe, dto.KardexRequest{SedeID: sedeSur})
	assert.ErrorIs(t, err, domain.ErrSedeNotAssigned)
}

func TestListBySede_ValorizaYMarcaBajoMinimo(t *testing.T) {
	f := stocked(t)
	out, err := f.stock().ListBySede(f.ctx, bodeguero, sedeNorte, dto.StockListRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, out.Page.Total)

	byID := map[string]dto.StockLineResponse{}
	for _, it := range out.Items {
		byID[it.ProductID] = it
	}
	assert.False(t, byID[prodCafe].LowStock)
	assert.True(t, byID[prodAzuc].LowStock)
	assert.True(t, out.Valuation.Equal(dec("5500")), "5*1000 + 1*500")

	low, err := f.stock().ListBySede(f.ctx, bodeguero, sedeNorte, dto.StockListRequest{OnlyLowStock: true})
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, prodAzuc, low.Items[0].ProductID)

	_, err = f.stock().ListBySede(f.ctx, bodeguero, sedeSur, dto.StockListRequest{})
	assert.ErrorIs(t, err, domain.ErrSedeNotAssigned)
}

func TestReplenishment_OrdenPorDeficit(t *testing.T) {
	f := stocked(t)
	uc := inventory.NewReplenishmentUseCase(f.repos.Stock, f.guard)

	list, err := uc.GenerateList(f.ctx, admin, "")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{prodCafe, prodAzuc, prodAzuc}, []string{list[0].ProductID, list[1].ProductID, list[2].ProductID})
	assert.Equal(t, sedeSur, list[0].SedeID)
	assert.Equal(t, sedeNorte, list[2].SedeID)

	own, err := uc.GenerateList(f.ctx, bodeguero, "")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, prodAzuc, own[0].ProductID)
	assert.True(t, own[0].SuggestedOrderQty.Equal(dec("2")), "2*1.5 - 1")
}

func TestGetStock_SinFilaEsCero(t *testing.T) {
	f := stocked(t)
	s, err := f.stock().GetStock(f.ctx, admin, prodCafe, sedeSur)
	require.NoError(t, err)
	assert.True(t, s.Quantity.IsZero())

	s, err = f.stock().GetStock(f.ctx, vendedor, prodCafe, "")
	require.NoError(t, err)
	assert.Equal(t, sedeNorte, s.SedeID)
	assert.True(t, s.Quantity.Equal(dec("5")))

	_, err = f.stock().GetStock(f.ctx, admin, "no-existe", sedeNorte)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
