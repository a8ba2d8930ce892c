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

func entryReq(sedeID, productID, qty, cost string) dto.RegisterStockEntryRequest {
	return dto.RegisterStockEntryRequest{
		SedeID:     sedeID,
		ProviderID: provID,
		Items:      []dto.StockEntryItemRequest{{ProductID: productID, Quantity: dec(qty), UnitCost: dec(cost)}},
	}
}

func TestStockEntry_CostoPromedioPonderadoGlobal(t *testing.T) {
	f := newFixture(t)
	uc := f.entries()

	out, err := uc.Register(f.ctx, admin, entryReq(sedeNorte, prodCafe, "10", "1000"))
	require.NoError(t, err)
	assert.Equal(t, "I-NOR-1", out.Number)
	assert.True(t, f.cost(t, prodCafe).Equal(dec("1000")))

	// El costo se promedia con la existencia de todas las sedes.
	out, err = uc.Register(f.ctx, admin, entryReq(sedeSur, prodCafe, "10", "2000"))
	require.NoError(t, err)
	assert.Equal(t, "I-SUR-1", out.Number)
	assert.True(t, f.cost(t, prodCafe).Equal(dec("1500")), "costo = (10*1000 + 10*2000) / 20")

	assert.True(t, f.qty(t, prodCafe, sedeNorte).Equal(dec("10")))
	assert.True(t, f.qty(t, prodCafe, sedeSur).Equal(dec("10")))

	movs, err := f.repos.Movements.List(f.ctx, repository.MovementFilter{ProductID: prodCafe})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeEntry, m.Type)
	}
}

func TestStockEntry_TotalEsSumaDeSubtotales(t *testing.T) {
	f := newFixture(t)
	in := dto.RegisterStockEntryRequest{
		SedeID:     sedeNorte,
		ProviderID: provID,
		Items: []dto.StockEntryItemRequest{
			{ProductID: prodCafe, Quantity: dec("3"), UnitCost: dec("1500.50")},
			{ProductID: prodAzuc, Quantity: dec("2"), UnitCost: dec("800")},
		},
	}
	out, err := f.entries().Register(f.ctx, bodeguero, in)
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(dec("6101.5")), out.Total.String())
	assert.Len(t, out.Items, 2)
}

func TestStockEntry_Validaciones(t *testing.T) {
	f := newFixture(t)
	uc := f.entries()

	_, err := uc.Register(f.ctx, admin, dto.RegisterStockEntryRequest{SedeID: sedeNorte})
	var verr domain.ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(f.ctx, vendedor, entryReq(sedeNorte, prodCafe, "1", "1"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Register(f.ctx, bodeguero, entryReq(sedeSur, prodCafe, "1", "1"))
	assert.ErrorIs(t, err, domain.ErrSedeNotAssigned)

	_, err = uc.Register(f.ctx, admin, entryReq(sedeNorte, "no-existe", "1", "1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, f.qty(t, prodCafe, sedeNorte).IsZero())
}

func TestStockExit_NoPermiteStockNegativo(t *testing.T) {
	f := newFixture(t)
	_, err := f.entries().Register(f.ctx, admin, entryReq(sedeNorte, prodCafe, "3", "1000"))
	require.NoError(t, err)

	uc := inventoryExits(f)
	_, err = uc.Register(f.ctx, bodeguero, dto.RegisterStockExitRequest{ProductID: prodCafe, Quantity: dec("5"), Reason: entity.ExitReasonShrinkage})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "3", stockErr.Shortages[0].Available)

	out, err := uc.Register(f.ctx, bodeguero, dto.RegisterStockExitRequest{ProductID: prodCafe, Quantity: dec("2"), Reason: entity.ExitReasonShrinkage})
	require.NoError(t, err)
	assert.Equal(t, sedeNorte, out.SedeID, "sin sede explícita usa la sede activa")
	assert.True(t, f.qty(t, prodCafe, sedeNorte).Equal(dec("1")))

	_, err = uc.Register(f.ctx, bodeguero, dto.RegisterStockExitRequest{ProductID: prodCafe, Quantity: dec("1"), Reason: "robo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
