package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
)

const (
	sedeNorte = "sede-norte"
	sedeSur   = "sede-sur"
	prodCafe  = "prod-cafe"
	prodAzuc  = "prod-azucar"
	provID    = "prov-1"
)

var (
	admin     = access.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	bodeguero = access.Actor{UserID: "u-bod", Role: entity.RoleBodeguero, SedeID: sedeNorte}
	vendedor  = access.Actor{UserID: "u-vend", Role: entity.RoleVendedor, SedeID: sedeNorte}
)

type fixture struct {
	ctx   context.Context
	repos memory.Repos
	tx    *memory.TxRunner
	guard *access.Guard
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// newFixture dos sedes, dos productos sin existencias, un proveedor y usuarios bodeguero
// y vendedor asignados solo a la sede norte.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	now := time.Now()

	for _, s := range []entity.Sede{
		{ID: sedeNorte, Name: "Norte", Prefix: "NOR", Active: true, CreatedAt: now},
		{ID: sedeSur, Name: "Sur", Prefix: "SUR", Active: true, CreatedAt: now},
	} {
		s := s
		require.NoError(t, repos.Sedes.Create(ctx, &s))
	}
	for _, u := range []entity.User{
		{ID: bodeguero.UserID, Email: "bod@x.co", Name: "Bodega", Role: entity.RoleBodeguero, Status: entity.UserStatusActive, SedeIDs: []string{sedeNorte}},
		{ID: vendedor.UserID, Email: "vend@x.co", Name: "Ventas", Role: entity.RoleVendedor, Status: entity.UserStatusActive, SedeIDs: []string{sedeNorte}},
		{ID: admin.UserID, Email: "admin@x.co", Name: "Admin", Role: entity.RoleAdmin, Status: entity.UserStatusActive},
	} {
		u := u
		require.NoError(t, repos.Users.Create(ctx, &u))
	}
	for _, p := range []entity.Product{
		{ID: prodCafe, Code: "CAF", Name: "Café", Price: dec("10000"), TaxRate: dec("19"), MinStock: dec("5"), Active: true, CreatedAt: now},
		{ID: prodAzuc, Code: "AZU", Name: "Azúcar", Price: dec("4000"), TaxRate: dec("5"), MinStock: dec("2"), Active: true, CreatedAt: now},
	} {
		p := p
		require.NoError(t, repos.Products.Create(ctx, &p))
	}
	require.NoError(t, repos.Providers.Create(ctx, &entity.Provider{ID: provID, Name: "Distribuidora", NIT: "900123456", Active: true, CreatedAt: now}))

	return &fixture{ctx: ctx, repos: repos, tx: memory.NewTxRunner(store), guard: access.NewGuard(repos.Users, repos.Sedes)}
}

func (f *fixture) qty(t *testing.T, productID, sedeID string) decimal.Decimal {
	t.Helper()
	s, err := f.repos.Stock.Get(f.ctx, productID, sedeID)
	require.NoError(t, err)
	return s.Quantity
}

func (f *fixture) cost(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	p, err := f.repos.Products.GetByID(f.ctx, productID)
	require.NoError(t, err)
	return p.Cost
}

func (f *fixture) entries() *inventory.StockEntryUseCase {
	return inventory.NewStockEntryUseCase(f.tx, f.repos.Entries, f.repos.Providers, f.guard, nil)
}

func (f *fixture) sales() *inventory.SaleUseCase {
	return inventory.NewSaleUseCase(f.tx, f.repos.Sales, f.guard, nil)
}

func (f *fixture) stock() *inventory.StockUseCase {
	return inventory.NewStockUseCase(f.tx, f.repos.Stock, f.repos.Movements, f.repos.Products, f.guard, nil)
}

func inventoryExits(f *fixture) *inventory.StockExitUseCase {
	return inventory.NewStockExitUseCase(f.tx, f.repos.Exits, f.guard, nil)
}
