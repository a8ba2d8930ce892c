package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
)

const sedeID = "sede-1"

var (
	admin     = access.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	bodeguero = access.Actor{UserID: "u-bod", Role: entity.RoleBodeguero, SedeID: sedeID}
	vendedor  = access.Actor{UserID: "u-vend", Role: entity.RoleVendedor, SedeID: sedeID}
)

type env struct {
	ctx   context.Context
	repos memory.Repos
	tx    *memory.TxRunner
	guard *access.Guard
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	now := time.Now()
	require.NoError(t, repos.Sedes.Create(ctx, &entity.Sede{ID: sedeID, Name: "Principal", Prefix: "PRI", Active: true, CreatedAt: now}))
	for _, u := range []entity.User{
		{ID: admin.UserID, Email: "admin@x.co", Name: "Admin", Role: entity.RoleAdmin, Status: entity.UserStatusActive},
		{ID: bodeguero.UserID, Email: "bod@x.co", Name: "Bodega", Role: entity.RoleBodeguero, Status: entity.UserStatusActive, SedeIDs: []string{sedeID}},
		{ID: vendedor.UserID, Email: "vend@x.co", Name: "Ventas", Role: entity.RoleVendedor, Status: entity.UserStatusActive, SedeIDs: []string{sedeID}},
	} {
		u := u
		require.NoError(t, repos.Users.Create(ctx, &u))
	}
	return &env{ctx: ctx, repos: repos, tx: memory.NewTxRunner(store), guard: access.NewGuard(repos.Users, repos.Sedes)}
}

func (e *env) products() *usecase.ProductUseCase {
	return usecase.NewProductUseCase(e.repos.Products, e.repos.Categories, e.repos.Providers, e.repos.Stock, e.tx, e.guard)
}

func (e *env) category(t *testing.T, code, parentID string) *dto.CategoryResponse {
	t.Helper()
	c, err := usecase.NewCategoryUseCase(e.repos.Categories).Create(e.ctx, dto.CreateCategoryRequest{Name: "Cat " + code, Code: code, ParentID: parentID})
	require.NoError(t, err)
	return c
}

func strp(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategory_NoPermiteCiclos(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewCategoryUseCase(e.repos.Categories)
	root := e.category(t, "beb", "")
	child := e.category(t, "GAS", root.ID)
	grand := e.category(t, "COL", child.ID)
	assert.Equal(t, "BEB", root.Code, "el código se normaliza en mayúsculas")

	_, err := uc.Update(e.ctx, root.ID, dto.UpdateCategoryRequest{ParentID: strp(grand.ID)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(e.ctx, root.ID, dto.UpdateCategoryRequest{ParentID: strp(root.ID)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Mover la nieta a la raíz sí es válido.
	moved, err := uc.Update(e.ctx, grand.ID, dto.UpdateCategoryRequest{ParentID: strp(root.ID)})
	require.NoError(t, err)
	assert.Equal(t, root.ID, moved.ParentID)

	_, err = uc.Create(e.ctx, dto.CreateCategoryRequest{Name: "Huérfana", Code: "HUE", ParentID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategory_DeleteConHijasOProductos(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewCategoryUseCase(e.repos.Categories)
	root := e.category(t, "ASE", "")
	child := e.category(t, "JAB", root.ID)

	assert.ErrorIs(t, uc.Delete(e.ctx, root.ID), domain.ErrConflict)

	_, err := e.products().Create(e.ctx, admin, dto.CreateProductRequest{Code: "JAB-1", Name: "Jabón", CategoryID: child.ID, Price: decimal.NewFromInt(3000)})
	require.NoError(t, err)
	assert.ErrorIs(t, uc.Delete(e.ctx, child.ID), domain.ErrConflict)

	empty := e.category(t, "VAC", "")
	require.NoError(t, uc.Delete(e.ctx, empty.ID))
	assert.ErrorIs(t, uc.Delete(e.ctx, empty.ID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_CreateConExistenciaInicial(t *testing.T) {
	e := newEnv(t)
	cat := e.category(t, "GRA", "")

	out, err := e.products().Create(e.ctx, bodeguero, dto.CreateProductRequest{
		Code: "arr-1", Name: "Arroz", CategoryID: cat.ID, Price: decimal.NewFromInt(5000), TaxRate: decimal.NewFromInt(5),
		InitialCost:  decimal.NewFromInt(3200),
		InitialStock: []dto.InitialStockRequest{{SedeID: sedeID, Quantity: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ARR-1", out.Code)
	assert.Equal(t, "UND", out.Unit)
	require.Len(t, out.Stock, 1)
	assert.True(t, out.Stock[0].Quantity.Equal(decimal.NewFromInt(10)))

	p, err := e.repos.Products.GetByID(e.ctx, out.ID)
	require.NoError(t, err)
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(3200)))

	_, err = e.products().Create(e.ctx, admin, dto.CreateProductRequest{Code: "ARR-1", Name: "Otro", CategoryID: cat.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_CreateValidaciones(t *testing.T) {
	e := newEnv(t)
	cat := e.category(t, "GRA", "")

	_, err := e.products().Create(e.ctx, admin, dto.CreateProductRequest{Code: "X", Name: "X", CategoryID: cat.ID, TaxRate: decimal.NewFromInt(16)})
	var verr domain.ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tax_rate", verr[0].Field)

	_, err = e.products().Create(e.ctx, admin, dto.CreateProductRequest{Code: "X", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// El vendedor puede crear fichas pero no cargar existencias.
	_, err = e.products().Create(e.ctx, vendedor, dto.CreateProductRequest{
		Code: "Y", Name: "Y", CategoryID: cat.ID,
		InitialStock: []dto.InitialStockRequest{{SedeID: sedeID, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

const importCSV = "codigo,nombre,descripcion,categoria_codigo,precio_venta,tasa_iva,unidad,stock_minimo\n" +
	"caf-1,Café,Tostado,BEB,\"12000,50\",19,UND,4\n" +
	"caf-2,Café descafeinado,,BEB,13000,19,,2\n" +
	"mal-1,Sin categoría,,NOPE,1000,0,,0\n" +
	"mal-2,Precio raro,,BEB,abc,0,,0\n" +
	",,,,,,,\n"

func TestProduct_ImportCreaYReportaErrores(t *testing.T) {
	e := newEnv(t)
	e.category(t, "BEB", "")

	res, err := e.products().Import(e.ctx, strings.NewReader(importCSV), "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 4, res.Errors[0].Row)
	assert.Equal(t, "MAL-1", res.Errors[0].Code)
	assert.Equal(t, 5, res.Errors[1].Row)

	p, err := e.repos.Products.GetByCode(e.ctx, "CAF-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("12000.50")), "acepta coma decimal")
	assert.True(t, p.Cost.IsZero())
}

func TestProduct_ImportModos(t *testing.T) {
	e := newEnv(t)
	e.category(t, "BEB", "")
	uc := e.products()
	_, err := uc.Import(e.ctx, strings.NewReader(importCSV), usecase.ImportModeSkip)
	require.NoError(t, err)

	again := "codigo,nombre,categoria_codigo,precio_venta\nCAF-1,Café premium,BEB,15000\n"
	res, err := uc.Import(e.ctx, strings.NewReader(again), usecase.ImportModeSkip)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)

	res, err = uc.Import(e.ctx, strings.NewReader(again), usecase.ImportModeUpdate)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	p, err := e.repos.Products.GetByCode(e.ctx, "CAF-1")
	require.NoError(t, err)
	assert.Equal(t, "Café premium", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(15000)))
}

func TestProduct_ImportCabeceraInvalida(t *testing.T) {
	e := newEnv(t)
	_, err := e.products().Import(e.ctx, strings.NewReader("sku,titulo\nA,B\n"), "")
	assert.ErrorIs(t, err, usecase.ErrInvalidCSV)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.products().Import(e.ctx, strings.NewReader(""), "")
	assert.ErrorIs(t, err, usecase.ErrInvalidCSV)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y sedes
// ──────────────────────────────────────────────────────────────────────────────

func TestUser_CreateValidaYDetectaDuplicado(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewUserUseCase(e.repos.Users, e.repos.Sedes)

	_, err := uc.Create(e.ctx, dto.CreateUserRequest{Email: "no-es-email", Password: "corta", Role: "jefe"})
	var verr domain.ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr, 4)

	_, err = uc.Create(e.ctx, dto.CreateUserRequest{Email: "nuevo@x.co", Password: "clave-segura", Name: "Nuevo", Role: entity.RoleVendedor, SedeIDs: []string{"no-existe"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := uc.Create(e.ctx, dto.CreateUserRequest{Email: "  Nuevo@X.co ", Password: "clave-segura", Name: "Nuevo", Role: entity.RoleVendedor, SedeIDs: []string{sedeID, sedeID}})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@x.co", u.Email)
	assert.Equal(t, []string{sedeID}, u.SedeIDs)

	_, err = uc.Create(e.ctx, dto.CreateUserRequest{Email: "nuevo@x.co", Password: "clave-segura", Name: "Otro", Role: entity.RoleVendedor})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestSede_DeleteConActividadEsConflicto(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewSedeUseCase(e.repos.Sedes)
	cat := e.category(t, "GRA", "")
	_, err := e.products().Create(e.ctx, admin, dto.CreateProductRequest{
		Code: "ARR", Name: "Arroz", CategoryID: cat.ID, InitialCost: decimal.NewFromInt(100),
		InitialStock: []dto.InitialStockRequest{{SedeID: sedeID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, uc.Delete(e.ctx, sedeID), domain.ErrConflict)

	nueva, err := uc.Create(e.ctx, dto.CreateSedeRequest{Name: "Vacía", Prefix: "VAC"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(e.ctx, nueva.ID))
}

func TestProvider_DeleteConIngresosEsConflicto(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewProviderUseCase(e.repos.Providers)
	prov, err := uc.Create(e.ctx, dto.CreateProviderRequest{Name: "Distribuidora", NIT: "900123456", Email: "Ventas@Distri.co"})
	require.NoError(t, err)
	assert.Equal(t, "ventas@distri.co", prov.Email)

	_, err = uc.Create(e.ctx, dto.CreateProviderRequest{Name: "Copia", NIT: "900123456"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	cat := e.category(t, "GRA", "")
	p, err := e.products().Create(e.ctx, admin, dto.CreateProductRequest{Code: "ARR", Name: "Arroz", CategoryID: cat.ID})
	require.NoError(t, err)
	entries := inventory.NewStockEntryUseCase(e.tx, e.repos.Entries, e.repos.Providers, e.guard, nil)
	_, err = entries.Register(e.ctx, bodeguero, dto.RegisterStockEntryRequest{
		ProviderID: prov.ID,
		Items:      []dto.StockEntryItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(900)}},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, uc.Delete(e.ctx, prov.ID), domain.ErrConflict)

	libre, err := uc.Create(e.ctx, dto.CreateProviderRequest{Name: "Sin compras", NIT: "800111222"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(e.ctx, libre.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tickets
// ──────────────────────────────────────────────────────────────────────────────

func TestTicket_FlujoDeEstados(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewTicketUseCase(e.repos.Tickets, e.repos.Users, e.repos.Sedes)

	tk, err := uc.Create(e.ctx, vendedor, dto.CreateTicketRequest{Subject: "Nevera dañada", SedeID: sedeID})
	require.NoError(t, err)
	assert.Equal(t, entity.TicketOpen, tk.Status)
	assert.Equal(t, entity.PriorityMedium, tk.Priority)

	_, err = uc.Assign(e.ctx, vendedor, tk.ID, dto.AssignTicketRequest{UserID: bodeguero.UserID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Antes de asignarlo el bodeguero no lo ve.
	_, err = uc.GetByID(e.ctx, bodeguero, tk.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	tk, err = uc.Assign(e.ctx, admin, tk.ID, dto.AssignTicketRequest{UserID: bodeguero.UserID})
	require.NoError(t, err)
	assert.Equal(t, bodeguero.UserID, tk.AssignedTo)

	_, err = uc.ChangeStatus(e.ctx, bodeguero, tk.ID, dto.ChangeTicketStatusRequest{Status: entity.TicketResolved})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	for _, st := range []string{entity.TicketInProgress, entity.TicketResolved, entity.TicketClosed} {
		tk, err = uc.ChangeStatus(e.ctx, bodeguero, tk.ID, dto.ChangeTicketStatusRequest{Status: st})
		require.NoError(t, err, st)
	}
	_, err = uc.Assign(e.ctx, admin, tk.ID, dto.AssignTicketRequest{UserID: vendedor.UserID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	tk, err = uc.Comment(e.ctx, vendedor, tk.ID, dto.CommentTicketRequest{Text: "gracias"})
	require.NoError(t, err)
	require.Len(t, tk.Comments, 1)
	assert.Equal(t, vendedor.UserID, tk.Comments[0].UserID)
}

func TestTicket_ListSoloPropiosParaNoAdmin(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewTicketUseCase(e.repos.Tickets, e.repos.Users, e.repos.Sedes)
	_, err := uc.Create(e.ctx, vendedor, dto.CreateTicketRequest{Subject: "A"})
	require.NoError(t, err)
	_, err = uc.Create(e.ctx, bodeguero, dto.CreateTicketRequest{Subject: "B", Priority: entity.PriorityHigh})
	require.NoError(t, err)

	mine, err := uc.List(e.ctx, vendedor, dto.TicketListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Page.Total)

	all, err := uc.List(e.ctx, admin, dto.TicketListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)

	high, err := uc.List(e.ctx, admin, dto.TicketListRequest{Priority: entity.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, 1, high.Page.Total)

	_, err = uc.Create(e.ctx, vendedor, dto.CreateTicketRequest{Subject: "C", Priority: "urgente"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
