package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/analytics"
	"github.com/jhoicas/inventario-sedes/internal/application/auth"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/session"
	apphttp "github.com/jhoicas/inventario-sedes/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-sedes/pkg/jwt"
)

const (
	apiSedeID    = "11111111-1111-1111-1111-111111111111"
	apiProductID = "22222222-2222-2222-2222-222222222222"
	apiPassword  = "clave-segura-123"
)

// newAPI arma la API completa sobre el store en memoria con una sede, un producto
// con 2 unidades en esa sede, un admin y un vendedor asignado a la sede.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	tx := memory.NewTxRunner(store)
	now := time.Now()

	hash, err := bcrypt.GenerateFromPassword([]byte(apiPassword), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, repos.Sedes.Create(ctx, &entity.Sede{ID: apiSedeID, Name: "Centro", Prefix: "CEN", Active: true, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{
		ID: "admin-1", Email: "admin@tienda.co", PasswordHash: string(hash), Name: "Admin",
		Role: entity.RoleAdmin, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{
		ID: "vend-1", Email: "vendedor@tienda.co", PasswordHash: string(hash), Name: "Vendedor",
		Role: entity.RoleVendedor, Status: entity.UserStatusActive, SedeIDs: []string{apiSedeID}, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: apiProductID, Code: "CAF-001", Name: "Café molido", Price: decimal.NewFromInt(1000),
		Cost: decimal.NewFromInt(600), TaxRate: decimal.NewFromInt(19), Unit: "und",
		MinStock: decimal.NewFromInt(1), Active: true, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repos.Stock.Upsert(ctx, &entity.Stock{ProductID: apiProductID, SedeID: apiSedeID, Quantity: decimal.NewFromInt(2), UpdatedAt: now}))

	guard := access.NewGuard(repos.Users, repos.Sedes)
	issuer := pkgjwt.NewIssuer(testJWTSecret, testIssuer, testExpMin)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:          auth.NewAuthUseCase(repos.Users, repos.Sedes, issuer, session.NewMemoryStore()),
		UserUC:          usecase.NewUserUseCase(repos.Users, repos.Sedes),
		SedeUC:          usecase.NewSedeUseCase(repos.Sedes),
		CategoryUC:      usecase.NewCategoryUseCase(repos.Categories),
		ProviderUC:      usecase.NewProviderUseCase(repos.Providers),
		ProductUC:       usecase.NewProductUseCase(repos.Products, repos.Categories, repos.Providers, repos.Stock, tx, guard),
		TicketUC:        usecase.NewTicketUseCase(repos.Tickets, repos.Users, repos.Sedes),
		StockUC:         inventory.NewStockUseCase(tx, repos.Stock, repos.Movements, repos.Products, guard, nil),
		ReplenishmentUC: inventory.NewReplenishmentUseCase(repos.Stock, guard),
		SaleUC:          inventory.NewSaleUseCase(tx, repos.Sales, guard, nil),
		StockEntryUC:    inventory.NewStockEntryUseCase(tx, repos.Entries, repos.Providers, guard, nil),
		StockExitUC:     inventory.NewStockExitUseCase(tx, repos.Exits, guard, nil),
		DashboardUC:     analytics.NewDashboardUseCase(repos.Analytics, guard),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": apiPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func saleBody(qty int64) map[string]any {
	return map[string]any{
		"sede_id": apiSedeID,
		"items":   []map[string]any{{"product_id": apiProductID, "quantity": qty}},
	}
}

func TestAPI_LoginCredencialesInvalidas(t *testing.T) {
	app := newAPI(t)
	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@tienda.co", "password": "otra"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
}

func TestAPI_VendedorLoginUsaSedeAsignada(t *testing.T) {
	app := newAPI(t)
	tok := login(t, app, "vendedor@tienda.co")

	resp, body := call(t, app, http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, apiSedeID, body["active_sede_id"])
}

func TestAPI_VentaSinStockRespondeDetalle(t *testing.T) {
	app := newAPI(t)
	tok := login(t, app, "admin@tienda.co")

	resp, body := call(t, app, http.MethodPost, "/api/ventas", tok, saleBody(5))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	details, ok := body["details"].([]any)
	require.True(t, ok, "details debe ser una lista")
	require.Len(t, details, 1)
	shortage := details[0].(map[string]any)
	assert.Equal(t, apiProductID, shortage["product_id"])
	assert.Equal(t, "2", shortage["available"])
	assert.Equal(t, "5", shortage["requested"])

	// La venta rechazada no toca el inventario.
	resp, body = call(t, app, http.MethodGet, "/api/inventario/stock?product_id="+apiProductID+"&sede_id="+apiSedeID, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2", body["quantity"])
}

func TestAPI_VentaSinItemsEsValidacion(t *testing.T) {
	app := newAPI(t)
	tok := login(t, app, "admin@tienda.co")

	resp, body := call(t, app, http.MethodPost, "/api/ventas", tok, map[string]any{"sede_id": apiSedeID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.NotEmpty(t, body["details"])
}

func TestAPI_VendedorRegistraPeroNoAnula(t *testing.T) {
	app := newAPI(t)
	tok := login(t, app, "vendedor@tienda.co")

	resp, body := call(t, app, http.MethodPost, "/api/ventas", tok, map[string]any{
		"items": []map[string]any{{"product_id": apiProductID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "V-CEN-1", body["number"])
	saleID, _ := body["id"].(string)

	resp, _ = call(t, app, http.MethodPost, "/api/ventas/"+saleID+"/anular", tok, map[string]string{"reason": "error"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := login(t, app, "admin@tienda.co")
	resp, body = call(t, app, http.MethodPost, "/api/ventas/"+saleID+"/anular", admin, map[string]string{"reason": "cliente desistió"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, entity.SaleStatusVoided, body["status"])
}

func TestAPI_VendedorNoAccedeUsuarios(t *testing.T) {
	app := newAPI(t)
	tok := login(t, app, "vendedor@tienda.co")

	resp, _ := call(t, app, http.MethodGet, "/api/usuarios", tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_LogoutRevocaToken(t *testing.T) {
	app := newAPI(t)
	tok := login(t, app, "admin@tienda.co")

	resp, _ := call(t, app, http.MethodPost, "/api/auth/logout", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := call(t, app, http.MethodGet, "/api/auth/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAPI_FechaInvalidaEnKardex(t *testing.T) {
	app := newAPI(t)
	tok := login(t, app, "admin@tienda.co")

	resp, _ := call(t, app, http.MethodGet, "/api/inventario/kardex/"+apiProductID+"?desde=31-05-2024", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
