package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
)

type analyticsMock struct{ mock.Mock }

func (m *analyticsMock) GetSalesMetrics(ctx context.Context, sedeID string, start, end time.Time) (repository.SalesMetrics, error) {
	args := m.Called(ctx, sedeID, start, end)
	return args.Get(0).(repository.SalesMetrics), args.Error(1)
}

func (m *analyticsMock) GetTopProducts(ctx context.Context, sedeID string, start, end time.Time, limit int) ([]repository.TopProduct, error) {
	args := m.Called(ctx, sedeID, start, end, limit)
	return args.Get(0).([]repository.TopProduct), args.Error(1)
}

func (m *analyticsMock) CountLowStock(ctx context.Context, sedeID string) (int, error) {
	args := m.Called(ctx, sedeID)
	return args.Int(0), args.Error(1)
}

func (m *analyticsMock) CountOpenTickets(ctx context.Context, sedeID string) (int, error) {
	args := m.Called(ctx, sedeID)
	return args.Int(0), args.Error(1)
}

var (
	fixedNow   = time.Date(2026, time.October, 16, 15, 30, 0, 0, time.UTC)
	todayStart = time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
	todayEnd   = todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart = time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
)

func newDashboard(t *testing.T, repo repository.AnalyticsRepository) *DashboardUseCase {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Sedes.Create(ctx, &entity.Sede{ID: "s1", Name: "Uno", Prefix: "UNO", Active: true}))
	require.NoError(t, repos.Sedes.Create(ctx, &entity.Sede{ID: "s2", Name: "Dos", Prefix: "DOS", Active: true}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "v1", Email: "v@x.co", Role: entity.RoleVendedor, Status: entity.UserStatusActive, SedeIDs: []string{"s1"}}))
	uc := NewDashboardUseCase(repo, access.NewGuard(repos.Users, repos.Sedes))
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestGetSummary_CalculaMargenYTop(t *testing.T) {
	repo := &analyticsMock{}
	repo.On("GetSalesMetrics", mock.Anything, "s1", todayStart, todayEnd).
		Return(repository.SalesMetrics{Count: 2, Revenue: d("11900"), Net: d("10000"), Cost: d("6000")}, nil)
	repo.On("GetSalesMetrics", mock.Anything, "s1", monthStart, todayEnd).
		Return(repository.SalesMetrics{Count: 10, Revenue: d("119000"), Net: d("100000"), Cost: d("75000")}, nil)
	repo.On("GetTopProducts", mock.Anything, "s1", monthStart, todayEnd, dashboardTopProducts).
		Return([]repository.TopProduct{{ProductID: "p1", Code: "CAF", Name: "Café", Units: d("7"), Revenue: d("70000.456")}}, nil)
	repo.On("CountLowStock", mock.Anything, "s1").Return(3, nil)
	repo.On("CountOpenTickets", mock.Anything, "s1").Return(1, nil)

	uc := newDashboard(t, repo)
	out, err := uc.GetSummary(context.Background(), access.Actor{UserID: "v1", Role: entity.RoleVendedor, SedeID: "s1"}, "")
	require.NoError(t, err)
	repo.AssertExpectations(t)

	assert.Equal(t, "s1", out.SedeID)
	assert.Equal(t, "Octubre 2026", out.DateLabel)
	assert.Equal(t, 2, out.Today.Count)
	assert.True(t, out.Today.Margin.Equal(d("4000")))
	assert.True(t, out.Month.Margin.Equal(d("25000")))
	assert.True(t, out.MarginPct.Equal(d("25")), out.MarginPct.String())
	require.Len(t, out.TopProducts, 1)
	assert.True(t, out.TopProducts[0].Revenue.Equal(d("70000.46")))
	assert.Equal(t, 3, out.LowStockCount)
	assert.Equal(t, 1, out.OpenTickets)
}

func TestGetSummary_SinVentasMargenCero(t *testing.T) {
	repo := &analyticsMock{}
	repo.On("GetSalesMetrics", mock.Anything, "", mock.Anything, mock.Anything).Return(repository.SalesMetrics{}, nil)
	repo.On("GetTopProducts", mock.Anything, "", mock.Anything, mock.Anything, mock.Anything).Return([]repository.TopProduct{}, nil)
	repo.On("CountLowStock", mock.Anything, "").Return(0, nil)
	repo.On("CountOpenTickets", mock.Anything, "").Return(0, nil)

	out, err := newDashboard(t, repo).GetSummary(context.Background(), access.Actor{UserID: "a", Role: entity.RoleAdmin}, "")
	require.NoError(t, err)
	assert.True(t, out.MarginPct.IsZero())
	assert.NotNil(t, out.TopProducts)
}

func TestGetSummary_SedeAjenaYErrores(t *testing.T) {
	repo := &analyticsMock{}
	uc := newDashboard(t, repo)
	vend := access.Actor{UserID: "v1", Role: entity.RoleVendedor, SedeID: "s1"}

	_, err := uc.GetSummary(context.Background(), vend, "s2")
	assert.ErrorIs(t, err, domain.ErrSedeNotAssigned)
	repo.AssertNotCalled(t, "CountLowStock", mock.Anything, mock.Anything)

	boom := errors.New("conexión perdida")
	repo.On("GetSalesMetrics", mock.Anything, "s1", mock.Anything, mock.Anything).Return(repository.SalesMetrics{}, nil)
	repo.On("GetTopProducts", mock.Anything, "s1", mock.Anything, mock.Anything, mock.Anything).Return([]repository.TopProduct{}, nil)
	repo.On("CountLowStock", mock.Anything, "s1").Return(0, boom)
	repo.On("CountOpenTickets", mock.Anything, "s1").Return(0, nil)
	_, err = uc.GetSummary(context.Background(), vend, "")
	assert.ErrorIs(t, err, boom)
}
