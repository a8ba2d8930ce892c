// Package analytics contiene el caso de uso del panel principal: ventas del día y
// del mes, margen, productos más vendidos y alertas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

const dashboardTopProducts = 5 // número de productos en el widget del dashboard

var hundred = decimal.NewFromInt(100)

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	guard         *access.Guard
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, guard *access.Guard) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, guard: guard, now: time.Now}
}

// GetSummary construye el resumen de una sede (o de todas si sedeID es vacío y el actor es admin).
//
// Cinco consultas en paralelo:
//  1. GetSalesMetrics(hoy)
//  2. GetSalesMetrics(mes)
//  3. GetTopProducts(mes, top 5)
//  4. CountLowStock
//  5. CountOpenTickets
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor access.Actor, sedeID string) (*dto.DashboardSummaryDTO, error) {
	if !actor.IsAdmin() {
		sedeID = actor.ResolveSede(sedeID)
	}
	if _, _, err := uc.guard.ScopeSede(ctx, actor, sedeID); err != nil {
		return nil, err
	}
	if sedeID == "" && !actor.IsAdmin() {
		return &dto.DashboardSummaryDTO{TopProducts: []dto.TopProductDTO{}, DateLabel: monthLabel(uc.now())}, nil
	}

	now := uc.now()
	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		today, month repository.SalesMetrics
		top          []repository.TopProduct
		lowStock     int
		openTickets  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if today, err = uc.analyticsRepo.GetSalesMetrics(gctx, sedeID, todayStart, todayEnd); err != nil {
			return fmt.Errorf("dashboard: métricas de hoy: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if month, err = uc.analyticsRepo.GetSalesMetrics(gctx, sedeID, monthStart, todayEnd); err != nil {
			return fmt.Errorf("dashboard: métricas del mes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if top, err = uc.analyticsRepo.GetTopProducts(gctx, sedeID, monthStart, todayEnd, dashboardTopProducts); err != nil {
			return fmt.Errorf("dashboard: top productos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if lowStock, err = uc.analyticsRepo.CountLowStock(gctx, sedeID); err != nil {
			return fmt.Errorf("dashboard: bajo stock: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if openTickets, err = uc.analyticsRepo.CountOpenTickets(gctx, sedeID); err != nil {
			return fmt.Errorf("dashboard: tickets abiertos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardSummaryDTO{
		SedeID:        sedeID,
		DateLabel:     monthLabel(now),
		Today:         toPeriodSales(today),
		Month:         toPeriodSales(month),
		MarginPct:     decimal.Zero,
		TopProducts:   make([]dto.TopProductDTO, 0, len(top)),
		LowStockCount: lowStock,
		OpenTickets:   openTickets,
	}
	if month.Net.IsPositive() {
		out.MarginPct = out.Month.Margin.Div(month.Net).Mul(hundred).Round(2)
	}
	for _, p := range top {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID: p.ProductID,
			Code:      p.Code,
			Name:      p.Name,
			Units:     p.Units,
			Revenue:   p.Revenue.Round(2),
		})
	}
	return out, nil
}

// toPeriodSales el margen es venta neta (sin IVA) menos costo.
func toPeriodSales(m repository.SalesMetrics) dto.PeriodSalesDTO {
	return dto.PeriodSalesDTO{
		Count:  m.Count,
		Total:  m.Revenue.Round(2),
		Net:    m.Net.Round(2),
		Margin: m.Net.Sub(m.Cost).Round(2),
	}
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
