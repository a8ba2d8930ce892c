package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard. Un sedeID vacío ($1 = '')
// agrega todas las sedes.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics cuenta y suma las ventas registradas del período [start, end).
// El costo sale de venta_items.costo_unitario (costo promedio al momento de vender),
// no del costo actual del producto.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, sedeID string, start, end time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT
	    COUNT(*)                     AS sales,
	    COALESCE(SUM(v.total),    0) AS revenue,
	    COALESCE(SUM(v.subtotal), 0) AS net,
	    COALESCE(SUM(c.cost),     0) AS cost
	FROM ventas v
	LEFT JOIN LATERAL (
	    SELECT SUM(it.cantidad * it.costo_unitario) AS cost
	    FROM venta_items it WHERE it.venta_id = v.id
	) c ON true
	WHERE ($1 = '' OR v.sede_id::text = $1)
	  AND v.estado = 'registered'
	  AND v.fecha >= $2 AND v.fecha < $3`

	var m repository.SalesMetrics
	err := r.q.QueryRow(ctx, query, sedeID, start, end).Scan(&m.Count, &m.Revenue, &m.Net, &m.Cost)
	if err != nil {
		return repository.SalesMetrics{}, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return m, nil
}

// GetTopProducts devuelve los `limit` productos con más unidades vendidas en el período.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, sedeID string, start, end time.Time, limit int) ([]repository.TopProduct, error) {
	const query = `
	SELECT
	    p.id,
	    p.codigo,
	    p.nombre,
	    SUM(it.cantidad) AS units,
	    SUM(it.total)    AS revenue
	FROM venta_items it
	JOIN ventas    v ON v.id = it.venta_id
	JOIN productos p ON p.id = it.producto_id
	WHERE ($1 = '' OR v.sede_id::text = $1)
	  AND v.estado = 'registered'
	  AND v.fecha >= $2 AND v.fecha < $3
	GROUP BY p.id, p.codigo, p.nombre
	ORDER BY units DESC, p.codigo
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, sedeID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	results := []repository.TopProduct{}
	for rows.Next() {
		var row repository.TopProduct
		if err := rows.Scan(&row.ProductID, &row.Code, &row.Name, &row.Units, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts rows: %w", err)
	}
	return results, nil
}

// CountLowStock cuenta pares producto/sede bajo stock mínimo (mismo criterio que la reposición).
func (r *AnalyticsRepo) CountLowStock(ctx context.Context, sedeID string) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM productos p
	CROSS JOIN sedes s
	LEFT JOIN inventario_sedes i ON i.producto_id = p.id AND i.sede_id = s.id
	WHERE p.activo AND s.activa
	  AND ($1 = '' OR s.id::text = $1)
	  AND ` + lowStockCond

	var n int
	if err := r.q.QueryRow(ctx, query, sedeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountLowStock: %w", err)
	}
	return n, nil
}

// CountOpenTickets cuenta tickets abiertos o en progreso.
func (r *AnalyticsRepo) CountOpenTickets(ctx context.Context, sedeID string) (int, error) {
	const query = `
	SELECT COUNT(*) FROM tickets
	WHERE estado IN ('open', 'in_progress')
	  AND ($1 = '' OR sede_id::text = $1)`

	var n int
	if err := r.q.QueryRow(ctx, query, sedeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountOpenTickets: %w", err)
	}
	return n, nil
}
