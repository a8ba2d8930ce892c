package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre inventario_sedes (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func (r *StockRepo) get(ctx context.Context, query, productID, sedeID string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, sedeID).Scan(&s.ProductID, &s.SedeID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, SedeID: sedeID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Get obtiene la existencia de un producto en una sede.
func (r *StockRepo) Get(ctx context.Context, productID, sedeID string) (*entity.Stock, error) {
	return r.get(ctx, `
		SELECT producto_id, sede_id, cantidad, updated_at
		FROM inventario_sedes WHERE producto_id = $1 AND sede_id = $2`, productID, sedeID)
}

// GetForUpdate obtiene la existencia y bloquea la fila (SELECT FOR UPDATE). Si la fila no
// existe la crea en cero para que el bloqueo cubra también el primer ingreso.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, sedeID string) (*entity.Stock, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventario_sedes (producto_id, sede_id, cantidad, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (producto_id, sede_id) DO NOTHING`, productID, sedeID)
	if err != nil {
		return nil, wrap("ensure stock row", err)
	}
	return r.get(ctx, `
		SELECT producto_id, sede_id, cantidad, updated_at
		FROM inventario_sedes WHERE producto_id = $1 AND sede_id = $2
		FOR UPDATE`, productID, sedeID)
}

// Upsert inserta o actualiza la cantidad (por producto y sede).
func (r *StockRepo) Upsert(ctx context.Context, s *entity.Stock) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventario_sedes (producto_id, sede_id, cantidad, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (producto_id, sede_id)
		DO UPDATE SET cantidad = EXCLUDED.cantidad, updated_at = now()`,
		s.ProductID, s.SedeID, s.Quantity)
	if err != nil {
		return wrap("upsert stock", err)
	}
	return nil
}

// TotalByProduct suma la existencia del producto en todas las sedes.
func (r *StockRepo) TotalByProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT coalesce(sum(cantidad), 0) FROM inventario_sedes WHERE producto_id = $1`, productID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total stock: %w", err)
	}
	return total, nil
}

// ListByProduct devuelve la existencia del producto en cada sede con fila.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT producto_id, sede_id, cantidad, updated_at
		FROM inventario_sedes WHERE producto_id = $1 ORDER BY sede_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Stock, 0)
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ProductID, &s.SedeID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// stockLineSelect cruza productos activos con sedes; sin fila en inventario_sedes la cantidad es 0.
const stockLineSelect = `
	SELECT p.id, p.codigo, p.nombre, p.categoria_id, s.id, coalesce(i.cantidad, 0), p.stock_minimo,
	       p.costo, p.precio_venta, coalesce(i.updated_at, p.updated_at)
	FROM productos p
	CROSS JOIN sedes s
	LEFT JOIN inventario_sedes i ON i.producto_id = p.id AND i.sede_id = s.id`

const lowStockCond = `p.stock_minimo > 0 AND coalesce(i.cantidad, 0) < p.stock_minimo`

func scanStockLines(rows pgx.Rows) ([]entity.StockLine, error) {
	defer rows.Close()
	lines := make([]entity.StockLine, 0)
	for rows.Next() {
		var l entity.StockLine
		if err := rows.Scan(&l.ProductID, &l.ProductCode, &l.ProductName, &l.CategoryID, &l.SedeID,
			&l.Quantity, &l.MinStock, &l.Cost, &l.Price, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListLines inventario de una sede: productos activos con su existencia.
func (r *StockRepo) ListLines(ctx context.Context, f repository.StockFilter) ([]entity.StockLine, int, error) {
	var w where
	w.add("p.activo")
	w.add("s.id = ?", f.SedeID)
	if f.CategoryID != "" {
		w.add("p.categoria_id = ?", f.CategoryID)
	}
	if f.OnlyLowStock {
		w.add(lowStockCond)
	}
	w.search(f.Query, "p.codigo", "p.nombre")

	var total int
	countQuery := `SELECT count(*) FROM productos p CROSS JOIN sedes s
		LEFT JOIN inventario_sedes i ON i.producto_id = p.id AND i.sede_id = s.id` + w.String()
	if err := r.q.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock lines: %w", err)
	}
	rows, err := r.q.Query(ctx, stockLineSelect+w.String()+` ORDER BY p.nombre, p.id`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock lines: %w", err)
	}
	lines, err := scanStockLines(rows)
	return lines, total, err
}

// BelowMinimum productos activos bajo su stock mínimo en sedes activas, mayor déficit primero.
func (r *StockRepo) BelowMinimum(ctx context.Context, sedeID string) ([]entity.StockLine, error) {
	var w where
	w.add("p.activo")
	w.add("s.activa")
	w.add(lowStockCond)
	if sedeID != "" {
		w.add("s.id = ?", sedeID)
	}
	rows, err := r.q.Query(ctx, stockLineSelect+w.String()+`
		ORDER BY p.stock_minimo - coalesce(i.cantidad, 0) DESC, p.codigo, s.id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("stock below minimum: %w", err)
	}
	return scanStockLines(rows)
}
