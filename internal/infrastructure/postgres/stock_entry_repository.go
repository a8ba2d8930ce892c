package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var (
	_ repository.StockEntryRepository = (*StockEntryRepo)(nil)
	_ repository.StockExitRepository  = (*StockExitRepo)(nil)
)

// StockEntryRepo ingresos de mercancía (ingresos + ingreso_items).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

const entryColumns = `id, numero, sede_id, proveedor_id, usuario_id, factura_proveedor, total, nota, fecha, created_at`

func scanEntry(row pgx.Row) (*entity.StockEntry, error) {
	var e entity.StockEntry
	err := row.Scan(&e.ID, &e.Number, &e.SedeID, &e.ProviderID, &e.UserID, &e.ProviderInvoice, &e.Total, &e.Note, &e.Date, &e.CreatedAt)
	return &e, err
}

// Create persiste el ingreso y sus ítems.
func (r *StockEntryRepo) Create(ctx context.Context, e *entity.StockEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingresos (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.Number, e.SedeID, e.ProviderID, e.UserID, e.ProviderInvoice, e.Total, e.Note, e.Date, e.CreatedAt,
	)
	if err != nil {
		return wrap("insert stock entry", err)
	}
	batch := &pgx.Batch{}
	for _, it := range e.Items {
		batch.Queue(`
			INSERT INTO ingreso_items (id, ingreso_id, producto_id, cantidad, costo_unitario, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, e.ID, it.ProductID, it.Quantity, it.UnitCost, it.Subtotal)
	}
	return sendBatch(ctx, r.q, batch, "insert stock entry items")
}

// GetByID devuelve el ingreso con sus ítems.
func (r *StockEntryRepo) GetByID(ctx context.Context, id string) (*entity.StockEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, `SELECT `+entryColumns+` FROM ingresos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, ingreso_id, producto_id, cantidad, costo_unitario, subtotal
		FROM ingreso_items WHERE ingreso_id = $1 ORDER BY producto_id`, id)
	if err != nil {
		return nil, fmt.Errorf("get stock entry items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.StockEntryItem
		if err := rows.Scan(&it.ID, &it.EntryID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan stock entry item: %w", err)
		}
		e.Items = append(e.Items, it)
	}
	return e, rows.Err()
}

// List devuelve cabeceras de ingresos, más recientes primero.
func (r *StockEntryRepo) List(ctx context.Context, f repository.StockEntryFilter) ([]*entity.StockEntry, int, error) {
	var w where
	if f.SedeID != "" {
		w.add("sede_id = ?", f.SedeID)
	}
	if len(f.SedeIDs) > 0 {
		w.add("sede_id::text = ANY(?)", f.SedeIDs)
	}
	if f.ProviderID != "" {
		w.add("proveedor_id = ?", f.ProviderID)
	}
	if f.Since != nil {
		w.add("fecha >= ?", *f.Since)
	}
	if f.Until != nil {
		w.add("fecha <= ?", *f.Until)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM ingresos`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock entries: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+entryColumns+` FROM ingresos`+w.String()+` ORDER BY fecha DESC`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock entry: %w", err)
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}

// StockExitRepo salidas no comerciales (tabla salidas).
type StockExitRepo struct {
	q Querier
}

// NewStockExitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockExitRepository(q Querier) *StockExitRepo {
	return &StockExitRepo{q: q}
}

// Create persiste una salida.
func (r *StockExitRepo) Create(ctx context.Context, e *entity.StockExit) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO salidas (id, sede_id, producto_id, usuario_id, cantidad, motivo, nota, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.SedeID, e.ProductID, e.UserID, e.Quantity, e.Reason, e.Note, e.Date,
	)
	if err != nil {
		return wrap("insert stock exit", err)
	}
	return nil
}

// List devuelve salidas, más recientes primero.
func (r *StockExitRepo) List(ctx context.Context, f repository.StockExitFilter) ([]*entity.StockExit, int, error) {
	var w where
	if f.SedeID != "" {
		w.add("sede_id = ?", f.SedeID)
	}
	if len(f.SedeIDs) > 0 {
		w.add("sede_id::text = ANY(?)", f.SedeIDs)
	}
	if f.ProductID != "" {
		w.add("producto_id = ?", f.ProductID)
	}
	if f.Reason != "" {
		w.add("motivo = ?", f.Reason)
	}
	if f.Since != nil {
		w.add("fecha >= ?", *f.Since)
	}
	if f.Until != nil {
		w.add("fecha <= ?", *f.Until)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM salidas`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock exits: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, sede_id, producto_id, usuario_id, cantidad, motivo, nota, fecha
		FROM salidas`+w.String()+` ORDER BY fecha DESC`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock exits: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockExit, 0)
	for rows.Next() {
		var e entity.StockExit
		if err := rows.Scan(&e.ID, &e.SedeID, &e.ProductID, &e.UserID, &e.Quantity, &e.Reason, &e.Note, &e.Date); err != nil {
			return nil, 0, fmt.Errorf("scan stock exit: %w", err)
		}
		list = append(list, &e)
	}
	return list, total, rows.Err()
}
