package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (ventas + venta_items).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, numero, sede_id, usuario_id, cliente_nombre, cliente_documento, metodo_pago,
	subtotal, descuento, iva, total, estado, nota, motivo_anulacion, fecha, created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.Number, &s.SedeID, &s.UserID, &s.CustomerName, &s.CustomerDocument, &s.PaymentMethod,
		&s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.Status, &s.Note, &s.VoidReason, &s.Date, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

// Create persiste la cabecera y los ítems. Se espera que corra dentro de la transacción de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ventas (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		s.ID, s.Number, s.SedeID, s.UserID, s.CustomerName, s.CustomerDocument, s.PaymentMethod,
		s.Subtotal, s.Discount, s.Tax, s.Total, s.Status, s.Note, s.VoidReason, s.Date, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return wrap("insert sale", err)
	}
	batch := &pgx.Batch{}
	for _, it := range s.Items {
		batch.Queue(`
			INSERT INTO venta_items (id, venta_id, producto_id, cantidad, precio_unitario, descuento, tasa_iva, subtotal, iva, total, costo_unitario)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			it.ID, s.ID, it.ProductID, it.Quantity, it.UnitPrice, it.Discount, it.TaxRate, it.Subtotal, it.Tax, it.Total, it.UnitCost)
	}
	return sendBatch(ctx, r.q, batch, "insert sale items")
}

// GetByID devuelve la venta con sus ítems.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM ventas WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, venta_id, producto_id, cantidad, precio_unitario, descuento, tasa_iva, subtotal, iva, total, costo_unitario
		FROM venta_items WHERE venta_id = $1 ORDER BY producto_id`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Discount,
			&it.TaxRate, &it.Subtotal, &it.Tax, &it.Total, &it.UnitCost); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	return s, rows.Err()
}

// UpdateStatus actualiza estado y motivo de anulación.
func (r *SaleRepo) UpdateStatus(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `UPDATE ventas SET estado = $2, motivo_anulacion = $3, updated_at = $4 WHERE id = $1`,
		s.ID, s.Status, s.VoidReason, s.UpdatedAt)
	if err != nil {
		return wrap("update sale status", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve cabeceras, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	var w where
	if f.SedeID != "" {
		w.add("sede_id = ?", f.SedeID)
	}
	if len(f.SedeIDs) > 0 {
		w.add("sede_id::text = ANY(?)", f.SedeIDs)
	}
	if f.UserID != "" {
		w.add("usuario_id = ?", f.UserID)
	}
	if f.Status != "" {
		w.add("estado = ?", f.Status)
	}
	if f.PaymentMethod != "" {
		w.add("metodo_pago = ?", f.PaymentMethod)
	}
	if f.Since != nil {
		w.add("fecha >= ?", *f.Since)
	}
	if f.Until != nil {
		w.add("fecha <= ?", *f.Until)
	}
	w.search(f.Query, "numero", "cliente_nombre", "cliente_documento")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM ventas`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM ventas`+w.String()+` ORDER BY fecha DESC, numero DESC`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// batchSender lo implementan *pgxpool.Pool y pgx.Tx.
type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// sendBatch ejecuta el batch y devuelve el primer error.
func sendBatch(ctx context.Context, q Querier, b *pgx.Batch, op string) error {
	if b.Len() == 0 {
		return nil
	}
	bs, ok := q.(batchSender)
	if !ok {
		return fmt.Errorf("%s: querier sin soporte de batch", op)
	}
	res := bs.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := res.Exec(); err != nil {
			_ = res.Close()
			return wrap(op, err)
		}
	}
	if err := res.Close(); err != nil {
		return wrap(op, err)
	}
	return nil
}

// SequenceRepo consecutivos por sede (sede_consecutivos).
type SequenceRepo struct {
	q Querier
}

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// NewSequenceRepository construye el adaptador; debe recibir la tx del documento.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el consecutivo. El UPSERT bloquea la fila hasta el commit,
// así dos ventas concurrentes de la misma sede no obtienen el mismo número.
func (r *SequenceRepo) Next(ctx context.Context, sedeID, kind string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO sede_consecutivos (sede_id, tipo, ultimo) VALUES ($1, $2, 1)
		ON CONFLICT (sede_id, tipo) DO UPDATE SET ultimo = sede_consecutivos.ultimo + 1
		RETURNING ultimo`, sedeID, kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
