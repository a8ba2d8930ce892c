package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del kardex (tabla movimientos).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO movimientos (id, transaccion_id, producto_id, sede_id, tipo, cantidad, costo_unitario, costo_total, referencia, nota, fecha, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.TransactionID, m.ProductID, m.SedeID, m.Type, m.Quantity, m.UnitCost, m.TotalCost,
		m.Reference, m.Note, m.Date, m.UserID,
	)
	if err != nil {
		return wrap("insert movement", err)
	}
	return nil
}

// List devuelve movimientos en orden cronológico ascendente.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var w where
	if f.ProductID != "" {
		w.add("producto_id = ?", f.ProductID)
	}
	if f.SedeID != "" {
		w.add("sede_id = ?", f.SedeID)
	}
	if f.Since != nil {
		w.add("fecha >= ?", *f.Since)
	}
	if f.Until != nil {
		w.add("fecha <= ?", *f.Until)
	}
	query := `
		SELECT id, transaccion_id, producto_id, sede_id, tipo, cantidad, costo_unitario, costo_total, referencia, nota, fecha, usuario_id
		FROM movimientos` + w.String() + ` ORDER BY fecha, id`
	if f.Page.Limit > 0 || f.Page.Offset > 0 {
		query += w.page(f.Page)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Movement, 0)
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ProductID, &m.SedeID, &m.Type, &m.Quantity,
			&m.UnitCost, &m.TotalCost, &m.Reference, &m.Note, &m.Date, &m.UserID); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountBySede cuenta los movimientos de una sede.
func (r *MovementRepo) CountBySede(ctx context.Context, sedeID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM movimientos WHERE sede_id = $1`, sedeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}
