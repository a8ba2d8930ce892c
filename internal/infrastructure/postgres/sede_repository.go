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

var _ repository.SedeRepository = (*SedeRepo)(nil)

// SedeRepo implementación del puerto SedeRepository sobre PostgreSQL.
type SedeRepo struct {
	q Querier
}

// NewSedeRepository construye el adaptador de sedes. Pasar pool o tx (Querier).
func NewSedeRepository(q Querier) *SedeRepo {
	return &SedeRepo{q: q}
}

const sedeColumns = `id, nombre, direccion, telefono, prefijo, activa, created_at, updated_at`

func scanSede(row pgx.Row) (*entity.Sede, error) {
	var s entity.Sede
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.Prefix, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

// Create persiste una sede nueva.
func (r *SedeRepo) Create(ctx context.Context, s *entity.Sede) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sedes (`+sedeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Name, s.Address, s.Phone, s.Prefix, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return wrap("insert sede", err)
	}
	return nil
}

// GetByID obtiene una sede por ID; nil si no existe.
func (r *SedeRepo) GetByID(ctx context.Context, id string) (*entity.Sede, error) {
	s, err := scanSede(r.q.QueryRow(ctx, `SELECT `+sedeColumns+` FROM sedes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sede: %w", err)
	}
	return s, nil
}

// Update actualiza datos de la sede.
func (r *SedeRepo) Update(ctx context.Context, s *entity.Sede) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sedes SET nombre = $2, direccion = $3, telefono = $4, prefijo = $5, activa = $6, updated_at = $7
		WHERE id = $1`,
		s.ID, s.Name, s.Address, s.Phone, s.Prefix, s.Active, s.UpdatedAt,
	)
	if err != nil {
		return wrap("update sede", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista sedes por nombre.
func (r *SedeRepo) List(ctx context.Context, f repository.SedeFilter) ([]*entity.Sede, int, error) {
	var w where
	if f.Active != nil {
		w.add("activa = ?", *f.Active)
	}
	w.search(f.Query, "nombre", "direccion")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sedes`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sedes: %w", err)
	}
	query := `SELECT ` + sedeColumns + ` FROM sedes` + w.String() + ` ORDER BY nombre` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sedes: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sede, 0)
	for rows.Next() {
		s, err := scanSede(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sede: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// Delete elimina la sede y sus asignaciones a usuarios.
func (r *SedeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM usuario_sedes WHERE sede_id = $1`, id); err != nil {
		return wrap("delete usuario_sedes", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sedes WHERE id = $1`, id); err != nil {
		return wrap("delete sede", err)
	}
	return nil
}

// HasActivity indica si la sede tiene existencias positivas o movimientos.
func (r *SedeRepo) HasActivity(ctx context.Context, id string) (bool, error) {
	var busy bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM inventario_sedes WHERE sede_id = $1 AND cantidad > 0)
		    OR EXISTS (SELECT 1 FROM movimientos WHERE sede_id = $1)`, id).Scan(&busy)
	if err != nil {
		return false, fmt.Errorf("sede activity: %w", err)
	}
	return busy, nil
}
