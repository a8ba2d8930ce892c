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

var _ repository.ProviderRepository = (*ProviderRepo)(nil)

// ProviderRepo implementación de ProviderRepository sobre PostgreSQL.
type ProviderRepo struct {
	q Querier
}

// NewProviderRepository construye el adaptador de proveedores.
func NewProviderRepository(q Querier) *ProviderRepo {
	return &ProviderRepo{q: q}
}

const providerColumns = `id, nombre, nit, contacto, telefono, email, direccion, activo, created_at, updated_at`

func scanProvider(row pgx.Row) (*entity.Provider, error) {
	var p entity.Provider
	err := row.Scan(&p.ID, &p.Name, &p.NIT, &p.Contact, &p.Phone, &p.Email, &p.Address, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

// Create persiste un proveedor.
func (r *ProviderRepo) Create(ctx context.Context, p *entity.Provider) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO proveedores (`+providerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Name, p.NIT, p.Contact, p.Phone, p.Email, p.Address, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return wrap("insert provider", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *ProviderRepo) GetByID(ctx context.Context, id string) (*entity.Provider, error) {
	p, err := scanProvider(r.q.QueryRow(ctx, `SELECT `+providerColumns+` FROM proveedores WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return p, nil
}

// Update actualiza un proveedor.
func (r *ProviderRepo) Update(ctx context.Context, p *entity.Provider) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE proveedores SET nombre = $2, nit = $3, contacto = $4, telefono = $5, email = $6, direccion = $7, activo = $8, updated_at = $9
		WHERE id = $1`,
		p.ID, p.Name, p.NIT, p.Contact, p.Phone, p.Email, p.Address, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return wrap("update provider", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista proveedores por nombre.
func (r *ProviderRepo) List(ctx context.Context, f repository.ProviderFilter) ([]*entity.Provider, int, error) {
	var w where
	if f.Active != nil {
		w.add("activo = ?", *f.Active)
	}
	w.search(f.Query, "nombre", "nit")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM proveedores`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count providers: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+providerColumns+` FROM proveedores`+w.String()+` ORDER BY nombre`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Provider, 0)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan provider: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Delete elimina un proveedor.
func (r *ProviderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM proveedores WHERE id = $1`, id); err != nil {
		return wrap("delete provider", err)
	}
	return nil
}

// CountEntries cuenta los ingresos del proveedor.
func (r *ProviderRepo) CountEntries(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM ingresos WHERE proveedor_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count provider entries: %w", err)
	}
	return n, nil
}
