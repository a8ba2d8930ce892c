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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, coalesce(parent_id::text, ''), nombre, codigo, estado, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	var estado string
	err := row.Scan(&c.ID, &c.ParentID, &c.Name, &c.Code, &estado, &c.CreatedAt, &c.UpdatedAt)
	c.Active = estado == categoryActive
	return &c, err
}

const (
	categoryActive   = "active"
	categoryInactive = "inactive"
)

func categoryStatus(active bool) string {
	if active {
		return categoryActive
	}
	return categoryInactive
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Create persiste una categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categorias (id, parent_id, nombre, codigo, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, nullable(c.ParentID), c.Name, c.Code, categoryStatus(c.Active), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return wrap("insert category", err)
	}
	return nil
}

func (r *CategoryRepo) findOne(ctx context.Context, cond string, arg any) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categorias WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.findOne(ctx, `id = $1`, id)
}

// GetByCode obtiene una categoría por código (sin distinguir mayúsculas).
func (r *CategoryRepo) GetByCode(ctx context.Context, code string) (*entity.Category, error) {
	return r.findOne(ctx, `lower(codigo) = lower($1)`, code)
}

// Update actualiza una categoría.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE categorias SET parent_id = $2, nombre = $3, codigo = $4, estado = $5, updated_at = $6
		WHERE id = $1`,
		c.ID, nullable(c.ParentID), c.Name, c.Code, categoryStatus(c.Active), c.UpdatedAt,
	)
	if err != nil {
		return wrap("update category", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista categorías por nombre.
func (r *CategoryRepo) List(ctx context.Context, f repository.CategoryFilter) ([]*entity.Category, int, error) {
	var w where
	if f.ParentID != nil {
		if *f.ParentID == "" {
			w.add("parent_id IS NULL")
		} else {
			w.add("parent_id = ?", *f.ParentID)
		}
	}
	w.search(f.Query, "nombre", "codigo")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM categorias`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categorias`+w.String()+` ORDER BY nombre`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Delete elimina una categoría; la llave foránea de productos devuelve ErrConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categorias WHERE id = $1`, id); err != nil {
		return wrap("delete category", err)
	}
	return nil
}

func (r *CategoryRepo) count(ctx context.Context, query, id string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count category refs: %w", err)
	}
	return n, nil
}

// CountChildren cuenta subcategorías directas.
func (r *CategoryRepo) CountChildren(ctx context.Context, id string) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM categorias WHERE parent_id = $1`, id)
}

// CountProducts cuenta productos de la categoría.
func (r *CategoryRepo) CountProducts(ctx context.Context, id string) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM productos WHERE categoria_id = $1`, id)
}
