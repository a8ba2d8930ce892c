package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.id, p.codigo, p.nombre, p.descripcion, p.categoria_id, coalesce(p.proveedor_id::text, ''),
	p.precio_venta, p.costo, p.tasa_iva, p.unidad, p.stock_minimo, p.activo, p.created_at, p.updated_at`

var productSorts = map[string]string{
	repository.ProductSortName:    "p.nombre",
	repository.ProductSortCode:    "p.codigo",
	repository.ProductSortPrice:   "p.precio_venta",
	repository.ProductSortCreated: "p.created_at",
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.CategoryID, &p.ProviderID,
		&p.Price, &p.Cost, &p.TaxRate, &p.Unit, &p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

// Create persiste un nuevo producto. Cost inicia en 0.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO productos (id, codigo, nombre, descripcion, categoria_id, proveedor_id, precio_venta, costo, tasa_iva, unidad, stock_minimo, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.Code, p.Name, p.Description, p.CategoryID, nullable(p.ProviderID),
		p.Price, p.Cost, p.TaxRate, p.Unit, p.MinStock, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return wrap("insert product", err)
	}
	return nil
}

func (r *ProductRepo) findOne(ctx context.Context, cond string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM productos p WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.findOne(ctx, `p.id = $1`, id)
}

// GetByCode obtiene un producto por código (sin distinguir mayúsculas).
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.findOne(ctx, `lower(p.codigo) = lower($1)`, code)
}

// Update actualiza un producto existente. No modifica costo ni existencias (se manejan vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE productos SET codigo = $2, nombre = $3, descripcion = $4, categoria_id = $5, proveedor_id = $6,
		       precio_venta = $7, tasa_iva = $8, unidad = $9, stock_minimo = $10, activo = $11, updated_at = $12
		WHERE id = $1`,
		p.ID, p.Code, p.Name, p.Description, p.CategoryID, nullable(p.ProviderID),
		p.Price, p.TaxRate, p.Unit, p.MinStock, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return wrap("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza solo el costo del producto (usado por el motor de inventario).
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE productos SET costo = $2, updated_at = now() WHERE id = $1`, productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// List lista productos con filtros, orden y paginación.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var w where
	if f.CategoryID != "" {
		w.add("p.categoria_id = ?", f.CategoryID)
	}
	if f.ProviderID != "" {
		w.add("p.proveedor_id = ?", f.ProviderID)
	}
	if f.Active != nil {
		w.add("p.activo = ?", *f.Active)
	}
	if f.OnlyLowStock {
		w.add(`p.stock_minimo > 0 AND coalesce((SELECT i.cantidad FROM inventario_sedes i
			WHERE i.producto_id = p.id AND i.sede_id = ?), 0) < p.stock_minimo`, f.SedeID)
	}
	w.search(f.Query, "p.codigo", "p.nombre", "p.descripcion")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM productos p`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	order, ok := productSorts[f.Sort]
	if !ok {
		order = productSorts[repository.ProductSortName]
	}
	if f.Desc {
		order += " DESC"
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM productos p`+w.String()+` ORDER BY `+order+`, p.id`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}
