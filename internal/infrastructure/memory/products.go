package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/pkg/textsearch"
)

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ v view }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.do(func(st *state) error {
		for _, x := range st.products {
			if strings.EqualFold(x.Code, p.Code) {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.Code, code) {
				out = ptr(p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for _, x := range st.products {
			if x.ID != p.ID && strings.EqualFold(x.Code, p.Code) {
				return domain.ErrDuplicate
			}
		}
		upd := *p
		upd.Cost = cur.Cost
		st.products[p.ID] = upd
		return nil
	})
}

func (r *ProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return r.v.do(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Cost = cost
		p.UpdatedAt = time.Now()
		st.products[productID] = p
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var list []*entity.Product
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			if f.CategoryID != "" && p.CategoryID != f.CategoryID {
				continue
			}
			if f.ProviderID != "" && p.ProviderID != f.ProviderID {
				continue
			}
			if f.Active != nil && p.Active != *f.Active {
				continue
			}
			if f.OnlyLowStock && !lineOf(st, p, f.SedeID).Low() {
				continue
			}
			if !textsearch.Match(f.Query, p.Code, p.Name, p.Description) {
				continue
			}
			list = append(list, ptr(p))
		}
		return nil
	})
	sortProducts(list, f.Sort, f.Desc)
	page, total := paginate(list, f.Page)
	return page, total, err
}

func sortProducts(list []*entity.Product, by string, desc bool) {
	less := func(a, b *entity.Product) bool { return a.Name < b.Name }
	switch by {
	case repository.ProductSortCode:
		less = func(a, b *entity.Product) bool { return a.Code < b.Code }
	case repository.ProductSortPrice:
		less = func(a, b *entity.Product) bool { return a.Price.LessThan(b.Price) }
	case repository.ProductSortCreated:
		less = func(a, b *entity.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	sort.SliceStable(list, func(i, j int) bool {
		if desc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

// lineOf arma la línea de inventario del producto en la sede; sin fila la cantidad es cero.
func lineOf(st *state, p entity.Product, sedeID string) entity.StockLine {
	s := st.stock[stockKey{p.ID, sedeID}]
	return entity.StockLine{
		ProductID:   p.ID,
		ProductCode: p.Code,
		ProductName: p.Name,
		CategoryID:  p.CategoryID,
		SedeID:      sedeID,
		Quantity:    s.Quantity,
		MinStock:    p.MinStock,
		Cost:        p.Cost,
		Price:       p.Price,
		UpdatedAt:   s.UpdatedAt,
	}
}

// StockRepo implementa repository.StockRepository.
type StockRepo struct{ v view }

var _ repository.StockRepository = (*StockRepo)(nil)

func (r *StockRepo) Get(_ context.Context, productID, sedeID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.v.do(func(st *state) error {
		s, ok := st.stock[stockKey{productID, sedeID}]
		if !ok {
			s = entity.Stock{ProductID: productID, SedeID: sedeID, Quantity: decimal.Zero}
		}
		out = &s
		return nil
	})
	return out, err
}

// GetForUpdate no necesita bloqueo adicional: la transacción en memoria ya es exclusiva.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, sedeID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, sedeID)
}

func (r *StockRepo) Upsert(_ context.Context, s *entity.Stock) error {
	return r.v.do(func(st *state) error {
		st.stock[stockKey{s.ProductID, s.SedeID}] = *s
		return nil
	})
}

func (r *StockRepo) TotalByProduct(_ context.Context, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.v.do(func(st *state) error {
		for k, s := range st.stock {
			if k.productID == productID {
				total = total.Add(s.Quantity)
			}
		}
		return nil
	})
	return total, err
}

func (r *StockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Stock, error) {
	var list []*entity.Stock
	err := r.v.do(func(st *state) error {
		for k, s := range st.stock {
			if k.productID == productID {
				list = append(list, ptr(s))
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].SedeID < list[j].SedeID })
	return list, err
}

// ListLines lista los productos activos en la sede, incluidos los que aún no tienen existencia.
func (r *StockRepo) ListLines(_ context.Context, f repository.StockFilter) ([]entity.StockLine, int, error) {
	var lines []entity.StockLine
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			if !p.Active {
				continue
			}
			if f.CategoryID != "" && p.CategoryID != f.CategoryID {
				continue
			}
			if !textsearch.Match(f.Query, p.Code, p.Name) {
				continue
			}
			l := lineOf(st, p, f.SedeID)
			if f.OnlyLowStock && !l.Low() {
				continue
			}
			lines = append(lines, l)
		}
		return nil
	})
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductName < lines[j].ProductName })
	page, total := paginate(lines, f.Page)
	return page, total, err
}

func (r *StockRepo) BelowMinimum(_ context.Context, sedeID string) ([]entity.StockLine, error) {
	var lines []entity.StockLine
	err := r.v.do(func(st *state) error {
		for _, s := range st.sedes {
			if !s.Active || (sedeID != "" && s.ID != sedeID) {
				continue
			}
			for _, p := range st.products {
				if !p.Active {
					continue
				}
				if l := lineOf(st, p, s.ID); l.Low() {
					lines = append(lines, l)
				}
			}
		}
		return nil
	})
	sort.Slice(lines, func(i, j int) bool {
		di := lines[i].MinStock.Sub(lines[i].Quantity)
		dj := lines[j].MinStock.Sub(lines[j].Quantity)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		if lines[i].ProductCode != lines[j].ProductCode {
			return lines[i].ProductCode < lines[j].ProductCode
		}
		return lines[i].SedeID < lines[j].SedeID
	})
	return lines, err
}
