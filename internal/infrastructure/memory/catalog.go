package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/pkg/textsearch"
)

// SedeRepo implementa repository.SedeRepository.
type SedeRepo struct{ v view }

var _ repository.SedeRepository = (*SedeRepo)(nil)

func (r *SedeRepo) Create(_ context.Context, sede *entity.Sede) error {
	return r.v.do(func(st *state) error {
		for _, s := range st.sedes {
			if strings.EqualFold(s.Name, sede.Name) {
				return domain.ErrDuplicate
			}
		}
		st.sedes[sede.ID] = *sede
		return nil
	})
}

func (r *SedeRepo) GetByID(_ context.Context, id string) (*entity.Sede, error) {
	var out *entity.Sede
	err := r.v.do(func(st *state) error {
		if s, ok := st.sedes[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SedeRepo) Update(_ context.Context, sede *entity.Sede) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.sedes[sede.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, s := range st.sedes {
			if s.ID != sede.ID && strings.EqualFold(s.Name, sede.Name) {
				return domain.ErrDuplicate
			}
		}
		st.sedes[sede.ID] = *sede
		return nil
	})
}

func (r *SedeRepo) List(_ context.Context, f repository.SedeFilter) ([]*entity.Sede, int, error) {
	var list []*entity.Sede
	err := r.v.do(func(st *state) error {
		for _, s := range st.sedes {
			if f.Active != nil && s.Active != *f.Active {
				continue
			}
			if !textsearch.Match(f.Query, s.Name, s.Address) {
				continue
			}
			list = append(list, ptr(s))
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	page, total := paginate(list, f.Page)
	return page, total, err
}

func (r *SedeRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		delete(st.sedes, id)
		for k, u := range st.users {
			if i := slices.Index(u.SedeIDs, id); i >= 0 {
				u.SedeIDs = slices.Delete(slices.Clone(u.SedeIDs), i, i+1)
				st.users[k] = u
			}
		}
		return nil
	})
}

func (r *SedeRepo) HasActivity(_ context.Context, id string) (bool, error) {
	busy := false
	err := r.v.do(func(st *state) error {
		for k, s := range st.stock {
			if k.sedeID == id && s.Quantity.IsPositive() {
				busy = true
				return nil
			}
		}
		for _, m := range st.movements {
			if m.SedeID == id {
				busy = true
				return nil
			}
		}
		return nil
	})
	return busy, err
}

// UserRepo implementa repository.UserRepository.
type UserRepo struct{ v view }

var _ repository.UserRepository = (*UserRepo)(nil)

func copyUser(u entity.User) *entity.User {
	u.SedeIDs = slices.Clone(u.SedeIDs)
	return &u
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.v.do(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return domain.ErrDuplicate
			}
		}
		st.users[user.ID] = *copyUser(*user)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = copyUser(u)
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = copyUser(u)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return domain.ErrNotFound
		}
		st.users[user.ID] = *copyUser(*user)
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	var list []*entity.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if f.Role != "" && u.Role != f.Role {
				continue
			}
			if f.Status != "" && u.Status != f.Status {
				continue
			}
			if f.SedeID != "" && !slices.Contains(u.SedeIDs, f.SedeID) {
				continue
			}
			if !textsearch.Match(f.Query, u.Name, u.Email) {
				continue
			}
			list = append(list, copyUser(u))
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	page, total := paginate(list, f.Page)
	return page, total, err
}

// CategoryRepo implementa repository.CategoryRepository.
type CategoryRepo struct{ v view }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.v.do(func(st *state) error {
		for _, x := range st.categories {
			if strings.EqualFold(x.Code, c.Code) {
				return domain.ErrDuplicate
			}
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.do(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) GetByCode(_ context.Context, code string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.do(func(st *state) error {
		for _, c := range st.categories {
			if strings.EqualFold(c.Code, code) {
				out = ptr(c)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, x := range st.categories {
			if x.ID != c.ID && strings.EqualFold(x.Code, c.Code) {
				return domain.ErrDuplicate
			}
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) List(_ context.Context, f repository.CategoryFilter) ([]*entity.Category, int, error) {
	var list []*entity.Category
	err := r.v.do(func(st *state) error {
		for _, c := range st.categories {
			if f.ParentID != nil && c.ParentID != *f.ParentID {
				continue
			}
			if !textsearch.Match(f.Query, c.Name, c.Code) {
				continue
			}
			list = append(list, ptr(c))
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	page, total := paginate(list, f.Page)
	return page, total, err
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		delete(st.categories, id)
		return nil
	})
}

func (r *CategoryRepo) CountChildren(_ context.Context, id string) (int, error) {
	n := 0
	err := r.v.do(func(st *state) error {
		for _, c := range st.categories {
			if c.ParentID == id {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *CategoryRepo) CountProducts(_ context.Context, id string) (int, error) {
	n := 0
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			if p.CategoryID == id {
				n++
			}
		}
		return nil
	})
	return n, err
}

// ProviderRepo implementa repository.ProviderRepository.
type ProviderRepo struct{ v view }

var _ repository.ProviderRepository = (*ProviderRepo)(nil)

func (r *ProviderRepo) Create(_ context.Context, p *entity.Provider) error {
	return r.v.do(func(st *state) error {
		for _, x := range st.providers {
			if x.NIT == p.NIT {
				return domain.ErrDuplicate
			}
		}
		st.providers[p.ID] = *p
		return nil
	})
}

func (r *ProviderRepo) GetByID(_ context.Context, id string) (*entity.Provider, error) {
	var out *entity.Provider
	err := r.v.do(func(st *state) error {
		if p, ok := st.providers[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProviderRepo) Update(_ context.Context, p *entity.Provider) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.providers[p.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, x := range st.providers {
			if x.ID != p.ID && x.NIT == p.NIT {
				return domain.ErrDuplicate
			}
		}
		st.providers[p.ID] = *p
		return nil
	})
}

func (r *ProviderRepo) List(_ context.Context, f repository.ProviderFilter) ([]*entity.Provider, int, error) {
	var list []*entity.Provider
	err := r.v.do(func(st *state) error {
		for _, p := range st.providers {
			if f.Active != nil && p.Active != *f.Active {
				continue
			}
			if !textsearch.Match(f.Query, p.Name, p.NIT) {
				continue
			}
			list = append(list, ptr(p))
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	page, total := paginate(list, f.Page)
	return page, total, err
}

func (r *ProviderRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		delete(st.providers, id)
		return nil
	})
}

func (r *ProviderRepo) CountEntries(_ context.Context, id string) (int, error) {
	n := 0
	err := r.v.do(func(st *state) error {
		for _, e := range st.entries {
			if e.ProviderID == id {
				n++
			}
		}
		return nil
	})
	return n, err
}
