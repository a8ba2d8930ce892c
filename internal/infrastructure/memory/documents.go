package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/pkg/textsearch"
)

// MovementRepo implementa repository.MovementRepository.
type MovementRepo struct{ v view }

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.do(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var list []*entity.Movement
	err := r.v.do(func(st *state) error {
		for _, m := range st.movements {
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.SedeID != "" && m.SedeID != f.SedeID {
				continue
			}
			if !inRange(m.Date, f.Since, f.Until) {
				continue
			}
			list = append(list, ptr(m))
		}
		return nil
	})
	// los movimientos se agregan en orden; el sort estable conserva el orden dentro de una transacción
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	if f.Page.Limit > 0 || f.Page.Offset > 0 {
		list, _ = paginate(list, f.Page)
	}
	return list, err
}

func (r *MovementRepo) CountBySede(_ context.Context, sedeID string) (int, error) {
	n := 0
	err := r.v.do(func(st *state) error {
		for _, m := range st.movements {
			if m.SedeID == sedeID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct{ v view }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.v.do(func(st *state) error {
		for _, s := range st.sales {
			if s.Number == sale.Number {
				return domain.ErrDuplicate
			}
		}
		cp := *sale
		cp.Items = slices.Clone(sale.Items)
		st.sales[sale.ID] = cp
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.v.do(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			s.Items = slices.Clone(s.Items)
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) UpdateStatus(_ context.Context, sale *entity.Sale) error {
	return r.v.do(func(st *state) error {
		s, ok := st.sales[sale.ID]
		if !ok {
			return domain.ErrNotFound
		}
		s.Status = sale.Status
		s.VoidReason = sale.VoidReason
		s.UpdatedAt = sale.UpdatedAt
		st.sales[sale.ID] = s
		return nil
	})
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	var list []*entity.Sale
	err := r.v.do(func(st *state) error {
		for _, s := range st.sales {
			if f.SedeID != "" && s.SedeID != f.SedeID {
				continue
			}
			if len(f.SedeIDs) > 0 && !slices.Contains(f.SedeIDs, s.SedeID) {
				continue
			}
			if f.UserID != "" && s.UserID != f.UserID {
				continue
			}
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
				continue
			}
			if !inRange(s.Date, f.Since, f.Until) {
				continue
			}
			if !textsearch.Match(f.Query, s.Number, s.CustomerName, s.CustomerDocument) {
				continue
			}
			s.Items = nil
			list = append(list, ptr(s))
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	page, total := paginate(list, f.Page)
	return page, total, err
}

// SequenceRepo implementa repository.SequenceRepository.
type SequenceRepo struct{ v view }

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

func (r *SequenceRepo) Next(_ context.Context, sedeID, kind string) (int64, error) {
	var n int64
	err := r.v.do(func(st *state) error {
		k := seqKey{sedeID, kind}
		st.sequences[k]++
		n = st.sequences[k]
		return nil
	})
	return n, err
}

// StockEntryRepo implementa repository.StockEntryRepository.
type StockEntryRepo struct{ v view }

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

func (r *StockEntryRepo) Create(_ context.Context, e *entity.StockEntry) error {
	return r.v.do(func(st *state) error {
		cp := *e
		cp.Items = slices.Clone(e.Items)
		st.entries[e.ID] = cp
		return nil
	})
}

func (r *StockEntryRepo) GetByID(_ context.Context, id string) (*entity.StockEntry, error) {
	var out *entity.StockEntry
	err := r.v.do(func(st *state) error {
		if e, ok := st.entries[id]; ok {
			e.Items = slices.Clone(e.Items)
			out = &e
		}
		return nil
	})
	return out, err
}

func (r *StockEntryRepo) List(_ context.Context, f repository.StockEntryFilter) ([]*entity.StockEntry, int, error) {
	var list []*entity.StockEntry
	err := r.v.do(func(st *state) error {
		for _, e := range st.entries {
			if f.SedeID != "" && e.SedeID != f.SedeID {
				continue
			}
			if len(f.SedeIDs) > 0 && !slices.Contains(f.SedeIDs, e.SedeID) {
				continue
			}
			if f.ProviderID != "" && e.ProviderID != f.ProviderID {
				continue
			}
			if !inRange(e.Date, f.Since, f.Until) {
				continue
			}
			e.Items = nil
			list = append(list, ptr(e))
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	page, total := paginate(list, f.Page)
	return page, total, err
}

// StockExitRepo implementa repository.StockExitRepository.
type StockExitRepo struct{ v view }

var _ repository.StockExitRepository = (*StockExitRepo)(nil)

func (r *StockExitRepo) Create(_ context.Context, e *entity.StockExit) error {
	return r.v.do(func(st *state) error {
		st.exits = append(st.exits, *e)
		return nil
	})
}

func (r *StockExitRepo) List(_ context.Context, f repository.StockExitFilter) ([]*entity.StockExit, int, error) {
	var list []*entity.StockExit
	err := r.v.do(func(st *state) error {
		for _, e := range st.exits {
			if f.SedeID != "" && e.SedeID != f.SedeID {
				continue
			}
			if len(f.SedeIDs) > 0 && !slices.Contains(f.SedeIDs, e.SedeID) {
				continue
			}
			if f.ProductID != "" && e.ProductID != f.ProductID {
				continue
			}
			if f.Reason != "" && e.Reason != f.Reason {
				continue
			}
			if !inRange(e.Date, f.Since, f.Until) {
				continue
			}
			list = append(list, ptr(e))
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	page, total := paginate(list, f.Page)
	return page, total, err
}
