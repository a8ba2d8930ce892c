package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// TicketRepo implementa repository.TicketRepository.
type TicketRepo struct{ v view }

var _ repository.TicketRepository = (*TicketRepo)(nil)

func (r *TicketRepo) Create(_ context.Context, t *entity.Ticket) error {
	return r.v.do(func(st *state) error {
		cp := *t
		cp.Comments = nil
		st.tickets[t.ID] = cp
		return nil
	})
}

func (r *TicketRepo) GetByID(_ context.Context, id string) (*entity.Ticket, error) {
	var out *entity.Ticket
	err := r.v.do(func(st *state) error {
		if t, ok := st.tickets[id]; ok {
			t.Comments = slices.Clone(t.Comments)
			out = &t
		}
		return nil
	})
	return out, err
}

// Update no toca los comentarios; se agregan con AddComment.
func (r *TicketRepo) Update(_ context.Context, t *entity.Ticket) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.tickets[t.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cp := *t
		cp.Comments = cur.Comments
		st.tickets[t.ID] = cp
		return nil
	})
}

func (r *TicketRepo) List(_ context.Context, f repository.TicketFilter) ([]*entity.Ticket, int, error) {
	var list []*entity.Ticket
	err := r.v.do(func(st *state) error {
		for _, t := range st.tickets {
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			if f.Priority != "" && t.Priority != f.Priority {
				continue
			}
			if f.SedeID != "" && t.SedeID != f.SedeID {
				continue
			}
			if f.UserID != "" && t.CreatedBy != f.UserID && t.AssignedTo != f.UserID {
				continue
			}
			t.Comments = nil
			list = append(list, ptr(t))
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	page, total := paginate(list, f.Page)
	return page, total, err
}

func (r *TicketRepo) AddComment(_ context.Context, c *entity.TicketComment) error {
	return r.v.do(func(st *state) error {
		t, ok := st.tickets[c.TicketID]
		if !ok {
			return domain.ErrNotFound
		}
		t.Comments = append(slices.Clone(t.Comments), *c)
		t.UpdatedAt = c.CreatedAt
		st.tickets[c.TicketID] = t
		return nil
	})
}

// AnalyticsRepo implementa repository.AnalyticsRepository.
type AnalyticsRepo struct{ v view }

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// salesIn recorre las ventas registradas de la sede en [start, end).
func salesIn(st *state, sedeID string, start, end time.Time, fn func(s entity.Sale)) {
	for _, s := range st.sales {
		if s.Status != entity.SaleStatusRegistered {
			continue
		}
		if sedeID != "" && s.SedeID != sedeID {
			continue
		}
		if s.Date.Before(start) || !s.Date.Before(end) {
			continue
		}
		fn(s)
	}
}

func (r *AnalyticsRepo) GetSalesMetrics(_ context.Context, sedeID string, start, end time.Time) (repository.SalesMetrics, error) {
	m := repository.SalesMetrics{Revenue: decimal.Zero, Net: decimal.Zero, Cost: decimal.Zero}
	err := r.v.do(func(st *state) error {
		salesIn(st, sedeID, start, end, func(s entity.Sale) {
			m.Count++
			m.Revenue = m.Revenue.Add(s.Total)
			m.Net = m.Net.Add(s.Subtotal)
			for _, it := range s.Items {
				m.Cost = m.Cost.Add(it.Quantity.Mul(it.UnitCost))
			}
		})
		return nil
	})
	return m, err
}

func (r *AnalyticsRepo) GetTopProducts(_ context.Context, sedeID string, start, end time.Time, limit int) ([]repository.TopProduct, error) {
	byID := map[string]*repository.TopProduct{}
	err := r.v.do(func(st *state) error {
		salesIn(st, sedeID, start, end, func(s entity.Sale) {
			for _, it := range s.Items {
				tp, ok := byID[it.ProductID]
				if !ok {
					p := st.products[it.ProductID]
					tp = &repository.TopProduct{ProductID: it.ProductID, Code: p.Code, Name: p.Name}
					byID[it.ProductID] = tp
				}
				tp.Units = tp.Units.Add(it.Quantity)
				tp.Revenue = tp.Revenue.Add(it.Total)
			}
		})
		return nil
	})
	out := make([]repository.TopProduct, 0, len(byID))
	for _, tp := range byID {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Units.Equal(out[j].Units) {
			return out[i].Units.GreaterThan(out[j].Units)
		}
		return out[i].Code < out[j].Code
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *AnalyticsRepo) CountLowStock(ctx context.Context, sedeID string) (int, error) {
	lines, err := (&StockRepo{v: r.v}).BelowMinimum(ctx, sedeID)
	return len(lines), err
}

func (r *AnalyticsRepo) CountOpenTickets(_ context.Context, sedeID string) (int, error) {
	n := 0
	err := r.v.do(func(st *state) error {
		for _, t := range st.tickets {
			if sedeID != "" && t.SedeID != sedeID {
				continue
			}
			if t.Status == entity.TicketOpen || t.Status == entity.TicketInProgress {
				n++
			}
		}
		return nil
	})
	return n, err
}
