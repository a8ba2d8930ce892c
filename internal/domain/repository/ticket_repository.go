package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// TicketRepository define el puerto de persistencia para tickets y comentarios.
type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	// GetByID devuelve el ticket con sus comentarios.
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	Update(ctx context.Context, ticket *entity.Ticket) error
	List(ctx context.Context, f TicketFilter) ([]*entity.Ticket, int, error)
	AddComment(ctx context.Context, comment *entity.TicketComment) error
}
