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

var _ repository.TicketRepository = (*TicketRepo)(nil)

// TicketRepo tickets y ticket_comentarios.
type TicketRepo struct {
	q Querier
}

// NewTicketRepository construye el adaptador de tickets.
func NewTicketRepository(q Querier) *TicketRepo {
	return &TicketRepo{q: q}
}

const ticketColumns = `id, asunto, descripcion, prioridad, estado, coalesce(sede_id::text, ''), creado_por,
	coalesce(asignado_a::text, ''), created_at, updated_at`

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var t entity.Ticket
	err := row.Scan(&t.ID, &t.Subject, &t.Description, &t.Priority, &t.Status, &t.SedeID, &t.CreatedBy,
		&t.AssignedTo, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

// Create persiste un ticket.
func (r *TicketRepo) Create(ctx context.Context, t *entity.Ticket) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO tickets (id, asunto, descripcion, prioridad, estado, sede_id, creado_por, asignado_a, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Subject, t.Description, t.Priority, t.Status, nullable(t.SedeID), t.CreatedBy, nullable(t.AssignedTo),
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return wrap("insert ticket", err)
	}
	return nil
}

// GetByID devuelve el ticket con sus comentarios en orden cronológico.
func (r *TicketRepo) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	t, err := scanTicket(r.q.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, ticket_id, usuario_id, texto, created_at
		FROM ticket_comentarios WHERE ticket_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket comments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c entity.TicketComment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket comment: %w", err)
		}
		t.Comments = append(t.Comments, c)
	}
	return t, rows.Err()
}

// Update actualiza estado, prioridad y asignación.
func (r *TicketRepo) Update(ctx context.Context, t *entity.Ticket) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE tickets SET asunto = $2, descripcion = $3, prioridad = $4, estado = $5, sede_id = $6, asignado_a = $7, updated_at = $8
		WHERE id = $1`,
		t.ID, t.Subject, t.Description, t.Priority, t.Status, nullable(t.SedeID), nullable(t.AssignedTo), t.UpdatedAt,
	)
	if err != nil {
		return wrap("update ticket", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista tickets, más recientes primero.
func (r *TicketRepo) List(ctx context.Context, f repository.TicketFilter) ([]*entity.Ticket, int, error) {
	var w where
	if f.Status != "" {
		w.add("estado = ?", f.Status)
	}
	if f.Priority != "" {
		w.add("prioridad = ?", f.Priority)
	}
	if f.SedeID != "" {
		w.add("sede_id = ?", f.SedeID)
	}
	if f.UserID != "" {
		w.add("(creado_por = ? OR asignado_a = ?)", f.UserID, f.UserID)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM tickets`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+ticketColumns+` FROM tickets`+w.String()+` ORDER BY created_at DESC`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan ticket: %w", err)
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

// AddComment agrega un comentario y toca updated_at del ticket.
func (r *TicketRepo) AddComment(ctx context.Context, c *entity.TicketComment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ticket_comentarios (id, ticket_id, usuario_id, texto, created_at)
		VALUES ($1, $2, $3, $4, $5)`, c.ID, c.TicketID, c.UserID, c.Text, c.CreatedAt)
	if err != nil {
		return wrap("insert ticket comment", err)
	}
	if _, err := r.q.Exec(ctx, `UPDATE tickets SET updated_at = $2 WHERE id = $1`, c.TicketID, c.CreatedAt); err != nil {
		return fmt.Errorf("touch ticket: %w", err)
	}
	return nil
}
