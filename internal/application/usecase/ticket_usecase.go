package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// TicketUseCase gestión de tickets de soporte: creación, asignación, estados y comentarios.
type TicketUseCase struct {
	repo     repository.TicketRepository
	userRepo repository.UserRepository
	sedeRepo repository.SedeRepository
	now      func() time.Time
}

// NewTicketUseCase construye el caso de uso.
func NewTicketUseCase(repo repository.TicketRepository, userRepo repository.UserRepository, sedeRepo repository.SedeRepository) *TicketUseCase {
	return &TicketUseCase{repo: repo, userRepo: userRepo, sedeRepo: sedeRepo, now: time.Now}
}

// Create abre un ticket. Cualquier rol puede crear tickets.
func (uc *TicketUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	var verr domain.ValidationErrors
	if strings.TrimSpace(in.Subject) == "" {
		verr.Add("subject", "el asunto es obligatorio")
	}
	if !entity.ValidPriority(priority) {
		verr.Add("priority", "prioridad no soportada")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	if in.SedeID != "" {
		sede, err := uc.sedeRepo.GetByID(ctx, in.SedeID)
		if err != nil {
			return nil, err
		}
		if sede == nil {
			return nil, domain.ValidationErrors{{Field: "sede_id", Message: "la sede no existe"}}
		}
	}
	now := uc.now()
	t := &entity.Ticket{
		ID:          uuid.NewString(),
		Subject:     strings.TrimSpace(in.Subject),
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		Status:      entity.TicketOpen,
		SedeID:      in.SedeID,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return toTicketResponse(t), nil
}

// get obtiene el ticket y valida que el actor pueda verlo: admin, creador o asignado.
func (uc *TicketUseCase) get(ctx context.Context, actor access.Actor, id string) (*entity.Ticket, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.IsAdmin() && t.CreatedBy != actor.UserID && t.AssignedTo != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

// GetByID devuelve el ticket con sus comentarios.
func (uc *TicketUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.TicketResponse, error) {
	t, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toTicketResponse(t), nil
}

// List lista tickets. Los no administradores solo ven los que crearon o tienen asignados.
func (uc *TicketUseCase) List(ctx context.Context, actor access.Actor, in dto.TicketListRequest) (*dto.TicketListResponse, error) {
	f := repository.TicketFilter{
		Status:   in.Status,
		Priority: in.Priority,
		SedeID:   in.SedeID,
		Page:     in.ToPage(),
	}
	if in.Mine || !actor.IsAdmin() {
		f.UserID = actor.UserID
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TicketResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTicketResponse(t))
	}
	return &dto.TicketListResponse{Items: items, Page: dto.NewPageResponse(f.Page, total)}, nil
}

// Assign asigna el ticket a un usuario activo. Solo administradores.
func (uc *TicketUseCase) Assign(ctx context.Context, actor access.Actor, id string, in dto.AssignTicketRequest) (*dto.TicketResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	t, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if t.Status == entity.TicketClosed {
		return nil, fmt.Errorf("el ticket está cerrado: %w", domain.ErrConflict)
	}
	user, err := uc.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive() {
		return nil, domain.ValidationErrors{{Field: "user_id", Message: "el usuario no existe o está inactivo"}}
	}
	t.AssignedTo = user.ID
	t.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return toTicketResponse(t), nil
}

// ChangeStatus mueve el ticket de estado según las transiciones permitidas.
// Cerrar o reabrir lo puede hacer el creador, el asignado o un admin.
func (uc *TicketUseCase) ChangeStatus(ctx context.Context, actor access.Actor, id string, in dto.ChangeTicketStatusRequest) (*dto.TicketResponse, error) {
	t, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !t.CanTransition(in.Status) {
		return nil, fmt.Errorf("%s -> %s: %w", t.Status, in.Status, domain.ErrInvalidTransition)
	}
	t.Status = in.Status
	t.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return toTicketResponse(t), nil
}

// Comment agrega un comentario (creador, asignado o admin).
func (uc *TicketUseCase) Comment(ctx context.Context, actor access.Actor, id string, in dto.CommentTicketRequest) (*dto.TicketResponse, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.ValidationErrors{{Field: "text", Message: "el comentario no puede estar vacío"}}
	}
	t, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	c := entity.TicketComment{ID: uuid.NewString(), TicketID: t.ID, UserID: actor.UserID, Text: text, CreatedAt: now}
	if err := uc.repo.AddComment(ctx, &c); err != nil {
		return nil, err
	}
	t.Comments = append(t.Comments, c)
	return toTicketResponse(t), nil
}

func toTicketResponse(t *entity.Ticket) *dto.TicketResponse {
	out := &dto.TicketResponse{
		ID:          t.ID,
		Subject:     t.Subject,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		SedeID:      t.SedeID,
		CreatedBy:   t.CreatedBy,
		AssignedTo:  t.AssignedTo,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, c := range t.Comments {
		out.Comments = append(out.Comments, dto.TicketCommentResponse{ID: c.ID, UserID: c.UserID, Text: c.Text, CreatedAt: c.CreatedAt})
	}
	return out
}
