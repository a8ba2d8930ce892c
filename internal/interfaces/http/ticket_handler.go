package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
)

// TicketHandler maneja los tickets de soporte interno.
type TicketHandler struct {
	uc *usecase.TicketUseCase
}

// NewTicketHandler construye el handler.
func NewTicketHandler(uc *usecase.TicketUseCase) *TicketHandler {
	return &TicketHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ticket
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTicketRequest  true  "subject, description, priority, sede_id"
// @Success      201   {object}  dto.TicketResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tickets [post]
func (h *TicketHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ticket con comentarios
// @Tags         tickets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ticket"
// @Success      200  {object}  dto.TicketResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tickets/{id} [get]
func (h *TicketHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar tickets
// @Description  Los no admin solo ven los tickets que crearon o tienen asignados.
// @Tags         tickets
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "open, in_progress, resolved, closed"
// @Param        priority  query  string  false  "low, medium, high"
// @Param        sede_id   query  string  false  "Sede"
// @Param        mine      query  bool    false  "Solo propios"
// @Success      200  {object}  dto.TicketListResponse
// @Router       /api/tickets [get]
func (h *TicketHandler) List(c *fiber.Ctx) error {
	var in dto.TicketListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c, err)
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Assign godoc
// @Summary      Asignar ticket
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del ticket"
// @Param        body  body  dto.AssignTicketRequest  true  "user_id"
// @Success      200   {object}  dto.TicketResponse
// @Router       /api/tickets/{id}/asignar [post]
func (h *TicketHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Assign(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado del ticket
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del ticket"
// @Param        body  body  dto.ChangeTicketStatusRequest  true  "status"
// @Success      200   {object}  dto.TicketResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tickets/{id}/estado [post]
func (h *TicketHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeTicketStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Comment godoc
// @Summary      Comentar ticket
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del ticket"
// @Param        body  body  dto.CommentTicketRequest  true  "text"
// @Success      201   {object}  dto.TicketResponse
// @Router       /api/tickets/{id}/comentarios [post]
func (h *TicketHandler) Comment(c *fiber.Ctx) error {
	var in dto.CommentTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Comment(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
