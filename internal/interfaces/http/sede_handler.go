package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
)

// SedeHandler maneja las sedes (lectura para todos, escritura admin).
type SedeHandler struct {
	uc *usecase.SedeUseCase
}

// NewSedeHandler construye el handler.
func NewSedeHandler(uc *usecase.SedeUseCase) *SedeHandler {
	return &SedeHandler{uc: uc}
}

// Create godoc
// @Summary      Crear sede
// @Tags         sedes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSedeRequest  true  "Datos de la sede"
// @Success      201   {object}  dto.SedeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sedes [post]
func (h *SedeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSedeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener sede
// @Tags         sedes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sede"
// @Success      200  {object}  dto.SedeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sedes/{id} [get]
func (h *SedeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar sedes
// @Tags         sedes
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "Búsqueda por nombre"
// @Param        active  query  bool    false  "Solo activas / inactivas"
// @Success      200  {object}  dto.SedeListResponse
// @Router       /api/sedes [get]
func (h *SedeHandler) List(c *fiber.Ctx) error {
	var in dto.SedeListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c, err)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar sede
// @Tags         sedes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la sede"
// @Param        body  body  dto.UpdateSedeRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SedeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sedes/{id} [put]
func (h *SedeHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSedeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar sede
// @Description  Solo se eliminan sedes sin existencias ni movimientos; en otro caso desactívela.
// @Tags         sedes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sede"
// @Success      200  {object}  dto.MessageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sedes/{id} [delete]
func (h *SedeHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "sede eliminada"})
}
