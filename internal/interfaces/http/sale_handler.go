package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
)

// SaleHandler maneja el registro, consulta y anulación de ventas.
type SaleHandler struct {
	uc *inventory.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *inventory.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar venta
// @Description  Descuenta existencias de la sede en una sola transacción. Si falta stock
//
//	responde 409 con el detalle por producto y no registra nada.
//
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSaleRequest  true  "sede_id, items, payment_method"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Register(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con sus ítems
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *SaleHandler) listRequest(c *fiber.Ctx) (dto.SaleListRequest, error) {
	var in dto.SaleListRequest
	if err := c.QueryParser(&in); err != nil {
		return in, err
	}
	since, until, err := dateRange(c)
	if err != nil {
		return in, err
	}
	in.Since, in.Until = since, until
	return in, nil
}

// List godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        sede_id         query  string  false  "Sede"
// @Param        user_id         query  string  false  "Vendedor"
// @Param        status          query  string  false  "registered, voided"
// @Param        payment_method  query  string  false  "cash, card, transfer, mixed"
// @Param        q               query  string  false  "Número o cliente"
// @Param        desde           query  string  false  "AAAA-MM-DD"
// @Param        hasta           query  string  false  "AAAA-MM-DD"
// @Param        limit           query  int     false  "Límite"
// @Param        offset          query  int     false  "Offset"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/ventas [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	in, err := h.listRequest(c)
	if err != nil {
		return invalidQuery(c, err)
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar ventas a CSV
// @Tags         ventas
// @Security     Bearer
// @Produce      text/csv
// @Param        desde  query  string  false  "AAAA-MM-DD"
// @Param        hasta  query  string  false  "AAAA-MM-DD"
// @Success      200
// @Router       /api/ventas/export [get]
func (h *SaleHandler) Export(c *fiber.Ctx) error {
	in, err := h.listRequest(c)
	if err != nil {
		return invalidQuery(c, err)
	}
	table, err := h.uc.Export(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, "ventas.csv", table)
}

// Void godoc
// @Summary      Anular venta
// @Description  Devuelve las cantidades a la sede. Solo admin; el motivo es obligatorio.
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la venta"
// @Param        body  body  dto.VoidSaleRequest  true  "reason"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas/{id}/anular [post]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	var in dto.VoidSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Void(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
