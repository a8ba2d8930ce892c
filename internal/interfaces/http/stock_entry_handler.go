package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
)

// StockEntryHandler maneja ingresos de mercancía y salidas manuales.
type StockEntryHandler struct {
	entries *inventory.StockEntryUseCase
	exits   *inventory.StockExitUseCase
}

// NewStockEntryHandler construye el handler.
func NewStockEntryHandler(entries *inventory.StockEntryUseCase, exits *inventory.StockExitUseCase) *StockEntryHandler {
	return &StockEntryHandler{entries: entries, exits: exits}
}

// RegisterEntry godoc
// @Summary      Registrar ingreso de mercancía
// @Description  Suma existencias en la sede y recalcula el costo promedio ponderado de cada producto.
// @Tags         ingresos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterStockEntryRequest  true  "sede_id, provider_id, items"
// @Success      201   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/ingresos [post]
func (h *StockEntryHandler) RegisterEntry(c *fiber.Ctx) error {
	var in dto.RegisterStockEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.entries.Register(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetEntry godoc
// @Summary      Obtener ingreso con sus ítems
// @Tags         ingresos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ingreso"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ingresos/{id} [get]
func (h *StockEntryHandler) GetEntry(c *fiber.Ctx) error {
	out, err := h.entries.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListEntries godoc
// @Summary      Listar ingresos
// @Tags         ingresos
// @Security     Bearer
// @Produce      json
// @Param        sede_id      query  string  false  "Sede"
// @Param        provider_id  query  string  false  "Proveedor"
// @Param        desde        query  string  false  "AAAA-MM-DD"
// @Param        hasta        query  string  false  "AAAA-MM-DD"
// @Success      200  {object}  dto.StockEntryListResponse
// @Router       /api/ingresos [get]
func (h *StockEntryHandler) ListEntries(c *fiber.Ctx) error {
	var in dto.StockEntryListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c, err)
	}
	since, until, err := dateRange(c)
	if err != nil {
		return invalidQuery(c, err)
	}
	in.Since, in.Until = since, until
	out, err := h.entries.List(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterExit godoc
// @Summary      Registrar salida de mercancía
// @Description  Merma, consumo interno, donación o devolución a proveedor.
// @Tags         salidas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterStockExitRequest  true  "sede_id, product_id, quantity, reason"
// @Success      201   {object}  dto.StockExitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/salidas [post]
func (h *StockEntryHandler) RegisterExit(c *fiber.Ctx) error {
	var in dto.RegisterStockExitRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.exits.Register(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListExits godoc
// @Summary      Listar salidas
// @Tags         salidas
// @Security     Bearer
// @Produce      json
// @Param        sede_id     query  string  false  "Sede"
// @Param        product_id  query  string  false  "Producto"
// @Param        reason      query  string  false  "shrinkage, internal_use, donation, supplier_return, other"
// @Param        desde       query  string  false  "AAAA-MM-DD"
// @Param        hasta       query  string  false  "AAAA-MM-DD"
// @Success      200  {object}  dto.StockExitListResponse
// @Router       /api/salidas [get]
func (h *StockEntryHandler) ListExits(c *fiber.Ctx) error {
	var in dto.StockExitListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c, err)
	}
	since, until, err := dateRange(c)
	if err != nil {
		return invalidQuery(c, err)
	}
	in.Since, in.Until = since, until
	out, err := h.exits.List(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
