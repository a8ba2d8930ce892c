package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
)

// InventoryHandler maneja existencias, ajustes, traslados, kardex y reposición (protegido).
type InventoryHandler struct {
	stock         *inventory.StockUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, replenishment: replenishment}
}

// ListBySede godoc
// @Summary      Inventario de una sede
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        sede_id      path   string  true   "ID de la sede"
// @Param        q            query  string  false  "Búsqueda por producto"
// @Param        category_id  query  string  false  "Categoría"
// @Param        low_stock    query  bool    false  "Solo bajo el mínimo"
// @Param        limit        query  int     false  "Límite"
// @Param        offset       query  int     false  "Offset"
// @Success      200  {object}  dto.StockListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventario/sedes/{sede_id} [get]
func (h *InventoryHandler) ListBySede(c *fiber.Ctx) error {
	var in dto.StockListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c, err)
	}
	out, err := h.stock.ListBySede(c.UserContext(), actorFrom(c), c.Params("sede_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportSede godoc
// @Summary      Exportar inventario de una sede a CSV
// @Tags         inventario
// @Security     Bearer
// @Produce      text/csv
// @Param        sede_id  path  string  true  "ID de la sede"
// @Success      200
// @Router       /api/inventario/sedes/{sede_id}/export [get]
func (h *InventoryHandler) ExportSede(c *fiber.Ctx) error {
	var in dto.StockListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c, err)
	}
	table, err := h.stock.ExportSede(c.UserContext(), actorFrom(c), c.Params("sede_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, "inventario.csv", table)
}

// GetStock godoc
// @Summary      Existencia de un producto en una sede
// @Description  Sin sede_id usa la sede activa del token.
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        sede_id     query  string  false  "ID de la sede"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.stock.GetStock(c.UserContext(), actorFrom(c), c.Query("product_id"), c.Query("sede_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajustar existencia por conteo físico
// @Description  Envíe new_quantity (conteo) o delta, nunca ambos. El motivo es obligatorio.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, sede_id, new_quantity|delta, reason"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventario/ajustes [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.Adjust(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Trasladar existencias entre sedes
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_sede_id, to_sede_id, quantity"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventario/traslados [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.Transfer(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Kardex godoc
// @Summary      Kardex de un producto
// @Description  Movimientos en orden cronológico con saldo acumulado.
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        producto_id  path   string  true   "ID del producto"
// @Param        sede_id      query  string  false  "Sede (vacío = todas las permitidas)"
// @Param        desde        query  string  false  "AAAA-MM-DD"
// @Param        hasta        query  string  false  "AAAA-MM-DD"
// @Success      200  {object}  dto.KardexResponse
// @Router       /api/inventario/kardex/{producto_id} [get]
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	var in dto.KardexRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c, err)
	}
	since, until, err := dateRange(c)
	if err != nil {
		return invalidQuery(c, err)
	}
	in.Since, in.Until = since, until
	out, err := h.stock.Kardex(c.UserContext(), actorFrom(c), c.Params("producto_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos por debajo del stock mínimo con la cantidad sugerida
//
//	de pedido, ordenados por déficit.
//
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        sede_id  query  string  false  "Filtrar por sede. Vacío = sedes permitidas."
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventario/reposicion [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateList(c.UserContext(), actorFrom(c), c.Query("sede_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
