package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventario-sedes/internal/application/analytics"
)

// DashboardHandler maneja el endpoint del panel.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve ventas y margen del día y del mes, los productos más
// vendidos, los productos bajo el mínimo y los tickets abiertos.
// GET /api/dashboard?sede_id=
//
// Sin sede_id agrega las sedes permitidas al usuario (todas para admin).
// Las fechas se calculan en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), actorFrom(c), c.Query("sede_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
