package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/pkg/csvexport"
)

const dateLayout = "2006-01-02"

// parseDate acepta YYYY-MM-DD o RFC3339. endOfDay lleva una fecha sin hora al último
// instante del día para que "hasta=2024-05-31" incluya todo el 31.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida %q: use AAAA-MM-DD", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// dateRange lee los query params desde/hasta.
func dateRange(c *fiber.Ctx) (since, until *time.Time, err error) {
	if since, err = parseDate(c.Query("desde"), false); err != nil {
		return nil, nil, err
	}
	if until, err = parseDate(c.Query("hasta"), true); err != nil {
		return nil, nil, err
	}
	if since != nil && until != nil && until.Before(*since) {
		return nil, nil, fmt.Errorf("el rango de fechas es inválido: hasta es anterior a desde")
	}
	return since, until, nil
}

// sendCSV responde la tabla como descarga CSV.
func sendCSV(c *fiber.Ctx, filename string, t csvexport.Table) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return csvexport.Write(c.Response().BodyWriter(), t)
}
