package entity

import "time"

// Sede representa una sede física (punto de venta o bodega) del modelo multi-sede.
type Sede struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Prefix    string // prefijo para consecutivos de ventas e ingresos (ej: "CEN")
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
