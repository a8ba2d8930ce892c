package repository

import "time"

// Page paginación normalizada (ver dto.PageRequest).
type Page struct {
	Limit  int
	Offset int
}

// SedeFilter filtros del listado de sedes.
type SedeFilter struct {
	Query  string
	Active *bool
	Page   Page
}

// UserFilter filtros del listado de usuarios.
type UserFilter struct {
	Query  string // nombre o email, sin tildes ni mayúsculas
	Role   string
	Status string
	SedeID string
	Page   Page
}

// CategoryFilter filtros del listado de categorías.
type CategoryFilter struct {
	Query    string
	ParentID *string // nil = todas; "" = solo raíces
	Page     Page
}

// ProviderFilter filtros del listado de proveedores.
type ProviderFilter struct {
	Query  string
	Active *bool
	Page   Page
}

// Ordenamientos soportados del listado de productos.
const (
	ProductSortName    = "name"
	ProductSortCode    = "code"
	ProductSortPrice   = "price"
	ProductSortCreated = "created"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Query        string
	CategoryID   string
	ProviderID   string
	Active       *bool
	SedeID       string // junto con OnlyLowStock
	OnlyLowStock bool
	Sort         string
	Desc         bool
	Page         Page
}

// StockFilter filtros del inventario de una sede.
type StockFilter struct {
	SedeID       string
	Query        string
	CategoryID   string
	OnlyLowStock bool
	Page         Page
}

// MovementFilter filtros del kardex.
type MovementFilter struct {
	ProductID string
	SedeID    string
	Since     *time.Time
	Until     *time.Time
	Page      Page
}

// SaleFilter filtros del listado de ventas.
type SaleFilter struct {
	SedeID        string
	SedeIDs       []string // restringe a las sedes del usuario (vacío = sin restricción)
	UserID        string
	Status        string
	PaymentMethod string
	Query         string // número o cliente
	Since         *time.Time
	Until         *time.Time
	Page          Page
}

// StockEntryFilter filtros del listado de ingresos.
type StockEntryFilter struct {
	SedeID     string
	SedeIDs    []string
	ProviderID string
	Since      *time.Time
	Until      *time.Time
	Page       Page
}

// StockExitFilter filtros del listado de salidas.
type StockExitFilter struct {
	SedeID    string
	SedeIDs   []string
	ProductID string
	Reason    string
	Since     *time.Time
	Until     *time.Time
	Page      Page
}

// TicketFilter filtros del listado de tickets.
type TicketFilter struct {
	Status   string
	Priority string
	SedeID   string
	UserID   string // creados por o asignados a
	Page     Page
}
