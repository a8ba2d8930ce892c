package dto

import "time"

// CreateSedeRequest entrada para crear una sede.
type CreateSedeRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Prefix  string `json:"prefix"`
}

// UpdateSedeRequest entrada para actualizar una sede.
type UpdateSedeRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Prefix  *string `json:"prefix"`
	Active  *bool   `json:"active"`
}

// SedeListRequest filtros del listado de sedes.
type SedeListRequest struct {
	PageRequest
	Query  string `query:"q"`
	Active *bool  `query:"active"`
}

// SedeResponse salida de una sede.
type SedeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Prefix    string    `json:"prefix"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SedeListResponse lista paginada de sedes.
type SedeListResponse struct {
	Items []SedeResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
