package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	ParentID string `json:"parent_id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
}

// UpdateCategoryRequest entrada para actualizar una categoría.
// ParentID = "" la convierte en raíz; nil no la modifica.
type UpdateCategoryRequest struct {
	ParentID *string `json:"parent_id"`
	Name     *string `json:"name"`
	Code     *string `json:"code"`
	Active   *bool   `json:"active"`
}

// CategoryListRequest filtros del listado de categorías.
type CategoryListRequest struct {
	PageRequest
	Query    string  `query:"q"`
	ParentID *string `query:"parent_id"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateProviderRequest entrada para crear un proveedor.
type CreateProviderRequest struct {
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// UpdateProviderRequest entrada para actualizar un proveedor.
type UpdateProviderRequest struct {
	Name    *string `json:"name"`
	NIT     *string `json:"nit"`
	Contact *string `json:"contact"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

// ProviderListRequest filtros del listado de proveedores.
type ProviderListRequest struct {
	PageRequest
	Query  string `query:"q"`
	Active *bool  `query:"active"`
}

// ProviderResponse salida de un proveedor.
type ProviderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit"`
	Contact   string    `json:"contact"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProviderListResponse lista paginada de proveedores.
type ProviderListResponse struct {
	Items []ProviderResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
