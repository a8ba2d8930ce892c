package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	SedeIDs  []string `json:"sede_ids"`
}

// UpdateUserRequest campos opcionales a modificar.
type UpdateUserRequest struct {
	Name     *string   `json:"name"`
	Role     *string   `json:"role"`
	Status   *string   `json:"status"`
	Password *string   `json:"password"`
	SedeIDs  *[]string `json:"sede_ids"`
}

// UserListRequest filtros del listado de usuarios.
type UserListRequest struct {
	PageRequest
	Query  string `query:"q"`
	Role   string `query:"role"`
	Status string `query:"status"`
	SedeID string `query:"sede_id"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	SedeIDs   []string  `json:"sede_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
