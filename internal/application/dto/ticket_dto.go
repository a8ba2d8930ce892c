package dto

import "time"

// CreateTicketRequest entrada para crear un ticket.
type CreateTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	SedeID      string `json:"sede_id"`
}

// AssignTicketRequest asignación de responsable.
type AssignTicketRequest struct {
	UserID string `json:"user_id"`
}

// ChangeTicketStatusRequest cambio de estado.
type ChangeTicketStatusRequest struct {
	Status string `json:"status"`
}

// CommentTicketRequest nuevo comentario.
type CommentTicketRequest struct {
	Text string `json:"text"`
}

// TicketListRequest filtros del listado de tickets.
type TicketListRequest struct {
	PageRequest
	Status   string `query:"status"`
	Priority string `query:"priority"`
	SedeID   string `query:"sede_id"`
	Mine     bool   `query:"mine"`
}

// TicketCommentResponse comentario de un ticket.
type TicketCommentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketResponse salida de un ticket.
type TicketResponse struct {
	ID          string                  `json:"id"`
	Subject     string                  `json:"subject"`
	Description string                  `json:"description"`
	Priority    string                  `json:"priority"`
	Status      string                  `json:"status"`
	SedeID      string                  `json:"sede_id,omitempty"`
	CreatedBy   string                  `json:"created_by"`
	AssignedTo  string                  `json:"assigned_to,omitempty"`
	Comments    []TicketCommentResponse `json:"comments,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// TicketListResponse lista paginada de tickets.
type TicketListResponse struct {
	Items []TicketResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
