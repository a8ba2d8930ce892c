package entity

import "time"

// Estados de ticket.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// Prioridades de ticket.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ticketTransitions estados destino permitidos desde cada estado.
var ticketTransitions = map[string][]string{
	TicketOpen:       {TicketInProgress, TicketClosed},
	TicketInProgress: {TicketResolved},
	TicketResolved:   {TicketClosed, TicketInProgress},
}

// Ticket representa una solicitud de soporte o novedad reportada desde una sede.
type Ticket struct {
	ID          string
	Subject     string
	Description string
	Priority    string
	Status      string
	SedeID      string // opcional
	CreatedBy   string
	AssignedTo  string // opcional
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Comments    []TicketComment
}

// TicketComment comentario sobre un ticket.
type TicketComment struct {
	ID        string
	TicketID  string
	UserID    string
	Text      string
	CreatedAt time.Time
}

// ValidPriority indica si la prioridad es soportada.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// CanTransition indica si el ticket puede pasar al estado destino.
func (t *Ticket) CanTransition(to string) bool {
	for _, s := range ticketTransitions[t.Status] {
		if s == to {
			return true
		}
	}
	return false
}
