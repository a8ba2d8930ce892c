package entity

import "time"

// Provider representa un proveedor de mercancía.
type Provider struct {
	ID        string
	Name      string
	NIT       string // NIT o documento, único
	Contact   string
	Phone     string
	Email     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
