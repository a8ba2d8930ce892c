package dto

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token JWT más el usuario y sus sedes.
type LoginResponse struct {
	Token        string         `json:"token"`
	ExpiresAt    int64          `json:"expires_at"`
	ActiveSedeID string         `json:"active_sede_id,omitempty"`
	User         UserResponse   `json:"user"`
	Sedes        []SedeResponse `json:"sedes"`
}

// SelectSedeRequest cambia la sede activa de la sesión.
type SelectSedeRequest struct {
	SedeID string `json:"sede_id"`
}

// SessionResponse token reemitido tras cambiar de sede.
type SessionResponse struct {
	Token        string `json:"token"`
	ExpiresAt    int64  `json:"expires_at"`
	ActiveSedeID string `json:"active_sede_id"`
}

// MeResponse usuario autenticado con sus sedes y la sede activa.
type MeResponse struct {
	User         UserResponse   `json:"user"`
	Sedes        []SedeResponse `json:"sedes"`
	ActiveSedeID string         `json:"active_sede_id,omitempty"`
}
