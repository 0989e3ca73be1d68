package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	RUT      string `json:"rut"      validate:"required,min=3,max=12"`
	Password string `json:"password" validate:"required,min=4"`
}

type CrearUsuarioRequest struct {
	RUT      string  `json:"rut"      validate:"required,min=3,max=12"`
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Rol      string  `json:"rol"      validate:"required,oneof=cocinero supervisor administrador"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID     string  `json:"id"`
	RUT    string  `json:"rut"`
	Nombre string  `json:"nombre"`
	Email  *string `json:"email"`
	Rol    string  `json:"rol"`
	Activo bool    `json:"activo"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"` // seconds
	User        UsuarioResponse `json:"user"`
}
