package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest accepts either the generated nombre_usuario or the account email.
type LoginRequest struct {
	NombreUsuario string `json:"nombre_usuario" validate:"required,min=1,max=100"`
	Contrasena    string `json:"contrasena"     validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AsignarRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=Administrador Colaborador Cliente Entrenador Visitante"`
}

// UsuarioFilter drives GET /users.
type UsuarioFilter struct {
	Rol              string `form:"rol"`
	IncluirInactivos bool   `form:"incluir_inactivos"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID                uint     `json:"id"`
	PersonaID         uint     `json:"persona_id"`
	NombreUsuario     string   `json:"nombre_usuario"`
	CorreoElectronico string   `json:"correo_electronico"`
	Roles             []string `json:"roles"`
	Activo            bool     `json:"activo"`
	CreatedAt         string   `json:"created_at"`
}

// PerfilResponse is returned by GET /me.
type PerfilResponse struct {
	UsuarioResponse
	Persona *PersonaResponse `json:"persona"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	EsGerente    bool            `json:"es_gerente"`
	User         UsuarioResponse `json:"user"`
}
