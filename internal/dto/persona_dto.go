package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistroRequest creates a Persona and its Usuario in one call.
// Fotografia is an optional base64 image (JPEG, PNG or WebP), raw or as a
// data URL; the service decodes and sniffs it.
type RegistroRequest struct {
	TituloCortesia    *string `json:"titulo_cortesia"    validate:"omitempty,max=20"`
	Nombre            string  `json:"nombre"             validate:"required,min=1,max=80"`
	PrimerApellido    string  `json:"primer_apellido"    validate:"required,min=1,max=80"`
	SegundoApellido   *string `json:"segundo_apellido"   validate:"omitempty,max=80"`
	NumeroTelefonico  *string `json:"numero_telefonico"  validate:"omitempty,max=20"`
	CorreoElectronico string  `json:"correo_electronico" validate:"required,email,max=100"`
	Contrasena        string  `json:"contrasena"         validate:"required,min=8,max=72"`
	FechaNacimiento   string  `json:"fecha_nacimiento"   validate:"required,datetime=2006-01-02"`
	Genero            string  `json:"genero"             validate:"required,oneof=H M NB"`
	TipoSangre        string  `json:"tipo_sangre"        validate:"required,oneof=A_POSITIVO A_NEGATIVO B_POSITIVO B_NEGATIVO AB_POSITIVO AB_NEGATIVO O_POSITIVO O_NEGATIVO"`
	Fotografia        *string `json:"fotografia"`
}

// ActualizarPersonaRequest only touches the fields that are present.
type ActualizarPersonaRequest struct {
	TituloCortesia   *string `json:"titulo_cortesia"   validate:"omitempty,max=20"`
	Nombre           *string `json:"nombre"            validate:"omitempty,min=1,max=80"`
	PrimerApellido   *string `json:"primer_apellido"   validate:"omitempty,min=1,max=80"`
	SegundoApellido  *string `json:"segundo_apellido"  validate:"omitempty,max=80"`
	NumeroTelefonico *string `json:"numero_telefonico" validate:"omitempty,max=20"`
	FechaNacimiento  *string `json:"fecha_nacimiento"  validate:"omitempty,datetime=2006-01-02"`
	Genero           *string `json:"genero"            validate:"omitempty,oneof=H M NB"`
	TipoSangre       *string `json:"tipo_sangre"       validate:"omitempty,oneof=A_POSITIVO A_NEGATIVO B_POSITIVO B_NEGATIVO AB_POSITIVO AB_NEGATIVO O_POSITIVO O_NEGATIVO"`
	Activo           *bool   `json:"activo"`
	Fotografia       *string `json:"fotografia"`
}

type PersonaFilter struct {
	Activo string `form:"activo"` // "true" (default) | "false" | "all"
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// GenerarPersonasRequest drives the synthetic-data generator.
type GenerarPersonasRequest struct {
	Cuantos int     `json:"cuantos"  validate:"required,min=1,max=500"`
	Genero  *string `json:"genero"   validate:"omitempty,oneof=H M NB"`
	EdadMin int     `json:"edad_min" validate:"min=0,max=120"`
	EdadMax int     `json:"edad_max" validate:"min=0,max=120,gtefield=EdadMin"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PersonaResponse struct {
	ID                uint    `json:"id"`
	TituloCortesia    *string `json:"titulo_cortesia"`
	Nombre            string  `json:"nombre"`
	PrimerApellido    string  `json:"primer_apellido"`
	SegundoApellido   *string `json:"segundo_apellido"`
	NumeroTelefonico  *string `json:"numero_telefonico"`
	CorreoElectronico string  `json:"correo_electronico"`
	FechaNacimiento   string  `json:"fecha_nacimiento"`
	Fotografia        *string `json:"fotografia"`
	Genero            string  `json:"genero"`
	TipoSangre        string  `json:"tipo_sangre"`
	Activo            bool    `json:"activo"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// RegistroResponse is the composite result of the registration workflow.
type RegistroResponse struct {
	Persona       PersonaResponse `json:"persona"`
	UsuarioID     uint            `json:"usuario_id"`
	NombreUsuario string          `json:"nombre_usuario"`
	Rol           string          `json:"rol"`
}

type PersonaListResponse struct {
	Data       []PersonaResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type TipoSangreResponse struct {
	TipoSangre    string  `json:"tipo_sangre"`
	Porcentaje    float64 `json:"porcentaje"`
	TotalPersonas int64   `json:"total_personas"`
}

type GeneracionResponse struct {
	Solicitados int    `json:"solicitados"`
	Creados     int    `json:"creados"`
	Mensaje     string `json:"mensaje"`
}
