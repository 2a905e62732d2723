package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearSucursalRequest struct {
	Nombre                string  `json:"nombre"                 validate:"required,min=2,max=60"`
	Direccion             string  `json:"direccion"              validate:"required,min=5,max=150"`
	ResponsableID         uint    `json:"responsable_id"         validate:"required"`
	CapacidadMaxima       int     `json:"capacidad_maxima"       validate:"required,min=1"`
	HorarioDisponibilidad string  `json:"horario_disponibilidad" validate:"required"`
	Detalles              *string `json:"detalles"`
}

// ActualizarSucursalRequest: nil fields are left untouched.
type ActualizarSucursalRequest struct {
	Nombre                *string `json:"nombre"                 validate:"omitempty,min=2,max=60"`
	Direccion             *string `json:"direccion"              validate:"omitempty,min=5,max=150"`
	ResponsableID         *uint   `json:"responsable_id"         validate:"omitempty,min=1"`
	CapacidadMaxima       *int    `json:"capacidad_maxima"       validate:"omitempty,min=1"`
	HorarioDisponibilidad *string `json:"horario_disponibilidad" validate:"omitempty,min=1"`
	Detalles              *string `json:"detalles"`
	Activo                *bool   `json:"activo"`
}

type SucursalFilter struct {
	Activas string `form:"activas"` // "true" | "false" | "" (all)
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SucursalResponse struct {
	ID                    uint    `json:"id"`
	Nombre                string  `json:"nombre"`
	Direccion             string  `json:"direccion"`
	ResponsableID         uint    `json:"responsable_id"`
	NombreResponsable     *string `json:"nombre_responsable"`
	CapacidadMaxima       int     `json:"capacidad_maxima"`
	HorarioDisponibilidad string  `json:"horario_disponibilidad"`
	Detalles              *string `json:"detalles"`
	Activo                bool    `json:"activo"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}

type SucursalListResponse struct {
	Data       []SucursalResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type SucursalEstadisticas struct {
	TotalSucursales     int64   `json:"total_sucursales"`
	SucursalesActivas   int64   `json:"sucursales_activas"`
	SucursalesInactivas int64   `json:"sucursales_inactivas"`
	CapacidadPromedio   float64 `json:"capacidad_promedio"`
}
