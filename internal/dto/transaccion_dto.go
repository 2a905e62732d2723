package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearTransaccionRequest struct {
	Detalles   string          `json:"detalles"    validate:"required,min=3,max=255"`
	Tipo       string          `json:"tipo"        validate:"required,oneof=Ingreso Egreso"`
	MetodoPago string          `json:"metodo_pago" validate:"required,oneof=TarjetaDebito TarjetaCredito Efectivo Transferencia"`
	Monto      decimal.Decimal `json:"monto"       validate:"min=0"`
	Estatus    *string         `json:"estatus"     validate:"omitempty,oneof=Procesando Pagada Rechazada"`
}

// ActualizarTransaccionRequest: nil fields are left untouched. Cancelling goes
// through DELETE, never through this request.
type ActualizarTransaccionRequest struct {
	Detalles   *string          `json:"detalles"    validate:"omitempty,min=3,max=255"`
	Tipo       *string          `json:"tipo"        validate:"omitempty,oneof=Ingreso Egreso"`
	MetodoPago *string          `json:"metodo_pago" validate:"omitempty,oneof=TarjetaDebito TarjetaCredito Efectivo Transferencia"`
	Monto      *decimal.Decimal `json:"monto"`
	Estatus    *string          `json:"estatus"     validate:"omitempty,oneof=Procesando Pagada Rechazada"`
}

type TransaccionFilter struct {
	Tipo        string     `form:"tipo"`
	MetodoPago  string     `form:"metodo_pago"`
	Estatus     string     `form:"estatus"`
	UsuarioID   *uint      `form:"-"`
	FechaInicio *time.Time `form:"-"`
	FechaFin    *time.Time `form:"-"`
	Page        int        `form:"page"`
	Limit       int        `form:"limit"`
}

type GenerarTransaccionesRequest struct {
	Cantidad int `json:"cantidad" validate:"required,min=1,max=1000"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransaccionResponse struct {
	ID         uint            `json:"id"`
	UsuarioID  uint            `json:"usuario_id"`
	Detalles   string          `json:"detalles"`
	Tipo       string          `json:"tipo"`
	MetodoPago string          `json:"metodo_pago"`
	Monto      decimal.Decimal `json:"monto"`
	Estatus    string          `json:"estatus"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

type TransaccionListResponse struct {
	Data       []TransaccionResponse `json:"data"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}

type BalanceResponse struct {
	UsuarioID uint            `json:"usuario_id"`
	Ingresos  decimal.Decimal `json:"ingresos"`
	Egresos   decimal.Decimal `json:"egresos"`
	Balance   decimal.Decimal `json:"balance"`
}

type TransaccionEstadisticas struct {
	TotalIngresos        decimal.Decimal `json:"total_ingresos"`
	TotalEgresos         decimal.Decimal `json:"total_egresos"`
	BalanceGeneral       decimal.Decimal `json:"balance_general"`
	TransaccionesTotales int64           `json:"transacciones_totales"`
}
