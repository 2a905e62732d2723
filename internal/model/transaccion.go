package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TipoIngreso = "Ingreso"
	TipoEgreso  = "Egreso"
)

const (
	MetodoTarjetaDebito  = "TarjetaDebito"
	MetodoTarjetaCredito = "TarjetaCredito"
	MetodoEfectivo       = "Efectivo"
	MetodoTransferencia  = "Transferencia"
)

const (
	EstatusProcesando = "Procesando"
	EstatusPagada     = "Pagada"
	EstatusCancelada  = "Cancelada"
	EstatusRechazada  = "Rechazada"
)

// Transaccion is an income or expense owned by a Usuario.
// Rows are never deleted; cancelling moves Estatus to "Cancelada".
type Transaccion struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	UsuarioID  uint            `gorm:"not null;index"`
	Detalles   string          `gorm:"type:varchar(255);not null"`
	Tipo       string          `gorm:"type:varchar(10);not null;index"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estatus    string          `gorm:"type:varchar(12);not null;default:'Procesando';index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (Transaccion) TableName() string { return "transacciones" }
