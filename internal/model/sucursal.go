package model

import "time"

// Sucursal is a gym branch. ResponsableID points at the managing Usuario.
// Deactivation is a soft delete: Activo=false.
type Sucursal struct {
	ID                    uint    `gorm:"primaryKey;autoIncrement"`
	Nombre                string  `gorm:"type:varchar(60);not null"`
	Direccion             string  `gorm:"type:varchar(150);not null"`
	ResponsableID         uint    `gorm:"not null;index"`
	CapacidadMaxima       int     `gorm:"not null"`
	HorarioDisponibilidad string  `gorm:"type:text;not null"`
	Detalles              *string `gorm:"type:text"`
	Activo                bool    `gorm:"not null;default:true"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Responsable *Usuario `gorm:"foreignKey:ResponsableID"`
}

func (Sucursal) TableName() string { return "sucursales" }
