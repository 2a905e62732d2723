package model

import "time"

// Role names. The set is closed; Rol rows are seeded from RolesIniciales.
const (
	RolAdministrador = "Administrador"
	RolColaborador   = "Colaborador"
	RolCliente       = "Cliente"
	RolEntrenador    = "Entrenador"
	RolVisitante     = "Visitante"
)

// RolesIniciales is the catalog created by the seed command.
var RolesIniciales = []Rol{
	{Nombre: RolAdministrador, Descripcion: "Gerencia del gimnasio", Activo: true},
	{Nombre: RolColaborador, Descripcion: "Personal operativo", Activo: true},
	{Nombre: RolCliente, Descripcion: "Socio del gimnasio", Activo: true},
	{Nombre: RolEntrenador, Descripcion: "Instructor", Activo: true},
	{Nombre: RolVisitante, Descripcion: "Acceso temporal", Activo: true},
}

type Rol struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Nombre      string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Descripcion string `gorm:"type:varchar(120)"`
	Activo      bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Rol) TableName() string { return "roles" }

// UsuarioRol assigns a role to an account. An account may hold several roles.
type UsuarioRol struct {
	UsuarioID uint `gorm:"primaryKey"`
	RolID     uint `gorm:"primaryKey"`
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Rol *Rol `gorm:"foreignKey:RolID"`
}

func (UsuarioRol) TableName() string { return "usuario_roles" }
