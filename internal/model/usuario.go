package model

import "time"

// Usuario is the login account derived from exactly one Persona.
// NombreUsuario is generated once at registration and never recomputed.
type Usuario struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	PersonaID         uint   `gorm:"not null;uniqueIndex"`
	NombreUsuario     string `gorm:"type:varchar(16);not null;uniqueIndex"`
	CorreoElectronico string `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash      string `gorm:"type:varchar(128);not null"`
	Activo            bool   `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Persona *Persona     `gorm:"foreignKey:PersonaID"`
	Roles   []UsuarioRol `gorm:"foreignKey:UsuarioID"`
}

func (Usuario) TableName() string { return "usuarios" }

// NombresRoles returns the names of the active role assignments.
// Roles must be preloaded with their Rol.
func (u *Usuario) NombresRoles() []string {
	nombres := make([]string, 0, len(u.Roles))
	for _, ur := range u.Roles {
		if ur.Activo && ur.Rol != nil {
			nombres = append(nombres, ur.Rol.Nombre)
		}
	}
	return nombres
}

// TieneRol reports whether the account holds the named role.
func (u *Usuario) TieneRol(nombre string) bool {
	for _, r := range u.NombresRoles() {
		if r == nombre {
			return true
		}
	}
	return false
}
