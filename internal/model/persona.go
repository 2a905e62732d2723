package model

import "time"

// Genero: "H" | "M" | "NB"
const (
	GeneroHombre    = "H"
	GeneroMujer     = "M"
	GeneroNoBinario = "NB"
)

// TiposSangre lists every accepted value for Persona.TipoSangre.
var TiposSangre = []string{
	"A_POSITIVO", "A_NEGATIVO",
	"B_POSITIVO", "B_NEGATIVO",
	"AB_POSITIVO", "AB_NEGATIVO",
	"O_POSITIVO", "O_NEGATIVO",
}

// Persona is the identity record every account is derived from.
// Email is not unique at this level; uniqueness lives on Usuario.
type Persona struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"`
	TituloCortesia    *string   `gorm:"type:varchar(20)"`
	Nombre            string    `gorm:"type:varchar(80);not null"`
	PrimerApellido    string    `gorm:"type:varchar(80);not null"`
	SegundoApellido   *string   `gorm:"type:varchar(80)"`
	NumeroTelefonico  *string   `gorm:"type:varchar(20)"`
	CorreoElectronico string    `gorm:"type:varchar(100);not null;index"`
	FechaNacimiento   time.Time `gorm:"type:date;not null"`
	// Fotografia is the media store reference, nil when no photo was uploaded
	Fotografia *string `gorm:"type:varchar(200)"`
	Genero     string  `gorm:"type:varchar(2);not null"`
	TipoSangre string  `gorm:"type:varchar(12);not null"`
	Activo     bool    `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Usuario *Usuario `gorm:"foreignKey:PersonaID"`
}

func (Persona) TableName() string { return "personas" }
