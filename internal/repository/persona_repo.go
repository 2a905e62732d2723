package repository

import (
	"context"

	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"

	"gorm.io/gorm"
)

// TipoSangreTotal is one row of the blood-type distribution query.
type TipoSangreTotal struct {
	TipoSangre string
	Total      int64
}

// PersonaRepository defines the data access contract for personas.
// Services depend on this interface, not on the concrete GORM implementation.
type PersonaRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Persona, error)
	List(ctx context.Context, filter dto.PersonaFilter) ([]model.Persona, int64, error)
	Update(ctx context.Context, p *model.Persona) error
	Count(ctx context.Context) (int64, error)
	DistribucionTipoSangre(ctx context.Context) ([]TipoSangreTotal, error)

	// Used inside transactions; callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Persona) error
	// DeleteCascadeTx removes the persona together with its usuario and role
	// assignments. Returns gorm.ErrRecordNotFound when the persona is missing.
	DeleteCascadeTx(tx *gorm.DB, id uint) error

	DB() *gorm.DB
}

type personaRepo struct{ db *gorm.DB }

func NewPersonaRepository(db *gorm.DB) PersonaRepository { return &personaRepo{db: db} }

func (r *personaRepo) DB() *gorm.DB { return r.db }

func (r *personaRepo) CreateTx(tx *gorm.DB, p *model.Persona) error {
	return tx.Create(p).Error
}

func (r *personaRepo) FindByID(ctx context.Context, id uint) (*model.Persona, error) {
	var p model.Persona
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *personaRepo) List(ctx context.Context, filter dto.PersonaFilter) ([]model.Persona, int64, error) {
	var personas []model.Persona
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Persona{})

	// "false" = inactivas, "all" = todas, anything else = activas (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = ?", false)
	case "all":
	default:
		q = q.Where("activo = ?", true)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("id ASC").Limit(filter.Limit).Offset(offset).Find(&personas).Error
	return personas, total, err
}

func (r *personaRepo) Update(ctx context.Context, p *model.Persona) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *personaRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Persona{}).Count(&n).Error
	return n, err
}

func (r *personaRepo) DistribucionTipoSangre(ctx context.Context) ([]TipoSangreTotal, error) {
	var rows []TipoSangreTotal
	err := r.db.WithContext(ctx).Model(&model.Persona{}).
		Select("tipo_sangre, COUNT(*) AS total").
		Group("tipo_sangre").
		Order("tipo_sangre ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *personaRepo) DeleteCascadeTx(tx *gorm.DB, id uint) error {
	var usuarioIDs []uint
	if err := tx.Model(&model.Usuario{}).Where("persona_id = ?", id).Pluck("id", &usuarioIDs).Error; err != nil {
		return err
	}
	if len(usuarioIDs) > 0 {
		if err := tx.Where("usuario_id IN ?", usuarioIDs).Delete(&model.UsuarioRol{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("persona_id = ?", id).Delete(&model.Usuario{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Persona{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
