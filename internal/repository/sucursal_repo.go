package repository

import (
	"context"

	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"

	"gorm.io/gorm"
)

type SucursalRepository interface {
	Create(ctx context.Context, s *model.Sucursal) error
	FindByID(ctx context.Context, id uint) (*model.Sucursal, error)
	List(ctx context.Context, filter dto.SucursalFilter) ([]model.Sucursal, int64, error)
	Update(ctx context.Context, s *model.Sucursal) error
	SoftDelete(ctx context.Context, id uint) error
	Estadisticas(ctx context.Context) (*dto.SucursalEstadisticas, error)
}

type sucursalRepo struct{ db *gorm.DB }

func NewSucursalRepository(db *gorm.DB) SucursalRepository { return &sucursalRepo{db: db} }

func (r *sucursalRepo) Create(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sucursalRepo) FindByID(ctx context.Context, id uint) (*model.Sucursal, error) {
	var s model.Sucursal
	err := r.db.WithContext(ctx).Preload("Responsable").First(&s, id).Error
	return &s, err
}

func (r *sucursalRepo) List(ctx context.Context, filter dto.SucursalFilter) ([]model.Sucursal, int64, error) {
	var sucursales []model.Sucursal
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sucursal{})
	switch filter.Activas {
	case "true":
		q = q.Where("activo = ?", true)
	case "false":
		q = q.Where("activo = ?", false)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Responsable").Order("id ASC").Limit(filter.Limit).Offset(offset).Find(&sucursales).Error
	return sucursales, total, err
}

func (r *sucursalRepo) Update(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Omit("Responsable").Save(s).Error
}

func (r *sucursalRepo) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.Sucursal{}).Where("id = ?", id).Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sucursalRepo) Estadisticas(ctx context.Context) (*dto.SucursalEstadisticas, error) {
	var row struct {
		Total    int64
		Activas  int64
		Promedio float64
	}
	err := r.db.WithContext(ctx).Model(&model.Sucursal{}).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN activo = ? THEN 1 ELSE 0 END), 0) AS activas, "+
			"COALESCE(AVG(capacidad_maxima), 0) AS promedio", true).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &dto.SucursalEstadisticas{
		TotalSucursales:     row.Total,
		SucursalesActivas:   row.Activas,
		SucursalesInactivas: row.Total - row.Activas,
		CapacidadPromedio:   row.Promedio,
	}, nil
}
