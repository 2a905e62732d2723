package repository

import (
	"context"

	"github.com/Alex01Dev/backend-gerencia/internal/model"

	"gorm.io/gorm"
)

type RolRepository interface {
	Count(ctx context.Context) (int64, error)
	CreateMany(ctx context.Context, roles []model.Rol) error
	List(ctx context.Context) ([]model.Rol, error)
}

type rolRepo struct{ db *gorm.DB }

func NewRolRepository(db *gorm.DB) RolRepository { return &rolRepo{db: db} }

func (r *rolRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Rol{}).Count(&n).Error
	return n, err
}

func (r *rolRepo) CreateMany(ctx context.Context, roles []model.Rol) error {
	return r.db.WithContext(ctx).Create(&roles).Error
}

func (r *rolRepo) List(ctx context.Context) ([]model.Rol, error) {
	var roles []model.Rol
	err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error
	return roles, err
}
