package repository

import (
	"context"

	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransaccionRepository interface {
	Create(ctx context.Context, t *model.Transaccion) error
	CreateMany(ctx context.Context, t []model.Transaccion) error
	FindByID(ctx context.Context, id uint) (*model.Transaccion, error)
	List(ctx context.Context, filter dto.TransaccionFilter) ([]model.Transaccion, int64, error)
	Update(ctx context.Context, t *model.Transaccion) error
	// Cancelar moves the row to Cancelada without touching any other column.
	Cancelar(ctx context.Context, id uint) error
	// SumaPagadas adds up Monto of Pagada rows of the given tipo.
	// A nil usuarioID sums across every account.
	SumaPagadas(ctx context.Context, usuarioID *uint, tipo string) (decimal.Decimal, error)
	Count(ctx context.Context) (int64, error)
}

type transaccionRepo struct{ db *gorm.DB }

func NewTransaccionRepository(db *gorm.DB) TransaccionRepository {
	return &transaccionRepo{db: db}
}

func (r *transaccionRepo) Create(ctx context.Context, t *model.Transaccion) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transaccionRepo) CreateMany(ctx context.Context, t []model.Transaccion) error {
	return r.db.WithContext(ctx).CreateInBatches(&t, 100).Error
}

func (r *transaccionRepo) FindByID(ctx context.Context, id uint) (*model.Transaccion, error) {
	var t model.Transaccion
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *transaccionRepo) List(ctx context.Context, filter dto.TransaccionFilter) ([]model.Transaccion, int64, error) {
	var items []model.Transaccion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Transaccion{})
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.MetodoPago != "" {
		q = q.Where("metodo_pago = ?", filter.MetodoPago)
	}
	if filter.Estatus != "" {
		q = q.Where("estatus = ?", filter.Estatus)
	}
	if filter.UsuarioID != nil {
		q = q.Where("usuario_id = ?", *filter.UsuarioID)
	}
	if filter.FechaInicio != nil {
		q = q.Where("created_at >= ?", *filter.FechaInicio)
	}
	if filter.FechaFin != nil {
		q = q.Where("created_at < ?", *filter.FechaFin)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC, id DESC").Limit(filter.Limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *transaccionRepo) Update(ctx context.Context, t *model.Transaccion) error {
	return r.db.WithContext(ctx).Omit("Usuario").Save(t).Error
}

func (r *transaccionRepo) Cancelar(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.Transaccion{}).Where("id = ?", id).Update("estatus", model.EstatusCancelada)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *transaccionRepo) SumaPagadas(ctx context.Context, usuarioID *uint, tipo string) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaccion{}).
		Where("tipo = ? AND estatus = ?", tipo, model.EstatusPagada)
	if usuarioID != nil {
		q = q.Where("usuario_id = ?", *usuarioID)
	}
	var total decimal.NullDecimal
	if err := q.Select("COALESCE(SUM(monto), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *transaccionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Transaccion{}).Count(&n).Error
	return n, err
}
