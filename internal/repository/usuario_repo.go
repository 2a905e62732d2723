package repository

import (
	"context"

	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"

	"gorm.io/gorm"
)

type UsuarioRepository interface {
	// ExisteNombreUsuario is the case-insensitive handle oracle used at registration.
	ExisteNombreUsuario(ctx context.Context, nombre string) (bool, error)
	FindByLogin(ctx context.Context, login string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uint) (*model.Usuario, error)
	List(ctx context.Context, filter dto.UsuarioFilter) ([]model.Usuario, error)
	ListActivosIDs(ctx context.Context) ([]uint, error)
	SoftDelete(ctx context.Context, id uint) error
	Reactivar(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)

	CreateTx(tx *gorm.DB, u *model.Usuario) error
	// AsignarRolTx links the usuario to the named role, creating the role row on first use.
	AsignarRolTx(tx *gorm.DB, usuarioID uint, rol string) error
	// ReemplazarRolesTx drops every assignment of the usuario and links the given roles.
	ReemplazarRolesTx(tx *gorm.DB, usuarioID uint, roles []string) error

	DB() *gorm.DB
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) DB() *gorm.DB { return r.db }

func (r *usuarioRepo) ExisteNombreUsuario(ctx context.Context, nombre string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("LOWER(nombre_usuario) = LOWER(?)", nombre).
		Count(&n).Error
	return n > 0, err
}

func (r *usuarioRepo) FindByLogin(ctx context.Context, login string) (*model.Usuario, error) {
	var u model.Usuario
	// Accept login by nombre_usuario OR email, both case-insensitive
	err := r.db.WithContext(ctx).
		Preload("Roles.Rol").
		Where("(LOWER(nombre_usuario) = LOWER(?) OR LOWER(correo_electronico) = LOWER(?)) AND activo = ?", login, login, true).
		First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uint) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Persona").Preload("Roles.Rol").First(&u, id).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context, filter dto.UsuarioFilter) ([]model.Usuario, error) {
	var users []model.Usuario
	q := r.db.WithContext(ctx).Model(&model.Usuario{}).Preload("Roles.Rol")
	if !filter.IncluirInactivos {
		q = q.Where("usuarios.activo = ?", true)
	}
	if filter.Rol != "" {
		q = q.Where("usuarios.id IN (?)",
			r.db.Table("usuario_roles").
				Select("usuario_roles.usuario_id").
				Joins("JOIN roles ON roles.id = usuario_roles.rol_id").
				Where("roles.nombre = ? AND usuario_roles.activo = ?", filter.Rol, true))
	}
	err := q.Order("usuarios.id ASC").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) ListActivosIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("activo = ?", true).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *usuarioRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.setActivo(ctx, id, false)
}

func (r *usuarioRepo) Reactivar(ctx context.Context, id uint) error {
	return r.setActivo(ctx, id, true)
}

func (r *usuarioRepo) setActivo(ctx context.Context, id uint, activo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Update("activo", activo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *usuarioRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Count(&n).Error
	return n, err
}

func (r *usuarioRepo) CreateTx(tx *gorm.DB, u *model.Usuario) error {
	return tx.Create(u).Error
}

func (r *usuarioRepo) AsignarRolTx(tx *gorm.DB, usuarioID uint, nombre string) error {
	rol := model.Rol{Nombre: nombre}
	if err := tx.Where(model.Rol{Nombre: nombre}).Attrs(model.Rol{Activo: true}).FirstOrCreate(&rol).Error; err != nil {
		return err
	}
	return tx.Create(&model.UsuarioRol{UsuarioID: usuarioID, RolID: rol.ID, Activo: true}).Error
}

func (r *usuarioRepo) ReemplazarRolesTx(tx *gorm.DB, usuarioID uint, roles []string) error {
	if err := tx.Where("usuario_id = ?", usuarioID).Delete(&model.UsuarioRol{}).Error; err != nil {
		return err
	}
	for _, nombre := range roles {
		if err := r.AsignarRolTx(tx, usuarioID, nombre); err != nil {
			return err
		}
	}
	return nil
}
