package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/repository"

	"gorm.io/gorm"
)

type SucursalService interface {
	Crear(ctx context.Context, req dto.CrearSucursalRequest) (*dto.SucursalResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.SucursalResponse, error)
	Listar(ctx context.Context, filter dto.SucursalFilter) (*dto.SucursalListResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarSucursalRequest) (*dto.SucursalResponse, error)
	Desactivar(ctx context.Context, id uint) error
	Estadisticas(ctx context.Context) (*dto.SucursalEstadisticas, error)
}

type sucursalService struct {
	repo     repository.SucursalRepository
	usuarios repository.UsuarioRepository
}

func NewSucursalService(repo repository.SucursalRepository, usuarios repository.UsuarioRepository) SucursalService {
	return &sucursalService{repo: repo, usuarios: usuarios}
}

const sucursalNoEncontrada = "Sucursal no encontrada"

func (s *sucursalService) Crear(ctx context.Context, req dto.CrearSucursalRequest) (*dto.SucursalResponse, error) {
	responsable, err := s.responsableActivo(ctx, req.ResponsableID)
	if err != nil {
		return nil, err
	}
	suc := &model.Sucursal{
		Nombre:                strings.TrimSpace(req.Nombre),
		Direccion:             strings.TrimSpace(req.Direccion),
		ResponsableID:         req.ResponsableID,
		CapacidadMaxima:       req.CapacidadMaxima,
		HorarioDisponibilidad: req.HorarioDisponibilidad,
		Detalles:              req.Detalles,
		Activo:                true,
	}
	if err := s.repo.Create(ctx, suc); err != nil {
		return nil, mapRepoErr(err, sucursalNoEncontrada, "crear sucursal")
	}
	suc.Responsable = responsable
	resp := toSucursalResponse(suc)
	return &resp, nil
}

func (s *sucursalService) ObtenerPorID(ctx context.Context, id uint) (*dto.SucursalResponse, error) {
	suc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, sucursalNoEncontrada, "buscar sucursal")
	}
	resp := toSucursalResponse(suc)
	return &resp, nil
}

func (s *sucursalService) Listar(ctx context.Context, filter dto.SucursalFilter) (*dto.SucursalListResponse, error) {
	filter.Page, filter.Limit = paginar(filter.Page, filter.Limit)
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapRepoErr(err, "", "listar sucursales")
	}
	data := make([]dto.SucursalResponse, len(items))
	for i := range items {
		data[i] = toSucursalResponse(&items[i])
	}
	return &dto.SucursalListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPaginas(total, filter.Limit),
	}, nil
}

func (s *sucursalService) Actualizar(ctx context.Context, id uint, req dto.ActualizarSucursalRequest) (*dto.SucursalResponse, error) {
	suc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, sucursalNoEncontrada, "buscar sucursal")
	}

	if req.Nombre != nil {
		suc.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Direccion != nil {
		suc.Direccion = strings.TrimSpace(*req.Direccion)
	}
	if req.ResponsableID != nil && *req.ResponsableID != suc.ResponsableID {
		responsable, err := s.responsableActivo(ctx, *req.ResponsableID)
		if err != nil {
			return nil, err
		}
		suc.ResponsableID = *req.ResponsableID
		suc.Responsable = responsable
	}
	if req.CapacidadMaxima != nil {
		suc.CapacidadMaxima = *req.CapacidadMaxima
	}
	if req.HorarioDisponibilidad != nil {
		suc.HorarioDisponibilidad = *req.HorarioDisponibilidad
	}
	if req.Detalles != nil {
		suc.Detalles = req.Detalles
	}
	if req.Activo != nil {
		suc.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, suc); err != nil {
		return nil, mapRepoErr(err, sucursalNoEncontrada, "actualizar sucursal")
	}
	resp := toSucursalResponse(suc)
	return &resp, nil
}

func (s *sucursalService) Desactivar(ctx context.Context, id uint) error {
	return mapRepoErr(s.repo.SoftDelete(ctx, id), sucursalNoEncontrada, "desactivar sucursal")
}

func (s *sucursalService) Estadisticas(ctx context.Context) (*dto.SucursalEstadisticas, error) {
	stats, err := s.repo.Estadisticas(ctx)
	if err != nil {
		return nil, mapRepoErr(err, "", "estadisticas sucursales")
	}
	return stats, nil
}

func (s *sucursalService) responsableActivo(ctx context.Context, id uint) (*model.Usuario, error) {
	u, err := s.usuarios.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !u.Activo) {
		return nil, apierror.Validation("responsable_id no corresponde a un usuario activo")
	}
	if err != nil {
		return nil, mapRepoErr(err, usuarioNoEncontrado, "buscar responsable")
	}
	return u, nil
}

func toSucursalResponse(s *model.Sucursal) dto.SucursalResponse {
	resp := dto.SucursalResponse{
		ID:                    s.ID,
		Nombre:                s.Nombre,
		Direccion:             s.Direccion,
		ResponsableID:         s.ResponsableID,
		CapacidadMaxima:       s.CapacidadMaxima,
		HorarioDisponibilidad: s.HorarioDisponibilidad,
		Detalles:              s.Detalles,
		Activo:                s.Activo,
		CreatedAt:             formatTS(s.CreatedAt),
		UpdatedAt:             formatTS(s.UpdatedAt),
	}
	if s.Responsable != nil {
		nombre := s.Responsable.NombreUsuario
		resp.NombreResponsable = &nombre
	}
	return resp
}
