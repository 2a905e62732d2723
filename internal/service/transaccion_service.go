package service

import (
	"context"
	"strings"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/infra"
	"github.com/Alex01Dev/backend-gerencia/internal/metrics"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/repository"

	"github.com/shopspring/decimal"
)

// CacheKeyEstadisticas holds the global transaction statistics.
const CacheKeyEstadisticas = "stats:transacciones"

const maxFilasEstadoCuenta = 1000

// EstadisticasCache is the read-through cache in front of Estadisticas.
type EstadisticasCache interface {
	Get(ctx context.Context, key string) (*dto.TransaccionEstadisticas, bool)
	Set(ctx context.Context, key string, v *dto.TransaccionEstadisticas)
	Delete(ctx context.Context, key string)
}

// Solicitante is the authenticated caller of an operation.
type Solicitante struct {
	UsuarioID uint
	Roles     []string
}

// EsStaff reports whether the caller is Administrador or Colaborador.
func (s Solicitante) EsStaff() bool {
	for _, r := range s.Roles {
		if r == model.RolAdministrador || r == model.RolColaborador {
			return true
		}
	}
	return false
}

type TransaccionService interface {
	Crear(ctx context.Context, sol Solicitante, req dto.CrearTransaccionRequest) (*dto.TransaccionResponse, error)
	ObtenerPorID(ctx context.Context, sol Solicitante, id uint) (*dto.TransaccionResponse, error)
	Listar(ctx context.Context, sol Solicitante, filter dto.TransaccionFilter) (*dto.TransaccionListResponse, error)
	Actualizar(ctx context.Context, sol Solicitante, id uint, req dto.ActualizarTransaccionRequest) (*dto.TransaccionResponse, error)
	Cancelar(ctx context.Context, sol Solicitante, id uint) (*dto.TransaccionResponse, error)
	Balance(ctx context.Context, sol Solicitante, usuarioID *uint) (*dto.BalanceResponse, error)
	Estadisticas(ctx context.Context) (*dto.TransaccionEstadisticas, error)
	EstadoCuentaPDF(ctx context.Context, sol Solicitante, usuarioID *uint, desde, hasta *time.Time) ([]byte, error)
}

type transaccionService struct {
	repo     repository.TransaccionRepository
	usuarios repository.UsuarioRepository
	cache    EstadisticasCache
}

func NewTransaccionService(repo repository.TransaccionRepository, usuarios repository.UsuarioRepository, cache EstadisticasCache) TransaccionService {
	return &transaccionService{repo: repo, usuarios: usuarios, cache: cache}
}

const transaccionNoEncontrada = "Transaccion no encontrada"

func (s *transaccionService) Crear(ctx context.Context, sol Solicitante, req dto.CrearTransaccionRequest) (*dto.TransaccionResponse, error) {
	if req.Monto.IsNegative() {
		return nil, apierror.Validation("monto no puede ser negativo")
	}
	t := &model.Transaccion{
		UsuarioID:  sol.UsuarioID,
		Detalles:   strings.TrimSpace(req.Detalles),
		Tipo:       req.Tipo,
		MetodoPago: req.MetodoPago,
		Monto:      req.Monto.Round(2),
		Estatus:    model.EstatusProcesando,
	}
	if req.Estatus != nil {
		t.Estatus = *req.Estatus
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, mapRepoErr(err, transaccionNoEncontrada, "crear transaccion")
	}
	s.invalidar(ctx)
	resp := toTransaccionResponse(t)
	return &resp, nil
}

func (s *transaccionService) ObtenerPorID(ctx context.Context, sol Solicitante, id uint) (*dto.TransaccionResponse, error) {
	t, err := s.buscarVisible(ctx, sol, id)
	if err != nil {
		return nil, err
	}
	resp := toTransaccionResponse(t)
	return &resp, nil
}

// Listar applies the filters; callers outside staff only ever see their own rows.
func (s *transaccionService) Listar(ctx context.Context, sol Solicitante, filter dto.TransaccionFilter) (*dto.TransaccionListResponse, error) {
	if !sol.EsStaff() {
		filter.UsuarioID = &sol.UsuarioID
	}
	if filter.FechaInicio != nil && filter.FechaFin != nil && filter.FechaFin.Before(*filter.FechaInicio) {
		return nil, apierror.Validation("fecha_fin debe ser posterior a fecha_inicio")
	}
	filter.Page, filter.Limit = paginar(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapRepoErr(err, "", "listar transacciones")
	}
	data := make([]dto.TransaccionResponse, len(items))
	for i := range items {
		data[i] = toTransaccionResponse(&items[i])
	}
	return &dto.TransaccionListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPaginas(total, filter.Limit),
	}, nil
}

func (s *transaccionService) Actualizar(ctx context.Context, sol Solicitante, id uint, req dto.ActualizarTransaccionRequest) (*dto.TransaccionResponse, error) {
	t, err := s.buscarVisible(ctx, sol, id)
	if err != nil {
		return nil, err
	}
	if t.Estatus == model.EstatusCancelada {
		return nil, apierror.Conflict("Una transaccion cancelada no puede modificarse", nil)
	}

	if req.Detalles != nil {
		t.Detalles = strings.TrimSpace(*req.Detalles)
	}
	if req.Tipo != nil {
		t.Tipo = *req.Tipo
	}
	if req.MetodoPago != nil {
		t.MetodoPago = *req.MetodoPago
	}
	if req.Monto != nil {
		if req.Monto.IsNegative() {
			return nil, apierror.Validation("monto no puede ser negativo")
		}
		t.Monto = req.Monto.Round(2)
	}
	if req.Estatus != nil {
		t.Estatus = *req.Estatus
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, mapRepoErr(err, transaccionNoEncontrada, "actualizar transaccion")
	}
	s.invalidar(ctx)
	resp := toTransaccionResponse(t)
	return &resp, nil
}

// Cancelar is idempotent: cancelling a cancelled row returns it unchanged.
func (s *transaccionService) Cancelar(ctx context.Context, sol Solicitante, id uint) (*dto.TransaccionResponse, error) {
	t, err := s.buscarVisible(ctx, sol, id)
	if err != nil {
		return nil, err
	}
	if t.Estatus != model.EstatusCancelada {
		if err := s.repo.Cancelar(ctx, id); err != nil {
			return nil, mapRepoErr(err, transaccionNoEncontrada, "cancelar transaccion")
		}
		t.Estatus = model.EstatusCancelada
		s.invalidar(ctx)
	}
	resp := toTransaccionResponse(t)
	return &resp, nil
}

// Balance is paid income minus paid expenses. usuarioID defaults to the caller;
// only staff may ask for someone else's.
func (s *transaccionService) Balance(ctx context.Context, sol Solicitante, usuarioID *uint) (*dto.BalanceResponse, error) {
	uid, err := s.objetivo(sol, usuarioID)
	if err != nil {
		return nil, err
	}
	ingresos, egresos, err := s.totales(ctx, &uid)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		UsuarioID: uid,
		Ingresos:  ingresos,
		Egresos:   egresos,
		Balance:   ingresos.Sub(egresos),
	}, nil
}

func (s *transaccionService) Estadisticas(ctx context.Context) (*dto.TransaccionEstadisticas, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, CacheKeyEstadisticas); ok {
			metrics.CacheEstadisticas.WithLabelValues("hit").Inc()
			return cached, nil
		}
	}
	metrics.CacheEstadisticas.WithLabelValues("miss").Inc()

	ingresos, egresos, err := s.totales(ctx, nil)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, mapRepoErr(err, "", "contar transacciones")
	}
	stats := &dto.TransaccionEstadisticas{
		TotalIngresos:        ingresos,
		TotalEgresos:         egresos,
		BalanceGeneral:       ingresos.Sub(egresos),
		TransaccionesTotales: n,
	}
	if s.cache != nil {
		s.cache.Set(ctx, CacheKeyEstadisticas, stats)
	}
	return stats, nil
}

func (s *transaccionService) EstadoCuentaPDF(ctx context.Context, sol Solicitante, usuarioID *uint, desde, hasta *time.Time) ([]byte, error) {
	uid, err := s.objetivo(sol, usuarioID)
	if err != nil {
		return nil, err
	}
	user, err := s.usuarios.FindByID(ctx, uid)
	if err != nil {
		return nil, mapRepoErr(err, usuarioNoEncontrado, "buscar usuario")
	}
	items, _, err := s.repo.List(ctx, dto.TransaccionFilter{
		UsuarioID: &uid, FechaInicio: desde, FechaFin: hasta,
		Page: 1, Limit: maxFilasEstadoCuenta,
	})
	if err != nil {
		return nil, mapRepoErr(err, "", "listar transacciones")
	}
	ingresos, egresos, err := s.totales(ctx, &uid)
	if err != nil {
		return nil, err
	}

	ec := &infra.EstadoCuenta{
		NombreUsuario:  user.NombreUsuario,
		NombreCompleto: user.NombreUsuario,
		Desde:          desde,
		Hasta:          hasta,
		Ingresos:       ingresos,
		Egresos:        egresos,
		Balance:        ingresos.Sub(egresos),
		Transacciones:  items,
		GeneradoEn:     time.Now(),
	}
	if p := user.Persona; p != nil {
		ec.NombreCompleto = strings.TrimSpace(p.Nombre + " " + p.PrimerApellido + " " + deref(p.SegundoApellido))
	}
	out, err := infra.GenerarEstadoCuentaPDF(ec)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	return out, nil
}

func (s *transaccionService) buscarVisible(ctx context.Context, sol Solicitante, id uint) (*model.Transaccion, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, transaccionNoEncontrada, "buscar transaccion")
	}
	if !sol.EsStaff() && t.UsuarioID != sol.UsuarioID {
		return nil, apierror.Forbidden("La transaccion pertenece a otro usuario")
	}
	return t, nil
}

func (s *transaccionService) objetivo(sol Solicitante, usuarioID *uint) (uint, error) {
	if usuarioID == nil || *usuarioID == sol.UsuarioID {
		return sol.UsuarioID, nil
	}
	if !sol.EsStaff() {
		return 0, apierror.Forbidden("Solo el personal puede consultar otras cuentas")
	}
	return *usuarioID, nil
}

func (s *transaccionService) totales(ctx context.Context, usuarioID *uint) (decimal.Decimal, decimal.Decimal, error) {
	ingresos, err := s.repo.SumaPagadas(ctx, usuarioID, model.TipoIngreso)
	if err != nil {
		return decimal.Zero, decimal.Zero, mapRepoErr(err, "", "sumar ingresos")
	}
	egresos, err := s.repo.SumaPagadas(ctx, usuarioID, model.TipoEgreso)
	if err != nil {
		return decimal.Zero, decimal.Zero, mapRepoErr(err, "", "sumar egresos")
	}
	return ingresos, egresos, nil
}

func (s *transaccionService) invalidar(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, CacheKeyEstadisticas)
	}
}

func toTransaccionResponse(t *model.Transaccion) dto.TransaccionResponse {
	return dto.TransaccionResponse{
		ID:         t.ID,
		UsuarioID:  t.UsuarioID,
		Detalles:   t.Detalles,
		Tipo:       t.Tipo,
		MetodoPago: t.MetodoPago,
		Monto:      t.Monto,
		Estatus:    t.Estatus,
		CreatedAt:  formatTS(t.CreatedAt),
		UpdatedAt:  formatTS(t.UpdatedAt),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
