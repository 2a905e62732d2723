package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cliente = service.Solicitante{UsuarioID: 1, Roles: []string{model.RolCliente}}
	otro    = service.Solicitante{UsuarioID: 2, Roles: []string{model.RolCliente}}
	staff   = service.Solicitante{UsuarioID: 9, Roles: []string{model.RolColaborador}}
)

type transaccionFixture struct {
	repo     *stubTransaccionRepo
	usuarios *stubUsuarioRepo
	cache    *stubCache
	svc      service.TransaccionService
}

func newTransaccionFixture() *transaccionFixture {
	f := &transaccionFixture{repo: newStubTransaccionRepo(), usuarios: newStubUsuarioRepo(), cache: newStubCache()}
	f.svc = service.NewTransaccionService(f.repo, f.usuarios, f.cache)
	return f
}

func (f *transaccionFixture) crear(t *testing.T, sol service.Solicitante, tipo, monto, estatus string) *dto.TransaccionResponse {
	t.Helper()
	resp, err := f.svc.Crear(context.Background(), sol, dto.CrearTransaccionRequest{
		Detalles:   "Mensualidad",
		Tipo:       tipo,
		MetodoPago: model.MetodoEfectivo,
		Monto:      decimal.RequireFromString(monto),
		Estatus:    &estatus,
	})
	require.NoError(t, err)
	return resp
}

func TestTransaccion_CrearPorDefectoProcesando(t *testing.T) {
	f := newTransaccionFixture()
	resp, err := f.svc.Crear(context.Background(), cliente, dto.CrearTransaccionRequest{
		Detalles: " Inscripcion ", Tipo: model.TipoIngreso, MetodoPago: model.MetodoEfectivo,
		Monto: decimal.RequireFromString("350.555"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstatusProcesando, resp.Estatus)
	assert.Equal(t, cliente.UsuarioID, resp.UsuarioID)
	assert.Equal(t, "Inscripcion", resp.Detalles)
	assert.True(t, decimal.RequireFromString("350.56").Equal(resp.Monto))
	assert.Equal(t, 1, f.cache.deletes)
}

func TestTransaccion_MontoNegativo(t *testing.T) {
	f := newTransaccionFixture()
	_, err := f.svc.Crear(context.Background(), cliente, dto.CrearTransaccionRequest{
		Tipo: model.TipoIngreso, MetodoPago: model.MetodoEfectivo, Monto: decimal.NewFromInt(-1),
	})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.Empty(t, f.repo.items)
}

func TestTransaccion_VisibilidadPorDueno(t *testing.T) {
	f := newTransaccionFixture()
	tx := f.crear(t, cliente, model.TipoIngreso, "100", model.EstatusPagada)
	ctx := context.Background()

	_, err := f.svc.ObtenerPorID(ctx, cliente, tx.ID)
	assert.NoError(t, err)
	_, err = f.svc.ObtenerPorID(ctx, staff, tx.ID)
	assert.NoError(t, err)
	_, err = f.svc.ObtenerPorID(ctx, otro, tx.ID)
	assert.Equal(t, apierror.KindForbidden, apierror.KindOf(err))
	_, err = f.svc.ObtenerPorID(ctx, staff, 999)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestTransaccion_ListarRestringeANoStaff(t *testing.T) {
	f := newTransaccionFixture()
	f.crear(t, cliente, model.TipoIngreso, "100", model.EstatusPagada)
	f.crear(t, otro, model.TipoIngreso, "200", model.EstatusPagada)
	ctx := context.Background()

	// a client asking for someone else's rows still only gets its own
	list, err := f.svc.Listar(ctx, cliente, dto.TransaccionFilter{UsuarioID: ptr(uint(2))})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, cliente.UsuarioID, *f.repo.last.UsuarioID)

	list, err = f.svc.Listar(ctx, staff, dto.TransaccionFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	assert.Nil(t, f.repo.last.UsuarioID)
	assert.Equal(t, 20, list.Limit)
}

func TestTransaccion_ListarRangoInvertido(t *testing.T) {
	f := newTransaccionFixture()
	ini := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	fin := ini.AddDate(0, 0, -1)
	_, err := f.svc.Listar(context.Background(), staff, dto.TransaccionFilter{FechaInicio: &ini, FechaFin: &fin})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestTransaccion_Actualizar(t *testing.T) {
	f := newTransaccionFixture()
	tx := f.crear(t, cliente, model.TipoIngreso, "100", model.EstatusProcesando)
	ctx := context.Background()

	monto := decimal.RequireFromString("150.00")
	resp, err := f.svc.Actualizar(ctx, cliente, tx.ID, dto.ActualizarTransaccionRequest{
		Monto: &monto, Estatus: ptr(model.EstatusPagada),
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstatusPagada, resp.Estatus)
	assert.True(t, monto.Equal(resp.Monto))
	assert.Equal(t, "Mensualidad", resp.Detalles)

	_, err = f.svc.Actualizar(ctx, otro, tx.ID, dto.ActualizarTransaccionRequest{Detalles: ptr("x")})
	assert.Equal(t, apierror.KindForbidden, apierror.KindOf(err))
}

func TestTransaccion_CancelarIdempotente(t *testing.T) {
	f := newTransaccionFixture()
	tx := f.crear(t, cliente, model.TipoEgreso, "40", model.EstatusPagada)
	ctx := context.Background()
	deletes := f.cache.deletes

	resp, err := f.svc.Cancelar(ctx, cliente, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstatusCancelada, resp.Estatus)
	assert.Equal(t, deletes+1, f.cache.deletes)

	resp, err = f.svc.Cancelar(ctx, cliente, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstatusCancelada, resp.Estatus)
	assert.Equal(t, deletes+1, f.cache.deletes, "second cancel changes nothing")

	_, err = f.svc.Actualizar(ctx, cliente, tx.ID, dto.ActualizarTransaccionRequest{Detalles: ptr("x")})
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestTransaccion_BalanceSoloPagadas(t *testing.T) {
	f := newTransaccionFixture()
	f.crear(t, cliente, model.TipoIngreso, "500.50", model.EstatusPagada)
	f.crear(t, cliente, model.TipoIngreso, "999", model.EstatusProcesando)
	f.crear(t, cliente, model.TipoEgreso, "120.25", model.EstatusPagada)
	f.crear(t, otro, model.TipoIngreso, "1000", model.EstatusPagada)
	ctx := context.Background()

	b, err := f.svc.Balance(ctx, cliente, nil)
	require.NoError(t, err)
	assert.Equal(t, cliente.UsuarioID, b.UsuarioID)
	assert.Equal(t, "500.5", b.Ingresos.String())
	assert.Equal(t, "120.25", b.Egresos.String())
	assert.Equal(t, "380.25", b.Balance.String())

	_, err = f.svc.Balance(ctx, cliente, ptr(uint(2)))
	assert.Equal(t, apierror.KindForbidden, apierror.KindOf(err))

	b, err = f.svc.Balance(ctx, staff, ptr(uint(2)))
	require.NoError(t, err)
	assert.Equal(t, "1000", b.Balance.String())
}

func TestTransaccion_EstadisticasCacheadas(t *testing.T) {
	f := newTransaccionFixture()
	f.crear(t, cliente, model.TipoIngreso, "300", model.EstatusPagada)
	f.crear(t, otro, model.TipoEgreso, "100", model.EstatusPagada)
	ctx := context.Background()

	stats, err := f.svc.Estadisticas(ctx)
	require.NoError(t, err)
	assert.Equal(t, "200", stats.BalanceGeneral.String())
	assert.EqualValues(t, 2, stats.TransaccionesTotales)
	assert.Contains(t, f.cache.data, service.CacheKeyEstadisticas)

	// served from cache until a write invalidates it
	f.repo.items[1].Monto = decimal.NewFromInt(1)
	cached, err := f.svc.Estadisticas(ctx)
	require.NoError(t, err)
	assert.Same(t, stats, cached)

	f.crear(t, cliente, model.TipoIngreso, "50", model.EstatusPagada)
	assert.NotContains(t, f.cache.data, service.CacheKeyEstadisticas)
	fresh, err := f.svc.Estadisticas(ctx)
	require.NoError(t, err)
	assert.Equal(t, "-49", fresh.BalanceGeneral.String())
}

func TestTransaccion_EstadisticasSinCache(t *testing.T) {
	svc := service.NewTransaccionService(newStubTransaccionRepo(), newStubUsuarioRepo(), nil)
	stats, err := svc.Estadisticas(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.BalanceGeneral.IsZero())
}

func TestTransaccion_EstadoCuentaPDF(t *testing.T) {
	f := newTransaccionFixture()
	u := f.usuarios.seedUsuario("jmarlop", "juan@example.com", "x", model.RolCliente)
	sol := service.Solicitante{UsuarioID: u.ID, Roles: []string{model.RolCliente}}
	f.crear(t, sol, model.TipoIngreso, "100", model.EstatusPagada)

	pdf, err := f.svc.EstadoCuentaPDF(context.Background(), sol, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	_, err = f.svc.EstadoCuentaPDF(context.Background(), sol, ptr(u.ID+1), nil, nil)
	assert.Equal(t, apierror.KindForbidden, apierror.KindOf(err))

	_, err = f.svc.EstadoCuentaPDF(context.Background(), staff, ptr(uint(404)), nil, nil)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
