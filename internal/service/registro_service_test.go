package service_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/identity"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/repository"
	"github.com/Alex01Dev/backend-gerencia/internal/service"
	"github.com/Alex01Dev/backend-gerencia/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type registroFixture struct {
	personas *stubPersonaRepo
	usuarios *stubUsuarioRepo
	media    *stubMedia
	notif    *stubNotificador
	svc      service.RegistroService
}

func newRegistroFixture() *registroFixture {
	f := &registroFixture{usuarios: newStubUsuarioRepo(), media: newStubMedia(), notif: &stubNotificador{}}
	f.personas = newStubPersonaRepo(f.usuarios)
	f.usuarios.personas = f.personas
	f.svc = service.NewRegistroService(f.personas, f.usuarios, f.media, f.notif, newTestCfg())
	return f
}

var pngB64 = base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))

func TestRegistrar_CreaPersonaYUsuario(t *testing.T) {
	f := newRegistroFixture()

	resp, err := f.svc.Registrar(context.Background(), registroValido())
	require.NoError(t, err)

	assert.Equal(t, "jmarlop", resp.NombreUsuario)
	assert.Equal(t, model.RolCliente, resp.Rol)
	assert.Equal(t, "Juan", resp.Persona.Nombre)
	assert.Equal(t, "1990-05-17", resp.Persona.FechaNacimiento)
	assert.Equal(t, "juan.martinez@example.com", resp.Persona.CorreoElectronico)

	require.Len(t, f.personas.personas, 1)
	require.Len(t, f.usuarios.users, 1)
	u := f.usuarios.users[resp.UsuarioID]
	assert.Equal(t, resp.Persona.ID, u.PersonaID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
	assert.Equal(t, []string{model.RolCliente}, f.usuarios.roles[u.ID])

	require.Len(t, f.notif.sent, 1)
	assert.Equal(t, "jmarlop", f.notif.sent[0].NombreUsuario)
}

func TestRegistrar_ColisionAgregaSufijo(t *testing.T) {
	f := newRegistroFixture()
	f.usuarios.seedUsuario("jmarlop", "otro@example.com", "x")

	resp, err := f.svc.Registrar(context.Background(), registroValido())
	require.NoError(t, err)
	assert.Equal(t, "jmarlo1", resp.NombreUsuario)
}

func TestRegistrar_RolPorCorreo(t *testing.T) {
	cases := map[string]string{
		"jefe@gymbullsge.com": model.RolAdministrador,
		"staff@gymbullco.com": model.RolColaborador,
		"socio@gmail.com":     model.RolCliente,
	}
	for correo, rol := range cases {
		f := newRegistroFixture()
		req := registroValido()
		req.CorreoElectronico = correo
		resp, err := f.svc.Registrar(context.Background(), req)
		require.NoError(t, err, correo)
		assert.Equal(t, rol, resp.Rol, correo)
	}
}

func TestRegistrar_GeneracionAgotadaNoPersiste(t *testing.T) {
	f := newRegistroFixture()
	f.usuarios.todoTomado = true

	_, err := f.svc.Registrar(context.Background(), registroValido())
	require.Error(t, err)
	assert.Equal(t, apierror.KindGenerationExhausted, apierror.KindOf(err))
	assert.ErrorIs(t, err, identity.ErrGeneracionAgotada)
	assert.Equal(t, identity.MaxIntentos+1, f.usuarios.checks)
	assert.Empty(t, f.personas.personas)
	assert.Empty(t, f.media.stored)
}

func TestRegistrar_ConFotografia(t *testing.T) {
	f := newRegistroFixture()
	req := registroValido()
	req.Fotografia = &pngB64

	resp, err := f.svc.Registrar(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Persona.Fotografia)
	assert.Equal(t, "/media/foto1.png", *resp.Persona.Fotografia)
	assert.Len(t, f.media.stored, 1)
}

func TestRegistrar_FotografiaInvalidaEsValidacion(t *testing.T) {
	f := newRegistroFixture()
	req := registroValido()
	req.Fotografia = ptr("%%%no-base64%%%")

	_, err := f.svc.Registrar(context.Background(), req)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.Empty(t, f.personas.personas)
}

func TestRegistrar_FalloDeAlmacenamientoNoTocaLaBase(t *testing.T) {
	f := newRegistroFixture()
	f.media.err = errBoom
	req := registroValido()
	req.Fotografia = &pngB64

	_, err := f.svc.Registrar(context.Background(), req)
	assert.Equal(t, apierror.KindStorage, apierror.KindOf(err))
	assert.Empty(t, f.personas.personas)
	assert.Empty(t, f.usuarios.users)
}

func TestRegistrar_CorreoDuplicadoEsConflicto(t *testing.T) {
	f := newRegistroFixture()
	f.usuarios.seedUsuario("otro", "juan.martinez@example.com", "x")

	_, err := f.svc.Registrar(context.Background(), registroValido())
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.Empty(t, f.notif.sent)
}

func TestRegistrar_FalloDelNotificadorNoFallaElRegistro(t *testing.T) {
	f := newRegistroFixture()
	f.notif.err = errBoom

	_, err := f.svc.Registrar(context.Background(), registroValido())
	assert.NoError(t, err)
}

func TestRegistrar_FechaFuturaEsValidacion(t *testing.T) {
	f := newRegistroFixture()
	req := registroValido()
	req.FechaNacimiento = "2999-01-01"

	_, err := f.svc.Registrar(context.Background(), req)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestRegistrar_NombreSinLetrasEsValidacion(t *testing.T) {
	f := newRegistroFixture()
	req := registroValido()
	req.Nombre, req.PrimerApellido, req.SegundoApellido = "123", "456", nil

	_, err := f.svc.Registrar(context.Background(), req)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestRegistrar_ContrasenaMultibyteExcedeBcrypt(t *testing.T) {
	f := newRegistroFixture()
	req := registroValido()
	req.Contrasena = strings.Repeat("ñ", 40) // 40 runes, 80 bytes

	_, err := f.svc.Registrar(context.Background(), req)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.Empty(t, f.personas.personas)
	assert.Empty(t, f.usuarios.users)

	req.Contrasena = strings.Repeat("ñ", 36) // exactly 72 bytes
	_, err = f.svc.Registrar(context.Background(), req)
	assert.NoError(t, err)
}

// ── Atomicity against a real database ─────────────────────────────────────────

func TestRegistrar_FalloDeUsuarioRevierteLaPersona(t *testing.T) {
	db := testutil.NewDB(t)
	personas := repository.NewPersonaRepository(db)
	usuarios := repository.NewUsuarioRepository(db)
	svc := service.NewRegistroService(personas, usuarios, nil, nil, newTestCfg())
	ctx := context.Background()

	_, err := svc.Registrar(ctx, registroValido())
	require.NoError(t, err)

	// different names, same email: the persona insert succeeds, the usuario
	// insert hits the unique email and the whole unit must roll back
	req := registroValido()
	req.Nombre, req.PrimerApellido = "Ana", "Lopez"
	_, err = svc.Registrar(ctx, req)
	require.Error(t, err)

	n, err := personas.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = usuarios.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRegistrar_ColisionContraBaseReal(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewRegistroService(repository.NewPersonaRepository(db), repository.NewUsuarioRepository(db), nil, nil, newTestCfg())
	ctx := context.Background()

	handles := []string{}
	for i, correo := range []string{"a@example.com", "b@example.com", "c@gymbullsge.com"} {
		req := registroValido()
		req.CorreoElectronico = correo
		resp, err := svc.Registrar(ctx, req)
		require.NoError(t, err, i)
		handles = append(handles, resp.NombreUsuario)
	}
	assert.Equal(t, []string{"jmarlop", "jmarlo1", "jmarlo2"}, handles)

	u, err := repository.NewUsuarioRepository(db).FindByLogin(ctx, "jmarlo2")
	require.NoError(t, err)
	assert.Equal(t, []string{model.RolAdministrador}, u.NombresRoles())
}

func TestRegistrar_FotografiaQuedaHuerfanaSiLaTransaccionFalla(t *testing.T) {
	db := testutil.NewDB(t)
	personas := repository.NewPersonaRepository(db)
	media := newStubMedia()
	svc := service.NewRegistroService(personas, repository.NewUsuarioRepository(db), media, nil, newTestCfg())
	ctx := context.Background()

	_, err := svc.Registrar(ctx, registroValido())
	require.NoError(t, err)

	req := registroValido()
	req.Nombre, req.PrimerApellido = "Ana", "Lopez"
	req.Fotografia = &pngB64
	_, err = svc.Registrar(ctx, req)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// the photo is written before the transaction and is not cleaned up
	assert.Len(t, media.stored, 1)
	assert.Empty(t, media.deleted)

	n, err := personas.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	var anas int64
	require.NoError(t, db.Model(&model.Persona{}).Where("nombre = ?", "Ana").Count(&anas).Error)
	assert.Zero(t, anas)
}
