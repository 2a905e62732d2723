package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func parseClaims(t *testing.T, raw string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	return claims
}

func TestLogin_PorNombreUsuarioOCorreo(t *testing.T) {
	repo := newStubUsuarioRepo()
	repo.seedUsuario("jmarlop", "juan@gymbullsge.com", hashPassword(t, "secret"), model.RolAdministrador)
	svc := service.NewAuthService(repo, newTestCfg())

	for _, login := range []string{"jmarlop", "JMARLOP", "Juan@GymBullSGE.com"} {
		resp, err := svc.Login(context.Background(), dto.LoginRequest{NombreUsuario: login, Contrasena: "secret"})
		require.NoError(t, err, login)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.True(t, resp.EsGerente)
		assert.Equal(t, 8*3600, resp.ExpiresIn)
		assert.Equal(t, []string{model.RolAdministrador}, resp.User.Roles)

		claims := parseClaims(t, resp.AccessToken)
		assert.Equal(t, service.TokenAcceso, claims["tipo"])
		assert.Equal(t, "jmarlop", claims["username"])
		assert.Equal(t, true, claims["es_gerente"])
	}
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	repo := newStubUsuarioRepo()
	repo.seedUsuario("jmarlop", "juan@example.com", hashPassword(t, "secret"), model.RolCliente)
	svc := service.NewAuthService(repo, newTestCfg())

	_, errPass := svc.Login(context.Background(), dto.LoginRequest{NombreUsuario: "jmarlop", Contrasena: "wrong"})
	_, errUser := svc.Login(context.Background(), dto.LoginRequest{NombreUsuario: "nadie", Contrasena: "secret"})

	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(errPass))
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(errUser))
	assert.Equal(t, errPass.Error(), errUser.Error(), "no distinction between unknown user and bad password")
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := repo.seedUsuario("jmarlop", "juan@example.com", hashPassword(t, "secret"))
	u.Activo = false
	svc := service.NewAuthService(repo, newTestCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{NombreUsuario: "jmarlop", Contrasena: "secret"})
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(err))
}

func TestRefresh(t *testing.T) {
	repo := newStubUsuarioRepo()
	repo.seedUsuario("jmarlop", "juan@example.com", hashPassword(t, "secret"), model.RolCliente)
	svc := service.NewAuthService(repo, newTestCfg())
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{NombreUsuario: "jmarlop", Contrasena: "secret"})
	require.NoError(t, err)

	resp, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.False(t, resp.EsGerente)

	// an access token is not accepted as a refresh token
	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(err))

	_, err = svc.Refresh(ctx, "not-a-token")
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(err))
}

func TestRefresh_Expirado(t *testing.T) {
	repo := newStubUsuarioRepo()
	repo.seedUsuario("jmarlop", "juan@example.com", "x")
	svc := service.NewAuthService(repo, newTestCfg())

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1, "tipo": service.TokenRefresco,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	raw, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), raw)
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(err))
}

func TestMe_IncluyePersona(t *testing.T) {
	f := newRegistroFixture()
	reg := registrarPersona(t, f, registroValido())
	svc := service.NewAuthService(f.usuarios, newTestCfg())

	perfil, err := svc.Me(context.Background(), reg.UsuarioID)
	require.NoError(t, err)
	assert.Equal(t, "jmarlop", perfil.NombreUsuario)
	require.NotNil(t, perfil.Persona)
	assert.Equal(t, reg.Persona.ID, perfil.Persona.ID)

	_, err = svc.Me(context.Background(), 404)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestAsignarRoles_ReemplazaYDeduplica(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := repo.seedUsuario("jmarlop", "juan@example.com", "x", model.RolCliente)
	svc := service.NewAuthService(repo, newTestCfg())

	resp, err := svc.AsignarRoles(context.Background(), u.ID, dto.AsignarRolesRequest{
		Roles: []string{model.RolEntrenador, model.RolColaborador, model.RolEntrenador},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{model.RolEntrenador, model.RolColaborador}, resp.Roles)

	_, err = svc.AsignarRoles(context.Background(), 999, dto.AsignarRolesRequest{Roles: []string{model.RolCliente}})
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestListarUsuarios_FiltroPorRol(t *testing.T) {
	repo := newStubUsuarioRepo()
	repo.seedUsuario("a", "a@x.com", "x", model.RolCliente)
	repo.seedUsuario("b", "b@x.com", "x", model.RolColaborador)
	svc := service.NewAuthService(repo, newTestCfg())

	list, err := svc.ListarUsuarios(context.Background(), dto.UsuarioFilter{Rol: model.RolColaborador})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].NombreUsuario)
}

func TestDesactivarYReactivar(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := repo.seedUsuario("jmarlop", "juan@example.com", hashPassword(t, "secret"))
	svc := service.NewAuthService(repo, newTestCfg())
	ctx := context.Background()

	require.NoError(t, svc.DesactivarUsuario(ctx, u.ID))
	_, err := svc.Login(ctx, dto.LoginRequest{NombreUsuario: "jmarlop", Contrasena: "secret"})
	assert.Error(t, err)

	require.NoError(t, svc.ReactivarUsuario(ctx, u.ID))
	_, err = svc.Login(ctx, dto.LoginRequest{NombreUsuario: "jmarlop", Contrasena: "secret"})
	assert.NoError(t, err)

	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(svc.DesactivarUsuario(ctx, 77)))
}
