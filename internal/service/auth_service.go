package service

import (
	"context"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/config"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Token kinds carried in the "tipo" claim.
const (
	TokenAcceso   = "access"
	TokenRefresco = "refresh"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Me(ctx context.Context, usuarioID uint) (*dto.PerfilResponse, error)
	ObtenerUsuario(ctx context.Context, id uint) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, filter dto.UsuarioFilter) ([]dto.UsuarioResponse, error)
	AsignarRoles(ctx context.Context, id uint, req dto.AsignarRolesRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uint) error
	ReactivarUsuario(ctx context.Context, id uint) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

const usuarioNoEncontrado = "Usuario no encontrado"

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByLogin(ctx, req.NombreUsuario)
	if err != nil {
		return nil, apierror.Unauthorized("Credenciales invalidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Contrasena)); err != nil {
		return nil, apierror.Unauthorized("Credenciales invalidas")
	}
	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Unauthorized("Refresh token invalido o expirado")
	}
	if tipo, _ := claims["tipo"].(string); tipo != TokenRefresco {
		return nil, apierror.Unauthorized("Refresh token invalido o expirado")
	}
	raw, ok := claims["user_id"].(float64)
	if !ok || raw <= 0 {
		return nil, apierror.Unauthorized("Token mal formado")
	}

	user, err := s.repo.FindByID(ctx, uint(raw))
	if err != nil || !user.Activo {
		return nil, apierror.Unauthorized("Usuario no encontrado o inactivo")
	}
	return s.emitirTokens(user)
}

func (s *authService) Me(ctx context.Context, usuarioID uint) (*dto.PerfilResponse, error) {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, mapRepoErr(err, usuarioNoEncontrado, "buscar usuario")
	}
	perfil := &dto.PerfilResponse{UsuarioResponse: toUsuarioResponse(user)}
	if user.Persona != nil {
		p := toPersonaResponse(user.Persona)
		perfil.Persona = &p
	}
	return perfil, nil
}

func (s *authService) ObtenerUsuario(ctx context.Context, id uint) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, usuarioNoEncontrado, "buscar usuario")
	}
	resp := toUsuarioResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, filter dto.UsuarioFilter) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapRepoErr(err, "", "listar usuarios")
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = toUsuarioResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) AsignarRoles(ctx context.Context, id uint, req dto.AsignarRolesRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapRepoErr(err, usuarioNoEncontrado, "buscar usuario")
	}
	roles := dedupe(req.Roles)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.ReemplazarRolesTx(tx, id, roles)
	})
	if err != nil {
		return nil, mapRepoErr(err, usuarioNoEncontrado, "asignar roles")
	}
	return s.ObtenerUsuario(ctx, id)
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uint) error {
	return mapRepoErr(s.repo.SoftDelete(ctx, id), usuarioNoEncontrado, "desactivar usuario")
}

func (s *authService) ReactivarUsuario(ctx context.Context, id uint) error {
	return mapRepoErr(s.repo.Reactivar(ctx, id), usuarioNoEncontrado, "reactivar usuario")
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	access, err := s.generateToken(user, TokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(user, TokenRefresco, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		EsGerente:    user.TieneRol(model.RolAdministrador),
		User:         toUsuarioResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, tipo string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"username":   user.NombreUsuario,
		"roles":      user.NombresRoles(),
		"es_gerente": user.TieneRol(model.RolAdministrador),
		"tipo":       tipo,
		"exp":        now.Add(duration).Unix(),
		"iat":        now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func toUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:                u.ID,
		PersonaID:         u.PersonaID,
		NombreUsuario:     u.NombreUsuario,
		CorreoElectronico: u.CorreoElectronico,
		Roles:             u.NombresRoles(),
		Activo:            u.Activo,
		CreatedAt:         formatTS(u.CreatedAt),
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
