package service

import (
	"context"

	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/repository"

	"github.com/rs/zerolog/log"
)

// SeedResult reports what a seeding run actually created.
type SeedResult struct {
	RolesCreados  int
	Administrador *dto.RegistroResponse
}

// SeedService loads the reference data. Every step checks its table first,
// so running it twice creates nothing the second time.
type SeedService interface {
	Seed(ctx context.Context, admin dto.RegistroRequest) (*SeedResult, error)
}

type seedService struct {
	roles    repository.RolRepository
	usuarios repository.UsuarioRepository
	registro RegistroService
}

func NewSeedService(roles repository.RolRepository, usuarios repository.UsuarioRepository, registro RegistroService) SeedService {
	return &seedService{roles: roles, usuarios: usuarios, registro: registro}
}

func (s *seedService) Seed(ctx context.Context, admin dto.RegistroRequest) (*SeedResult, error) {
	res := &SeedResult{}

	n, err := s.roles.Count(ctx)
	if err != nil {
		return nil, mapRepoErr(err, "", "contar roles")
	}
	if n == 0 {
		roles := make([]model.Rol, len(model.RolesIniciales))
		copy(roles, model.RolesIniciales)
		if err := s.roles.CreateMany(ctx, roles); err != nil {
			return nil, mapRepoErr(err, "", "crear roles")
		}
		res.RolesCreados = len(roles)
		log.Info().Int("roles", len(roles)).Msg("seed: roles creados")
	} else {
		log.Info().Int64("roles", n).Msg("seed: roles ya existen, se omite")
	}

	n, err = s.usuarios.Count(ctx)
	if err != nil {
		return nil, mapRepoErr(err, "", "contar usuarios")
	}
	if n == 0 {
		reg, err := s.registro.Registrar(ctx, admin)
		if err != nil {
			return nil, err
		}
		res.Administrador = reg
		log.Info().Str("nombre_usuario", reg.NombreUsuario).Str("rol", reg.Rol).Msg("seed: administrador creado")
	} else {
		log.Info().Int64("usuarios", n).Msg("seed: usuarios ya existen, se omite")
	}
	return res, nil
}
