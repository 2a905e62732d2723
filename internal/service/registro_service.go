package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/config"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/identity"
	"github.com/Alex01Dev/backend-gerencia/internal/metrics"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/repository"
	"github.com/Alex01Dev/backend-gerencia/internal/worker"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegistroService creates a Persona and its login Usuario as one unit.
type RegistroService interface {
	Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.RegistroResponse, error)
}

type registroService struct {
	personas    repository.PersonaRepository
	usuarios    repository.UsuarioRepository
	media       MediaStore
	notificador Notificador
	cfg         *config.Config
}

func NewRegistroService(
	personas repository.PersonaRepository,
	usuarios repository.UsuarioRepository,
	media MediaStore,
	notificador Notificador,
	cfg *config.Config,
) RegistroService {
	return &registroService{personas: personas, usuarios: usuarios, media: media, notificador: notificador, cfg: cfg}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
//   1. derive handle and role (read-only)
//   2. bcrypt the password
//   3. store the photo, if any
//   4. BEGIN TX: persona, usuario, role assignment
//   5. COMMIT
//   6. (async) welcome email, best effort

func (s *registroService) Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.RegistroResponse, error) {
	fechaNac, err := parseFecha(req.FechaNacimiento, "fecha_nacimiento")
	if err != nil {
		return nil, err
	}
	if fechaNac.After(time.Now()) {
		return nil, apierror.Validation("fecha_nacimiento no puede ser futura")
	}

	// bcrypt works on bytes; the validator tag counts runes
	if len(req.Contrasena) > maxContrasenaBytes {
		return nil, apierror.Validation("contrasena excede 72 bytes")
	}

	segundo := ""
	if req.SegundoApellido != nil {
		segundo = *req.SegundoApellido
	}
	handle, err := identity.GenerarNombreUsuario(ctx, s.usuarios, req.Nombre, req.PrimerApellido, segundo)
	switch {
	case errors.Is(err, identity.ErrSemillaVacia):
		return nil, apierror.Validation("nombre y apellidos deben contener letras")
	case errors.Is(err, identity.ErrGeneracionAgotada):
		return nil, apierror.GenerationExhausted(err)
	case err != nil:
		return nil, mapRepoErr(err, "", "verificar nombre de usuario")
	}
	if handle != identity.Semilla(req.Nombre, req.PrimerApellido, segundo) {
		metrics.ColisionesNombreUsuario.Inc()
	}
	rol := identity.ClasificarRol(req.CorreoElectronico)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Contrasena), s.bcryptCost())
	if err != nil {
		return nil, apierror.Storage(err)
	}

	var fotoRef *string
	if req.Fotografia != nil && *req.Fotografia != "" {
		ref, err := guardarFotografia(ctx, s.media, *req.Fotografia, s.cfg.MaxPhotoBytes)
		if err != nil {
			return nil, err
		}
		fotoRef = &ref
	}

	correo := strings.ToLower(strings.TrimSpace(req.CorreoElectronico))
	persona := &model.Persona{
		TituloCortesia:    req.TituloCortesia,
		Nombre:            strings.TrimSpace(req.Nombre),
		PrimerApellido:    strings.TrimSpace(req.PrimerApellido),
		SegundoApellido:   req.SegundoApellido,
		NumeroTelefonico:  req.NumeroTelefonico,
		CorreoElectronico: correo,
		FechaNacimiento:   fechaNac,
		Fotografia:        fotoRef,
		Genero:            req.Genero,
		TipoSangre:        req.TipoSangre,
		Activo:            true,
	}
	usuario := &model.Usuario{
		NombreUsuario:     handle,
		CorreoElectronico: correo,
		PasswordHash:      string(hash),
		Activo:            true,
	}

	err = runTx(ctx, s.personas.DB(), func(tx *gorm.DB) error {
		if err := s.personas.CreateTx(tx, persona); err != nil {
			return err
		}
		usuario.PersonaID = persona.ID
		if err := s.usuarios.CreateTx(tx, usuario); err != nil {
			return err
		}
		return s.usuarios.AsignarRolTx(tx, usuario.ID, rol)
	})
	if err != nil {
		if fotoRef != nil {
			log.Warn().Str("fotografia", *fotoRef).Msg("registro: transaccion revertida, fotografia huerfana")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("El correo electronico o el nombre de usuario ya esta registrado", err)
		}
		return nil, mapRepoErr(err, "", "registrar persona")
	}

	metrics.Registros.WithLabelValues(rol).Inc()
	log.Info().Uint("usuario_id", usuario.ID).Str("nombre_usuario", handle).Str("rol", rol).Msg("registro completado")

	if s.notificador != nil {
		p := worker.BienvenidaPayload{Correo: correo, Nombre: persona.Nombre, NombreUsuario: handle}
		if err := s.notificador.EnqueueBienvenida(ctx, p); err != nil {
			log.Warn().Err(err).Uint("usuario_id", usuario.ID).Msg("registro: no se pudo encolar bienvenida")
		}
	}

	return &dto.RegistroResponse{
		Persona:       toPersonaResponse(persona),
		UsuarioID:     usuario.ID,
		NombreUsuario: handle,
		Rol:           rol,
	}, nil
}

func (s *registroService) bcryptCost() int {
	if s.cfg.BcryptCost < bcrypt.MinCost || s.cfg.BcryptCost > bcrypt.MaxCost {
		return 12
	}
	return s.cfg.BcryptCost
}
