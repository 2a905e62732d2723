package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/config"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type PersonaService interface {
	ObtenerPorID(ctx context.Context, id uint) (*dto.PersonaResponse, error)
	Listar(ctx context.Context, filter dto.PersonaFilter) (*dto.PersonaListResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarPersonaRequest) (*dto.PersonaResponse, error)
	Eliminar(ctx context.Context, id uint) error
	DistribucionTipoSangre(ctx context.Context) ([]dto.TipoSangreResponse, error)
}

type personaService struct {
	repo  repository.PersonaRepository
	media MediaStore
	cfg   *config.Config
}

func NewPersonaService(repo repository.PersonaRepository, media MediaStore, cfg *config.Config) PersonaService {
	return &personaService{repo: repo, media: media, cfg: cfg}
}

const personaNoEncontrada = "Persona no encontrada"

func (s *personaService) ObtenerPorID(ctx context.Context, id uint) (*dto.PersonaResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, personaNoEncontrada, "buscar persona")
	}
	resp := toPersonaResponse(p)
	return &resp, nil
}

func (s *personaService) Listar(ctx context.Context, filter dto.PersonaFilter) (*dto.PersonaListResponse, error) {
	filter.Page, filter.Limit = paginar(filter.Page, filter.Limit)
	personas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapRepoErr(err, "", "listar personas")
	}
	data := make([]dto.PersonaResponse, len(personas))
	for i := range personas {
		data[i] = toPersonaResponse(&personas[i])
	}
	return &dto.PersonaListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPaginas(total, filter.Limit),
	}, nil
}

// Actualizar assigns only the fields present in req. The handle and the
// role are never recomputed.
func (s *personaService) Actualizar(ctx context.Context, id uint, req dto.ActualizarPersonaRequest) (*dto.PersonaResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, personaNoEncontrada, "buscar persona")
	}

	if req.TituloCortesia != nil {
		p.TituloCortesia = req.TituloCortesia
	}
	if req.Nombre != nil {
		p.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.PrimerApellido != nil {
		p.PrimerApellido = strings.TrimSpace(*req.PrimerApellido)
	}
	if req.SegundoApellido != nil {
		p.SegundoApellido = req.SegundoApellido
	}
	if req.NumeroTelefonico != nil {
		p.NumeroTelefonico = req.NumeroTelefonico
	}
	if req.FechaNacimiento != nil {
		f, err := parseFecha(*req.FechaNacimiento, "fecha_nacimiento")
		if err != nil {
			return nil, err
		}
		if f.After(time.Now()) {
			return nil, apierror.Validation("fecha_nacimiento no puede ser futura")
		}
		p.FechaNacimiento = f
	}
	if req.Genero != nil {
		p.Genero = *req.Genero
	}
	if req.TipoSangre != nil {
		p.TipoSangre = *req.TipoSangre
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}

	var anterior, nueva string
	if req.Fotografia != nil && *req.Fotografia != "" {
		ref, err := guardarFotografia(ctx, s.media, *req.Fotografia, s.cfg.MaxPhotoBytes)
		if err != nil {
			return nil, err
		}
		if p.Fotografia != nil {
			anterior = *p.Fotografia
		}
		nueva = ref
		p.Fotografia = &ref
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if nueva != "" {
			log.Warn().Str("fotografia", nueva).Msg("actualizar persona: fallo, fotografia nueva huerfana")
		}
		return nil, mapRepoErr(err, personaNoEncontrada, "actualizar persona")
	}
	borrarFotografia(ctx, s.media, anterior)

	resp := toPersonaResponse(p)
	return &resp, nil
}

// Eliminar removes the persona, its usuario and role assignments in one
// transaction, then the stored photo.
func (s *personaService) Eliminar(ctx context.Context, id uint) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoErr(err, personaNoEncontrada, "buscar persona")
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteCascadeTx(tx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apierror.Conflict("La persona tiene sucursales o transacciones asociadas", err)
		}
		return mapRepoErr(err, personaNoEncontrada, "eliminar persona")
	}

	if p.Fotografia != nil {
		borrarFotografia(ctx, s.media, *p.Fotografia)
	}
	log.Info().Uint("persona_id", id).Msg("persona eliminada")
	return nil
}

func (s *personaService) DistribucionTipoSangre(ctx context.Context) ([]dto.TipoSangreResponse, error) {
	rows, err := s.repo.DistribucionTipoSangre(ctx)
	if err != nil {
		return nil, mapRepoErr(err, "", "distribucion tipo de sangre")
	}
	var total int64
	for _, r := range rows {
		total += r.Total
	}
	resp := make([]dto.TipoSangreResponse, len(rows))
	for i, r := range rows {
		resp[i] = dto.TipoSangreResponse{TipoSangre: r.TipoSangre, TotalPersonas: r.Total}
		if total > 0 {
			resp[i].Porcentaje = math.Round(float64(r.Total)*10000/float64(total)) / 100
		}
	}
	return resp, nil
}

func toPersonaResponse(p *model.Persona) dto.PersonaResponse {
	resp := dto.PersonaResponse{
		ID:                p.ID,
		TituloCortesia:    p.TituloCortesia,
		Nombre:            p.Nombre,
		PrimerApellido:    p.PrimerApellido,
		SegundoApellido:   p.SegundoApellido,
		NumeroTelefonico:  p.NumeroTelefonico,
		CorreoElectronico: p.CorreoElectronico,
		FechaNacimiento:   p.FechaNacimiento.Format(fechaLayout),
		Genero:            p.Genero,
		TipoSangre:        p.TipoSangre,
		Activo:            p.Activo,
		CreatedAt:         formatTS(p.CreatedAt),
		UpdatedAt:         formatTS(p.UpdatedAt),
	}
	if p.Fotografia != nil {
		url := mediaPrefix + *p.Fotografia
		resp.Fotografia = &url
	}
	return resp
}
