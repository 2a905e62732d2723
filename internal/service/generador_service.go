package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/apierror"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// GeneradorService fills the database with synthetic data for demos and load tests.
type GeneradorService interface {
	GenerarPersonas(ctx context.Context, req dto.GenerarPersonasRequest) (*dto.GeneracionResponse, error)
	GenerarTransacciones(ctx context.Context, cantidad int) (*dto.GeneracionResponse, error)
}

type generadorService struct {
	registro      RegistroService
	usuarios      repository.UsuarioRepository
	transacciones repository.TransaccionRepository
	cache         EstadisticasCache

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGeneradorService(
	registro RegistroService,
	usuarios repository.UsuarioRepository,
	transacciones repository.TransaccionRepository,
	cache EstadisticasCache,
) GeneradorService {
	return &generadorService{
		registro:      registro,
		usuarios:      usuarios,
		transacciones: transacciones,
		cache:         cache,
		rnd:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var (
	nombresH   = []string{"Juan", "Carlos", "Luis", "Jorge", "Miguel", "Jose", "Alejandro", "Ricardo", "Fernando", "Marco"}
	nombresM   = []string{"Maria", "Ana", "Laura", "Sofia", "Alina", "Fernanda", "Gabriela", "Valeria", "Daniela", "Paola"}
	nombresNB  = []string{"Alex", "Sam", "Dani", "Cris", "Ariel", "Noa"}
	apellidos  = []string{"Martinez", "Lopez", "Hernandez", "Garcia", "Ramirez", "Bonilla", "Carballo", "Rangel", "Marquez", "Torres", "Flores", "Cruz", "Morales", "Reyes"}
	titulos    = map[string][]string{model.GeneroHombre: {"Sr.", "Lic.", "Ing."}, model.GeneroMujer: {"Sra.", "Srita.", "Lic."}, model.GeneroNoBinario: {"Lic."}}
	conceptosI = []string{"Mensualidad", "Inscripcion", "Clase de spinning", "Venta de suplementos", "Renta de casillero"}
	conceptosE = []string{"Pago de luz", "Mantenimiento de equipo", "Compra de toallas", "Nomina entrenadores", "Limpieza"}
	generos    = []string{model.GeneroHombre, model.GeneroMujer, model.GeneroNoBinario}
	metodos    = []string{model.MetodoTarjetaDebito, model.MetodoTarjetaCredito, model.MetodoEfectivo, model.MetodoTransferencia}
	estatuses  = []string{model.EstatusProcesando, model.EstatusPagada, model.EstatusPagada, model.EstatusPagada, model.EstatusRechazada}
)

// GenerarPersonas registers synthetic people through the normal registration
// workflow, so every one of them gets a handle, a role and a Usuario.
func (s *generadorService) GenerarPersonas(ctx context.Context, req dto.GenerarPersonasRequest) (*dto.GeneracionResponse, error) {
	if req.Cuantos < 1 {
		return nil, apierror.Validation("cuantos debe ser mayor a cero")
	}
	edadMin, edadMax := req.EdadMin, req.EdadMax
	if edadMax == 0 {
		edadMin, edadMax = 18, 60
	}
	if edadMax < edadMin {
		return nil, apierror.Validation("edad_max debe ser mayor o igual a edad_min")
	}

	creados := 0
	for i := 0; i < req.Cuantos; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, err := s.registro.Registrar(ctx, s.personaAleatoria(req.Genero, edadMin, edadMax))
		if err != nil {
			if apierror.KindOf(err) == apierror.KindConflict {
				log.Debug().Err(err).Msg("generador: persona duplicada, se omite")
				continue
			}
			return nil, err
		}
		creados++
	}
	log.Info().Int("solicitados", req.Cuantos).Int("creados", creados).Msg("generador: personas")
	return &dto.GeneracionResponse{
		Solicitados: req.Cuantos,
		Creados:     creados,
		Mensaje:     fmt.Sprintf("Se generaron %d personas correctamente.", creados),
	}, nil
}

// GenerarTransacciones spreads random transactions over the active accounts.
func (s *generadorService) GenerarTransacciones(ctx context.Context, cantidad int) (*dto.GeneracionResponse, error) {
	if cantidad < 1 {
		return nil, apierror.Validation("cantidad debe ser mayor a cero")
	}
	ids, err := s.usuarios.ListActivosIDs(ctx)
	if err != nil {
		return nil, mapRepoErr(err, "", "listar usuarios activos")
	}
	if len(ids) == 0 {
		return nil, apierror.Validation("No hay usuarios activos para asignar transacciones")
	}

	items := make([]model.Transaccion, cantidad)
	s.mu.Lock()
	for i := range items {
		tipo, conceptos := model.TipoIngreso, conceptosI
		if s.rnd.Intn(3) == 0 {
			tipo, conceptos = model.TipoEgreso, conceptosE
		}
		items[i] = model.Transaccion{
			UsuarioID:  ids[s.rnd.Intn(len(ids))],
			Detalles:   conceptos[s.rnd.Intn(len(conceptos))],
			Tipo:       tipo,
			MetodoPago: metodos[s.rnd.Intn(len(metodos))],
			Monto:      decimal.New(int64(5000+s.rnd.Intn(200000)), -2),
			Estatus:    estatuses[s.rnd.Intn(len(estatuses))],
		}
	}
	s.mu.Unlock()

	if err := s.transacciones.CreateMany(ctx, items); err != nil {
		return nil, mapRepoErr(err, "", "generar transacciones")
	}
	if s.cache != nil {
		s.cache.Delete(ctx, CacheKeyEstadisticas)
	}
	return &dto.GeneracionResponse{
		Solicitados: cantidad,
		Creados:     cantidad,
		Mensaje:     fmt.Sprintf("Se generaron %d transacciones correctamente.", cantidad),
	}, nil
}

func (s *generadorService) personaAleatoria(genero *string, edadMin, edadMax int) dto.RegistroRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := generos[s.rnd.Intn(len(generos))]
	if genero != nil {
		g = *genero
	}
	pool := nombresNB
	switch g {
	case model.GeneroHombre:
		pool = nombresH
	case model.GeneroMujer:
		pool = nombresM
	}
	nombre := pool[s.rnd.Intn(len(pool))]
	ap1 := apellidos[s.rnd.Intn(len(apellidos))]
	ap2 := apellidos[s.rnd.Intn(len(apellidos))]
	titulo := titulos[g][s.rnd.Intn(len(titulos[g]))]

	edad := edadMin + s.rnd.Intn(edadMax-edadMin+1)
	nacimiento := time.Now().AddDate(-edad, 0, -s.rnd.Intn(365))
	telefono := fmt.Sprintf("55%08d", s.rnd.Intn(100000000))
	correo := fmt.Sprintf("%s.%s.%s@example.com", strings.ToLower(nombre), strings.ToLower(ap1), uuid.NewString()[:8])

	return dto.RegistroRequest{
		TituloCortesia:    &titulo,
		Nombre:            nombre,
		PrimerApellido:    ap1,
		SegundoApellido:   &ap2,
		NumeroTelefonico:  &telefono,
		CorreoElectronico: correo,
		Contrasena:        uuid.NewString(),
		FechaNacimiento:   nacimiento.Format(fechaLayout),
		Genero:            g,
		TipoSangre:        model.TiposSangre[s.rnd.Intn(len(model.TiposSangre))],
	}
}
