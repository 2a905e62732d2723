// Command gerenciactl runs the maintenance tasks of the gerencia backend:
// seeding reference data, bulk synthetic data and password hashing.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/config"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/infra"
	"github.com/Alex01Dev/backend-gerencia/internal/repository"
	"github.com/Alex01Dev/backend-gerencia/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:   "gerenciactl",
		Short: "Herramientas de mantenimiento del backend del gimnasio",
	}
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(generarPersonasCmd())
	rootCmd.AddCommand(generarTransaccionesCmd())
	rootCmd.AddCommand(genhashCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the slice of the server wiring the commands need. The CLI never
// sends emails and never touches the stats cache.
type app struct {
	cfg       *config.Config
	db        *gorm.DB
	registro  service.RegistroService
	generador service.GeneradorService
	seed      service.SeedService
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	media, err := infra.NewFileStore(cfg.MediaStoragePath)
	if err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}

	personas := repository.NewPersonaRepository(db)
	usuarios := repository.NewUsuarioRepository(db)
	transacciones := repository.NewTransaccionRepository(db)
	roles := repository.NewRolRepository(db)

	registro := service.NewRegistroService(personas, usuarios, media, nil, cfg)
	return &app{
		cfg:       cfg,
		db:        db,
		registro:  registro,
		generador: service.NewGeneradorService(registro, usuarios, transacciones, nil),
		seed:      service.NewSeedService(roles, usuarios, registro),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func seedCmd() *cobra.Command {
	var admin dto.RegistroRequest
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea los roles y un administrador si las tablas estan vacias",
		RunE: func(cmd *cobra.Command, args []string) error {
			if admin.Contrasena == "" {
				admin.Contrasena = os.Getenv("SEED_ADMIN_PASSWORD")
			}
			if len(admin.Contrasena) < 8 {
				return fmt.Errorf("la contrasena del administrador requiere al menos 8 caracteres (--password o SEED_ADMIN_PASSWORD)")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.seed.Seed(cmd.Context(), admin)
			if err != nil {
				return err
			}
			fmt.Printf("roles creados: %d\n", res.RolesCreados)
			if res.Administrador != nil {
				fmt.Printf("administrador: %s (%s)\n", res.Administrador.NombreUsuario, res.Administrador.Rol)
			} else {
				fmt.Println("administrador: ya existen usuarios, se omite")
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&admin.Nombre, "nombre", "Admin", "nombre del administrador")
	f.StringVar(&admin.PrimerApellido, "primer-apellido", "Gerencia", "primer apellido")
	f.StringVar(&admin.CorreoElectronico, "correo", envOr("SEED_ADMIN_EMAIL", "admin@gymbullsge.com"), "correo (define el rol por dominio)")
	f.StringVar(&admin.Contrasena, "password", "", "contrasena en claro")
	f.StringVar(&admin.FechaNacimiento, "fecha-nacimiento", "1990-01-01", "YYYY-MM-DD")
	f.StringVar(&admin.Genero, "genero", "NB", "H | M | NB")
	f.StringVar(&admin.TipoSangre, "tipo-sangre", "O_POSITIVO", "tipo de sangre")
	return cmd
}

func generarPersonasCmd() *cobra.Command {
	var (
		req    dto.GenerarPersonasRequest
		genero string
	)
	cmd := &cobra.Command{
		Use:   "generar-personas",
		Short: "Registra personas sinteticas con el flujo normal de registro",
		RunE: func(cmd *cobra.Command, args []string) error {
			if genero != "" {
				req.Genero = &genero
			}
			if req.Cuantos < 1 || req.EdadMin > req.EdadMax {
				return fmt.Errorf("parametros invalidos: cuantos >= 1 y edad-min <= edad-max")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return report(a.generador.GenerarPersonas(cmd.Context(), req))
		},
	}
	f := cmd.Flags()
	f.IntVar(&req.Cuantos, "cuantos", 10, "personas a crear")
	f.StringVar(&genero, "genero", "", "H | M | NB (vacio = aleatorio)")
	f.IntVar(&req.EdadMin, "edad-min", 18, "edad minima")
	f.IntVar(&req.EdadMax, "edad-max", 60, "edad maxima")
	return cmd
}

func generarTransaccionesCmd() *cobra.Command {
	var cantidad int
	cmd := &cobra.Command{
		Use:   "generar-transacciones",
		Short: "Crea transacciones aleatorias para los usuarios activos",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cantidad < 1 {
				return fmt.Errorf("--cantidad debe ser >= 1")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return report(a.generador.GenerarTransacciones(cmd.Context(), cantidad))
		},
	}
	cmd.Flags().IntVar(&cantidad, "cantidad", 50, "transacciones a crear")
	return cmd
}

func genhashCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "genhash <password>",
		Short: "Imprime el hash bcrypt de una contrasena",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cost == 0 {
				cost = bcrypt.DefaultCost
				if cfg, err := config.Load(); err == nil && cfg.BcryptCost > 0 {
					cost = cfg.BcryptCost
				}
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), cost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "costo bcrypt (0 = BCRYPT_COST)")
	return cmd
}

func report(res *dto.GeneracionResponse, err error) error {
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d/%d)\n", res.Mensaje, res.Creados, res.Solicitados)
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
