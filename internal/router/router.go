package router

import (
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/config"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/handler"
	"github.com/Alex01Dev/backend-gerencia/internal/infra"
	"github.com/Alex01Dev/backend-gerencia/internal/middleware"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/repository"
	"github.com/Alex01Dev/backend-gerencia/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-level resources the HTTP layer is built on. Redis,
// Media and Notificador are optional.
type Deps struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Media       *infra.FileStore
	Notificador service.Notificador
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	var media service.MediaStore
	if deps.Media != nil {
		media = deps.Media
	}
	statsCache := infra.NewViewCache[dto.TransaccionEstadisticas](deps.Redis, time.Duration(cfg.StatsCacheTTLSecond)*time.Second)

	// ── Repositories ─────────────────────────────────────────────────────────
	personaRepo := repository.NewPersonaRepository(deps.DB)
	usuarioRepo := repository.NewUsuarioRepository(deps.DB)
	sucursalRepo := repository.NewSucursalRepository(deps.DB)
	transaccionRepo := repository.NewTransaccionRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	registroSvc := service.NewRegistroService(personaRepo, usuarioRepo, media, deps.Notificador, cfg)
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	personaSvc := service.NewPersonaService(personaRepo, media, cfg)
	sucursalSvc := service.NewSucursalService(sucursalRepo, usuarioRepo)
	transaccionSvc := service.NewTransaccionService(transaccionRepo, usuarioRepo, statsCache)
	generadorSvc := service.NewGeneradorService(registroSvc, usuarioRepo, transaccionRepo, statsCache)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, registroSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	personasH := handler.NewPersonasHandler(personaSvc, authSvc, generadorSvc)
	sucursalesH := handler.NewSucursalesHandler(sucursalSvc)
	transaccionesH := handler.NewTransaccionesHandler(transaccionSvc, generadorSvc)

	const (
		admin = model.RolAdministrador
		colab = model.RolColaborador
	)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/", handler.Welcome)
	r.GET("/health", handler.Health(deps.DB, deps.Redis))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/register", authH.Register)
	r.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	r.POST("/refresh", authH.Refresh)
	if deps.Media != nil {
		r.Static("/media", deps.Media.Dir())
	}

	// Protected routes
	v := r.Group("", middleware.JWTAuth(cfg.JWTSecret))
	{
		v.GET("/me", usuariosH.Me)
		v.GET("/users/:id", usuariosH.ObtenerPorID)

		users := v.Group("/users", middleware.RequireRole(admin))
		{
			users.GET("", usuariosH.Listar)
			users.PUT("/:id/roles", usuariosH.AsignarRoles)
			users.DELETE("/:id", usuariosH.Desactivar)
			users.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		personas := v.Group("/personas")
		{
			personas.GET("", middleware.RequireRole(admin, colab), personasH.Listar)
			personas.GET("/tipo-sangre", personasH.TipoSangre)
			personas.GET("/:id", personasH.ObtenerPorID)
			personas.PUT("/:id", personasH.Actualizar)
			personas.DELETE("/:id", middleware.RequireRole(admin), personasH.Eliminar)
			personas.POST("/generar", middleware.RequireRole(admin), personasH.Generar)
		}

		sucursales := v.Group("/sucursales")
		{
			sucursales.GET("", sucursalesH.Listar)
			sucursales.GET("/estadisticas", sucursalesH.Estadisticas)
			sucursales.GET("/:id", sucursalesH.ObtenerPorID)
			sucursales.POST("", middleware.RequireRole(admin, colab), sucursalesH.Crear)
			sucursales.PUT("/:id", middleware.RequireRole(admin, colab), sucursalesH.Actualizar)
			sucursales.DELETE("/:id", middleware.RequireRole(admin, colab), sucursalesH.Desactivar)
		}

		tx := v.Group("/transacciones")
		{
			tx.POST("", transaccionesH.Crear)
			tx.GET("", transaccionesH.Listar)
			tx.GET("/balance", transaccionesH.Balance)
			tx.GET("/estado-cuenta", transaccionesH.EstadoCuenta)
			tx.GET("/estadisticas", middleware.RequireRole(admin, colab), transaccionesH.Estadisticas)
			tx.POST("/generar", middleware.RequireRole(admin), transaccionesH.Generar)
			tx.GET("/:id", transaccionesH.ObtenerPorID)
			tx.PUT("/:id", transaccionesH.Actualizar)
			tx.DELETE("/:id", transaccionesH.Cancelar)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
