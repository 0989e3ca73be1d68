package router

import (
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/config"
	"github.com/Drozast/restaurant-management-system-sub000/internal/event"
	"github.com/Drozast/restaurant-management-system-sub000/internal/handler"
	"github.com/Drozast/restaurant-management-system-sub000/internal/middleware"
	"github.com/Drozast/restaurant-management-system-sub000/internal/realtime"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"
	"github.com/Drozast/restaurant-management-system-sub000/internal/service"
	"github.com/Drozast/restaurant-management-system-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure pieces built by the composition root.
// Redis, Hub and Dispatcher are optional.
type Deps struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Hub        *realtime.Hub
	Sink       event.Sink
	Dispatcher *worker.Dispatcher
	Checklist  config.Checklist
	Limiter    *middleware.Limiter
	LoginLimit *middleware.Limiter
	// Ahora overrides the gamification clock (tests).
	Ahora func() time.Time
}

const (
	rolCocinero   = "cocinero"
	rolSupervisor = "supervisor"
	rolAdmin      = "administrador"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if d.Sink == nil {
		d.Sink = event.Nop
	}
	if d.Ahora == nil {
		d.Ahora = time.Now
	}
	if d.Limiter == nil {
		d.Limiter = middleware.APILimiter(1000, time.Minute)
	}
	if d.LoginLimit == nil {
		d.LoginLimit = middleware.LoginLimiter()
	}
	if len(d.Checklist.Tareas) == 0 {
		d.Checklist = config.ChecklistPorDefecto()
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(d.Limiter.Handler())

	reglas := cfg.Reglas()

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(d.DB)
	ingredienteRepo := repository.NewIngredienteRepository(d.DB)
	movimientoRepo := repository.NewMovimientoRepository(d.DB)
	recetaRepo := repository.NewRecetaRepository(d.DB)
	ventaRepo := repository.NewVentaRepository(d.DB)
	turnoRepo := repository.NewTurnoRepository(d.DB)
	alertaRepo := repository.NewAlertaRepository(d.DB)
	gamificacionRepo := repository.NewGamificacionRepository(d.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	alertaSvc := service.NewAlertaService(alertaRepo)
	inventarioSvc := service.NewInventarioService(ingredienteRepo, turnoRepo, movimientoRepo, alertaSvc, d.Sink)
	recetaSvc := service.NewRecetaService(recetaRepo, ingredienteRepo)
	ventaSvc := service.NewVentaService(ventaRepo, turnoRepo, recetaRepo, inventarioSvc, alertaSvc, reglas, d.Sink)
	gamificacionSvc := service.NewGamificacionService(gamificacionRepo, d.Sink, d.Ahora)
	turnoSvc := service.NewTurnoService(turnoRepo, ingredienteRepo, ventaRepo, alertaRepo, authSvc,
		gamificacionSvc, d.Checklist, reglas, d.Sink, d.Dispatcher, nil)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ingredientesH := handler.NewIngredientesHandler(inventarioSvc)
	alertasH := handler.NewAlertasHandler(alertaSvc)
	recetasH := handler.NewRecetasHandler(recetaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	turnosH := handler.NewTurnosHandler(turnoSvc)
	gamificacionH := handler.NewGamificacionHandler(gamificacionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.Redis))
	if d.Hub != nil {
		r.GET("/ws", d.Hub.ServeWS)
	}
	r.POST("/v1/auth/login", d.LoginLimit.Handler(), authH.Login)

	// Protected routes; every role may operate the kitchen, supervisors manage stock and rewards
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	todos := middleware.RequireRole(rolCocinero, rolSupervisor, rolAdmin)
	gestion := middleware.RequireRole(rolSupervisor, rolAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/ventas", todos, ventasH.RegistrarVenta)

		turnos := v1.Group("/turnos", todos)
		{
			turnos.POST("", turnosH.AbrirTurno)
			turnos.GET("", turnosH.Historial)
			turnos.GET("/activo", turnosH.TurnoActivo)
			turnos.GET("/:id", turnosH.ObtenerTurno)
			turnos.GET("/:id/ventas", ventasH.ListarVentas)
			turnos.PATCH("/:id/tareas/:tareaId", turnosH.MarcarTarea)
			turnos.POST("/:id/mise/:ingredienteId/reabastecer", ingredientesH.ReabastecerMise)
			turnos.POST("/:id/firmar", d.LoginLimit.Handler(), turnosH.FirmarChecklist)
			turnos.POST("/:id/cerrar", turnosH.CerrarTurno)
			turnos.GET("/:id/reporte", turnosH.ObtenerReporte)
		}

		v1.GET("/ingredientes", todos, ingredientesH.Listar)
		v1.GET("/ingredientes/:id", todos, ingredientesH.Obtener)
		ing := v1.Group("/ingredientes", gestion)
		{
			ing.POST("", ingredientesH.Crear)
			ing.POST("/:id/reabastecer", ingredientesH.Reabastecer)
			ing.PATCH("/:id/porcentaje", ingredientesH.AjustarPorcentaje)
		}
		v1.GET("/inventario/movimientos", gestion, ingredientesH.ListarMovimientos)

		v1.GET("/alertas", todos, alertasH.Listar)
		v1.PATCH("/alertas/:id/resolver", gestion, alertasH.Resolver)

		v1.GET("/recetas/:id", todos, recetasH.Obtener)
		v1.POST("/recetas", gestion, recetasH.Crear)

		gam := v1.Group("/gamificacion", todos)
		{
			gam.GET("/empleados/:nombre", gamificacionH.Perfil)
			gam.GET("/ranking", gamificacionH.Ranking)
			gam.POST("/premios/calcular", gestion, gamificacionH.CalcularPremios)
		}

		v1.POST("/usuarios", middleware.RequireRole(rolAdmin), authH.CrearUsuario)
	}

	// Swagger UI: only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
