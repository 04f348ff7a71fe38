package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	populationapp "github.com/popstats/backend/internal/application/population"
	"github.com/popstats/backend/internal/infrastructure/logger"
	"github.com/popstats/backend/internal/interfaces/http/handler"
	"github.com/popstats/backend/internal/interfaces/http/middleware"
)

// EngineConfig selects the middleware stack of the HTTP server
type EngineConfig struct {
	Logger           *zap.Logger
	ServiceName      string
	TracingEnabled   bool
	ProfilingEnabled bool
	Meter            metric.Meter // nil disables HTTP metrics
	RequestTimeout   time.Duration
	CORSOrigins      []string
	// Swagger serves /swagger/*any when set
	Swagger gin.HandlerFunc
}

// Handlers are the endpoints mounted by NewEngine
type Handlers struct {
	Population *handler.PopulationHandler
	Health     *handler.HealthHandler
	System     *handler.SystemHandler
}

// NewEngine builds the gin engine with middleware and every route:
//
//	GET /health
//	GET /swagger/*any
//	GET /api/v1/system/{info,ping}
//	GET /api/v1/population/{countries,details}
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TracingEnabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(cfg.Meter))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.CORSOrigins
	engine.Use(middleware.CORSWithConfig(corsCfg))

	engine.GET("/health", h.Health.Health)
	if cfg.Swagger != nil {
		engine.GET("/swagger/*any", cfg.Swagger)
	}

	api := NewAPI()
	api.Group("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)
	profile := func(operation string) gin.HandlerFunc {
		return middleware.ProfileOperation(cfg.ProfilingEnabled, operation)
	}
	api.Group("population", "/population", middleware.Timeout(cfg.RequestTimeout)).
		GET("/countries", profile(populationapp.OperationTotalByCountry), h.Population.GetCountryTotals).
		GET("/details", profile(populationapp.OperationDetailsByLocation), h.Population.GetLocationDetails)

	for _, r := range api.Mount(engine) {
		log.Debug("Route mounted", zap.String("group", r.Group), zap.String("method", r.Method), zap.String("path", r.Path))
	}

	return engine
}
