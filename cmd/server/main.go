package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/popstats/backend/docs"
	"github.com/popstats/backend/internal/bootstrap"
	"github.com/popstats/backend/internal/infrastructure/config"
	"github.com/popstats/backend/internal/infrastructure/logger"
	"github.com/popstats/backend/internal/infrastructure/telemetry"
	"github.com/popstats/backend/internal/interfaces/http/handler"
	"github.com/popstats/backend/internal/interfaces/http/router"
)

//	@title			popstats API
//	@version		1.0
//	@description	Country, state and city population figures merged from the location store and population sources.

//	@contact.name	popstats maintainers
//	@contact.url	https://github.com/popstats/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting popstats API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	rt, err := bootstrap.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize runtime", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := rt.Shutdown(ctx); err != nil {
			log.Error("Error during runtime shutdown", zap.Error(err))
		}
	}()
	log = rt.Logger

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engineCfg := router.EngineConfig{
		Logger:           log,
		ServiceName:      cfg.Telemetry.ServiceName,
		TracingEnabled:   cfg.Telemetry.Enabled,
		ProfilingEnabled: cfg.Telemetry.ProfilingEnabled,
		Meter:            rt.Meter,
		RequestTimeout:   cfg.HTTP.RequestTimeout,
		CORSOrigins:      cfg.HTTP.CORSOrigins,
	}
	if cfg.HTTP.SwaggerEnabled {
		engineCfg.Swagger = ginSwagger.WrapHandler(swaggerFiles.Handler)
	}

	sqlDB, err := rt.DB.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}

	setup := rt.Aggregator.Describe()
	log.Info("Aggregator ready",
		zap.Strings("sources", setup.Sources),
		zap.String("merge_policy", string(setup.MergePolicy)),
	)

	engine := router.NewEngine(engineCfg, router.Handlers{
		Population: handler.NewPopulationHandler(rt.Aggregator),
		Health:     handler.NewHealthHandler(sqlDB),
		System:     handler.NewSystemHandler(handler.ServiceInfo{
			Name:              cfg.App.Name,
			Version:           telemetry.ServiceVersion,
			Sources:           setup.Sources,
			MergePolicy:       string(setup.MergePolicy),
			ConcurrentSources: setup.Concurrent,
		}),
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
