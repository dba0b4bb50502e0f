package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/league-sched-api/api/swagger"
	internalhandler "github.com/noah-isme/league-sched-api/internal/handler"
	internalmiddleware "github.com/noah-isme/league-sched-api/internal/middleware"
	"github.com/noah-isme/league-sched-api/internal/repository"
	"github.com/noah-isme/league-sched-api/internal/service"
	"github.com/noah-isme/league-sched-api/pkg/cache"
	"github.com/noah-isme/league-sched-api/pkg/config"
	"github.com/noah-isme/league-sched-api/pkg/database"
	"github.com/noah-isme/league-sched-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/league-sched-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/league-sched-api/pkg/middleware/requestid"
	"github.com/noah-isme/league-sched-api/pkg/storage"
)

// @title League Scheduling API
// @version 0.1.0
// @description Slot generation and schedule wizard for recreational leagues
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewRedisCacheRepository(redisClient, cfg.Cache.KeySpace)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.SlotTTL, logr, cfg.Cache.Enabled && cacheRepo != nil)

	validate := validator.New()

	leagueRepo := repository.NewLeagueRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	runRepo := repository.NewScheduleRunRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:          cfg.JWT.Secret,
		AccessTokenTTL:  cfg.JWT.Expiration,
		RefreshTokenTTL: cfg.JWT.RefreshExpiration,
		Issuer:          "league-sched-api",
	})
	leagueSvc := service.NewLeagueService(leagueRepo, validate, logr)
	teamSvc := service.NewTeamService(teamRepo, validate, logr)
	fieldSvc := service.NewFieldService(fieldRepo, validate, logr)
	ruleSvc := service.NewRuleService(ruleRepo, validate, logr)
	allocationSvc := service.NewAllocationService(allocationRepo, validate, logr)
	slotSvc := service.NewSlotService(slotRepo, cacheSvc, validate, logr)
	generationSvc := service.NewSlotGenerationService(leagueRepo, fieldRepo, ruleRepo, slotRepo, cacheSvc, metricsSvc, validate, logr, service.SlotGenerationConfig{
		DefaultGameLengthMinutes: cfg.Wizard.DefaultGameLengthMinutes,
		MaxWindowDays:            cfg.SlotGen.MaxWindowDays,
	})
	wizardSvc := service.NewWizardService(leagueRepo, teamRepo, slotRepo, runRepo, cacheSvc, metricsSvc, validate, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to initialise export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(ctx, slotRepo, exportStore, signer, validate, logr,
			cfg.Exports.WorkerConcurrency, cfg.Exports.WorkerRetries)
		defer exportSvc.Stop()
	}

	authHandler := internalhandler.NewAuthHandler(authSvc)
	leagueHandler := internalhandler.NewLeagueHandler(leagueSvc)
	teamHandler := internalhandler.NewTeamHandler(teamSvc)
	fieldHandler := internalhandler.NewFieldHandler(fieldSvc)
	ruleHandler := internalhandler.NewRuleHandler(ruleSvc)
	allocationHandler := internalhandler.NewAllocationHandler(allocationSvc)
	slotHandler := internalhandler.NewSlotHandler(slotSvc, generationSvc)
	wizardHandler := internalhandler.NewWizardHandler(wizardSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)

	protected := api.Group("")
	protected.Use(internalmiddleware.JWT(authSvc))

	protected.GET("/leagues", leagueHandler.List)
	protected.POST("/leagues", leagueHandler.Create)
	protected.GET("/leagues/:leagueId", leagueHandler.Get)
	protected.PUT("/leagues/:leagueId", leagueHandler.Update)
	protected.DELETE("/leagues/:leagueId", leagueHandler.Delete)
	protected.GET("/leagues/:leagueId/divisions", leagueHandler.ListDivisions)

	protected.GET("/leagues/:leagueId/divisions/:division/teams", teamHandler.List)
	protected.POST("/leagues/:leagueId/divisions/:division/teams", teamHandler.Create)
	protected.PUT("/leagues/:leagueId/divisions/:division/teams/:teamId", teamHandler.Update)
	protected.DELETE("/leagues/:leagueId/divisions/:division/teams/:teamId", teamHandler.Delete)

	protected.GET("/leagues/:leagueId/fields", fieldHandler.List)
	protected.POST("/leagues/:leagueId/fields", fieldHandler.Create)
	protected.GET("/leagues/:leagueId/fields/:parkCode/:fieldCode", fieldHandler.Get)

	protected.GET("/leagues/:leagueId/availability-rules", ruleHandler.List)
	protected.POST("/leagues/:leagueId/availability-rules", ruleHandler.Create)
	protected.DELETE("/leagues/:leagueId/availability-rules/:ruleId", ruleHandler.Delete)
	protected.GET("/leagues/:leagueId/availability-rules/:ruleId/exceptions", ruleHandler.ListExceptions)
	protected.POST("/leagues/:leagueId/availability-rules/:ruleId/exceptions", ruleHandler.CreateException)
	protected.DELETE("/leagues/:leagueId/availability-rules/:ruleId/exceptions/:exceptionId", ruleHandler.DeleteException)

	protected.GET("/leagues/:leagueId/field-allocations", allocationHandler.List)
	protected.POST("/leagues/:leagueId/field-allocations/import", allocationHandler.Import)

	protected.GET("/leagues/:leagueId/divisions/:division/slots", slotHandler.List)
	protected.GET("/leagues/:leagueId/divisions/:division/slots/:slotId", slotHandler.Get)
	protected.PUT("/leagues/:leagueId/divisions/:division/slots/:slotId", slotHandler.Update)
	protected.POST("/leagues/:leagueId/slots/generate", slotHandler.Generate)

	protected.POST("/leagues/:leagueId/schedule-wizard/feasibility", wizardHandler.Feasibility)
	protected.POST("/leagues/:leagueId/schedule-wizard/preview", wizardHandler.Preview)
	protected.POST("/leagues/:leagueId/schedule-wizard/apply", wizardHandler.Apply)
	protected.GET("/leagues/:leagueId/divisions/:division/schedule-runs", wizardHandler.ListRuns)
	protected.GET("/leagues/:leagueId/divisions/:division/schedule-runs/:runId", wizardHandler.GetRun)

	if exportSvc != nil {
		exportHandler := internalhandler.NewExportHandler(exportSvc)
		protected.POST("/leagues/:leagueId/schedule-exports", exportHandler.Enqueue)
		protected.GET("/exports/:exportId", exportHandler.Status)
		api.GET("/exports/:exportId/download", exportHandler.Download)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
