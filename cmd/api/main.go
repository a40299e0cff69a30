package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/teamcal/teamcal-api/api/swagger"
	"github.com/teamcal/teamcal-api/internal/handler"
	"github.com/teamcal/teamcal-api/internal/middleware"
	"github.com/teamcal/teamcal-api/internal/models"
	"github.com/teamcal/teamcal-api/internal/repository"
	"github.com/teamcal/teamcal-api/internal/service"
	"github.com/teamcal/teamcal-api/pkg/cache"
	"github.com/teamcal/teamcal-api/pkg/config"
	"github.com/teamcal/teamcal-api/pkg/database"
	"github.com/teamcal/teamcal-api/pkg/logger"
	corsmiddleware "github.com/teamcal/teamcal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/teamcal/teamcal-api/pkg/middleware/requestid"
)

// @title TeamCal API
// @version 1.0.0
// @description Internal team calendar and leave-request service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, calendar cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	eventRepo := repository.NewEventRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	var directory *service.DirectoryService
	if cfg.LDAP.Enabled {
		directory = service.NewDirectoryService(cfg.LDAP, logr)
	}

	authSvc := service.NewAuthService(userRepo, teamRepo, directoryOrNil(directory), validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	calendarSvc := service.NewCalendarService(eventRepo, cacheRepo, cfg.Calendar.CacheTTL, logr)
	eventSvc := service.NewEventService(eventRepo, userRepo, cacheRepo, validate, logr)
	teamSvc := service.NewTeamService(teamRepo)
	userSvc := service.NewUserService(userRepo, validate, logr)
	metricsSvc := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc, metricsSvc)
	eventHandler := handler.NewEventHandler(eventSvc, metricsSvc)
	teamHandler := handler.NewTeamHandler(teamSvc)
	userHandler := handler.NewUserHandler(userSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/me", authHandler.Me)
	authed.GET("/calendar", calendarHandler.List)
	authed.POST("/events", eventHandler.Create)
	authed.GET("/teams", teamHandler.List)
	authed.GET("/teams/:id", teamHandler.Get)

	if cfg.Export.Enabled {
		exportSvc := service.NewExportService(calendarSvc, cfg.Export.MaxRows)
		exportHandler := handler.NewExportHandler(exportSvc)
		authed.GET("/calendar/export", exportHandler.Export)
	}

	admin := authed.Group("", middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/events/pending", calendarHandler.Pending)
	admin.POST("/events/:id/approve", eventHandler.Approve)
	admin.POST("/events/:id/reject", eventHandler.Reject)
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "ldap", cfg.LDAP.Enabled)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// directoryOrNil keeps the auth service's directory dependency a typed
// nil-free interface value.
func directoryOrNil(d *service.DirectoryService) service.DirectoryAuthenticator {
	if d == nil {
		return nil
	}
	return d
}
