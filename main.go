package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-service-api/config"
	"github.com/kendall-kelly/repair-service-api/controllers"
	"github.com/kendall-kelly/repair-service-api/middleware"
	"github.com/kendall-kelly/repair-service-api/services"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting Repair Service API server...", zap.String("env", cfg.GoEnv))

	db, err := config.ConnectDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := config.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migration completed successfully")

	opts := services.Options{
		MaxRetries: cfg.DBMaxRetries,
		CacheTTL:   cfg.ReportCacheTTL,
	}

	redisClient, err := config.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts.Cache = services.NewRedisReportCache(redisClient)
		logger.Info("Report cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	if cfg.ArchiveEnabled() {
		archive, err := services.NewS3ReportArchive(context.Background(), cfg)
		if err != nil {
			logger.Fatal("Failed to initialize report archive", zap.Error(err))
		}
		opts.Archive = archive
		logger.Info("Report archive enabled", zap.String("bucket", cfg.AWSS3Bucket))
	}

	svc := services.NewService(db, logger, opts)

	var operators *services.OperatorService
	if cfg.AuthEnabled() {
		operators = services.NewOperatorService(cfg.Auth0Domain)
	}

	var authenticate gin.HandlerFunc
	if cfg.AuthEnabled() {
		authenticate, err = middleware.EnsureValidToken(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to set up token validation", zap.Error(err))
		}
	}

	router := setupRouter(cfg, logger, controllers.New(svc, operators, logger), authenticate)

	addr := ":" + cfg.Port
	logger.Info("Server is running", zap.String("addr", "http://localhost"+addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// setupRouter builds the engine: request id, logging, CORS, then the API
// under /api/v1. When authenticate is set everything but the health check
// sits behind it, and mutating routes also need the write scope.
func setupRouter(cfg *config.Config, logger *zap.Logger, h *controllers.Controller, authenticate gin.HandlerFunc) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheck)

	api := v1.Group("")
	if authenticate != nil {
		api.Use(authenticate, middleware.RequireScopeForWrites(middleware.ScopeWriteRepairs))
	}
	h.RegisterRoutes(api)

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Repair Service API is running",
	})
}
