package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/imged/layout-service/internal/cache"
	"github.com/imged/layout-service/internal/config"
	"github.com/imged/layout-service/internal/content"
	"github.com/imged/layout-service/internal/handlers"
	"github.com/imged/layout-service/internal/models"
	"github.com/imged/layout-service/internal/repositories/postgres"
	"github.com/imged/layout-service/internal/services"
	"github.com/imged/layout-service/internal/storage"
	"github.com/imged/layout-service/internal/utils"
	"github.com/imged/layout-service/internal/validator"
	"github.com/imged/layout-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}
	if err := db.AutoMigrate(&models.Layout{}, &models.HashedImage{}); err != nil {
		logger.Error("failed to run migrations", "error", err)
		return
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		return
	}
	defer redisClient.Close()

	eventCfg := config.LoadEventConfig()
	publisher, err := eventCfg.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		return
	}
	defer publisher.Close()

	store, err := storage.NewFileStore(cfg.ImageDir)
	if err != nil {
		logger.Error("failed to open image store", "dir", cfg.ImageDir, "error", err)
		return
	}

	repo := postgres.NewRepository(db)
	cacheService := cache.NewRedisCache(redisClient, slogger)
	v := validator.New()

	layoutService := services.NewLayoutService(repo, cacheService, publisher, slogger, v)
	imageService := services.NewImageService(repo, store, publisher, slogger, cfg.MaxUploadBytes)
	sessionService := services.NewSessionService(content.NewStoreLoader(store), slogger)
	gradingService := services.NewGradingService(layoutService, publisher, slogger)
	exportService := services.NewExportService(slogger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))

	handlerManager := handlers.NewHandlerManager(
		layoutService,
		imageService,
		sessionService,
		gradingService,
		exportService,
		v,
		logger,
	)
	handlerManager.SetupRoutes(router)

	logger.Info("starting layout service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server exited", "error", err)
	}
}
