package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snaptika-api/cache"
	"snaptika-api/config"
	"snaptika-api/database"
	"snaptika-api/jobs"
	"snaptika-api/middleware"
	"snaptika-api/routes"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	if err := database.SeedData(db); err != nil {
		logger.Warn("Failed to seed database", zap.Error(err))
	}

	cacheClient, err := cache.New(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer cacheClient.Close()

	deps := routes.BuildServices(db, cacheClient, cfg, logger)

	storyCleanup := jobs.NewStoryCleanupJob(deps.Stories, logger)
	storyCleanup.Start()
	defer storyCleanup.Stop()

	monetizationJob := jobs.NewMonetizationJob(deps.Monetization, logger)
	monetizationJob.Start()
	defer monetizationJob.Stop()

	router := gin.Default()
	router.Use(middleware.SetupCORS())
	router.Use(middleware.RateLimit(300, 50))

	routes.SetupRoutes(router, deps)

	logger.Info("Starting server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
