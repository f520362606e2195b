package main

import (
	"os"

	"github.com/fit-quest/api-go/config"
	"github.com/fit-quest/api-go/middleware"
	"github.com/fit-quest/api-go/routes"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded", zap.Error(err))
	}

	db := config.InitDB()

	rdb, err := config.InitRedis()
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	var limiter middleware.AttemptLimiter
	if rdb != nil {
		limiter = middleware.NewRedisAttemptLimiter(rdb)
	} else {
		limiter = middleware.NewMemoryAttemptLimiter()
		logger.Warn("REDIS_ADDR not set, using in-memory attempt limiter")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())

	routes.SetupRoutes(r, db, limiter)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("starting server", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
