package main

import (
	"context"
	"log"
	"net"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := logging.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.WithError(err).Fatal("failed to run migrations")
	}

	// Redis backs the token denylist and rate limiting. The API stays up
	// without it, minus logout and throttling.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, logout and rate limiting disabled")
		redisClient = nil
	}

	var images service.ImageStore
	if cfg.S3.Bucket != "" {
		s3Config, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			logger.WithError(err).Fatal("failed to configure S3 storage")
		}
		images = service.NewImageService(s3Config)
	} else {
		logger.Warn("s3 bucket not configured, recipe images stored as data URLs")
	}

	authService := service.NewAuthService(db, redisClient, cfg.JWT.Secret, cfg.JWT.TTL)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db, images)
	shoppingService := service.NewShoppingListService(db)

	var writeLimiter *middleware.RateLimiter
	if redisClient != nil {
		writeLimiter = middleware.NewRecipeWriteRateLimiter(redisClient)
	}

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, authService, cfg.Pagination.DefaultLimit, cfg.Pagination.MaxLimit),
		api.NewRecipeHandler(recipeService, shoppingService, authService, writeLimiter, cfg.Pagination.DefaultLimit, cfg.Pagination.MaxLimit),
		api.NewTagHandler(db),
		api.NewIngredientHandler(db),
	)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	if err := server.New(addr, engine, logger).Run(); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
