package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"recipe-organizer/internal/api/handlers"
	"recipe-organizer/internal/api/routes"
	"recipe-organizer/internal/middleware"
	"recipe-organizer/internal/utils"
	"recipe-organizer/internal/utils/mailing"
	"recipe-organizer/internal/utils/storage"
	"recipe-organizer/pkg/auth"
	"recipe-organizer/pkg/jwt"
	"recipe-organizer/pkg/recipe"
	"recipe-organizer/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewApp(cfg *utils.Config, db *gorm.DB, log *zap.Logger) (*fiber.App, error) {
	utils.InitValidator()
	validator := utils.Validate

	app := fiber.New(fiber.Config{
		AppName:      "recipe-organizer",
		BodyLimit:    int(cfg.UploadMaxSize) + 1<<20,
		ErrorHandler: middleware.ErrorHandler(cfg, log),
	})

	// setting up logging and recovery
	accessLog, err := accessLogOutput(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !cfg.IsProduction(),
	}))
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   cfg.DBTimeZone,
		Output:     accessLog,
	}))

	// utils
	mailer := mailing.NewMailer(cfg)
	var s3 storage.AwsS3
	if cfg.StorageEnabled() {
		s3, err = storage.NewAwsS3(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("AWS_S3_BUCKET not set, recipe image uploads are disabled")
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	jwtService := jwt.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenLifetime())
	resolver := auth.NewResolver(jwtService, userRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, s3, validator, log, cfg.UploadMaxSize)
	userService := user.NewUserService(userRepository, jwtService, recipeService, mailer, validator, log, cfg.AppURL)

	// Handler
	userHandler := handlers.NewUserHandler(userService, cfg.IsProduction())
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	// routes
	routesConfig := routes.Config{
		App:           app,
		UserHandler:   userHandler,
		RecipeHandler: recipeHandler,
		Middleware:    middleware.NewMiddleware(cfg, resolver, log),
	}
	routesConfig.Setup()
	return app, nil
}

func accessLogOutput(path string) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open access log: %w", err)
	}
	return file, nil
}
