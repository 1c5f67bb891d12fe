package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mentor-go-api/internal/config"
	"github.com/noah-isme/mentor-go-api/internal/database"
	"github.com/noah-isme/mentor-go-api/internal/handler"
	"github.com/noah-isme/mentor-go-api/internal/middleware"
	"github.com/noah-isme/mentor-go-api/internal/models"
	"github.com/noah-isme/mentor-go-api/internal/repository"
	"github.com/noah-isme/mentor-go-api/internal/router"
	"github.com/noah-isme/mentor-go-api/internal/service"
	"github.com/noah-isme/mentor-go-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Submission{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	completer, err := ai.NewOpenAICompleter(ai.OpenAIConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.AIModel,
		MaxTokens:   cfg.AIMaxTokens,
		Temperature: cfg.AITemperature,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("failed to create completion client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	analysisService := service.NewAnalysisService(userRepo, submissionRepo, completer, redisClient, cfg.StatsCacheTTL, validate, logger)
	recommendationService := service.NewRecommendationService(userRepo, submissionRepo, completer, cfg.RecommendationWindow, logger)
	problemService := service.NewProblemService(cfg.LeetCodeEndpoint, logger)
	userService := service.NewUserService(userRepo, validate, logger)

	analysisHandler := handler.NewAnalysisHandler(analysisService, recommendationService, validate, logger)
	problemHandler := handler.NewProblemHandler(problemService, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AnalysisHandler: analysisHandler,
		ProblemHandler:  problemHandler,
		UserHandler:     userHandler,
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
