package server

import (
	"context"
	"log"
	"net/http"
	"os"

	"learnweave/configs"
	"learnweave/internal/dbs"
	"learnweave/internal/handlers"
	"learnweave/internal/logger"
	"learnweave/internal/middlewares"
	"learnweave/internal/repositories"
	"learnweave/internal/services"
	"learnweave/internal/workerpool"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const notifyGroup = "notifiers"

func StartGinServer() {
	logger.InitLogger()
	defer logger.SyncLogger()

	config := configs.LoadConfig()

	db, err := dbs.Init(config)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := dbs.InitRedis(ctx, config.RedisAddr); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer dbs.CloseRedis()

	if err := os.MkdirAll(config.UploadDir, 0755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	cache := services.NewRedisCache(dbs.RedisClient)
	tokenService := services.NewTokenService(config.JWTSecret)
	otpStore := services.NewOTPStore(cache)
	mailer := services.NewSMTPMailer(config.SMTPHost, config.SMTPPort, config.SMTPEmail, config.SMTPPassword)
	compiler := services.NewCompilerClient(config.CompilerURL, config.CompilerAPIKey, config.CompilerAPIHost)
	aiClient := services.NewAIClient(config.AIEndpoint, config.AIAPIKey)

	userRepo := repositories.NewUserRepository(db)
	challengeRepo := repositories.NewChallengeRepository(db, cache)
	solutionRepo := repositories.NewSolutionRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	attemptRepo := repositories.NewAttemptRepository(db)

	evaluator := services.NewEvaluator(compiler, challengeRepo, solutionRepo)

	pool := workerpool.NewNotifyWorkerPool(config.NumberOfWorkers, dbs.RedisClient,
		handlers.NotificationStream, notifyGroup, notificationRepo)
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}
	defer pool.Stop()

	router := gin.New()
	router.Use(middlewares.ErrorHandlerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: config.ClientOrigin != "*",
	}))

	router.Static("/uploads", config.UploadDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	auth := middlewares.AuthMiddleware(tokenService)

	handlers.NewAuthHandler(userRepo, tokenService, otpStore, mailer).RegisterRoutes(router)
	handlers.NewProfileHandler(userRepo, config.UploadDir).RegisterRoutes(router, auth)
	handlers.NewChallengeHandler(challengeRepo, solutionRepo, userRepo, dbs.RedisClient).RegisterRoutes(router, auth)
	handlers.NewEvaluationHandler(evaluator).RegisterRoutes(router, auth)
	handlers.NewNotificationHandler(notificationRepo).RegisterRoutes(router, auth)
	handlers.NewStatsHandler(userRepo, challengeRepo, solutionRepo).RegisterRoutes(router, auth)
	handlers.NewAttemptHandler(attemptRepo, userRepo).RegisterRoutes(router, auth)
	handlers.NewAIHandler(aiClient, challengeRepo).RegisterRoutes(router, auth)

	port := ":" + config.ServerPort
	log.Printf("Starting server on port %s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
