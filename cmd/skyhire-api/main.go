package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"github.com/MehdiBenameur/skyhire/internal/config"
	"github.com/MehdiBenameur/skyhire/internal/database/minio"
	"github.com/MehdiBenameur/skyhire/internal/database/mongo"
	"github.com/MehdiBenameur/skyhire/internal/database/redis"
	"github.com/MehdiBenameur/skyhire/internal/events"
	"github.com/MehdiBenameur/skyhire/internal/handlers"
	"github.com/MehdiBenameur/skyhire/internal/middleware"
	"github.com/MehdiBenameur/skyhire/internal/repository"
	"github.com/MehdiBenameur/skyhire/internal/service"
	"github.com/MehdiBenameur/skyhire/pkg/discovery"
)

func setupLogging(logDir string) (*os.File, error) {
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := setupLogging(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	mongoClient, db, err := mongo.Connect(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	redisClient := redis.Connect(&cfg.Redis)

	fileStore, err := minio.Connect(&cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserAuthRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	cvRepo := repository.NewCVRepository(db)
	jobRepo := repository.NewJobRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	savedRepo := repository.NewSavedJobRepository(db)
	redisRepo := repository.NewRedisRepo(redisClient)

	// Create database indexes
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	indexedRepos := []interface {
		CreateIndexes(context.Context) error
	}{userRepo, profileRepo, cvRepo, jobRepo, appRepo, savedRepo}
	for _, r := range indexedRepos {
		if err := r.CreateIndexes(indexCtx); err != nil {
			log.Printf("Warning: Failed to create database indexes: %v", err)
		}
	}
	cancelIndex()

	eventPublisher, err := events.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.EventExchange, cfg.RabbitMQ.AnalysisQueue)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	// Initialize services
	jwtService := service.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	userService := service.NewUserService(userRepo, redisRepo, eventPublisher)
	profileService := service.NewProfileService(profileRepo)
	cvService := service.NewCVService(cvRepo, fileStore, eventPublisher, cfg.CV.MaxFileSize)
	jobService := service.NewJobService(jobRepo, appRepo, savedRepo, profileService, redisRepo, eventPublisher, &cfg.Jobs)

	analyzer := service.NewKeywordAnalyzer(fileStore)
	analysisService := service.NewAnalysisService(cvRepo, analyzer, eventPublisher)

	analysisConsumer, err := events.NewAnalysisConsumer(cfg.RabbitMQ.URI, cfg.RabbitMQ.AnalysisQueue, analysisService, eventPublisher, cfg.CV.AnalysisRetries)
	if err != nil {
		log.Printf("Warning: Failed to initialize analysis consumer: %v", err)
	} else {
		if err := analysisConsumer.Start(); err != nil {
			log.Printf("Warning: Failed to start analysis consumer: %v", err)
			analysisConsumer.Close()
			analysisConsumer = nil
		} else {
			log.Println("Successfully started analysis consumer")
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    int(cfg.CV.MaxFileSize) + 1024*1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"*"},
	}))

	authGuard := middleware.RequireAuth(jwtService)

	// Initialize and register handlers
	handlers.NewAuthHandler(userService, jwtService, cfg.Server.ServiceName).RegisterRoutes(app)
	handlers.NewUserHandler(profileService, authGuard).RegisterRoutes(app)
	handlers.NewCVHandler(cvService, profileService, authGuard).RegisterRoutes(app)
	handlers.NewJobHandler(jobService, authGuard).RegisterRoutes(app)

	var registry *discovery.ServiceRegistry
	if cfg.Consul.Enabled {
		registry, err = discovery.NewServiceRegistry(cfg)
		if err != nil {
			log.Printf("Warning: Failed to create service registry: %v", err)
		} else if err := registry.Register(); err != nil {
			log.Printf("Warning: Failed to register with Consul: %v", err)
		}
	}

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if analysisConsumer != nil {
		if err := analysisConsumer.Close(); err != nil {
			log.Printf("Error closing analysis consumer: %v", err)
		}
	}

	if err := eventPublisher.Close(); err != nil {
		log.Printf("Error closing event publisher: %v", err)
	}

	mongo.Disconnect(mongoClient)

	if registry != nil {
		if err := registry.Deregister(); err != nil {
			log.Printf("Error deregistering from service discovery: %v", err)
		}
	}

	<-doneChan
	log.Println("Server shutdown complete")
}
