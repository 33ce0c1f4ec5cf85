package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	_ "github.com/piteco/backend/docs"
	"github.com/piteco/backend/internal/auth"
	"github.com/piteco/backend/internal/cache"
	"github.com/piteco/backend/internal/chromakey"
	"github.com/piteco/backend/internal/config"
	"github.com/piteco/backend/internal/handlers"
	"github.com/piteco/backend/internal/logger"
	"github.com/piteco/backend/internal/metrics"
	"github.com/piteco/backend/internal/middleware"
	"github.com/piteco/backend/internal/realtime"
	"github.com/piteco/backend/internal/repositories"
	"github.com/piteco/backend/internal/services"
	"github.com/piteco/backend/internal/storage"
	"github.com/piteco/backend/internal/tasks"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Piteco API
// @version 1.0
// @description Flashcards, classes, chat and PITECOIN economy for the Piteco study app

// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Piteco API")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	rdb, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()
	taskClient := tasks.NewClient(asynqClient)

	// Realtime hub, fed by events published from any process
	hub := realtime.NewHub(cfg.CORS.AllowedOrigins, logger.Logger)
	go hub.Run(ctx)
	go func() {
		if err := realtime.Subscribe(ctx, rdb, hub, logger.Logger); err != nil {
			logger.Logger.Error("Realtime subscription stopped", zap.Error(err))
		}
	}()
	publisher := realtime.NewPublisher(rdb)

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	userTokenRepo := repositories.NewUserTokenRepository(db)
	economyRepo := repositories.NewEconomyRepository(db)
	collectionRepo := repositories.NewCollectionRepository(db)
	flashcardRepo := repositories.NewFlashcardRepository(db)
	studyRepo := repositories.NewStudyRepository(db)
	classRepo := repositories.NewClassRepository(db)
	announcementRepo := repositories.NewAnnouncementRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Initialize services
	notificationService := services.NewNotificationService(notificationRepo, publisher, taskClient, logger.Logger)
	authService := services.NewAuthService(userRepo, userTokenRepo, economyRepo, tokenGenerator, logger.Logger)
	collectionService := services.NewCollectionService(collectionRepo, flashcardRepo, logger.Logger)
	studyService := services.NewStudyService(flashcardRepo, collectionRepo, studyRepo, cfg.Study.AnswerThreshold, logger.Logger)
	classService := services.NewClassService(classRepo, userRepo, notificationService, logger.Logger)
	announcementService := services.NewAnnouncementService(announcementRepo, classRepo, taskClient, logger.Logger)
	messageService := services.NewMessageService(
		messageRepo,
		userRepo,
		notificationService,
		publisher,
		cache.NewRateLimiter(rdb, logger.Logger),
		cfg.Chat.RateLimit,
		logger.Logger,
	)
	economyService := services.NewEconomyService(economyRepo, notificationService, logger.Logger)
	presenceService := services.NewPresenceService(
		cache.NewPresenceStore(rdb, cfg.Presence.HeartbeatInterval, logger.Logger),
		userRepo,
		logger.Logger,
	)
	mediaService := services.NewMediaService(
		chromakey.NewProcessor(nil),
		storage.NewLocalStorage(cfg.MediaBasePath),
		cfg.MediaBaseURL,
		logger.Logger,
	)

	// Chroma key decoding is CPU heavy, so it gets its own per-user limiter
	chromaLimiter := middleware.NewUserRateLimiter(1, 3, logger.Logger)
	chromaLimiter.StartCleanup(10*time.Minute, ctx.Done())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	collectionHandler := handlers.NewCollectionHandler(collectionService, logger.Logger)
	studyHandler := handlers.NewStudyHandler(studyService, logger.Logger)
	classHandler := handlers.NewClassHandler(classService, logger.Logger)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService, logger.Logger)
	messageHandler := handlers.NewMessageHandler(messageService, logger.Logger)
	notificationHandler := handlers.NewNotificationHandler(notificationService, logger.Logger)
	economyHandler := handlers.NewEconomyHandler(economyService, logger.Logger)
	presenceHandler := handlers.NewPresenceHandler(presenceService, logger.Logger)
	mediaHandler := handlers.NewMediaHandler(mediaService, chromaLimiter.Handler, logger.Logger)
	realtimeHandler := handlers.NewRealtimeHandler(hub, logger.Logger)

	// Initialize auth middleware
	authMiddleware := middleware.Auth(tokenGenerator, false)
	wsAuthMiddleware := middleware.Auth(tokenGenerator, true)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger.Logger))
	r.Use(middleware.Recovery(logger.Logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimit(middleware.DefaultMaxRequestSize))

	// Prometheus metrics
	r.Handle("/metrics", metrics.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Websocket events
	realtimeHandler.RegisterRoutes(r, wsAuthMiddleware)

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authMiddleware)
		collectionHandler.RegisterRoutes(r, authMiddleware)
		studyHandler.RegisterRoutes(r, authMiddleware)
		classHandler.RegisterRoutes(r, authMiddleware)
		announcementHandler.RegisterRoutes(r, authMiddleware)
		messageHandler.RegisterRoutes(r, authMiddleware)
		notificationHandler.RegisterRoutes(r, authMiddleware)
		economyHandler.RegisterRoutes(r, authMiddleware)
		presenceHandler.RegisterRoutes(r, authMiddleware)
		mediaHandler.RegisterRoutes(r, authMiddleware)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}
	// Closes websocket connections and the redis subscription
	stop()

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try the repository root when running from cmd/api
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
