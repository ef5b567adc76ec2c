package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"craftlink_backend/database"
	"craftlink_backend/internal/auth"
	"craftlink_backend/internal/config"
	"craftlink_backend/internal/email"
	"craftlink_backend/internal/handlers"
	"craftlink_backend/internal/logger"
	"craftlink_backend/internal/middleware"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/routes"
	"craftlink_backend/internal/services"
	"craftlink_backend/internal/storage"
	"craftlink_backend/internal/validator"
	"craftlink_backend/internal/webhook"
	"craftlink_backend/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Run wires the full application and serves until SIGINT or SIGTERM.
func Run() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.Init(cfg.JWT.Secret, cfg.JWT.TTL)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	router := SetupRouter(cfg, db)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    address,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

// SetupRouter builds the gin engine with all dependencies wired. Tests call
// this directly with their own config and database.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	store, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	mailer := newMailer(cfg)

	hub := realtime.NewHub()
	go hub.Run()

	var verifier *webhook.Verifier
	if cfg.Webhook.ClerkSecret != "" {
		verifier, err = webhook.NewVerifier(cfg.Webhook.ClerkSecret)
		if err != nil {
			logger.Fatal("Invalid webhook secret", "error", err)
		}
	} else {
		logger.Warn("Webhook secret not configured, /webhooks/clerk will reject requests")
	}

	container := initializeServices(cfg, db, store, mailer, hub)
	appHandlers := initializeHandlers(container, hub, verifier)

	router := initializeGinRouter()
	routes.RegisterRoutes(router, appHandlers)
	return router
}

func newMailer(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP not configured, emails are logged instead of sent")
		return email.NewLogProvider()
	}
	renderer := email.NewHTMLRenderer(cfg.Email.TemplatesDir)
	return email.NewSMTPProvider(&email.Config{
		Host:         cfg.Email.SMTPHost,
		Port:         cfg.Email.SMTPPort,
		Username:     cfg.Email.SMTPUsername,
		Password:     cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		UseTLS:       cfg.Email.UseTLS,
		TemplatesDir: cfg.Email.TemplatesDir,
		BaseURL:      cfg.Email.BaseURL,
	}, renderer)
}

func initializeServices(cfg *config.Config, db *gorm.DB, store storage.Storage, mailer email.Provider, hub *realtime.Hub) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	portfolioRepo := repositories.NewPortfolioRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	proposalRepo := repositories.NewProposalRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)
	listingRepo := repositories.NewServiceListingRepository(db)
	uploadRepo := repositories.NewUploadRepository(db)

	notificationService := services.NewNotificationService(notificationRepo, hub)

	return &services.ServiceContainer{
		Auth:         services.NewAuthService(db, userRepo, profileRepo, refreshTokenRepo, mailer),
		User:         services.NewUserService(userRepo),
		Profile:      services.NewProfileService(profileRepo),
		Portfolio:    services.NewPortfolioService(portfolioRepo, profileRepo, uploadRepo),
		Job:          services.NewJobService(jobRepo, userRepo, notificationService),
		Proposal:     services.NewProposalService(db, proposalRepo, jobRepo, userRepo, notificationService),
		Notification: notificationService,
		Rating:       services.NewRatingService(db, ratingRepo, jobRepo, profileRepo),
		Listing:      services.NewServiceListingService(db, listingRepo, userRepo),
		Upload: services.NewUploadService(uploadRepo, store, services.UploadConfig{
			MaxSize:      cfg.Upload.MaxSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
			Provider:     cfg.Storage.Type,
		}),
	}
}

func initializeHandlers(container *services.ServiceContainer, hub *realtime.Hub, verifier *webhook.Verifier) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		Auth:         handlers.NewAuthHandler(base, container.Auth),
		User:         handlers.NewUserHandler(base, container.User),
		Profile:      handlers.NewProfileHandler(base, container.Profile),
		Portfolio:    handlers.NewPortfolioHandler(base, container.Portfolio),
		Job:          handlers.NewJobHandler(base, container.Job, container.Proposal),
		Proposal:     handlers.NewProposalHandler(base, container.Proposal),
		Notification: handlers.NewNotificationHandler(base, container.Notification, hub),
		Rating:       handlers.NewRatingHandler(base, container.Rating),
		Listing:      handlers.NewServiceListingHandler(base, container.Listing),
		Upload:       handlers.NewUploadHandler(base, container.Upload),
		Webhook:      handlers.NewWebhookHandler(base, verifier, container.Auth),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}
