package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"cablestock-service/internal/config"
	"cablestock-service/internal/events"
	"cablestock-service/internal/handlers"
	"cablestock-service/internal/mailer"
	"cablestock-service/internal/middleware"
	"cablestock-service/internal/models"
	"cablestock-service/internal/repository"
	"cablestock-service/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.SingleCable{},
		&models.MultiCable{},
		&models.StockMovement{},
		&models.ColorThreshold{},
		&models.CableThreshold{},
		&models.Alert{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize logrus logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize Redis client (optional - threshold cache degrades to DB reads)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		log.Println("✓ Redis threshold cache enabled")
	} else {
		log.Println("REDIS_ADDR not configured, threshold cache disabled")
	}

	// Initialize NATS event publisher (optional - graceful degradation if NATS unavailable)
	var eventPublisher *events.StockEventPublisher
	if cfg.NATSURL != "" {
		eventPublisher, err = events.NewStockEventPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("Warning: Failed to initialize NATS event publisher: %v", err)
			log.Println("Continuing without event publishing...")
		} else {
			log.Println("✓ Connected to NATS for event publishing")
			defer eventPublisher.Close()
		}
	} else {
		log.Println("NATS_URL not configured, event publishing disabled")
	}

	// Initialize repositories
	stockRepo := repository.NewStockRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	thresholdRepo := repository.NewThresholdRepository(db, redisClient)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	mail := mailer.New(cfg, logger)
	var publisher service.EventPublisher
	if eventPublisher != nil {
		publisher = eventPublisher
	}
	alertService := service.NewAlertService(alertRepo, userRepo, mail, publisher, logger)
	movementService := service.NewMovementService(stockRepo, thresholdRepo, userRepo, alertService, publisher, logger)
	importService := service.NewImportService(movementService, stockRepo, userRepo, logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)

	// Initialize handlers
	movementHandler := handlers.NewMovementHandler(movementService, cfg)
	alertHandler := handlers.NewAlertHandler(alertService, cfg)
	thresholdHandler := handlers.NewThresholdHandler(thresholdRepo)
	importHandler := handlers.NewImportHandler(importService)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userRepo)
	healthHandler := handlers.NewHealthHandler(thresholdRepo, eventPublisher)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)
	router.GET("/health/extended", healthHandler.ExtendedHealthCheck)

	api := router.Group("/api/v1")

	// Login is the only unauthenticated API route
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	movements := protected.Group("/movements")
	{
		movements.POST("", movementHandler.CreateMovement)
		movements.GET("", movementHandler.GetHistory)
		movements.POST("/import", importHandler.ImportMovements)
		movements.GET("/import/template", importHandler.GetImportTemplate)
	}

	stock := protected.Group("/stock")
	{
		stock.GET("/colors/:color", movementHandler.GetColorStock)
		stock.GET("/multi/:id", movementHandler.GetMultiStock)
	}

	multiCables := protected.Group("/multi-cables")
	{
		multiCables.POST("", middleware.RequireRole(models.RoleAdmin), movementHandler.CreateMultiCable)
		multiCables.GET("", movementHandler.ListMultiCables)
	}

	alerts := protected.Group("/alerts")
	{
		alerts.GET("", alertHandler.ListAlerts)
		alerts.GET("/:id", alertHandler.GetAlert)
		alerts.PATCH("/:id/resolve", alertHandler.ResolveAlert)
		alerts.PATCH("/:id/reactivate", alertHandler.ReactivateAlert)
		alerts.POST("/:id/notify", middleware.RequireRole(models.RoleAdmin), alertHandler.NotifyAdmins)
		alerts.POST("/notify-low-stock", middleware.RequireRole(models.RoleAdmin), alertHandler.NotifyLowStock)
		alerts.GET("/active/colors/:color", alertHandler.HasActiveForColor)
		alerts.GET("/active/multi/:id", alertHandler.HasActiveForMulti)
	}

	thresholds := protected.Group("/thresholds")
	{
		thresholds.PUT("/colors", middleware.RequireRole(models.RoleAdmin), thresholdHandler.SetColorThreshold)
		thresholds.GET("/colors", thresholdHandler.ListColorThresholds)
		thresholds.PUT("/multi", middleware.RequireRole(models.RoleAdmin), thresholdHandler.SetCableThreshold)
		thresholds.GET("/multi", thresholdHandler.ListCableThresholds)
	}

	users := protected.Group("/users")
	users.Use(middleware.RequireRole(models.RoleAdmin))
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/admin-recipients", userHandler.ListAdminRecipients)
	}

	reports := protected.Group("/reports")
	{
		reports.GET("/stock-summary", movementHandler.StockSummary)
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Cable stock service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Shutting down cablestock-service...")
	log.Println("Cable stock service stopped")
}
